package handlers

import (
	userRepo "guidely/database/repository/user"
)

// HandlerBundle carries the assembled handlers and the repositories the
// route-level middleware needs.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	User    *UserHandler
	Booking *BookingHandler
	Webhook *WebhookHandler
	Admin   *AdminHandler
}
