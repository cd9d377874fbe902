package notification

import (
	"context"

	"guidely/models"
)

// NotificationService dispatches out-of-band messages to participants.
// All sends are best-effort: the escrow core logs failures and moves on,
// never rolling payment state back over a missed notification.
type NotificationService interface {
	// DispatchMeetupCodes delivers each party's own meet-up code to
	// themselves once funds are escrowed.
	DispatchMeetupCodes(ctx context.Context, booking *models.Booking) error
	// NotifyCompleted tells both parties that funds were released.
	NotifyCompleted(ctx context.Context, booking *models.Booking) error
}
