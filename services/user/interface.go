package user

import (
	userRepo "guidely/database/repository/user"
	"guidely/models"
)

// UserService handles account lifecycle for travelers and guides.
type UserService interface {
	// Registration: phone OTP handshake, then finalize.
	InitiateRegistration(data models.UserRegistrationData) (string, error)
	FinalizeRegistration(sessionID, providedOTP string) (*AuthResponse, error)

	// Authentication.
	Authenticate(email, password string) (*AuthResponse, error)
	RevokeAuthToken(userID string) error

	// Lookup.
	GetUserByID(userID string) (*models.User, error)
	ListGuides() ([]models.User, error)

	// Push channel.
	UpdateFCMToken(userID, token string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

// AuthResponse contains the user's ID, token, and additional details.
type AuthResponse struct {
	ID       string      `json:"id"`
	Token    string      `json:"token"`
	Username string      `json:"username,omitempty"`
	Email    string      `json:"email,omitempty"`
	Role     models.Role `json:"role,omitempty"`
}
