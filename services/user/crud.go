package user

import (
	"fmt"

	"guidely/models"
)

// GetUserByID retrieves a user by ID.
func (s *DefaultUserService) GetUserByID(userID string) (*models.User, error) {
	usr, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return usr, nil
}

// ListGuides retrieves all registered guides.
func (s *DefaultUserService) ListGuides() ([]models.User, error) {
	return s.Repo.ListGuides()
}

// UpdateFCMToken stores the user's current push token.
func (s *DefaultUserService) UpdateFCMToken(userID, token string) error {
	usr, err := s.Repo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}
	usr.FCMToken = token
	return s.Repo.Update(usr)
}
