package user

import (
	"fmt"
	"time"

	"guidely/models"
	"guidely/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// InitiateRegistration validates basic data, checks for duplicates, creates a
// registration session, initiates the phone OTP, and returns the session ID.
func (s *DefaultUserService) InitiateRegistration(data models.UserRegistrationData) (string, error) {
	if data.Email == "" || data.Password == "" || data.Username == "" || data.PhoneNumber == "" {
		return "", fmt.Errorf("all fields are required")
	}
	if data.Role != models.RoleTraveler && data.Role != models.RoleGuide {
		return "", fmt.Errorf("role must be traveler or guide")
	}
	if data.Role == models.RoleGuide && data.GuideProfile == nil {
		return "", fmt.Errorf("guide registration requires a guide profile")
	}

	existing, err := s.Repo.GetByEmail(data.Email)
	if err != nil {
		utils.GetLogger().Error("InitiateRegistration: failed to check for existing user", zap.Error(err))
		return "", fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return "", fmt.Errorf("a user with this email already exists")
	}

	sessionClient := utils.GetAuthCacheClient()
	sessionID := fmt.Sprintf("%s:%s", data.Email, uuid.New().String())

	regSession := RegistrationSession{
		Data:      data,
		OTPStatus: "pending",
		CreatedAt: time.Now(),
	}

	if err := utils.InitiatePhoneOTP(sessionID, data.PhoneNumber); err != nil {
		return "", fmt.Errorf("failed to initiate OTP: %w", err)
	}

	if err := SaveRegistrationSession(sessionClient, sessionID, regSession, 30*time.Minute); err != nil {
		return "", fmt.Errorf("failed to save registration session: %w", err)
	}

	return sessionID, nil
}

// FinalizeRegistration verifies the phone OTP, persists the user record,
// clears the session, and returns an AuthResponse.
func (s *DefaultUserService) FinalizeRegistration(sessionID, providedOTP string) (*AuthResponse, error) {
	sessionClient := utils.GetAuthCacheClient()
	regSession, err := GetRegistrationSession(sessionClient, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve registration session")
	}

	if err := utils.VerifyPhoneOTPRecord(sessionID, providedOTP); err != nil {
		return nil, fmt.Errorf("OTP verification failed: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(regSession.Data.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("FinalizeRegistration: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	userObj := models.User{
		ID:           uuid.New().String(),
		Username:     regSession.Data.Username,
		Email:        regSession.Data.Email,
		PhoneNumber:  regSession.Data.PhoneNumber,
		PasswordHash: string(hashedPassword),
		Role:         regSession.Data.Role,
		GuideProfile: regSession.Data.GuideProfile,
	}

	if err := s.Repo.Create(&userObj); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := DeleteRegistrationSession(sessionClient, sessionID); err != nil {
		utils.GetLogger().Warn("failed to delete registration session", zap.Error(err))
	}

	return s.issueToken(&userObj)
}
