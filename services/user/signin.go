package user

import (
	"context"
	"fmt"
	"time"

	"guidely/utils"

	"guidely/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 72 * time.Hour

// Authenticate checks email/password and issues a fresh token.
func (s *DefaultUserService) Authenticate(email, password string) (*AuthResponse, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	usr, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("Authenticate: lookup failed", zap.Error(err))
		return nil, fmt.Errorf("authentication failed")
	}
	if usr == nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return s.issueToken(usr)
}

// issueToken generates a JWT, stores its hash on the user and in the auth
// cache, and builds the response.
func (s *DefaultUserService) issueToken(usr *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(usr.ID, usr.Email, tokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	tokenHash := utils.HashToken(token)
	if err := s.Repo.SetTokenHash(usr.ID, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to store token hash: %w", err)
	}

	cacheKey := utils.AuthCachePrefix + usr.ID
	if err := utils.GetAuthCacheClient().Set(context.Background(), cacheKey, tokenHash, utils.AuthCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache token hash", zap.Error(err))
	}

	return &AuthResponse{
		ID:       usr.ID,
		Token:    token,
		Username: usr.Username,
		Email:    usr.Email,
		Role:     usr.Role,
	}, nil
}

// RevokeAuthToken invalidates the user's current token.
func (s *DefaultUserService) RevokeAuthToken(userID string) error {
	if err := s.Repo.SetTokenHash(userID, ""); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	cacheKey := utils.AuthCachePrefix + userID
	if err := utils.GetAuthCacheClient().Del(context.Background(), cacheKey).Err(); err != nil {
		utils.GetLogger().Warn("failed to clear auth cache on revoke", zap.Error(err))
	}
	return nil
}
