package user

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"guidely/models"

	"github.com/go-redis/redis/v8"
)

const registrationSessionPrefix = "regSession:"

// RegistrationSession holds the pending registration until the phone OTP is
// verified. Lives in Redis with a TTL so half-finished signups expire.
type RegistrationSession struct {
	Data          models.UserRegistrationData `json:"data"`
	OTPStatus     string                      `json:"otpStatus"`
	CreatedAt     time.Time                   `json:"createdAt"`
	LastUpdatedAt time.Time                   `json:"lastUpdatedAt"`
}

// SaveRegistrationSession saves the registration session in Redis with a TTL.
func SaveRegistrationSession(client *redis.Client, sessionID string, session RegistrationSession, ttl time.Duration) error {
	session.LastUpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal registration session: %w", err)
	}
	ctx := context.Background()
	if err := client.Set(ctx, registrationSessionPrefix+sessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save registration session: %w", err)
	}
	return nil
}

// GetRegistrationSession retrieves the registration session from Redis.
func GetRegistrationSession(client *redis.Client, sessionID string) (*RegistrationSession, error) {
	ctx := context.Background()
	data, err := client.Get(ctx, registrationSessionPrefix+sessionID).Result()
	if err != nil {
		return nil, err
	}
	var session RegistrationSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registration session: %w", err)
	}
	return &session, nil
}

// DeleteRegistrationSession removes a registration session from Redis.
func DeleteRegistrationSession(client *redis.Client, sessionID string) error {
	ctx := context.Background()
	return client.Del(ctx, registrationSessionPrefix+sessionID).Err()
}
