package notification

import (
	"context"
	"encoding/json"
	"fmt"

	userRepo "guidely/database/repository/user"
	"guidely/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// TypeMeetupCode is the task type for delivering one meet-up code.
	TypeMeetupCode = "meetup:code"
	// TypeBookingPush is the task type for a generic booking push.
	TypeBookingPush = "booking:push"
)

// MeetupCodePayload is the queued payload for one code delivery.
type MeetupCodePayload struct {
	BookingID   string `json:"bookingId"`
	UserID      string `json:"userId"`
	Code        string `json:"code"`
	Destination string `json:"destination"`
}

// BookingPushPayload is the queued payload for a generic booking push.
type BookingPushPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// TaskHandlers consumes notification tasks and sends FCM pushes.
type TaskHandlers struct {
	Users  userRepo.UserRepository
	Logger *zap.Logger
}

// HandleMeetupCode sends a participant their own meet-up code.
func (h *TaskHandlers) HandleMeetupCode(ctx context.Context, t *asynq.Task) error {
	var p MeetupCodePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("meetup code payload: %w: %w", err, asynq.SkipRetry)
	}

	body := fmt.Sprintf("Your meet-up code for %s is %s. Your counterpart will ask for it when you meet.", p.Destination, p.Code)
	return h.push(ctx, p.UserID, "Trip confirmed", body, map[string]string{
		"bookingId": p.BookingID,
		"kind":      "meetupCode",
	})
}

// HandleBookingPush sends a generic booking notification.
func (h *TaskHandlers) HandleBookingPush(ctx context.Context, t *asynq.Task) error {
	var p BookingPushPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("booking push payload: %w: %w", err, asynq.SkipRetry)
	}
	return h.push(ctx, p.UserID, p.Title, p.Body, map[string]string{
		"bookingId": p.BookingID,
		"kind":      "booking",
	})
}

func (h *TaskHandlers) push(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := h.Users.GetByID(userID)
	if err != nil {
		return fmt.Errorf("push: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		// No registered device; nothing to retry.
		h.Logger.Warn("push skipped, user has no FCM token", zap.String("userId", userID))
		return nil
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("push: failed to send FCM message: %w", err)
	}
	return nil
}
