package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"guidely/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DefaultNotificationService enqueues delivery tasks; the background worker
// in cron/worker.go does the actual sends, so retries live in the queue
// instead of the request path.
type DefaultNotificationService struct {
	Client *asynq.Client
	Logger *zap.Logger
}

// NewDefaultNotificationService wires the asynq producer.
func NewDefaultNotificationService(client *asynq.Client, logger *zap.Logger) (*DefaultNotificationService, error) {
	if client == nil {
		return nil, fmt.Errorf("notification service initialization error: asynq client is nil")
	}
	return &DefaultNotificationService{Client: client, Logger: logger}, nil
}

// DispatchMeetupCodes queues one code delivery per participant. Each party
// receives only their own code; presenting it is how the counterpart later
// proves the meet-up happened.
func (s *DefaultNotificationService) DispatchMeetupCodes(ctx context.Context, booking *models.Booking) error {
	deliveries := []MeetupCodePayload{
		{BookingID: booking.ID, UserID: booking.TravelerID, Code: booking.OTPForTraveler, Destination: booking.Destination},
		{BookingID: booking.ID, UserID: booking.GuideID, Code: booking.OTPForGuide, Destination: booking.Destination},
	}

	for _, d := range deliveries {
		payload, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("failed to marshal meetup code payload: %w", err)
		}
		task := asynq.NewTask(TypeMeetupCode, payload)
		if _, err := s.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)); err != nil {
			return fmt.Errorf("failed to enqueue meetup code dispatch: %w", err)
		}
	}

	s.Logger.Info("meetup codes queued for dispatch", zap.String("bookingId", booking.ID))
	return nil
}

// NotifyCompleted queues a funds-released push to both parties.
func (s *DefaultNotificationService) NotifyCompleted(ctx context.Context, booking *models.Booking) error {
	pushes := []BookingPushPayload{
		{
			BookingID: booking.ID,
			UserID:    booking.TravelerID,
			Title:     "Trip completed",
			Body:      fmt.Sprintf("Your payment for %s has been released to your guide.", booking.Destination),
		},
		{
			BookingID: booking.ID,
			UserID:    booking.GuideID,
			Title:     "Payout on the way",
			Body:      fmt.Sprintf("Funds for the %s trip have been captured and are headed your way.", booking.Destination),
		},
	}

	for _, p := range pushes {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal booking push payload: %w", err)
		}
		task := asynq.NewTask(TypeBookingPush, payload)
		if _, err := s.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)); err != nil {
			return fmt.Errorf("failed to enqueue booking push: %w", err)
		}
	}
	return nil
}
