package payment

import (
	"context"

	"guidely/models"
)

// Gateway is the two-phase payment collaborator. Authorize places a hold
// without moving funds; Capture moves the held funds; Release cancels the
// hold. The escrow core never charges immediately.
type Gateway interface {
	Authorize(ctx context.Context, amountMinor int64, currency, customerRef, bookingID string) (*models.Authorization, error)
	Capture(ctx context.Context, authorizationID string) (string, error)
	Release(ctx context.Context, authorizationID string) error
}
