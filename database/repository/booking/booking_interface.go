package bookingRepo

import (
	"context"

	"guidely/models"
)

// BookingRepository defines data access for bookings, including the
// conditional status transitions the escrow service relies on. Every
// transition method matches on the current status so a lost race or a
// re-delivered event surfaces as ErrNoTransition instead of a double write.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByParticipant(ctx context.Context, userID string) ([]models.Booking, error)
	ListByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)

	// MarkEscrowed moves PendingPayment -> PaidEscrowed for the booking with
	// the given authorization id, storing the two meet-up codes. Returns the
	// updated booking, or ErrNoTransition if the booking is already past
	// PendingPayment (idempotent webhook re-delivery).
	MarkEscrowed(ctx context.Context, bookingID, authorizationID, otpForTraveler, otpForGuide string) (*models.Booking, error)

	// SetConfirmation sets one party's confirmation flag while the booking is
	// PaidEscrowed. Setting an already-true flag is a no-op, not an error.
	SetConfirmation(ctx context.Context, bookingID string, role models.Role) error

	// ClaimCapture moves PaidEscrowed -> OtpVerified only when both
	// confirmation flags are true. At most one caller can win the claim,
	// which bounds capture to once per authorization. ErrNoTransition means
	// the claim was not available (not both-confirmed, or someone else won).
	ClaimCapture(ctx context.Context, bookingID string) (*models.Booking, error)

	// ReclaimCapture moves Disputed -> OtpVerified for manual capture retry.
	// The both-flags condition still applies.
	ReclaimCapture(ctx context.Context, bookingID string) (*models.Booking, error)

	// Finalize moves OtpVerified -> Completed or Disputed after the capture
	// attempt resolves.
	Finalize(ctx context.Context, bookingID string, outcome models.BookingStatus) (*models.Booking, error)

	// Cancel moves PendingPayment or PaidEscrowed -> Cancelled and returns
	// the booking as it was before cancellation (its status tells the caller
	// whether a hold needs releasing).
	Cancel(ctx context.Context, bookingID string) (*models.Booking, error)
}
