package escrow

import (
	"context"

	bookingRepo "guidely/database/repository/booking"
	ledgerRepo "guidely/database/repository/ledger"
	userRepo "guidely/database/repository/user"
	"guidely/models"
	"guidely/services/notification"
	"guidely/services/payment"

	"go.uber.org/zap"
)

// EscrowService governs the booking escrow state machine: payment holds,
// the dual-party meet-up confirmation, and fund release.
type EscrowService interface {
	// CreateBooking validates the traveler/guide pair, requests a payment
	// hold and persists the booking in PendingPayment.
	CreateBooking(ctx context.Context, travelerID string, req models.BookingRequest) (*models.BookingResponse, error)

	// HandlePaymentAuthorized applies PendingPayment -> PaidEscrowed for the
	// given authorization. Idempotent: a re-delivered confirmation is a no-op.
	HandlePaymentAuthorized(ctx context.Context, bookingID, authorizationID string) (*models.Booking, error)

	// SubmitConfirmation records one party's meet-up confirmation and, once
	// both sides have confirmed, captures the held funds.
	SubmitConfirmation(ctx context.Context, submitterID, bookingID, code string) (*models.Booking, error)

	// RetryCapture re-attempts capture for a Disputed booking (admin path).
	RetryCapture(ctx context.Context, bookingID string) (*models.Booking, error)

	// CancelBooking cancels a booking before completion, releasing any hold.
	CancelBooking(ctx context.Context, callerID, bookingID string) (*models.Booking, error)

	// GetBooking returns a booking visible to one of its participants.
	GetBooking(ctx context.Context, callerID, bookingID string) (*models.Booking, error)

	// ListBookings returns the caller's bookings, newest first.
	ListBookings(ctx context.Context, callerID string) ([]models.Booking, error)

	// ListDisputed returns bookings awaiting manual capture recovery.
	ListDisputed(ctx context.Context) ([]models.Booking, error)

	// Transactions returns the ledger rows of a booking, participant-scoped.
	Transactions(ctx context.Context, callerID, bookingID string) ([]models.Transaction, error)
}

// DefaultEscrowService is the production implementation.
type DefaultEscrowService struct {
	Bookings     bookingRepo.BookingRepository
	Ledger       ledgerRepo.LedgerRepository
	Users        userRepo.UserRepository
	Gateway      payment.Gateway
	Notification notification.NotificationService
	Logger       *zap.Logger
}
