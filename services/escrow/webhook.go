package escrow

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "guidely/database/repository/booking"
	"guidely/models"
	"guidely/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandlePaymentAuthorized applies the PendingPayment -> PaidEscrowed
// transition for an authorized hold. The conditional update matches a
// booking at most once, so a re-delivered confirmation neither duplicates
// ledger rows nor re-triggers code dispatch.
func (s *DefaultEscrowService) HandlePaymentAuthorized(ctx context.Context, bookingID, authorizationID string) (*models.Booking, error) {
	if bookingID == "" || authorizationID == "" {
		return nil, &ValidationError{Field: "event", Message: "missing booking or authorization id"}
	}

	otpForTraveler, otpForGuide, err := generateMeetupCodePair()
	if err != nil {
		return nil, err
	}

	booking, err := s.Bookings.MarkEscrowed(ctx, bookingID, authorizationID, otpForTraveler, otpForGuide)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNoTransition) {
			// Already escrowed or later: idempotent no-op.
			existing, gerr := s.Bookings.GetByID(ctx, bookingID)
			if gerr != nil {
				if errors.Is(gerr, bookingRepo.ErrNotFound) {
					return nil, ErrBookingNotFound
				}
				return nil, gerr
			}
			s.Logger.Info("payment confirmation re-delivered, no-op",
				zap.String("bookingId", bookingID),
				zap.String("status", string(existing.Status)),
			)
			return existing, nil
		}
		return nil, fmt.Errorf("failed to mark booking escrowed: %w", err)
	}
	monitoring.RecordTransition(string(models.StatusPendingPayment), string(models.StatusPaidEscrowed))

	tx := &models.Transaction{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		Type:      models.TxCharge,
		Amount:    booking.Amount,
		Currency:  booking.Currency,
		Reference: authorizationID,
		Status:    "held",
	}
	if err := s.Ledger.Append(ctx, tx); err != nil {
		s.Logger.Error("failed to append charge row", zap.String("bookingId", booking.ID), zap.Error(err))
	}

	// Best effort: a failed dispatch never rolls back the payment state.
	if err := s.Notification.DispatchMeetupCodes(ctx, booking); err != nil {
		s.Logger.Error("failed to dispatch meetup codes",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}

	s.Logger.Info("booking escrowed",
		zap.String("bookingId", booking.ID),
		zap.String("paymentIntent", authorizationID),
	)
	return booking, nil
}
