package escrow

import (
	"context"
	"crypto/subtle"
	"errors"

	bookingRepo "guidely/database/repository/booking"
	"guidely/models"
	"guidely/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitConfirmation records one party's meet-up confirmation.
//
// The submitter proves the physical meet-up by presenting the code issued to
// the counterparty; comparison is strictly against that field, so a party's
// own code can never confirm for them. Once both flags are true the caller
// races for the capture claim; only the winner invokes capture, which bounds
// capture to at most once per authorization even under concurrent submission.
func (s *DefaultEscrowService) SubmitConfirmation(ctx context.Context, submitterID, bookingID, code string) (*models.Booking, error) {
	if code == "" {
		return nil, &ValidationError{Field: "otp", Message: "missing"}
	}

	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	role, ok := booking.ParticipantRole(submitterID)
	if !ok {
		return nil, ErrNotParticipant
	}

	if booking.Status != models.StatusPaidEscrowed {
		return nil, ErrInvalidState
	}

	expected := booking.ExpectedCode(role)
	if subtle.ConstantTimeCompare([]byte(code), []byte(expected)) != 1 {
		monitoring.RecordOTPSubmission(string(role), "mismatch")
		return nil, ErrWrongCode
	}

	// Re-submission of an already-accepted code is an idempotent no-op.
	if err := s.Bookings.SetConfirmation(ctx, bookingID, role); err != nil {
		if errors.Is(err, bookingRepo.ErrNoTransition) {
			// Lost a race with completion or cancellation.
			return nil, ErrInvalidState
		}
		return nil, err
	}
	monitoring.RecordOTPSubmission(string(role), "accepted")
	s.Logger.Info("meet-up confirmed by one side",
		zap.String("bookingId", bookingID),
		zap.String("role", string(role)),
	)

	claimed, err := s.Bookings.ClaimCapture(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNoTransition) {
			// Counterparty has not confirmed yet, or another request won the
			// claim; return the current view either way.
			return s.Bookings.GetByID(ctx, bookingID)
		}
		return nil, err
	}

	return s.capture(ctx, claimed)
}

// RetryCapture re-attempts capture for a Disputed booking. Both confirmation
// flags must still be true; OTPs are never re-verified on this path.
func (s *DefaultEscrowService) RetryCapture(ctx context.Context, bookingID string) (*models.Booking, error) {
	claimed, err := s.Bookings.ReclaimCapture(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNoTransition) {
			return nil, ErrInvalidState
		}
		return nil, err
	}
	s.Logger.Info("manual capture retry", zap.String("bookingId", bookingID))
	return s.capture(ctx, claimed)
}

// capture runs the single capture attempt for a claimed booking and
// finalizes it to Completed or Disputed.
func (s *DefaultEscrowService) capture(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	captureRef, err := s.Gateway.Capture(ctx, booking.PaymentIntentID)
	if err != nil {
		monitoring.RecordCapture("failure")
		s.Logger.Error("capture failed, moving booking to disputed",
			zap.String("bookingId", booking.ID),
			zap.String("paymentIntent", booking.PaymentIntentID),
			zap.Error(err),
		)

		disputed, ferr := s.Bookings.Finalize(ctx, booking.ID, models.StatusDisputed)
		if ferr != nil {
			s.Logger.Error("failed to record disputed state", zap.String("bookingId", booking.ID), zap.Error(ferr))
			return nil, ferr
		}
		monitoring.RecordTransition(string(models.StatusOtpVerified), string(models.StatusDisputed))
		return disputed, &CaptureError{BookingID: booking.ID, Err: err}
	}
	monitoring.RecordCapture("success")

	completed, err := s.Bookings.Finalize(ctx, booking.ID, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	monitoring.RecordTransition(string(models.StatusOtpVerified), string(models.StatusCompleted))

	tx := &models.Transaction{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		Type:      models.TxPayout,
		Amount:    booking.Amount,
		Currency:  booking.Currency,
		Reference: captureRef,
		Status:    "captured",
	}
	if err := s.Ledger.Append(ctx, tx); err != nil {
		s.Logger.Error("failed to append payout row", zap.String("bookingId", booking.ID), zap.Error(err))
	}

	if err := s.Notification.NotifyCompleted(ctx, completed); err != nil {
		s.Logger.Error("failed to queue completion pushes", zap.String("bookingId", booking.ID), zap.Error(err))
	}

	s.Logger.Info("booking completed, funds released",
		zap.String("bookingId", booking.ID),
		zap.String("captureRef", captureRef),
	)
	return completed, nil
}
