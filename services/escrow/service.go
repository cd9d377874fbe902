package escrow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingRepo "guidely/database/repository/booking"
	"guidely/models"
	"guidely/monitoring"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultCurrency = "usd"

// parseAmountMinor parses a decimal amount string like "250.00" into minor
// units. Exact decimal arithmetic avoids float drift on money.
func parseAmountMinor(amount string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, &ValidationError{Field: "amount", Message: "not a decimal number"}
	}
	if d.Exponent() < -2 {
		return 0, &ValidationError{Field: "amount", Message: "more than two decimal places"}
	}
	minor := d.Shift(2)
	if !minor.IsInteger() || minor.Sign() <= 0 {
		return 0, &ValidationError{Field: "amount", Message: "must be a positive amount"}
	}
	return minor.IntPart(), nil
}

// CreateBooking validates the request, places a payment hold and persists the
// booking. The authorization id is written once here and never changes.
func (s *DefaultEscrowService) CreateBooking(ctx context.Context, travelerID string, req models.BookingRequest) (*models.BookingResponse, error) {
	if travelerID == "" {
		return nil, &ValidationError{Field: "travelerId", Message: "missing"}
	}
	if req.GuideID == "" {
		return nil, &ValidationError{Field: "guideId", Message: "missing"}
	}
	if req.GuideID == travelerID {
		return nil, &ValidationError{Field: "guideId", Message: "cannot book yourself"}
	}
	if req.Destination == "" {
		return nil, &ValidationError{Field: "destination", Message: "missing"}
	}

	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "startDate", Message: "must be RFC 3339"}
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, &ValidationError{Field: "endDate", Message: "must be RFC 3339"}
	}
	if end.Before(start) {
		return nil, &ValidationError{Field: "endDate", Message: "ends before it starts"}
	}

	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		return nil, err
	}
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	guide, err := s.Users.GetByID(req.GuideID)
	if err != nil {
		return nil, ErrGuideNotFound
	}
	if guide.Role != models.RoleGuide {
		return nil, &ValidationError{Field: "guideId", Message: "user is not a guide"}
	}

	booking := &models.Booking{
		ID:          uuid.New().String(),
		TravelerID:  travelerID,
		GuideID:     req.GuideID,
		Destination: req.Destination,
		StartDate:   start,
		EndDate:     end,
		Itinerary:   req.Itinerary,
		Amount:      amountMinor,
		Currency:    currency,
		Status:      models.StatusPendingPayment,
	}

	auth, err := s.Gateway.Authorize(ctx, amountMinor, currency, travelerID, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to request payment hold: %w", err)
	}
	booking.PaymentIntentID = auth.ID

	if err := s.Bookings.Create(ctx, booking); err != nil {
		// Leave no orphan hold behind.
		if rerr := s.Gateway.Release(ctx, auth.ID); rerr != nil {
			s.Logger.Error("failed to release hold after create failure",
				zap.String("paymentIntent", auth.ID), zap.Error(rerr))
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("travelerId", travelerID),
		zap.String("guideId", req.GuideID),
		zap.Int64("amount", amountMinor),
	)
	return &models.BookingResponse{Booking: booking, ClientSecret: auth.ClientSecret}, nil
}

// GetBooking returns the booking if the caller participates in it.
func (s *DefaultEscrowService) GetBooking(ctx context.Context, callerID, bookingID string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if _, ok := booking.ParticipantRole(callerID); !ok {
		return nil, ErrNotParticipant
	}
	return booking, nil
}

// ListBookings returns all bookings the caller participates in.
func (s *DefaultEscrowService) ListBookings(ctx context.Context, callerID string) ([]models.Booking, error) {
	return s.Bookings.ListByParticipant(ctx, callerID)
}

// ListDisputed returns bookings stuck in Disputed.
func (s *DefaultEscrowService) ListDisputed(ctx context.Context) ([]models.Booking, error) {
	return s.Bookings.ListByStatus(ctx, models.StatusDisputed)
}

// Transactions returns the booking's ledger rows if the caller participates.
func (s *DefaultEscrowService) Transactions(ctx context.Context, callerID, bookingID string) ([]models.Transaction, error) {
	if _, err := s.GetBooking(ctx, callerID, bookingID); err != nil {
		return nil, err
	}
	return s.Ledger.ListByBooking(ctx, bookingID)
}

// CancelBooking cancels before completion. A booking already escrowed has
// its hold released and a refund row appended.
func (s *DefaultEscrowService) CancelBooking(ctx context.Context, callerID, bookingID string) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, callerID, bookingID)
	if err != nil {
		return nil, err
	}

	prev, err := s.Bookings.Cancel(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNoTransition) {
			return nil, ErrInvalidState
		}
		return nil, err
	}
	monitoring.RecordTransition(string(prev.Status), string(models.StatusCancelled))

	if err := s.Gateway.Release(ctx, prev.PaymentIntentID); err != nil {
		// The hold expires on its own; log and keep the cancellation.
		s.Logger.Error("failed to release hold on cancellation",
			zap.String("bookingId", bookingID), zap.Error(err))
	}

	if prev.Status == models.StatusPaidEscrowed {
		tx := &models.Transaction{
			ID:        uuid.New().String(),
			BookingID: bookingID,
			Type:      models.TxRefund,
			Amount:    prev.Amount,
			Currency:  prev.Currency,
			Reference: prev.PaymentIntentID,
			Status:    "released",
		}
		if err := s.Ledger.Append(ctx, tx); err != nil {
			s.Logger.Error("failed to append refund row", zap.String("bookingId", bookingID), zap.Error(err))
		}
	}

	booking.Status = models.StatusCancelled
	s.Logger.Info("booking cancelled", zap.String("bookingId", bookingID), zap.String("by", callerID))
	return booking, nil
}
