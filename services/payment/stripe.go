package payment

import (
	"context"
	"fmt"

	"guidely/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway with manual-capture PaymentIntents.
// The package-level stripe.Key is set at startup.
type StripeGateway struct {
	logger *zap.Logger
}

// NewStripeGateway creates a Stripe-backed payment gateway.
func NewStripeGateway(logger *zap.Logger) *StripeGateway {
	return &StripeGateway{logger: logger}
}

// Authorize creates a manual-capture PaymentIntent. The booking id travels in
// intent metadata so the webhook can route the confirmation back to us.
func (g *StripeGateway) Authorize(ctx context.Context, amountMinor int64, currency, customerRef, bookingID string) (*models.Authorization, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(currency),
		CaptureMethod:      stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", bookingID)
	params.AddMetadata("traveler_id", customerRef)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe authorize failed: %w", err)
	}

	g.logger.Info("payment hold created",
		zap.String("paymentIntent", pi.ID),
		zap.String("bookingId", bookingID),
		zap.Int64("amount", amountMinor),
	)
	return &models.Authorization{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// Capture moves the held funds. Stripe rejects a second capture of the same
// intent, so a duplicate call cannot double-charge.
func (g *StripeGateway) Capture(ctx context.Context, authorizationID string) (string, error) {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx

	pi, err := paymentintent.Capture(authorizationID, params)
	if err != nil {
		return "", fmt.Errorf("stripe capture failed for %s: %w", authorizationID, err)
	}

	g.logger.Info("payment captured", zap.String("paymentIntent", pi.ID))
	return pi.ID, nil
}

// Release cancels an uncaptured PaymentIntent, freeing the hold.
func (g *StripeGateway) Release(ctx context.Context, authorizationID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := paymentintent.Cancel(authorizationID, params); err != nil {
		return fmt.Errorf("stripe release failed for %s: %w", authorizationID, err)
	}

	g.logger.Info("payment hold released", zap.String("paymentIntent", authorizationID))
	return nil
}
