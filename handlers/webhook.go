package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"guidely/config"
	"guidely/monitoring"
	"guidely/services/escrow"
	"guidely/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const webhookMaxBodyBytes = int64(65536)

// WebhookHandler receives signed payment events from Stripe.
type WebhookHandler struct {
	Escrow escrow.EscrowService
	Cache  *redis.Client
	Logger *zap.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(escrowSvc escrow.EscrowService, cache *redis.Client, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Escrow: escrowSvc, Cache: cache, Logger: logger}
}

// HandlePaymentEvent handles POST /api/payments/webhook. The signature is
// verified before anything in the payload is trusted; event ids are
// remembered in Redis so a re-delivered event short-circuits early (the
// escrow transition is conditionally applied and idempotent regardless).
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, webhookMaxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		h.Logger.Warn("webhook signature verification failed", zap.Error(err))
		monitoring.RecordWebhookEvent("unknown", "bad_signature")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	h.processEvent(c, event)
}

// processEvent handles a signature-verified event.
func (h *WebhookHandler) processEvent(c *gin.Context, event stripe.Event) {
	if h.alreadyProcessed(c.Request.Context(), event.ID) {
		monitoring.RecordWebhookEvent(string(event.Type), "duplicate")
		c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
		return
	}

	switch event.Type {
	case "payment_intent.amount_capturable_updated":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			h.Logger.Error("failed to parse payment intent from event", zap.Error(err))
			monitoring.RecordWebhookEvent(string(event.Type), "bad_payload")
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
			return
		}

		bookingID := pi.Metadata["booking_id"]
		if bookingID == "" {
			h.Logger.Warn("payment event missing booking metadata", zap.String("paymentIntent", pi.ID))
			monitoring.RecordWebhookEvent(string(event.Type), "no_booking")
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		if _, err := h.Escrow.HandlePaymentAuthorized(c.Request.Context(), bookingID, pi.ID); err != nil {
			h.Logger.Error("failed to apply payment confirmation",
				zap.String("bookingId", bookingID), zap.Error(err))
			monitoring.RecordWebhookEvent(string(event.Type), "error")
			// Forget the event id so the Stripe re-delivery is re-processed;
			// the conditional transition stays idempotent either way.
			h.forgetEvent(c.Request.Context(), event.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
			return
		}
		monitoring.RecordWebhookEvent(string(event.Type), "applied")

	default:
		h.Logger.Debug("ignoring payment event", zap.String("type", string(event.Type)))
		monitoring.RecordWebhookEvent(string(event.Type), "ignored")
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// alreadyProcessed marks the event id and reports whether it was seen before.
func (h *WebhookHandler) alreadyProcessed(ctx context.Context, eventID string) bool {
	if h.Cache == nil {
		return false
	}
	set, err := h.Cache.SetNX(ctx, utils.WebhookEventPrefix+eventID, 1, utils.WebhookEventTTL).Result()
	if err != nil {
		h.Logger.Warn("webhook dedupe check failed", zap.Error(err))
		return false
	}
	return !set
}

// forgetEvent drops the dedupe mark after a failed handling attempt so the
// event is not acknowledged as a duplicate before it has ever been applied.
func (h *WebhookHandler) forgetEvent(ctx context.Context, eventID string) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Del(ctx, utils.WebhookEventPrefix+eventID).Err(); err != nil {
		h.Logger.Warn("failed to clear webhook dedupe key", zap.String("eventId", eventID), zap.Error(err))
	}
}
