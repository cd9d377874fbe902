package handlers

import (
	"net/http"

	"guidely/services/escrow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes the manual-recovery surface for disputed bookings.
type AdminHandler struct {
	Escrow escrow.EscrowService
	Logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(escrowSvc escrow.EscrowService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Escrow: escrowSvc, Logger: logger}
}

// ListDisputedHandler handles GET /api/admin/bookings/disputed.
func (h *AdminHandler) ListDisputedHandler(c *gin.Context) {
	bookings, err := h.Escrow.ListDisputed(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// RetryCaptureHandler handles POST /api/admin/bookings/:id/retry-capture.
// Re-attempts the capture of a disputed booking; OTPs are not re-verified.
func (h *AdminHandler) RetryCaptureHandler(c *gin.Context) {
	bookingID := c.Param("id")
	booking, err := h.Escrow.RetryCapture(c.Request.Context(), bookingID)
	if err != nil {
		h.Logger.Error("manual capture retry failed", zap.String("bookingId", bookingID), zap.Error(err))
		respondEscrowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
