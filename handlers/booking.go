package handlers

import (
	"net/http"

	"guidely/models"
	"guidely/services/escrow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the escrow core over HTTP.
type BookingHandler struct {
	Escrow escrow.EscrowService
	Logger *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(escrowSvc escrow.EscrowService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Escrow: escrowSvc, Logger: logger}
}

// CreateBooking handles POST /api/bookings. Returns the booking plus the
// client secret the front-end SDK needs to complete the card hold.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	travelerID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication"})
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Escrow.CreateBooking(c.Request.Context(), travelerID, req)
	if err != nil {
		respondEscrowError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication"})
		return
	}

	booking, err := h.Escrow.GetBooking(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondEscrowError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookings handles GET /api/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication"})
		return
	}

	bookings, err := h.Escrow.ListBookings(c.Request.Context(), caller)
	if err != nil {
		respondEscrowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// VerifyOTP handles POST /api/bookings/:id/verify-otp. The response status
// string is "Completed" once both sides have confirmed and funds are
// captured, "OtpVerified" for a partial confirmation.
func (h *BookingHandler) VerifyOTP(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication"})
		return
	}

	var req struct {
		OTP string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	booking, err := h.Escrow.SubmitConfirmation(c.Request.Context(), caller, c.Param("id"), req.OTP)
	if err != nil {
		respondEscrowError(c, err)
		return
	}

	status := string(models.StatusOtpVerified)
	if booking.Status == models.StatusCompleted {
		status = string(models.StatusCompleted)
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "booking": booking})
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication"})
		return
	}

	booking, err := h.Escrow.CancelBooking(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondEscrowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// ListTransactions handles GET /api/bookings/:id/transactions.
func (h *BookingHandler) ListTransactions(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication"})
		return
	}

	txs, err := h.Escrow.Transactions(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondEscrowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
