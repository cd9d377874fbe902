package handlers

import (
	"errors"
	"net/http"

	"guidely/services/escrow"

	"github.com/gin-gonic/gin"
)

// respondEscrowError maps escrow service errors onto HTTP status codes:
// validation 400, not-found 404, wrong party or code 403, invalid state 400,
// downstream payment failure 500.
func respondEscrowError(c *gin.Context, err error) {
	var vErr *escrow.ValidationError
	var capErr *escrow.CaptureError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, escrow.ErrBookingNotFound), errors.Is(err, escrow.ErrGuideNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, escrow.ErrNotParticipant), errors.Is(err, escrow.ErrWrongCode):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, escrow.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &capErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "payment capture failed; booking moved to dispute",
			"status": "Disputed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// callerID extracts the authenticated user id set by the auth middleware.
func callerID(c *gin.Context) (string, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
