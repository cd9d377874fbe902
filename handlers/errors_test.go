package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"guidely/services/escrow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondEscrowError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &escrow.ValidationError{Field: "amount", Message: "missing"}, http.StatusBadRequest},
		{"booking not found", escrow.ErrBookingNotFound, http.StatusNotFound},
		{"guide not found", escrow.ErrGuideNotFound, http.StatusNotFound},
		{"not a participant", escrow.ErrNotParticipant, http.StatusForbidden},
		{"wrong code", escrow.ErrWrongCode, http.StatusForbidden},
		{"invalid state", escrow.ErrInvalidState, http.StatusBadRequest},
		{"capture failure", &escrow.CaptureError{BookingID: "b-1", Err: errors.New("declined")}, http.StatusInternalServerError},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondEscrowError(c, tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestCaptureFailureResponseNamesDispute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondEscrowError(c, &escrow.CaptureError{BookingID: "b-1", Err: errors.New("declined")})

	assert.Contains(t, w.Body.String(), "Disputed")
}

func TestCallerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := callerID(c)
	assert.False(t, ok)

	c.Set("userID", "u-1")
	id, ok := callerID(c)
	assert.True(t, ok)
	assert.Equal(t, "u-1", id)
}
