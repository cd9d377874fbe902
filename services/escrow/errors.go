package escrow

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the escrow service. Handlers map these onto
// HTTP status codes.
var (
	// ErrBookingNotFound: no booking with the given id.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrGuideNotFound: the requested guide does not exist.
	ErrGuideNotFound = errors.New("guide not found")
	// ErrNotParticipant: the caller is neither the traveler nor the guide.
	ErrNotParticipant = errors.New("not a participant of this booking")
	// ErrWrongCode: the submitted code does not match the counterparty's code.
	ErrWrongCode = errors.New("meet-up code does not match")
	// ErrInvalidState: the booking is not in the status this operation requires.
	ErrInvalidState = errors.New("booking is not in a valid state for this operation")
)

// ValidationError reports a malformed request (missing or nonsensical fields).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// CaptureError wraps a downstream capture failure. The booking has been
// moved to Disputed; recovery is manual.
type CaptureError struct {
	BookingID string
	Err       error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture failed for booking %s: %v", e.BookingID, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }
