package models

// Authorization is the result of placing an escrow hold with the payment
// collaborator. ClientSecret is handed to the front-end SDK to complete
// the card flow; no funds move until capture.
type Authorization struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// BookingRequest is the payload for creating a booking. Amount is a decimal
// string such as "250.00" and is parsed exactly at the HTTP edge.
type BookingRequest struct {
	GuideID     string `json:"guideId" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	StartDate   string `json:"startDate" binding:"required"` // RFC 3339
	EndDate     string `json:"endDate" binding:"required"`
	Itinerary   string `json:"itinerary"`
	Amount      string `json:"amount" binding:"required"`
	Currency    string `json:"currency"`
}

// BookingResponse pairs a created booking with the client-side payment token.
type BookingResponse struct {
	Booking      *Booking `json:"booking"`
	ClientSecret string   `json:"clientSecret,omitempty"`
}
