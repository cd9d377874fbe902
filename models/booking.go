package models

import "time"

// BookingStatus enumerates the escrow lifecycle of a booking.
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "PendingPayment" // created, hold requested, funds not yet authorized
	StatusPaidEscrowed   BookingStatus = "PaidEscrowed"   // funds authorized and held
	StatusOtpVerified    BookingStatus = "OtpVerified"    // both parties confirmed; capture claimed by one caller
	StatusCompleted      BookingStatus = "Completed"      // funds captured and released to the guide
	StatusCancelled      BookingStatus = "Cancelled"      // hold released before the meet-up
	StatusDisputed       BookingStatus = "Disputed"       // capture failed after dual confirmation; manual recovery
)

// Role identifies which side of a booking a participant is on.
type Role string

const (
	RoleTraveler Role = "traveler"
	RoleGuide    Role = "guide"
)

// Booking represents one traveler/guide engagement.
type Booking struct {
	ID         string `bson:"id" json:"id"`
	TravelerID string `bson:"travelerId" json:"travelerId"`
	GuideID    string `bson:"guideId" json:"guideId"`

	// Trip details.
	Destination string    `bson:"destination" json:"destination"`
	StartDate   time.Time `bson:"startDate" json:"startDate"`
	EndDate     time.Time `bson:"endDate" json:"endDate"`
	Itinerary   string    `bson:"itinerary,omitempty" json:"itinerary,omitempty"`

	// Financial. Amount is in minor units of Currency.
	Amount          int64  `bson:"amount" json:"amount"`
	Currency        string `bson:"currency" json:"currency"`
	PaymentIntentID string `bson:"paymentIntentId" json:"-"` // set once at creation, immutable

	// Meet-up confirmation. Each party receives their own code out-of-band
	// and must present the counterparty's code to confirm the meet-up.
	OTPForTraveler        string `bson:"otpForTraveler,omitempty" json:"-"`
	OTPForGuide           string `bson:"otpForGuide,omitempty" json:"-"`
	OTPVerifiedByTraveler bool   `bson:"otpVerifiedByTraveler" json:"otpVerifiedByTraveler"`
	OTPVerifiedByGuide    bool   `bson:"otpVerifiedByGuide" json:"otpVerifiedByGuide"`

	Status     BookingStatus `bson:"status" json:"status"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
	EscrowedAt *time.Time    `bson:"escrowedAt,omitempty" json:"escrowedAt,omitempty"`
}

// ParticipantRole returns the role the given user plays on this booking,
// or false if they are not a participant.
func (b *Booking) ParticipantRole(userID string) (Role, bool) {
	switch userID {
	case b.TravelerID:
		return RoleTraveler, true
	case b.GuideID:
		return RoleGuide, true
	}
	return "", false
}

// ExpectedCode returns the code a participant of the given role must
// present: always the one issued to the counterparty.
func (b *Booking) ExpectedCode(role Role) string {
	if role == RoleTraveler {
		return b.OTPForGuide
	}
	return b.OTPForTraveler
}

// ConfirmedBy reports whether the given role has already confirmed.
func (b *Booking) ConfirmedBy(role Role) bool {
	if role == RoleTraveler {
		return b.OTPVerifiedByTraveler
	}
	return b.OTPVerifiedByGuide
}

// BothConfirmed reports whether both sides have confirmed the meet-up.
func (b *Booking) BothConfirmed() bool {
	return b.OTPVerifiedByTraveler && b.OTPVerifiedByGuide
}
