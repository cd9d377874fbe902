package models

import "time"

// User is a traveler or a local guide. Guides carry an embedded profile.
type User struct {
	ID           string `bson:"id" json:"id"`
	Username     string `bson:"username" json:"username"`
	Email        string `bson:"email" json:"email"`
	PhoneNumber  string `bson:"phoneNumber" json:"phoneNumber"`
	PasswordHash string `bson:"passwordHash" json:"-"`
	Password     string `bson:"-" json:"password,omitempty"`

	Role Role `bson:"role" json:"role"`

	// Guide-only fields.
	GuideProfile *GuideProfile `bson:"guideProfile,omitempty" json:"guideProfile,omitempty"`

	// Auth: SHA-256 hash of the currently issued token.
	TokenHash string `bson:"tokenHash,omitempty" json:"-"`

	// Push channel.
	FCMToken string `bson:"fcmToken,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// GuideProfile holds the public-facing details of a guide.
type GuideProfile struct {
	Bio            string  `bson:"bio" json:"bio"`
	HomeBase       string  `bson:"homeBase" json:"homeBase"`
	Languages      []string `bson:"languages,omitempty" json:"languages,omitempty"`
	DailyRateMinor int64   `bson:"dailyRateMinor" json:"dailyRateMinor"`
	Currency       string  `bson:"currency" json:"currency"`
	Rating         float64 `bson:"rating,omitempty" json:"rating,omitempty"`
}

// UserRegistrationData is the payload collected before the phone OTP handshake.
type UserRegistrationData struct {
	Username    string        `json:"username"`
	Email       string        `json:"email"`
	Password    string        `json:"password"`
	PhoneNumber string        `json:"phoneNumber"`
	Role        Role          `json:"role"`
	GuideProfile *GuideProfile `json:"guideProfile,omitempty"`
}
