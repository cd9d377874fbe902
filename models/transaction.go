package models

import "time"

// TransactionType enumerates the kinds of money movement recorded in the ledger.
type TransactionType string

const (
	TxCharge TransactionType = "charge" // funds authorized and held in escrow
	TxPayout TransactionType = "payout" // held funds captured and released to the guide
	TxRefund TransactionType = "refund" // hold released back to the traveler
)

// Transaction is one append-only ledger row tied to a booking. Rows are
// created once per financial event and never mutated.
type Transaction struct {
	ID        string          `bson:"id" json:"id"`
	BookingID string          `bson:"bookingId" json:"bookingId"`
	Type      TransactionType `bson:"type" json:"type"`
	Amount    int64           `bson:"amount" json:"amount"`
	Currency  string          `bson:"currency" json:"currency"`
	Reference string          `bson:"reference" json:"reference"` // external payment-system id
	Status    string          `bson:"status" json:"status"`
	CreatedAt time.Time       `bson:"createdAt" json:"createdAt"`
}
