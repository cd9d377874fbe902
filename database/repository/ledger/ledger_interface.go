package ledgerRepo

import (
	"context"

	"guidely/models"
)

// LedgerRepository is the append-only record of money movement. Rows are
// inserted once per financial event and never updated or deleted.
type LedgerRepository interface {
	Append(ctx context.Context, tx *models.Transaction) error
	ListByBooking(ctx context.Context, bookingID string) ([]models.Transaction, error)
}
