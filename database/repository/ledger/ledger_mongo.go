package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"guidely/database"
	"guidely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLedgerRepo implements LedgerRepository using MongoDB.
type MongoLedgerRepo struct {
	coll *mongo.Collection
}

// NewMongoLedgerRepo creates a new instance of LedgerRepository using MongoDB.
func NewMongoLedgerRepo() LedgerRepository {
	coll := database.Collection("transactions")
	repo := &MongoLedgerRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create ledger indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes on the ledger. The compound unique index on
// (bookingId, type, reference) makes a duplicate append for the same
// financial event a write error rather than a second row.
func (r *MongoLedgerRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{
				{Key: "bookingId", Value: 1},
				{Key: "type", Value: 1},
				{Key: "reference", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Append inserts a new ledger row.
func (r *MongoLedgerRepo) Append(ctx context.Context, tx *models.Transaction) error {
	tx.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("failed to append ledger transaction: %w", err)
	}
	return nil
}

// ListByBooking retrieves all ledger rows for a booking, oldest first.
func (r *MongoLedgerRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	for cursor.Next(ctx) {
		var tx models.Transaction
		if err := cursor.Decode(&tx); err != nil {
			return nil, fmt.Errorf("failed to decode transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
