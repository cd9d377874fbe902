package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guidely/database"
	"guidely/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoTransition signals that a conditional status update matched no
// document: the booking is missing or not in the required state.
var ErrNoTransition = errors.New("booking not in required state for transition")

// ErrNotFound signals that no booking exists with the given id.
var ErrNotFound = errors.New("booking not found")

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create booking indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes for fields frequently used in queries.
// The unique index on paymentIntentId enforces one authorization per booking.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "paymentIntentId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "travelerId", Value: 1}}},
		{Keys: bson.D{{Key: "guideId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

// ListByParticipant retrieves bookings where the user is traveler or guide.
func (r *MongoBookingRepo) ListByParticipant(ctx context.Context, userID string) ([]models.Booking, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"travelerId": userID},
		bson.M{"guideId": userID},
	}}
	return r.list(ctx, filter)
}

// ListByStatus retrieves bookings in the given status.
func (r *MongoBookingRepo) ListByStatus(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"status": status})
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// findOneAndUpdate runs a conditional update and translates a no-match
// result into ErrNoTransition.
func (r *MongoBookingRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoTransition
		}
		return nil, fmt.Errorf("conditional booking update failed: %w", err)
	}
	return &booking, nil
}

// MarkEscrowed applies PendingPayment -> PaidEscrowed for the booking
// carrying the given authorization id.
func (r *MongoBookingRepo) MarkEscrowed(ctx context.Context, bookingID, authorizationID, otpForTraveler, otpForGuide string) (*models.Booking, error) {
	now := time.Now()
	filter := bson.M{
		"id":              bookingID,
		"paymentIntentId": authorizationID,
		"status":          models.StatusPendingPayment,
	}
	update := bson.M{"$set": bson.M{
		"status":         models.StatusPaidEscrowed,
		"otpForTraveler": otpForTraveler,
		"otpForGuide":    otpForGuide,
		"escrowedAt":     now,
		"updatedAt":      now,
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// SetConfirmation sets the confirmation flag for one role while PaidEscrowed.
func (r *MongoBookingRepo) SetConfirmation(ctx context.Context, bookingID string, role models.Role) error {
	field := "otpVerifiedByGuide"
	if role == models.RoleTraveler {
		field = "otpVerifiedByTraveler"
	}

	filter := bson.M{"id": bookingID, "status": models.StatusPaidEscrowed}
	update := bson.M{"$set": bson.M{field: true, "updatedAt": time.Now()}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set confirmation flag: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoTransition
	}
	return nil
}

// ClaimCapture applies PaidEscrowed -> OtpVerified when both flags are true.
func (r *MongoBookingRepo) ClaimCapture(ctx context.Context, bookingID string) (*models.Booking, error) {
	return r.claim(ctx, bookingID, models.StatusPaidEscrowed)
}

// ReclaimCapture applies Disputed -> OtpVerified for a manual retry.
func (r *MongoBookingRepo) ReclaimCapture(ctx context.Context, bookingID string) (*models.Booking, error) {
	return r.claim(ctx, bookingID, models.StatusDisputed)
}

func (r *MongoBookingRepo) claim(ctx context.Context, bookingID string, from models.BookingStatus) (*models.Booking, error) {
	filter := bson.M{
		"id":                    bookingID,
		"status":                from,
		"otpVerifiedByTraveler": true,
		"otpVerifiedByGuide":    true,
	}
	update := bson.M{"$set": bson.M{
		"status":    models.StatusOtpVerified,
		"updatedAt": time.Now(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// Finalize applies OtpVerified -> Completed or Disputed.
func (r *MongoBookingRepo) Finalize(ctx context.Context, bookingID string, outcome models.BookingStatus) (*models.Booking, error) {
	if outcome != models.StatusCompleted && outcome != models.StatusDisputed {
		return nil, fmt.Errorf("invalid finalize outcome %q", outcome)
	}
	filter := bson.M{"id": bookingID, "status": models.StatusOtpVerified}
	update := bson.M{"$set": bson.M{"status": outcome, "updatedAt": time.Now()}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// Cancel applies PendingPayment|PaidEscrowed -> Cancelled. The returned
// document is the pre-cancellation booking so the caller can see whether a
// hold was in place.
func (r *MongoBookingRepo) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	filter := bson.M{
		"id": bookingID,
		"status": bson.M{"$in": bson.A{
			models.StatusPendingPayment,
			models.StatusPaidEscrowed,
		}},
	}
	update := bson.M{"$set": bson.M{"status": models.StatusCancelled, "updatedAt": time.Now()}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoTransition
		}
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	return &booking, nil
}
