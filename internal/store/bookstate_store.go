// Package store persists BookState records in MongoDB. Writes use the
// record's updated_at as an optimistic concurrency token: Save only matches
// the document it originally read, so a concurrent transition on the same
// book surfaces as ErrConflict instead of a lost update.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"book-sharing-service/internal/models"
)

var (
	ErrNotFound = errors.New("book state not found")
	ErrConflict = errors.New("book state was modified concurrently")
)

const opTimeout = 5 * time.Second

type BookStateStore struct {
	Collection *mongo.Collection
}

func NewBookStateStore(coll *mongo.Collection) *BookStateStore {
	return &BookStateStore{Collection: coll}
}

func (s *BookStateStore) Get(ctx context.Context, bookID primitive.ObjectID) (*models.BookState, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var state models.BookState
	err := s.Collection.FindOne(ctx, bson.M{"book": bookID}).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &state, nil
}

// Create inserts the state record for a freshly uploaded book.
func (s *BookStateStore) Create(ctx context.Context, state *models.BookState) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().Truncate(time.Millisecond)
	state.CreatedAt = now
	state.UpdatedAt = now
	if state.RequestedBy == nil {
		state.RequestedBy = []primitive.ObjectID{}
	}

	res, err := s.Collection.InsertOne(ctx, state)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		state.ID = id
	}
	return nil
}

// Save writes the mutated state back, conditional on updated_at still holding
// the value this state was read with. MatchedCount == 0 means another writer
// got there first. On success the state carries the fresh updated_at.
func (s *BookStateStore) Save(ctx context.Context, state *models.BookState) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	readAt := state.UpdatedAt
	// Mongo stores times at millisecond precision; keep the token comparable.
	now := time.Now().Truncate(time.Millisecond)
	if !now.After(readAt) {
		now = readAt.Add(time.Millisecond)
	}

	res, err := s.Collection.UpdateOne(ctx,
		bson.M{"book": state.BookID, "updated_at": readAt},
		bson.M{"$set": bson.M{
			"current_status": state.Status,
			"borrowed_by":    state.BorrowedBy,
			"returned_by":    state.ReturnedBy,
			"lost_by":        state.LostBy,
			"requested_by":   state.RequestedBy,
			"updated_at":     now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	state.UpdatedAt = now
	return nil
}
