package store_test

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"book-sharing-service/internal/models"
	"book-sharing-service/internal/store"
)

func TestBookStateStore_Get(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("decodes an existing state", func(mt *mtest.T) {
		s := store.NewBookStateStore(mt.Coll)

		bookID := primitive.NewObjectID()
		owner := primitive.NewObjectID()
		requester := primitive.NewObjectID()
		updatedAt := time.Now().Truncate(time.Millisecond)

		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.book_states", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "book", Value: bookID},
			{Key: "current_status", Value: models.StatusAvailable},
			{Key: "uploaded_by", Value: owner},
			{Key: "requested_by", Value: bson.A{requester}},
			{Key: "updated_at", Value: updatedAt},
		}))

		state, err := s.Get(context.Background(), bookID)
		if err != nil {
			t.Fatalf("expected state, got error %v", err)
		}
		if state.BookID != bookID {
			t.Errorf("expected book %s, got %s", bookID.Hex(), state.BookID.Hex())
		}
		if state.Status != models.StatusAvailable {
			t.Errorf("expected status AVAILABLE, got %s", state.Status)
		}
		if len(state.RequestedBy) != 1 || state.RequestedBy[0] != requester {
			t.Errorf("expected requested_by [%s], got %v", requester.Hex(), state.RequestedBy)
		}
	})

	mt.Run("missing state maps to ErrNotFound", func(mt *mtest.T) {
		s := store.NewBookStateStore(mt.Coll)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.book_states", mtest.FirstBatch))

		_, err := s.Get(context.Background(), primitive.NewObjectID())
		if err != store.ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBookStateStore_Save(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("matched write refreshes the token", func(mt *mtest.T) {
		s := store.NewBookStateStore(mt.Coll)

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		readAt := time.Now().Add(-time.Second).Truncate(time.Millisecond)
		state := models.BookState{
			BookID:      primitive.NewObjectID(),
			Status:      models.StatusAvailable,
			RequestedBy: []primitive.ObjectID{},
			UpdatedAt:   readAt,
		}

		if err := s.Save(context.Background(), &state); err != nil {
			t.Fatalf("expected save to succeed, got %v", err)
		}
		if !state.UpdatedAt.After(readAt) {
			t.Errorf("expected updated_at to advance past %v, got %v", readAt, state.UpdatedAt)
		}
	})

	mt.Run("unmatched write maps to ErrConflict", func(mt *mtest.T) {
		s := store.NewBookStateStore(mt.Coll)

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		state := models.BookState{
			BookID:    primitive.NewObjectID(),
			Status:    models.StatusBorrowed,
			UpdatedAt: time.Now(),
		}

		if err := s.Save(context.Background(), &state); err != store.ErrConflict {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})
}

func TestBookStateStore_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("stamps timestamps and an empty queue", func(mt *mtest.T) {
		s := store.NewBookStateStore(mt.Coll)

		mt.AddMockResponses(mtest.CreateSuccessResponse())

		state := models.BookState{
			BookID:     primitive.NewObjectID(),
			Status:     models.StatusAvailable,
			UploadedBy: primitive.NewObjectID(),
		}

		if err := s.Create(context.Background(), &state); err != nil {
			t.Fatalf("expected create to succeed, got %v", err)
		}
		if state.CreatedAt.IsZero() || state.UpdatedAt.IsZero() {
			t.Error("expected created_at and updated_at to be stamped")
		}
		if state.RequestedBy == nil {
			t.Error("expected requested_by to be initialised to an empty queue")
		}
	})
}
