// Package workflow orchestrates one lending transition end to end: load the
// book's state, check authorization, run the state machine, persist and
// re-read. Concurrency control lives here as well: a save that loses the
// optimistic race is retried once against the fresh state, and whatever that
// second evaluation says is final.
package workflow

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"book-sharing-service/internal/lending"
	"book-sharing-service/internal/models"
	"book-sharing-service/internal/store"
)

// BookStateStore is the persistence surface the service needs. The mongo
// implementation lives in internal/store; tests use an in-memory fake.
type BookStateStore interface {
	Get(ctx context.Context, bookID primitive.ObjectID) (*models.BookState, error)
	Save(ctx context.Context, state *models.BookState) error
}

type Service struct {
	Store BookStateStore
}

func NewService(st BookStateStore) *Service {
	return &Service{Store: st}
}

// Execute runs a single transition and returns the refreshed state. Failures
// come back as store.ErrNotFound, a *lending.Error, or an unexpected storage
// error; nothing is persisted on failure.
func (s *Service) Execute(ctx context.Context, ev lending.Event) (*models.BookState, error) {
	state, err := s.attempt(ctx, ev)
	if errors.Is(err, store.ErrConflict) {
		// A concurrent transition won the race. Re-evaluate once against the
		// fresh state; if the precondition genuinely fails now, that failure
		// is surfaced rather than retried again.
		state, err = s.attempt(ctx, ev)
	}
	return state, err
}

func (s *Service) attempt(ctx context.Context, ev lending.Event) (*models.BookState, error) {
	current, err := s.Store.Get(ctx, ev.BookID)
	if err != nil {
		return nil, err
	}

	if err := lending.Authorize(*current, ev); err != nil {
		return nil, err
	}

	next, err := lending.Apply(*current, ev)
	if err != nil {
		return nil, err
	}

	if err := s.Store.Save(ctx, &next); err != nil {
		return nil, err
	}

	// Re-read so the caller sees exactly what was persisted.
	return s.Store.Get(ctx, ev.BookID)
}
