// Package lending holds the pure decision logic of the book-lending
// lifecycle: which transitions are legal from which state (machine.go) and
// who may trigger them (guard.go). Nothing in this package touches the
// clock, storage or the network; timestamps are stamped by the store.
package lending

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"book-sharing-service/internal/models"
)

type EventKind string

const (
	EventRequest EventKind = "REQUEST"
	EventApprove EventKind = "APPROVE"
	EventReject  EventKind = "REJECT"
	EventReturn  EventKind = "RETURN"
	EventLost    EventKind = "LOST"
)

// Event is one requested transition on one book. Target is only meaningful
// for Approve/Reject (whose request is acted on) and Return/Lost (on whose
// behalf); a zero Target on Return/Lost defaults to the current borrower.
type Event struct {
	Kind   EventKind
	BookID primitive.ObjectID
	Actor  primitive.ObjectID
	Target primitive.ObjectID
}

// Apply computes the successor state for the event, or an *Error explaining
// why the transition is illegal. The input state is taken by value and never
// mutated; identical inputs always yield identical outcomes.
func Apply(state models.BookState, ev Event) (models.BookState, error) {
	if state.Status == models.StatusLost {
		return state, invalid("Book is marked as lost")
	}

	switch ev.Kind {
	case EventRequest:
		return applyRequest(state, ev)
	case EventApprove:
		return applyApprove(state, ev)
	case EventReject:
		return applyReject(state, ev)
	case EventReturn:
		return applyReturn(state, ev)
	case EventLost:
		return applyLost(state, ev)
	default:
		return state, invalid("Unknown book operation")
	}
}

func applyRequest(state models.BookState, ev Event) (models.BookState, error) {
	if state.HasRequestFrom(ev.Actor) {
		return state, invalid("Book request exists")
	}
	state.RequestedBy = append(append([]primitive.ObjectID{}, state.RequestedBy...), ev.Actor)
	return state, nil
}

func applyApprove(state models.BookState, ev Event) (models.BookState, error) {
	if !state.HasRequestFrom(ev.Target) {
		return state, invalid("No pending request from this user")
	}
	if state.Status != models.StatusAvailable {
		return state, invalid("Book is not available")
	}
	target := ev.Target
	state.BorrowedBy = &target
	// The remaining requesters stay queued for the next vacancy.
	state.RequestedBy = state.WithoutRequest(target)
	state.Status = models.StatusBorrowed
	return state, nil
}

func applyReject(state models.BookState, ev Event) (models.BookState, error) {
	if !state.HasRequestFrom(ev.Target) {
		return state, invalid("No pending request from this user")
	}
	state.RequestedBy = state.WithoutRequest(ev.Target)
	return state, nil
}

func applyReturn(state models.BookState, ev Event) (models.BookState, error) {
	if state.Status != models.StatusBorrowed {
		return state, invalid("Book is not borrowed")
	}
	subject := subjectOf(state, ev)
	if !state.IsBorrowedBy(subject) {
		return state, invalid("Book is not borrowed by this user")
	}
	state.ReturnedBy = &subject
	state.BorrowedBy = nil
	state.Status = models.StatusAvailable
	return state, nil
}

func applyLost(state models.BookState, ev Event) (models.BookState, error) {
	if state.Status != models.StatusBorrowed {
		return state, invalid("Book is not borrowed")
	}
	subject := subjectOf(state, ev)
	if !state.IsBorrowedBy(subject) {
		return state, invalid("Book is not borrowed by this user")
	}
	state.LostBy = &subject
	state.BorrowedBy = nil
	state.Status = models.StatusLost
	return state, nil
}

// subjectOf resolves whose loan a Return/Lost event concerns: the explicit
// target if one was given, otherwise the current borrower.
func subjectOf(state models.BookState, ev Event) primitive.ObjectID {
	if !ev.Target.IsZero() {
		return ev.Target
	}
	if state.BorrowedBy != nil {
		return *state.BorrowedBy
	}
	return primitive.NilObjectID
}
