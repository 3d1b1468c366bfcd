package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookStatus string

const (
	StatusAvailable BookStatus = "AVAILABLE"
	StatusBorrowed  BookStatus = "BORROWED"
	StatusLost      BookStatus = "LOST"

	BookStateEntity = "book_state"
)

// BookState tracks the lending lifecycle of a single book. There is exactly
// one state record per book; `requested_by` is an insertion-ordered queue in
// which each user appears at most once.
type BookState struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	BookID      primitive.ObjectID   `bson:"book" json:"book"`
	Status      BookStatus           `bson:"current_status" json:"current_status"`
	UploadedBy  primitive.ObjectID   `bson:"uploaded_by" json:"uploaded_by"`
	BorrowedBy  *primitive.ObjectID  `bson:"borrowed_by" json:"borrowed_by"`
	ReturnedBy  *primitive.ObjectID  `bson:"returned_by" json:"returned_by"`
	LostBy      *primitive.ObjectID  `bson:"lost_by" json:"lost_by"`
	RequestedBy []primitive.ObjectID `bson:"requested_by" json:"requested_by"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

var ValidBookStatuses = map[string]bool{
	string(StatusAvailable): true,
	string(StatusBorrowed):  true,
	string(StatusLost):      true,
}

func IsValidBookStatus(status string) bool {
	return ValidBookStatuses[status]
}

// HasRequestFrom reports whether the user is already queued.
func (s *BookState) HasRequestFrom(userID primitive.ObjectID) bool {
	for _, id := range s.RequestedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// WithoutRequest returns the queue with the given user removed, order of the
// remaining entries preserved.
func (s *BookState) WithoutRequest(userID primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(s.RequestedBy))
	for _, id := range s.RequestedBy {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// IsBorrowedBy reports whether the user is the current borrower.
func (s *BookState) IsBorrowedBy(userID primitive.ObjectID) bool {
	return s.BorrowedBy != nil && *s.BorrowedBy == userID
}
