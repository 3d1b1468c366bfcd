package lending

import (
	"book-sharing-service/internal/models"
)

// Authorize decides whether the event's actor may trigger the transition on
// this state. It answers only the "who" question; whether the transition is
// possible at all is Apply's job.
func Authorize(state models.BookState, ev Event) error {
	switch ev.Kind {
	case EventRequest:
		if ev.Actor == state.UploadedBy {
			return forbidden("Book owner cannot request own book")
		}
		if state.IsBorrowedBy(ev.Actor) {
			return forbidden("Book is already borrowed by this user")
		}
		return nil

	case EventApprove, EventReject:
		if ev.Actor != state.UploadedBy {
			return forbidden("Only the book owner can approve or reject book requests")
		}
		return nil

	case EventReturn:
		if state.IsBorrowedBy(ev.Actor) || ev.Actor == state.UploadedBy {
			return nil
		}
		return forbidden("Only the borrower or the book owner can return this book")

	case EventLost:
		if state.IsBorrowedBy(ev.Actor) || ev.Actor == state.UploadedBy {
			return nil
		}
		return forbidden("Only the borrower or the book owner can mark this book as lost")

	default:
		return forbidden("Unknown book operation")
	}
}
