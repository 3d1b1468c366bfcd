package lending

// ErrorKind classifies a rejected transition so the HTTP layer can pick the
// right status code without parsing reason strings.
type ErrorKind int

const (
	// KindInvalidTransition means the transition's precondition does not hold
	// in the current state (duplicate request, wrong status, unknown target).
	KindInvalidTransition ErrorKind = iota
	// KindForbidden means the acting user is not allowed to trigger the
	// transition at all.
	KindForbidden
)

type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func invalid(reason string) *Error {
	return &Error{Kind: KindInvalidTransition, Reason: reason}
}

func forbidden(reason string) *Error {
	return &Error{Kind: KindForbidden, Reason: reason}
}
