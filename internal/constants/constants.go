package constants

const (
	Create = "CREATE"
	Update = "UPDATE"
	Delete = "DELETE"

	RequestBook    = "REQUEST_BOOK"
	ApproveRequest = "APPROVE_REQUEST"
	RejectRequest  = "REJECT_REQUEST"
	ReturnBook     = "RETURN_BOOK"
	MarkLost       = "MARK_LOST"

	Signup = "SIGNUP"
	Login  = "LOGIN"
)
