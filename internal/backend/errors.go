package backend

// Error is the uniform failure shape for every daemon command. Transport
// failures and HTTP error responses both normalize into it; callers only
// ever see one kind of backend failure.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
