package app

// Notice is a single user-facing outcome message. Every failed workflow
// action produces exactly one; successes produce theirs at most once.
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier is the toast boundary. The CLI prints notices; tests record
// them.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) {
	f(n)
}
