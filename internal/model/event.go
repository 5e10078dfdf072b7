package model

// Event names pushed by the daemon over the event stream.
const (
	EventAccountRemoved     = "account-removed"
	EventAllAccountsRemoved = "all-accounts-removed"
)

// Event is a single push notification frame. Payload carries the account
// email for account-removed and is empty for all-accounts-removed.
type Event struct {
	Name    string `json:"event"`
	Payload string `json:"payload,omitempty"`
}
