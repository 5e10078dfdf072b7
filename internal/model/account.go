package model

// Account represents a git identity known to the daemon. Email is the
// natural key; at most one account is active at a time.
type Account struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}
