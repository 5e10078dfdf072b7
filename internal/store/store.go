// Package store holds the client-side account state. It is the single
// place local state is mutated, either by a refresh pulled through the
// workflow layer or by push events from the daemon.
package store

import (
	"sync"

	"github.com/edvin/gitswitch/internal/model"
)

// Store is safe for concurrent use: the event stream dispatches on its
// own goroutine while workflow actions run on the caller's.
//
// The current user is never stored separately. It is derived from the
// collection on every read, so no mutation can leave it pointing at an
// account that is absent or inactive.
type Store struct {
	mu       sync.Mutex
	accounts []model.Account
}

func New() *Store {
	return &Store{}
}

// ReplaceAll swaps in a full snapshot of accounts, in server order.
// Used after every refresh; the previous contents are discarded.
func (s *Store) ReplaceAll(accounts []model.Account) {
	copied := make([]model.Account, len(accounts))
	copy(copied, accounts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = copied
}

// RemoveByEmail drops every account matching email. Removing an absent
// email is a no-op. If the removed account was active, CurrentUser
// becomes nil as a consequence of derivation.
func (s *Store) RemoveByEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.accounts[:0]
	for _, a := range s.accounts {
		if a.Email != email {
			kept = append(kept, a)
		}
	}
	s.accounts = kept
}

// ClearAll empties the collection.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = nil
}

// Accounts returns a copy of the collection in display order.
func (s *Store) Accounts() []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// CurrentUser returns a copy of the active account, or nil when no
// account is active. When the backend hands us more than one active
// account the first wins; the store does not repair backend state.
func (s *Store) CurrentUser() *model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.IsActive {
			current := a
			return &current
		}
	}
	return nil
}
