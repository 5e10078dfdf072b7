// Package registry is the daemon's authoritative account state. It
// enforces the invariants the client trusts it for: email uniqueness
// and at most one active account.
package registry

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/edvin/gitswitch/internal/model"
)

var (
	// ErrNotFound is returned when no account matches the given email.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateEmail is returned when adding an email that already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
)

type record struct {
	id        string
	account   model.Account
	publicKey string
}

// Registry holds accounts in insertion order.
type Registry struct {
	mu      sync.Mutex
	records []*record
}

func New() *Registry {
	return &Registry{}
}

// List returns all accounts in insertion order.
func (r *Registry) List() []model.Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Account, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.account)
	}
	return out
}

// Current returns a copy of the active account, or nil.
func (r *Registry) Current() *model.Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.account.IsActive {
			account := rec.account
			return &account
		}
	}
	return nil
}

// Add registers a new inactive account and generates its SSH keypair.
func (r *Registry) Add(name, email string) (model.Account, error) {
	publicKey, err := generateKey(email)
	if err != nil {
		return model.Account{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.account.Email == email {
			return model.Account{}, ErrDuplicateEmail
		}
	}

	rec := &record{
		id:        uuid.NewString(),
		account:   model.Account{Name: name, Email: email},
		publicKey: publicKey,
	}
	r.records = append(r.records, rec)
	return rec.account, nil
}

// Remove deletes the account with the given email.
func (r *Registry) Remove(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rec := range r.records {
		if rec.account.Email == email {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// RemoveAll deletes every account and reports how many were removed.
func (r *Registry) RemoveAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.records)
	r.records = nil
	return n
}

// Activate marks the given account active and every other inactive.
func (r *Registry) Activate(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var target *record
	for _, rec := range r.records {
		if rec.account.Email == email {
			target = rec
			break
		}
	}
	if target == nil {
		return ErrNotFound
	}

	for _, rec := range r.records {
		rec.account.IsActive = rec == target
	}
	return nil
}

// SSHKey returns the account's public key in authorized-keys form.
func (r *Registry) SSHKey(email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.account.Email == email {
			return rec.publicKey, nil
		}
	}
	return "", ErrNotFound
}
