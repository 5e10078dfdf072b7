// Package app orchestrates user-initiated account workflows: validate
// locally, invoke the daemon, then reconcile the store and report the
// outcome. It owns the only mutation paths into client state.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/gitswitch/internal/model"
	"github.com/edvin/gitswitch/internal/store"
	"github.com/edvin/gitswitch/internal/validate"
)

// Gateway is the daemon command surface the workflows depend on.
// Implemented by backend.Client; tests substitute doubles.
type Gateway interface {
	ListAccounts(ctx context.Context) ([]model.Account, error)
	GetCurrentUser(ctx context.Context) (*model.Account, error)
	AddAccount(ctx context.Context, name, email string) error
	RemoveAccount(ctx context.Context, email string) error
	RemoveAllAccounts(ctx context.Context) error
	SwitchAccount(ctx context.Context, email string) error
	GetSSHKey(ctx context.Context, email string) (string, error)
}

// FormDraft is the add-account form state. It survives backend failures
// unchanged so the user can retry without retyping; callers clear it
// only after AddAccount returns nil.
type FormDraft struct {
	Name  string
	Email string
}

// ValidationError carries per-field messages for a rejected draft. It is
// produced before any backend call and is never logged as a fault.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// Reveal is the per-account SSH key disclosure state. On with an empty
// Key means the fetch failed; the toggle stays on without text.
type Reveal struct {
	On  bool
	Key string
}

// App wires the account store, the daemon gateway and the notifier into
// the user-facing workflows.
type App struct {
	store    *store.Store
	gateway  Gateway
	notifier Notifier
	logger   zerolog.Logger

	mu      sync.Mutex
	reveals map[string]Reveal
}

func New(st *store.Store, gw Gateway, notifier Notifier, logger zerolog.Logger) *App {
	return &App{
		store:    st,
		gateway:  gw,
		notifier: notifier,
		logger:   logger.With().Str("component", "app").Logger(),
		reveals:  make(map[string]Reveal),
	}
}

// Accounts returns the current collection snapshot.
func (a *App) Accounts() []model.Account {
	return a.store.Accounts()
}

// CurrentUser returns the active account, or nil.
func (a *App) CurrentUser() *model.Account {
	return a.store.CurrentUser()
}

// Refresh pulls the account list and the current user concurrently and
// applies both in a single store replacement. Nothing is applied unless
// both calls succeed, so readers never observe half-updated state.
func (a *App) Refresh(ctx context.Context) error {
	var (
		accounts []model.Account
		current  *model.Account
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = a.gateway.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = a.gateway.GetCurrentUser(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		a.notifier.Notify(Notice{
			Title:       "Failed to fetch data",
			Description: err.Error(),
			Destructive: true,
		})
		return err
	}

	a.store.ReplaceAll(accounts)

	// The list is authoritative; the separately fetched current user only
	// cross-checks. A mismatch means the daemon changed state between the
	// two calls and the next refresh will converge.
	derived := a.store.CurrentUser()
	if current != nil && (derived == nil || derived.Email != current.Email) {
		a.logger.Debug().Str("email", current.Email).Msg("current user diverged from list snapshot")
	}
	return nil
}

// AddAccount validates the draft, then registers it with the daemon and
// refreshes. Validation failures report every bad field at once and
// make no backend call.
func (a *App) AddAccount(ctx context.Context, draft FormDraft) error {
	fields := make(map[string]string)
	if !validate.Name(draft.Name) {
		fields["name"] = "invalid name"
	}
	if !validate.Email(draft.Email) {
		fields["email"] = "invalid email"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if err := a.gateway.AddAccount(ctx, draft.Name, draft.Email); err != nil {
		a.notifier.Notify(Notice{
			Title:       "Failed to add account",
			Description: err.Error(),
			Destructive: true,
		})
		return err
	}

	a.notifier.Notify(Notice{Title: "Account added successfully"})

	// The refresh reports its own failure; the add itself succeeded, so
	// the draft may be cleared either way.
	a.Refresh(ctx)
	return nil
}

// SwitchAccount activates another identity and refreshes. No optimistic
// flip: the active flag only changes when the daemon says so.
func (a *App) SwitchAccount(ctx context.Context, email string) error {
	if err := a.gateway.SwitchAccount(ctx, email); err != nil {
		a.notifier.Notify(Notice{
			Title:       "Failed to switch account",
			Description: err.Error(),
			Destructive: true,
		})
		return err
	}

	a.notifier.Notify(Notice{Title: "Switched to account: " + email})
	a.Refresh(ctx)
	return nil
}

// RemoveAccount deletes an identity. The store entry is removed locally
// right away rather than waiting for the daemon's account-removed push,
// which then lands as an idempotent no-op.
func (a *App) RemoveAccount(ctx context.Context, email string) error {
	if err := a.gateway.RemoveAccount(ctx, email); err != nil {
		a.notifier.Notify(Notice{
			Title:       "Failed to remove account",
			Description: err.Error(),
			Destructive: true,
		})
		return err
	}

	a.store.RemoveByEmail(email)
	a.clearReveal(email)
	a.notifier.Notify(Notice{Title: "Account removed successfully"})
	return nil
}

// RemoveAllAccounts deletes every identity, with the same optimistic
// local reconciliation as RemoveAccount.
func (a *App) RemoveAllAccounts(ctx context.Context) error {
	if err := a.gateway.RemoveAllAccounts(ctx); err != nil {
		a.notifier.Notify(Notice{
			Title:       "Failed to remove accounts",
			Description: err.Error(),
			Destructive: true,
		})
		return err
	}

	a.store.ClearAll()
	a.mu.Lock()
	a.reveals = make(map[string]Reveal)
	a.mu.Unlock()
	a.notifier.Notify(Notice{Title: "All accounts removed"})
	return nil
}

// RevealSSHKey toggles the key disclosure for one account. Toggling off
// clears the cached text without a backend call. Toggling on always
// fetches fresh; on failure the toggle stays on with no text.
func (a *App) RevealSSHKey(ctx context.Context, email string, on bool) error {
	if !on {
		a.clearReveal(email)
		return nil
	}

	a.setReveal(email, Reveal{On: true})

	key, err := a.gateway.GetSSHKey(ctx, email)
	if err != nil {
		a.notifier.Notify(Notice{
			Title:       "Failed to fetch SSH key",
			Description: err.Error(),
			Destructive: true,
		})
		return err
	}

	a.setReveal(email, Reveal{On: true, Key: key})
	return nil
}

// RevealState returns the disclosure state for an account. The zero
// Reveal means the toggle is off.
func (a *App) RevealState(email string) Reveal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reveals[email]
}

func (a *App) setReveal(email string, r Reveal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reveals[email] = r
}

func (a *App) clearReveal(email string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.reveals, email)
}
