package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/gitswitch/internal/model"
)

func accounts(active string, emails ...string) []model.Account {
	out := make([]model.Account, 0, len(emails))
	for _, e := range emails {
		out = append(out, model.Account{
			Name:     "user " + e,
			Email:    e,
			IsActive: e == active,
		})
	}
	return out
}

// checkInvariant asserts CurrentUser is either nil or an active member
// of the collection.
func checkInvariant(t *testing.T, s *Store) {
	t.Helper()
	current := s.CurrentUser()
	if current == nil {
		return
	}
	assert.True(t, current.IsActive)
	found := false
	for _, a := range s.Accounts() {
		if a.Email == current.Email {
			found = true
		}
	}
	assert.True(t, found, "current user %s not in collection", current.Email)
}

func TestReplaceAll(t *testing.T) {
	s := New()
	s.ReplaceAll(accounts("b@example.com", "a@example.com", "b@example.com"))

	require.Len(t, s.Accounts(), 2)
	current := s.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "b@example.com", current.Email)
	checkInvariant(t, s)
}

func TestReplaceAll_NoActive(t *testing.T) {
	s := New()
	s.ReplaceAll(accounts("", "a@example.com"))
	assert.Nil(t, s.CurrentUser())
	checkInvariant(t, s)
}

func TestReplaceAll_PreservesOrder(t *testing.T) {
	s := New()
	s.ReplaceAll(accounts("", "c@x.com", "a@x.com", "b@x.com"))

	got := s.Accounts()
	require.Len(t, got, 3)
	assert.Equal(t, "c@x.com", got[0].Email)
	assert.Equal(t, "a@x.com", got[1].Email)
	assert.Equal(t, "b@x.com", got[2].Email)
}

func TestReplaceAll_MultipleActiveFirstWins(t *testing.T) {
	s := New()
	s.ReplaceAll([]model.Account{
		{Name: "one", Email: "one@x.com", IsActive: true},
		{Name: "two", Email: "two@x.com", IsActive: true},
	})

	current := s.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "one@x.com", current.Email)
	checkInvariant(t, s)
}

func TestRemoveByEmail(t *testing.T) {
	s := New()
	s.ReplaceAll(accounts("a@x.com", "a@x.com", "b@x.com"))

	s.RemoveByEmail("b@x.com")

	require.Len(t, s.Accounts(), 1)
	require.NotNil(t, s.CurrentUser())
	checkInvariant(t, s)
}

func TestRemoveByEmail_CurrentUserCleared(t *testing.T) {
	s := New()
	s.ReplaceAll(accounts("a@x.com", "a@x.com", "b@x.com"))

	s.RemoveByEmail("a@x.com")

	assert.Len(t, s.Accounts(), 1)
	assert.Nil(t, s.CurrentUser())
	checkInvariant(t, s)
}

func TestRemoveByEmail_AbsentIsNoOp(t *testing.T) {
	s := New()
	s.ReplaceAll(accounts("a@x.com", "a@x.com", "b@x.com"))

	s.RemoveByEmail("nobody@x.com")

	assert.Len(t, s.Accounts(), 2)
	current := s.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, "a@x.com", current.Email)
	checkInvariant(t, s)
}

func TestRemoveByEmail_Empty(t *testing.T) {
	s := New()
	s.RemoveByEmail("a@x.com")
	assert.Empty(t, s.Accounts())
	assert.Nil(t, s.CurrentUser())
}

func TestClearAll(t *testing.T) {
	s := New()
	s.ReplaceAll(accounts("a@x.com", "a@x.com", "b@x.com"))

	s.ClearAll()

	assert.Empty(t, s.Accounts())
	assert.Nil(t, s.CurrentUser())
	checkInvariant(t, s)
}

func TestMutationSequences_InvariantHolds(t *testing.T) {
	s := New()
	steps := []func(){
		func() { s.ReplaceAll(accounts("a@x.com", "a@x.com", "b@x.com", "c@x.com")) },
		func() { s.RemoveByEmail("b@x.com") },
		func() { s.RemoveByEmail("a@x.com") },
		func() { s.ReplaceAll(accounts("c@x.com", "c@x.com")) },
		func() { s.ClearAll() },
		func() { s.RemoveByEmail("c@x.com") },
		func() { s.ReplaceAll(accounts("", "d@x.com")) },
	}
	for _, step := range steps {
		step()
		checkInvariant(t, s)
	}
}

func TestAccounts_ReturnsCopy(t *testing.T) {
	s := New()
	s.ReplaceAll(accounts("a@x.com", "a@x.com"))

	got := s.Accounts()
	got[0].Email = "mutated@x.com"

	assert.Equal(t, "a@x.com", s.Accounts()[0].Email)
}
