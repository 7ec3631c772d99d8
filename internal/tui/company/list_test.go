package company

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/tui"
)

func companies(n int) []api.Company {
	out := make([]api.Company, n)
	for i := range out {
		out[i] = api.Company{ID: i + 1, Name: "co"}
	}
	return out
}

// fixedSource serves min(count, len) companies like the backend does.
func fixedSource(available []api.Company) Source {
	return func(_ context.Context, count int) ([]api.Company, error) {
		if count > 0 && count < len(available) {
			return available[:count], nil
		}
		return available, nil
	}
}

func runInit(t *testing.T, m List) (List, tea.Msg) {
	t.Helper()
	cmd := m.Init()
	require.NotNil(t, cmd)
	return m, cmd()
}

func TestList_load(t *testing.T) {
	m := NewList(ListOptions{Source: fixedSource(companies(3)), Title: "Following"})

	m, msg := runInit(t, m)
	updated, _ := m.Update(msg)
	m = updated.(List)

	assert.Len(t, m.table.Items(), 3)
	assert.False(t, m.loading)
}

func TestList_loadFailure(t *testing.T) {
	failing := func(context.Context, int) ([]api.Company, error) {
		return nil, errors.New("backend exploded")
	}
	m := NewList(ListOptions{Source: failing, Title: "Following"})
	require.Equal(t, "loading...", m.Status())

	m, msg := runInit(t, m)
	require.IsType(t, tui.ErrorMsg{}, msg)
	updated, _ := m.Update(msg)
	m = updated.(List)

	// The failure reports in the footer; the listing stops claiming a load
	// is in progress.
	assert.False(t, m.loading)
	assert.Equal(t, "0 companies", m.Status())
}

// A full page means there may be more; a short page means the listing is
// exhausted.
func TestList_viewMoreHeuristic(t *testing.T) {
	t.Run("full page", func(t *testing.T) {
		m := NewList(ListOptions{Source: fixedSource(companies(17)), Title: "Popular", PageSize: 10})

		m, msg := runInit(t, m)
		updated, _ := m.Update(msg)
		m = updated.(List)

		assert.Len(t, m.table.Items(), 10)
		assert.True(t, m.hasMore)

		// View more requests 20, receives 17: exhausted.
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
		m = updated.(List)
		require.NotNil(t, cmd)
		updated, _ = m.Update(cmd())
		m = updated.(List)

		assert.Len(t, m.table.Items(), 17)
		assert.False(t, m.hasMore)
	})

	t.Run("short page", func(t *testing.T) {
		m := NewList(ListOptions{Source: fixedSource(companies(7)), Title: "Popular", PageSize: 10})

		m, msg := runInit(t, m)
		updated, _ := m.Update(msg)
		m = updated.(List)

		assert.Len(t, m.table.Items(), 7)
		assert.False(t, m.hasMore)

		// View more on an exhausted listing is a no-op.
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
		assert.Nil(t, cmd)
	})
}

// A response from a superseded load is discarded, never overwriting the
// response from a later load.
func TestList_staleResponseDiscarded(t *testing.T) {
	m := NewList(ListOptions{Source: fixedSource(companies(30)), Title: "Popular", PageSize: 10})

	m, first := runInit(t, m)

	// A reload supersedes the initial load before its response arrives.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = updated.(List)
	require.NotNil(t, cmd)
	second := cmd()

	updated, _ = m.Update(second)
	m = updated.(List)
	assert.Len(t, m.table.Items(), 10)

	// The initial load's response arrives late and is dropped.
	updated, _ = m.Update(first)
	m = updated.(List)
	assert.Len(t, m.table.Items(), 10)
	assert.False(t, m.loading)
}

// Loaded messages for other listings are ignored.
func TestList_ignoresOtherListings(t *testing.T) {
	m := NewList(ListOptions{Source: fixedSource(companies(3)), Title: "Following"})

	updated, _ := m.Update(companiesLoadedMsg{title: "Popular", companies: companies(5)})
	m = updated.(List)
	assert.Empty(t, m.table.Items())
}

func TestList_enterOpensCompany(t *testing.T) {
	m := NewList(ListOptions{Source: fixedSource(companies(3)), Title: "Following"})
	m, msg := runInit(t, m)
	updated, _ := m.Update(msg)
	m = updated.(List)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	nav, ok := cmd().(tui.NavigationMsg)
	require.True(t, ok)
	assert.Equal(t, tui.OpenCompanyEvent{ID: 1}, nav.Event)
}

// Follow state only flips once the backend confirms.
func TestList_followPendingUntilConfirmed(t *testing.T) {
	srv := newTestServer(t)
	m := NewList(ListOptions{
		Client: srv.client,
		Source: fixedSource(companies(3)),
		Title:  "Popular",
	})
	m, msg := runInit(t, m)
	updated, _ := m.Update(msg)
	m = updated.(List)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("F")})
	m = updated.(List)
	require.NotNil(t, cmd)

	// In flight: not yet following, and a second press is a no-op.
	assert.False(t, m.table.Items()[1].IsFollowing)
	updated, dup := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("F")})
	m = updated.(List)
	assert.Nil(t, dup)

	// Confirmation flips the state.
	updated, _ = m.Update(cmd())
	m = updated.(List)
	assert.True(t, m.table.Items()[1].IsFollowing)
	assert.Equal(t, []int{1}, srv.server.Followed)
}

func TestList_status(t *testing.T) {
	m := NewList(ListOptions{Source: fixedSource(companies(12)), Title: "Popular", PageSize: 10})
	assert.Equal(t, "loading...", m.Status())

	m, msg := runInit(t, m)
	updated, _ := m.Update(msg)
	m = updated.(List)
	assert.Equal(t, "10 shown, more available", m.Status())
}
