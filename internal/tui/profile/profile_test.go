package profile

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/api/apitest"
	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/tui"
)

func setup(t *testing.T, sectors []api.Sector) (*apitest.Server, Model) {
	t.Helper()

	srv := apitest.NewServer(t)
	srv.Sectors = sectors

	client, err := api.NewClient(srv.URL, logging.Discard())
	require.NoError(t, err)
	_, err = client.Login(context.Background(), "bob@example.com", "hunter2")
	require.NoError(t, err)

	m := New(client, 80, 24)
	msg := fetch(client, 0)()
	require.IsType(t, profileLoadedMsg{}, msg)
	updated, _ := m.Update(msg)
	return srv, updated.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()

	for _, r := range s {
		updated, _ := m.Update(keyMsg(string(r)))
		m = updated.(Model)
	}
	return m
}

func TestModel_load(t *testing.T) {
	_, m := setup(t, []api.Sector{
		{ID: 1, Name: "Technology"},
		{ID: 2, Name: "Energy"},
	})

	assert.Equal(t, "2 sector interests", m.Status())
	view := m.View()
	assert.Contains(t, view, "Bob")
	assert.Contains(t, view, "bob@example.com")
	assert.Contains(t, view, "Technology")
	assert.Contains(t, view, "Energy")
}

func TestModel_loadFailure(t *testing.T) {
	srv := apitest.NewServer(t)
	client, err := api.NewClient(srv.URL, logging.Discard())
	require.NoError(t, err)

	// Not logged in, so the profile fetch fails.
	m := New(client, 80, 24)
	require.Contains(t, m.View(), "loading...")
	msg := m.Init()()
	require.IsType(t, tui.ErrorMsg{}, msg)
	updated, _ := m.Update(msg)
	m = updated.(Model)

	// The failure reports in the footer; the page renders empty rather
	// than a load that will never finish.
	assert.Equal(t, "", m.View())
	assert.Equal(t, "", m.Status())
}

func TestModel_changeName(t *testing.T) {
	_, m := setup(t, nil)

	updated, _ := m.Update(keyMsg("n"))
	m = updated.(Model)
	require.True(t, m.InputFocused())

	// The input is prefilled with the current name; append to it.
	m = typeString(t, m, "by")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	changed, ok := msg.(nameChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "Bobby", changed.user.Name)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.False(t, m.InputFocused())
	assert.Contains(t, m.View(), "Bobby")
}

func TestModel_changePassword_mismatch(t *testing.T) {
	_, m := setup(t, nil)

	updated, _ := m.Update(keyMsg("p"))
	m = updated.(Model)
	m = typeString(t, m, "hunter2")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(t, updated.(Model), "secret")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(t, updated.(Model), "secre")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	errMsg, ok := cmd().(tui.ErrorMsg)
	require.True(t, ok)
	assert.Contains(t, errMsg.Error.Error(), "do not match")
	assert.False(t, m.InputFocused())
}

func TestModel_changePassword(t *testing.T) {
	_, m := setup(t, nil)

	updated, _ := m.Update(keyMsg("p"))
	m = updated.(Model)
	m = typeString(t, m, "hunter2")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(t, updated.(Model), "secret")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeString(t, updated.(Model), "secret")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(passwordChangedMsg)
	require.True(t, ok)
}

func TestModel_addSector(t *testing.T) {
	_, m := setup(t, []api.Sector{{ID: 1, Name: "Technology"}})

	updated, _ := m.Update(keyMsg("a"))
	m = typeString(t, updated.(Model), "7")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	added, ok := msg.(sectorAddedMsg)
	require.True(t, ok)
	assert.Equal(t, 7, added.sector.ID)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, "2 sector interests", m.Status())
}

func TestModel_addSector_invalidID(t *testing.T) {
	_, m := setup(t, nil)

	updated, _ := m.Update(keyMsg("a"))
	m = typeString(t, updated.(Model), "oil")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(tui.ErrorMsg)
	assert.True(t, ok)
}

func TestModel_removeSector(t *testing.T) {
	srv, m := setup(t, []api.Sector{
		{ID: 1, Name: "Technology"},
		{ID: 2, Name: "Energy"},
	})

	// Move the cursor to the second sector and remove it.
	updated, _ := m.Update(keyMsg("j"))
	m = updated.(Model)
	updated, cmd := m.Update(keyMsg("x"))
	m = updated.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	removed, ok := msg.(sectorRemovedMsg)
	require.True(t, ok)
	assert.Equal(t, 2, removed.id)
	assert.Len(t, srv.Sectors, 1)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, "1 sector interests", m.Status())
	assert.NotContains(t, m.View(), "Energy")
}

func TestModel_deleteAccount(t *testing.T) {
	_, m := setup(t, nil)

	updated, _ := m.Update(keyMsg("D"))
	m = updated.(Model)
	require.True(t, m.InputFocused())
	assert.Contains(t, m.View(), "Delete account")

	updated, cmd := m.Update(keyMsg("y"))
	m = updated.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, accountDeletedMsg{}, msg)

	// Deleting the account ends the session.
	_, cmd = m.Update(msg)
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	var loggedOut bool
	for _, c := range batch {
		if _, ok := c().(tui.LoggedOutMsg); ok {
			loggedOut = true
		}
	}
	assert.True(t, loggedOut)
}

func TestModel_deleteAccount_declined(t *testing.T) {
	_, m := setup(t, nil)

	updated, _ := m.Update(keyMsg("D"))
	m = updated.(Model)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.InputFocused())
	assert.False(t, strings.Contains(m.View(), "Delete account"))
}
