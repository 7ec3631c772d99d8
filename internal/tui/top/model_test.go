package top

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/api/apitest"
	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/notification"
	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/browse"
	"github.com/finchtui/finch/internal/tui/login"
)

func setup(t *testing.T) (*apitest.Server, *api.Client, model) {
	t.Helper()

	srv := apitest.NewServer(t)
	logger := logging.Discard()
	client, err := api.NewClient(srv.URL, logger)
	require.NoError(t, err)

	tm, err := New(Options{
		Client: client,
		Logger: logger,
		Notifications: notification.NewService(notification.ServiceOptions{
			Client: client,
			Logger: logger,
		}),
	})
	require.NoError(t, err)

	m := tm.(model)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return srv, client, updated.(model)
}

func TestModel_startsSignedOut(t *testing.T) {
	_, _, m := setup(t)

	assert.IsType(t, login.Model{}, m.body)
	assert.Contains(t, m.View(), "signed out")

	// With no session the silent check leaves the login form in place.
	assert.Nil(t, checkSession(m.client)())
}

func TestModel_resumesSession(t *testing.T) {
	_, client, m := setup(t)
	_, err := client.Login(context.Background(), "bob@example.com", "hunter2")
	require.NoError(t, err)

	msg := checkSession(client)()
	loggedIn, ok := msg.(tui.LoggedInMsg)
	require.True(t, ok)

	updated, _ := m.Update(loggedIn)
	m = updated.(model)
	assert.IsType(t, browse.Model{}, m.body)
	assert.Contains(t, m.View(), "bob@example.com")
}

func TestModel_logoutDropsBrowsingState(t *testing.T) {
	_, client, m := setup(t)
	user, err := client.Login(context.Background(), "bob@example.com", "hunter2")
	require.NoError(t, err)

	updated, _ := m.Update(tui.LoggedInMsg{User: user})
	m = updated.(model)
	require.IsType(t, browse.Model{}, m.body)

	updated, _ = m.Update(tui.LoggedOutMsg{})
	m = updated.(model)
	assert.IsType(t, login.Model{}, m.body)
	assert.False(t, m.authed)
}

func TestModel_quitPrompt(t *testing.T) {
	_, _, m := setup(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(model)
	assert.Contains(t, m.View(), "Quit finch?")

	// Any key other than y/ctrl-c cancels.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = updated.(model)
	assert.Nil(t, cmd)
	assert.NotContains(t, m.View(), "Quit finch?")

	// Confirming quits.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(model)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_errorFooter(t *testing.T) {
	_, _, m := setup(t)

	updated, _ := m.Update(tui.NewErrorMsg(errors.New("connection refused"), "loading companies"))
	m = updated.(model)
	assert.Contains(t, m.View(), "Error: loading companies: connection refused")

	// Any keypress clears the footer message.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m = updated.(model)
	assert.NotContains(t, m.View(), "connection refused")
}

func TestModel_helpToggle(t *testing.T) {
	_, _, m := setup(t)

	// While the login form has an input focused '?' is typed into it rather
	// than toggling help.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	m = updated.(model)
	assert.False(t, m.showHelp)

	user, err := m.client.Login(context.Background(), "bob@example.com", "hunter2")
	require.NoError(t, err)
	updated, _ = m.Update(tui.LoggedInMsg{User: user})
	m = updated.(model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	m = updated.(model)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "NAVIGATION")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(model)
	assert.False(t, m.showHelp)
}
