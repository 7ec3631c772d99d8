package browse

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/api/apitest"
	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/notification"
	"github.com/finchtui/finch/internal/pubsub"
	"github.com/finchtui/finch/internal/tui"
)

func setup(t *testing.T, opts Options) (*apitest.Server, Model) {
	t.Helper()

	srv := apitest.NewServer(t)
	srv.ForYou = []api.Company{
		{ID: 1, Name: "Acme"},
		{ID: 2, Name: "Globex"},
	}
	srv.AddCompany(api.CompanyDetails{Company: api.Company{ID: 7, Name: "Initech"}})

	logger := logging.Discard()
	client, err := api.NewClient(srv.URL, logger)
	require.NoError(t, err)
	_, err = client.Login(context.Background(), "bob@example.com", "hunter2")
	require.NoError(t, err)

	opts.Client = client
	opts.Logger = logger
	opts.Notifications = notification.NewService(notification.ServiceOptions{
		Client: client,
		Logger: logger,
	})
	if opts.Width == 0 {
		opts.Width = 100
	}
	if opts.Height == 0 {
		opts.Height = 30
	}
	return srv, New(opts)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// activate clicks the titled tab and applies the resulting messages,
// returning the init command of the tab's content model.
func activate(t *testing.T, m Model, title string) (Model, tea.Cmd) {
	t.Helper()

	updated, cmd := m.Update(tui.TabClickedMsg{Title: title})
	m = updated.(Model)
	require.NotNil(t, cmd)
	msg := cmd()
	require.Equal(t, tui.SetActiveTabMsg(title), msg)
	updated, cmd = m.Update(msg)
	return updated.(Model), cmd
}

func TestModel_initialTab(t *testing.T) {
	_, m := setup(t, Options{DefaultTab: ForYouTab})

	assert.Equal(t, ForYouTab, m.tabs.ActiveTitle())
	assert.Equal(t, ForYouTab, m.currentKey)
	require.NotNil(t, m.Init())
}

func TestModel_initialTab_unrecognized(t *testing.T) {
	_, m := setup(t, Options{DefaultTab: "Bookmarks"})

	assert.Equal(t, FollowingTab, m.tabs.ActiveTitle())
}

func TestModel_initialEvent(t *testing.T) {
	// Content passed on the command line is shown in place of the default
	// tab's content. It is not a tab, so no tab is selected.
	_, m := setup(t, Options{
		DefaultTab:   ForYouTab,
		InitialEvent: tui.OpenCompanyEvent{ID: 7},
	})

	assert.Equal(t, "", m.tabs.ActiveTitle())
	assert.Equal(t, "company/7", m.currentKey)
	// The default tab's content is not fetched while the event content is
	// shown.
	assert.False(t, m.cache.Exists(ForYouTab))

	// Escape selects the default tab and makes its content now.
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, ForYouTab, m.tabs.ActiveTitle())
	assert.Equal(t, ForYouTab, m.currentKey)
	assert.NotNil(t, cmd)
}

func TestModel_eventClearsTabSelection(t *testing.T) {
	_, m := setup(t, Options{})
	require.Equal(t, FollowingTab, m.tabs.ActiveTitle())

	// Opening a company deselects the tab strip entirely.
	updated, _ := m.Update(tui.NavigationMsg{Event: tui.OpenCompanyEvent{ID: 7}})
	m = updated.(Model)
	assert.Equal(t, "", m.tabs.ActiveTitle())
	assert.Equal(t, "company/7", m.currentKey)

	// Escape reselects the tab the user came from.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, FollowingTab, m.tabs.ActiveTitle())
	assert.Equal(t, FollowingTab, m.currentKey)
}

func TestModel_tabClick(t *testing.T) {
	_, m := setup(t, Options{})

	m, cmd := activate(t, m, PopularTab)
	assert.Equal(t, PopularTab, m.tabs.ActiveTitle())
	assert.Equal(t, PopularTab, m.currentKey)
	// A fresh tab has a content model to initialize.
	assert.NotNil(t, cmd)
}

func TestModel_contentRetainedAcrossTabSwitches(t *testing.T) {
	_, m := setup(t, Options{})

	m, cmd := activate(t, m, ForYouTab)
	require.NotNil(t, cmd)

	// Deliver the tab content's loaded companies.
	updated, _ := m.Update(cmd())
	m = updated.(Model)
	require.Equal(t, "2 companies", m.Status())

	// Switch away and back: the same content model is reused, still loaded,
	// with no further init.
	m, _ = activate(t, m, RecentTab)
	m, cmd = activate(t, m, ForYouTab)
	assert.Nil(t, cmd)
	assert.Equal(t, "2 companies", m.Status())
}

func TestModel_numberKeyClicksTab(t *testing.T) {
	_, m := setup(t, Options{})

	updated, cmd := m.Update(keyMsg("4"))
	m = updated.(Model)
	require.NotNil(t, cmd)
	clicked, ok := cmd().(tui.TabClickedMsg)
	require.True(t, ok)
	assert.Equal(t, PopularTab, clicked.Title)
}

func TestModel_logout(t *testing.T) {
	_, m := setup(t, Options{})

	_, cmd := m.Update(tui.TabClickedMsg{Title: LogoutTab})
	require.NotNil(t, cmd)
	assert.IsType(t, tui.LoggedOutMsg{}, cmd())
	// Logging out never selects the logout tab.
	assert.Equal(t, FollowingTab, m.tabs.ActiveTitle())
}

func TestModel_logout_serverError(t *testing.T) {
	srv, m := setup(t, Options{})
	srv.FailLogout = true

	_, cmd := m.Update(tui.TabClickedMsg{Title: LogoutTab})
	require.NotNil(t, cmd)
	// A failed logout reports the error; the session and tab state are
	// untouched.
	assert.IsType(t, tui.ErrorMsg{}, cmd())
	assert.Equal(t, FollowingTab, m.tabs.ActiveTitle())
}

func TestModel_navigation(t *testing.T) {
	_, m := setup(t, Options{})

	updated, cmd := m.Update(tui.NavigationMsg{Event: tui.OpenCompanyEvent{ID: 7}})
	m = updated.(Model)
	assert.Equal(t, "company/7", m.currentKey)
	assert.Equal(t, "", m.tabs.ActiveTitle())
	assert.NotNil(t, cmd)

	// Revisiting remakes company content so that it is fresh.
	updated, cmd = m.Update(tui.NavigationMsg{Event: tui.OpenCompanyEvent{ID: 7}})
	m = updated.(Model)
	assert.NotNil(t, cmd)

	// The profile is cached instead.
	updated, cmd = m.Update(tui.NavigationMsg{Event: tui.OpenProfileEvent{}})
	m = updated.(Model)
	require.NotNil(t, cmd)
	updated, cmd = m.Update(tui.NavigationMsg{Event: tui.OpenProfileEvent{}})
	_ = updated
	assert.Nil(t, cmd)
}

func TestModel_globalKeys(t *testing.T) {
	_, m := setup(t, Options{})

	tests := []struct {
		key  string
		want tui.Event
	}{
		{"P", tui.OpenProfileEvent{}},
		{"N", tui.OpenNotificationsEvent{}},
		{"l", tui.OpenLogsEvent{}},
	}
	for _, tt := range tests {
		_, cmd := m.Update(keyMsg(tt.key))
		require.NotNil(t, cmd, tt.key)
		nav, ok := cmd().(tui.NavigationMsg)
		require.True(t, ok, tt.key)
		assert.Equal(t, tt.want, nav.Event)
	}
}

func TestModel_inputFocusSuspendsGlobalKeys(t *testing.T) {
	_, m := setup(t, Options{})

	m, _ = activate(t, m, SearchTab)
	require.True(t, m.InputFocused())

	// "P" goes into the focused filter form rather than opening the
	// profile.
	updated, cmd := m.Update(keyMsg("P"))
	m = updated.(Model)
	if cmd != nil {
		_, isNav := cmd().(tui.NavigationMsg)
		assert.False(t, isNav)
	}
}

func TestModel_notificationBell(t *testing.T) {
	_, m := setup(t, Options{})

	assert.NotContains(t, m.View(), "unread")

	updated, _ := m.Update(pubsub.NewEvent(pubsub.UpdatedEvent, api.NotificationStats{Total: 5, Unread: 3}))
	m = updated.(Model)
	assert.Contains(t, m.View(), "3 unread")
}
