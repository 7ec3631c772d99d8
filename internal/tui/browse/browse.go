// Package browse is the authenticated browser: the tab strip along the top
// and the content beneath it, routing navigation events to content models.
package browse

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/notification"
	"github.com/finchtui/finch/internal/pubsub"
	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/company"
	"github.com/finchtui/finch/internal/tui/keys"
	"github.com/finchtui/finch/internal/tui/logs"
	"github.com/finchtui/finch/internal/tui/news"
	"github.com/finchtui/finch/internal/tui/notifications"
	"github.com/finchtui/finch/internal/tui/profile"
)

// Tab titles. Each data tab keys its content model in the cache by its
// title.
const (
	FollowingTab = "Following"
	ForYouTab    = "For You"
	RecentTab    = "Recent"
	PopularTab   = "Popular"
	SearchTab    = "Search"
	LogoutTab    = "Logout"
)

// DefaultTab is the tab activated at startup unless configured otherwise.
const DefaultTab = FollowingTab

// defaultPageSize is the number of companies initially requested for
// listings with a view-more control.
const defaultPageSize = 10

var tabTitles = []string{
	FollowingTab,
	ForYouTab,
	RecentTab,
	PopularTab,
	SearchTab,
	LogoutTab,
}

// ValidTabs returns the titles of tabs that may be configured as the default
// tab.
func ValidTabs() []string {
	return tabTitles[:len(tabTitles)-1]
}

type Options struct {
	Client        *api.Client
	Logger        *logging.Logger
	Notifications *notification.Service
	// DefaultTab is the tab activated at startup. Unrecognized titles fall
	// back to the Following tab.
	DefaultTab string
	// InitialEvent, if non-nil, is content to show at startup in place of
	// the default tab's content, e.g. parsed from the --open flag. No tab
	// is selected; escape returns to the default tab.
	InitialEvent tui.Event
	Width        int
	Height       int
}

// Model routes between the tab strip and the content models beneath it.
// Exactly one content model is visible at a time, identified by currentKey.
type Model struct {
	client  *api.Client
	logger  *logging.Logger
	service *notification.Service

	tabs  tui.TabSet
	cache *tui.Cache
	// currentKey identifies the visible content model: a tab title, or an
	// event fragment such as "company/42".
	currentKey string
	// lastTab is the tab escape returns to from event content. Event
	// content is not a tab, so while it is visible no tab is selected.
	lastTab string

	bell *bell

	initCmds []tea.Cmd

	width  int
	height int
}

// bell renders the unread notification count at the right-hand end of the
// tab strip. It is shared by pointer so that stats updates reach the tab
// set.
type bell struct {
	stats api.NotificationStats
}

func (b *bell) TabSetInfo() string {
	if b.stats.Unread == 0 {
		return ""
	}
	return tui.Regular.Copy().Foreground(tui.LightBlue).
		Render(fmt.Sprintf("● %d unread", b.stats.Unread))
}

func New(opts Options) Model {
	m := Model{
		client:  opts.Client,
		logger:  opts.Logger,
		service: opts.Notifications,
		cache:   tui.NewCache(),
		bell:    &bell{stats: opts.Notifications.Stats()},
		width:   opts.Width,
		height:  opts.Height,
	}
	m.tabs = tui.NewTabSet(tabTitles, opts.Width).WithTabSetInfo(m.bell)

	defaultTab := opts.DefaultTab
	if !validTab(defaultTab) {
		defaultTab = DefaultTab
	}
	m.lastTab = defaultTab

	// Content passed on the command line takes the default tab's place: no
	// tab is selected and the tab's own content is not fetched until the
	// user returns to it.
	if opts.InitialEvent != nil {
		m.initCmds = append(m.initCmds, m.ensureEvent(opts.InitialEvent))
		m.currentKey = opts.InitialEvent.Fragment()
	} else {
		m.tabs.SetActiveTab(defaultTab)
		m.currentKey = defaultTab
		m.initCmds = append(m.initCmds, m.ensureTab(defaultTab))
	}
	return m
}

func validTab(title string) bool {
	for _, t := range ValidTabs() {
		if t == title {
			return true
		}
	}
	return false
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmds...)
}

func (m Model) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.NavigationMsg:
		// Event content is not a tab, so the tab selection is cleared while
		// it is visible.
		cmd := m.ensureEvent(msg.Event)
		m.currentKey = msg.Event.Fragment()
		m.tabs.ClearActiveTab()
		return m, cmd
	case tui.TabClickedMsg:
		if msg.Title == LogoutTab {
			return m, logout(m.client)
		}
		// The tab only becomes active once the set-active message arrives
		// back.
		return m, tui.CmdHandler(tui.SetActiveTabMsg(msg.Title))
	case tui.SetActiveTabMsg:
		m.tabs, _ = m.tabs.Update(msg)
		cmd := m.ensureTab(string(msg))
		m.currentKey = string(msg)
		m.lastTab = string(msg)
		return m, cmd
	case pubsub.Event[api.NotificationStats]:
		m.bell.stats = msg.Payload
		return m, nil
	case tui.FilterFocusReqMsg, tui.FilterBlurMsg, tui.FilterCloseMsg, tui.FilterKeyMsg:
		return m, m.cache.Update(m.currentKey, msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tabs, _ = m.tabs.Update(msg)
		cmds := m.cache.UpdateAll(tea.WindowSizeMsg{
			Width:  msg.Width,
			Height: m.contentHeight(),
		})
		return m, tea.Batch(cmds...)
	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	// Remaining messages, e.g. loaded content and confirmed follows, are
	// broadcast to every cached model, including those not visible.
	return m, tea.Batch(m.cache.UpdateAll(msg)...)
}

func (m Model) updateKey(msg tea.KeyMsg) (tui.Model, tea.Cmd) {
	// While a content model has a text input focused it receives every
	// keystroke.
	if focused, ok := m.currentModel().(tui.ModelInputFocused); ok && focused.InputFocused() {
		return m, m.cache.Update(m.currentKey, msg)
	}

	switch {
	case key.Matches(msg, keys.Global.Logs):
		return m, tui.NavigateTo(tui.OpenLogsEvent{})
	case key.Matches(msg, keys.Global.Profile):
		return m, tui.NavigateTo(tui.OpenProfileEvent{})
	case key.Matches(msg, keys.Global.Notifications):
		return m, tui.NavigateTo(tui.OpenNotificationsEvent{})
	case key.Matches(msg, keys.Navigation.TabNext), key.Matches(msg, keys.Navigation.TabPrev):
		var cmd tea.Cmd
		m.tabs, cmd = m.tabs.Update(msg)
		return m, cmd
	case key.Matches(msg, keys.Global.Enter):
		if t := m.tabs.HighlightedTitle(); t != "" && t != m.tabs.ActiveTitle() {
			var cmd tea.Cmd
			m.tabs, cmd = m.tabs.Update(msg)
			return m, cmd
		}
	case key.Matches(msg, keys.Global.Escape):
		if m.currentKey != m.tabs.ActiveTitle() {
			// Back from event content to the last selected tab, whose
			// content is made now if the tab was never visited.
			m.tabs.SetActiveTab(m.lastTab)
			cmd := m.ensureTab(m.lastTab)
			m.currentKey = m.lastTab
			return m, cmd
		}
		m.tabs, _ = m.tabs.Update(msg)
		return m, nil
	default:
		// Number keys click tabs directly.
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			var cmd tea.Cmd
			m.tabs, cmd = m.tabs.Update(msg)
			return m, cmd
		}
	}

	return m, m.cache.Update(m.currentKey, msg)
}

// ensureTab makes the content model for a tab unless one is already cached,
// returning its init command.
func (m *Model) ensureTab(title string) tea.Cmd {
	if m.cache.Exists(title) {
		return nil
	}
	model, err := m.makeTab(title)
	if err != nil {
		return tui.ReportError(err, "opening %s tab", title)
	}
	m.cache.Put(title, model)
	return model.Init()
}

// ensureEvent makes the content model for an event, returning its init
// command. Company, article and notification content is remade on every
// visit so that it is fresh; the profile and log listing are reused.
func (m *Model) ensureEvent(event tui.Event) tea.Cmd {
	key := event.Fragment()
	switch event.(type) {
	case tui.OpenProfileEvent, tui.OpenLogsEvent:
		if m.cache.Exists(key) {
			return nil
		}
	}
	model, err := m.makeEvent(event)
	if err != nil {
		return tui.ReportError(err, "opening %s", key)
	}
	m.cache.Put(key, model)
	return model.Init()
}

func (m *Model) makeTab(title string) (tui.Model, error) {
	ch := m.contentHeight()
	switch title {
	case FollowingTab:
		return company.NewList(company.ListOptions{
			Client: m.client,
			Title:  FollowingTab,
			Source: func(ctx context.Context, _ int) ([]api.Company, error) {
				return m.client.Following(ctx)
			},
			ReloadOnFollow: true,
			Width:          m.width,
			Height:         ch,
		}), nil
	case ForYouTab:
		return company.NewList(company.ListOptions{
			Client:   m.client,
			Title:    ForYouTab,
			Source:   m.client.ForYou,
			PageSize: defaultPageSize,
			Width:    m.width,
			Height:   ch,
		}), nil
	case PopularTab:
		return company.NewList(company.ListOptions{
			Client:   m.client,
			Title:    PopularTab,
			Source:   m.client.Popular,
			PageSize: defaultPageSize,
			Width:    m.width,
			Height:   ch,
		}), nil
	case RecentTab:
		return news.NewList(m.client, m.width, ch), nil
	case SearchTab:
		return company.NewSearch(m.client, m.width, ch), nil
	}
	return nil, fmt.Errorf("no content for tab %s", title)
}

func (m *Model) makeEvent(event tui.Event) (tui.Model, error) {
	ch := m.contentHeight()
	switch event := event.(type) {
	case tui.OpenCompanyEvent:
		return company.NewDetails(m.client, event.ID, m.width, ch), nil
	case tui.OpenArticleEvent:
		return news.NewArticle(m.client, event.ID, m.width, ch), nil
	case tui.OpenNotificationsEvent:
		return notifications.NewList(m.service, m.width, ch), nil
	case tui.OpenProfileEvent:
		return profile.New(m.client, m.width, ch), nil
	case tui.OpenLogsEvent:
		return logs.NewList(m.logger, m.width, ch), nil
	case tui.OpenLogMessageEvent:
		return logs.NewMessage(m.logger, event.Serial, m.width, ch)
	}
	return nil, fmt.Errorf("unsupported event %s", event.Fragment())
}

func logout(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		// A failed logout leaves the session, and the browser, as they
		// were.
		if err := client.Logout(context.Background()); err != nil {
			return tui.NewErrorMsg(err, "logging out")
		}
		return tui.LoggedOutMsg{}
	}
}

func (m Model) currentModel() tui.Model {
	return m.cache.Get(m.currentKey)
}

func (m Model) contentHeight() int {
	return max(0, m.height-tui.TabHeaderHeight)
}

func (m Model) View() string {
	var content string
	if model := m.currentModel(); model != nil {
		content = model.View()
	}
	return lipgloss.JoinVertical(lipgloss.Top, m.tabs.View(), content)
}

// InputFocused reports whether the visible content model has a text input
// focused.
func (m Model) InputFocused() bool {
	if focused, ok := m.currentModel().(tui.ModelInputFocused); ok {
		return focused.InputFocused()
	}
	return false
}

func (m Model) Title() string {
	if titled, ok := m.currentModel().(tui.ModelTitle); ok {
		return titled.Title()
	}
	return ""
}

func (m Model) Status() string {
	if status, ok := m.currentModel().(tui.ModelStatus); ok {
		return status.Status()
	}
	return ""
}

func (m Model) HelpBindings() []key.Binding {
	bindings := []key.Binding{
		keys.Navigation.TabNext,
		keys.Navigation.TabPrev,
		keys.Global.Profile,
		keys.Global.Notifications,
		keys.Global.Logs,
	}
	if helped, ok := m.currentModel().(tui.ModelHelpBindings); ok {
		bindings = append(bindings, helped.HelpBindings()...)
	}
	return tui.RemoveDuplicateBindings(bindings)
}
