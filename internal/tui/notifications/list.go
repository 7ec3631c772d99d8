// Package notifications contains the notifications page.
package notifications

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/notification"
	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/keys"
	"github.com/finchtui/finch/internal/tui/table"
)

var (
	markReadKey = key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "mark read"),
	)
	markAllReadKey = key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "mark all read"),
	)
)

// List is the notifications page. Opening a notification marks it read and
// navigates to its target.
type List struct {
	service *notification.Service
	table   table.Model[api.Notification]

	serial  int
	loading bool
}

func NewList(service *notification.Service, width, height int) List {
	renderer := func(n api.Notification) table.RenderedRow {
		unread := " "
		message := n.Message
		if !n.Read {
			unread = tui.Regular.Copy().Foreground(tui.LightBlue).Render("●")
			message = tui.Bold.Render(message)
		}
		return table.RenderedRow{
			"unread":   unread,
			"message":  message,
			"target":   targetLabel(n),
			"received": tui.Ago(n.ReceivedTime()),
		}
	}
	columns := []table.Column{
		{Key: "unread", Title: "", Width: 1},
		{Key: "message", Title: "MESSAGE", FlexFactor: 3},
		{Key: "target", Title: "TARGET", FlexFactor: 1},
		{Key: "received", Title: "RECEIVED", Width: len("99 minutes ago")},
	}
	return List{
		service: service,
		loading: true,
		table: table.New(columns, renderer, func(n api.Notification) int { return n.ID },
			width, height,
			table.WithSortFunc(newestFirst),
		),
	}
}

func targetLabel(n api.Notification) string {
	switch n.TargetType {
	case api.NotificationTargetCompany:
		return fmt.Sprintf("company/%d", n.TargetID)
	case api.NotificationTargetArticle:
		return fmt.Sprintf("article/%d", n.TargetID)
	default:
		return "-"
	}
}

func newestFirst(i, j api.Notification) int {
	return j.ReceivedTime().Compare(i.ReceivedTime())
}

type notificationsLoadedMsg struct {
	serial        int
	notifications []api.Notification
}

type markedReadMsg struct {
	// event to navigate to once the notification is marked read, if any
	event tui.Event
}

func (m List) Init() tea.Cmd {
	return fetch(m.service, m.serial)
}

func (m *List) reload() tea.Cmd {
	m.serial++
	m.loading = true
	return fetch(m.service, m.serial)
}

func fetch(service *notification.Service, serial int) tea.Cmd {
	return func() tea.Msg {
		notifications, err := service.List(context.Background())
		if err != nil {
			return tui.NewErrorMsg(err, "loading notifications")
		}
		return notificationsLoadedMsg{serial: serial, notifications: notifications}
	}
}

func (m List) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationsLoadedMsg:
		if msg.serial != m.serial {
			return m, nil
		}
		m.loading = false
		items := make(map[int]api.Notification, len(msg.notifications))
		for _, n := range msg.notifications {
			items[n.ID] = n
		}
		m.table.SetItems(items)
		return m, nil
	case tui.ErrorMsg:
		// The load failed; stop reporting it as in progress. The error
		// itself reports in the footer.
		m.loading = false
		return m, nil
	case markedReadMsg:
		cmds := []tea.Cmd{m.reload()}
		if msg.event != nil {
			cmds = append(cmds, tui.NavigateTo(msg.event))
		}
		return m, tea.Batch(cmds...)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Global.Enter):
			if row, ok := m.table.CurrentRow(); ok {
				return m, m.open(row.Value)
			}
		case key.Matches(msg, markReadKey):
			if row, ok := m.table.CurrentRow(); ok && !row.Value.Read {
				return m, m.markRead(row.Value.ID, nil)
			}
		case key.Matches(msg, markAllReadKey):
			return m, m.markAllRead()
		case key.Matches(msg, keys.Global.Reload):
			return m, m.reload()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// open marks the notification read and navigates to its target.
func (m List) open(n api.Notification) tea.Cmd {
	var event tui.Event
	switch n.TargetType {
	case api.NotificationTargetCompany:
		event = tui.OpenCompanyEvent{ID: n.TargetID}
	case api.NotificationTargetArticle:
		event = tui.OpenArticleEvent{ID: n.TargetID}
	}
	if n.Read {
		if event == nil {
			return nil
		}
		return tui.NavigateTo(event)
	}
	return m.markRead(n.ID, event)
}

func (m List) markRead(id int, event tui.Event) tea.Cmd {
	return func() tea.Msg {
		if err := m.service.MarkAsRead(context.Background(), id); err != nil {
			return tui.NewErrorMsg(err, "marking notification read")
		}
		return markedReadMsg{event: event}
	}
}

func (m List) markAllRead() tea.Cmd {
	return func() tea.Msg {
		if err := m.service.ReadAll(context.Background()); err != nil {
			return tui.NewErrorMsg(err, "marking notifications read")
		}
		return markedReadMsg{}
	}
}

func (m List) View() string {
	return m.table.View()
}

func (m List) Title() string {
	return "Notifications"
}

func (m List) Status() string {
	if m.loading {
		return "loading..."
	}
	var unread int
	for _, n := range m.table.Items() {
		if !n.Read {
			unread++
		}
	}
	return fmt.Sprintf("%d unread of %d", unread, len(m.table.Items()))
}

func (m List) HelpBindings() []key.Binding {
	return []key.Binding{
		keys.Global.Enter,
		markReadKey,
		markAllReadKey,
		keys.Global.Reload,
	}
}
