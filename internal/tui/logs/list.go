// Package logs provides views over the log messages the browser itself has
// emitted.
package logs

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/pubsub"
	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/keys"
	"github.com/finchtui/finch/internal/tui/table"
)

const timeFormat = "2006-01-02T15:04:05.000"

var (
	timeColumn = table.Column{
		Key:   "time",
		Title: "TIME",
		Width: len(timeFormat),
	}
	levelColumn = table.Column{
		Key:   "level",
		Title: "LEVEL",
		Width: len("ERROR"),
	}
	msgColumn = table.Column{
		Key:        "message",
		Title:      "MESSAGE",
		FlexFactor: 1,
	}
)

// List is the table of log messages, newest first.
type List struct {
	logger *logging.Logger
	table  table.Model[logging.Message]
}

func NewList(logger *logging.Logger, width, height int) List {
	columns := []table.Column{
		timeColumn,
		levelColumn,
		msgColumn,
	}
	renderer := func(msg logging.Message) table.RenderedRow {
		// combine message and attributes, separated by spaces, with each
		// attribute key/value joined with a '='
		var b strings.Builder
		b.WriteString(msg.Message)
		b.WriteRune(' ')
		for _, attr := range msg.Attributes {
			b.WriteString(tui.Regular.Copy().Faint(true).Render(attr.Key + "="))
			b.WriteString(tui.Regular.Copy().Render(attr.Value + " "))
		}

		return table.RenderedRow{
			timeColumn.Key:  msg.Time.Format(timeFormat),
			levelColumn.Key: coloredLogLevel(msg.Level),
			msgColumn.Key:   b.String(),
		}
	}
	keyFunc := func(msg logging.Message) int {
		return int(msg.Serial)
	}
	return List{
		logger: logger,
		table: table.New(columns, renderer, keyFunc, width, height,
			table.WithSortFunc(logging.BySerialDesc),
		),
	}
}

func (m List) Init() tea.Cmd {
	return func() tea.Msg {
		return table.BulkInsertMsg[logging.Message](m.logger.Messages())
	}
}

func (m List) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case table.BulkInsertMsg[logging.Message]:
		existing := m.table.Items()
		for _, payload := range msg {
			existing[int(payload.Serial)] = payload
		}
		m.table.SetItems(existing)
		return m, nil
	case pubsub.Event[logging.Message]:
		if msg.Type == pubsub.CreatedEvent {
			existing := m.table.Items()
			existing[int(msg.Payload.Serial)] = msg.Payload
			m.table.SetItems(existing)
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, keys.Global.Enter) {
			if row, ok := m.table.CurrentRow(); ok {
				return m, tui.NavigateTo(tui.OpenLogMessageEvent{Serial: row.Value.Serial})
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m List) View() string {
	return m.table.View()
}

func (m List) Title() string {
	return "Logs"
}

func (m List) Status() string {
	return fmt.Sprintf("%d messages", len(m.table.Items()))
}
