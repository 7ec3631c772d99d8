package logs

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/tui"
)

// Message shows a single log message with its attributes spread over
// multiple lines.
type Message struct {
	msg      logging.Message
	viewport tui.Viewport
}

func NewMessage(logger *logging.Logger, serial uint, width, height int) (Message, error) {
	for _, msg := range logger.Messages() {
		if msg.Serial == serial {
			m := Message{
				msg: msg,
				viewport: tui.NewViewport(tui.ViewportOptions{
					Width:  width,
					Height: height,
				}),
			}
			err := m.viewport.SetContent([]byte(renderMessage(msg)))
			return m, err
		}
	}
	return Message{}, fmt.Errorf("no log message with serial %d", serial)
}

func renderMessage(msg logging.Message) string {
	lines := []string{
		tui.Bold.Render(msg.Message),
		"",
		attrLine("time", msg.Time.Format(timeFormat)),
		attrLine("level", coloredLogLevel(msg.Level)),
	}
	for _, attr := range msg.Attributes {
		lines = append(lines, attrLine(attr.Key, attr.Value))
	}
	return strings.Join(lines, "\n")
}

func attrLine(k, v string) string {
	key := tui.Regular.Copy().Foreground(tui.LogRecordAttributeKey).Render(k)
	return fmt.Sprintf("%s: %s", key, v)
}

func (m Message) Init() tea.Cmd {
	return nil
}

func (m Message) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.SetDimensions(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Message) View() string {
	return m.viewport.View()
}

func (m Message) Title() string {
	return "Log message"
}
