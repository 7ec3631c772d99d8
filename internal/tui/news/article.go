package news

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/keys"
)

var rawKey = key.NewBinding(
	key.WithKeys("v"),
	key.WithHelp("v", "raw json"),
)

// Article is the page for a single news article.
type Article struct {
	client *api.Client
	id     int

	article api.Article
	loaded  bool
	failed  bool

	body    tui.Viewport
	showRaw bool
	raw     tui.Viewport

	width  int
	height int
}

func NewArticle(client *api.Client, id, width, height int) Article {
	return Article{
		client: client,
		id:     id,
		width:  width,
		height: height,
		body:   tui.NewViewport(tui.ViewportOptions{Width: width, Height: height}),
		raw:    tui.NewViewport(tui.ViewportOptions{Width: width, Height: height, JSON: true}),
	}
}

type articleLoadedMsg struct {
	id      int
	article api.Article
}

func (m Article) Init() tea.Cmd {
	return func() tea.Msg {
		article, err := m.client.Article(context.Background(), m.id)
		if err != nil {
			return tui.NewErrorMsg(err, "loading article %d", m.id)
		}
		return articleLoadedMsg{id: m.id, article: article}
	}
}

func (m Article) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case articleLoadedMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.article = msg.article
		m.loaded = true
		m.failed = false
		_ = m.body.SetContent([]byte(m.bodyText()))
		if raw, err := json.Marshal(msg.article); err == nil {
			_ = m.raw.SetContent(raw)
		}
		return m, nil
	case tui.ErrorMsg:
		// The fetch failed; stop advertising a load that will never finish.
		// The error itself reports in the footer.
		if !m.loaded {
			m.failed = true
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.SetDimensions(msg.Width, msg.Height)
		m.raw.SetDimensions(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, rawKey):
			m.showRaw = !m.showRaw
			return m, nil
		case key.Matches(msg, keys.Global.Reload):
			m.failed = false
			return m, m.Init()
		}
	}

	var cmd tea.Cmd
	if m.showRaw {
		m.raw, cmd = m.raw.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

func (m Article) bodyText() string {
	a := m.article
	header := lipgloss.JoinVertical(lipgloss.Top,
		tui.TitleStyle.Render(a.Title),
		fmt.Sprintf("%s · %s · %s", a.Publisher, tui.Ago(a.PublishedTime()), tui.Sentiment(a.SentimentCategory, a.SentimentScore)),
		tui.Faint.Render(a.URL),
	)
	return lipgloss.JoinVertical(lipgloss.Top, header, "", a.Overview)
}

func (m Article) View() string {
	if !m.loaded {
		if m.failed {
			return ""
		}
		return tui.Padded.Render("Loading article...")
	}
	if m.showRaw {
		return m.raw.View()
	}
	return m.body.View()
}

func (m Article) Title() string {
	if !m.loaded {
		return fmt.Sprintf("Article %d", m.id)
	}
	return m.article.Title
}

func (m Article) HelpBindings() []key.Binding {
	return []key.Binding{rawKey, keys.Global.Reload}
}
