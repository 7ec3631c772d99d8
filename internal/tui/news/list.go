// Package news contains the recent-news listing and the article page.
package news

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/keys"
	"github.com/finchtui/finch/internal/tui/table"
)

// List is the content under the Recent tab: the latest news articles across
// all companies.
type List struct {
	client *api.Client
	table  table.Model[api.Article]

	serial  int
	loading bool
}

func NewList(client *api.Client, width, height int) List {
	renderer := func(a api.Article) table.RenderedRow {
		return table.RenderedRow{
			"title":     a.Title,
			"publisher": a.Publisher,
			"sentiment": tui.Sentiment(a.SentimentCategory, a.SentimentScore),
			"published": tui.Ago(a.PublishedTime()),
		}
	}
	columns := []table.Column{
		{Key: "title", Title: "TITLE", FlexFactor: 3},
		{Key: "publisher", Title: "PUBLISHER", FlexFactor: 1},
		{Key: "sentiment", Title: "SENTIMENT", FlexFactor: 1},
		{Key: "published", Title: "PUBLISHED", Width: len("99 minutes ago")},
	}
	return List{
		client:  client,
		loading: true,
		table: table.New(columns, renderer, func(a api.Article) int { return a.ID },
			width, height,
			table.WithSortFunc(newestFirst),
		),
	}
}

func newestFirst(i, j api.Article) int {
	return j.PublishedTime().Compare(i.PublishedTime())
}

type articlesLoadedMsg struct {
	serial   int
	articles []api.Article
}

func (m List) Init() tea.Cmd {
	return fetchRecent(m.client, m.serial)
}

func (m *List) reload() tea.Cmd {
	m.serial++
	m.loading = true
	return fetchRecent(m.client, m.serial)
}

func fetchRecent(client *api.Client, serial int) tea.Cmd {
	return func() tea.Msg {
		articles, err := client.RecentArticles(context.Background())
		if err != nil {
			return tui.NewErrorMsg(err, "loading recent articles")
		}
		return articlesLoadedMsg{serial: serial, articles: articles}
	}
}

func (m List) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case articlesLoadedMsg:
		if msg.serial != m.serial {
			return m, nil
		}
		m.loading = false
		items := make(map[int]api.Article, len(msg.articles))
		for _, a := range msg.articles {
			items[a.ID] = a
		}
		m.table.SetItems(items)
		return m, nil
	case tui.ErrorMsg:
		// The load failed; stop reporting it as in progress. The error
		// itself reports in the footer.
		m.loading = false
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Global.Enter):
			if row, ok := m.table.CurrentRow(); ok {
				return m, tui.NavigateTo(tui.OpenArticleEvent{ID: row.Key})
			}
		case key.Matches(msg, keys.Global.Reload):
			return m, m.reload()
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
	return "Recent"
}

func (m List) Status() string {
	if m.loading {
		return "loading..."
	}
	return fmt.Sprintf("%d articles", len(m.table.Items()))
}

func (m List) HelpBindings() []key.Binding {
	return []key.Binding{
		keys.Global.Enter,
		keys.Global.Reload,
		keys.Global.Filter,
	}
}
