package company

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/keys"
	"github.com/finchtui/finch/internal/tui/table"
)

// initialArticleCount is the number of related articles loaded with the
// company; each view-more loads the same number again.
const initialArticleCount = 4

// stockRange selects which of a stock's historical series the chart renders.
type stockRange int

const (
	rangeDay stockRange = iota
	rangeWeek
	rangeMonth
	rangeYear
)

func (r stockRange) String() string {
	return [...]string{"day", "week", "month", "year"}[r]
}

// Details is the detail page for a single company: its profile, a chart of
// its stock price, and its related news articles.
type Details struct {
	client *api.Client
	id     int

	details api.CompanyDetails
	loaded  bool
	failed  bool

	articles table.Model[api.Article]
	// articleCount is the number of related articles last requested.
	articleCount int
	moreArticles bool

	chartRange stockRange

	showRaw bool
	raw     tui.Viewport

	serial  int
	pending bool

	width  int
	height int
}

func NewDetails(client *api.Client, id, width, height int) Details {
	renderer := func(a api.Article) table.RenderedRow {
		return table.RenderedRow{
			"title":     a.Title,
			"publisher": a.Publisher,
			"sentiment": tui.Sentiment(a.SentimentCategory, a.SentimentScore),
			"published": tui.Ago(a.PublishedTime()),
		}
	}
	columns := []table.Column{
		{Key: "title", Title: "ARTICLE", FlexFactor: 3},
		{Key: "publisher", Title: "PUBLISHER", FlexFactor: 1},
		{Key: "sentiment", Title: "SENTIMENT", FlexFactor: 1},
		{Key: "published", Title: "PUBLISHED", Width: len("99 minutes ago")},
	}
	m := Details{
		client:       client,
		id:           id,
		articleCount: initialArticleCount,
		width:        width,
		height:       height,
		raw:          tui.NewViewport(tui.ViewportOptions{Width: width, Height: height, JSON: true}),
	}
	m.articles = table.New(columns, renderer, func(a api.Article) int { return a.ID },
		width, m.articlesHeight(),
		table.WithSortFunc(byPublished),
	)
	return m
}

func byPublished(i, j api.Article) int {
	// Newest first.
	return j.PublishedTime().Compare(i.PublishedTime())
}

type detailsLoadedMsg struct {
	id        int
	serial    int
	requested int
	details   api.CompanyDetails
}

func (m Details) Init() tea.Cmd {
	return fetchDetails(m.client, m.id, m.serial, m.articleCount)
}

func (m *Details) load(articleCount int) tea.Cmd {
	m.serial++
	m.articleCount = articleCount
	return fetchDetails(m.client, m.id, m.serial, articleCount)
}

func fetchDetails(client *api.Client, id, serial, articleCount int) tea.Cmd {
	return func() tea.Msg {
		details, err := client.CompanyDetails(context.Background(), id, articleCount)
		if err != nil {
			return tui.NewErrorMsg(err, "loading company %d", id)
		}
		return detailsLoadedMsg{id: id, serial: serial, requested: articleCount, details: details}
	}
}

func (m Details) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case detailsLoadedMsg:
		if msg.id != m.id || msg.serial != m.serial {
			return m, nil
		}
		m.details = msg.details
		m.loaded = true
		m.failed = false
		m.moreArticles = len(msg.details.Articles) == msg.requested
		items := make(map[int]api.Article, len(msg.details.Articles))
		for _, a := range msg.details.Articles {
			items[a.ID] = a
		}
		m.articles.SetItems(items)
		m.resize()
		if raw, err := json.Marshal(msg.details); err == nil {
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
	case followToggledMsg:
		if msg.id == m.id {
			m.pending = false
			m.details.IsFollowing = msg.following
		}
		return m, nil
	case followFailedMsg:
		if msg.id == m.id {
			m.pending = false
			return m, tui.ReportError(msg.err, "updating follow state")
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.raw.SetDimensions(msg.Width, msg.Height)
		m.resize()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, rawKey):
			m.showRaw = !m.showRaw
			return m, nil
		case key.Matches(msg, keys.Global.Reload):
			m.failed = false
			return m, m.load(m.articleCount)
		}
		if m.showRaw {
			var cmd tea.Cmd
			m.raw, cmd = m.raw.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, followKey):
			if m.loaded && !m.pending {
				m.pending = true
				return m, toggleFollow(m.client, m.details.Company)
			}
		case key.Matches(msg, rangeKeys):
			switch msg.String() {
			case "D":
				m.chartRange = rangeDay
			case "W":
				m.chartRange = rangeWeek
			case "M":
				m.chartRange = rangeMonth
			case "Y":
				m.chartRange = rangeYear
			}
			return m, nil
		case key.Matches(msg, viewMoreKey):
			if m.moreArticles {
				return m, m.load(m.articleCount + initialArticleCount)
			}
		case key.Matches(msg, keys.Global.Enter):
			if row, ok := m.articles.CurrentRow(); ok {
				return m, tui.NavigateTo(tui.OpenArticleEvent{ID: row.Key})
			}
		}
	}

	var cmd tea.Cmd
	m.articles, cmd = m.articles.Update(msg)
	return m, cmd
}

func (m Details) View() string {
	if !m.loaded {
		if m.failed {
			return ""
		}
		return tui.Padded.Render("Loading company...")
	}
	if m.showRaw {
		return m.raw.View()
	}
	return lipgloss.JoinVertical(lipgloss.Top,
		m.infoView(),
		m.articles.View(),
	)
}

func (m Details) infoView() string {
	c := m.details

	title := tui.TitleStyle.Render(c.Name)
	if c.IsFollowing {
		title += " " + tui.FollowedCheckmark(true)
	} else if m.pending {
		title += " " + tui.Faint.Render("...")
	}

	lines := []string{
		title,
		fmt.Sprintf("%s %s", tui.Bold.Render("CEO"), c.CEO),
		fmt.Sprintf("%s %s", tui.Bold.Render("Location"), c.Location),
		fmt.Sprintf("%s %s", tui.Bold.Render("Market cap"), tui.MarketCap(c.MarketCap)),
		fmt.Sprintf("%s %s %s", tui.Bold.Render("Sentiment"), tui.Sentiment(c.SentimentCategory, c.Sentiment), tui.StockDelta(c.StockDelta)),
	}
	if len(c.Sectors) > 0 {
		lines = append(lines, fmt.Sprintf("%s %s", tui.Bold.Render("Sectors"), tui.SectorNames(c.Sectors)))
	}
	if c.Description != "" {
		lines = append(lines, "", truncateDescription(c.Description, m.width-2, 2))
	}
	lines = append(lines, "", m.chartView())

	return tui.Padded.Render(lipgloss.JoinVertical(lipgloss.Top, lines...))
}

func (m Details) chartView() string {
	if len(m.details.Stocks) == 0 {
		return tui.Faint.Render("No stock data")
	}
	stock := m.details.Stocks[0]

	var series []float64
	switch m.chartRange {
	case rangeDay:
		series = stock.StockDay
	case rangeWeek:
		series = stock.StockWeek
	case rangeMonth:
		series = stock.StockMonth
	case rangeYear:
		series = stock.StockYear
	}

	header := fmt.Sprintf("%s %s  %s  %s",
		tui.Bold.Render(stock.Symbol),
		stock.Exchange,
		fmt.Sprintf("$%.2f", stock.StockPrice),
		tui.StockDelta(stock.StockChange),
	)
	line := tui.Sparkline(series, max(0, m.width-4))
	if line == "" {
		line = tui.Faint.Render(fmt.Sprintf("No %s data", m.chartRange))
	}
	footer := tui.Faint.Render(fmt.Sprintf("range: %s (D/W/M/Y)", m.chartRange))
	return lipgloss.JoinVertical(lipgloss.Top, header, line, footer)
}

// truncateDescription caps the description at maxLines rendered lines.
func truncateDescription(desc string, width, maxLines int) string {
	wrapped := tui.Regular.Copy().Width(max(1, width)).Render(desc)
	lines := strings.Split(wrapped, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] += "…"
	}
	return strings.Join(lines, "\n")
}

func (m *Details) resize() {
	m.articles, _ = m.articles.Update(tea.WindowSizeMsg{Width: m.width, Height: m.articlesHeight()})
}

func (m Details) articlesHeight() int {
	if !m.loaded {
		return m.height
	}
	return max(0, m.height-lipgloss.Height(m.infoView()))
}

func (m Details) Title() string {
	if !m.loaded {
		return fmt.Sprintf("Company %d", m.id)
	}
	return m.details.Name
}

func (m Details) HelpBindings() []key.Binding {
	bindings := []key.Binding{
		followKey,
		rangeKeys,
		rawKey,
		keys.Global.Reload,
		keys.Global.Enter,
	}
	if m.moreArticles {
		bindings = append(bindings, viewMoreKey)
	}
	return bindings
}
