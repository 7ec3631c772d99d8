package company

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

// Source fetches up to count companies. A count of zero means no limit.
type Source func(ctx context.Context, count int) ([]api.Company, error)

// ListOptions are the options for constructing a company list.
type ListOptions struct {
	Client *api.Client
	Title  string
	Source Source
	// PageSize enables the view-more control: the first load requests
	// PageSize companies and each view-more requests PageSize further
	// companies. Zero loads everything at once.
	PageSize int
	// ReloadOnFollow reloads the listing whenever a follow or unfollow is
	// confirmed, for listings whose membership depends on follow state.
	ReloadOnFollow bool
	Width          int
	Height         int
}

// List is a listing of companies: the content under the Following, For You
// and Popular tabs, and search results.
type List struct {
	client *api.Client
	title  string
	source Source
	table  table.Model[api.Company]

	pageSize  int
	requested int
	// hasMore is true while a further view-more request might return more
	// companies. There is no paging metadata to consult, so this is a
	// heuristic: a response shorter than requested means the listing is
	// exhausted.
	hasMore bool

	// serial numbers outstanding loads; responses bearing a stale serial are
	// discarded.
	serial  int
	loading bool

	// ids of companies with an unconfirmed follow or unfollow in flight
	pending map[int]bool

	reloadOnFollow bool
}

func NewList(opts ListOptions) List {
	renderer := func(c api.Company) table.RenderedRow {
		return table.RenderedRow{
			"name":       c.Name,
			"sectors":    tui.SectorNames(c.Sectors),
			"market_cap": tui.MarketCap(c.MarketCap),
			"sentiment":  tui.Sentiment(c.SentimentCategory, c.Sentiment),
			"delta":      tui.StockDelta(c.StockDelta),
			"following":  tui.FollowedCheckmark(c.IsFollowing),
		}
	}
	columns := []table.Column{
		nameColumn,
		sectorsColumn,
		marketCapColumn,
		sentimentColumn,
		deltaColumn,
		followingColumn,
	}
	return List{
		client:         opts.Client,
		title:          opts.Title,
		source:         opts.Source,
		pageSize:       opts.PageSize,
		requested:      opts.PageSize,
		loading:        true,
		pending:        make(map[int]bool),
		reloadOnFollow: opts.ReloadOnFollow,
		table: table.New(columns, renderer, func(c api.Company) int { return c.ID },
			opts.Width, opts.Height,
			table.WithSortFunc(byName),
		),
	}
}

func byName(i, j api.Company) int {
	switch {
	case i.Name < j.Name:
		return -1
	case i.Name > j.Name:
		return 1
	default:
		return i.ID - j.ID
	}
}

type companiesLoadedMsg struct {
	title     string
	serial    int
	requested int
	companies []api.Company
}

func (m List) Init() tea.Cmd {
	return fetch(m.source, m.title, m.serial, m.requested)
}

// load fetches count companies, superseding any outstanding load.
func (m *List) load(count int) tea.Cmd {
	m.serial++
	m.requested = count
	m.loading = true
	return fetch(m.source, m.title, m.serial, count)
}

func fetch(source Source, title string, serial, count int) tea.Cmd {
	return func() tea.Msg {
		companies, err := source(context.Background(), count)
		if err != nil {
			return tui.NewErrorMsg(err, "loading %s companies", title)
		}
		return companiesLoadedMsg{
			title:     title,
			serial:    serial,
			requested: count,
			companies: companies,
		}
	}
}

func (m List) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case companiesLoadedMsg:
		if msg.title != m.title || msg.serial != m.serial {
			// Stale response from a superseded load.
			return m, nil
		}
		m.loading = false
		m.hasMore = m.pageSize > 0 && len(msg.companies) == msg.requested
		items := make(map[int]api.Company, len(msg.companies))
		for _, c := range msg.companies {
			items[c.ID] = c
		}
		m.table.SetItems(items)
		return m, nil
	case tui.ErrorMsg:
		// The load failed; stop reporting it as in progress. The error
		// itself reports in the footer.
		m.loading = false
		return m, nil
	case followToggledMsg:
		delete(m.pending, msg.id)
		items := m.table.Items()
		if c, ok := items[msg.id]; ok {
			c.IsFollowing = msg.following
			items[msg.id] = c
			m.table.SetItems(items)
		}
		if m.reloadOnFollow {
			return m, m.load(m.requested)
		}
		return m, nil
	case followFailedMsg:
		delete(m.pending, msg.id)
		return m, tui.ReportError(msg.err, "updating follow state")
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Global.Enter):
			if row, ok := m.table.CurrentRow(); ok {
				return m, tui.NavigateTo(tui.OpenCompanyEvent{ID: row.Key})
			}
		case key.Matches(msg, followKey):
			if row, ok := m.table.CurrentRow(); ok && !m.pending[row.Key] {
				m.pending[row.Key] = true
				return m, toggleFollow(m.client, row.Value)
			}
		case key.Matches(msg, viewMoreKey):
			if m.hasMore {
				return m, m.load(m.requested + m.pageSize)
			}
		case key.Matches(msg, keys.Global.Reload):
			return m, m.load(m.requested)
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
	return m.title
}

func (m List) Status() string {
	switch {
	case m.loading:
		return "loading..."
	case m.hasMore:
		return fmt.Sprintf("%d shown, more available", len(m.table.Items()))
	default:
		return fmt.Sprintf("%d companies", len(m.table.Items()))
	}
}

func (m List) HelpBindings() []key.Binding {
	bindings := []key.Binding{
		keys.Global.Enter,
		followKey,
		keys.Global.Reload,
		keys.Global.Filter,
	}
	if m.hasMore {
		bindings = append(bindings, viewMoreKey)
	}
	return bindings
}
