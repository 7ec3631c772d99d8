package company

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/keys"
)

const (
	fieldName = iota
	fieldCEO
	fieldSectors
	fieldMarketCapMin
	fieldMarketCapMax
	fieldSentimentMin
	fieldSentimentMax
	numSearchFields
)

var editFiltersKey = key.NewBinding(
	key.WithKeys("e"),
	key.WithHelp("e", "edit filters"),
)

// Search is the content under the Search tab: a filter form above a listing
// of matching companies.
type Search struct {
	client *api.Client

	inputs  []textinput.Model
	focused int
	// editing is true while keystrokes are directed at the filter form
	// rather than the results.
	editing bool

	// filter holds the last submitted filter. It is a pointer so that the
	// results listing's source closure sees each newly submitted filter.
	filter *api.SearchFilter

	results  List
	searched bool

	width  int
	height int
}

func NewSearch(client *api.Client, width, height int) Search {
	labels := [numSearchFields]string{
		"Name", "CEO", "Sectors (comma separated)",
		"Market cap min", "Market cap max",
		"Sentiment min (-1 to 1)", "Sentiment max (-1 to 1)",
	}
	inputs := make([]textinput.Model, numSearchFields)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Prompt = labels[i] + ": "
	}
	inputs[0].Focus()

	filter := &api.SearchFilter{}
	m := Search{
		client:  client,
		inputs:  inputs,
		editing: true,
		filter:  filter,
		width:   width,
		height:  height,
	}
	m.results = NewList(ListOptions{
		Client: client,
		Title:  "Search",
		Source: func(ctx context.Context, _ int) ([]api.Company, error) {
			return client.Search(ctx, *filter)
		},
		Width:  width,
		Height: m.resultsHeight(),
	})
	// Until a filter is submitted there is nothing to load.
	m.results.loading = false
	return m
}

func (m Search) Init() tea.Cmd {
	return textinput.Blink
}

// InputFocused reports whether keystrokes are being captured by the filter
// form.
func (m Search) InputFocused() bool {
	return m.editing
}

func (m Search) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		resized, cmd := m.results.Update(tea.WindowSizeMsg{Width: msg.Width, Height: m.resultsHeight()})
		m.results = resized.(List)
		return m, cmd
	case tea.KeyMsg:
		if m.editing {
			return m.updateForm(msg)
		}
		if key.Matches(msg, editFiltersKey) {
			m.setEditing(true)
			return m, textinput.Blink
		}
	}

	updated, cmd := m.results.Update(msg)
	m.results = updated.(List)
	return m, cmd
}

func (m Search) updateForm(msg tea.KeyMsg) (tui.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Global.Enter):
		return m.submit()
	case key.Matches(msg, keys.Global.Escape):
		m.setEditing(false)
		return m, nil
	case key.Matches(msg, keys.Navigation.LineUp):
		m.focusField(m.focused - 1)
		return m, textinput.Blink
	case key.Matches(msg, keys.Navigation.LineDown), key.Matches(msg, keys.Navigation.TabNext):
		m.focusField(m.focused + 1)
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *Search) setEditing(editing bool) {
	m.editing = editing
	if editing {
		m.inputs[m.focused].Focus()
	} else {
		m.inputs[m.focused].Blur()
	}
}

func (m *Search) focusField(i int) {
	m.inputs[m.focused].Blur()
	m.focused = (i + numSearchFields) % numSearchFields
	m.inputs[m.focused].Focus()
}

func (m Search) submit() (tui.Model, tea.Cmd) {
	filter := api.SearchFilter{
		Name: strings.TrimSpace(m.inputs[fieldName].Value()),
		CEO:  strings.TrimSpace(m.inputs[fieldCEO].Value()),
	}
	for _, sector := range strings.Split(m.inputs[fieldSectors].Value(), ",") {
		if sector = strings.TrimSpace(sector); sector != "" {
			filter.Sectors = append(filter.Sectors, sector)
		}
	}
	numeric := []struct {
		field int
		dest  *float64
	}{
		{fieldMarketCapMin, &filter.MarketCapMin},
		{fieldMarketCapMax, &filter.MarketCapMax},
		{fieldSentimentMin, &filter.SentimentMin},
		{fieldSentimentMax, &filter.SentimentMax},
	}
	for _, n := range numeric {
		value := strings.TrimSpace(m.inputs[n.field].Value())
		if value == "" {
			continue
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return m, tui.ReportError(err, "invalid number %q", value)
		}
		*n.dest = f
	}

	*m.filter = filter
	m.searched = true
	m.setEditing(false)
	return m, m.results.load(0)
}

func (m Search) View() string {
	return lipgloss.JoinVertical(lipgloss.Top,
		m.formView(),
		m.resultsView(),
	)
}

func (m Search) formView() string {
	lines := make([]string, 0, numSearchFields+1)
	for i := range m.inputs {
		line := m.inputs[i].View()
		if m.editing && i == m.focused {
			line = tui.Regular.Copy().Foreground(tui.LightBlue).Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	hint := "enter search · esc results"
	if !m.editing {
		hint = "e edit filters"
	}
	lines = append(lines, tui.Faint.Render(hint))
	return tui.Padded.Render(lipgloss.JoinVertical(lipgloss.Top, lines...))
}

func (m Search) resultsView() string {
	if !m.searched {
		return tui.Padded.Render(tui.Faint.Render("Submit a filter to search companies"))
	}
	return m.results.View()
}

func (m Search) resultsHeight() int {
	// Form fields plus hint line plus padding.
	return max(0, m.height-numSearchFields-1)
}

func (m Search) Title() string {
	return "Search"
}

func (m Search) Status() string {
	if !m.searched {
		return ""
	}
	return m.results.Status()
}

func (m Search) HelpBindings() []key.Binding {
	if m.editing {
		return []key.Binding{keys.Global.Enter, keys.Global.Escape}
	}
	return append([]key.Binding{editFiltersKey}, m.results.HelpBindings()...)
}
