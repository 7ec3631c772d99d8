package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finchtui/finch/internal/tui/keys"
)

const TabHeaderHeight = 2

// TabClickedMsg reports that the user clicked a tab. The receiver runs the
// tab's handler; the tab only becomes the active tab once the handler
// responds with a SetActiveTabMsg.
type TabClickedMsg struct {
	Title string
}

// SetActiveTabMsg makes the named tab the active tab.
type SetActiveTabMsg string

// tabSetInfo is implemented by owners wanting to render info on the opposite
// side away from the tab headers, e.g. an unread notification count.
type tabSetInfo interface {
	TabSetInfo() string
}

// TabSet is a fixed set of tab headers, at most one of which is active. Tabs
// are purely headers; the content rendered beneath the active tab is the
// responsibility of the tab set's owner. The set may have no active tab at
// all, which is how the owner shows content that is not a tab, such as a
// company opened from a listing.
//
// The highlight is a second cursor: tab and shift+tab move it along the
// strip, and enter clicks the highlighted tab. Clicking does not itself
// change the active tab, because a tab's handler may veto or redirect the
// switch (logging out, for instance, never selects the logout tab).
type TabSet struct {
	titles []string

	width int

	// index of the active tab, or -1 when no tab is active
	active int
	// index of the highlighted tab, or -1 when no tab is highlighted
	highlighted int

	info tabSetInfo
}

func NewTabSet(titles []string, width int) TabSet {
	return TabSet{
		titles:      titles,
		width:       width,
		active:      -1,
		highlighted: -1,
	}
}

func (m TabSet) WithTabSetInfo(i tabSetInfo) TabSet {
	m.info = i
	return m
}

// ActiveTitle returns the title of the currently active tab, or the empty
// string if no tab is active.
func (m TabSet) ActiveTitle() string {
	if m.active < 0 {
		return ""
	}
	return m.titles[m.active]
}

// HighlightedTitle returns the title of the currently highlighted tab, or
// the empty string if no tab is highlighted.
func (m TabSet) HighlightedTitle() string {
	if m.highlighted < 0 {
		return ""
	}
	return m.titles[m.highlighted]
}

// SetActiveTab makes the tab with the given title the active tab. If no such
// tab exists no action is taken.
func (m *TabSet) SetActiveTab(title string) {
	for i, t := range m.titles {
		if t == title {
			m.active = i
			m.highlighted = i
		}
	}
}

// ClearActiveTab deselects the active tab, leaving the set with no active
// tab and no highlight.
func (m *TabSet) ClearActiveTab() {
	m.active = -1
	m.highlighted = -1
}

func (m *TabSet) setHighlighted(i int) {
	// Cycle, going back to the first tab after the last tab and vice versa.
	if i < 0 {
		i = len(m.titles) - 1
	} else if i > len(m.titles)-1 {
		i = 0
	}
	m.highlighted = i
}

func (m TabSet) Update(msg tea.Msg) (TabSet, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Navigation.TabNext):
			m.setHighlighted(m.highlighted + 1)
		case key.Matches(msg, keys.Navigation.TabPrev):
			m.setHighlighted(m.highlighted - 1)
		case key.Matches(msg, keys.Global.Enter):
			if m.highlighted >= 0 && m.highlighted != m.active {
				return m, CmdHandler(TabClickedMsg{Title: m.titles[m.highlighted]})
			}
		case key.Matches(msg, keys.Global.Escape):
			m.highlighted = m.active
		default:
			// Number keys click the corresponding tab directly.
			if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
				if i := int(s[0] - '1'); i < len(m.titles) {
					m.highlighted = i
					if i != m.active {
						return m, CmdHandler(TabClickedMsg{Title: m.titles[i]})
					}
				}
			}
		}
	case SetActiveTabMsg:
		m.SetActiveTab(string(msg))
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

var (
	activeTabStyle      = Bold.Copy().Foreground(Violet)
	highlightedTabStyle = Bold.Copy().Foreground(LightBlue)
	inactiveTabStyle    = Regular.Copy().Foreground(LighterGrey)
)

func (m TabSet) View() string {
	var (
		tabHeaders       []string
		tabsHeadersWidth int
	)
	for i, title := range m.titles {
		var (
			headingStyle  lipgloss.Style
			underlineChar string
		)
		switch {
		case i == m.active:
			headingStyle = activeTabStyle.Copy()
			underlineChar = "━"
		case i == m.highlighted:
			headingStyle = highlightedTabStyle.Copy()
			underlineChar = "─"
		default:
			headingStyle = inactiveTabStyle.Copy()
			underlineChar = "─"
		}
		heading := headingStyle.Copy().Padding(0, 1).Render(title)
		underline := headingStyle.Render(strings.Repeat(underlineChar, Width(heading)))
		rendered := lipgloss.JoinVertical(lipgloss.Top, heading, underline)
		tabHeaders = append(tabHeaders, rendered)
		tabsHeadersWidth += Width(heading)
	}

	// Populate remaining space to the right of the tab headers with a faint
	// grey underline. If the tab set owner implements tabSetInfo then that'll
	// be called and its contents rendered above the underline.
	remainingWidth := max(0, m.width-tabsHeadersWidth)
	var rightSideInfo string
	if m.info != nil {
		rightSideInfo = Padded.Copy().
			Width(remainingWidth).
			Align(lipgloss.Right).
			Render(m.info.TabSetInfo())
	}
	tabHeadersFiller := lipgloss.JoinVertical(lipgloss.Top,
		rightSideInfo,
		inactiveTabStyle.Copy().Render(strings.Repeat("─", remainingWidth)),
	)
	tabHeaders = append(tabHeaders, tabHeadersFiller)

	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabHeaders...)
}
