package table

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/keys"
)

const (
	// Height of the table header
	headerHeight = 1
	// Height of filter widget
	filterHeight = 2
)

// Model defines a state for the table widget.
type Model[V any] struct {
	cols        []Column
	rows        []Row[V]
	rowRenderer RowRenderer[V]
	keyFunc     KeyFunc[V]
	focus       bool

	border      lipgloss.Border
	borderColor lipgloss.TerminalColor

	cursorRow int
	cursorKey int

	items    map[int]V
	sortFunc SortFunc[V]

	filter textinput.Model

	viewport viewport.Model

	// index of first visible row
	start int
	// cursor offset from first visible row
	offset int

	// dimensions calcs
	width  int
	height int
}

// Column defines the table structure.
type Column struct {
	Key            ColumnKey
	Title          string
	Width          int
	FlexFactor     int
	TruncationFunc func(s string, w int, tail string) string
}

type ColumnKey string

type Row[V any] struct {
	Key   int
	Value V
}

// KeyFunc returns the unique key for an item.
type KeyFunc[V any] func(V) int

type RowRenderer[V any] func(V) RenderedRow

// RenderedRow provides the rendered string for each column in a row.
type RenderedRow map[ColumnKey]string

type SortFunc[V any] func(V, V) int

// New creates a new model for the table widget.
func New[V any](columns []Column, fn RowRenderer[V], keyFunc KeyFunc[V], width, height int, opts ...Option[V]) Model[V] {
	filter := textinput.New()
	filter.Prompt = "Filter: "

	m := Model[V]{
		viewport:    viewport.New(0, 0),
		rowRenderer: fn,
		keyFunc:     keyFunc,
		items:       make(map[int]V),
		focus:       true,
		filter:      filter,
		border:      lipgloss.NormalBorder(),
	}
	for _, fn := range opts {
		fn(&m)
	}

	// Copy column structs onto the receiver, because the caller may be using
	// the columns in multiple tables and each table modifies its columns'
	// widths.
	for _, col := range columns {
		// Set default truncation function if unset
		if col.TruncationFunc == nil {
			col.TruncationFunc = defaultTruncationFunc
		}
		m.cols = append(m.cols, col)
	}

	m.setDimensions(width, height)

	return m
}

type Option[V any] func(m *Model[V])

// WithSortFunc configures the table to sort rows using the given func.
func WithSortFunc[V any](sortFunc func(V, V) int) Option[V] {
	return func(m *Model[V]) {
		m.sortFunc = sortFunc
	}
}

func (m *Model[V]) filterVisible() bool {
	// Filter is visible if it's either in focus, or it has a non-empty value.
	return m.filter.Focused() || m.filter.Value() != ""
}

// setDimensions sets the dimensions of the table.
func (m *Model[V]) setDimensions(width, height int) {
	m.height = height
	m.width = width

	// Accommodate height of table header and borders
	m.viewport.Height = max(0, height-headerHeight-2)
	if m.filterVisible() {
		// Accommodate height of filter widget
		m.viewport.Height = max(0, m.viewport.Height-filterHeight)
	}

	// Set available width for table to expand into, accommodating border.
	m.viewport.Width = max(0, width-2)
	m.recalculateWidth()

	m.UpdateViewport()
}

// Update is the Bubble Tea update loop.
func (m Model[V]) Update(msg tea.Msg) (Model[V], tea.Cmd) {
	if !m.focus {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Navigation.LineUp):
			m.MoveUp(1)
		case key.Matches(msg, keys.Navigation.LineDown):
			m.MoveDown(1)
		case key.Matches(msg, keys.Navigation.PageUp):
			m.MoveUp(m.viewport.Height)
		case key.Matches(msg, keys.Navigation.PageDown):
			m.MoveDown(m.viewport.Height)
		case key.Matches(msg, keys.Navigation.HalfPageUp):
			m.MoveUp(m.viewport.Height / 2)
		case key.Matches(msg, keys.Navigation.HalfPageDown):
			m.MoveDown(m.viewport.Height / 2)
		case key.Matches(msg, keys.Navigation.GotoTop):
			m.GotoTop()
		case key.Matches(msg, keys.Navigation.GotoBottom):
			m.GotoBottom()
		}
	case BulkInsertMsg[V]:
		for _, v := range msg {
			m.items[m.keyFunc(v)] = v
		}
		m.SetItems(m.items)
	case tea.WindowSizeMsg:
		m.setDimensions(msg.Width, msg.Height)
	case tui.FilterFocusReqMsg:
		// Focus the filter widget
		blink := m.filter.Focus()
		// Resize the viewport to accommodate the filter widget
		m.setDimensions(m.width, m.height)
		// Start blinking the cursor.
		return m, blink
	case tui.FilterBlurMsg:
		// Blur the filter widget
		m.filter.Blur()
		return m, nil
	case tui.FilterCloseMsg:
		// Close the filter widget
		m.filter.Blur()
		m.filter.SetValue("")
		// Unfilter table items
		m.SetItems(m.items)
		// Resize the viewport to take up the space now unoccupied
		m.setDimensions(m.width, m.height)
		return m, nil
	case tui.FilterKeyMsg:
		// unwrap key and send to filter widget
		kmsg := tea.KeyMsg(msg)
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(kmsg)
		// Filter table items
		m.SetItems(m.items)
		return m, cmd
	default:
		// Send any other messages to the filter if it is focused.
		if m.filter.Focused() {
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// Focused returns the focus state of the table.
func (m Model[V]) Focused() bool {
	return m.focus
}

// Focus focuses the table, allowing the user to move around the rows and
// interact.
func (m *Model[V]) Focus() {
	m.focus = true
	m.UpdateViewport()
}

// Blur blurs the table, preventing movement.
func (m *Model[V]) Blur() {
	m.focus = false
	m.UpdateViewport()
}

// View renders the component.
func (m Model[V]) View() string {
	components := make([]string, 0, 3)
	if m.filterVisible() {
		components = append(components, tui.Regular.Copy().Margin(0, 1).Render(m.filter.View()))
		// Subtract 2 to accommodate border
		components = append(components, strings.Repeat("─", max(0, m.width-2)))
	}
	components = append(components, m.headersView())
	components = append(components, m.viewport.View())
	content := lipgloss.JoinVertical(lipgloss.Top, components...)

	metadata := m.RowInfo()

	// total length of top border runes, not including corners
	topBorderLength := max(0, m.width-lipgloss.Width(metadata)-2)
	topBorderLeftLength := topBorderLength / 2
	topBorderRightLength := topBorderLength - topBorderLeftLength

	topBorder := lipgloss.NewStyle().Foreground(m.borderColor).Render(
		m.border.TopLeft +
			strings.Repeat(m.border.Top, topBorderLeftLength) +
			metadata +
			strings.Repeat(m.border.Top, topBorderRightLength) +
			m.border.TopRight,
	)

	return lipgloss.JoinVertical(lipgloss.Top,
		topBorder,
		lipgloss.NewStyle().Border(m.border, false, true, true, true).BorderForeground(m.borderColor).Render(content),
	)
}

func (m *Model[V]) SetBorderStyle(border lipgloss.Border, color lipgloss.TerminalColor) {
	m.border = border
	m.borderColor = color
}

// UpdateViewport populates the viewport with table rows.
func (m *Model[V]) UpdateViewport() {
	// In case the height has been shrunk, ensure the cursor offset is no
	// greater than the viewport height.
	m.offset = min(m.offset, m.viewport.Height-1)
	// In case the height has been increased, ensure the start index is no
	// greater than the number of rows minus the viewport height.
	m.start = clamp(m.cursorRow-m.offset, 0, max(0, len(m.rows)-m.viewport.Height))
	// The number of visible rows cannot exceed the viewport height.
	visible := min(m.viewport.Height, len(m.rows)-m.start)

	renderedRows := make([]string, max(0, visible))
	for i := 0; i < visible; i++ {
		renderedRows[i] = m.renderRow(m.start + i)
	}

	m.viewport.SetContent(
		lipgloss.JoinVertical(lipgloss.Left, renderedRows...),
	)
}

// CurrentRow returns the row on which the cursor currently sits. If the
// cursor is out of bounds then false is returned along with an empty row.
func (m Model[V]) CurrentRow() (Row[V], bool) {
	if m.cursorRow < 0 || m.cursorRow >= len(m.rows) {
		return *new(Row[V]), false
	}
	return m.rows[m.cursorRow], true
}

// Items returns the items in the table.
func (m Model[V]) Items() map[int]V {
	return m.items
}

// Rows returns the table's rows, in render order.
func (m Model[V]) Rows() []Row[V] {
	return m.rows
}

// RowInfo returns human-readable row information.
func (m Model[V]) RowInfo() string {
	// Calculate the top and bottom visible row ordinal numbers
	top := m.start + 1
	bottom := m.start + m.viewport.VisibleLineCount()

	prefix := strconv.Itoa(top) + "-" + strconv.Itoa(bottom) + " of "

	if m.filterVisible() {
		return prefix + strconv.Itoa(len(m.rows)) + "/" + strconv.Itoa(len(m.items))
	}
	return prefix + strconv.Itoa(len(m.rows))
}

// SetItems sets new items on the table, overwriting existing items.
func (m *Model[V]) SetItems(items map[int]V) {
	// Overwrite existing items
	m.items = items

	// Overwrite existing rows
	m.rows = make([]Row[V], 0, len(items))

	// Convert items into rows, filtering if a filter value is present.
	for key, it := range items {
		if m.filter.Value() != "" {
			// Filter rows using row renderer. If the filter value is a
			// substring of one of the rendered cells then add row. Otherwise,
			// skip row.
			filterMatch := func() bool {
				for _, cell := range m.rowRenderer(it) {
					// Remove ANSI escapes code before filtering
					cell = tui.StripAnsi(cell)
					if strings.Contains(strings.ToLower(cell), strings.ToLower(m.filter.Value())) {
						return true
					}
				}
				return false
			}
			if !filterMatch() {
				// Skip item not matching filter
				continue
			}
		}
		m.rows = append(m.rows, Row[V]{Key: key, Value: it})
	}

	// Sort rows in-place
	if m.sortFunc != nil {
		slices.SortFunc(m.rows, func(i, j Row[V]) int {
			return m.sortFunc(i.Value, j.Value)
		})
	}

	// Track item corresponding to the current cursor.
	m.cursorRow = -1
	for i, row := range m.rows {
		if row.Key == m.cursorKey {
			// Found item corresponding to cursor, update its position.
			m.offset = clamp(i-m.cursorRow, 0, m.viewport.Height-1)
			m.cursorRow = i
		}
	}
	// Check if item corresponding to cursor doesn't exist, which occurs when
	// items are removed, or the very first time the table is populated. If
	// so, set cursor to the first row, and reset the offset.
	if m.cursorRow == -1 {
		m.cursorRow = 0
		m.offset = 0
		if len(m.rows) > 0 {
			m.cursorKey = m.rows[m.cursorRow].Key
		}
	}

	m.UpdateViewport()
}

// MoveUp moves the current row up by any number of rows. It can not go above
// the first row.
func (m *Model[V]) MoveUp(n int) {
	m.moveCursor(-n)

	// offset cannot go below zero
	m.offset = max(0, m.offset-n)

	m.UpdateViewport()
}

// MoveDown moves the current row down by any number of rows. It can not go
// below the last row.
func (m *Model[V]) MoveDown(n int) {
	m.moveCursor(n)

	// offset cannot increase beyond viewport height
	m.offset = min(m.viewport.Height-1, m.offset+n)

	m.UpdateViewport()
}

func (m *Model[V]) moveCursor(n int) {
	if len(m.rows) > 0 {
		m.cursorRow = clamp(m.cursorRow+n, 0, len(m.rows)-1)
		m.cursorKey = m.rows[m.cursorRow].Key
	}
}

// GotoTop makes the top row the current row.
func (m *Model[V]) GotoTop() {
	m.MoveUp(m.cursorRow)
}

// GotoBottom makes the bottom row the current row.
func (m *Model[V]) GotoBottom() {
	m.MoveDown(len(m.rows))
}

func (m Model[V]) headersView() string {
	var s = make([]string, 0, len(m.cols))
	for _, col := range m.cols {
		style := lipgloss.NewStyle().Width(col.Width).MaxWidth(col.Width).Inline(true)
		renderedCell := style.Render(runewidth.Truncate(col.Title, col.Width, "…"))
		s = append(s, tui.Regular.Copy().Padding(0, 1).Render(renderedCell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, s...)
}

func (m *Model[V]) renderRow(rowIdx int) string {
	row := m.rows[rowIdx]
	current := rowIdx == m.cursorRow

	var renderedCells = make([]string, len(m.cols))
	cells := m.rowRenderer(row.Value)
	for i, col := range m.cols {
		content := cells[col.Key]
		// Truncate content if it is wider than column
		truncated := col.TruncationFunc(content, col.Width, "…")
		// Ensure content is all on one line.
		inlined := lipgloss.NewStyle().
			Width(col.Width).
			MaxWidth(col.Width).
			Inline(true).
			Render(truncated)
		// Apply block-styling to content
		boxed := lipgloss.NewStyle().
			Padding(0, 1).
			Render(inlined)
		renderedCells[i] = boxed
	}

	// Join cells together to form a row
	renderedRow := lipgloss.JoinHorizontal(lipgloss.Left, renderedCells...)

	// If current row, strip colors and apply background color
	if current {
		renderedRow = tui.StripAnsi(renderedRow)
		renderedRow = lipgloss.NewStyle().
			Foreground(tui.CurrentForeground).
			Background(tui.CurrentBackground).
			Render(renderedRow)
	}
	return renderedRow
}

func clamp(v, low, high int) int {
	if high < low {
		low, high = high, low
	}
	return min(high, max(low, v))
}
