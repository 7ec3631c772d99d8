// Package profile provides the profile page: account details, sector
// interests, and the account management forms.
package profile

import (
	"context"
	"errors"
	"fmt"
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
	modeView = iota
	modeChangeName
	modeChangePassword
	modeAddSector
	modeConfirmDelete
)

const (
	fieldPassword = iota
	fieldNewPassword
	fieldRepeatNewPassword
	numPasswordFields
)

var (
	changeNameKey = key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "change name"),
	)
	changePasswordKey = key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "change password"),
	)
	addSectorKey = key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add sector"),
	)
	removeSectorKey = key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "remove sector"),
	)
	deleteAccountKey = key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete account"),
	)
)

// Model is the profile page.
type Model struct {
	client *api.Client

	user    api.User
	sectors []api.Sector
	loaded  bool
	failed  bool
	// cursor selects a sector interest for removal.
	cursor int

	mode    int
	inputs  []textinput.Model
	focused int

	// serial increments on each reload; responses bearing a stale serial are
	// discarded.
	serial int

	width  int
	height int
}

func New(client *api.Client, width, height int) Model {
	return Model{
		client: client,
		width:  width,
		height: height,
	}
}

func (m Model) Init() tea.Cmd {
	return fetch(m.client, m.serial)
}

// InputFocused reports whether keystrokes are being captured by one of the
// account forms.
func (m Model) InputFocused() bool {
	return m.mode != modeView
}

type profileLoadedMsg struct {
	serial  int
	user    api.User
	sectors []api.Sector
}

func fetch(client *api.Client, serial int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		user, err := client.CurrentUser(ctx)
		if err != nil {
			return tui.NewErrorMsg(err, "loading profile")
		}
		sectors, err := client.Sectors(ctx)
		if err != nil {
			return tui.NewErrorMsg(err, "loading sector interests")
		}
		return profileLoadedMsg{serial: serial, user: user, sectors: sectors}
	}
}

func (m *Model) load() tea.Cmd {
	m.serial++
	return fetch(m.client, m.serial)
}

func (m Model) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.serial != m.serial {
			return m, nil
		}
		m.user = msg.user
		m.sectors = msg.sectors
		m.loaded = true
		m.failed = false
		m.clampCursor()
		return m, nil
	case tui.ErrorMsg:
		// The fetch failed; stop advertising a load that will never finish.
		// The error itself reports in the footer.
		if !m.loaded {
			m.failed = true
		}
		return m, nil
	case nameChangedMsg:
		m.user = msg.user
		return m, tui.ReportInfo("name changed to %s", msg.user.Name)
	case passwordChangedMsg:
		return m, tui.ReportInfo("password changed")
	case sectorAddedMsg:
		m.sectors = append(m.sectors, msg.sector)
		return m, tui.ReportInfo("added sector %s", msg.sector.Name)
	case sectorRemovedMsg:
		for i, sector := range m.sectors {
			if sector.ID == msg.id {
				m.sectors = append(m.sectors[:i], m.sectors[i+1:]...)
				break
			}
		}
		m.clampCursor()
		return m, nil
	case accountDeletedMsg:
		return m, tea.Batch(
			tui.ReportInfo("account deleted"),
			tui.CmdHandler(tui.LoggedOutMsg{}),
		)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeChangeName, modeChangePassword, modeAddSector:
			return m.updateForm(msg)
		case modeConfirmDelete:
			m.mode = modeView
			if msg.String() == "y" {
				return m, deleteAccount(m.client)
			}
			return m, nil
		}
		return m.updateView(msg)
	}
	return m, nil
}

func (m Model) updateView(msg tea.KeyMsg) (tui.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Global.Reload):
		m.failed = false
		return m, m.load()
	case key.Matches(msg, keys.Navigation.LineUp):
		m.cursor--
		m.clampCursor()
		return m, nil
	case key.Matches(msg, keys.Navigation.LineDown):
		m.cursor++
		m.clampCursor()
		return m, nil
	case key.Matches(msg, changeNameKey):
		input := textinput.New()
		input.Prompt = "Name: "
		input.SetValue(m.user.Name)
		return m.enterMode(modeChangeName, input)
	case key.Matches(msg, changePasswordKey):
		labels := [numPasswordFields]string{
			"Current password", "New password", "Repeat new password",
		}
		inputs := make([]textinput.Model, numPasswordFields)
		for i := range inputs {
			inputs[i] = textinput.New()
			inputs[i].Prompt = labels[i] + ": "
			inputs[i].EchoMode = textinput.EchoPassword
		}
		return m.enterMode(modeChangePassword, inputs...)
	case key.Matches(msg, addSectorKey):
		input := textinput.New()
		input.Prompt = "Sector id: "
		return m.enterMode(modeAddSector, input)
	case key.Matches(msg, removeSectorKey):
		if len(m.sectors) == 0 {
			return m, nil
		}
		return m, removeSector(m.client, m.sectors[m.cursor])
	case key.Matches(msg, deleteAccountKey):
		m.mode = modeConfirmDelete
		return m, nil
	}
	return m, nil
}

func (m Model) enterMode(mode int, inputs ...textinput.Model) (tui.Model, tea.Cmd) {
	m.mode = mode
	m.inputs = inputs
	m.focused = 0
	m.inputs[0].Focus()
	m.inputs[0].CursorEnd()
	return m, textinput.Blink
}

func (m Model) updateForm(msg tea.KeyMsg) (tui.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Global.Enter):
		return m.submit()
	case key.Matches(msg, keys.Global.Escape):
		m.mode = modeView
		m.inputs = nil
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

func (m *Model) focusField(i int) {
	if len(m.inputs) < 2 {
		return
	}
	m.inputs[m.focused].Blur()
	m.focused = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focused].Focus()
}

func (m Model) submit() (tui.Model, tea.Cmd) {
	mode, inputs := m.mode, m.inputs
	m.mode = modeView
	m.inputs = nil

	switch mode {
	case modeChangeName:
		name := strings.TrimSpace(inputs[0].Value())
		if name == "" {
			return m, tui.ReportError(errors.New("name cannot be empty"), "changing name")
		}
		return m, changeName(m.client, name)
	case modeChangePassword:
		newPassword := inputs[fieldNewPassword].Value()
		if newPassword != inputs[fieldRepeatNewPassword].Value() {
			return m, tui.ReportError(errors.New("passwords do not match"), "changing password")
		}
		return m, changePassword(m.client, inputs[fieldPassword].Value(), newPassword)
	case modeAddSector:
		value := strings.TrimSpace(inputs[0].Value())
		id, err := strconv.Atoi(value)
		if err != nil || id <= 0 {
			return m, tui.ReportError(fmt.Errorf("invalid sector id %q", value), "adding sector")
		}
		return m, addSector(m.client, id)
	}
	return m, nil
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.sectors) {
		m.cursor = len(m.sectors) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	if !m.loaded {
		if m.failed {
			return ""
		}
		return tui.Padded.Render("loading...")
	}
	sections := []string{
		m.infoView(),
		m.sectorsView(),
	}
	if footer := m.footerView(); footer != "" {
		sections = append(sections, footer)
	}
	return tui.Padded.Render(lipgloss.JoinVertical(lipgloss.Top, sections...))
}

func (m Model) infoView() string {
	return lipgloss.JoinVertical(lipgloss.Top,
		tui.Bold.Render(m.user.Name),
		tui.Regular.Render(m.user.Email),
		"",
	)
}

func (m Model) sectorsView() string {
	lines := []string{tui.Bold.Render("Sector interests")}
	if len(m.sectors) == 0 {
		lines = append(lines, tui.Faint.Render("none"))
	}
	for i, sector := range m.sectors {
		marker := "  "
		if m.mode == modeView && i == m.cursor {
			marker = tui.Regular.Copy().Foreground(tui.LightBlue).Render("> ")
		}
		lines = append(lines, marker+sector.Name)
	}
	return lipgloss.JoinVertical(lipgloss.Top, lines...)
}

func (m Model) footerView() string {
	switch m.mode {
	case modeConfirmDelete:
		return tui.Regular.Copy().Foreground(tui.Red).
			Render("Delete account and all its data? (y/N)")
	case modeChangeName, modeChangePassword, modeAddSector:
		lines := make([]string, 0, len(m.inputs)+1)
		for i := range m.inputs {
			line := m.inputs[i].View()
			if i == m.focused {
				line = tui.Regular.Copy().Foreground(tui.LightBlue).Render("> ") + line
			} else {
				line = "  " + line
			}
			lines = append(lines, line)
		}
		lines = append(lines, tui.Faint.Render("enter submit · esc cancel"))
		return "\n" + lipgloss.JoinVertical(lipgloss.Top, lines...)
	}
	return ""
}

func (m Model) Title() string {
	return "Profile"
}

func (m Model) Status() string {
	if !m.loaded {
		if m.failed {
			return ""
		}
		return "loading..."
	}
	return fmt.Sprintf("%d sector interests", len(m.sectors))
}

func (m Model) HelpBindings() []key.Binding {
	switch m.mode {
	case modeView:
		return []key.Binding{
			changeNameKey,
			changePasswordKey,
			addSectorKey,
			removeSectorKey,
			deleteAccountKey,
		}
	case modeConfirmDelete:
		return nil
	}
	return []key.Binding{keys.Global.Enter, keys.Global.Escape}
}
