// Package login provides the sign-in and sign-up forms shown while there is
// no session.
package login

import (
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
	fieldEmail
	fieldPassword
	// fieldOptEmail is the email-notifications toggle; it is not a text
	// input.
	fieldOptEmail
)

var switchModeKey = key.NewBinding(
	key.WithKeys("ctrl+s"),
	key.WithHelp("^s", "switch sign in/sign up"),
)

// Model is the form shown while there is no session. It starts in sign-in
// mode and can be switched to sign-up mode and back.
type Model struct {
	client *api.Client

	signup  bool
	inputs  [3]textinput.Model
	focused int
	// optEmail opts a new account into email notifications.
	optEmail bool

	// errMessage is shown inside the form, e.g. "Incorrect email or
	// password."
	errMessage string
	submitting bool

	width  int
	height int
}

func New(client *api.Client, width, height int) Model {
	m := Model{
		client: client,
		width:  width,
		height: height,
	}
	labels := [3]string{"Name", "Email", "Password"}
	for i := range m.inputs {
		m.inputs[i] = textinput.New()
		m.inputs[i].Prompt = labels[i] + ": "
	}
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	m.focused = fieldEmail
	m.inputs[fieldEmail].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) InputFocused() bool {
	return true
}

// failedMsg reports a rejected sign-in or sign-up attempt; the message is
// shown inside the form.
type failedMsg struct {
	message string
}

func (m Model) Update(msg tea.Msg) (tui.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case failedMsg:
		m.submitting = false
		m.errMessage = msg.message
		return m, nil
	case tui.ErrorMsg:
		m.submitting = false
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, switchModeKey):
			return m.switchMode()
		case key.Matches(msg, keys.Global.Enter):
			if m.signup && m.focused == fieldOptEmail {
				m.optEmail = !m.optEmail
				return m, nil
			}
			return m.submit()
		case key.Matches(msg, keys.Navigation.LineUp):
			m.focusField(m.focused - 1)
			return m, textinput.Blink
		case key.Matches(msg, keys.Navigation.LineDown), key.Matches(msg, keys.Navigation.TabNext):
			m.focusField(m.focused + 1)
			return m, textinput.Blink
		case msg.String() == " " && m.focused == fieldOptEmail:
			m.optEmail = !m.optEmail
			return m, nil
		}
		if m.focused != fieldOptEmail {
			var cmd tea.Cmd
			m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m Model) switchMode() (tui.Model, tea.Cmd) {
	m.signup = !m.signup
	m.errMessage = ""
	first := fieldEmail
	if m.signup {
		first = fieldName
	}
	m.focusField(first)
	return m, textinput.Blink
}

// numFields is the number of focusable rows in the current mode.
func (m Model) numFields() int {
	if m.signup {
		return 4
	}
	return 2
}

func (m *Model) focusField(i int) {
	if m.focused != fieldOptEmail {
		m.inputs[m.focused].Blur()
	}
	offset := fieldEmail
	if m.signup {
		offset = fieldName
	}
	n := m.numFields()
	m.focused = offset + (i-offset+n)%n
	if m.focused != fieldOptEmail {
		m.inputs[m.focused].Focus()
	}
}

func (m Model) submit() (tui.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	if m.signup {
		name := strings.TrimSpace(m.inputs[fieldName].Value())
		if name == "" || email == "" || password == "" {
			m.errMessage = "All fields are required."
			return m, nil
		}
		m.submitting = true
		m.errMessage = ""
		return m, createAccount(m.client, api.CreateAccountOptions{
			Name:     name,
			Email:    email,
			Password: password,
			OptEmail: m.optEmail,
		})
	}
	if email == "" || password == "" {
		m.errMessage = "Email and password are required."
		return m, nil
	}
	m.submitting = true
	m.errMessage = ""
	return m, login(m.client, email, password)
}

func (m Model) View() string {
	heading := "Sign in"
	if m.signup {
		heading = "Create an account"
	}
	lines := []string{
		tui.TitleStyle.Render("finch"),
		"",
		tui.Bold.Render(heading),
		"",
	}
	first := fieldEmail
	if m.signup {
		first = fieldName
	}
	for i := first; i <= fieldPassword; i++ {
		lines = append(lines, m.fieldView(i, m.inputs[i].View()))
	}
	if m.signup {
		check := "[ ]"
		if m.optEmail {
			check = "[x]"
		}
		lines = append(lines, m.fieldView(fieldOptEmail, check+" Email notifications"))
	}
	if m.errMessage != "" {
		lines = append(lines, "", tui.Regular.Copy().Foreground(tui.Red).Render(m.errMessage))
	}
	if m.submitting {
		lines = append(lines, "", tui.Faint.Render("submitting..."))
	}
	hint := "enter sign in · ^s create an account"
	if m.signup {
		hint = "enter create account · ^s sign in"
	}
	lines = append(lines, "", tui.Faint.Render(hint))

	form := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}

func (m Model) fieldView(i int, content string) string {
	if i == m.focused {
		return tui.Regular.Copy().Foreground(tui.LightBlue).Render("> ") + content
	}
	return "  " + content
}

func (m Model) HelpBindings() []key.Binding {
	return []key.Binding{keys.Global.Enter, switchModeKey}
}
