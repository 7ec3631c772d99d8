// Package top contains the top-level model: the session gate between the
// login form and the browser, plus the header, footer and help chrome shared
// by both.
package top

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/logging"
	"github.com/finchtui/finch/internal/notification"
	"github.com/finchtui/finch/internal/tui"
	"github.com/finchtui/finch/internal/tui/browse"
	"github.com/finchtui/finch/internal/tui/keys"
	"github.com/finchtui/finch/internal/tui/login"
	"github.com/finchtui/finch/internal/version"
)

type mode int

const (
	normalMode mode = iota
	// filterMode is active while the user types into a content model's
	// filter widget.
	filterMode
	// promptMode is active while the quit confirmation is shown.
	promptMode
)

type Options struct {
	Client        *api.Client
	Logger        *logging.Logger
	Notifications *notification.Service

	// DefaultTab is the tab activated once signed in.
	DefaultTab string
	// InitialEvent, if non-nil, is content to open once signed in.
	InitialEvent tui.Event
	// Debug dumps messages to messages.log.
	Debug bool
}

type model struct {
	client        *api.Client
	logger        *logging.Logger
	notifications *notification.Service

	defaultTab   string
	initialEvent tui.Event

	// body is the login form while signed out, the browser while signed in.
	body   tui.Model
	authed bool
	user   api.User

	mode       mode
	showHelp   bool
	quitPrompt textinput.Model

	// Either an error or an informational message is rendered in the footer.
	err  error
	info string

	width  int
	height int

	dump *os.File
}

// New constructs the top-level TUI model.
func New(opts Options) (tea.Model, error) {
	var dump *os.File
	if opts.Debug {
		var err error
		dump, err = os.OpenFile("messages.log", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
		if err != nil {
			return nil, err
		}
	}
	m := model{
		client:        opts.Client,
		logger:        opts.Logger,
		notifications: opts.Notifications,
		defaultTab:    opts.DefaultTab,
		initialEvent:  opts.InitialEvent,
		dump:          dump,
	}
	m.body = login.New(opts.Client, 0, 0)
	return m, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.body.Init(),
		checkSession(m.client),
	)
}

// checkSession silently resumes an existing session, skipping the login form.
func checkSession(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		user, err := client.CurrentUser(context.Background())
		if err != nil {
			// No session; the login form stays.
			return nil
		}
		return tui.LoggedInMsg{User: user}
	}
}

func enableNotifications(service *notification.Service) tea.Cmd {
	return func() tea.Msg {
		service.Enable(context.Background())
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.dump != nil {
		spew.Fdump(m.dump, msg)
	}

	if m.mode == promptMode {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, keys.Global.Quit), key.Matches(msg, localKeys.Yes):
				return m, tea.Quit
			default:
				m.mode = normalMode
				m.info = "canceled quitting"
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.updateBody(tea.WindowSizeMsg{
			Width:  m.width,
			Height: m.contentHeight(),
		})
	case tui.LoggedInMsg:
		m.authed = true
		m.user = msg.User
		m.body = browse.New(browse.Options{
			Client:        m.client,
			Logger:        m.logger,
			Notifications: m.notifications,
			DefaultTab:    m.defaultTab,
			InitialEvent:  m.initialEvent,
			Width:         m.width,
			Height:        m.contentHeight(),
		})
		// Content from the command line is only opened on the first sign-in.
		m.initialEvent = nil
		return m, tea.Batch(
			m.body.Init(),
			enableNotifications(m.notifications),
			tui.ReportInfo("signed in as %s", msg.User.Email),
		)
	case tui.LoggedOutMsg:
		// Only reachable after a confirmed logout (or account deletion), so
		// browsing state is dropped here and nowhere else.
		m.authed = false
		m.user = api.User{}
		m.notifications.Disable()
		m.body = login.New(m.client, m.width, m.contentHeight())
		return m, tea.Batch(m.body.Init(), tui.ReportInfo("signed out"))
	case tui.ErrorMsg:
		if msg.Error != nil {
			reason := fmt.Sprintf(msg.Message, msg.Args...)
			m.err = fmt.Errorf("%s: %w", reason, msg.Error)
			m.logger.Error(reason, "error", msg.Error)
		}
		// Forwarded so that models can roll back optimistic state.
		return m, m.updateBody(msg)
	case tui.InfoMsg:
		m.info = string(msg)
		return m, nil
	case tea.KeyMsg:
		// Pressing any key makes any info/error message in the footer
		// disappear
		m.info = ""
		m.err = nil

		if m.mode == filterMode {
			switch {
			case key.Matches(msg, keys.Filter.Exit):
				m.mode = normalMode
				return m, m.updateBody(tui.FilterBlurMsg{})
			case key.Matches(msg, keys.Filter.Clear):
				m.mode = normalMode
				return m, m.updateBody(tui.FilterCloseMsg{})
			default:
				return m, m.updateBody(tui.FilterKeyMsg(msg))
			}
		}

		switch {
		case key.Matches(msg, keys.Global.Quit):
			// ctrl-c quits the app, but not before prompting the user for
			// confirmation.
			m.quitPrompt = textinput.New()
			m.quitPrompt.Prompt = ""
			m.quitPrompt.Focus()
			m.mode = promptMode
			return m, textinput.Blink
		}

		// While the body has a text input focused it receives every other
		// keystroke.
		if focused, ok := m.body.(tui.ModelInputFocused); ok && focused.InputFocused() {
			return m, m.updateBody(msg)
		}

		switch {
		case key.Matches(msg, keys.Global.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, keys.Global.Escape):
			if m.showHelp {
				m.showHelp = false
				return m, nil
			}
		case key.Matches(msg, keys.Global.Filter):
			m.mode = filterMode
			return m, m.updateBody(tui.FilterFocusReqMsg{})
		}
		return m, m.updateBody(msg)
	}

	return m, m.updateBody(msg)
}

func (m *model) updateBody(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return cmd
}

var (
	logo = strings.Join([]string{
		"▄▄▄ ▄ ▄▄  ▄▄▄ ▄ ▄",
		"█▄  █ █ █ █   █▄█",
		"▀   ▀ ▀ ▀ ▀▀▀ ▀ ▀",
	}, "\n")
	renderedLogo = tui.Bold.
			Copy().
			Margin(0, 1).
			Foreground(tui.Violet).
			Render(logo)
	logoWidth            = lipgloss.Width(renderedLogo)
	headerHeight         = 3
	titleHeight          = 1
	horizontalRuleHeight = 1
	messageFooterHeight  = 1

	accountIcon = tui.Bold.Copy().
			Foreground(tui.Violet).
			Margin(0, 2, 0, 1).
			Render("@")
	versionIcon = tui.Bold.Copy().
			Foreground(tui.Violet).
			Margin(0, 2, 0, 1).
			Render("ⓥ")
)

func (m model) View() string {
	var (
		content           string
		shortHelpBindings []key.Binding
	)

	var bodyHelpBindings []key.Binding
	if bindings, ok := m.body.(tui.ModelHelpBindings); ok {
		bodyHelpBindings = bindings.HelpBindings()
	}

	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().
			Margin(1).
			Render(
				fullHelpView(
					bodyHelpBindings,
					keys.KeyMapToSlice(keys.Global),
					keys.KeyMapToSlice(keys.Navigation),
				),
			)
		shortHelpBindings = []key.Binding{
			key.NewBinding(
				key.WithKeys("?"),
				key.WithHelp("?", "close help"),
			),
		}
	case m.mode == promptMode:
		content = lipgloss.NewStyle().
			Margin(0, 1).
			Render(fmt.Sprintf("Quit finch? (y/N): %s", m.quitPrompt.View()))
	default:
		content = m.body.View()
		shortHelpBindings = append(
			bodyHelpBindings,
			keys.KeyMapToSlice(keys.Global)...,
		)
	}

	// Render global static info in top left corner
	account := "signed out"
	if m.authed {
		account = m.user.Email
	}
	globalStatic := lipgloss.JoinVertical(lipgloss.Top,
		lipgloss.JoinHorizontal(lipgloss.Left, accountIcon, tui.Regular.Render(account)),
		lipgloss.JoinHorizontal(lipgloss.Left, versionIcon, tui.Regular.Render(version.Version)),
	)

	// Render help bindings in between account info and logo.
	shortHelpWidth := m.width - tui.Width(globalStatic) - logoWidth - 6
	shortHelp := lipgloss.NewStyle().
		Margin(0, 2, 0, 4).
		Width(shortHelpWidth).
		Render(shortHelpView(shortHelpBindings, shortHelpWidth))

	// Render page title line, with the status right-aligned
	var (
		pageTitle  string
		pageStatus string
	)
	if titled, ok := m.body.(tui.ModelTitle); ok {
		pageTitle = tui.TitleStyle.Copy().Margin(0, 1).Render(titled.Title())
	}
	if statusable, ok := m.body.(tui.ModelStatus); ok {
		pageStatus = tui.Regular.Copy().
			Margin(0, 1).
			Width(m.width - tui.Width(pageTitle) - 2).
			Align(lipgloss.Right).
			Render(statusable.Status())
	}
	pageTitleLine := lipgloss.JoinHorizontal(lipgloss.Left, pageTitle, pageStatus)

	// Unread notification count goes in the bottom right corner.
	var metadata string
	if m.authed {
		stats := m.notifications.Stats()
		metadata = tui.Padded.Copy().Render(
			fmt.Sprintf("%d/%d unread", stats.Unread, stats.Total),
		)
	}

	// Any info/error message is shown in the bottom left corner, using
	// whatever space remains to the left of the metadata.
	var footerMsg string
	if m.err != nil {
		footerMsg = tui.Padded.Copy().
			Foreground(tui.Red).
			Render("Error: " + m.err.Error())
	} else if m.info != "" {
		footerMsg = tui.Padded.Copy().
			Foreground(tui.Black).
			Render(m.info)
	}

	return lipgloss.JoinVertical(
		lipgloss.Top,
		// header
		lipgloss.NewStyle().
			Height(headerHeight).
			Render(
				lipgloss.JoinHorizontal(
					lipgloss.Left,
					globalStatic,
					shortHelp,
					renderedLogo,
				),
			),
		// title
		lipgloss.NewStyle().
			MaxHeight(1).
			Inline(true).
			Width(m.width).
			Render(pageTitleLine),
		// horizontal rule
		strings.Repeat("─", max(0, m.width)),
		// content
		lipgloss.NewStyle().
			Height(m.contentHeight()).
			Render(content),
		// horizontal rule
		strings.Repeat("─", max(0, m.width)),
		// footer
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			tui.Regular.
				Inline(true).
				MaxWidth(m.width-tui.Width(metadata)).
				Width(m.width-tui.Width(metadata)).
				Render(footerMsg),
			metadata,
		),
	)
}

// contentHeight is the height available to the body between the header and
// the footer.
func (m model) contentHeight() int {
	return m.height - headerHeight - titleHeight - 2*horizontalRuleHeight - messageFooterHeight
}
