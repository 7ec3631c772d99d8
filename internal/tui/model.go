package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is a constituent model of the browser, e.g. a company listing, an
// article, the profile page. Unlike tea.Model, Update returns the concrete
// interface rather than tea.Model, saving callers a type assertion.
type Model interface {
	Init() tea.Cmd
	Update(tea.Msg) (Model, tea.Cmd)
	View() string
}

// ModelTitle is implemented by models that show a title.
type ModelTitle interface {
	Title() string
}

// ModelStatus is implemented by models that show a status alongside their
// title.
type ModelStatus interface {
	Status() string
}

// ModelHelpBindings is implemented by models that surface further help
// bindings specific to the model.
type ModelHelpBindings interface {
	HelpBindings() []key.Binding
}

// ModelInputFocused is implemented by models containing text inputs. While an
// input is focused, global key bindings are suspended so that keystrokes
// reach the input.
type ModelInputFocused interface {
	InputFocused() bool
}
