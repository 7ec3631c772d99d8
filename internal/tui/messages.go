package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/finchtui/finch/internal/api"
)

// NavigationMsg is an instruction to open the content identified by the
// event.
type NavigationMsg struct {
	Event Event
}

type InfoMsg string

type ErrorMsg struct {
	Error   error
	Message string
	Args    []any
}

func NewErrorMsg(err error, msg string, args ...any) ErrorMsg {
	return ErrorMsg{
		Error:   err,
		Message: msg,
		Args:    args,
	}
}

// LoggedInMsg reports a successfully established session.
type LoggedInMsg struct {
	User api.User
}

// LoggedOutMsg reports that the session has ended, either because the user
// logged out or because the backend rejected the session.
type LoggedOutMsg struct{}

// FilterFocusReqMsg is a request to focus the filter widget.
type FilterFocusReqMsg struct{}

// FilterBlurMsg is a request to unfocus the filter widget. It is not
// acknowledged.
type FilterBlurMsg struct{}

// FilterCloseMsg is a request to close the filter widget. It is not
// acknowledged.
type FilterCloseMsg struct{}

// FilterKeyMsg is a key entered by the user into the filter widget
type FilterKeyMsg tea.KeyMsg
