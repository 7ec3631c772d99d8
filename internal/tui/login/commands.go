package login

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/tui"
)

func login(client *api.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := client.Login(context.Background(), email, password)
		if errors.Is(err, api.ErrUnauthenticated) {
			return failedMsg{message: "Incorrect email or password."}
		}
		if err != nil {
			return tui.NewErrorMsg(err, "signing in")
		}
		return tui.LoggedInMsg{User: user}
	}
}

func createAccount(client *api.Client, opts api.CreateAccountOptions) tea.Cmd {
	return func() tea.Msg {
		user, err := client.CreateAccount(context.Background(), opts)
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return failedMsg{message: apiErr.Message}
		}
		if err != nil {
			return tui.NewErrorMsg(err, "creating account")
		}
		return tui.LoggedInMsg{User: user}
	}
}
