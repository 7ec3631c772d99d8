package company

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/finchtui/finch/internal/api"
)

type followToggledMsg struct {
	id        int
	following bool
}

type followFailedMsg struct {
	id  int
	err error
}

// toggleFollow asks the backend to follow or unfollow the company. The
// company's local follow state is only flipped once the backend confirms.
func toggleFollow(client *api.Client, c api.Company) tea.Cmd {
	return func() tea.Msg {
		var err error
		if c.IsFollowing {
			err = client.Unfollow(context.Background(), c.ID)
		} else {
			err = client.Follow(context.Background(), c.ID)
		}
		if err != nil {
			return followFailedMsg{id: c.ID, err: err}
		}
		return followToggledMsg{id: c.ID, following: !c.IsFollowing}
	}
}
