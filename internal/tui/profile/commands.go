package profile

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/tui"
)

type nameChangedMsg struct {
	user api.User
}

type passwordChangedMsg struct{}

type sectorAddedMsg struct {
	sector api.Sector
}

type sectorRemovedMsg struct {
	id int
}

type accountDeletedMsg struct{}

func changeName(client *api.Client, name string) tea.Cmd {
	return func() tea.Msg {
		user, err := client.ChangeName(context.Background(), name)
		if err != nil {
			return tui.NewErrorMsg(err, "changing name")
		}
		return nameChangedMsg{user: user}
	}
}

func changePassword(client *api.Client, password, newPassword string) tea.Cmd {
	return func() tea.Msg {
		err := client.ChangePassword(context.Background(), password, newPassword, newPassword)
		if err != nil {
			return tui.NewErrorMsg(err, "changing password")
		}
		return passwordChangedMsg{}
	}
}

func addSector(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		sector, err := client.AddSector(context.Background(), id)
		if err != nil {
			return tui.NewErrorMsg(err, "adding sector")
		}
		return sectorAddedMsg{sector: sector}
	}
}

func removeSector(client *api.Client, sector api.Sector) tea.Cmd {
	return func() tea.Msg {
		if err := client.RemoveSector(context.Background(), sector.ID); err != nil {
			return tui.NewErrorMsg(err, "removing sector %s", sector.Name)
		}
		return sectorRemovedMsg{id: sector.ID}
	}
}

func deleteAccount(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteAccount(context.Background()); err != nil {
			return tui.NewErrorMsg(err, "deleting account")
		}
		return accountDeletedMsg{}
	}
}
