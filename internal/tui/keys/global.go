package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type global struct {
	Escape        key.Binding
	Enter         key.Binding
	Quit          key.Binding
	Help          key.Binding
	Filter        key.Binding
	Logs          key.Binding
	Profile       key.Binding
	Notifications key.Binding
	Reload        key.Binding
}

var Global = global{
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("^c", "exit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Logs: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "logs"),
	),
	Profile: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "profile"),
	),
	Notifications: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "notifications"),
	),
	Reload: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reload"),
	),
}
