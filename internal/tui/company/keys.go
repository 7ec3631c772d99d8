package company

import "github.com/charmbracelet/bubbles/key"

var (
	followKey = key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "follow/unfollow"),
	)
	viewMoreKey = key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "view more"),
	)
	rawKey = key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "raw json"),
	)
	rangeKeys = key.NewBinding(
		key.WithKeys("D", "W", "M", "Y"),
		key.WithHelp("D/W/M/Y", "chart range"),
	)
)
