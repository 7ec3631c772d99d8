package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Cache maintains previously made models, keyed by a content key, e.g. a tab
// title, or "profile". Not so much for performance but to retain memory of
// user actions: a user may highlight a particular row in a table, navigate
// away and later return, and they would expect the same row still to be
// highlighted.
type Cache struct {
	cache map[string]Model
}

func NewCache() *Cache {
	return &Cache{
		cache: make(map[string]Model),
	}
}

func (c *Cache) Exists(key string) bool {
	_, ok := c.cache[key]
	return ok
}

func (c *Cache) Get(key string) Model {
	return c.cache[key]
}

func (c *Cache) Put(key string, model Model) {
	c.cache[key] = model
}

// UpdateAll updates all cached models in-place with the given message,
// including those not currently visible.
func (c *Cache) UpdateAll(msg tea.Msg) []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(c.cache))
	for k := range c.cache {
		cmds = append(cmds, c.Update(k, msg))
	}
	return cmds
}

// Update updates the model for key in-place with the given message. Nil is
// returned if there is no model for key.
func (c *Cache) Update(key string, msg tea.Msg) tea.Cmd {
	model, ok := c.cache[key]
	if !ok {
		return nil
	}
	updated, cmd := model.Update(msg)
	c.cache[key] = updated
	return cmd
}
