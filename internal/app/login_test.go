package app

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	_, tm := setup(t)
	signIn(t, tm)

	// Signed in: the tab strip replaces the sign-in form.
	waitFor(t, tm, func(s string) bool {
		return strings.Contains(s, "Following") && strings.Contains(s, "Logout")
	})
}

func TestLogin_incorrectPassword(t *testing.T) {
	t.Parallel()

	_, tm := setup(t)

	waitFor(t, tm, func(s string) bool {
		return strings.Contains(s, "Sign in")
	})

	tm.Type("bob@example.com")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Type("letmein")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	waitFor(t, tm, func(s string) bool {
		return strings.Contains(s, "Incorrect email or password.")
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	_, tm := setup(t)
	signIn(t, tm)

	// The Logout tab is the last of six; click it directly.
	tm.Type("6")

	waitFor(t, tm, func(s string) bool {
		return strings.Contains(s, "Sign in") && strings.Contains(s, "signed out")
	})
}
