package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// Event instructs the browser to open a particular piece of content. Events
// originate from key presses, notifications, and the --open flag, and each
// has a fragment representation, e.g. "company/42", suitable for passing on
// the command line.
type Event interface {
	Fragment() string
}

// OpenCompanyEvent opens the detail view for a company.
type OpenCompanyEvent struct {
	ID int
}

func (e OpenCompanyEvent) Fragment() string {
	return fmt.Sprintf("company/%d", e.ID)
}

// OpenArticleEvent opens a news article.
type OpenArticleEvent struct {
	ID int
}

func (e OpenArticleEvent) Fragment() string {
	return fmt.Sprintf("article/%d", e.ID)
}

// OpenNotificationsEvent opens the notifications list.
type OpenNotificationsEvent struct{}

func (e OpenNotificationsEvent) Fragment() string {
	return "notifications"
}

// OpenProfileEvent opens the user's profile.
type OpenProfileEvent struct{}

func (e OpenProfileEvent) Fragment() string {
	return "profile"
}

// OpenLogsEvent opens the log message listing. It has no command line
// fragment representation; logs are only reachable from within the browser.
type OpenLogsEvent struct{}

func (e OpenLogsEvent) Fragment() string {
	return "logs"
}

// OpenLogMessageEvent opens a single log message.
type OpenLogMessageEvent struct {
	Serial uint
}

func (e OpenLogMessageEvent) Fragment() string {
	return fmt.Sprintf("logs/%d", e.Serial)
}

// ParseFragment converts a fragment string back into an event. Unrecognized
// or malformed fragments return false; they are ignored rather than being an
// error, because fragments come from user input.
func ParseFragment(fragment string) (Event, bool) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")

	switch fragment {
	case "notifications":
		return OpenNotificationsEvent{}, true
	case "profile":
		return OpenProfileEvent{}, true
	}
	if id, ok := parseIDFragment(fragment, "company/"); ok {
		return OpenCompanyEvent{ID: id}, true
	}
	if id, ok := parseIDFragment(fragment, "article/"); ok {
		return OpenArticleEvent{ID: id}, true
	}
	return nil, false
}

func parseIDFragment(fragment, prefix string) (int, bool) {
	if !strings.HasPrefix(fragment, prefix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(fragment, prefix))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
