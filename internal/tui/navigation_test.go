package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFragment(t *testing.T) {
	tests := []struct {
		fragment string
		want     Event
	}{
		{"company/42", OpenCompanyEvent{ID: 42}},
		{"#company/42", OpenCompanyEvent{ID: 42}},
		{"article/7", OpenArticleEvent{ID: 7}},
		{"notifications", OpenNotificationsEvent{}},
		{"profile", OpenProfileEvent{}},
		{"", nil},
		{"company/", nil},
		{"company/abc", nil},
		{"company/0", nil},
		{"company/-1", nil},
		{"bogus/42", nil},
		{"article/42/extra", nil},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			got, ok := ParseFragment(tt.fragment)
			if tt.want == nil {
				assert.False(t, ok)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// An event's fragment parses back to the same event.
func TestParseFragment_roundTrip(t *testing.T) {
	events := []Event{
		OpenCompanyEvent{ID: 1},
		OpenCompanyEvent{ID: 999},
		OpenArticleEvent{ID: 3},
		OpenNotificationsEvent{},
		OpenProfileEvent{},
	}
	for _, event := range events {
		got, ok := ParseFragment(event.Fragment())
		assert.True(t, ok)
		assert.Equal(t, event, got)
	}
}
