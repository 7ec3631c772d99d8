package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/dustin/go-humanize"

	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/sentiment"
)

// Helper funcs for easily surfacing info in the TUI.

// MarketCap renders a market capitalization in dollars, abbreviated to the
// nearest thousand-multiple, e.g. "$3.2T".
func MarketCap(v float64) string {
	if v == 0 {
		return "-"
	}
	s, suffix := humanize.ComputeSI(v)
	switch suffix {
	case "G":
		suffix = "B"
	case "T", "B", "M", "k", "":
	default:
		// Beyond or below sensible money multiples; fall back to plain
		// formatting.
		return fmt.Sprintf("$%s", humanize.Commaf(v))
	}
	return fmt.Sprintf("$%s%s", humanize.FtoaWithDigits(s, 1), suffix)
}

// Sentiment renders a sentiment category as a colored glyph and label. When
// the backend omitted the category the score is bucketed locally instead.
func Sentiment(category sentiment.Category, score float64) string {
	if category == "" {
		category = sentiment.CategoryFromScore(score)
	}
	var color = SentimentNeutral
	switch category {
	case sentiment.VeryBad:
		color = SentimentVeryBad
	case sentiment.Bad:
		color = SentimentBad
	case sentiment.Good:
		color = SentimentGood
	case sentiment.VeryGood:
		color = SentimentVeryGood
	}
	return Regular.Copy().Foreground(color).Render(fmt.Sprintf("%s %s", category.Glyph(), category))
}

// StockDelta renders a percentage price change, green for gains and red for
// losses.
func StockDelta(delta float64) string {
	switch {
	case delta > 0:
		return Regular.Copy().Foreground(GainColor).Render(fmt.Sprintf("▲ %.2f%%", delta))
	case delta < 0:
		return Regular.Copy().Foreground(LossColor).Render(fmt.Sprintf("▼ %.2f%%", -delta))
	default:
		return Faint.Render("0.00%")
	}
}

// FollowedCheckmark returns a check mark if following is true.
func FollowedCheckmark(following bool) string {
	if following {
		return Regular.Copy().Foreground(Green).Render("✓")
	}
	return ""
}

// Ago renders a time as a relative duration, e.g. "2 hours ago". The zero
// time renders as a dash rather than a nonsense duration.
func Ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// SectorNames joins sector names into a comma separated list.
func SectorNames(sectors []api.Sector) string {
	names := make([]string, len(sectors))
	for i, s := range sectors {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

// RemoveDuplicateBindings removes duplicate bindings from a list of bindings.
// A binding is deemed a duplicate if another binding has the same list of
// keys.
func RemoveDuplicateBindings(bindings []key.Binding) []key.Binding {
	seen := make(map[string]struct{})
	var i int
	for _, b := range bindings {
		key := strings.Join(b.Keys(), " ")
		if _, ok := seen[key]; ok {
			// duplicate, skip
			continue
		}
		seen[key] = struct{}{}
		bindings[i] = b
		i++
	}
	return bindings[:i]
}
