// Package sentiment maps numeric sentiment scores onto the qualitative
// buckets the backend reports alongside companies and articles.
package sentiment

// Category is a qualitative sentiment bucket. The backend sends these as
// strings; CategoryFromScore derives one locally when it is absent.
type Category string

const (
	VeryBad  Category = "very bad"
	Bad      Category = "bad"
	Neutral  Category = "neutral"
	Good     Category = "good"
	VeryGood Category = "very good"
)

// CategoryFromScore buckets a score in [-1, 1], using the same thresholds
// the backend's analyzer uses to label scores.
func CategoryFromScore(score float64) Category {
	switch {
	case score >= 0.5:
		return VeryGood
	case score >= 0.05:
		return Good
	case score >= -0.05:
		return Neutral
	case score >= -0.5:
		return Bad
	default:
		return VeryBad
	}
}

// Glyph returns the terminal rendering of the category, used wherever the
// browser client showed a sentiment icon.
func (c Category) Glyph() string {
	switch c {
	case VeryBad:
		return "--"
	case Bad:
		return "-"
	case Good:
		return "+"
	case VeryGood:
		return "++"
	default:
		return "·"
	}
}

func (c Category) String() string { return string(c) }
