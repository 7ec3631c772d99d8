package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Block characters for sparkline rendering (8 levels).
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a series of values as a 1-row graph of block characters,
// scaled to the series' min and max. If the series is longer than width then
// only the most recent values are rendered. The graph is colored green if the
// series ends higher than it starts, red if lower.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	// Limit to available width
	if len(values) > width {
		values = values[len(values)-width:]
	}

	// Find min/max for scaling
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	var sb strings.Builder
	for _, v := range values {
		level := 0
		if maxV > minV {
			level = int(math.Round((v - minV) / (maxV - minV) * 7))
			if level > 7 {
				level = 7
			}
		} else if maxV > 0 {
			level = 4 // flat non-zero line
		}
		sb.WriteRune(sparkBlocks[level])
	}

	var color lipgloss.TerminalColor = LightGrey
	if last := values[len(values)-1]; last > values[0] {
		color = GainColor
	} else if last < values[0] {
		color = LossColor
	}
	return Regular.Copy().Foreground(color).Render(sb.String())
}
