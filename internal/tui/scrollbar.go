package tui

import (
	"math"
	"strings"
)

const (
	ScrollbarWidth = 1

	scrollbarThumb = "█"
	scrollbarTrack = "░"
)

// Scrollbar renders a one-column vertical scrollbar of the given height,
// with a thumb sized and positioned to reflect how much of total is visible
// and how far into it the view has scrolled.
func Scrollbar(height, total, visible, offset int) string {
	scale := float64(height) / float64(total)
	thumb := max(1, int(math.Round(float64(visible)*scale)))
	top := max(0, min(height-thumb, int(math.Round(float64(offset)*scale))))
	bottom := max(0, height-top-thumb)

	var b strings.Builder
	for i := 0; i < top; i++ {
		b.WriteString(scrollbarTrack + "\n")
	}
	for i := 0; i < thumb; i++ {
		b.WriteString(scrollbarThumb + "\n")
	}
	for i := 0; i < bottom; i++ {
		b.WriteString(scrollbarTrack + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
