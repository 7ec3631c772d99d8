package table

import (
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

var defaultTruncationFunc = TruncateRight

// TruncationFunc caps a cell's rendered width, marking the cut end with
// tailOrPrefix.
type TruncationFunc func(s string, w int, tailOrPrefix string) string

// TruncateRight drops the end of the string, e.g. for company names.
func TruncateRight(s string, w int, tail string) string {
	return truncate.StringWithTail(s, uint(w), tail)
}

// TruncateLeft drops the start of the string, e.g. for URLs whose
// distinguishing part is the end.
func TruncateLeft(s string, w int, prefix string) string {
	return runewidth.TruncateLeft(s, w, prefix)
}
