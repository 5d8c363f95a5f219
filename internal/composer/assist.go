package composer

import (
	"slices"
	"strings"

	"github.com/csams/rhymer/internal/models"
)

// DefaultDismissThreshold is the drag distance past which a sheet closes
const DefaultDismissThreshold = 100.0

// upwardResistance damps drags against the dismiss direction
const upwardResistance = 0.15

// Words splits a lyric line on spaces into normalized words
func Words(text string) []string {
	var words []string
	for _, field := range strings.Split(text, " ") {
		if w := models.Normalize(field); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// SendVisible reports whether the last word of the line is a new query
func SendVisible(words []string, currentSearch string) bool {
	if len(words) == 0 {
		return false
	}
	return words[len(words)-1] != currentSearch
}

// ResistedDragOffset passes downward drags through and damps upward ones
func ResistedDragOffset(translation float64) float64 {
	if translation > 0 {
		return translation
	}
	return translation * upwardResistance
}

// ShouldDismiss is true only strictly past threshold
func ShouldDismiss(translation, threshold float64) bool {
	return translation > threshold
}

// ApplyMove moves the items at the from offsets so they land before the item
// currently at offset to, then renumbers every item's sort order from zero.
// Out-of-range and duplicate offsets are ignored.
func ApplyMove[T any](items []T, from []int, to int, setSortOrder func(T, int)) []T {
	to = max(0, min(to, len(items)))

	moving := make(map[int]bool, len(from))
	for _, i := range from {
		if i >= 0 && i < len(items) {
			moving[i] = true
		}
	}

	var moved, rest []T
	dest := to
	for i, item := range items {
		if moving[i] {
			moved = append(moved, item)
			if i < to {
				dest--
			}
			continue
		}
		rest = append(rest, item)
	}

	result := slices.Concat(rest[:dest], moved, rest[dest:])
	for i, item := range result {
		setSortOrder(item, i)
	}
	return result
}
