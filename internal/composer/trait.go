package composer

import "github.com/csams/rhymer/internal/markdown"

// ToggleTrait flips bold or italic on every part of [start, end) on its own:
// a range that is half bold ends up with the other half bold. Every other
// flag is preserved, so toggling twice restores the original runs. Traits
// other than Bold and Italic, and empty ranges, leave doc unchanged.
func ToggleTrait(doc markdown.Document, trait markdown.Attr, start, end int) markdown.Document {
	if trait != markdown.Bold && trait != markdown.Italic {
		return doc
	}
	start, end = doc.ClampRange(start, end)
	if start == end {
		return doc
	}
	return doc.Apply(start, end, func(a markdown.Attr) markdown.Attr {
		return a ^ trait
	})
}
