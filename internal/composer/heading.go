package composer

import "github.com/csams/rhymer/internal/markdown"

// HeadingState is the typographic state of a document's first line
type HeadingState int

const (
	NoHeading HeadingState = iota
	FirstLineHeading
)

func (s HeadingState) String() string {
	switch s {
	case NoHeading:
		return "no-heading"
	case FirstLineHeading:
		return "first-line-heading"
	default:
		return "unknown"
	}
}

// StateOf returns the heading state carried by doc
func StateOf(doc markdown.Document) HeadingState {
	if doc.FirstLineIsHeading() {
		return FirstLineHeading
	}
	return NoHeading
}

// EnforceHeading downgrades every run past the end of the first line that
// carries Heading back to the default body style. Typing Enter at the end of
// a heading line is the usual way such runs appear. A heading document whose
// non-empty first line no longer carries Heading (the old line 1 was
// deleted) is demoted to NoHeading. Idempotent.
func EnforceHeading(doc markdown.Document) markdown.Document {
	end := doc.FirstLineEnd()
	if doc.FirstLineIsHeading() && end > 0 && !doc.AttrAt(0).Has(markdown.Heading) {
		doc = doc.WithHeading(false)
	}
	if end >= doc.Len() {
		return doc
	}
	return doc.Apply(end, doc.Len(), func(a markdown.Attr) markdown.Attr {
		if a.Has(markdown.Heading) {
			return markdown.AttrNone
		}
		return a
	})
}

// ToggleHeading flips the heading state. The first line gains or loses the
// Heading flag; bold and italic flags on it are left alone.
func ToggleHeading(doc markdown.Document) markdown.Document {
	on := !doc.FirstLineIsHeading()
	if doc.Len() == 0 {
		return doc.WithHeading(on)
	}

	return doc.Apply(0, doc.FirstLineEnd(), func(a markdown.Attr) markdown.Attr {
		if on {
			return a.With(markdown.Heading)
		}
		return a.Without(markdown.Heading)
	}).WithHeading(on)
}

// ActiveStyle returns the style newly typed text takes at caret: Heading
// while the caret is on the first line of a heading document (the position
// right before the first line break included), the body style otherwise.
func ActiveStyle(doc markdown.Document, caret int) markdown.Attr {
	if doc.FirstLineIsHeading() && doc.Clamp(caret) <= doc.FirstLineEnd() {
		return markdown.Heading
	}
	return markdown.AttrNone
}
