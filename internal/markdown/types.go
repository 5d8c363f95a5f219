package markdown

import (
	"slices"
	"strings"
)

// Attr is a set of independent style flags carried by a run of text
type Attr uint8

const (
	Bold Attr = 1 << iota
	Italic
	Heading
)

// AttrNone is the default body style
const AttrNone Attr = 0

// Has reports whether every flag in f is set
func (a Attr) Has(f Attr) bool {
	return a&f == f
}

func (a Attr) With(f Attr) Attr {
	return a | f
}

func (a Attr) Without(f Attr) Attr {
	return a &^ f
}

// Emphasis returns only the bold/italic part of the set
func (a Attr) Emphasis() Attr {
	return a & (Bold | Italic)
}

func (a Attr) String() string {
	if a == AttrNone {
		return "none"
	}
	var parts []string
	if a.Has(Heading) {
		parts = append(parts, "heading")
	}
	if a.Has(Bold) {
		parts = append(parts, "bold")
	}
	if a.Has(Italic) {
		parts = append(parts, "italic")
	}
	return strings.Join(parts, "|")
}

// Run is a range of text sharing one attribute set
type Run struct {
	Start int // Rune position in document content
	End   int // Rune position in document content, exclusive
	Attr  Attr
}

// Len returns the number of runes covered by the run
func (r Run) Len() int {
	return r.End - r.Start
}

// Document is styled text: content plus non-overlapping runs that cover
// every rune of it. Documents are values; every mutation returns a new
// Document and never touches the receiver.
type Document struct {
	text    []rune
	runs    []Run
	heading bool
}

// NewDocument returns unstyled content
func NewDocument(content string) Document {
	var b Builder
	b.WriteString(content, AttrNone)
	return b.Document()
}

// Len returns the content length in runes
func (d Document) Len() int {
	return len(d.text)
}

// Content returns the raw text without any markup
func (d Document) Content() string {
	return string(d.text)
}

// Runs returns a copy of the run list in content order
func (d Document) Runs() []Run {
	return slices.Clone(d.runs)
}

// Slice returns the text between two clamped rune positions
func (d Document) Slice(start, end int) string {
	start, end = d.ClampRange(start, end)
	return string(d.text[start:end])
}

// AttrAt returns the attributes of the rune at pos. Positions past the end
// report the attributes of the last rune.
func (d Document) AttrAt(pos int) Attr {
	if len(d.runs) == 0 {
		return AttrNone
	}
	pos = d.Clamp(pos)
	if pos == len(d.text) {
		pos--
	}
	for _, r := range d.runs {
		if pos >= r.Start && pos < r.End {
			return r.Attr
		}
	}
	return AttrNone
}

// FirstLineIsHeading reports the heading state of the document
func (d Document) FirstLineIsHeading() bool {
	return d.heading
}

// WithHeading returns a copy with the heading state set. Runs are untouched.
func (d Document) WithHeading(on bool) Document {
	d.heading = on
	return d
}

// FirstLineEnd returns the position of the first line terminator, or the
// content length when there is none. The terminator itself is not part of
// the first line.
func (d Document) FirstLineEnd() int {
	if i := slices.Index(d.text, '\n'); i >= 0 {
		return i
	}
	return len(d.text)
}

// Clamp forces pos into [0, Len]
func (d Document) Clamp(pos int) int {
	return max(0, min(pos, len(d.text)))
}

// ClampRange clamps both ends and orders them
func (d Document) ClampRange(start, end int) (int, int) {
	start, end = d.Clamp(start), d.Clamp(end)
	if end < start {
		start, end = end, start
	}
	return start, end
}

// Apply rewrites the attributes of every rune in [start, end) through fn.
// Runs straddling the range are split so fn only sees the covered part.
func (d Document) Apply(start, end int, fn func(Attr) Attr) Document {
	start, end = d.ClampRange(start, end)
	if start == end {
		return d
	}

	out := make([]Run, 0, len(d.runs)+2)
	for _, r := range d.runs {
		if r.End <= start || r.Start >= end {
			out = append(out, r)
			continue
		}
		if r.Start < start {
			out = append(out, Run{Start: r.Start, End: start, Attr: r.Attr})
		}
		out = append(out, Run{Start: max(r.Start, start), End: min(r.End, end), Attr: fn(r.Attr)})
		if r.End > end {
			out = append(out, Run{Start: end, End: r.End, Attr: r.Attr})
		}
	}

	d.runs = normalize(out)
	return d
}

// Insert places text at pos with the given attributes
func (d Document) Insert(pos int, text string, attr Attr) Document {
	ins := []rune(text)
	if len(ins) == 0 {
		return d
	}
	pos = d.Clamp(pos)
	n := len(ins)

	content := make([]rune, 0, len(d.text)+n)
	content = append(content, d.text[:pos]...)
	content = append(content, ins...)
	content = append(content, d.text[pos:]...)

	runs := make([]Run, 0, len(d.runs)+2)
	for _, r := range d.runs {
		switch {
		case r.End <= pos:
			runs = append(runs, r)
		case r.Start >= pos:
			runs = append(runs, Run{Start: r.Start + n, End: r.End + n, Attr: r.Attr})
		default:
			runs = append(runs,
				Run{Start: r.Start, End: pos, Attr: r.Attr},
				Run{Start: pos + n, End: r.End + n, Attr: r.Attr})
		}
	}
	runs = append(runs, Run{Start: pos, End: pos + n, Attr: attr})
	slices.SortFunc(runs, func(a, b Run) int { return a.Start - b.Start })

	d.text = content
	d.runs = normalize(runs)
	return d
}

// Delete removes the runes in [start, end)
func (d Document) Delete(start, end int) Document {
	start, end = d.ClampRange(start, end)
	if start == end {
		return d
	}
	n := end - start

	content := make([]rune, 0, len(d.text)-n)
	content = append(content, d.text[:start]...)
	content = append(content, d.text[end:]...)

	shift := func(p int) int {
		switch {
		case p <= start:
			return p
		case p < end:
			return start
		default:
			return p - n
		}
	}

	runs := make([]Run, 0, len(d.runs))
	for _, r := range d.runs {
		runs = append(runs, Run{Start: shift(r.Start), End: shift(r.End), Attr: r.Attr})
	}

	d.text = content
	d.runs = normalize(runs)
	return d
}

// Builder assembles a Document from styled fragments
type Builder struct {
	text []rune
	runs []Run
}

// WriteString appends s carrying attr
func (b *Builder) WriteString(s string, attr Attr) {
	start := len(b.text)
	b.text = append(b.text, []rune(s)...)
	if len(b.text) > start {
		b.runs = append(b.runs, Run{Start: start, End: len(b.text), Attr: attr})
	}
}

// Document returns the built document. The heading state is derived from
// whether the first run carries Heading.
func (b *Builder) Document() Document {
	runs := normalize(b.runs)
	return Document{
		text:    slices.Clone(b.text),
		runs:    runs,
		heading: len(runs) > 0 && runs[0].Start == 0 && runs[0].Attr.Has(Heading),
	}
}

// normalize drops empty runs and merges neighbours with equal attributes
func normalize(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.End <= r.Start {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End == r.Start && out[n-1].Attr == r.Attr {
			out[n-1].End = r.End
			continue
		}
		out = append(out, r)
	}
	return out
}
