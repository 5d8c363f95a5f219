package markdown

import (
	"regexp"
	"strings"
)

// HeadingPrefix marks the first line of persisted markup as a heading
const HeadingPrefix = "# "

// MarkdownConverter translates between persisted inline markup and Documents.
// Only emphasis (*, **, ***) and a first-line heading are recognised; every
// other construct is literal text.
type MarkdownConverter struct {
	// Alternatives are ordered longest delimiter first; RE2 picks the
	// leftmost alternative that matches at each position.
	emphasisPattern *regexp.Regexp
}

// NewMarkdownConverter creates a new markdown converter with compiled patterns
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{
		emphasisPattern: regexp.MustCompile(`\*\*\*([^*\n]+)\*\*\*|\*\*([^*\n]+)\*\*|\*([^*\n]+)\*`),
	}
}

// Parse converts markup into a Document. It never fails: unmatched or empty
// delimiters are kept as literal characters.
func (mc *MarkdownConverter) Parse(source string) Document {
	// Step 1: only the first line can be a heading
	body, heading := strings.CutPrefix(source, HeadingPrefix)

	// Step 2: inline emphasis
	var b Builder
	lastEnd := 0
	lastAttr := AttrNone
	for _, match := range mc.emphasisPattern.FindAllStringSubmatchIndex(body, -1) {
		b.WriteString(body[lastEnd:match[0]], AttrNone)

		var attr Attr
		var inner string
		switch {
		case match[2] >= 0:
			attr, inner = Bold|Italic, body[match[2]:match[3]]
		case match[4] >= 0:
			attr, inner = Bold, body[match[4]:match[5]]
		default:
			attr, inner = Italic, body[match[6]:match[7]]
		}

		// A span touching the previous span of the same emphasis would merge
		// with it into one run, so it stays literal.
		if match[0] == lastEnd && attr == lastAttr {
			b.WriteString(body[match[0]:match[1]], AttrNone)
			attr = AttrNone
		} else {
			b.WriteString(inner, attr)
		}

		lastEnd, lastAttr = match[1], attr
	}
	b.WriteString(body[lastEnd:], AttrNone)

	doc := b.Document()
	if !heading {
		return doc
	}

	// Step 3: heading is additive, emphasis flags on the line survive
	return doc.Apply(0, doc.FirstLineEnd(), func(a Attr) Attr {
		return a.With(Heading)
	}).WithHeading(true)
}

// Serialize converts a Document back into markup. Heading text is written
// plain even when it also carries bold or italic.
func (mc *MarkdownConverter) Serialize(doc Document) string {
	var sb strings.Builder

	if doc.AttrAt(0).Has(Heading) || doc.FirstLineIsHeading() && doc.FirstLineEnd() == 0 {
		sb.WriteString(HeadingPrefix)
	}

	for _, r := range doc.runs {
		text := string(doc.text[r.Start:r.End])
		delim := delimiter(r.Attr)
		if r.Attr.Has(Heading) || delim == "" {
			sb.WriteString(text)
			continue
		}

		// Emphasis never spans a line break in markup, so wrap each line
		// of the run on its own.
		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line == "" {
				continue
			}
			sb.WriteString(delim)
			sb.WriteString(line)
			sb.WriteString(delim)
		}
	}

	return sb.String()
}

func delimiter(a Attr) string {
	switch a.Emphasis() {
	case Bold | Italic:
		return "***"
	case Bold:
		return "**"
	case Italic:
		return "*"
	default:
		return ""
	}
}
