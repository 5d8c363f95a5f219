package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// FromHTML converts a definition fragment into a Document. Bold and italic
// tags become runs, line-level tags become line breaks, and everything else
// is reduced to its text.
func (mc *MarkdownConverter) FromHTML(fragment string) Document {
	var b Builder
	var bold, italic int

	attr := func() Attr {
		var a Attr
		if bold > 0 {
			a |= Bold
		}
		if italic > 0 {
			a |= Italic
		}
		return a
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		tok := z.Token()
		isClosing := tt == html.EndTagToken

		switch tt {
		case html.TextToken:
			b.WriteString(collapseSpace(tok.Data), attr())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			switch tok.Data {
			case "br":
				b.WriteString("\n", attr())
			case "p", "div", "ul", "ol", "dd", "dt":
				if isClosing {
					b.WriteString("\n", AttrNone)
				}
			case "b", "strong":
				bold = adjustDepth(bold, isClosing)
			case "i", "em":
				italic = adjustDepth(italic, isClosing)
			case "li":
				if !isClosing {
					b.WriteString("• ", AttrNone)
				} else {
					b.WriteString("\n", AttrNone)
				}
			}
		}
	}

	doc := b.Document()
	end := doc.Len()
	for end > 0 && doc.text[end-1] == '\n' {
		end--
	}
	return doc.Delete(end, doc.Len())
}

func adjustDepth(depth int, closing bool) int {
	if closing {
		return max(0, depth-1)
	}
	return depth + 1
}

// collapseSpace folds runs of whitespace the way a browser renders them
func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}
