package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/csams/rhymer/internal/markdown"
)

// StyleFor converts run attributes to a tcell style
func StyleFor(attr markdown.Attr) tcell.Style {
	style := BaseStyle()
	if attr.Has(markdown.Heading) {
		style = style.Foreground(ColorHeading).Bold(true)
	}
	if attr.Has(markdown.Bold) {
		style = style.Bold(true)
	}
	if attr.Has(markdown.Italic) {
		style = style.Italic(true)
	}
	return style
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	pos := 0
	for _, r := range text {
		s.SetContent(x+pos, y, r, nil, style)
		pos += cellWidth(r)
	}
}

// drawTextWithHighlight draws text with specified rune positions highlighted
func drawTextWithHighlight(s tcell.Screen, x, y, maxWidth int, style tcell.Style, text string, highlightPositions []int) {
	highlightMap := make(map[int]bool)
	for _, pos := range highlightPositions {
		highlightMap[pos] = true
	}

	highlightStyle := style.Foreground(ColorHighlight).Bold(true)

	screenPos := 0
	for runeIdx, r := range []rune(text) {
		w := cellWidth(r)
		if screenPos+w > maxWidth {
			break
		}

		charStyle := style
		if highlightMap[runeIdx] {
			charStyle = highlightStyle
		}

		s.SetContent(x+screenPos, y, r, nil, charStyle)
		screenPos += w
	}
}

func cellWidth(r rune) int {
	return max(runewidth.RuneWidth(r), 1)
}
