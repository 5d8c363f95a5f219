package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/csams/rhymer/internal/markdown"
)

// Cell is one rune of a document with its attributes
type Cell struct {
	Rune rune
	Attr markdown.Attr
}

// Line is one screen row of a laid out document
type Line []Cell

// Text returns the runes of the line
func (l Line) Text() string {
	runes := make([]rune, len(l))
	for i, c := range l {
		runes[i] = c.Rune
	}
	return string(runes)
}

// Layout splits a document into screen rows of at most width cells. Hard
// newlines always break; long lines wrap after the last space that fits,
// or mid-word when a word is wider than the row.
func Layout(doc markdown.Document, width int) []Line {
	if width <= 0 {
		return nil
	}

	text := []rune(doc.Content())
	var lines []Line
	var current Line
	for _, run := range doc.Runs() {
		for i := run.Start; i < run.End; i++ {
			if text[i] == '\n' {
				lines = append(lines, wrapLine(current, width)...)
				current = nil
				continue
			}
			current = append(current, Cell{Rune: text[i], Attr: run.Attr})
		}
	}
	return append(lines, wrapLine(current, width)...)
}

func wrapLine(cells Line, width int) []Line {
	if len(cells) == 0 {
		return []Line{nil}
	}

	var lines []Line
	for len(cells) > 0 {
		used, cut, lastSpace := 0, len(cells), -1
		for i, c := range cells {
			w := cellWidth(c.Rune)
			if used+w > width {
				cut = i
				break
			}
			if c.Rune == ' ' {
				lastSpace = i
			}
			used += w
		}

		if cut == len(cells) {
			lines = append(lines, cells)
			break
		}
		switch {
		case cut == 0:
			cut = 1
		case lastSpace >= 0:
			cut = lastSpace + 1
		}
		lines = append(lines, cells[:cut])
		cells = cells[cut:]
	}
	return lines
}

// DrawLines draws rows starting at (x, y), at most height of them, and
// returns how many were drawn
func DrawLines(s tcell.Screen, lines []Line, x, y, height int) int {
	drawn := 0
	for _, line := range lines {
		if drawn >= height {
			break
		}
		col := x
		for _, c := range line {
			s.SetContent(col, y+drawn, c.Rune, nil, StyleFor(c.Attr))
			col += cellWidth(c.Rune)
		}
		drawn++
	}
	return drawn
}

// DrawDocument lays out doc at width and draws it at (x, y). Returns the
// number of rows used.
func DrawDocument(s tcell.Screen, doc markdown.Document, x, y, width int) int {
	_, h := s.Size()
	return DrawLines(s, Layout(doc, width), x, y, max(h-y, 0))
}
