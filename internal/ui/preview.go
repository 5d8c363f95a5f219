package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/csams/rhymer/internal/markdown"
)

var previewHelp = []string{
	"",
	"Scrolling:",
	"  j / Down      Scroll down one line",
	"  k / Up        Scroll up one line",
	"  Ctrl+F / B    Page down/up",
	"  g / G         Go to top/bottom",
	"",
	"Other:",
	"  ?             Show this help dialog",
	"  q / Esc       Close the preview",
	"",
}

// Preview is a read-only, scrollable rendering of a document
type Preview struct {
	title  string
	doc    markdown.Document
	scroll int
	lines  []Line
	width  int
	height int
	help   *HelpDialog
}

// NewPreview creates a preview of doc
func NewPreview(title string, doc markdown.Document) *Preview {
	return &Preview{
		title: title,
		doc:   doc,
		help:  NewHelpDialog(previewHelp),
	}
}

// Scroll returns the index of the first visible row
func (p *Preview) Scroll() int {
	return p.scroll
}

func (p *Preview) Draw(s tcell.Screen) {
	w, h := s.Size()
	p.height = max(h-1, 0)
	if w-2 != p.width || p.lines == nil {
		p.width = max(w-2, 1)
		p.lines = Layout(p.doc, p.width)
	}
	p.scroll = min(p.scroll, p.maxScroll())

	DrawLines(s, p.lines[p.scroll:], 1, 0, p.height)

	status := fmt.Sprintf("%d/%d", min(p.scroll+p.height, len(p.lines)), len(p.lines))
	drawStatusBar(s, p.title, status)

	p.help.Draw(s)
}

func (p *Preview) HandleKey(ev *tcell.EventKey) (bool, bool) {
	if p.help.IsVisible() {
		return p.help.HandleKey(ev), false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		return false, true
	case tcell.KeyDown:
		return p.scrollBy(1), false
	case tcell.KeyUp:
		return p.scrollBy(-1), false
	case tcell.KeyCtrlF, tcell.KeyPgDn:
		return p.scrollBy(max(p.height-1, 1)), false
	case tcell.KeyCtrlB, tcell.KeyPgUp:
		return p.scrollBy(-max(p.height-1, 1)), false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false, true
		case 'j':
			return p.scrollBy(1), false
		case 'k':
			return p.scrollBy(-1), false
		case 'g':
			return p.scrollBy(-p.scroll), false
		case 'G':
			return p.scrollBy(p.maxScroll() - p.scroll), false
		case '?':
			p.help.Show()
			return true, false
		}
	}
	return false, false
}

func (p *Preview) maxScroll() int {
	return max(len(p.lines)-p.height, 0)
}

func (p *Preview) scrollBy(n int) bool {
	next := max(0, min(p.scroll+n, p.maxScroll()))
	if next == p.scroll {
		return false
	}
	p.scroll = next
	return true
}
