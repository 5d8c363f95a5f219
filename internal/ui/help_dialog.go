package ui

import (
	"github.com/gdamore/tcell/v2"
)

// HelpDialog is a centered, scrollable list of keybindings
type HelpDialog struct {
	visible      bool
	scrollOffset int
	visibleLines int
	lines        []string
}

// NewHelpDialog creates a hidden dialog showing lines
func NewHelpDialog(lines []string) *HelpDialog {
	return &HelpDialog{lines: lines, visibleLines: 15}
}

func (h *HelpDialog) Show() {
	h.visible = true
	h.scrollOffset = 0
}

func (h *HelpDialog) Hide() {
	h.visible = false
}

func (h *HelpDialog) IsVisible() bool {
	return h.visible
}

func (h *HelpDialog) Draw(s tcell.Screen) {
	if !h.visible {
		return
	}

	w, screenHeight := s.Size()

	maxLineWidth := 0
	for _, line := range h.lines {
		maxLineWidth = max(maxLineWidth, len([]rune(line)))
	}

	// 2 for borders, 2 for margins
	dialogWidth := min(maxLineWidth+4, w-4)
	dialogWidth = max(dialogWidth, min(40, w))
	dialogHeight := min(len(h.lines)+6, screenHeight-4)
	dialogHeight = max(dialogHeight, min(10, screenHeight))

	startX := max((w-dialogWidth)/2, 0)
	startY := max((screenHeight-dialogHeight)/2, 0)

	dialogStyle := tcell.StyleDefault.Background(ColorBgDark).Foreground(ColorFg)
	for y := startY; y < startY+dialogHeight; y++ {
		for x := startX; x < startX+dialogWidth; x++ {
			s.SetContent(x, y, ' ', nil, dialogStyle)
		}
	}

	borderStyle := dialogStyle.Foreground(ColorBorder)
	right, bottom := startX+dialogWidth-1, startY+dialogHeight-1
	for x := startX; x <= right; x++ {
		s.SetContent(x, startY, '─', nil, borderStyle)
		s.SetContent(x, bottom, '─', nil, borderStyle)
	}
	for y := startY; y <= bottom; y++ {
		s.SetContent(startX, y, '│', nil, borderStyle)
		s.SetContent(right, y, '│', nil, borderStyle)
	}
	s.SetContent(startX, startY, '┌', nil, borderStyle)
	s.SetContent(right, startY, '┐', nil, borderStyle)
	s.SetContent(startX, bottom, '└', nil, borderStyle)
	s.SetContent(right, bottom, '┘', nil, borderStyle)

	title := "Help - Keybindings"
	titleStyle := dialogStyle.Foreground(ColorAccent).Bold(true)
	drawText(s, startX+max((dialogWidth-len(title))/2, 1), startY+1, titleStyle, title)

	contentStartY := startY + 3
	h.visibleLines = max(dialogHeight-5, 1)
	h.scrollOffset = min(h.scrollOffset, h.maxScroll())

	maxContentWidth := dialogWidth - 4
	for i := 0; i < h.visibleLines && i+h.scrollOffset < len(h.lines); i++ {
		drawTextWithHighlight(s, startX+2, contentStartY+i, maxContentWidth, dialogStyle, h.lines[i+h.scrollOffset], nil)
	}

	closeMsg := "Press Esc or ? to close"
	if len(h.lines) > h.visibleLines {
		closeMsg = "j/k to scroll, Esc to close"
	}
	drawText(s, startX+max((dialogWidth-len(closeMsg))/2, 2), bottom-1, dialogStyle.Foreground(ColorStatus), closeMsg)
}

// HandleKey consumes every key while visible
func (h *HelpDialog) HandleKey(ev *tcell.EventKey) bool {
	if !h.visible {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		h.Hide()
	case tcell.KeyUp:
		h.scrollUp()
	case tcell.KeyDown:
		h.scrollDown()
	case tcell.KeyRune:
		switch ev.Rune() {
		case '?', 'q':
			h.Hide()
		case 'j':
			h.scrollDown()
		case 'k':
			h.scrollUp()
		case 'g':
			h.scrollOffset = 0
		case 'G':
			h.scrollOffset = h.maxScroll()
		}
	}
	return true
}

func (h *HelpDialog) maxScroll() int {
	return max(len(h.lines)-h.visibleLines, 0)
}

func (h *HelpDialog) scrollUp() {
	if h.scrollOffset > 0 {
		h.scrollOffset--
	}
}

func (h *HelpDialog) scrollDown() {
	if h.scrollOffset < h.maxScroll() {
		h.scrollOffset++
	}
}
