package composer

import "github.com/csams/rhymer/internal/markdown"

// Selection is a half-open rune range; Start == End is a plain caret
type Selection struct {
	Start int
	End   int
}

// Empty reports whether the selection is a caret
func (s Selection) Empty() bool {
	return s.Start == s.End
}

// Session is the editing state of one open composition. It is not safe for
// concurrent use; each document has a single active editor.
type Session struct {
	converter *markdown.MarkdownConverter
	doc       markdown.Document
	sel       Selection
}

// NewSession parses markup and places the caret at the end of the text
func NewSession(converter *markdown.MarkdownConverter, markup string) *Session {
	s := &Session{converter: converter}
	s.Load(markup)
	s.SetCaret(s.doc.Len())
	return s
}

// Load replaces the document with parsed markup, keeping the selection
// where it still fits
func (s *Session) Load(markup string) {
	s.doc = EnforceHeading(s.converter.Parse(markup))
	s.Select(s.sel.Start, s.sel.End)
}

// Document returns the current document
func (s *Session) Document() markdown.Document {
	return s.doc
}

// Markup serializes the current document for persistence
func (s *Session) Markup() string {
	return s.converter.Serialize(s.doc)
}

// Selection returns the current selection
func (s *Session) Selection() Selection {
	return s.sel
}

// Caret returns the insertion point
func (s *Session) Caret() int {
	return s.sel.Start
}

// SetCaret moves the caret, clamped into the document
func (s *Session) SetCaret(pos int) {
	s.Select(pos, pos)
}

// Select sets a clamped selection
func (s *Session) Select(start, end int) {
	start, end = s.doc.ClampRange(start, end)
	s.sel = Selection{Start: start, End: end}
}

// ActiveStyle is the style the next typed character takes
func (s *Session) ActiveStyle() markdown.Attr {
	return ActiveStyle(s.doc, s.sel.Start)
}

// Type replaces the selection with text in the active style and leaves the
// caret after it
func (s *Session) Type(text string) {
	if !s.sel.Empty() {
		s.Delete(s.sel.Start, s.sel.End)
	}
	pos := s.sel.Start
	s.InsertAt(pos, text)
	s.SetCaret(pos + len([]rune(text)))
}

// Backspace deletes the selection, or the rune before the caret
func (s *Session) Backspace() {
	if !s.sel.Empty() {
		s.Delete(s.sel.Start, s.sel.End)
		return
	}
	if s.sel.Start > 0 {
		s.Delete(s.sel.Start-1, s.sel.Start)
	}
}

// InsertAt inserts text at pos in the style active there. A selection at
// or after pos shifts with the text.
func (s *Session) InsertAt(pos int, text string) {
	pos = s.doc.Clamp(pos)
	n := len([]rune(text))
	s.edit(s.doc.Insert(pos, text, ActiveStyle(s.doc, pos)))

	shift := func(p int) int {
		if p >= pos {
			return p + n
		}
		return p
	}
	s.Select(shift(s.sel.Start), shift(s.sel.End))
}

// Delete removes [start, end) and pulls the selection back accordingly
func (s *Session) Delete(start, end int) {
	start, end = s.doc.ClampRange(start, end)
	n := end - start
	s.edit(s.doc.Delete(start, end))

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
	s.Select(shift(s.sel.Start), shift(s.sel.End))
}

// Replace swaps [start, end) for text
func (s *Session) Replace(start, end int, text string) {
	start, end = s.doc.ClampRange(start, end)
	s.Delete(start, end)
	s.InsertAt(start, text)
}

// ToggleHeading flips the first-line heading. Style changes never move the
// caret.
func (s *Session) ToggleHeading() {
	s.edit(ToggleHeading(s.doc))
}

// ToggleBold flips bold over the selection. It reports false and changes
// nothing when the result would not read back from its markup, which
// happens when literal asterisks touch the new delimiters.
func (s *Session) ToggleBold() bool {
	return s.toggleTrait(markdown.Bold)
}

// ToggleItalic flips italic over the selection, like ToggleBold
func (s *Session) ToggleItalic() bool {
	return s.toggleTrait(markdown.Italic)
}

func (s *Session) toggleTrait(trait markdown.Attr) bool {
	doc := EnforceHeading(ToggleTrait(s.doc, trait, s.sel.Start, s.sel.End))
	if s.reloads(s.doc) && !s.reloads(doc) {
		return false
	}
	s.doc = doc
	return true
}

// reloads reports whether doc's markup parses back to the same text and
// serializes to the same markup
func (s *Session) reloads(doc markdown.Document) bool {
	markup := s.converter.Serialize(doc)
	reloaded := s.converter.Parse(markup)
	return reloaded.Content() == doc.Content() && s.converter.Serialize(reloaded) == markup
}

// edit installs a new document; heading confinement runs on every change
func (s *Session) edit(doc markdown.Document) {
	s.doc = EnforceHeading(doc)
}
