package gedcom

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cursor is a forward-only position over the input text. Every scan first
// skips whitespace (including newlines), so captured bodies never start
// with the line break that precedes them.
type Cursor struct {
	text string
	pos  int
}

// NewCursor returns a cursor at the start of text.
func NewCursor(text string) *Cursor {
	return &Cursor{text: text}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Rest returns the unconsumed input.
func (c *Cursor) Rest() string { return c.text[c.pos:] }

// SkipSpace advances past any run of Unicode whitespace.
func (c *Cursor) SkipSpace() {
	for c.pos < len(c.text) {
		r, size := utf8.DecodeRuneInString(c.text[c.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		c.pos += size
	}
}

// AtEnd reports whether only whitespace remains. It does not move the cursor.
func (c *Cursor) AtEnd() bool {
	return strings.TrimLeftFunc(c.text[c.pos:], unicode.IsSpace) == ""
}

// ScanString consumes lit if the input continues with it.
func (c *Cursor) ScanString(lit string) bool {
	c.SkipSpace()
	if !strings.HasPrefix(c.text[c.pos:], lit) {
		return false
	}
	c.pos += len(lit)
	return true
}

// ScanUpTo captures everything up to the next occurrence of lit, or up to
// the end of the input when lit does not occur again. lit itself is left
// unconsumed. It reports false when nothing could be captured.
func (c *Cursor) ScanUpTo(lit string) (string, bool) {
	c.SkipSpace()
	rest := c.text[c.pos:]
	idx := strings.Index(rest, lit)
	if idx < 0 {
		idx = len(rest)
	}
	if idx == 0 {
		return "", false
	}
	c.pos += idx
	return rest[:idx], true
}
