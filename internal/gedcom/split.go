package gedcom

import "strings"

const (
	headerMarker   = "0 HEAD"
	boundaryMarker = "0 @"
	xrefClose      = "@"
	xrefSeparator  = "@ "
)

// Split walks text and returns its records in order. The first record is the
// header pseudo-record (id HEAD). The trailer is not split out: it stays at
// the end of the last record's body.
//
// A body can only be cut at the next boundary, and that boundary is also
// where the next id starts, so each iteration captures the body of the id
// read on the previous iteration and then reads the following id.
func Split(text string) ([]RawRecord, error) {
	c := NewCursor(text)
	if !c.ScanString(headerMarker) {
		return nil, parseErr(ErrMalformedHeader, c.Pos(), "text does not begin with %q", headerMarker)
	}

	var out []RawRecord
	id := HeaderID
	for !c.AtEnd() {
		body, ok := c.ScanUpTo(boundaryMarker)
		if !ok {
			return nil, parseErr(ErrUnreadableBody, c.Pos(), "record %q has no body", id)
		}
		out = append(out, RawRecord{ID: id, Body: body})

		if c.AtEnd() {
			break
		}
		next, err := scanBoundary(c)
		if err != nil {
			return nil, err
		}
		if c.AtEnd() {
			return nil, parseErr(ErrUnreadableBody, c.Pos(), "record %q ends the text without a body", next)
		}
		id = next
	}
	return out, nil
}

// scanBoundary consumes "0 @<id>@ " and returns the id.
func scanBoundary(c *Cursor) (string, error) {
	start := c.Pos()
	if !c.ScanString(boundaryMarker) {
		return "", parseErr(ErrMalformedRecordBoundary, start, "expected %q", boundaryMarker)
	}
	id, ok := c.ScanUpTo(xrefClose)
	if !ok {
		return "", parseErr(ErrMalformedRecordBoundary, start, "empty cross-reference id")
	}
	if !c.ScanString(xrefSeparator) {
		return "", parseErr(ErrMalformedRecordBoundary, start, "cross-reference %q is not closed by %q", truncate(id, 32), xrefSeparator)
	}
	return id, nil
}

// Join reassembles records produced by Split into text that splits back into
// the same records.
func Join(records []RawRecord) string {
	var b strings.Builder
	b.WriteString(headerMarker)
	b.WriteByte('\n')
	for i, r := range records {
		if i == 0 && r.ID == HeaderID {
			b.WriteString(r.Body)
			continue
		}
		b.WriteString(boundaryMarker)
		b.WriteString(r.ID)
		b.WriteString(xrefSeparator)
		b.WriteString(r.Body)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
