package gedcom

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHeader         = errors.New("malformed header")
	ErrMalformedRecordBoundary = errors.New("malformed record boundary")
	ErrUnreadableBody          = errors.New("unreadable record body")
)

// ParseError reports why a parse aborted. Kind is one of the Err* sentinels.
type ParseError struct {
	Kind   error
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gedcom: %v at offset %d: %s", e.Kind, e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// KindName returns a stable machine-readable name for the error kind.
func (e *ParseError) KindName() string {
	switch e.Kind {
	case ErrMalformedHeader:
		return "malformed_header"
	case ErrMalformedRecordBoundary:
		return "malformed_record_boundary"
	case ErrUnreadableBody:
		return "unreadable_body"
	default:
		return "unknown"
	}
}

func parseErr(kind error, offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
