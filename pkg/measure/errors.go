package measure

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken means a marker line had fewer tokens than the field needs.
	ErrMissingToken = errors.New("missing token")
	// ErrUnexpectedEOF means the log ended inside a multi-line block.
	ErrUnexpectedEOF = errors.New("unexpected end of log")
)

// ParseError reports a field that could not be extracted from the log.
type ParseError struct {
	Field string // result key, e.g. "volume_mm3"
	Token string // offending token, empty when missing
	Index int    // token index within the line
	Line  int    // 1-based line number in the log
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnexpectedEOF):
		return fmt.Sprintf("%s: line %d: %v", e.Field, e.Line, e.Err)
	case errors.Is(e.Err, ErrMissingToken):
		return fmt.Sprintf("%s: line %d: %v at index %d", e.Field, e.Line, e.Err, e.Index)
	default:
		return fmt.Sprintf("%s: line %d: invalid token %q: %v", e.Field, e.Line, e.Token, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }
