// Package report writes human readable summaries of parsed measurements.
//
// A Sink decides both where a summary goes and how absent fields are
// handled: RequireAll sinks print every field and fail on the first one
// the log did not contain, PresentOnly sinks write just what was found.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Policy controls how a summary treats fields missing from the log.
type Policy int

const (
	// RequireAll writes every field and fails if any is absent.
	RequireAll Policy = iota
	// PresentOnly writes the fields that were found and skips the rest.
	PresentOnly
)

func (p Policy) String() string {
	switch p {
	case RequireAll:
		return "require-all"
	case PresentOnly:
		return "present-only"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ErrMissingField is wrapped by MissingFieldError.
var ErrMissingField = errors.New("field not found in log")

// MissingFieldError names a field a RequireAll sink could not print.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, ErrMissingField)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// Sink is a destination for summaries.
type Sink interface {
	Policy() Policy
	// Open returns the writer for one summary. It is closed after writing.
	Open() (io.WriteCloser, error)
}

type writerSink struct {
	w      io.Writer
	policy Policy
}

// Writer returns a Sink writing to w with the given policy. w is not closed.
func Writer(w io.Writer, policy Policy) Sink {
	return writerSink{w: w, policy: policy}
}

// Stdout returns the RequireAll sink used when no summary log is given.
func Stdout() Sink {
	return Writer(os.Stdout, RequireAll)
}

func (s writerSink) Policy() Policy { return s.policy }

func (s writerSink) Open() (io.WriteCloser, error) {
	return nopCloser{s.w}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// AppendFile is a PresentOnly sink that appends to the named file.
type AppendFile string

// Policy implements Sink.
func (AppendFile) Policy() Policy { return PresentOnly }

// Open implements Sink.
func (f AppendFile) Open() (io.WriteCloser, error) {
	file, err := os.OpenFile(string(f), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open summary log %q: %w", string(f), err)
	}
	return file, nil
}

// ForPath returns Stdout for an empty path and AppendFile otherwise.
func ForPath(path string) Sink {
	if path == "" {
		return Stdout()
	}
	return AppendFile(path)
}

// emit opens sink, writes text and closes it on every path.
func emit(sink Sink, text string) (err error) {
	w, err := sink.Open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close summary: %w", cerr)
		}
	}()

	if _, err = io.WriteString(w, text); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
