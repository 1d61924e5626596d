package filter

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Opener hands out a writer for one fragment. The emitter closes it before
// returning, on success and on failure.
type Opener interface {
	Open() (io.WriteCloser, error)
}

// AppendFile is an Opener that appends to the named file, creating it if
// it does not exist. Existing content is never truncated.
type AppendFile string

// Open implements Opener.
func (f AppendFile) Open() (io.WriteCloser, error) {
	file, err := os.OpenFile(string(f), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open script %q: %w", string(f), err)
	}
	return file, nil
}

// Buffer is an in-memory Opener. Each Open appends to the same buffer.
type Buffer struct {
	bytes.Buffer
}

// Open implements Opener.
func (b *Buffer) Open() (io.WriteCloser, error) {
	return nopCloser{&b.Buffer}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
