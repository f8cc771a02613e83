package jsontoken

import (
	"bufio"
	"bytes"
	"io"
)

// ByteSource is the minimal buffered read-side primitive set the reader and
// the lookahead scanner need: a byte scanner plus lookahead (Peek) and fast
// forward (Discard). *bufio.Reader already satisfies it, which is the
// point: the byte-stream abstraction is treated as an external
// collaborator, and bufio's Peek/Discard/ReadByte are exactly the
// primitives it needs under their standard-library names.
type ByteSource interface {
	io.ByteScanner
	Peek(n int) ([]byte, error)
	Discard(n int) (int, error)
}

// ByteSink is the minimal buffered write-side primitive set the writer
// needs. *bufio.Writer satisfies it.
type ByteSink interface {
	io.Writer
	io.ByteWriter
	WriteString(s string) (int, error)
	Flush() error
}

// NewSource adapts an io.Reader into a ByteSource, reusing r directly if it
// already satisfies the interface (so wrapping an existing *bufio.Reader,
// or a fake in tests, never double-buffers).
func NewSource(r io.Reader) ByteSource {
	if bs, ok := r.(ByteSource); ok {
		return bs
	}
	return bufio.NewReader(r)
}

// NewSink adapts an io.Writer into a ByteSink.
func NewSink(w io.Writer) ByteSink {
	if bs, ok := w.(ByteSink); ok {
		return bs
	}
	return bufio.NewWriter(w)
}

// maxIndexOfElementScan bounds how far IndexOfElement will grow its peek
// window before giving up; it exists so a pathological unterminated string
// can't force an unbounded buffer, matching the "never allocates unbounded
// buffers" rule in §5.
const maxIndexOfElementScan = 1 << 20

// IndexOfElement scans forward from the source's current position for the
// first byte that appears in set, growing the peek window geometrically.
// It returns -1 (with no error) if the stream ends before any byte in set
// is seen; bytes are never consumed.
func IndexOfElement(src ByteSource, set string) (int, error) {
	for n := 64; ; n *= 2 {
		if n > maxIndexOfElementScan {
			return -1, NewSyntaxError("", "indexOfElement: scan window exceeded %d bytes", maxIndexOfElementScan)
		}
		buf, err := src.Peek(n)
		if i := bytes.IndexAny(buf, set); i >= 0 {
			return i, nil
		}
		if err != nil {
			// Peek returned fewer bytes than requested because the
			// stream ended; no match is possible.
			return -1, nil
		}
	}
}
