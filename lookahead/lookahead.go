// Package lookahead implements the byte-level scanner that extracts
// exactly one top-level JSON value prefix from a buffered source, without
// consuming any of it — the primitive jsonreader.Reader.PeekJSON forks a
// reader on top of.
package lookahead

import (
	"bytes"
	"errors"
	"io"

	"github.com/danhawkins/streamjson/jsontoken"
)

// scanState is the lookahead scanner's own tiny state machine, distinct
// from (and much coarser than) the token reader's: it only needs to know
// whether it is inside a string, a comment, or plain JSON, plus a nesting
// counter.
type scanState int

const (
	stateJSON scanState = iota
	stateSingleQuoted
	stateDoubleQuoted
	stateLineComment
	stateBlockComment
)

// maxScan bounds how large a single top-level value lookahead is allowed
// to grow its peek window (4 MiB; jsontoken.IndexOfElement uses its own,
// smaller cap).
const maxScan = 1 << 22

// ScanValue peeks src (without discarding anything) and returns a copy of
// the bytes comprising exactly the next top-level JSON value: an array, an
// object, a quoted string, or a bare scalar literal. It terminates the
// instant that value closes and never consumes a following byte, so the
// caller's source is left exactly where it was.
func ScanValue(src jsontoken.ByteSource) ([]byte, error) {
	for n := 256; ; n *= 2 {
		if n > maxScan {
			return nil, jsontoken.NewSyntaxError("", "peekJson: value exceeds %d byte scan window", maxScan)
		}
		buf, err := src.Peek(n)
		complete := err != nil && len(buf) < n
		end, ok := scanEnd(buf, complete)
		if ok {
			out := make([]byte, end)
			copy(out, buf[:end])
			return out, nil
		}
		if err != nil {
			if complete {
				return nil, jsontoken.NewSyntaxError("", "peekJson: unexpected end of input scanning value")
			}
			if errors.Is(err, io.EOF) {
				return nil, jsontoken.NewSyntaxError("", "peekJson: unexpected end of input scanning value")
			}
			return nil, err
		}
	}
}

// scanEnd reports the exclusive end offset of the first top-level value in
// buf, and whether that offset was found within buf (false means: keep
// growing the peek window). complete indicates buf holds all remaining
// input, so a bare scalar running off the end of buf is in fact complete.
func scanEnd(buf []byte, complete bool) (int, bool) {
	state := stateJSON
	depth := 0
	started := false
	i := 0
	// Skip leading whitespace/comments/BOM before the value itself.
	for i < len(buf) {
		b := buf[i]
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			i++
		case b == 0xEF && i+2 < len(buf) && buf[i+1] == 0xBB && buf[i+2] == 0xBF:
			i += 3
		case b == '/' && i+1 < len(buf) && buf[i+1] == '/':
			j := bytes.IndexByte(buf[i:], '\n')
			if j < 0 {
				return 0, false
			}
			i += j + 1
		case b == '/' && i+1 < len(buf) && buf[i+1] == '*':
			j := bytes.Index(buf[i+2:], []byte("*/"))
			if j < 0 {
				return 0, false
			}
			i += 2 + j + 2
		case b == '#':
			j := bytes.IndexByte(buf[i:], '\n')
			if j < 0 {
				return 0, false
			}
			i += j + 1
		default:
			goto value
		}
	}
	return 0, false

value:
	for ; i < len(buf); i++ {
		b := buf[i]
		switch state {
		case stateDoubleQuoted:
			switch b {
			case '\\':
				i++
			case '"':
				state = stateJSON
				if depth == 0 {
					return i + 1, true
				}
			}
			continue
		case stateSingleQuoted:
			switch b {
			case '\\':
				i++
			case '\'':
				state = stateJSON
				if depth == 0 {
					return i + 1, true
				}
			}
			continue
		case stateLineComment:
			if b == '\n' {
				state = stateJSON
			}
			continue
		case stateBlockComment:
			if b == '*' && i+1 < len(buf) && buf[i+1] == '/' {
				state = stateJSON
				i++
			}
			continue
		}

		// stateJSON
		switch b {
		case '"':
			state = stateDoubleQuoted
			started = true
		case '\'':
			state = stateSingleQuoted
			started = true
		case '/':
			if i+1 < len(buf) && buf[i+1] == '/' {
				state = stateLineComment
				i++
			} else if i+1 < len(buf) && buf[i+1] == '*' {
				state = stateBlockComment
				i++
			}
		case '[', '{':
			depth++
			started = true
		case ']', '}':
			depth--
			if depth == 0 && started {
				return i + 1, true
			}
		default:
			if depth == 0 && started && isScalarTerminator(b) {
				return i, true
			}
			if !started && !isWhitespace(b) {
				started = true
			}
		}
	}
	if complete && depth == 0 && started && state == stateJSON {
		// A bare scalar that runs to the end of the input: the value
		// ends exactly where the input does.
		return len(buf), true
	}
	return 0, false
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isScalarTerminator(b byte) bool {
	switch b {
	case ',', ']', '}', ' ', '\t', '\r', '\n', ':':
		return true
	}
	return false
}
