package jsonreader

import (
	"errors"
	"io"
	"strings"

	"github.com/danhawkins/streamjson/jsontoken"
)

// doPeek scans forward to the next token, applying the scope-specific
// separator rules from §4.1: expect one of {scopes} at the top; on
// success, mutate the top and/or push/pop, failing with a syntax error
// naming the current path otherwise.
func (r *Reader) doPeek() (jsontoken.Token, error) {
	scope := r.stack.Peek()

	if scope == jsontoken.EmptyDocument && r.lenient {
		if buf, _ := r.src.Peek(3); len(buf) == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
			r.src.Discard(3)
		}
	}

	switch scope {
	case jsontoken.EmptyDocument:
		r.stack.ReplaceTop(jsontoken.NonemptyDocument)
		if err := r.captureRawIfWanted(); err != nil {
			return 0, err
		}
		return r.peekValue()

	case jsontoken.NonemptyDocument:
		b, err := r.peekSig()
		if errors.Is(err, io.EOF) {
			return jsontoken.EndDocument, nil
		}
		if err != nil {
			return 0, err
		}
		if !r.lenient {
			return 0, jsontoken.NewSyntaxError(r.Path(), "strict mode forbids more than one top-level value, found %q", b)
		}
		if err := r.captureRawIfWanted(); err != nil {
			return 0, err
		}
		return r.peekValue()

	case jsontoken.EmptyArray, jsontoken.NonemptyArray:
		b, err := r.peekSig()
		if err != nil {
			return 0, err
		}
		if b == ']' {
			r.src.Discard(1)
			return jsontoken.EndArray, nil
		}
		if scope == jsontoken.NonemptyArray {
			if b != ',' {
				return 0, jsontoken.NewSyntaxError(r.Path(), "expected ',' or ']' but found %q", b)
			}
			r.src.Discard(1)
			b2, err := r.peekSig()
			if err != nil {
				return 0, err
			}
			if b2 == ']' && r.lenient {
				r.src.Discard(1)
				return jsontoken.EndArray, nil
			}
		} else {
			r.stack.ReplaceTop(jsontoken.NonemptyArray)
		}
		if err := r.captureRawIfWanted(); err != nil {
			return 0, err
		}
		return r.peekValue()

	case jsontoken.EmptyObject, jsontoken.NonemptyObject:
		b, err := r.peekSig()
		if err != nil {
			return 0, err
		}
		if b == '}' {
			r.src.Discard(1)
			return jsontoken.EndObject, nil
		}
		if scope == jsontoken.NonemptyObject {
			if b != ',' {
				return 0, jsontoken.NewSyntaxError(r.Path(), "expected ',' or '}' but found %q", b)
			}
			r.src.Discard(1)
			b2, err := r.peekSig()
			if err != nil {
				return 0, err
			}
			if b2 == '}' && r.lenient {
				r.src.Discard(1)
				return jsontoken.EndObject, nil
			}
		}
		r.stack.ReplaceTop(jsontoken.NonemptyObject)
		return r.peekName()

	case jsontoken.DanglingName:
		b, err := r.peekSig()
		if err != nil {
			return 0, err
		}
		if b != ':' {
			return 0, jsontoken.NewSyntaxError(r.Path(), "expected ':' but found %q", b)
		}
		r.src.Discard(1)
		if err := r.captureRawIfWanted(); err != nil {
			return 0, err
		}
		return r.peekValue()

	default:
		return 0, jsontoken.NewSyntaxError(r.Path(), "reader is in an unreadable scope %s", scope)
	}
}

// peekSig skips whitespace and, in lenient mode, //, /* */ and # comments,
// returning the next significant byte without consuming it.
func (r *Reader) peekSig() (byte, error) {
	for {
		buf, err := r.src.Peek(1)
		if err != nil || len(buf) == 0 {
			return 0, io.EOF
		}
		b := buf[0]
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			r.src.Discard(1)
		case b == '/' && r.lenient:
			handled, err := r.trySkipComment()
			if err != nil {
				return 0, err
			}
			if !handled {
				return b, nil
			}
		case b == '#' && r.lenient:
			r.skipLineComment()
		default:
			return b, nil
		}
	}
}

func (r *Reader) trySkipComment() (bool, error) {
	buf, _ := r.src.Peek(2)
	if len(buf) < 2 {
		return false, nil
	}
	switch {
	case buf[0] == '/' && buf[1] == '/':
		r.src.Discard(2)
		r.skipLineComment()
		return true, nil
	case buf[0] == '/' && buf[1] == '*':
		r.src.Discard(2)
		return true, r.skipBlockComment()
	default:
		return false, nil
	}
}

func (r *Reader) skipLineComment() {
	for {
		b, err := r.src.ReadByte()
		if err != nil || b == '\n' {
			return
		}
	}
}

func (r *Reader) skipBlockComment() error {
	prevStar := false
	for {
		b, err := r.src.ReadByte()
		if err != nil {
			return jsontoken.NewSyntaxError(r.Path(), "unterminated block comment")
		}
		if prevStar && b == '/' {
			return nil
		}
		prevStar = b == '*'
	}
}

// peekName scans a JSON object member name: a double-quoted string, a
// single-quoted string (lenient), or a bare identifier (lenient).
func (r *Reader) peekName() (jsontoken.Token, error) {
	b, err := r.peekSig()
	if err != nil {
		return 0, err
	}
	switch {
	case b == '"':
		s, err := r.scanQuotedString('"')
		if err != nil {
			return 0, err
		}
		r.strVal = s
	case b == '\'' && r.lenient:
		s, err := r.scanQuotedString('\'')
		if err != nil {
			return 0, err
		}
		r.strVal = s
	case r.lenient && isUnquotedChar(b):
		s, err := r.scanUnquotedLiteral()
		if err != nil {
			return 0, err
		}
		r.strVal = s
	default:
		return 0, jsontoken.NewSyntaxError(r.Path(), "expected a name but found %q", b)
	}
	if r.promoteNV {
		r.promoteNV = false
		return jsontoken.String, nil
	}
	return jsontoken.Name, nil
}

// peekValue scans a JSON value token.
func (r *Reader) peekValue() (jsontoken.Token, error) {
	b, err := r.peekSig()
	if err != nil {
		return 0, jsontoken.NewSyntaxError(r.Path(), "unexpected end of input; expected a value")
	}
	switch {
	case b == '"':
		s, err := r.scanQuotedString('"')
		if err != nil {
			return 0, err
		}
		r.strVal = s
		return jsontoken.String, nil
	case b == '\'' && r.lenient:
		s, err := r.scanQuotedString('\'')
		if err != nil {
			return 0, err
		}
		r.strVal = s
		return jsontoken.String, nil
	case b == '{':
		r.src.Discard(1)
		return jsontoken.BeginObject, nil
	case b == '[':
		r.src.Discard(1)
		return jsontoken.BeginArray, nil
	case b == 't' || b == 'f' || b == 'n' || (b == 'N' && r.lenient) || (b == 'I' && r.lenient):
		return r.scanKeyword()
	case b == '-' || b == '+' || (b >= '0' && b <= '9'):
		return r.scanNumberOrInfinity()
	case r.lenient && isUnquotedChar(b):
		s, err := r.scanUnquotedLiteral()
		if err != nil {
			return 0, err
		}
		r.strVal = s
		return jsontoken.String, nil
	default:
		return 0, jsontoken.NewSyntaxError(r.Path(), "unexpected character %q; expected a value", b)
	}
}

func (r *Reader) scanKeyword() (jsontoken.Token, error) {
	word, err := r.scanUnquotedLiteral()
	if err != nil {
		return 0, err
	}
	switch word {
	case "true":
		r.boolVal = true
		return jsontoken.Bool, nil
	case "false":
		r.boolVal = false
		return jsontoken.Bool, nil
	case "null":
		return jsontoken.Null, nil
	case "NaN", "Infinity":
		if !r.lenient {
			return 0, jsontoken.NewSyntaxError(r.Path(), "non-finite numbers require lenient mode: %q", word)
		}
		r.strVal = word
		return jsontoken.Number, nil
	default:
		if r.lenient {
			r.strVal = word
			return jsontoken.String, nil
		}
		return 0, jsontoken.NewSyntaxError(r.Path(), "unexpected literal %q", word)
	}
}

func (r *Reader) scanNumberOrInfinity() (jsontoken.Token, error) {
	if r.lenient {
		if buf, _ := r.src.Peek(9); string(buf) == "-Infinity" {
			r.src.Discard(9)
			r.strVal = "-Infinity"
			return jsontoken.Number, nil
		}
	}
	var sb strings.Builder
	for {
		buf, err := r.src.Peek(1)
		if err != nil || len(buf) == 0 {
			break
		}
		if strings.IndexByte("+-.eE0123456789", buf[0]) < 0 {
			break
		}
		sb.WriteByte(buf[0])
		r.src.Discard(1)
	}
	if sb.Len() == 0 {
		return 0, jsontoken.NewSyntaxError(r.Path(), "invalid number literal")
	}
	r.strVal = sb.String()
	return jsontoken.Number, nil
}

func (r *Reader) scanQuotedString(quote byte) (string, error) {
	r.src.Discard(1)
	var sb strings.Builder
	for {
		b, err := r.src.ReadByte()
		if err != nil {
			return "", jsontoken.NewSyntaxError(r.Path(), "unterminated string literal")
		}
		if b == quote {
			return sb.String(), nil
		}
		if b != '\\' {
			sb.WriteByte(b)
			continue
		}
		esc, err := r.src.ReadByte()
		if err != nil {
			return "", jsontoken.NewSyntaxError(r.Path(), "unterminated escape sequence")
		}
		switch esc {
		case '"':
			sb.WriteByte('"')
		case '\'':
			sb.WriteByte('\'')
		case '\\':
			sb.WriteByte('\\')
		case '/':
			sb.WriteByte('/')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\n':
			// lenient multi-line string continuation: drop the escaped newline.
		case 'u':
			var code rune
			for i := 0; i < 4; i++ {
				hb, err := r.src.ReadByte()
				if err != nil {
					return "", jsontoken.NewSyntaxError(r.Path(), "invalid unicode escape")
				}
				v, ok := hexVal(hb)
				if !ok {
					return "", jsontoken.NewSyntaxError(r.Path(), "invalid unicode escape digit %q", hb)
				}
				code = code*16 + rune(v)
			}
			sb.WriteRune(code)
		default:
			return "", jsontoken.NewSyntaxError(r.Path(), "invalid escape sequence \\%c", esc)
		}
	}
}

func (r *Reader) scanUnquotedLiteral() (string, error) {
	var sb strings.Builder
	for {
		buf, err := r.src.Peek(1)
		if err != nil || len(buf) == 0 {
			break
		}
		if !isUnquotedChar(buf[0]) {
			break
		}
		sb.WriteByte(buf[0])
		r.src.Discard(1)
	}
	if sb.Len() == 0 {
		return "", jsontoken.NewSyntaxError(r.Path(), "expected a literal")
	}
	return sb.String(), nil
}

// isUnquotedChar reports whether b may appear in a lenient bare name or
// bare literal: anything but JSON structural characters, quotes,
// whitespace, and the comment-introducing '/' and '#'.
func isUnquotedChar(b byte) bool {
	return strings.IndexByte(" \t\r\n{}[]:,\"'/#", b) < 0
}

func hexVal(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}
