// Package jsonreader implements the pull tokenizer: a non-recursive,
// explicit-stack JSON scanner that turns buffered UTF-8 bytes into a
// stream of jsontoken.Token values, tracking a JsonPath and a scope stack
// as it goes.
package jsonreader

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/danhawkins/streamjson/jsontoken"
	"github.com/danhawkins/streamjson/jsontree"
	"github.com/danhawkins/streamjson/lookahead"
)

// Options configures a Reader at construction time, in the shape of
// transform.CSVDecoderOptions from this repo's ETL-library lineage: a
// small struct with zero-value defaults, passed once to the constructor.
type Options struct {
	// Lenient enables BOM, comments, single quotes, unquoted names,
	// non-finite numbers, trailing-comma scope closers, and multi-value
	// top-level documents.
	Lenient bool
	// FailOnUnknown makes SkipName/SkipValue fail with a DataError
	// instead of silently discarding unrecognized object members.
	FailOnUnknown bool
}

// Reader is a pull-style JSON tokenizer. It is not safe for concurrent use;
// each belongs to a single call stack (§5).
type Reader struct {
	src   jsontoken.ByteSource
	stack *jsontoken.Stack

	lenient       bool
	failOnUnknown bool

	hasPeeked bool
	peeked    jsontoken.Token

	// payload captured by the most recent doPeek, consumed by the
	// matching nextXxx call.
	strVal    string
	boolVal   bool
	promoteNV bool // promoteNameToValue armed for the next NAME token

	// wantRaw and rawVal implement PeekJSON: when wantRaw is set, doPeek
	// snapshots the upcoming value's bytes via lookahead.ScanValue at the
	// one point where the separator for the current scope has already
	// been consumed but the value itself has not, so the snapshot and the
	// tokenizer's own (destructive) scan always start from the same
	// position.
	wantRaw bool
	rawVal  []byte

	closed bool
}

// New constructs a Reader over r.
func New(r io.Reader, opts Options) *Reader {
	return &Reader{
		src:           jsontoken.NewSource(r),
		stack:         jsontoken.NewStack(),
		lenient:       opts.Lenient,
		failOnUnknown: opts.FailOnUnknown,
	}
}

// Lenient reports whether lenient syntax extensions are currently accepted.
func (r *Reader) Lenient() bool { return r.lenient }

// SetLenient overrides the lenient flag; used by the lenient() adapter
// wrapper to temporarily relax syntax and restore it on exit.
func (r *Reader) SetLenient(v bool) { r.lenient = v }

// FailOnUnknown reports whether SkipName/SkipValue currently fail instead
// of discarding.
func (r *Reader) FailOnUnknown() bool { return r.failOnUnknown }

// SetFailOnUnknown overrides the fail-on-unknown flag.
func (r *Reader) SetFailOnUnknown(v bool) { r.failOnUnknown = v }

// Path renders the reader's current JsonPath position.
func (r *Reader) Path() string { return r.stack.Path() }

// Peek returns the next token without consuming it. The result is cached
// until a next*/skip* call consumes it.
func (r *Reader) Peek() (jsontoken.Token, error) {
	if r.hasPeeked {
		return r.peeked, nil
	}
	tok, err := r.doPeek()
	if err != nil {
		return 0, err
	}
	r.peeked = tok
	r.hasPeeked = true
	return tok, nil
}

// clearPeek consumes the cached token.
func (r *Reader) clearPeek() { r.hasPeeked = false }

// captureRawIfWanted snapshots the raw bytes of the value doPeek is about
// to scan, via the non-destructive lookahead scanner, but only when a
// PeekJSON call has armed wantRaw. It must be called after the current
// scope's separator (comma, colon, BOM) has already been consumed and
// before peekValue begins its own destructive scan, so both start from the
// same source position.
func (r *Reader) captureRawIfWanted() error {
	if !r.wantRaw {
		return nil
	}
	raw, err := lookahead.ScanValue(r.src)
	if err != nil {
		return err
	}
	r.rawVal = raw
	return nil
}

func (r *Reader) require(tok jsontoken.Token, what string) error {
	got, err := r.Peek()
	if err != nil {
		return err
	}
	if got != tok {
		return jsontoken.NewDataError(r.Path(), "expected %s but was %s", what, got)
	}
	return nil
}

// BeginArray consumes a BEGIN_ARRAY token and pushes an array frame.
func (r *Reader) BeginArray() error {
	if err := r.require(jsontoken.BeginArray, "BEGIN_ARRAY"); err != nil {
		return err
	}
	r.advanceValue()
	return r.stack.Push(jsontoken.EmptyArray)
}

// EndArray consumes an END_ARRAY token and pops the array frame.
func (r *Reader) EndArray() error {
	if err := r.require(jsontoken.EndArray, "END_ARRAY"); err != nil {
		return err
	}
	r.clearPeek()
	r.stack.Pop()
	return nil
}

// BeginObject consumes a BEGIN_OBJECT token and pushes an object frame.
func (r *Reader) BeginObject() error {
	if err := r.require(jsontoken.BeginObject, "BEGIN_OBJECT"); err != nil {
		return err
	}
	r.advanceValue()
	return r.stack.Push(jsontoken.EmptyObject)
}

// EndObject consumes an END_OBJECT token and pops the object frame.
func (r *Reader) EndObject() error {
	if err := r.require(jsontoken.EndObject, "END_OBJECT"); err != nil {
		return err
	}
	r.clearPeek()
	r.stack.Pop()
	return nil
}

// HasNext reports whether the next token is anything other than a scope
// closer or END_DOCUMENT.
func (r *Reader) HasNext() (bool, error) {
	tok, err := r.Peek()
	if err != nil {
		return false, err
	}
	return tok != jsontoken.EndArray && tok != jsontoken.EndObject && tok != jsontoken.EndDocument, nil
}

// NextName consumes a NAME token and records it on the path.
func (r *Reader) NextName() (string, error) {
	if err := r.require(jsontoken.Name, "NAME"); err != nil {
		return "", err
	}
	name := r.strVal
	r.clearPeek()
	r.stack.SetName(name)
	r.stack.ReplaceTop(jsontoken.DanglingName)
	return name, nil
}

// SelectName matches the next name's bytes against a prepared option set.
// If an exact match is found it is consumed and its index returned;
// otherwise -1 is returned and no state changes (§9's decoded-compare
// fallback: the byte-level implementations in real JSON readers pre-encode
// options with a trailing quote sentinel for a single indexed scan; here
// the comparison is a plain string compare, which is unambiguous by
// construction and so never needs that fallback).
func (r *Reader) SelectName(options []string) (int, error) {
	tok, err := r.Peek()
	if err != nil {
		return -1, err
	}
	if tok != jsontoken.Name {
		return -1, nil
	}
	for i, opt := range options {
		if opt == r.strVal {
			name := r.strVal
			r.clearPeek()
			r.stack.SetName(name)
			r.stack.ReplaceTop(jsontoken.DanglingName)
			return i, nil
		}
	}
	return -1, nil
}

// SkipName discards a NAME token. If FailOnUnknown is set it instead fails
// with a DataError.
func (r *Reader) SkipName() error {
	if r.failOnUnknown {
		return jsontoken.NewDataError(r.Path(), "unknown name not permitted under fail-on-unknown")
	}
	_, err := r.NextName()
	return err
}

// SkipValue discards the next value, recursing through arrays and objects.
// If FailOnUnknown is set it instead fails with a DataError.
func (r *Reader) SkipValue() error {
	if r.failOnUnknown {
		return jsontoken.NewDataError(r.Path(), "unknown value not permitted under fail-on-unknown")
	}
	depth := 0
	for {
		tok, err := r.Peek()
		if err != nil {
			return err
		}
		switch tok {
		case jsontoken.BeginArray:
			if err := r.BeginArray(); err != nil {
				return err
			}
			depth++
		case jsontoken.BeginObject:
			if err := r.BeginObject(); err != nil {
				return err
			}
			depth++
		case jsontoken.EndArray:
			if err := r.EndArray(); err != nil {
				return err
			}
			depth--
		case jsontoken.EndObject:
			if err := r.EndObject(); err != nil {
				return err
			}
			depth--
		case jsontoken.Name:
			if _, err := r.NextName(); err != nil {
				return err
			}
		case jsontoken.String:
			if _, err := r.NextString(); err != nil {
				return err
			}
		case jsontoken.Number:
			if _, err := r.nextNumberLiteral(); err != nil {
				return err
			}
		case jsontoken.Bool:
			if _, err := r.NextBool(); err != nil {
				return err
			}
		case jsontoken.Null:
			if err := r.NextNull(); err != nil {
				return err
			}
		case jsontoken.EndDocument:
			return jsontoken.NewSyntaxError(r.Path(), "unexpected end of document while skipping value")
		}
		if depth == 0 {
			return nil
		}
	}
}

// NextString consumes a STRING token (or NUMBER/BOOLEAN coerced to their
// text form) and returns its value.
func (r *Reader) NextString() (string, error) {
	tok, err := r.Peek()
	if err != nil {
		return "", err
	}
	switch tok {
	case jsontoken.String:
		s := r.strVal
		r.advanceValue()
		return s, nil
	case jsontoken.Number:
		s := r.strVal
		r.advanceValue()
		return s, nil
	case jsontoken.Bool:
		s := strconv.FormatBool(r.boolVal)
		r.advanceValue()
		return s, nil
	default:
		return "", jsontoken.NewDataError(r.Path(), "expected STRING but was %s", tok)
	}
}

// NextBool consumes a BOOLEAN token.
func (r *Reader) NextBool() (bool, error) {
	if err := r.require(jsontoken.Bool, "BOOLEAN"); err != nil {
		return false, err
	}
	b := r.boolVal
	r.advanceValue()
	return b, nil
}

// NextNull consumes a NULL token.
func (r *Reader) NextNull() error {
	if err := r.require(jsontoken.Null, "NULL"); err != nil {
		return err
	}
	r.advanceValue()
	return nil
}

func (r *Reader) nextNumberLiteral() (string, error) {
	if err := r.require(jsontoken.Number, "NUMBER"); err != nil {
		return "", err
	}
	s := r.strVal
	r.advanceValue()
	return s, nil
}

// NextFloat64 consumes a NUMBER (or STRING parsed as a number) token.
func (r *Reader) NextFloat64() (float64, error) {
	tok, err := r.Peek()
	if err != nil {
		return 0, err
	}
	if tok != jsontoken.Number && tok != jsontoken.String {
		return 0, jsontoken.NewDataError(r.Path(), "expected NUMBER but was %s", tok)
	}
	s := r.strVal
	f, perr := strconv.ParseFloat(s, 64)
	if perr != nil {
		if f2, ok := parseNonFiniteDouble(s); ok {
			f = f2
		} else {
			return 0, jsontoken.NewDataError(r.Path(), "not a valid double: %q", s)
		}
	}
	r.advanceValue()
	return f, nil
}

// NextInt consumes a NUMBER token that must be exactly representable as an
// int; NextInt64 is the 64-bit counterpart.
func (r *Reader) NextInt() (int, error) {
	v, err := r.NextInt64()
	if err != nil {
		return 0, err
	}
	if int64(int(v)) != v {
		return 0, jsontoken.NewDataError(r.Path(), "value %d does not fit in an int", v)
	}
	return int(v), nil
}

func (r *Reader) NextInt64() (int64, error) {
	tok, err := r.Peek()
	if err != nil {
		return 0, err
	}
	if tok != jsontoken.Number && tok != jsontoken.String {
		return 0, jsontoken.NewDataError(r.Path(), "expected NUMBER but was %s", tok)
	}
	s := r.strVal
	n, perr := strconv.ParseInt(s, 10, 64)
	if perr != nil {
		// Fall back through float64 only if it is exactly integral, so
		// "3.0" round-trips but "3.5" correctly fails.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, jsontoken.NewDataError(r.Path(), "value %q is not exactly representable as an integer", s)
		}
		n = int64(f)
	}
	r.advanceValue()
	return n, nil
}

// PromoteNameToValue arms the reader so the next NAME token is served as
// if it were a STRING value; used by map adapters whose keys are
// non-string.
func (r *Reader) PromoteNameToValue() { r.promoteNV = true }

// advanceValue performs the scope transition common to every scalar
// consumption: clear the cached token and, depending on the enclosing
// scope, move DANGLING_NAME -> NONEMPTY_OBJECT, EMPTY_ARRAY/NONEMPTY_ARRAY
// -> NONEMPTY_ARRAY (advancing the index), or EMPTY_DOCUMENT/
// NONEMPTY_DOCUMENT -> NONEMPTY_DOCUMENT.
func (r *Reader) advanceValue() {
	r.clearPeek()
	switch r.stack.Peek() {
	case jsontoken.DanglingName:
		r.stack.ReplaceTop(jsontoken.NonemptyObject)
	case jsontoken.EmptyArray:
		r.stack.ReplaceTop(jsontoken.NonemptyArray)
	case jsontoken.NonemptyArray:
		r.stack.IncrementIndex()
	case jsontoken.EmptyDocument, jsontoken.NonemptyDocument:
		r.stack.ReplaceTop(jsontoken.NonemptyDocument)
	}
}

// ReadValue recursively reads an entire value into a jsontree.Value,
// objects as insertion-ordered mappings (duplicate keys fail) and arrays
// as sequences.
func (r *Reader) ReadValue() (*jsontree.Value, error) {
	tok, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch tok {
	case jsontoken.BeginArray:
		if err := r.BeginArray(); err != nil {
			return nil, err
		}
		arr := []*jsontree.Value{}
		for {
			has, err := r.HasNext()
			if err != nil {
				return nil, err
			}
			if !has {
				break
			}
			v, err := r.ReadValue()
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if err := r.EndArray(); err != nil {
			return nil, err
		}
		return jsontree.Array(arr...), nil
	case jsontoken.BeginObject:
		if err := r.BeginObject(); err != nil {
			return nil, err
		}
		obj := jsontree.NewObject()
		seen := map[string]bool{}
		for {
			has, err := r.HasNext()
			if err != nil {
				return nil, err
			}
			if !has {
				break
			}
			name, err := r.NextName()
			if err != nil {
				return nil, err
			}
			if seen[name] {
				return nil, jsontoken.NewDataError(r.Path(), "duplicate key %q", name)
			}
			seen[name] = true
			v, err := r.ReadValue()
			if err != nil {
				return nil, err
			}
			obj.Set(name, v)
		}
		if err := r.EndObject(); err != nil {
			return nil, err
		}
		return obj, nil
	case jsontoken.String:
		s, err := r.NextString()
		if err != nil {
			return nil, err
		}
		return jsontree.String(s), nil
	case jsontoken.Number:
		f, err := r.NextFloat64()
		if err != nil {
			return nil, err
		}
		return jsontree.Number(f), nil
	case jsontoken.Bool:
		b, err := r.NextBool()
		if err != nil {
			return nil, err
		}
		return jsontree.Bool(b), nil
	case jsontoken.Null:
		if err := r.NextNull(); err != nil {
			return nil, err
		}
		return jsontree.Null(), nil
	default:
		return nil, jsontoken.NewSyntaxError(r.Path(), "unexpected token %s", tok)
	}
}

// PeekJSON returns an independent Reader over exactly the bytes of the
// current top-level value, without consuming them from the parent. The
// parent's state is unaffected until it is itself next advanced or closed;
// at that point it re-scans the same bytes on its own.
//
// The snapshot is taken by arming wantRaw and letting doPeek capture the
// value's bytes with the non-destructive lookahead scanner at the exact
// point between separator handling and peekValue's own destructive scan;
// calling r.Peek() first and then scanning from r.src (the prior approach)
// scanned from a position peekValue had already consumed past.
func (r *Reader) PeekJSON() (*Reader, error) {
	if r.hasPeeked {
		return nil, jsontoken.NewSyntaxError(r.Path(), "PeekJSON: a token is already cached; call PeekJSON before Peek")
	}
	r.wantRaw = true
	tok, err := r.Peek()
	r.wantRaw = false
	if err != nil {
		return nil, err
	}
	switch tok {
	case jsontoken.BeginArray, jsontoken.BeginObject, jsontoken.String, jsontoken.Number, jsontoken.Bool, jsontoken.Null:
	default:
		return nil, jsontoken.NewSyntaxError(r.Path(), "PeekJSON: expected a value but found %s", tok)
	}
	raw := r.rawVal
	r.rawVal = nil
	// fork starts with New's own fresh EmptyDocument stack: raw holds only
	// the bytes of this one value, so the fork reads it as a standalone
	// document rather than inheriting the parent's (already-transitioned)
	// nesting scope.
	fork := New(strings.NewReader(string(raw)), Options{Lenient: r.lenient, FailOnUnknown: r.failOnUnknown})
	return fork, nil
}

// Close releases the reader. The stack must be empty of anything but a
// single document frame.
func (r *Reader) Close() error {
	r.closed = true
	top := r.stack.Peek()
	if top != jsontoken.EmptyDocument && top != jsontoken.NonemptyDocument {
		return jsontoken.NewNestingError(r.Path(), "closed with an incomplete document")
	}
	return nil
}

func parseNonFiniteDouble(s string) (float64, bool) {
	switch s {
	case "NaN":
		return math.NaN(), true
	case "Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	return 0, false
}
