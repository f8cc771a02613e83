// Package jsonwriter implements the push emitter: calls translate directly
// to bytes on a buffered sink, validating scope transitions and handling
// indent/compact modes exactly as jsonreader validates the matching pull
// side.
package jsonwriter

import (
	"io"
	"math"
	"strconv"

	"github.com/danhawkins/streamjson/jsontoken"
	"github.com/danhawkins/streamjson/jsontree"
)

// Options configures a Writer at construction, matching the small
// zero-value-friendly options-struct shape used throughout this repo
// (transform.CSVDecoderOptions, jsonreader.Options).
type Options struct {
	Lenient bool
	// Indent, when non-empty, is repeated once per nesting depth after
	// every newline. Empty means compact output.
	Indent string
	// SerializeNulls controls whether a Name()+WriteNull() pair is
	// emitted at all; false discards both atomically.
	SerializeNulls bool
}

// Writer is a push-style JSON emitter. Not safe for concurrent use (§5).
type Writer struct {
	sink  jsontoken.ByteSink
	stack *jsontoken.Stack

	lenient        bool
	indent         string
	serializeNulls bool

	pendingName    string
	hasPendingName bool

	flatten *flattenState

	closed bool
}

type flattenState struct {
	depth int
	kind  jsontoken.Token
}

// FlattenToken is the opaque pairing token returned by BeginFlatten,
// threaded back through EndFlatten so nested flatten scopes restore
// correctly.
type FlattenToken struct {
	prev *flattenState
}

// New constructs a Writer over w. SerializeNulls is taken from opts, so
// the zero Options discards null object members; NewSerializingNulls
// keeps them.
func New(w io.Writer, opts Options) *Writer {
	return &Writer{
		sink:           jsontoken.NewSink(w),
		stack:          jsontoken.NewStack(),
		lenient:        opts.Lenient,
		indent:         opts.Indent,
		serializeNulls: opts.SerializeNulls,
	}
}

// NewSerializingNulls is a convenience constructor defaulting
// SerializeNulls to true, since Options{} leaves it false.
func NewSerializingNulls(w io.Writer, opts Options) *Writer {
	ww := New(w, opts)
	ww.serializeNulls = true
	return ww
}

func (w *Writer) Lenient() bool             { return w.lenient }
func (w *Writer) SetLenient(v bool)         { w.lenient = v }
func (w *Writer) Indent() string            { return w.indent }
func (w *Writer) SetIndent(s string)        { w.indent = s }
func (w *Writer) SerializeNulls() bool      { return w.serializeNulls }
func (w *Writer) SetSerializeNulls(v bool)  { w.serializeNulls = v }
func (w *Writer) Path() string              { return w.stack.Path() }

// Name records a deferred object member name: nothing is emitted until
// the following value call, so that SerializeNulls==false can discard the
// name and a null value together.
func (w *Writer) Name(name string) error {
	switch w.stack.Peek() {
	case jsontoken.EmptyObject, jsontoken.NonemptyObject:
	default:
		return jsontoken.NewSyntaxError(w.Path(), "Name() called outside an object")
	}
	if w.hasPendingName {
		return jsontoken.NewSyntaxError(w.Path(), "Name() called twice without an intervening value")
	}
	w.pendingName = name
	w.hasPendingName = true
	return nil
}

// beforeValue performs the separator/indent bookkeeping common to every
// value-writing call, and reports whether the value should be skipped
// entirely (a null member discarded under SerializeNulls==false).
func (w *Writer) beforeValue(isNull bool) (skip bool, err error) {
	switch w.stack.Peek() {
	case jsontoken.EmptyObject, jsontoken.NonemptyObject:
		if !w.hasPendingName {
			return false, jsontoken.NewSyntaxError(w.Path(), "value written without a preceding Name()")
		}
		if isNull && !w.serializeNulls {
			w.hasPendingName = false
			return true, nil
		}
		if w.stack.Peek() == jsontoken.NonemptyObject {
			w.sink.WriteByte(',')
		}
		w.writeNewlineIndent()
		if err := w.writeQuotedString(w.pendingName); err != nil {
			return false, err
		}
		w.stack.SetName(w.pendingName)
		w.hasPendingName = false
		if w.indent != "" {
			w.sink.WriteString(": ")
		} else {
			w.sink.WriteByte(':')
		}
		w.stack.ReplaceTop(jsontoken.NonemptyObject)
		return false, nil

	case jsontoken.EmptyArray:
		w.stack.ReplaceTop(jsontoken.NonemptyArray)
		w.writeNewlineIndent()
		return false, nil

	case jsontoken.NonemptyArray:
		w.sink.WriteByte(',')
		w.stack.IncrementIndex()
		w.writeNewlineIndent()
		return false, nil

	case jsontoken.EmptyDocument:
		return false, nil

	case jsontoken.NonemptyDocument:
		if !w.lenient {
			return false, jsontoken.NewSyntaxError(w.Path(), "strict mode forbids more than one top-level value")
		}
		w.sink.WriteByte(' ')
		return false, nil

	default:
		return false, jsontoken.NewSyntaxError(w.Path(), "cannot write a value in scope %s", w.stack.Peek())
	}
}

func (w *Writer) afterValue() {
	if top := w.stack.Peek(); top == jsontoken.EmptyDocument || top == jsontoken.NonemptyDocument {
		w.stack.ReplaceTop(jsontoken.NonemptyDocument)
	}
}

func (w *Writer) writeNewlineIndent() {
	if w.indent == "" {
		return
	}
	w.sink.WriteByte('\n')
	for i := 1; i < w.stack.Depth(); i++ {
		w.sink.WriteString(w.indent)
	}
}

func (w *Writer) spliced(kind jsontoken.Token) bool {
	return w.flatten != nil && w.flatten.depth == w.stack.Depth() && w.flatten.kind == kind
}

// BeginFlatten marks the current enclosing array/object as eligible to
// receive the contents of an inner value of the same kind without an
// extra nesting level: the next matching BeginArray/BeginObject +
// EndArray/EndObject pair at this depth is suppressed entirely. The
// returned token must be passed to EndFlatten; pairs nest correctly
// because the token captures the previously active flatten state.
func (w *Writer) BeginFlatten() FlattenToken {
	prev := w.flatten
	var kind jsontoken.Token
	switch w.stack.Peek() {
	case jsontoken.EmptyArray, jsontoken.NonemptyArray:
		kind = jsontoken.BeginArray
	case jsontoken.EmptyObject, jsontoken.NonemptyObject:
		kind = jsontoken.BeginObject
	}
	w.flatten = &flattenState{depth: w.stack.Depth(), kind: kind}
	return FlattenToken{prev: prev}
}

// EndFlatten restores the flatten state active before the matching
// BeginFlatten.
func (w *Writer) EndFlatten(tok FlattenToken) {
	w.flatten = tok.prev
}

// BeginArray opens an array, or is a no-op if currently spliced via
// BeginFlatten into an enclosing array.
func (w *Writer) BeginArray() error {
	if w.spliced(jsontoken.BeginArray) {
		return nil
	}
	if _, err := w.beforeValue(false); err != nil {
		return err
	}
	w.sink.WriteByte('[')
	return w.stack.Push(jsontoken.EmptyArray)
}

// EndArray closes an array, or is a no-op if currently spliced.
func (w *Writer) EndArray() error {
	if w.spliced(jsontoken.BeginArray) {
		return nil
	}
	switch w.stack.Peek() {
	case jsontoken.EmptyArray, jsontoken.NonemptyArray:
	default:
		return jsontoken.NewNestingError(w.Path(), "EndArray() called outside an array")
	}
	w.stack.Pop()
	w.writeNewlineIndent()
	w.sink.WriteByte(']')
	w.afterValue()
	return nil
}

// BeginObject opens an object, or is a no-op if currently spliced.
func (w *Writer) BeginObject() error {
	if w.spliced(jsontoken.BeginObject) {
		return nil
	}
	if _, err := w.beforeValue(false); err != nil {
		return err
	}
	w.sink.WriteByte('{')
	return w.stack.Push(jsontoken.EmptyObject)
}

// EndObject closes an object, or is a no-op if currently spliced.
func (w *Writer) EndObject() error {
	if w.spliced(jsontoken.BeginObject) {
		return nil
	}
	switch w.stack.Peek() {
	case jsontoken.EmptyObject, jsontoken.NonemptyObject:
	default:
		return jsontoken.NewNestingError(w.Path(), "EndObject() called outside an object")
	}
	if w.hasPendingName {
		return jsontoken.NewSyntaxError(w.Path(), "EndObject() called with a pending Name() not followed by a value")
	}
	w.stack.Pop()
	w.writeNewlineIndent()
	w.sink.WriteByte('}')
	w.afterValue()
	return nil
}

func (w *Writer) writeScalar(raw string, isNull bool) error {
	skip, err := w.beforeValue(isNull)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}
	if _, err := w.sink.WriteString(raw); err != nil {
		return err
	}
	w.afterValue()
	return nil
}

// WriteString writes a quoted string value.
func (w *Writer) WriteString(s string) error {
	skip, err := w.beforeValue(false)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}
	if err := w.writeQuotedString(s); err != nil {
		return err
	}
	w.afterValue()
	return nil
}

// WriteBool writes a boolean value.
func (w *Writer) WriteBool(b bool) error {
	if b {
		return w.writeScalar("true", false)
	}
	return w.writeScalar("false", false)
}

// WriteNull writes a null value, or discards the preceding deferred name
// entirely when SerializeNulls is false.
func (w *Writer) WriteNull() error {
	return w.writeScalar("null", true)
}

// WriteFloat64 writes a numeric value. Non-finite values fail unless the
// writer is lenient, in which case they are written as NaN/Infinity/
// -Infinity.
func (w *Writer) WriteFloat64(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if !w.lenient {
			return jsontoken.NewSyntaxError(w.Path(), "non-finite number %v requires a lenient writer", f)
		}
		switch {
		case math.IsNaN(f):
			return w.writeScalar("NaN", false)
		case math.IsInf(f, 1):
			return w.writeScalar("Infinity", false)
		default:
			return w.writeScalar("-Infinity", false)
		}
	}
	return w.writeScalar(strconv.FormatFloat(f, 'g', -1, 64), false)
}

// WriteInt64 writes an exact integer value.
func (w *Writer) WriteInt64(n int64) error {
	return w.writeScalar(strconv.FormatInt(n, 10), false)
}

// WriteRawNumber writes a pre-formatted numeric literal verbatim, used by
// adapters that already hold a wire-ready representation.
func (w *Writer) WriteRawNumber(literal string) error {
	return w.writeScalar(literal, false)
}

// PromoteValueToName records literal as the pending object member name,
// exactly as Name does; the next value call writes that member's value.
func (w *Writer) PromoteValueToName(literal string) error {
	return w.Name(literal)
}

// ValueSink returns a direct byte sink for pre-encoded JSON. It pushes a
// STREAMING_VALUE scope that must be popped by closing the returned
// writer before any other Writer call.
func (w *Writer) ValueSink() (io.WriteCloser, error) {
	if _, err := w.beforeValue(false); err != nil {
		return nil, err
	}
	if err := w.stack.Push(jsontoken.StreamingValue); err != nil {
		return nil, err
	}
	return &rawSink{w: w}, nil
}

type rawSink struct{ w *Writer }

func (s *rawSink) Write(p []byte) (int, error) { return s.w.sink.Write(p) }

func (s *rawSink) Close() error {
	if s.w.stack.Peek() != jsontoken.StreamingValue {
		return jsontoken.NewNestingError(s.w.Path(), "ValueSink already closed")
	}
	s.w.stack.Pop()
	s.w.afterValue()
	return nil
}

// JSONValue recursively emits a jsontree.Value: a mapping becomes an
// object, a sequence becomes an array, and a scalar becomes a scalar.
func (w *Writer) JSONValue(v *jsontree.Value) error {
	switch v.Kind() {
	case jsontree.KindNull:
		return w.WriteNull()
	case jsontree.KindBool:
		b, _ := v.AsBool()
		return w.WriteBool(b)
	case jsontree.KindNumber:
		n, _ := v.AsNumber()
		return w.WriteFloat64(n)
	case jsontree.KindString:
		s, _ := v.AsString()
		return w.WriteString(s)
	case jsontree.KindArray:
		if err := w.BeginArray(); err != nil {
			return err
		}
		elems, _ := v.AsArray()
		for _, e := range elems {
			if err := w.JSONValue(e); err != nil {
				return err
			}
		}
		return w.EndArray()
	case jsontree.KindObject:
		if err := w.BeginObject(); err != nil {
			return err
		}
		for _, k := range v.Keys() {
			if err := w.Name(k); err != nil {
				return err
			}
			if err := w.JSONValue(v.Key(k)); err != nil {
				return err
			}
		}
		return w.EndObject()
	default:
		return jsontoken.NewDataError(w.Path(), "unknown tree value kind")
	}
}

// Close flushes the sink. Closing with unbalanced scopes fails.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	top := w.stack.Peek()
	if top != jsontoken.EmptyDocument && top != jsontoken.NonemptyDocument {
		return jsontoken.NewNestingError(w.Path(), "closed with unbalanced scopes")
	}
	w.closed = true
	return w.sink.Flush()
}

// writeQuotedString escapes s per RFC 7159, always escaping U+2028 and
// U+2029 on output regardless of lenient mode.
func (w *Writer) writeQuotedString(s string) error {
	if err := w.sink.WriteByte('"'); err != nil {
		return err
	}
	start := 0
	for i, r := range s {
		var esc string
		switch r {
		case '"':
			esc = `\"`
		case '\\':
			esc = `\\`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\t':
			esc = `\t`
		case '\u2028':
			esc = `\u2028`
		case '\u2029':
			esc = `\u2029`
		default:
			if r < 0x20 {
				esc = `\u` + hex4(r)
			} else {
				continue
			}
		}
		if _, err := w.sink.WriteString(s[start:i]); err != nil {
			return err
		}
		if _, err := w.sink.WriteString(esc); err != nil {
			return err
		}
		start = i + len(string(r))
	}
	if _, err := w.sink.WriteString(s[start:]); err != nil {
		return err
	}
	return w.sink.WriteByte('"')
}

func hex4(r rune) string {
	const digits = "0123456789abcdef"
	buf := [4]byte{'0', '0', '0', '0'}
	v := uint32(r)
	for i := 3; i >= 0 && v > 0; i-- {
		buf[i] = digits[v&0xF]
		v >>= 4
	}
	return string(buf[:])
}
