// Package jsontree provides the tree-shaped value type used by the
// reader's readJsonValue and the writer's jsonValue operations (§4.2/§4.3),
// modeled after mcvoid-json's Value: insertion-ordered object pairs, a
// sequence for arrays, and fluent AsXxx/Index/Key accessors.
package jsontree

import (
	"fmt"
	"strconv"
)

// Kind identifies which JSON shape a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{"null", "bool", "number", "string", "array", "object"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ErrKind is returned by the AsXxx accessors when the value is not of the
// requested kind.
type ErrKind struct {
	Want, Have Kind
}

func (e *ErrKind) Error() string {
	return fmt.Sprintf("jsontree: value is %s, not %s", e.Have, e.Want)
}

// pair is one object member, kept in insertion order.
type pair struct {
	Key string
	Val *Value
}

// Value is an insertion-ordered JSON tree node.
type Value struct {
	kind   Kind
	b      bool
	num    float64
	str    string
	arr    []*Value
	object []pair
}

// Null returns the null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// Number wraps a float64.
func Number(n float64) *Value { return &Value{kind: KindNumber, num: n} }

// String wraps a string.
func String(s string) *Value { return &Value{kind: KindString, str: s} }

// Array wraps a slice of elements, preserving order.
func Array(elems ...*Value) *Value {
	return &Value{kind: KindArray, arr: append([]*Value(nil), elems...)}
}

// NewObject starts an empty, insertion-ordered object.
func NewObject() *Value { return &Value{kind: KindObject} }

// Set appends or replaces a member in insertion order. Replacing an
// existing key keeps its original position.
func (v *Value) Set(key string, val *Value) *Value {
	for i, p := range v.object {
		if p.Key == key {
			v.object[i].Val = val
			return v
		}
	}
	v.object = append(v.object, pair{Key: key, Val: val})
	return v
}

// Kind reports the value's shape.
func (v *Value) Kind() Kind { return v.kind }

// AsBool returns the boolean payload, or ErrKind if v is not a bool.
func (v *Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, &ErrKind{Want: KindBool, Have: v.kind}
	}
	return v.b, nil
}

// AsNumber returns the numeric payload, or ErrKind if v is not a number.
func (v *Value) AsNumber() (float64, error) {
	if v.kind != KindNumber {
		return 0, &ErrKind{Want: KindNumber, Have: v.kind}
	}
	return v.num, nil
}

// AsString returns the string payload, or ErrKind if v is not a string.
func (v *Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", &ErrKind{Want: KindString, Have: v.kind}
	}
	return v.str, nil
}

// AsArray returns the element slice, or ErrKind if v is not an array.
func (v *Value) AsArray() ([]*Value, error) {
	if v.kind != KindArray {
		return nil, &ErrKind{Want: KindArray, Have: v.kind}
	}
	return v.arr, nil
}

// AsObject returns the members as a map, which does not keep insertion
// order (Keys does), or ErrKind if v is not an object.
func (v *Value) AsObject() (map[string]*Value, error) {
	if v.kind != KindObject {
		return nil, &ErrKind{Want: KindObject, Have: v.kind}
	}
	m := make(map[string]*Value, len(v.object))
	for _, p := range v.object {
		m[p.Key] = p.Val
	}
	return m, nil
}

// Keys returns object member names in insertion order, or nil if v is not
// an object.
func (v *Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.object))
	for i, p := range v.object {
		keys[i] = p.Key
	}
	return keys
}

// Index is a fluent array accessor returning Null() instead of an error for
// out-of-range or non-array values.
func (v *Value) Index(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Null()
	}
	return v.arr[i]
}

// Key is a fluent object accessor returning Null() instead of an error for
// a missing key or non-object value.
func (v *Value) Key(k string) *Value {
	if v.kind != KindObject {
		return Null()
	}
	for _, p := range v.object {
		if p.Key == k {
			return p.Val
		}
	}
	return Null()
}

// String renders a debug (not guaranteed valid-JSON) representation.
func (v *Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.str)
	case KindArray:
		s := "["
		for i, e := range v.arr {
			if i > 0 {
				s += ","
			}
			s += e.String()
		}
		return s + "]"
	case KindObject:
		s := "{"
		for i, p := range v.object {
			if i > 0 {
				s += ","
			}
			s += strconv.Quote(p.Key) + ":" + p.Val.String()
		}
		return s + "}"
	}
	return "<invalid>"
}
