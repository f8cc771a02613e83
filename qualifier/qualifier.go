// Package qualifier models the annotation-marker-set key used alongside
// a typeinfo.Descriptor for registry dispatch. Go has no annotation
// syntax, so a qualifier is represented the way the spec's own design
// notes permit: identity determined solely by the marker's type, since
// qualifier markers are required to declare no parameters. A qualifier
// marker is any zero-field type implementing Marker; two qualifiers are
// the same qualifier iff reflect.TypeOf them are equal.
package qualifier

import (
	"reflect"
	"sort"
	"strings"
)

// Marker is implemented by a qualifier annotation type. Implementations
// should be zero-field structs; QualifierMarker is typically embedded to
// satisfy this trivially.
type Marker interface {
	jsonQualifier()
}

// QualifierMarker is embedded by concrete qualifier types to satisfy
// Marker without boilerplate, e.g.:
//
//	type HexString struct{ qualifier.QualifierMarker }
type QualifierMarker struct{}

func (QualifierMarker) jsonQualifier() {}

// Set is an unordered set of qualifier markers, keyed by marker type.
// The zero Set is the empty qualifier set.
type Set struct {
	types map[reflect.Type]struct{}
}

// NewSet builds a Set from zero or more qualifier marker values. Only
// the marker's type is significant; the value itself is discarded.
func NewSet(markers ...Marker) Set {
	if len(markers) == 0 {
		return Set{}
	}
	types := make(map[reflect.Type]struct{}, len(markers))
	for _, m := range markers {
		types[reflect.TypeOf(m)] = struct{}{}
	}
	return Set{types: types}
}

// Len reports the number of distinct qualifier types in s.
func (s Set) Len() int { return len(s.types) }

// Has reports whether s contains a qualifier of m's type.
func (s Set) Has(m Marker) bool {
	if len(s.types) == 0 {
		return false
	}
	_, ok := s.types[reflect.TypeOf(m)]
	return ok
}

// Equal reports set equality between s and o.
func (s Set) Equal(o Set) bool {
	if len(s.types) != len(o.types) {
		return false
	}
	for t := range s.types {
		if _, ok := o.types[t]; !ok {
			return false
		}
	}
	return true
}

// Without returns the subset of s with m's qualifier type removed, and
// whether m was present (the nextQualifier operation of the spec: a nil
// qualifier set is reported by the second return being false rather than
// by a sentinel nil value).
func (s Set) Without(m Marker) (Set, bool) {
	if !s.Has(m) {
		return s, false
	}
	target := reflect.TypeOf(m)
	out := make(map[reflect.Type]struct{}, len(s.types)-1)
	for t := range s.types {
		if t != target {
			out[t] = struct{}{}
		}
	}
	return Set{types: out}, true
}

// String renders the qualifier set as sorted type names, for use in
// registration-error messages.
func (s Set) String() string {
	if len(s.types) == 0 {
		return "{}"
	}
	names := make([]string, 0, len(s.types))
	for t := range s.types {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ",") + "}"
}
