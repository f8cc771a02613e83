// Package typeinfo provides the canonical, comparable type representation
// the registry keys adapter lookups on. Go monomorphizes generics at
// compile time, so by the time a value reaches reflect.Type there are no
// unresolved type variables or wildcards left to walk — what would be a
// generic-supertype-chain resolution problem in a type-erased language
// collapses here to reflect.Type identity and a handful of shape
// accessors (collection element, map key/value, array component).
package typeinfo

import (
	"fmt"
	"reflect"
	"strings"
)

// Descriptor wraps a reflect.Type as the registry's dispatch key. Two
// Descriptors for the same concrete instantiation compare equal with ==
// on the underlying reflect.Type, which is already deduplicated by the
// runtime, so Descriptor itself stays a thin, comparable value type.
type Descriptor struct {
	rt reflect.Type
}

// Of builds a Descriptor from a value's runtime type.
func Of(v any) Descriptor {
	return Descriptor{rt: reflect.TypeOf(v)}
}

// OfType builds a Descriptor directly from a reflect.Type.
func OfType(t reflect.Type) Descriptor {
	return Descriptor{rt: t}
}

// Raw returns the underlying reflect.Type.
func (d Descriptor) Raw() reflect.Type { return d.rt }

// Kind forwards reflect.Type.Kind.
func (d Descriptor) Kind() reflect.Kind { return d.rt.Kind() }

// Valid reports whether the descriptor wraps a non-nil type.
func (d Descriptor) Valid() bool { return d.rt != nil }

func (d Descriptor) String() string {
	if d.rt == nil {
		return "<invalid>"
	}
	return d.rt.String()
}

// Equal is structural equality across the concrete instantiation: Go's
// reflect.Type already guarantees this via ==, so equality never needs
// to walk wildcard bounds or type-variable declaration identity the way
// a type-erased runtime would.
func (d Descriptor) Equal(o Descriptor) bool { return d.rt == o.rt }

// Canonicalize is the identity function: there are no wildcards to
// rewrite and no primitives to box, since Go's reflect.Type already
// denotes exactly one concrete representation per type. Kept as a named
// operation so call sites read the same way the registry's lookup
// pipeline is described.
func Canonicalize(d Descriptor) Descriptor { return d }

// Resolve is the identity function for the same reason: a field's
// reflect.Type, once observed through reflection, is already the fully
// resolved concrete type for the enclosing instantiation. There is no
// runtime type-variable substitution step in Go the way there is walking
// a generic supertype chain in a type-erased language.
func Resolve(_ reflect.Type, fieldType reflect.Type) reflect.Type { return fieldType }

// Deref unwraps a single level of pointer indirection, reporting whether
// one was present. Used to treat *T and T as the same adapter-dispatch
// shape with nullability layered on top by jsonadapter's null-safe
// wrapper.
func Deref(d Descriptor) (Descriptor, bool) {
	if d.rt != nil && d.rt.Kind() == reflect.Pointer {
		return OfType(d.rt.Elem()), true
	}
	return d, false
}

// CollectionElementType returns the element type of a slice or array
// descriptor.
func CollectionElementType(d Descriptor) (Descriptor, error) {
	switch d.Kind() {
	case reflect.Slice, reflect.Array:
		return OfType(d.rt.Elem()), nil
	default:
		return Descriptor{}, fmt.Errorf("typeinfo: %s is not a collection type", d)
	}
}

// ArrayComponentType is CollectionElementType under the name the array
// adapter factory reaches for; fixed-size Go arrays and slices share the
// same reflect.Type.Elem() accessor.
func ArrayComponentType(d Descriptor) (Descriptor, error) {
	return CollectionElementType(d)
}

// MapKeyAndValueTypes returns the key and value types of a map
// descriptor.
func MapKeyAndValueTypes(d Descriptor) (key, value Descriptor, err error) {
	if d.Kind() != reflect.Map {
		return Descriptor{}, Descriptor{}, fmt.Errorf("typeinfo: %s is not a map type", d)
	}
	return OfType(d.rt.Key()), OfType(d.rt.Elem()), nil
}

// SliceOf is the arrayOf constructor: it builds the descriptor for a
// slice of component.
func SliceOf(component Descriptor) Descriptor {
	return OfType(reflect.SliceOf(component.rt))
}

// MapOf builds the descriptor for a string-keyed (or otherwise
// comparable-keyed) map of key to value.
func MapOf(key, value Descriptor) Descriptor {
	return OfType(reflect.MapOf(key.rt, value.rt))
}

// IsPlatformPackage reports whether t's defining package is part of the
// Go standard library rather than application code, mirroring the
// structural class factory's refusal to reflect into a reserved
// ecosystem prefix unless an adapter has been registered explicitly.
func IsPlatformPackage(t reflect.Type) bool {
	pkg := t.PkgPath()
	if pkg == "" {
		return false // unnamed/builtin types carry no package path
	}
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.ContainsRune(first, '.')
}
