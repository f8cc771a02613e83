// Package streamjson is the public façade: it wires the built-in and
// user-method factories into a default registry, in the factory order
// usermethod -> enum/primitive/collection/map/array/object -> struct
// (user overrides first, structural reflection last so it only ever
// runs as the fallback), and exposes generic Marshal/Unmarshal entry
// points bridging jsonadapter's erased RuntimeAdapter back to a
// caller's concrete T.
package streamjson

import (
	"strings"

	"github.com/danhawkins/streamjson/builtin"
	"github.com/danhawkins/streamjson/jsonadapter"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsonwriter"
	"github.com/danhawkins/streamjson/registry"
	"github.com/danhawkins/streamjson/typeinfo"
	"github.com/danhawkins/streamjson/usermethod"
)

// EnumAudit and CollectingAudit are re-exported from builtin so callers
// configuring a façade never need to import the builtin package
// directly for the audit hook alone.
type EnumAudit = builtin.EnumAudit
type CollectingAudit = builtin.CollectingAudit
type UnknownEnumReport = builtin.UnknownEnumReport

// RegisterEnum is builtin.RegisterEnum re-exported at the façade for the
// same reason.
func RegisterEnum[T ~int](b *registry.Builder, names map[T]string, audit EnumAudit) int {
	return builtin.RegisterEnum(b, names, audit)
}

// NewBuilder returns a registry builder pre-loaded with every built-in
// factory plus the user-method dispatcher, in the order user overrides
// take priority over built-in shape handling, and structural field
// reflection runs last as the catch-all. Callers append their own
// factories (RegisterEnum, custom adapters via jsonadapter.Runtime) and
// then call Build.
func NewBuilder() *registry.Builder {
	b := registry.NewBuilder()
	b.Register(usermethod.Factory{})
	b.Register(builtin.PrimitiveFactory{})
	b.Register(builtin.CollectionFactory{})
	b.Register(builtin.MapFactory{})
	b.Register(builtin.ArrayFactory{})
	b.Register(builtin.ObjectFactory{})
	b.Register(builtin.StructFactory{})
	return b
}

// Default is the registry used by the package-level Marshal/Unmarshal
// convenience functions: every built-in factory, no enums (enums need a
// name table supplied by the caller via RegisterEnum before Build).
var Default = NewBuilder().Build()

// Marshal serializes v to a compact JSON string using the default
// registry.
func Marshal[T any](v T) (string, error) {
	return MarshalWith(Default, v)
}

// Unmarshal parses s into a T using the default registry.
func Unmarshal[T any](s string) (T, error) {
	return UnmarshalWith[T](Default, s)
}

// MarshalWith serializes v using an explicitly supplied registry, for
// callers who registered enums or custom adapters on their own builder.
func MarshalWith[T any](reg *registry.Registry, v T) (string, error) {
	ra, err := reg.Adapter(registry.NewKey(typeinfo.Of(v)))
	if err != nil {
		return "", err
	}
	a := jsonadapter.Typed[T](ra)
	var sb strings.Builder
	w := jsonwriter.NewSerializingNulls(&sb, jsonwriter.Options{})
	if err := a.ToJSON(w, v); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// UnmarshalWith parses s into a T using an explicitly supplied registry.
func UnmarshalWith[T any](reg *registry.Registry, s string) (T, error) {
	var zero T
	ra, err := reg.Adapter(registry.NewKey(typeinfo.Of(zero)))
	if err != nil {
		return zero, err
	}
	a := jsonadapter.Typed[T](ra)
	r := jsonreader.New(strings.NewReader(s), jsonreader.Options{})
	v, err := a.FromJSON(r)
	if err != nil {
		return zero, err
	}
	if err := r.Close(); err != nil {
		return zero, err
	}
	return v, nil
}
