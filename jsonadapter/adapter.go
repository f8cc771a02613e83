// Package jsonadapter defines the bidirectional converter contract and
// its five compositional wrappers. An adapter owns no state beyond its
// sub-adapters; a registered factory either produces one for a given
// (type, qualifier) key or declines.
package jsonadapter

import (
	"strings"

	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsontoken"
	"github.com/danhawkins/streamjson/jsonwriter"
)

// Adapter converts between a Go value of type T and JSON tokens.
type Adapter[T any] interface {
	FromJSON(r *jsonreader.Reader) (T, error)
	ToJSON(w *jsonwriter.Writer, v T) error
}

// RuntimeAdapter is the type-erased form of Adapter, operating on `any`
// instead of a compile-time type parameter. The registry's factory chain
// is necessarily type-erased: factories are selected at runtime by a
// reflect.Type key, and Go generics are monomorphized at compile time, so
// there is no way to hand a factory chain a single Adapter[T] for a T it
// only learns about after the program has started. RuntimeAdapter is the
// common currency the registry stores and factories produce; Typed and
// Runtime bridge to and from the ergonomic generic Adapter[T] at the
// point where the concrete T is statically known (the façade's
// Marshal[T]/Unmarshal[T] entry points, and user-authored adapters handed
// to the registry builder).
type RuntimeAdapter interface {
	FromJSON(r *jsonreader.Reader) (any, error)
	ToJSON(w *jsonwriter.Writer, v any) error
}

// Runtime erases a generic Adapter[T] into a RuntimeAdapter for
// registration with the registry.
func Runtime[T any](a Adapter[T]) RuntimeAdapter {
	return &runtimeWrapper[T]{a}
}

type runtimeWrapper[T any] struct{ inner Adapter[T] }

func (w *runtimeWrapper[T]) FromJSON(r *jsonreader.Reader) (any, error) {
	return w.inner.FromJSON(r)
}

func (w *runtimeWrapper[T]) ToJSON(wr *jsonwriter.Writer, v any) error {
	tv, ok := v.(T)
	if !ok {
		return jsontoken.NewDataError(wr.Path(), "adapter expected %T, got %T", tv, v)
	}
	return w.inner.ToJSON(wr, tv)
}

// Typed recovers an ergonomic Adapter[T] from a RuntimeAdapter, failing
// at call time with a data error if the runtime value is not actually a
// T.
func Typed[T any](ra RuntimeAdapter) Adapter[T] {
	return &typedWrapper[T]{ra}
}

type typedWrapper[T any] struct{ inner RuntimeAdapter }

func (w *typedWrapper[T]) FromJSON(r *jsonreader.Reader) (T, error) {
	var zero T
	v, err := w.inner.FromJSON(r)
	if err != nil {
		return zero, err
	}
	tv, ok := v.(T)
	if !ok {
		return zero, jsontoken.NewDataError(r.Path(), "adapter produced %T, expected %T", v, zero)
	}
	return tv, nil
}

func (w *typedWrapper[T]) ToJSON(wr *jsonwriter.Writer, v T) error {
	return w.inner.ToJSON(wr, v)
}

// ToJSONString marshals v to a compact JSON string using a, the string
// convenience wrapper defined in terms of a fresh writer around a
// buffer.
func ToJSONString[T any](a Adapter[T], v T) (string, error) {
	var sb strings.Builder
	w := jsonwriter.New(&sb, jsonwriter.Options{SerializeNulls: true})
	if err := a.ToJSON(w, v); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// FromJSONString unmarshals s using a, the string convenience wrapper
// defined in terms of a fresh reader around a buffer.
func FromJSONString[T any](a Adapter[T], s string) (T, error) {
	var zero T
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

// NullSafe wraps an Adapter[T] into an Adapter[*T] that consumes a NULL
// token itself, without dispatching to inner, and writes null for a nil
// pointer.
func NullSafe[T any](inner Adapter[T]) Adapter[*T] {
	return &nullSafeAdapter[T]{inner: inner}
}

type nullSafeAdapter[T any] struct{ inner Adapter[T] }

func (a *nullSafeAdapter[T]) FromJSON(r *jsonreader.Reader) (*T, error) {
	tok, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if tok == jsontoken.Null {
		if err := r.NextNull(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v, err := a.inner.FromJSON(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (a *nullSafeAdapter[T]) ToJSON(w *jsonwriter.Writer, v *T) error {
	if v == nil {
		return w.WriteNull()
	}
	return a.inner.ToJSON(w, *v)
}

// Lenient temporarily sets the reader/writer lenient flag for the
// duration of a single call, restoring it on every exit path.
func Lenient[T any](inner Adapter[T]) Adapter[T] {
	return &lenientAdapter[T]{inner: inner}
}

type lenientAdapter[T any] struct{ inner Adapter[T] }

func (a *lenientAdapter[T]) FromJSON(r *jsonreader.Reader) (T, error) {
	prev := r.Lenient()
	r.SetLenient(true)
	defer r.SetLenient(prev)
	return a.inner.FromJSON(r)
}

func (a *lenientAdapter[T]) ToJSON(w *jsonwriter.Writer, v T) error {
	prev := w.Lenient()
	w.SetLenient(true)
	defer w.SetLenient(prev)
	return a.inner.ToJSON(w, v)
}

// FailOnUnknown temporarily sets the reader's fail-on-unknown flag for
// the duration of FromJSON; ToJSON is unaffected.
func FailOnUnknown[T any](inner Adapter[T]) Adapter[T] {
	return &failOnUnknownAdapter[T]{inner: inner}
}

type failOnUnknownAdapter[T any] struct{ inner Adapter[T] }

func (a *failOnUnknownAdapter[T]) FromJSON(r *jsonreader.Reader) (T, error) {
	prev := r.FailOnUnknown()
	r.SetFailOnUnknown(true)
	defer r.SetFailOnUnknown(prev)
	return a.inner.FromJSON(r)
}

func (a *failOnUnknownAdapter[T]) ToJSON(w *jsonwriter.Writer, v T) error {
	return a.inner.ToJSON(w, v)
}

// Indent temporarily overrides the writer's indent string; FromJSON is
// unaffected.
func Indent[T any](inner Adapter[T], indent string) Adapter[T] {
	return &indentAdapter[T]{inner: inner, indent: indent}
}

type indentAdapter[T any] struct {
	inner  Adapter[T]
	indent string
}

func (a *indentAdapter[T]) FromJSON(r *jsonreader.Reader) (T, error) {
	return a.inner.FromJSON(r)
}

func (a *indentAdapter[T]) ToJSON(w *jsonwriter.Writer, v T) error {
	prev := w.Indent()
	w.SetIndent(a.indent)
	defer w.SetIndent(prev)
	return a.inner.ToJSON(w, v)
}

// NonNull refuses null on either side of an already-nullable (pointer)
// adapter, failing with a data error instead of producing or accepting
// nil.
func NonNull[T any](inner Adapter[*T]) Adapter[*T] {
	return &nonNullAdapter[T]{inner: inner}
}

type nonNullAdapter[T any] struct{ inner Adapter[*T] }

func (a *nonNullAdapter[T]) FromJSON(r *jsonreader.Reader) (*T, error) {
	v, err := a.inner.FromJSON(r)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, jsontoken.NewDataError(r.Path(), "null is not allowed here")
	}
	return v, nil
}

func (a *nonNullAdapter[T]) ToJSON(w *jsonwriter.Writer, v *T) error {
	if v == nil {
		return jsontoken.NewDataError(w.Path(), "null is not allowed here")
	}
	return a.inner.ToJSON(w, v)
}
