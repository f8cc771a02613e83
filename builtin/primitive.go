// Package builtin holds the default adapter factories every registry is
// seeded with: primitives and strings, enums, collections, maps, arrays,
// the dynamic `any` object adapter, and structural reflection over Go
// structs. Grounded on opener/regular_file_opener_factory.go's pattern of
// a small stateless factory struct whose Create-equivalent inspects the
// requested key and declines (nil, nil) when it doesn't apply.
package builtin

import (
	"math"
	"reflect"

	"github.com/danhawkins/streamjson/jsonadapter"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsontoken"
	"github.com/danhawkins/streamjson/jsonwriter"
	"github.com/danhawkins/streamjson/registry"
)

// PrimitiveFactory produces adapters for bool, string, and every sized
// integer/float kind, matched by reflect.Kind. For any other kind it
// declines by returning (nil, nil), so later factories are tried.
type PrimitiveFactory struct{}

func (PrimitiveFactory) Create(lk *registry.Lookup, self int, key registry.Key) (jsonadapter.RuntimeAdapter, error) {
	switch key.Type.Kind() {
	case reflect.Bool:
		return boolAdapter{}, nil
	case reflect.String:
		return stringAdapter{rt: key.Type.Raw()}, nil
	case reflect.Int, reflect.Int64:
		return int64Adapter{rt: key.Type.Raw()}, nil
	case reflect.Int8:
		return rangedIntAdapter{rt: key.Type.Raw(), min: -1 << 7, max: 1<<7 - 1}, nil
	case reflect.Int16:
		return rangedIntAdapter{rt: key.Type.Raw(), min: -1 << 15, max: 1<<15 - 1}, nil
	case reflect.Int32:
		return rangedIntAdapter{rt: key.Type.Raw(), min: -1 << 31, max: 1<<31 - 1}, nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return uint64Adapter{rt: key.Type.Raw()}, nil
	case reflect.Uint8:
		return rangedUintAdapter{rt: key.Type.Raw(), max: 1<<8 - 1}, nil
	case reflect.Uint16:
		return rangedUintAdapter{rt: key.Type.Raw(), max: 1<<16 - 1}, nil
	case reflect.Uint32:
		return rangedUintAdapter{rt: key.Type.Raw(), max: 1<<32 - 1}, nil
	case reflect.Float32, reflect.Float64:
		return floatAdapter{rt: key.Type.Raw()}, nil
	default:
		return nil, nil
	}
}

type boolAdapter struct{}

func (boolAdapter) FromJSON(r *jsonreader.Reader) (any, error) { return r.NextBool() }
func (boolAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	b, ok := v.(bool)
	if !ok {
		return jsontoken.NewDataError(w.Path(), "expected bool, got %T", v)
	}
	return w.WriteBool(b)
}

type stringAdapter struct{ rt reflect.Type }

func (a stringAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	s, err := r.NextString()
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(s).Convert(a.rt).Interface(), nil
}

func (a stringAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return jsontoken.NewDataError(w.Path(), "expected string, got %T", v)
	}
	return w.WriteString(rv.String())
}

// int64Adapter backs `int` and `int64`: both are range-unchecked on a
// 64-bit platform (NextInt64 already fails on non-exact values).
type int64Adapter struct{ rt reflect.Type }

func (a int64Adapter) FromJSON(r *jsonreader.Reader) (any, error) {
	n, err := r.NextInt64()
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(n).Convert(a.rt).Interface(), nil
}

func (a int64Adapter) ToJSON(w *jsonwriter.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.CanInt() {
		return jsontoken.NewDataError(w.Path(), "expected a signed integer, got %T", v)
	}
	return w.WriteInt64(rv.Int())
}

// rangedIntAdapter backs int8/int16/int32, which additionally
// range-check the decoded value the way the byte and short adapters
// range-check nextInt in the source.
type rangedIntAdapter struct {
	rt       reflect.Type
	min, max int64
}

func (a rangedIntAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	n, err := r.NextInt64()
	if err != nil {
		return nil, err
	}
	if n < a.min || n > a.max {
		return nil, jsontoken.NewDataError(r.Path(), "value %d out of range for %s", n, a.rt)
	}
	return reflect.ValueOf(n).Convert(a.rt).Interface(), nil
}

func (a rangedIntAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.CanInt() {
		return jsontoken.NewDataError(w.Path(), "expected a signed integer, got %T", v)
	}
	return w.WriteInt64(rv.Int())
}

type uint64Adapter struct{ rt reflect.Type }

func (a uint64Adapter) FromJSON(r *jsonreader.Reader) (any, error) {
	n, err := r.NextInt64()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, jsontoken.NewDataError(r.Path(), "value %d is negative for an unsigned type", n)
	}
	return reflect.ValueOf(uint64(n)).Convert(a.rt).Interface(), nil
}

func (a uint64Adapter) ToJSON(w *jsonwriter.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.CanUint() {
		return jsontoken.NewDataError(w.Path(), "expected an unsigned integer, got %T", v)
	}
	return w.WriteInt64(int64(rv.Uint()))
}

type rangedUintAdapter struct {
	rt  reflect.Type
	max uint64
}

func (a rangedUintAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	n, err := r.NextInt64()
	if err != nil {
		return nil, err
	}
	if n < 0 || uint64(n) > a.max {
		return nil, jsontoken.NewDataError(r.Path(), "value %d out of range for %s", n, a.rt)
	}
	return reflect.ValueOf(uint64(n)).Convert(a.rt).Interface(), nil
}

func (a rangedUintAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.CanUint() {
		return jsontoken.NewDataError(w.Path(), "expected an unsigned integer, got %T", v)
	}
	return w.WriteInt64(int64(rv.Uint()))
}

// floatAdapter backs float32/float64. The strict-mode non-finite check
// lives in jsonwriter.WriteFloat64 itself; float32 additionally
// re-checks for infinity introduced by narrowing a float64 down, mirroring
// the source's post-conversion infinity check on its float adapter.
type floatAdapter struct{ rt reflect.Type }

func (a floatAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	f, err := r.NextFloat64()
	if err != nil {
		return nil, err
	}
	if a.rt.Kind() == reflect.Float32 {
		f32 := float32(f)
		if !r.Lenient() && math.IsInf(float64(f32), 0) && !math.IsInf(f, 0) {
			return nil, jsontoken.NewDataError(r.Path(), "value %v overflows float32 in strict mode", f)
		}
		return f32, nil
	}
	return f, nil
}

func (a floatAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.CanFloat() {
		return jsontoken.NewDataError(w.Path(), "expected a float, got %T", v)
	}
	return w.WriteFloat64(rv.Float())
}
