package builtin

import (
	"reflect"
	"sort"

	"github.com/danhawkins/streamjson/jsonadapter"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsontoken"
	"github.com/danhawkins/streamjson/jsonwriter"
	"github.com/danhawkins/streamjson/registry"
	"github.com/danhawkins/streamjson/typeinfo"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// ObjectFactory produces the dynamic adapter for `any`-typed values: on
// read it dispatches on the next token (object -> map[string]any, array
// -> []any, scalar -> its matching Go scalar); on write it normalizes a
// map or slice-shaped runtime value to the generic map/slice case and
// otherwise resolves the runtime's own concrete type through the
// registry, the way the source normalizes Map- and Collection-subtypes
// to their interface before looking up an adapter.
type ObjectFactory struct{}

func (ObjectFactory) Create(lk *registry.Lookup, self int, key registry.Key) (jsonadapter.RuntimeAdapter, error) {
	if key.Type.Raw() != anyType {
		return nil, nil
	}
	return &objectAdapter{reg: lk.Registry()}, nil
}

type objectAdapter struct {
	reg *registry.Registry
}

func (a *objectAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	tok, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch tok {
	case jsontoken.BeginObject:
		if err := r.BeginObject(); err != nil {
			return nil, err
		}
		m := map[string]any{}
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
			v, err := a.FromJSON(r)
			if err != nil {
				return nil, err
			}
			m[name] = v
		}
		if err := r.EndObject(); err != nil {
			return nil, err
		}
		return m, nil
	case jsontoken.BeginArray:
		if err := r.BeginArray(); err != nil {
			return nil, err
		}
		arr := []any{}
		for {
			has, err := r.HasNext()
			if err != nil {
				return nil, err
			}
			if !has {
				break
			}
			v, err := a.FromJSON(r)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if err := r.EndArray(); err != nil {
			return nil, err
		}
		return arr, nil
	case jsontoken.String:
		return r.NextString()
	case jsontoken.Number:
		return r.NextFloat64()
	case jsontoken.Bool:
		return r.NextBool()
	case jsontoken.Null:
		if err := r.NextNull(); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, jsontoken.NewSyntaxError(r.Path(), "unexpected token %s reading a dynamic value", tok)
	}
}

func (a *objectAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	switch vv := v.(type) {
	case nil:
		return w.WriteNull()
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if err := w.BeginObject(); err != nil {
			return err
		}
		for _, k := range keys {
			if err := w.Name(k); err != nil {
				return err
			}
			if err := a.ToJSON(w, vv[k]); err != nil {
				return err
			}
		}
		return w.EndObject()
	case []any:
		if err := w.BeginArray(); err != nil {
			return err
		}
		for _, e := range vv {
			if err := a.ToJSON(w, e); err != nil {
				return err
			}
		}
		return w.EndArray()
	case string:
		return w.WriteString(vv)
	case bool:
		return w.WriteBool(vv)
	case float64:
		return w.WriteFloat64(vv)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Map:
			return a.writeNormalized(w, rv)
		case reflect.Slice:
			return a.writeNormalized(w, rv)
		}
		delegate, err := a.reg.Adapter(registry.NewKey(typeinfo.Of(v)))
		if err != nil {
			return err
		}
		return delegate.ToJSON(w, v)
	}
}

// writeNormalized re-dispatches a concrete map- or slice-shaped runtime
// value through the generic map[string]any/[]any case, mirroring the
// source's normalization of Map-subtypes to Map and Collection-subtypes
// to Collection so arbitrary named types don't each need their own
// registration.
func (a *objectAdapter) writeNormalized(w *jsonwriter.Writer, rv reflect.Value) error {
	if rv.Kind() == reflect.Map {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().Convert(stringType).String()] = iter.Value().Interface()
		}
		return a.ToJSON(w, out)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return a.ToJSON(w, out)
}
