package builtin

import (
	"reflect"
	"strings"

	"github.com/danhawkins/streamjson/jsonadapter"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsonwriter"
	"github.com/danhawkins/streamjson/registry"
	"github.com/danhawkins/streamjson/typeinfo"
)

// StructFactory is the structural class reflection factory: it walks a
// struct's exported fields, honoring a `json:"name,omitempty"` tag in the
// shape encoding/json made idiomatic, resolves a delegate adapter for
// each field's type, and produces an adapter driven by SelectName so
// unknown members are skipped (or rejected under fail-on-unknown)
// without per-field string comparisons.
//
// Go has no access-control distinction between "private" and
// "transient": unexported fields are simply unreachable via reflection,
// which already gives the skip-static/skip-transient behavior the source
// gets from explicit modifiers. There is also no constructor-selection
// strategy to speak of — reflect.New(t).Elem() is Go's only reflected
// allocation primitive, so that collapses the source's pluggable
// instance-construction strategy to a single case.
type StructFactory struct{}

func (StructFactory) Create(lk *registry.Lookup, self int, key registry.Key) (jsonadapter.RuntimeAdapter, error) {
	rt := key.Type.Raw()
	if rt.Kind() != reflect.Struct {
		return nil, nil
	}
	if typeinfo.IsPlatformPackage(rt) {
		return nil, nil
	}

	var bindings []fieldBinding
	seen := make(map[string]bool)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		jsonName, omitEmpty, skip := parseJSONTag(sf)
		if skip {
			continue
		}
		if seen[jsonName] {
			return nil, registry.NewConflictError(key, "duplicate JSON field name %q", jsonName)
		}
		seen[jsonName] = true

		fieldType := typeinfo.Resolve(rt, sf.Type)
		delegate, err := lk.Adapter(registry.NewKey(typeinfo.OfType(fieldType)))
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, fieldBinding{
			index:     sf.Index,
			jsonName:  jsonName,
			omitEmpty: omitEmpty,
			adapter:   delegate,
		})
	}
	return &structAdapter{rt: rt, bindings: bindings}, nil
}

func parseJSONTag(sf reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return sf.Name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", false, true
	}
	name = sf.Name
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

type fieldBinding struct {
	index     []int
	jsonName  string
	omitEmpty bool
	adapter   jsonadapter.RuntimeAdapter
}

type structAdapter struct {
	rt       reflect.Type
	bindings []fieldBinding
}

func (a *structAdapter) names() []string {
	names := make([]string, len(a.bindings))
	for i, b := range a.bindings {
		names[i] = b.jsonName
	}
	return names
}

func (a *structAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	if err := r.BeginObject(); err != nil {
		return nil, err
	}
	out := reflect.New(a.rt).Elem()
	names := a.names()
	for {
		has, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		idx, err := r.SelectName(names)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			if err := r.SkipName(); err != nil {
				return nil, err
			}
			if err := r.SkipValue(); err != nil {
				return nil, err
			}
			continue
		}
		b := a.bindings[idx]
		v, err := b.adapter.FromJSON(r)
		if err != nil {
			return nil, err
		}
		field := out.FieldByIndex(b.index)
		if v == nil {
			field.Set(reflect.Zero(field.Type()))
		} else {
			field.Set(reflect.ValueOf(v))
		}
	}
	if err := r.EndObject(); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func (a *structAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if err := w.BeginObject(); err != nil {
		return err
	}
	for _, b := range a.bindings {
		field := rv.FieldByIndex(b.index)
		if b.omitEmpty && field.IsZero() {
			continue
		}
		if err := w.Name(b.jsonName); err != nil {
			return err
		}
		if err := b.adapter.ToJSON(w, field.Interface()); err != nil {
			return err
		}
	}
	return w.EndObject()
}
