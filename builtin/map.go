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

var stringType = reflect.TypeOf("")

// MapFactory produces an adapter for a string-keyed map, reading object
// member names with NextName and writing them with Name as the map's
// string keys.
type MapFactory struct{}

func (MapFactory) Create(lk *registry.Lookup, self int, key registry.Key) (jsonadapter.RuntimeAdapter, error) {
	rt := key.Type.Raw()
	if rt.Kind() != reflect.Map {
		return nil, nil
	}
	if rt.Key().Kind() != reflect.String {
		// Declines rather than erroring: a non-string-keyed map simply
		// isn't a shape this factory handles, so the chain falls through
		// to the generic no-adapter registration error.
		return nil, nil
	}
	_, valType, err := typeinfo.MapKeyAndValueTypes(key.Type)
	if err != nil {
		return nil, err
	}
	valAdapter, err := lk.Adapter(registry.NewKey(valType))
	if err != nil {
		return nil, err
	}
	return &mapAdapter{rt: rt, val: valAdapter}, nil
}

type mapAdapter struct {
	rt  reflect.Type
	val jsonadapter.RuntimeAdapter
}

func (a *mapAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	if err := r.BeginObject(); err != nil {
		return nil, err
	}
	out := reflect.MakeMap(a.rt)
	seen := make(map[string]bool)
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
			return nil, jsontoken.NewDataError(r.Path(), "duplicate map key %q", name)
		}
		seen[name] = true
		v, err := a.val.FromJSON(r)
		if err != nil {
			return nil, err
		}
		keyVal := reflect.ValueOf(name).Convert(a.rt.Key())
		out.SetMapIndex(keyVal, reflect.ValueOf(v))
	}
	if err := r.EndObject(); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func (a *mapAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	rv := reflect.ValueOf(v)
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Convert(stringType).String() < keys[j].Convert(stringType).String()
	})
	if err := w.BeginObject(); err != nil {
		return err
	}
	for _, k := range keys {
		if err := w.Name(k.Convert(stringType).String()); err != nil {
			return err
		}
		if err := a.val.ToJSON(w, rv.MapIndex(k).Interface()); err != nil {
			return err
		}
	}
	return w.EndObject()
}
