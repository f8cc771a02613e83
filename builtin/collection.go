package builtin

import (
	"reflect"

	"github.com/danhawkins/streamjson/jsonadapter"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsonwriter"
	"github.com/danhawkins/streamjson/registry"
	"github.com/danhawkins/streamjson/typeinfo"
)

// CollectionFactory produces an adapter for any slice type, delegating
// element conversion to an adapter resolved for the slice's element type.
type CollectionFactory struct{}

func (CollectionFactory) Create(lk *registry.Lookup, self int, key registry.Key) (jsonadapter.RuntimeAdapter, error) {
	rt := key.Type.Raw()
	if rt.Kind() != reflect.Slice {
		return nil, nil
	}
	elemType, err := typeinfo.CollectionElementType(key.Type)
	if err != nil {
		return nil, err
	}
	elemAdapter, err := lk.Adapter(registry.NewKey(elemType))
	if err != nil {
		return nil, err
	}
	return &collectionAdapter{rt: rt, elem: elemAdapter}, nil
}

type collectionAdapter struct {
	rt   reflect.Type
	elem jsonadapter.RuntimeAdapter
}

func (a *collectionAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	if err := r.BeginArray(); err != nil {
		return nil, err
	}
	out := reflect.MakeSlice(a.rt, 0, 0)
	for {
		has, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		v, err := a.elem.FromJSON(r)
		if err != nil {
			return nil, err
		}
		out = reflect.Append(out, reflect.ValueOf(v))
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func (a *collectionAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	rv := reflect.ValueOf(v)
	if err := w.BeginArray(); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := a.elem.ToJSON(w, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return w.EndArray()
}
