package builtin

import (
	"reflect"

	"github.com/danhawkins/streamjson/jsonadapter"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsontoken"
	"github.com/danhawkins/streamjson/jsonwriter"
	"github.com/danhawkins/streamjson/registry"
	"github.com/danhawkins/streamjson/typeinfo"
)

// ArrayFactory produces an adapter for a fixed-size Go array, the
// counterpart to CollectionFactory's slices. A JSON array longer than
// the Go array's length fails; a shorter one leaves the trailing
// elements at their zero value.
type ArrayFactory struct{}

func (ArrayFactory) Create(lk *registry.Lookup, self int, key registry.Key) (jsonadapter.RuntimeAdapter, error) {
	rt := key.Type.Raw()
	if rt.Kind() != reflect.Array {
		return nil, nil
	}
	elemType, err := typeinfo.ArrayComponentType(key.Type)
	if err != nil {
		return nil, err
	}
	elemAdapter, err := lk.Adapter(registry.NewKey(elemType))
	if err != nil {
		return nil, err
	}
	return &arrayAdapter{rt: rt, elem: elemAdapter}, nil
}

type arrayAdapter struct {
	rt   reflect.Type
	elem jsonadapter.RuntimeAdapter
}

func (a *arrayAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	if err := r.BeginArray(); err != nil {
		return nil, err
	}
	out := reflect.New(a.rt).Elem()
	i := 0
	for {
		has, err := r.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		if i >= a.rt.Len() {
			return nil, jsontoken.NewDataError(r.Path(), "JSON array has more than %d elements for %s", a.rt.Len(), a.rt)
		}
		v, err := a.elem.FromJSON(r)
		if err != nil {
			return nil, err
		}
		out.Index(i).Set(reflect.ValueOf(v))
		i++
	}
	if err := r.EndArray(); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func (a *arrayAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
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
