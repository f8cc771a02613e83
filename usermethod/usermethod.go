// Package usermethod implements the converter method dispatcher: given a
// type, it looks for user-authored conversion methods by name and
// signature and produces an adapter that chains user code with the
// registry for any delegate types it needs.
//
// Go has no method or parameter annotations, so the "marker" the source
// attaches to a method is, here, the method's name and shape: exactly
// four signatures are recognized, one per (direction, style) pair. A
// type can supply zero, one, or two of the four (one per direction);
// offering more than one method for the same direction is a
// registration conflict. A type offering only one direction has the
// other direction delegate to the next factory in the chain for the
// same key, resolved once at bind time.
package usermethod

import (
	"reflect"

	"github.com/danhawkins/streamjson/jsonadapter"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsontoken"
	"github.com/danhawkins/streamjson/jsonwriter"
	"github.com/danhawkins/streamjson/registry"
	"github.com/danhawkins/streamjson/typeinfo"
)

// NullAware is the nullability opt-in marker: a type implementing it
// receives NULL tokens directly in its converter methods instead of
// having them short-circuited by the framework before the method runs.
type NullAware interface {
	AllowsNullJSON()
}

var (
	readerType    = reflect.TypeOf((*jsonreader.Reader)(nil))
	writerType    = reflect.TypeOf((*jsonwriter.Writer)(nil))
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	nullAwareType = reflect.TypeOf((*NullAware)(nil)).Elem()
)

// Factory produces adapters from a type's WriteJSON/ReadJSON (streaming
// style) or ToJSON/FromJSON (transform style) methods. It runs ahead of
// the built-in structural factory in the chain so a type that defines
// its own conversion overrides field-by-field reflection.
type Factory struct{}

func (Factory) Create(lk *registry.Lookup, self int, key registry.Key) (jsonadapter.RuntimeAdapter, error) {
	rt := key.Type.Raw()

	writeFn, writeErr := scanWrite(rt)
	if writeErr != nil {
		return nil, registry.NewConflictError(key, "%s", writeErr)
	}
	readFn, readErr := scanRead(rt)
	if readErr != nil {
		return nil, registry.NewConflictError(key, "%s", readErr)
	}
	if writeFn == nil && readFn == nil {
		return nil, nil
	}

	nullAware := rt.Implements(nullAwareType) || reflect.PointerTo(rt).Implements(nullAwareType)

	a := &methodAdapter{rt: rt, nullAware: nullAware}

	if writeFn != nil {
		w, err := resolveWrite(lk, writeFn)
		if err != nil {
			return nil, err
		}
		a.write = w
	} else {
		delegate, err := lk.From(self+1, key)
		if err != nil {
			return nil, err
		}
		a.writeFallback = delegate
	}
	if readFn != nil {
		rd, err := resolveRead(lk, readFn)
		if err != nil {
			return nil, err
		}
		a.read = rd
	} else {
		delegate, err := lk.From(self+1, key)
		if err != nil {
			return nil, err
		}
		a.readFallback = delegate
	}
	return a, nil
}

// writeMethod abstracts over the streaming and transform write styles
// behind a single call shape.
type writeMethod interface {
	write(w *jsonwriter.Writer, recv reflect.Value) error
}

// readMethod abstracts over the streaming and transform read styles.
type readMethod interface {
	read(r *jsonreader.Reader, recv reflect.Value) error
}

type methodAdapter struct {
	rt        reflect.Type
	nullAware bool

	write         writeMethod
	writeFallback jsonadapter.RuntimeAdapter

	read         readMethod
	readFallback jsonadapter.RuntimeAdapter
}

func (a *methodAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	if a.write == nil {
		return a.writeFallback.ToJSON(w, v)
	}
	if !a.nullAware && v == nil {
		return w.WriteNull()
	}
	rv := reflect.ValueOf(v)
	if !a.nullAware && rv.Kind() == reflect.Pointer && rv.IsNil() {
		return w.WriteNull()
	}
	return a.write.write(w, rv)
}

func (a *methodAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	if a.read == nil {
		return a.readFallback.FromJSON(r)
	}
	if !a.nullAware {
		tok, err := r.Peek()
		if err != nil {
			return nil, err
		}
		if tok == jsontoken.Null {
			if err := r.NextNull(); err != nil {
				return nil, err
			}
			return reflect.Zero(a.rt).Interface(), nil
		}
	}
	recv := reflect.New(a.rt)
	if err := a.read.read(r, recv); err != nil {
		return nil, err
	}
	return recv.Elem().Interface(), nil
}

// streamingWrite calls a WriteJSON(w *jsonwriter.Writer) error method
// directly against the receiver value.
type streamingWrite struct{ m reflect.Method }

func (s streamingWrite) write(w *jsonwriter.Writer, recv reflect.Value) error {
	out := recv.Method(s.m.Index).Call([]reflect.Value{reflect.ValueOf(w)})
	return asError(out[0])
}

// streamingRead calls a ReadJSON(r *jsonreader.Reader) error method
// against a pointer to a freshly allocated zero value.
type streamingRead struct{ m reflect.Method }

func (s streamingRead) read(r *jsonreader.Reader, recv reflect.Value) error {
	out := recv.Method(s.m.Index).Call([]reflect.Value{reflect.ValueOf(r)})
	return asError(out[0])
}

// transformWrite calls a ToJSON() (R, error) method, then resolves and
// runs a delegate adapter against the returned R.
type transformWrite struct {
	m        reflect.Method
	delegate jsonadapter.RuntimeAdapter
}

func (t transformWrite) write(w *jsonwriter.Writer, recv reflect.Value) error {
	out := recv.Method(t.m.Index).Call(nil)
	if err := asError(out[1]); err != nil {
		return err
	}
	return t.delegate.ToJSON(w, out[0].Interface())
}

// transformRead calls a delegate adapter to produce an R, then calls
// FromJSON(v R) error against a pointer to a freshly allocated zero
// value.
type transformRead struct {
	m        reflect.Method
	delegate jsonadapter.RuntimeAdapter
}

func (t transformRead) read(r *jsonreader.Reader, recv reflect.Value) error {
	v, err := t.delegate.FromJSON(r)
	if err != nil {
		return err
	}
	argType := t.m.Type.In(1)
	arg := reflect.ValueOf(v)
	if !arg.IsValid() {
		arg = reflect.Zero(argType)
	}
	out := recv.Method(t.m.Index).Call([]reflect.Value{arg})
	return asError(out[0])
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}
