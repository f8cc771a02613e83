package usermethod

import (
	"fmt"
	"reflect"

	"github.com/danhawkins/streamjson/registry"
	"github.com/danhawkins/streamjson/typeinfo"
)

// foundMethod names a write or read method discovered on a type, along
// with which of the two accepted shapes it matched.
type foundMethod struct {
	method    reflect.Method
	streaming bool
}

// scanWrite scans rt's method set for WriteJSON (streaming) or ToJSON
// (transform) methods, returning an error if both are present.
func scanWrite(rt reflect.Type) (*foundMethod, error) {
	var found []foundMethod
	if m, ok := matchMethod(rt, "WriteJSON", isStreamingWrite); ok {
		found = append(found, foundMethod{method: m, streaming: true})
	}
	if m, ok := matchMethod(rt, "ToJSON", isTransformWrite); ok {
		found = append(found, foundMethod{method: m, streaming: false})
	}
	if len(found) > 1 {
		return nil, fmt.Errorf("type %s declares both WriteJSON and ToJSON", rt)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// scanRead scans rt and *rt for ReadJSON (streaming) or FromJSON
// (transform) methods, returning an error if both are present.
func scanRead(rt reflect.Type) (*foundMethod, error) {
	ptr := reflect.PointerTo(rt)
	var found []foundMethod
	if m, ok := matchMethod(ptr, "ReadJSON", isStreamingRead); ok {
		found = append(found, foundMethod{method: m, streaming: true})
	}
	if m, ok := matchMethod(ptr, "FromJSON", isTransformRead); ok {
		found = append(found, foundMethod{method: m, streaming: false})
	}
	if len(found) > 1 {
		return nil, fmt.Errorf("type %s declares both ReadJSON and FromJSON", rt)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func matchMethod(rt reflect.Type, name string, shape func(reflect.Method) bool) (reflect.Method, bool) {
	m, ok := rt.MethodByName(name)
	if !ok || !shape(m) {
		return reflect.Method{}, false
	}
	return m, true
}

// Method.Type for a value-receiver method includes the receiver as
// In(0); index 0 below is always the receiver.

func isStreamingWrite(m reflect.Method) bool {
	t := m.Type
	return t.NumIn() == 2 && t.In(1) == writerType &&
		t.NumOut() == 1 && t.Out(0) == errorType
}

func isStreamingRead(m reflect.Method) bool {
	t := m.Type
	return t.NumIn() == 2 && t.In(1) == readerType &&
		t.NumOut() == 1 && t.Out(0) == errorType
}

func isTransformWrite(m reflect.Method) bool {
	t := m.Type
	return t.NumIn() == 1 && t.NumOut() == 2 && t.Out(1) == errorType
}

func isTransformRead(m reflect.Method) bool {
	t := m.Type
	return t.NumIn() == 2 && t.NumOut() == 1 && t.Out(0) == errorType
}

// resolveWrite builds the writeMethod for a found write method, pulling
// a delegate adapter from the registry for the transform style's return
// type.
func resolveWrite(lk *registry.Lookup, fm *foundMethod) (writeMethod, error) {
	if fm.streaming {
		return streamingWrite{m: fm.method}, nil
	}
	retType := fm.method.Type.Out(0)
	delegate, err := lk.Adapter(registry.NewKey(typeinfo.OfType(retType)))
	if err != nil {
		return nil, err
	}
	return transformWrite{m: fm.method, delegate: delegate}, nil
}

// resolveRead builds the readMethod for a found read method, pulling a
// delegate adapter from the registry for the transform style's sole
// argument type.
func resolveRead(lk *registry.Lookup, fm *foundMethod) (readMethod, error) {
	if fm.streaming {
		return streamingRead{m: fm.method}, nil
	}
	argType := fm.method.Type.In(1)
	delegate, err := lk.Adapter(registry.NewKey(typeinfo.OfType(argType)))
	if err != nil {
		return nil, err
	}
	return transformRead{m: fm.method, delegate: delegate}, nil
}
