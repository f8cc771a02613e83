package builtin

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/danhawkins/streamjson/jsonadapter"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsontoken"
	"github.com/danhawkins/streamjson/jsonwriter"
	"github.com/danhawkins/streamjson/registry"
)

// Go has no reflection over a type's declared constants, so unlike the
// structural and collection factories above, enum support can't discover
// its cases by walking the type. Instead RegisterEnum takes an explicit
// value-to-name table and returns a Factory bound to that one concrete
// type, matched by identity rather than by structural kind.

// EnumAudit receives a notification whenever a FromJSON call observes a
// name that isn't in an enum's table. A pointer to a zero CollectingAudit
// is ready to use and satisfies this interface.
type EnumAudit interface {
	UnknownEnumValue(enumType reflect.Type, name string)
}

// CollectingAudit accumulates unknown enum value reports for later
// inspection, e.g. at the end of a batch conversion job.
type CollectingAudit struct {
	mu      sync.Mutex
	reports []UnknownEnumReport
}

// UnknownEnumReport names one unrecognized enum value observed during a
// FromJSON call.
type UnknownEnumReport struct {
	EnumType reflect.Type
	Name     string
}

func (c *CollectingAudit) UnknownEnumValue(enumType reflect.Type, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, UnknownEnumReport{EnumType: enumType, Name: name})
}

// Reports returns a snapshot of everything collected so far.
func (c *CollectingAudit) Reports() []UnknownEnumReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]UnknownEnumReport, len(c.reports))
	copy(out, c.reports)
	return out
}

// RegisterEnum registers an adapter for the concrete integer-backed enum
// type T, encoding/decoding values through the given name table. A
// FromJSON call against a name absent from the table fails unless audit
// is non-nil, in which case it reports the unknown value and falls back
// to the enum's zero value.
func RegisterEnum[T ~int](b *registry.Builder, names map[T]string, audit EnumAudit) int {
	byName := make(map[string]T, len(names))
	for v, n := range names {
		byName[n] = v
	}
	enumType := reflect.TypeOf(*new(T))
	return b.Register(&enumFactory[T]{
		enumType: enumType,
		names:    names,
		byName:   byName,
		audit:    audit,
	})
}

type enumFactory[T ~int] struct {
	enumType reflect.Type
	names    map[T]string
	byName   map[string]T
	audit    EnumAudit
}

func (f *enumFactory[T]) Create(lk *registry.Lookup, self int, key registry.Key) (jsonadapter.RuntimeAdapter, error) {
	if key.Type.Raw() != f.enumType {
		return nil, nil
	}
	return &enumAdapter[T]{f: f}, nil
}

type enumAdapter[T ~int] struct {
	f *enumFactory[T]
}

func (a *enumAdapter[T]) FromJSON(r *jsonreader.Reader) (any, error) {
	name, err := r.NextString()
	if err != nil {
		return nil, err
	}
	v, ok := a.f.byName[name]
	if !ok {
		if a.f.audit == nil {
			return nil, jsontoken.NewDataError(r.Path(), "unknown value %q for %s", name, a.f.enumType)
		}
		a.f.audit.UnknownEnumValue(a.f.enumType, name)
		return T(0), nil
	}
	return v, nil
}

func (a *enumAdapter[T]) ToJSON(w *jsonwriter.Writer, v any) error {
	tv := v.(T)
	name, ok := a.f.names[tv]
	if !ok {
		return fmt.Errorf("streamjson: no name registered for %s value %v", a.f.enumType, tv)
	}
	return w.WriteString(name)
}
