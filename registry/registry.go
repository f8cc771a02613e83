package registry

import (
	"github.com/danhawkins/streamjson/jsonadapter"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsonwriter"
)

// Factory produces an adapter for a given key, or declines by returning a
// nil adapter and a nil error. self is the factory's own position in the
// chain, handed back so a factory can resume a nested lookup past itself
// via Lookup.From without needing a comparable identity.
type Factory interface {
	Create(lk *Lookup, self int, key Key) (jsonadapter.RuntimeAdapter, error)
}

// Registry is an immutable, ordered factory chain. Safe to share across
// goroutines: lookup state lives entirely in the per-call Lookup value,
// never in the Registry itself.
type Registry struct {
	factories []Factory
}

// Builder accumulates factories in registration order before Build
// freezes them into a Registry.
type Builder struct {
	factories []Factory
}

// NewBuilder starts an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Register appends f to the chain, returning its assigned position.
func (b *Builder) Register(f Factory) int {
	b.factories = append(b.factories, f)
	return len(b.factories) - 1
}

// Build freezes the accumulated factories into an immutable Registry.
func (b *Builder) Build() *Registry {
	return &Registry{factories: append([]Factory(nil), b.factories...)}
}

// Adapter resolves key by walking the factory chain from the start,
// maintaining a fresh re-entrant lookup trail for the duration of this
// call.
func (r *Registry) Adapter(key Key) (jsonadapter.RuntimeAdapter, error) {
	lk := &Lookup{reg: r}
	return lk.resolve(0, key)
}

// Lookup carries the re-entrant resolution trail for one top-level
// Registry.Adapter call. Unlike the per-thread trail a type-erased
// runtime needs, Go recursion already isolates this: each goroutine
// calling Registry.Adapter gets its own Lookup value on its own call
// stack, with no shared mutable state and nothing to synchronize.
type Lookup struct {
	reg   *Registry
	trail []trailEntry
}

type trailEntry struct {
	key      Key
	deferred *deferredAdapter
}

// Adapter performs a full lookup for key, participating in this Lookup's
// re-entrant trail. Factories call this (via the *Lookup they're handed
// in Create) to resolve a sub-shape's adapter.
func (lk *Lookup) Adapter(key Key) (jsonadapter.RuntimeAdapter, error) {
	return lk.resolve(0, key)
}

// From resumes the chain walk at firstIndex, the nextAdapter(skipPast,…)
// operation: a factory passes self+1 to look up a delegate without
// re-entering its own Create.
func (lk *Lookup) From(firstIndex int, key Key) (jsonadapter.RuntimeAdapter, error) {
	return lk.resolve(firstIndex, key)
}

// Registry exposes the immutable Registry behind this Lookup. Factories
// that need to perform a registry lookup later (not during their own
// Create call, but each time their resulting adapter runs, against a
// runtime type only known then) must go through Registry().Adapter rather
// than hold onto this Lookup: a Lookup's trail is call-scoped and mutated
// without synchronization, so reusing one across later, possibly
// concurrent, top-level calls would race. Registry.Adapter always starts
// a fresh Lookup and is safe to call any number of times from any
// goroutine.
func (lk *Lookup) Registry() *Registry { return lk.reg }

func (lk *Lookup) resolve(firstIndex int, key Key) (jsonadapter.RuntimeAdapter, error) {
	if firstIndex == 0 {
		for _, e := range lk.trail {
			if e.key.Equal(key) {
				return e.deferred, nil
			}
		}
	}

	d := &deferredAdapter{key: key}
	lk.trail = append(lk.trail, trailEntry{key: key, deferred: d})
	defer func() { lk.trail = lk.trail[:len(lk.trail)-1] }()

	for i := firstIndex; i < len(lk.reg.factories); i++ {
		a, err := lk.reg.factories[i].Create(lk, i, key)
		if err != nil {
			return nil, err
		}
		if a != nil {
			d.bind(a)
			return a, nil
		}
	}
	return nil, newNoAdapterError(key)
}

// deferredAdapter is the re-entrant lookup's placeholder: before bind, it
// fails fast; afterward, it delegates forever.
type deferredAdapter struct {
	key   Key
	bound jsonadapter.RuntimeAdapter
}

func (d *deferredAdapter) bind(a jsonadapter.RuntimeAdapter) { d.bound = a }

func (d *deferredAdapter) FromJSON(r *jsonreader.Reader) (any, error) {
	if d.bound == nil {
		return nil, &ConfigError{Key: d.key, Msg: "adapter not yet resolved (cyclic reference read before its registration completed)", sentinel: ErrNoAdapter}
	}
	return d.bound.FromJSON(r)
}

func (d *deferredAdapter) ToJSON(w *jsonwriter.Writer, v any) error {
	if d.bound == nil {
		return &ConfigError{Key: d.key, Msg: "adapter not yet resolved (cyclic reference written before its registration completed)", sentinel: ErrNoAdapter}
	}
	return d.bound.ToJSON(w, v)
}
