// Package registry implements the ordered adapter-factory chain with
// re-entrant, cycle-breaking lookup. A Builder appends factories to an
// ordered slice and Build freezes it; neither takes a lock. It generalizes
// opener.RegisterOpener's scheme-keyed registration to a (type, qualifier)
// key.
package registry

import (
	"fmt"

	"github.com/danhawkins/streamjson/qualifier"
	"github.com/danhawkins/streamjson/typeinfo"
)

// Key identifies an adapter lookup: a concrete type plus the qualifier
// markers distinguishing otherwise type-equal registrations.
type Key struct {
	Type       typeinfo.Descriptor
	Qualifiers qualifier.Set
}

// NewKey builds a Key from a descriptor and zero or more qualifier
// markers.
func NewKey(t typeinfo.Descriptor, markers ...qualifier.Marker) Key {
	return Key{Type: t, Qualifiers: qualifier.NewSet(markers...)}
}

func (k Key) Equal(o Key) bool {
	return k.Type.Equal(o.Type) && k.Qualifiers.Equal(o.Qualifiers)
}

func (k Key) String() string {
	return fmt.Sprintf("%s%s", k.Type, qualifierSuffix(k.Qualifiers))
}

func qualifierSuffix(q qualifier.Set) string {
	if q.Len() == 0 {
		return ""
	}
	return " " + q.String()
}
