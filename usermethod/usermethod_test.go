package usermethod

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danhawkins/streamjson/builtin"
	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsonwriter"
	"github.com/danhawkins/streamjson/registry"
	"github.com/danhawkins/streamjson/typeinfo"
)

func newMethodRegistry() *registry.Registry {
	b := registry.NewBuilder()
	b.Register(Factory{})
	b.Register(builtin.PrimitiveFactory{})
	b.Register(builtin.StructFactory{})
	return b.Build()
}

// Temperature uses the streaming style for both directions.
type Temperature struct{ Celsius float64 }

func (t Temperature) WriteJSON(w *jsonwriter.Writer) error {
	return w.WriteString(fmt.Sprintf("%.1fC", t.Celsius))
}

func (t *Temperature) ReadJSON(r *jsonreader.Reader) error {
	s, err := r.NextString()
	if err != nil {
		return err
	}
	var c float64
	_, err = fmt.Sscanf(s, "%fC", &c)
	if err != nil {
		return err
	}
	t.Celsius = c
	return nil
}

func TestFactory_StreamingRoundTrip(t *testing.T) {
	t.Parallel()

	reg := newMethodRegistry()
	a, err := reg.Adapter(registry.NewKey(typeinfo.Of(Temperature{})))
	require.NoError(t, err)

	var sb strings.Builder
	w := jsonwriter.New(&sb, jsonwriter.Options{})
	require.NoError(t, a.ToJSON(w, Temperature{Celsius: 20.5}))
	require.NoError(t, w.Close())
	require.Equal(t, `"20.5C"`, sb.String())

	r := jsonreader.New(strings.NewReader(`"30.0C"`), jsonreader.Options{})
	v, err := a.FromJSON(r)
	require.NoError(t, err)
	require.Equal(t, Temperature{Celsius: 30}, v)
}

// Money uses the transform style for both directions, delegating to a
// string adapter.
type Money struct{ Cents int }

func (m Money) ToJSON() (string, error) {
	return fmt.Sprintf("$%d.%02d", m.Cents/100, m.Cents%100), nil
}

func (m *Money) FromJSON(s string) error {
	var dollars, cents int
	if _, err := fmt.Sscanf(s, "$%d.%d", &dollars, &cents); err != nil {
		return err
	}
	m.Cents = dollars*100 + cents
	return nil
}

func TestFactory_TransformRoundTrip(t *testing.T) {
	t.Parallel()

	reg := newMethodRegistry()
	a, err := reg.Adapter(registry.NewKey(typeinfo.Of(Money{})))
	require.NoError(t, err)

	var sb strings.Builder
	w := jsonwriter.New(&sb, jsonwriter.Options{})
	require.NoError(t, a.ToJSON(w, Money{Cents: 150}))
	require.NoError(t, w.Close())
	require.Equal(t, `"$1.50"`, sb.String())

	r := jsonreader.New(strings.NewReader(`"$2.05"`), jsonreader.Options{})
	v, err := a.FromJSON(r)
	require.NoError(t, err)
	require.Equal(t, Money{Cents: 205}, v)
}

// Conflicted declares both WriteJSON and ToJSON, which is an error.
type Conflicted struct{}

func (Conflicted) WriteJSON(w *jsonwriter.Writer) error { return w.WriteNull() }
func (Conflicted) ToJSON() (string, error)              { return "", nil }

func TestFactory_BothWriteStyles_Conflicts(t *testing.T) {
	t.Parallel()

	reg := newMethodRegistry()
	_, err := reg.Adapter(registry.NewKey(typeinfo.Of(Conflicted{})))
	require.Error(t, err)
}

// WriteOnly defines WriteJSON but no read method; reads fall back to the
// next factory in the chain (the struct factory, here).
type WriteOnly struct{ Name string }

func (w WriteOnly) WriteJSON(jw *jsonwriter.Writer) error {
	return jw.WriteString("custom:" + w.Name)
}

func TestFactory_WriteOnly_ReadFallsBackToNextFactory(t *testing.T) {
	t.Parallel()

	reg := newMethodRegistry()
	a, err := reg.Adapter(registry.NewKey(typeinfo.Of(WriteOnly{})))
	require.NoError(t, err)

	var sb strings.Builder
	w := jsonwriter.New(&sb, jsonwriter.Options{})
	require.NoError(t, a.ToJSON(w, WriteOnly{Name: "x"}))
	require.NoError(t, w.Close())
	require.Equal(t, `"custom:x"`, sb.String())

	r := jsonreader.New(strings.NewReader(`{"Name":"y"}`), jsonreader.Options{})
	v, err := a.FromJSON(r)
	require.NoError(t, err)
	require.Equal(t, WriteOnly{Name: "y"}, v)
}

func TestFactory_NullShortCircuit_WithoutNullAware(t *testing.T) {
	t.Parallel()

	reg := newMethodRegistry()
	a, err := reg.Adapter(registry.NewKey(typeinfo.Of(Temperature{})))
	require.NoError(t, err)

	r := jsonreader.New(strings.NewReader(`null`), jsonreader.Options{})
	v, err := a.FromJSON(r)
	require.NoError(t, err)
	require.Equal(t, Temperature{}, v)
}

func TestFactory_DeclinesOrdinaryStructs(t *testing.T) {
	t.Parallel()

	type Plain struct{ X int }
	reg := newMethodRegistry()
	a, err := reg.Adapter(registry.NewKey(typeinfo.Of(Plain{})))
	require.NoError(t, err)

	var sb strings.Builder
	w := jsonwriter.New(&sb, jsonwriter.Options{})
	require.NoError(t, a.ToJSON(w, Plain{X: 5}))
	require.NoError(t, w.Close())
	require.Equal(t, `{"X":5}`, sb.String())
}
