package jsonreader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danhawkins/streamjson/jsontoken"
)

func TestReader_ObjectRoundTrip(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(`{"a":1,"b":[true,null,"x"]}`), Options{})

	require.NoError(t, r.BeginObject())

	name, err := r.NextName()
	require.NoError(t, err)
	require.Equal(t, "a", name)
	n, err := r.NextFloat64()
	require.NoError(t, err)
	require.Equal(t, float64(1), n)
	require.Equal(t, "$.a", r.Path())

	name, err = r.NextName()
	require.NoError(t, err)
	require.Equal(t, "b", name)
	require.NoError(t, r.BeginArray())

	b, err := r.NextBool()
	require.NoError(t, err)
	require.True(t, b)

	require.NoError(t, r.NextNull())

	s, err := r.NextString()
	require.NoError(t, err)
	require.Equal(t, "x", s)

	require.NoError(t, r.EndArray())
	require.NoError(t, r.EndObject())
	require.NoError(t, r.Close())
}

func TestReader_ReadValue_NestedTree(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(`{"nums":[1,2,3],"nested":{"x":true}}`), Options{})
	v, err := r.ReadValue()
	require.NoError(t, err)
	require.NoError(t, r.Close())

	nums, err := v.Key("nums").AsArray()
	require.NoError(t, err)
	require.Len(t, nums, 3)

	x, err := v.Key("nested").Key("x").AsBool()
	require.NoError(t, err)
	require.True(t, x)
}

func TestReader_DuplicateKey_Fails(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(`{"a":1,"a":2}`), Options{})
	_, err := r.ReadValue()
	require.Error(t, err)
}

func TestReader_FailOnUnknown_SkipName(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(`{"known":1,"extra":"x"}`), Options{FailOnUnknown: true})
	require.NoError(t, r.BeginObject())
	name, err := r.NextName()
	require.NoError(t, err)
	require.Equal(t, "known", name)
	_, err = r.NextFloat64()
	require.NoError(t, err)

	err = r.SkipName()
	require.Error(t, err)
}

func TestReader_SelectName(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(`{"beta":2}`), Options{})
	require.NoError(t, r.BeginObject())
	idx, err := r.SelectName([]string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	require.Equal(t, 1, idx)
	n, err := r.NextFloat64()
	require.NoError(t, err)
	require.Equal(t, float64(2), n)
}

func TestReader_Lenient_BareScalarAtTop(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(`42`), Options{Lenient: true})
	n, err := r.NextFloat64()
	require.NoError(t, err)
	require.Equal(t, float64(42), n)
	require.NoError(t, r.Close())
}

func TestReader_StrictMode_RejectsNaN(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(`NaN`), Options{Lenient: false})
	_, err := r.Peek()
	require.Error(t, err)
}

func TestReader_PeekJSON_ForksWithoutConsuming(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(`[{"a":1},2]`), Options{})
	require.NoError(t, r.BeginArray())

	fork, err := r.PeekJSON()
	require.NoError(t, err)
	forked, err := fork.ReadValue()
	require.NoError(t, err)
	n, err := forked.Key("a").AsNumber()
	require.NoError(t, err)
	require.Equal(t, float64(1), n)

	// The parent reader is untouched; it can still read the same value.
	v, err := r.ReadValue()
	require.NoError(t, err)
	n2, err := v.Key("a").AsNumber()
	require.NoError(t, err)
	require.Equal(t, float64(1), n2)

	n3, err := r.NextFloat64()
	require.NoError(t, err)
	require.Equal(t, float64(2), n3)
	require.NoError(t, r.EndArray())
}

func TestReader_PeekJSON_ForksOverBareScalarBetweenSiblings(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(`[123,456,789]`), Options{})
	require.NoError(t, r.BeginArray())

	first, err := r.NextInt()
	require.NoError(t, err)
	require.Equal(t, 123, first)

	fork, err := r.PeekJSON()
	require.NoError(t, err)
	forked, err := fork.ReadValue()
	require.NoError(t, err)
	n, err := forked.AsNumber()
	require.NoError(t, err)
	require.Equal(t, float64(456), n)

	second, err := r.NextInt()
	require.NoError(t, err)
	require.Equal(t, 456, second)

	third, err := r.NextInt()
	require.NoError(t, err)
	require.Equal(t, 789, third)

	require.NoError(t, r.EndArray())
}

func TestReader_UnexpectedToken(t *testing.T) {
	t.Parallel()

	r := New(strings.NewReader(`{"a":1}`), Options{})
	_, err := r.NextString()
	var dataErr *jsontoken.DataError
	require.ErrorAs(t, err, &dataErr)
}
