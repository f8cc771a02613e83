package jsonwriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danhawkins/streamjson/jsontree"
)

func TestWriter_ObjectAndArray(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := New(&sb, Options{})

	require.NoError(t, w.BeginObject())
	require.NoError(t, w.Name("a"))
	require.NoError(t, w.WriteInt64(1))
	require.NoError(t, w.Name("b"))
	require.NoError(t, w.BeginArray())
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteString("x"))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndObject())
	require.NoError(t, w.Close())

	require.Equal(t, `{"a":1,"b":[true,"x"]}`, sb.String())
}

func TestWriter_SerializeNulls_Discard(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := New(&sb, Options{})
	require.NoError(t, w.BeginObject())
	require.NoError(t, w.Name("a"))
	require.NoError(t, w.WriteNull())
	require.NoError(t, w.Name("b"))
	require.NoError(t, w.WriteInt64(2))
	require.NoError(t, w.EndObject())
	require.NoError(t, w.Close())

	require.Equal(t, `{"b":2}`, sb.String())
}

func TestWriter_SerializeNulls_Keep(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := NewSerializingNulls(&sb, Options{})
	require.NoError(t, w.BeginObject())
	require.NoError(t, w.Name("a"))
	require.NoError(t, w.WriteNull())
	require.NoError(t, w.EndObject())
	require.NoError(t, w.Close())

	require.Equal(t, `{"a":null}`, sb.String())
}

func TestWriter_Indent(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := New(&sb, Options{Indent: "  "})
	require.NoError(t, w.BeginObject())
	require.NoError(t, w.Name("a"))
	require.NoError(t, w.WriteInt64(1))
	require.NoError(t, w.EndObject())
	require.NoError(t, w.Close())

	require.Equal(t, "{\n  \"a\": 1\n}", sb.String())
}

func TestWriter_NonFiniteFloat_FailsStrict(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := New(&sb, Options{})
	err := w.WriteFloat64(posInf())
	require.Error(t, err)
}

func TestWriter_NonFiniteFloat_Lenient(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := New(&sb, Options{Lenient: true})
	require.NoError(t, w.WriteFloat64(posInf()))
	require.NoError(t, w.Close())
	require.Equal(t, "Infinity", sb.String())
}

func TestWriter_StringEscaping(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := New(&sb, Options{})
	require.NoError(t, w.WriteString("a\n\"\\ b"))
	require.NoError(t, w.Close())
	require.Equal(t, `"a\n\"\\ b"`, sb.String())
}

func TestWriter_Flatten_SplicesMatchingKind(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := New(&sb, Options{})
	require.NoError(t, w.BeginArray())
	require.NoError(t, w.WriteInt64(1))

	tok := w.BeginFlatten()
	require.NoError(t, w.BeginArray())
	require.NoError(t, w.WriteInt64(2))
	require.NoError(t, w.WriteInt64(3))
	require.NoError(t, w.EndArray())
	w.EndFlatten(tok)

	require.NoError(t, w.WriteInt64(4))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.Close())

	require.Equal(t, `[1,2,3,4]`, sb.String())
}

func TestWriter_JSONValue_RoundTripsTree(t *testing.T) {
	t.Parallel()

	tree := jsontree.NewObject().
		Set("n", jsontree.Number(1)).
		Set("arr", jsontree.Array(jsontree.Bool(true), jsontree.Null()))

	var sb strings.Builder
	w := NewSerializingNulls(&sb, Options{})
	require.NoError(t, w.JSONValue(tree))
	require.NoError(t, w.Close())

	require.Equal(t, `{"n":1,"arr":[true,null]}`, sb.String())
}

func TestWriter_ValueSink_EmitsRawBytes(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	w := New(&sb, Options{})
	require.NoError(t, w.BeginObject())
	require.NoError(t, w.Name("raw"))
	sink, err := w.ValueSink()
	require.NoError(t, err)
	_, err = sink.Write([]byte(`{"x":1}`))
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	require.NoError(t, w.EndObject())
	require.NoError(t, w.Close())

	require.Equal(t, `{"raw":{"x":1}}`, sb.String())
}

func posInf() float64 {
	var f float64 = 1
	return f / zero()
}

func zero() float64 { return 0 }
