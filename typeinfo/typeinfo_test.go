package typeinfo

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct{ X int }

func TestDescriptor_EqualityAndString(t *testing.T) {
	t.Parallel()

	a := Of(sample{})
	b := OfType(reflect.TypeOf(sample{}))
	require.True(t, a.Equal(b))
	require.Equal(t, "typeinfo.sample", a.String())
	require.False(t, a.Equal(Of(42)))
}

func TestDeref(t *testing.T) {
	t.Parallel()

	ptrDesc := Of(&sample{})
	base, ok := Deref(ptrDesc)
	require.True(t, ok)
	require.Equal(t, Of(sample{}), base)

	_, ok = Deref(Of(sample{}))
	require.False(t, ok)
}

func TestCollectionElementType(t *testing.T) {
	t.Parallel()

	sliceDesc := Of([]int{})
	elem, err := CollectionElementType(sliceDesc)
	require.NoError(t, err)
	require.Equal(t, Of(0), elem)

	arrDesc := OfType(reflect.TypeOf([3]string{}))
	elem, err = ArrayComponentType(arrDesc)
	require.NoError(t, err)
	require.Equal(t, Of(""), elem)

	_, err = CollectionElementType(Of(0))
	require.Error(t, err)
}

func TestMapKeyAndValueTypes(t *testing.T) {
	t.Parallel()

	key, val, err := MapKeyAndValueTypes(Of(map[string]int{}))
	require.NoError(t, err)
	require.Equal(t, Of(""), key)
	require.Equal(t, Of(0), val)

	_, _, err = MapKeyAndValueTypes(Of(0))
	require.Error(t, err)
}

func TestSliceOfAndMapOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, Of([]int{}), SliceOf(Of(0)))
	require.Equal(t, Of(map[string]int{}), MapOf(Of(""), Of(0)))
}

func TestIsPlatformPackage(t *testing.T) {
	t.Parallel()

	require.True(t, IsPlatformPackage(reflect.TypeOf(time.Time{})))
	require.True(t, IsPlatformPackage(reflect.TypeOf(bytes.Buffer{})))
	require.False(t, IsPlatformPackage(reflect.TypeOf(0)))
	require.False(t, IsPlatformPackage(reflect.TypeOf(sample{})))
}
