package jsontoken

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStack_PushPopPath(t *testing.T) {
	t.Parallel()

	s := NewStack()
	require.Equal(t, 1, s.Depth())
	require.Equal(t, "$", s.Path())

	require.NoError(t, s.Push(EmptyObject))
	s.SetName("foo")
	s.ReplaceTop(NonemptyObject)
	require.Equal(t, "$.foo", s.Path())

	require.NoError(t, s.Push(EmptyArray))
	require.Equal(t, 0, s.IncrementIndex())
	require.Equal(t, 1, s.IncrementIndex())
	require.Equal(t, "$.foo[1]", s.Path())

	s.Pop()
	require.Equal(t, "$.foo", s.Path())
	s.Pop()
	require.Equal(t, "$", s.Path())
}

func TestStack_Clone(t *testing.T) {
	t.Parallel()

	s := NewStack()
	require.NoError(t, s.Push(EmptyArray))
	s.IncrementIndex()

	clone := s.Clone()
	clone.IncrementIndex()

	require.Equal(t, "$[0]", s.Path())
	require.Equal(t, "$[1]", clone.Path())
}

func TestStack_MaxDepth(t *testing.T) {
	t.Parallel()

	s := NewStack()
	for i := 1; i < MaxDepth; i++ {
		require.NoError(t, s.Push(EmptyArray))
	}
	err := s.Push(EmptyArray)
	require.Error(t, err)
}

func TestTokenString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "BEGIN_OBJECT", BeginObject.String())
	require.Equal(t, "UNKNOWN", Token(-1).String())
	require.Equal(t, "UNKNOWN", Token(99).String())
}

func TestScopeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "CLOSED", Closed.String())
	require.Equal(t, "UNKNOWN", Scope(-1).String())
}
