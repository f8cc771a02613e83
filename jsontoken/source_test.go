package jsontoken

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSource_ReusesByteSource(t *testing.T) {
	t.Parallel()

	br := bufio.NewReader(strings.NewReader("abc"))
	src := NewSource(br)
	require.Same(t, br, src)
}

func TestIndexOfElement(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		set  string
		want int
	}{
		{"found near start", `"hello"`, `"`, 0},
		{"found after scan", "abcdefg,", ",", 7},
		{"not found", "abcdefg", ",", -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			src := bufio.NewReader(strings.NewReader(tc.in))
			got, err := IndexOfElement(src, tc.set)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
