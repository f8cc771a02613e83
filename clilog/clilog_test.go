package clilog

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevel_ParsesKnownLevels(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"error":   slog.LevelError,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
	}
	for in, want := range cases {
		got, err := Level(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestLevel_UnknownFails(t *testing.T) {
	t.Parallel()

	_, err := Level("trace")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownLevel))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	got, err := ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, got)

	_, err = ParseFormat("yaml")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestNewHandler_JSONEmitsStructuredLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h, err := NewHandler(&buf, "info", "json")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Info("hello", "k", "v")
	require.Contains(t, buf.String(), `"msg":"hello"`)
	require.Contains(t, buf.String(), `"k":"v"`)
}

func TestNewHandler_RespectsLevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h, err := NewHandler(&buf, "warn", "text")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Info("should be filtered")
	require.Empty(t, buf.String())

	logger.Warn("should appear")
	require.Contains(t, buf.String(), "should appear")
}

func TestNewHandler_InvalidLevelFails(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := NewHandler(&buf, "verbose", "text")
	require.Error(t, err)
}
