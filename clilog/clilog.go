// Package clilog builds a slog.Handler from CLI-supplied level/format
// strings for the jflow command.
package clilog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

var (
	ErrUnknownLevel  = errors.New("clilog: unknown log level")
	ErrUnknownFormat = errors.New("clilog: unknown log format")
)

// Level parses a level string into a slog.Level.
func Level(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// ParseFormat parses a format string into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// NewHandler builds a slog.Handler writing to w at the given level and
// format.
func NewHandler(w io.Writer, levelStr, formatStr string) (slog.Handler, error) {
	lvl, err := Level(levelStr)
	if err != nil {
		return nil, err
	}
	fmtv, err := ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if fmtv == FormatJSON {
		return slog.NewJSONHandler(w, opts), nil
	}
	return slog.NewTextHandler(w, opts), nil
}
