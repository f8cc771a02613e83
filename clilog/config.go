package clilog

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"
)

// Config holds the CLI flag values for log configuration, patterned on
// the RegisterFlags/NewHandler split used throughout the rest of the
// pack's Cobra commands.
type Config struct {
	Level  string
	Format string
}

// NewConfig returns a Config with the defaults RegisterFlags will bind
// flags against.
func NewConfig() *Config {
	return &Config{Level: "info", Format: "text"}
}

// RegisterFlags adds --log-level and --log-format flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, "log-level", c.Level, "log level, one of: error, warn, info, debug")
	flags.StringVar(&c.Format, "log-format", c.Format,
		fmt.Sprintf("log format, one of: %s, %s", FormatJSON, FormatText))
}

// NewHandler builds a slog.Handler from c's current flag values.
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandler(w, c.Level, c.Format)
}
