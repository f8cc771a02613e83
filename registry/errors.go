package registry

import (
	"errors"
	"fmt"
)

// ErrNoAdapter roots every "no factory accepted this key" error.
var ErrNoAdapter = errors.New("registry: no adapter")

// ErrConflict roots every registration-time conflict (duplicate user
// methods, duplicate JSON field names, and similar).
var ErrConflict = errors.New("registry: conflicting registration")

// ConfigError is the configuration/registration error kind of the error
// model: produced at build or first-use time, never mid-stream. It
// carries the key under lookup so callers can report which type and
// qualifier set failed to resolve.
type ConfigError struct {
	Key      Key
	Msg      string
	sentinel error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("registry: %s for %s", e.Msg, e.Key)
}

func (e *ConfigError) Unwrap() error { return e.sentinel }

func newNoAdapterError(key Key) error {
	return &ConfigError{Key: key, Msg: "no factory produced an adapter", sentinel: ErrNoAdapter}
}

// NewConflictError builds a ConfigError rooted in ErrConflict, for use by
// factories (usermethod's duplicate-method detection, builtin's
// duplicate-JSON-name detection) that need to report a registration
// conflict using the same error shape the registry itself uses.
func NewConflictError(key Key, format string, args ...any) error {
	return &ConfigError{Key: key, Msg: fmt.Sprintf(format, args...), sentinel: ErrConflict}
}
