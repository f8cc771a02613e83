package jsontoken

import (
	"errors"
	"fmt"
)

// Sentinels so callers can errors.Is against a whole error family without
// caring about the exact wrapped message, mirroring the way
// openers.ErrType-style sentinels are used elsewhere in this repo's lineage.
var (
	// ErrSyntax roots every malformed-input / unexpected-token error
	// produced by a Reader or the lookahead scanner.
	ErrSyntax = errors.New("jsontoken: syntax error")
	// ErrData roots every well-formed-but-unbindable error: wrong token
	// kind, numeric out of range, unknown name under fail-on-unknown,
	// duplicate key, null where non-null is required.
	ErrData = errors.New("jsontoken: data error")
	// ErrNesting roots depth-limit and unbalanced-scope errors.
	ErrNesting = errors.New("jsontoken: nesting error")
)

// SyntaxError reports malformed bytes or a token that cannot occur at the
// current scope. It always carries the JsonPath at the point of failure.
type SyntaxError struct {
	Path string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrSyntax, e.Path, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// NewSyntaxError builds a SyntaxError for the given path.
func NewSyntaxError(path, format string, args ...any) error {
	return &SyntaxError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// DataError reports a token of the wrong kind, an out-of-range number, an
// unknown name rejected under fail-on-unknown, a duplicate key, or a null
// where a non-null value was required.
type DataError struct {
	Path string
	Msg  string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrData, e.Path, e.Msg)
}

func (e *DataError) Unwrap() error { return ErrData }

// NewDataError builds a DataError for the given path.
func NewDataError(path, format string, args ...any) error {
	return &DataError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// NestingError reports a stack depth or balance violation.
type NestingError struct {
	Path string
	Msg  string
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrNesting, e.Path, e.Msg)
}

func (e *NestingError) Unwrap() error { return ErrNesting }

// NewNestingError builds a NestingError for the given path.
func NewNestingError(path, format string, args ...any) error {
	return &NestingError{Path: path, Msg: fmt.Sprintf(format, args...)}
}
