package transform

import (
	"strings"

	"github.com/danhawkins/streamjson/jsonreader"
	"github.com/danhawkins/streamjson/jsontree"
)

// inferScalar classifies a raw CSV cell as a JSON scalar using the
// project's own tokenizer: an empty cell becomes null, and text that
// parses as a single complete JSON scalar (a number, a bool, null, or a
// quoted string) with nothing after it keeps that shape. Anything else, including text that happens to
// look like a JSON array or object, is carried through as a plain JSON
// string so no data is silently reinterpreted.
func inferScalar(cell string) *jsontree.Value {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return jsontree.Null()
	}
	r := jsonreader.New(strings.NewReader(trimmed), jsonreader.Options{})
	v, err := r.ReadValue()
	if err != nil {
		return jsontree.String(cell)
	}
	if _, err := r.Peek(); err != nil {
		return jsontree.String(cell)
	}
	if err := r.Close(); err != nil {
		return jsontree.String(cell)
	}
	switch v.Kind() {
	case jsontree.KindArray, jsontree.KindObject:
		return jsontree.String(cell)
	default:
		return v
	}
}
