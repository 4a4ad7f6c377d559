package jsonschema

import "fmt"

// SchemaError reports that a schema cannot be evaluated: a keyword carries a
// value of the wrong shape, a reference names an undefined definition, or
// definitions reference each other in a cycle.
type SchemaError struct {
	Pointer string // JSON Pointer into the schema document.
	Keyword string
	Reason  string
	Err     error // Optional: underlying error (e.g. regexp syntax).
}

func (e *SchemaError) Error() string {
	ptr := e.Pointer
	if ptr == "" {
		ptr = "/"
	}
	if e.Keyword != "" {
		return fmt.Sprintf("schema error at %s (%s): %s", ptr, e.Keyword, e.Reason)
	}
	return fmt.Sprintf("schema error at %s: %s", ptr, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func schemaErrorf(ptr, keyword, format string, a ...any) *SchemaError {
	return &SchemaError{Pointer: ptr, Keyword: keyword, Reason: fmt.Sprintf(format, a...)}
}
