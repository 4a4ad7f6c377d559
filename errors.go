package plmcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/plmcheck/jsonschema"
)

// Violation codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeInvalidEnum   = "invalid_enum"
	CodePattern       = "pattern"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeUnionNoMatch  = "union_no_match"
	CodeOneOfMismatch = "one_of_mismatch"
	CodeFalseSchema   = "false_schema"
)

// Violation represents a single structural rule failure.
type Violation struct {
	Path    Path
	Code    string // One of the codes listed above.
	Keyword string // Schema keyword that produced the violation (e.g. "required").
	Message string
	// Params carries structured parameters (e.g., {"min":1, "got":0}) for i18n
	// and machine-readable reports.
	Params map[string]any
}

// Pointer renders the violation path as a JSON Pointer.
func (v Violation) Pointer() string { return v.Path.Pointer() }

// String formats the violation as "<path>: message".
func (v Violation) String() string { return v.Path.String() + ": " + v.Message }

// Violations is an ordered collection of structural failures. It implements
// error so callers can surface it directly, but validation always returns it as
// data.
type Violations []Violation

// Error summarizes the first few violations.
func (vs Violations) Error() string {
	if len(vs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(vs)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. required at /components/0/id
		fmt.Fprintf(b, "%s at %s", vs[i].Code, vs[i].Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsViolations extracts Violations from an error using errors.As internally.
func AsViolations(err error) (Violations, bool) {
	if err == nil {
		return nil, false
	}
	var vs Violations
	if errors.As(err, &vs) {
		return vs, true
	}
	return nil, false
}

// SchemaError reports that a schema cannot be evaluated. It never describes the
// document.
type SchemaError = jsonschema.SchemaError

// AsSchemaError extracts a *SchemaError from err.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
