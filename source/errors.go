package source

import (
	"errors"
	"fmt"
)

// LoadError reports that a file could not be read or decoded. It is distinct
// from schema errors and from validation results: the document never reached
// the validator.
type LoadError struct {
	Path string // File path, empty for in-memory input.
	Op   string // "read" or "decode".
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("could not %s input: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("could not %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AsLoadError extracts a *LoadError from err.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
