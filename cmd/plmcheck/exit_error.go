package main

import "fmt"

// Exit codes.
const (
	ExitOK      = 0
	ExitInvalid = 1 // A manifest failed validation, or could not be loaded under --fail-on-load-error.
	ExitUsage   = 2 // Bad configuration or an unusable schema.
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
