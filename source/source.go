// Package source loads manifest and schema documents from JSON or YAML into
// the decoded value tree consumed by the validator and the linter.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	eng "github.com/reoring/plmcheck/internal/engine"
)

// Format selects the decoder.
type Format int

const (
	FormatAuto Format = iota // Pick by file extension, JSON otherwise.
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// FormatFor returns the format implied by a file name.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Severity expresses how a loader condition is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// ParseSeverity maps "ignore", "warn" and "error" to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore", "":
		return Ignore, nil
	case "warn":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return Ignore, fmt.Errorf("unknown severity %q (want ignore, warn or error)", s)
}

// Issue is a non-fatal loader finding such as a duplicate JSON key.
type Issue struct {
	Code    string
	Path    string // JSON Pointer of the containing object.
	Message string
}

// Options controls decoding.
type Options struct {
	Format Format
	// OnDuplicateKey applies to JSON input; YAML always rejects duplicates.
	OnDuplicateKey Severity
	// MaxDepth limits JSON nesting; 0 disables the check.
	MaxDepth int
	// OnIssue receives non-fatal issues (duplicate keys under Warn).
	OnIssue func(Issue)
}

// LoadFile reads and decodes a file. Errors are always *LoadError.
func LoadFile(path string, opt Options) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "read", Err: err}
	}
	if opt.Format == FormatAuto {
		opt.Format = FormatFor(path)
	}
	v, err := Decode(data, opt)
	if err != nil {
		if le, ok := AsLoadError(err); ok {
			le.Path = path
		}
		return nil, err
	}
	return v, nil
}

// Decode decodes in-memory input. FormatAuto is treated as JSON.
func Decode(data []byte, opt Options) (any, error) {
	var (
		v   any
		err error
	)
	switch opt.Format {
	case FormatYAML:
		v, err = decodeYAML(data)
	default:
		v, err = eng.Decode(eng.NewJSONBytes(data), eng.DecodeOptions{
			OnDuplicate: toEngineDup(opt.OnDuplicateKey),
			MaxDepth:    opt.MaxDepth,
			IssueSink:   forward(opt.OnIssue),
		})
	}
	if err != nil {
		return nil, &LoadError{Op: "decode", Err: err}
	}
	return v, nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func forward(sink func(Issue)) func(eng.SimpleIssue) {
	if sink == nil {
		return nil
	}
	return func(si eng.SimpleIssue) {
		sink(Issue{Code: si.Code, Path: si.Path, Message: si.Message})
	}
}
