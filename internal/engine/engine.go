package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
}

// DuplicateStrictness controls duplicate key handling while decoding.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.Path + ": " + e.Message }

// DecodeOptions controls duplicate key handling and nesting limits.
type DecodeOptions struct {
	OnDuplicate DuplicateStrictness
	// MaxDepth limits container nesting; 0 disables the check.
	MaxDepth int
	// IssueSink receives non-fatal issues (duplicate keys under DupWarn).
	IssueSink func(SimpleIssue)
}

// ErrTrailingData is returned when input continues after the first value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Decode builds a document value ([]any, map[string]any, string,
// json.Number, bool, nil) from src. For duplicate keys the last value wins
// unless OnDuplicate is DupError.
func Decode(src TokenSource, opt DecodeOptions) (any, error) {
	d := &decoder{src: src, opt: opt}
	tok, err := src.NextToken()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := d.value(tok, "", 0)
	if err != nil {
		return nil, err
	}
	if _, err := src.NextToken(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

type decoder struct {
	src TokenSource
	opt DecodeOptions
}

func (d *decoder) value(tok Token, path string, depth int) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return d.object(path, depth+1)
	case KindBeginArray:
		return d.array(path, depth+1)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return json.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func (d *decoder) checkDepth(path string, depth int) error {
	if d.opt.MaxDepth > 0 && depth > d.opt.MaxDepth {
		return IssueError{SimpleIssue{Code: "too_deep", Path: pointerOrRoot(path), Message: fmt.Sprintf("nesting depth exceeds %d", d.opt.MaxDepth)}}
	}
	return nil
}

func (d *decoder) object(path string, depth int) (any, error) {
	if err := d.checkDepth(path, depth); err != nil {
		return nil, err
	}
	m := make(map[string]any)
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		key := tok.String
		childPath := path + "/" + escape(key)
		if _, dup := m[key]; dup {
			issue := SimpleIssue{Code: "duplicate_key", Path: pointerOrRoot(path), Message: "key '" + key + "' duplicated"}
			switch d.opt.OnDuplicate {
			case DupError:
				return nil, IssueError{issue}
			case DupWarn:
				if d.opt.IssueSink != nil {
					d.opt.IssueSink(issue)
				}
			}
		}
		vt, err := d.src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		v, err := d.value(vt, childPath, depth)
		if err != nil {
			return nil, err
		}
		m[key] = v
	}
}

func (d *decoder) array(path string, depth int) (any, error) {
	if err := d.checkDepth(path, depth); err != nil {
		return nil, err
	}
	arr := []any{}
	for i := 0; ; i++ {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, unexpected(err)
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := d.value(tok, path+"/"+strconv.Itoa(i), depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// escape applies RFC 6901 escaping ('~' -> '~0', '/' -> '~1').
func escape(tok string) string {
	return strings.ReplaceAll(strings.ReplaceAll(tok, "~", "~0"), "/", "~1")
}
