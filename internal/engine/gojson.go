package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

// goJSONSource adapts the go-json streaming decoder to TokenSource. go-json
// reports keys and string values alike, so a container stack tracks whether
// the next string inside an object is a key.
type goJSONSource struct {
	dec   *j.Decoder
	stack []frame
	err   error // reported by the first NextToken
}

// ErrSyntax reports malformed JSON such as a missing comma or colon, or a
// trailing comma.
var ErrSyntax = errors.New("invalid JSON syntax")

// NewJSONReader wraps an io.Reader into a TokenSource backed by go-json. The
// input is read in full and checked with go-json's validator first:
// Decoder.Token does not verify separators.
func NewJSONReader(r io.Reader) TokenSource {
	b, err := io.ReadAll(r)
	if err != nil {
		return &goJSONSource{err: err}
	}
	return NewJSONBytes(b)
}

// NewJSONBytes wraps a byte slice into a TokenSource backed by go-json.
func NewJSONBytes(b []byte) TokenSource {
	if len(bytes.TrimSpace(b)) > 0 && !j.Valid(b) {
		return &goJSONSource{err: syntaxError(b)}
	}
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return &goJSONSource{dec: dec}
}

// syntaxError recovers go-json's positioned message for invalid input.
func syntaxError(b []byte) error {
	var v any
	if err := j.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return ErrSyntax
}

// valueDone marks the end of a value inside an object so the next string is
// read as a key again.
func (s *goJSONSource) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *goJSONSource) NextToken() (Token, error) {
	if s.err != nil {
		return Token{}, s.err
	}
	tok, err := s.dec.Token()
	if err != nil {
		return Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return Token{Kind: KindBeginObject}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return Token{Kind: KindBeginArray}, nil
		case '}', ']':
			if n := len(s.stack); n > 0 {
				s.stack = s.stack[:n-1]
			}
			s.valueDone()
			if v == '}' {
				return Token{Kind: KindEndObject}, nil
			}
			return Token{Kind: KindEndArray}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return Token{Kind: KindKey, String: v}, nil
			}
		}
		s.valueDone()
		return Token{Kind: KindString, String: v}, nil
	case bool:
		s.valueDone()
		return Token{Kind: KindBool, Bool: v}, nil
	case j.Number:
		s.valueDone()
		return Token{Kind: KindNumber, Number: string(v)}, nil
	case float64:
		s.valueDone()
		return Token{Kind: KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case nil:
		s.valueDone()
		return Token{Kind: KindNull}, nil
	}
	s.valueDone()
	return Token{Kind: KindNull}, nil
}
