package plmcheck

import (
	"strconv"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/reoring/plmcheck/i18n"
	"github.com/reoring/plmcheck/internal/value"
	"github.com/reoring/plmcheck/jsonschema"
)

// Validator matches documents against a compiled schema. A Validator is
// immutable once built and safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles a decoded schema document. The returned error is always
// a *SchemaError.
func NewValidator(schema any) (*Validator, error) {
	if s, ok := schema.(*jsonschema.Schema); ok {
		return &Validator{schema: s}, nil
	}
	s, err := jsonschema.Compile(schema)
	if err != nil {
		return nil, err
	}
	return &Validator{schema: s}, nil
}

// Schema returns the compiled schema.
func (v *Validator) Schema() *jsonschema.Schema { return v.schema }

// Validate matches doc against the schema from the root and returns the
// collected, ordered violations.
func (v *Validator) Validate(doc any) (Violations, error) {
	return v.ValidateAt(doc, Root())
}

// ValidateAt matches doc against the schema, reporting paths relative to at.
// It is useful when doc is a subtree of a larger document.
func (v *Validator) ValidateAt(doc any, at Path) (Violations, error) {
	w := &walker{}
	if err := w.eval(doc, v.schema, at, 0); err != nil {
		return nil, err
	}
	return Collect(w.out), nil
}

type walker struct {
	out []Violation
}

func (w *walker) add(p Path, code, keyword string, params map[string]any, data map[string]string) {
	w.out = append(w.out, Violation{
		Path:    p,
		Code:    code,
		Keyword: keyword,
		Message: i18n.T(code, data),
		Params:  params,
	})
}

// eval applies every keyword of s to doc at path p. refDepth counts the
// references followed without descending into the document.
func (w *walker) eval(doc any, s *jsonschema.Schema, p Path, refDepth int) error {
	if s.Ref != "" {
		refDepth++
		if refDepth > jsonschema.MaxRefDepth {
			return &jsonschema.SchemaError{Pointer: s.Pointer, Keyword: "$ref", Reason: "reference depth exceeds " + strconv.Itoa(jsonschema.MaxRefDepth)}
		}
		es, err := jsonschema.Expand(s)
		if err != nil {
			return err
		}
		s = es
	}
	if s.IsTrue() {
		return nil
	}
	if s.IsFalse() {
		w.add(p, CodeFalseSchema, "false", nil, nil)
		return nil
	}

	w.checkType(doc, s, p)
	w.checkEnum(doc, s, p)
	if str, ok := doc.(string); ok {
		w.checkString(str, s, p)
	} else if f, ok := value.Float(doc); ok {
		w.checkNumber(f, doc, s, p)
	}
	if obj, ok := value.Object(doc); ok {
		if err := w.checkObject(obj, s, p); err != nil {
			return err
		}
	}
	if arr, ok := value.Array(doc); ok && s.Items != nil {
		for i, el := range arr {
			if err := w.eval(el, s.Items, p.Index(i), 0); err != nil {
				return err
			}
		}
	}
	return w.checkCombinators(doc, s, p, refDepth)
}

func (w *walker) checkType(doc any, s *jsonschema.Schema, p Path) {
	if len(s.Types) == 0 {
		return
	}
	for _, t := range s.Types {
		if value.MatchesKind(doc, t) {
			return
		}
	}
	actual := value.Kind(doc)
	if actual == "" {
		actual = "unsupported value"
	}
	w.add(p, CodeInvalidType, "type",
		map[string]any{"expected": s.Types, "actual": actual},
		map[string]string{"expected": strings.Join(s.Types, " or "), "actual": actual})
}

func (w *walker) checkEnum(doc any, s *jsonschema.Schema, p Path) {
	if !s.HasEnum {
		return
	}
	for _, want := range s.Enum {
		if value.Equal(doc, want) {
			return
		}
	}
	w.add(p, CodeInvalidEnum, "enum",
		map[string]any{"allowed": s.Enum, "got": doc},
		map[string]string{"allowed": render(s.Enum), "got": render(doc)})
}

func (w *walker) checkString(str string, s *jsonschema.Schema, p Path) {
	if s.Pattern != nil && !s.Pattern.MatchString(str) {
		w.add(p, CodePattern, "pattern",
			map[string]any{"pattern": s.PatternSource, "got": str},
			map[string]string{"pattern": strconv.Quote(s.PatternSource), "got": strconv.Quote(str)})
	}
	n := utf8.RuneCountInString(str)
	if s.MinLength != nil && n < *s.MinLength {
		w.add(p, CodeTooShort, "minLength",
			map[string]any{"min": *s.MinLength, "got": n},
			map[string]string{"min": strconv.Itoa(*s.MinLength), "got": strconv.Itoa(n)})
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		w.add(p, CodeTooLong, "maxLength",
			map[string]any{"max": *s.MaxLength, "got": n},
			map[string]string{"max": strconv.Itoa(*s.MaxLength), "got": strconv.Itoa(n)})
	}
}

func (w *walker) checkNumber(f float64, raw any, s *jsonschema.Schema, p Path) {
	if s.Minimum != nil && f < *s.Minimum {
		w.add(p, CodeTooSmall, "minimum",
			map[string]any{"min": *s.Minimum, "got": f},
			map[string]string{"min": formatFloat(*s.Minimum), "got": render(raw)})
	}
	if s.Maximum != nil && f > *s.Maximum {
		w.add(p, CodeTooBig, "maximum",
			map[string]any{"max": *s.Maximum, "got": f},
			map[string]string{"max": formatFloat(*s.Maximum), "got": render(raw)})
	}
}

func (w *walker) checkObject(obj map[string]any, s *jsonschema.Schema, p Path) error {
	for _, key := range s.Required {
		if _, ok := obj[key]; !ok {
			w.add(p.Key(key), CodeRequired, "required",
				map[string]any{"key": key},
				map[string]string{"key": key})
		}
	}
	for _, key := range s.PropertyOrder {
		child, ok := obj[key]
		if !ok {
			continue
		}
		if err := w.eval(child, s.Properties[key], p.Key(key), 0); err != nil {
			return err
		}
	}
	if s.AdditionalProperties == nil {
		return nil
	}
	for _, key := range sortedKeys(obj) {
		if _, declared := s.Properties[key]; declared {
			continue
		}
		if s.AdditionalProperties.IsFalse() {
			w.add(p.Key(key), CodeUnknownKey, "additionalProperties",
				map[string]any{"key": key},
				map[string]string{"key": key})
			continue
		}
		if err := w.eval(obj[key], s.AdditionalProperties, p.Key(key), 0); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) checkCombinators(doc any, s *jsonschema.Schema, p Path, refDepth int) error {
	// allOf is not short-circuited: every failing branch reports.
	for _, sub := range s.AllOf {
		if err := w.eval(doc, sub, p, refDepth); err != nil {
			return err
		}
	}
	if len(s.AnyOf) > 0 {
		matched, err := countMatches(doc, s.AnyOf, p, refDepth, 1)
		if err != nil {
			return err
		}
		if matched == 0 {
			n := len(s.AnyOf)
			w.add(p, CodeUnionNoMatch, "anyOf",
				map[string]any{"count": n},
				map[string]string{"count": strconv.Itoa(n)})
		}
	}
	if len(s.OneOf) > 0 {
		matched, err := countMatches(doc, s.OneOf, p, refDepth, 0)
		if err != nil {
			return err
		}
		if matched != 1 {
			n := len(s.OneOf)
			w.add(p, CodeOneOfMismatch, "oneOf",
				map[string]any{"count": n, "matched": matched},
				map[string]string{"count": strconv.Itoa(n), "matched": strconv.Itoa(matched)})
		}
	}
	return nil
}

// countMatches evaluates each alternative in isolation and counts those that
// produce no violation. A positive stopAt ends the scan once reached.
func countMatches(doc any, alts []*jsonschema.Schema, p Path, refDepth, stopAt int) (int, error) {
	matched := 0
	for _, alt := range alts {
		sub := &walker{}
		if err := sub.eval(doc, alt, p, refDepth); err != nil {
			return 0, err
		}
		if len(sub.out) == 0 {
			matched++
			if stopAt > 0 && matched >= stopAt {
				break
			}
		}
	}
	return matched, nil
}

// render formats a document value for messages, JSON style.
func render(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<unprintable>"
	}
	return string(b)
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
