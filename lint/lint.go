// Package lint implements advisory checks over manifest components: naming
// conventions, the known component types and recommended metadata fields.
// Warnings never affect structural validity.
package lint

import (
	"fmt"
	"regexp"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/reoring/plmcheck/i18n"
	"github.com/reoring/plmcheck/internal/value"
)

// Warning codes.
const (
	CodePageCase     = "lint_page_case"
	CodeIDCase       = "lint_id_case"
	CodeTypeCase     = "lint_type_case"
	CodeUnknownType  = "lint_unknown_type"
	CodeMissingField = "lint_missing_field"
	CodeDuplicateID  = "lint_duplicate_id"
)

// Field names the linter looks at.
const (
	FieldID           = "id"
	FieldType         = "type"
	FieldDescription  = "description"
	FieldIntent       = "intent"
	FieldLLMHint      = "llmHint"
	FieldExampleInput = "exampleInput"
)

// KnownTypes is the closed set of component types.
var KnownTypes = []string{
	"input", "button", "link", "select", "checkbox", "form",
	"modal", "text", "icon_button", "numeric_input",
}

var (
	hintTypes    = []string{"button", "modal", "form"}
	exampleTypes = []string{"input", "select"}

	snakeCase      = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)*$`)
	upperCamelCase = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

// IsSnakeCase reports whether s is lower_snake_case.
func IsSnakeCase(s string) bool { return snakeCase.MatchString(s) }

// IsUpperCamelCase reports whether s is UpperCamelCase.
func IsUpperCamelCase(s string) bool { return upperCamelCase.MatchString(s) }

// Warning is one advisory finding.
type Warning struct {
	Code        string
	ComponentID string // Empty for document-level warnings.
	Message     string
}

func (w Warning) String() string { return w.Message }

// Meta carries document-level data for the linter.
type Meta struct {
	Page *string
}

// Rule is an additional per-component check. seen reports how many earlier
// components carried the same id.
type Rule func(c Component, seen int) []Warning

// Linter evaluates the advisory rules. The zero value uses KnownTypes.
type Linter struct {
	KnownTypes []string
	// Extra rules run after the built-in ones for every component.
	Extra []Rule
}

var defaultLinter = Linter{}

// Lint runs the default linter.
func Lint(components []Component, meta Meta) []Warning {
	return defaultLinter.Lint(components, meta)
}

// LintDocument extracts the components of doc and lints them.
func LintDocument(doc any) []Warning {
	return defaultLinter.LintDocument(doc)
}

// LintDocument extracts the components of doc and lints them with l.
func (l Linter) LintDocument(doc any) []Warning {
	m := Extract(doc)
	return l.Lint(m.Components, m.Meta())
}

// Lint returns warnings in a fixed order: the page-name check first, then each
// component in order with its checks in rule order.
func (l Linter) Lint(components []Component, meta Meta) []Warning {
	known := l.KnownTypes
	if known == nil {
		known = KnownTypes
	}
	var out []Warning
	if meta.Page != nil && !IsUpperCamelCase(*meta.Page) {
		out = append(out, Warning{
			Code:    CodePageCase,
			Message: i18n.T(CodePageCase, map[string]string{"page": *meta.Page}),
		})
	}
	ids := make(map[string]int, len(components))
	for _, c := range components {
		id, hasID := c.ID()
		seen := 0
		if hasID {
			seen = ids[id]
			ids[id]++
		}
		out = append(out, lintComponent(c, known, seen)...)
		for _, r := range l.Extra {
			out = append(out, r(c, seen)...)
		}
	}
	return out
}

func lintComponent(c Component, known []string, seen int) []Warning {
	label := c.Label()
	var out []Warning
	warn := func(code string, data map[string]string) {
		if data == nil {
			data = map[string]string{}
		}
		data["id"] = label
		out = append(out, Warning{Code: code, ComponentID: label, Message: i18n.T(code, data)})
	}

	id, hasID := c.ID()
	typ, hasType := c.Type()

	if hasID && !IsSnakeCase(id) {
		warn(CodeIDCase, nil)
	}
	if hasType && !IsSnakeCase(typ) {
		warn(CodeTypeCase, map[string]string{"type": typ})
	}
	if raw, ok := c[FieldType]; ok && isSet(raw) {
		if !hasType || !slices.Contains(known, typ) {
			warn(CodeUnknownType, map[string]string{"type": render(raw)})
		}
	}
	for _, f := range []string{FieldDescription, FieldIntent} {
		if !c.Has(f) {
			warn(CodeMissingField, map[string]string{"field": f})
		}
	}
	if slices.Contains(hintTypes, typ) && !c.Has(FieldLLMHint) {
		warn(CodeMissingField, map[string]string{"field": FieldLLMHint})
	}
	if slices.Contains(exampleTypes, typ) && !c.Has(FieldExampleInput) {
		warn(CodeMissingField, map[string]string{"field": FieldExampleInput})
	}
	if seen > 0 {
		warn(CodeDuplicateID, nil)
	}
	return out
}

// isSet reports whether a field value counts as given: null, false, zero,
// the empty string and empty containers do not.
func isSet(v any) bool {
	if f, ok := value.Float(v); ok {
		return f != 0
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// render formats a field value for a message: strings and numbers
// verbatim, anything else as compact JSON.
func render(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if _, ok := value.Float(v); ok {
		return fmt.Sprint(v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
