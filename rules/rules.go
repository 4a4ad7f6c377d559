// Package rules builds additional lint rules from conditions on component
// fields, e.g. "when type is carousel, require slides". Rules plug into
// lint.Linter.Extra and may also be declared in the config file.
package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reoring/plmcheck/i18n"
	"github.com/reoring/plmcheck/internal/value"
	"github.com/reoring/plmcheck/lint"
)

// Op defines comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
	In      // want is a []any; the field value must equal one member
	Present // the field exists; want is ignored
	Absent  // the field does not exist; want is ignored
)

var opNames = map[string]Op{
	"eq": Eq, "ne": Ne, "lt": Lt, "le": Le, "gt": Gt, "ge": Ge,
	"in": In, "present": Present, "absent": Absent,
}

// ParseOp maps an operator name ("eq", "in", "present", ...) to an Op.
func ParseOp(s string) (Op, error) {
	if s == "" {
		return Eq, nil
	}
	op, ok := opNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown operator %q", s)
	}
	return op, nil
}

// Conditional composes conditions over a component.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a field of the component against a
// value. path is a JSON Pointer relative to the component ("/type", or just
// "type"; nested members like "/props/variant" are allowed).
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds reports whether the condition is satisfied by c.
func (c Conditional) Holds(comp lint.Component) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(comp) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(comp) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAtPath(map[string]any(comp), c.path)
	switch c.op {
	case Present:
		return ok
	case Absent:
		return !ok
	}
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rs ...lint.Rule) lint.Rule {
	inner := And(rs...)
	return func(comp lint.Component, seen int) []lint.Warning {
		if !c.Holds(comp) {
			return nil
		}
		return inner(comp, seen)
	}
}

// Require warns for every listed field the component lacks, using the same
// message as the built-in missing-field checks.
func Require(fields ...string) lint.Rule {
	return func(comp lint.Component, _ int) []lint.Warning {
		var out []lint.Warning
		for _, f := range fields {
			if _, ok := valueAtPath(map[string]any(comp), normalizePath(f)); ok {
				continue
			}
			label := comp.Label()
			out = append(out, lint.Warning{
				Code:        lint.CodeMissingField,
				ComponentID: label,
				Message:     i18n.T(lint.CodeMissingField, map[string]string{"id": label, "field": strings.TrimPrefix(f, "/")}),
			})
		}
		return out
	}
}

// And executes all rules and concatenates their warnings in order.
func And(rs ...lint.Rule) lint.Rule {
	return func(comp lint.Component, seen int) []lint.Warning {
		var out []lint.Warning
		for _, r := range rs {
			if r == nil {
				continue
			}
			out = append(out, r(comp, seen)...)
		}
		return out
	}
}

// Spec is the declarative form of a conditional requirement as read from the
// config file:
//
//	rules:
//	  - when:
//	      - {field: type, op: eq, value: carousel}
//	    require: [slides, autoplay]
//
// All "when" conditions must hold; an empty list applies to every component.
type Spec struct {
	When    []Cond   `mapstructure:"when"`
	Require []string `mapstructure:"require"`
}

// Cond is one condition of a Spec.
type Cond struct {
	Field string `mapstructure:"field"`
	Op    string `mapstructure:"op"`
	Value any    `mapstructure:"value"`
}

// Build converts specs into lint rules.
func Build(specs []Spec) ([]lint.Rule, error) {
	out := make([]lint.Rule, 0, len(specs))
	for i, s := range specs {
		if len(s.Require) == 0 {
			return nil, fmt.Errorf("rules[%d]: require must list at least one field", i)
		}
		conds := make([]Conditional, 0, len(s.When))
		for j, w := range s.When {
			if strings.TrimSpace(w.Field) == "" {
				return nil, fmt.Errorf("rules[%d].when[%d]: field is required", i, j)
			}
			op, err := ParseOp(w.Op)
			if err != nil {
				return nil, fmt.Errorf("rules[%d].when[%d]: %w", i, j, err)
			}
			if op == In {
				if _, ok := value.Array(w.Value); !ok {
					return nil, fmt.Errorf("rules[%d].when[%d]: operator in needs a list value", i, j)
				}
			}
			conds = append(conds, If(w.Field, op, w.Value))
		}
		req := Require(slices.Clone(s.Require)...)
		if len(conds) == 0 {
			out = append(out, req)
			continue
		}
		out = append(out, IfAll(conds...).Then(req))
	}
	return out, nil
}

// ------- helpers -------

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

// valueAtPath navigates a decoded document value by JSON Pointer.
func valueAtPath(v any, pointer string) (any, bool) {
	rel := strings.TrimPrefix(pointer, "/")
	if rel == "" {
		return v, true
	}
	cur := v
	for _, seg := range strings.Split(rel, "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		if obj, ok := value.Object(cur); ok {
			next, ok := obj[seg]
			if !ok {
				return nil, false
			}
			cur = next
			continue
		}
		if arr, ok := value.Array(cur); ok {
			idx, ok := tryParseIndex(seg)
			if !ok || idx >= len(arr) {
				return nil, false
			}
			cur = arr[idx]
			continue
		}
		return nil, false
	}
	return cur, true
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return value.Equal(cur, want)
	case Ne:
		return !value.Equal(cur, want)
	case In:
		arr, ok := value.Array(want)
		if !ok {
			return false
		}
		return slices.ContainsFunc(arr, func(w any) bool { return value.Equal(cur, w) })
	case Lt, Le, Gt, Ge:
		a, ok1 := value.Float(cur)
		b, ok2 := value.Float(want)
		if !ok1 || !ok2 {
			return false
		}
		switch op {
		case Lt:
			return a < b
		case Le:
			return a <= b
		case Gt:
			return a > b
		default:
			return a >= b
		}
	default:
		return false
	}
}

func tryParseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
