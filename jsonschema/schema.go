package jsonschema

import "regexp"

// Schema is the compiled form of a draft-07 schema node restricted to the
// keyword subset the validator evaluates. Keywords that were absent in the
// source are left at their zero value; presence is tracked where zero is a
// meaningful constraint.
type Schema struct {
	// Pointer is the location of this node inside the schema document.
	Pointer string

	// Bool is set for boolean schemas: true accepts everything, false nothing.
	Bool *bool

	// Ref holds the local reference ("#/definitions/name") when present.
	Ref string

	// Core
	Types   []string
	Enum    []any
	HasEnum bool

	// String
	Pattern       *regexp.Regexp
	PatternSource string
	MinLength     *int
	MaxLength     *int

	// Number
	Minimum *float64
	Maximum *float64

	// Object
	Properties map[string]*Schema
	// PropertyOrder lists Properties keys in sorted order for deterministic walks.
	PropertyOrder []string
	Required      []string
	// AdditionalProperties is nil when unconstrained. A boolean false schema
	// rejects every undeclared key.
	AdditionalProperties *Schema

	// Array
	Items *Schema

	// Combinators
	AllOf []*Schema
	AnyOf []*Schema
	OneOf []*Schema

	// Definitions is only populated on the root node.
	Definitions map[string]*Schema

	root *Schema
}

// Root returns the root of the compiled schema tree this node belongs to.
func (s *Schema) Root() *Schema {
	if s.root == nil {
		return s
	}
	return s.root
}

// IsTrue reports whether s is the boolean schema true.
func (s *Schema) IsTrue() bool { return s.Bool != nil && *s.Bool }

// IsFalse reports whether s is the boolean schema false.
func (s *Schema) IsFalse() bool { return s.Bool != nil && !*s.Bool }

// Merge returns a shallow copy of base with every keyword set on local
// replacing the corresponding keyword of base. The result carries no $ref.
func Merge(base, local *Schema) *Schema {
	if base.IsTrue() {
		out := *local
		out.Ref = ""
		return &out
	}
	if base.IsFalse() {
		return base
	}
	out := *base
	out.Ref = ""
	out.Pointer = local.Pointer
	if local.Types != nil {
		out.Types = local.Types
	}
	if local.HasEnum {
		out.Enum, out.HasEnum = local.Enum, true
	}
	if local.Pattern != nil {
		out.Pattern, out.PatternSource = local.Pattern, local.PatternSource
	}
	if local.MinLength != nil {
		out.MinLength = local.MinLength
	}
	if local.MaxLength != nil {
		out.MaxLength = local.MaxLength
	}
	if local.Minimum != nil {
		out.Minimum = local.Minimum
	}
	if local.Maximum != nil {
		out.Maximum = local.Maximum
	}
	if local.Properties != nil {
		out.Properties, out.PropertyOrder = local.Properties, local.PropertyOrder
	}
	if local.Required != nil {
		out.Required = local.Required
	}
	if local.AdditionalProperties != nil {
		out.AdditionalProperties = local.AdditionalProperties
	}
	if local.Items != nil {
		out.Items = local.Items
	}
	if local.AllOf != nil {
		out.AllOf = local.AllOf
	}
	if local.AnyOf != nil {
		out.AnyOf = local.AnyOf
	}
	if local.OneOf != nil {
		out.OneOf = local.OneOf
	}
	return &out
}
