package jsonschema

import (
	"sort"
	"strings"
)

// MaxRefDepth bounds the number of references followed while evaluating a
// single document node.
const MaxRefDepth = 32

var refPrefixes = []string{"#/definitions/", "#/$defs/"}

// refName extracts the definition name from a local reference.
func refName(ref string) (string, bool) {
	for _, p := range refPrefixes {
		if strings.HasPrefix(ref, p) {
			name := strings.TrimPrefix(ref, p)
			if name == "" || strings.Contains(name, "/") {
				return "", false
			}
			return unescape(name), true
		}
	}
	return "", false
}

// Resolve looks up a local reference ("#/definitions/name" or "#/$defs/name")
// in the definitions held at the schema root.
func Resolve(ref string, root *Schema) (*Schema, error) {
	name, ok := refName(ref)
	if !ok {
		return nil, schemaErrorf("", "$ref", "unsupported reference %q (local definitions only)", ref)
	}
	def, ok := root.Root().Definitions[name]
	if !ok {
		return nil, schemaErrorf("", "$ref", "reference to undefined definition %q", name)
	}
	return def, nil
}

// Expand follows the $ref chain of s and returns the effective schema: the
// referenced schema with the local keywords of s applied on top. Schemas
// without $ref are returned unchanged.
func Expand(s *Schema) (*Schema, error) {
	return expand(s, map[string]bool{})
}

func expand(s *Schema, inProgress map[string]bool) (*Schema, error) {
	if s.Ref == "" {
		return s, nil
	}
	if len(inProgress) >= MaxRefDepth {
		return nil, schemaErrorf(s.Pointer+"/$ref", "$ref", "reference depth exceeds %d", MaxRefDepth)
	}
	name, _ := refName(s.Ref)
	if inProgress[name] {
		return nil, schemaErrorf(s.Pointer+"/$ref", "$ref", "reference cycle through %q", name)
	}
	target, err := Resolve(s.Ref, s.Root())
	if err != nil {
		err.(*SchemaError).Pointer = s.Pointer + "/$ref"
		return nil, err
	}
	inProgress[name] = true
	base, err := expand(target, inProgress)
	delete(inProgress, name)
	if err != nil {
		return nil, err
	}
	return Merge(base, s), nil
}

// checkCycles rejects definitions that reach themselves without consuming any
// document structure, i.e. through $ref and the allOf/anyOf/oneOf combinators.
// Recursion through properties, items or additionalProperties is allowed since
// each step descends into the document.
func checkCycles(root *Schema) error {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(root.Definitions))
	var visit func(name string, chain []string) error
	visit = func(name string, chain []string) error {
		switch color[name] {
		case grey:
			return schemaErrorf("", "$ref", "reference cycle: %s", strings.Join(append(chain, name), " -> "))
		case black:
			return nil
		}
		color[name] = grey
		def, ok := root.Definitions[name]
		if ok {
			for _, next := range sameNodeRefs(def, nil) {
				if err := visit(next, append(chain, name)); err != nil {
					return err
				}
			}
		}
		color[name] = black
		return nil
	}
	names := make([]string, 0, len(root.Definitions))
	for name := range root.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := visit(name, nil); err != nil {
			se := err.(*SchemaError)
			se.Pointer = root.Definitions[name].Pointer
			return se
		}
	}
	return nil
}

func sameNodeRefs(s *Schema, out []string) []string {
	if s.Ref != "" {
		if name, ok := refName(s.Ref); ok {
			out = append(out, name)
		}
	}
	for _, group := range [][]*Schema{s.AllOf, s.AnyOf, s.OneOf} {
		for _, sub := range group {
			out = sameNodeRefs(sub, out)
		}
	}
	return out
}
