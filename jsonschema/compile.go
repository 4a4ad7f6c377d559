package jsonschema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/plmcheck/internal/value"
)

// Compile converts a decoded schema document into a Schema tree. It checks
// the shape of every recognized keyword, resolves local references and rejects
// reference cycles, so a successfully compiled schema can be evaluated against
// any document without schema errors. Unrecognized keywords are ignored.
func Compile(raw any) (*Schema, error) {
	c := &compiler{}
	root, err := c.compile(raw, "")
	if err != nil {
		return nil, err
	}
	if m, ok := raw.(map[string]any); ok {
		defs, err := c.compileDefinitions(m)
		if err != nil {
			return nil, err
		}
		root.Definitions = defs
	}
	c.setRoot(root)
	for _, r := range c.refs {
		if _, err := Resolve(r.Ref, root); err != nil {
			err.(*SchemaError).Pointer = r.Pointer + "/$ref"
			return nil, err
		}
	}
	if err := checkCycles(root); err != nil {
		return nil, err
	}
	return root, nil
}

// MustCompile is like Compile but panics on error. Intended for schemas that
// are embedded in programs and tests.
func MustCompile(raw any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

type compiler struct {
	refs  []*Schema
	nodes []*Schema
}

func (c *compiler) setRoot(root *Schema) {
	for _, n := range c.nodes {
		if n != root {
			n.root = root
		}
	}
}

func (c *compiler) compileDefinitions(m map[string]any) (map[string]*Schema, error) {
	var defs map[string]*Schema
	// definitions first so that $defs wins on a name clash
	for _, kw := range []string{"definitions", "$defs"} {
		raw, ok := m[kw]
		if !ok {
			continue
		}
		dm, ok := raw.(map[string]any)
		if !ok {
			return nil, schemaErrorf("/"+escape(kw), kw, "must be an object")
		}
		if defs == nil {
			defs = make(map[string]*Schema, len(dm))
		}
		for _, name := range sortedKeys(dm) {
			s, err := c.compile(dm[name], "/"+escape(kw)+"/"+escape(name))
			if err != nil {
				return nil, err
			}
			defs[name] = s
		}
	}
	return defs, nil
}

func (c *compiler) compile(raw any, ptr string) (*Schema, error) {
	s := &Schema{Pointer: ptr}
	c.nodes = append(c.nodes, s)
	switch t := raw.(type) {
	case bool:
		b := t
		s.Bool = &b
		return s, nil
	case map[string]any:
		if err := c.compileObject(s, t, ptr); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, schemaErrorf(ptr, "", "schema must be an object or a boolean, got %s", kindOf(raw))
	}
}

func (c *compiler) compileObject(s *Schema, m map[string]any, ptr string) error {
	at := func(kw string) string { return ptr + "/" + escape(kw) }

	if raw, ok := m["$ref"]; ok {
		ref, ok := raw.(string)
		if !ok {
			return schemaErrorf(at("$ref"), "$ref", "must be a string")
		}
		s.Ref = ref
		c.refs = append(c.refs, s)
	}
	if raw, ok := m["type"]; ok {
		types, err := compileTypes(raw, at("type"))
		if err != nil {
			return err
		}
		s.Types = types
	}
	if raw, ok := m["enum"]; ok {
		arr, ok := raw.([]any)
		if !ok {
			return schemaErrorf(at("enum"), "enum", "must be an array")
		}
		s.Enum, s.HasEnum = arr, true
	}
	if raw, ok := m["pattern"]; ok {
		src, ok := raw.(string)
		if !ok {
			return schemaErrorf(at("pattern"), "pattern", "must be a string")
		}
		re, err := regexp.Compile("^(?:" + src + ")$")
		if err != nil {
			se := schemaErrorf(at("pattern"), "pattern", "invalid regular expression %q", src)
			se.Err = err
			return se
		}
		s.Pattern, s.PatternSource = re, src
	}
	var err error
	if s.MinLength, err = compileCount(m, "minLength", at); err != nil {
		return err
	}
	if s.MaxLength, err = compileCount(m, "maxLength", at); err != nil {
		return err
	}
	if s.Minimum, err = compileNumber(m, "minimum", at); err != nil {
		return err
	}
	if s.Maximum, err = compileNumber(m, "maximum", at); err != nil {
		return err
	}
	if raw, ok := m["required"]; ok {
		arr, ok := raw.([]any)
		if !ok {
			return schemaErrorf(at("required"), "required", "must be an array of strings")
		}
		names := make([]string, 0, len(arr))
		for i, it := range arr {
			name, ok := it.(string)
			if !ok {
				return schemaErrorf(at("required")+"/"+strconv.Itoa(i), "required", "must be a string")
			}
			names = append(names, name)
		}
		s.Required = names
	}
	if raw, ok := m["properties"]; ok {
		pm, ok := raw.(map[string]any)
		if !ok {
			return schemaErrorf(at("properties"), "properties", "must be an object")
		}
		s.Properties = make(map[string]*Schema, len(pm))
		s.PropertyOrder = sortedKeys(pm)
		for _, name := range s.PropertyOrder {
			sub, err := c.compile(pm[name], at("properties")+"/"+escape(name))
			if err != nil {
				return err
			}
			s.Properties[name] = sub
		}
	}
	if raw, ok := m["additionalProperties"]; ok {
		sub, err := c.compile(raw, at("additionalProperties"))
		if err != nil {
			return err
		}
		// additionalProperties: true is the same as leaving it out
		if !sub.IsTrue() {
			s.AdditionalProperties = sub
		}
	}
	if raw, ok := m["items"]; ok {
		if _, isArr := raw.([]any); isArr {
			return schemaErrorf(at("items"), "items", "tuple form is not supported; use a single schema")
		}
		sub, err := c.compile(raw, at("items"))
		if err != nil {
			return err
		}
		s.Items = sub
	}
	for _, kw := range []string{"allOf", "anyOf", "oneOf"} {
		raw, ok := m[kw]
		if !ok {
			continue
		}
		subs, err := c.compileList(raw, kw, at(kw))
		if err != nil {
			return err
		}
		switch kw {
		case "allOf":
			s.AllOf = subs
		case "anyOf":
			s.AnyOf = subs
		case "oneOf":
			s.OneOf = subs
		}
	}
	return nil
}

func (c *compiler) compileList(raw any, kw, ptr string) ([]*Schema, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) == 0 {
		return nil, schemaErrorf(ptr, kw, "must be a non-empty array of schemas")
	}
	subs := make([]*Schema, 0, len(arr))
	for i, it := range arr {
		sub, err := c.compile(it, ptr+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func compileTypes(raw any, ptr string) ([]string, error) {
	var names []string
	switch t := raw.(type) {
	case string:
		names = []string{t}
	case []any:
		if len(t) == 0 {
			return nil, schemaErrorf(ptr, "type", "must not be an empty array")
		}
		for i, it := range t {
			name, ok := it.(string)
			if !ok {
				return nil, schemaErrorf(ptr+"/"+strconv.Itoa(i), "type", "must be a string")
			}
			names = append(names, name)
		}
	default:
		return nil, schemaErrorf(ptr, "type", "must be a string or an array of strings")
	}
	for _, name := range names {
		if !value.KnownKind(name) {
			return nil, schemaErrorf(ptr, "type", "unknown type %q", name)
		}
	}
	return names, nil
}

func compileCount(m map[string]any, kw string, at func(string) string) (*int, error) {
	raw, ok := m[kw]
	if !ok {
		return nil, nil
	}
	f, ok := value.Float(raw)
	if !ok || !value.IsIntegral(f) || f < 0 {
		return nil, schemaErrorf(at(kw), kw, "must be a non-negative integer")
	}
	// Counts beyond the int range cannot be reached by any document.
	n := math.MaxInt
	if f < float64(math.MaxInt) {
		n = int(f)
	}
	return &n, nil
}

func compileNumber(m map[string]any, kw string, at func(string) string) (*float64, error) {
	raw, ok := m[kw]
	if !ok {
		return nil, nil
	}
	f, ok := value.Float(raw)
	if !ok {
		return nil, schemaErrorf(at(kw), kw, "must be a number")
	}
	return &f, nil
}

func kindOf(v any) string {
	if k := value.Kind(v); k != "" {
		return k
	}
	return fmt.Sprintf("%T", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// escape applies RFC 6901 escaping to a single pointer token.
func escape(tok string) string {
	return strings.ReplaceAll(strings.ReplaceAll(tok, "~", "~0"), "/", "~1")
}

func unescape(tok string) string {
	return strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
}
