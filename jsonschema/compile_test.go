package jsonschema_test

import (
	"encoding/json"
	"errors"
	"math"
	"regexp/syntax"
	"strings"
	"testing"

	"github.com/reoring/plmcheck/jsonschema"
)

func decode(t *testing.T, js string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(js), &v); err != nil {
		t.Fatalf("unmarshal %s: %v", js, err)
	}
	return v
}

func compileErr(t *testing.T, js string) *jsonschema.SchemaError {
	t.Helper()
	_, err := jsonschema.Compile(decode(t, js))
	var se *jsonschema.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError for %s, got %v", js, err)
	}
	return se
}

func TestCompile_Keywords(t *testing.T) {
	s, err := jsonschema.Compile(decode(t, `{
		"type": ["string", "null"],
		"enum": ["a", null],
		"pattern": "[a-z]+",
		"minLength": 1,
		"maxLength": 8,
		"properties": {"b": {}, "a": true},
		"required": ["a"],
		"additionalProperties": false,
		"title": "ignored"
	}`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(s.Types) != 2 || !s.HasEnum || len(s.Enum) != 2 {
		t.Fatalf("unexpected core keywords: %+v", s)
	}
	if !s.Pattern.MatchString("abc") || s.Pattern.MatchString("abc1") {
		t.Fatalf("pattern should be anchored")
	}
	if *s.MinLength != 1 || *s.MaxLength != 8 {
		t.Fatalf("unexpected lengths")
	}
	if strings.Join(s.PropertyOrder, ",") != "a,b" {
		t.Fatalf("properties should be sorted, got %v", s.PropertyOrder)
	}
	if s.AdditionalProperties == nil || !s.AdditionalProperties.IsFalse() {
		t.Fatalf("additionalProperties false lost")
	}
	if p := s.Properties["b"].Pointer; p != "/properties/b" {
		t.Fatalf("unexpected pointer %q", p)
	}
}

func TestCompile_AdditionalPropertiesTrueIsUnconstrained(t *testing.T) {
	s := jsonschema.MustCompile(decode(t, `{"additionalProperties": true}`))
	if s.AdditionalProperties != nil {
		t.Fatalf("expected nil AdditionalProperties")
	}
}

func TestCompile_BooleanRoot(t *testing.T) {
	if !jsonschema.MustCompile(true).IsTrue() || !jsonschema.MustCompile(false).IsFalse() {
		t.Fatalf("boolean schemas not recognized")
	}
}

func TestCompile_ShapeErrors(t *testing.T) {
	cases := []struct {
		schema  string
		pointer string
		keyword string
	}{
		{`{"type": 3}`, "/type", "type"},
		{`{"type": []}`, "/type", "type"},
		{`{"type": "text"}`, "/type", "type"},
		{`{"enum": "a"}`, "/enum", "enum"},
		{`{"pattern": 1}`, "/pattern", "pattern"},
		{`{"minLength": 1.5}`, "/minLength", "minLength"},
		{`{"maxLength": "3"}`, "/maxLength", "maxLength"},
		{`{"minimum": "0"}`, "/minimum", "minimum"},
		{`{"required": ["a", 1]}`, "/required/1", "required"},
		{`{"properties": []}`, "/properties", "properties"},
		{`{"properties": {"a": {"type": 1}}}`, "/properties/a/type", "type"},
		{`{"items": [{}]}`, "/items", "items"},
		{`{"allOf": {}}`, "/allOf", "allOf"},
		{`{"oneOf": [{}, 2]}`, "/oneOf/1", ""},
		{`{"$ref": 5}`, "/$ref", "$ref"},
		{`{"definitions": []}`, "/definitions", "definitions"},
	}
	for _, tc := range cases {
		se := compileErr(t, tc.schema)
		if se.Pointer != tc.pointer || se.Keyword != tc.keyword {
			t.Fatalf("%s: got pointer %q keyword %q, want %q %q (%v)", tc.schema, se.Pointer, se.Keyword, tc.pointer, tc.keyword, se)
		}
	}
}

func TestCompile_InvalidPatternWrapsRegexpError(t *testing.T) {
	se := compileErr(t, `{"pattern": "(unclosed"}`)
	var syn *syntax.Error
	if !errors.As(se, &syn) {
		t.Fatalf("expected wrapped *syntax.Error, got %v", se.Err)
	}
}

func TestCompile_References(t *testing.T) {
	s, err := jsonschema.Compile(decode(t, `{
		"definitions": {"id": {"type": "string"}},
		"$defs": {"name": {"type": "string", "maxLength": 3}},
		"properties": {"a": {"$ref": "#/definitions/id"}, "b": {"$ref": "#/$defs/name", "maxLength": 5}}
	}`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b, err := jsonschema.Expand(s.Properties["b"])
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if b.Ref != "" || len(b.Types) != 1 || *b.MaxLength != 5 {
		t.Fatalf("unexpected merge result: %+v", b)
	}
	if b.Pointer != "/properties/b" {
		t.Fatalf("merged schema should keep the local pointer, got %q", b.Pointer)
	}
}

func TestCompile_DefsWinsOverDefinitions(t *testing.T) {
	s := jsonschema.MustCompile(decode(t, `{
		"definitions": {"x": {"type": "string"}},
		"$defs": {"x": {"type": "integer"}}
	}`))
	if got := s.Definitions["x"].Types[0]; got != "integer" {
		t.Fatalf("expected $defs to win, got %s", got)
	}
}

func TestCompile_UnresolvableReferences(t *testing.T) {
	se := compileErr(t, `{"properties": {"a": {"$ref": "#/definitions/missing"}}}`)
	if se.Pointer != "/properties/a/$ref" || !strings.Contains(se.Reason, "missing") {
		t.Fatalf("unexpected error: %v", se)
	}
	for _, ref := range []string{"other.json#/definitions/a", "#/properties/a", "#/definitions/", "#/definitions/a/b"} {
		compileErr(t, `{"definitions": {"a": {}}, "$ref": "`+ref+`"}`)
	}
}

func TestCompile_ReferenceCycles(t *testing.T) {
	cycles := []string{
		`{"definitions": {"a": {"$ref": "#/definitions/a"}}}`,
		`{"definitions": {"a": {"$ref": "#/definitions/b"}, "b": {"$ref": "#/definitions/a"}}}`,
		`{"definitions": {"a": {"allOf": [{"$ref": "#/definitions/b"}]}, "b": {"anyOf": [{"type": "string"}, {"$ref": "#/definitions/a"}]}}}`,
		`{"definitions": {"a": {"oneOf": [{"$ref": "#/$defs/b"}]}}, "$defs": {"b": {"$ref": "#/definitions/a"}}}`,
	}
	for _, js := range cycles {
		se := compileErr(t, js)
		if !strings.Contains(se.Reason, "reference cycle") {
			t.Fatalf("%s: expected cycle error, got %v", js, se)
		}
	}
	se := compileErr(t, cycles[1])
	if se.Reason != "reference cycle: a -> b -> a" || se.Pointer != "/definitions/a" {
		t.Fatalf("unexpected cycle report: %v", se)
	}
}

func TestCompile_RecursionThroughDocumentStructureIsAllowed(t *testing.T) {
	_, err := jsonschema.Compile(decode(t, `{
		"definitions": {
			"node": {"properties": {"children": {"items": {"$ref": "#/definitions/node"}}, "next": {"$ref": "#/definitions/node"}}, "additionalProperties": {"$ref": "#/definitions/node"}}
		},
		"$ref": "#/definitions/node"
	}`))
	if err != nil {
		t.Fatalf("structural recursion should compile: %v", err)
	}
}

func TestResolve(t *testing.T) {
	s := jsonschema.MustCompile(decode(t, `{"definitions": {"a~b": {"type": "null"}}}`))
	def, err := jsonschema.Resolve("#/definitions/a~0b", s)
	if err != nil || def.Types[0] != "null" {
		t.Fatalf("resolve escaped name: %v %v", def, err)
	}
}

func TestMerge_BooleanBases(t *testing.T) {
	local := jsonschema.MustCompile(decode(t, `{"type": "string"}`))
	if m := jsonschema.Merge(jsonschema.MustCompile(true), local); len(m.Types) != 1 || m.IsTrue() {
		t.Fatalf("true base should yield the local keywords: %+v", m)
	}
	if m := jsonschema.Merge(jsonschema.MustCompile(false), local); !m.IsFalse() {
		t.Fatalf("false base should stay false")
	}
}

func TestCompile_HugeCountsClamp(t *testing.T) {
	s, err := jsonschema.Compile(decode(t, `{"minLength": 1e300, "maxLength": 1e20}`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if *s.MinLength != math.MaxInt || *s.MaxLength != math.MaxInt {
		t.Fatalf("expected clamped counts, got %d and %d", *s.MinLength, *s.MaxLength)
	}
}
