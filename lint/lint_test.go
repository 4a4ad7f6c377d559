package lint_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/reoring/plmcheck/lint"
)

func decode(t *testing.T, js string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(js), &v); err != nil {
		t.Fatalf("unmarshal %s: %v", js, err)
	}
	return v
}

func messages(ws []lint.Warning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Message
	}
	return out
}

func TestLintDocument_StandaloneButton(t *testing.T) {
	ws := lint.LintDocument(decode(t, `{"component":{"id":"MyButton","type":"button"}}`))
	want := []string{
		"Component 'MyButton' id should be lower_snake_case",
		"Component 'MyButton' is missing: description",
		"Component 'MyButton' is missing: intent",
		"Component 'MyButton' is missing: llmHint",
	}
	if got := messages(ws); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	for _, w := range ws {
		if w.ComponentID != "MyButton" {
			t.Fatalf("unexpected component id %q", w.ComponentID)
		}
	}
}

func TestLintDocument_PageNameOnly(t *testing.T) {
	ws := lint.LintDocument(decode(t, `{"page":"settingsPage","components":[{"id":"save_btn","type":"button","description":"d","intent":"i","llmHint":"h"}]}`))
	if len(ws) != 1 || ws[0].Code != lint.CodePageCase || ws[0].Message != "Page name should be UpperCamelCase: 'settingsPage'" {
		t.Fatalf("unexpected warnings: %#v", ws)
	}
	if ws[0].ComponentID != "" {
		t.Fatalf("page warning should not name a component")
	}
}

func TestLintDocument_UnknownShape(t *testing.T) {
	for _, js := range []string{`{"title":"x"}`, `[]`, `"page"`, `null`} {
		doc := decode(t, js)
		if cs := lint.ExtractComponents(doc); len(cs) != 0 {
			t.Fatalf("%s: expected no components, got %v", js, cs)
		}
		if ws := lint.LintDocument(doc); len(ws) != 0 {
			t.Fatalf("%s: expected no warnings, got %v", js, ws)
		}
	}
}

func TestLintDocument_UnknownType(t *testing.T) {
	ws := lint.LintDocument(decode(t, `{"component":{"id":"hero","type":"carousel","description":"d","intent":"i"}}`))
	if len(ws) != 1 || ws[0].Code != lint.CodeUnknownType || ws[0].Message != "Component 'hero' has unknown type: 'carousel'" {
		t.Fatalf("unexpected warnings: %#v", ws)
	}
}

func TestLintDocument_RuleOrder(t *testing.T) {
	ws := lint.LintDocument(decode(t, `{"page":"Signup","components":[
		{"type":"Text_Field"},
		{"id":"email","type":"input","description":"d","intent":"i"},
		{"id":"email","type":"select","description":"d","intent":"i","exampleInput":"x"},
		"not a component",
		{"id":"ok","type":"text","description":"","intent":""}
	]}`))
	var got []string
	for _, w := range ws {
		got = append(got, w.Code+":"+w.ComponentID)
	}
	want := []string{
		lint.CodeTypeCase + ":<unknown>",
		lint.CodeUnknownType + ":<unknown>",
		lint.CodeMissingField + ":<unknown>",
		lint.CodeMissingField + ":<unknown>",
		lint.CodeMissingField + ":email",
		lint.CodeDuplicateID + ":email",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
	if ws[4].Message != "Component 'email' is missing: exampleInput" {
		t.Fatalf("unexpected message %q", ws[4].Message)
	}
}

func TestLintDocument_EmptyTypeIsNotUnknown(t *testing.T) {
	ws := lint.LintDocument(decode(t, `{"component":{"id":"a","type":"","description":"d","intent":"i"}}`))
	for _, w := range ws {
		if w.Code == lint.CodeUnknownType {
			t.Fatalf("empty type should not be reported as unknown: %v", ws)
		}
	}
}

func TestExtract_Shapes(t *testing.T) {
	m := lint.Extract(decode(t, `{"component":{"id":"a"},"page":"P","components":[{"id":"b"}]}`))
	if m.Shape != lint.ShapeStandalone || len(m.Components) != 1 || m.Components[0].Label() != "a" {
		t.Fatalf("standalone should take precedence: %+v", m)
	}
	if m.Meta().Page != nil {
		t.Fatalf("standalone documents carry no page")
	}

	m = lint.Extract(decode(t, `{"components":[{"id":"b"},3,{"id":"c"}]}`))
	if m.Shape != lint.ShapePage || len(m.Components) != 2 || m.HasPage {
		t.Fatalf("unexpected page extraction: %+v", m)
	}

	m = lint.Extract(decode(t, `{"page":"Home","components":"nope"}`))
	if m.Shape != lint.ShapePage || len(m.Components) != 0 || *m.Meta().Page != "Home" {
		t.Fatalf("unexpected page extraction: %+v", m)
	}

	if got := lint.Extract(decode(t, `{"component":"x"}`)).Shape; got != lint.ShapeUnknown {
		t.Fatalf("non-object component should not be standalone, got %v", got)
	}
}

func TestLinter_CustomTypesAndRules(t *testing.T) {
	l := lint.Linter{
		KnownTypes: []string{"carousel"},
		Extra: []lint.Rule{func(c lint.Component, seen int) []lint.Warning {
			if !c.Has("testId") {
				return []lint.Warning{{Code: "lint_test_id", ComponentID: c.Label(), Message: "no testId"}}
			}
			return nil
		}},
	}
	ws := l.Lint([]lint.Component{{"id": "hero", "type": "carousel", "description": "d", "intent": "i"}}, lint.Meta{})
	if len(ws) != 1 || ws[0].Code != "lint_test_id" {
		t.Fatalf("unexpected warnings: %#v", ws)
	}
}

func TestCasing(t *testing.T) {
	for _, s := range []string{"a", "save_btn", "v2_input"} {
		if !lint.IsSnakeCase(s) {
			t.Fatalf("%q should be snake_case", s)
		}
	}
	for _, s := range []string{"", "Save", "save__btn", "_a", "a_", "save-btn"} {
		if lint.IsSnakeCase(s) {
			t.Fatalf("%q should not be snake_case", s)
		}
	}
	for _, s := range []string{"Settings", "UserProfile2"} {
		if !lint.IsUpperCamelCase(s) {
			t.Fatalf("%q should be UpperCamelCase", s)
		}
	}
	for _, s := range []string{"", "settingsPage", "User_Profile", "User Profile"} {
		if lint.IsUpperCamelCase(s) {
			t.Fatalf("%q should not be UpperCamelCase", s)
		}
	}
}

func TestLintDocument_NonStringTypeIsUnknown(t *testing.T) {
	cases := map[string]string{
		`5`:              "Component 'a' has unknown type: '5'",
		`true`:           "Component 'a' has unknown type: 'true'",
		`["button"]`:     `Component 'a' has unknown type: '["button"]'`,
		`{"kind":"btn"}`: `Component 'a' has unknown type: '{"kind":"btn"}'`,
	}
	for typ, want := range cases {
		ws := lint.LintDocument(decode(t, `{"component":{"id":"a","type":`+typ+`,"description":"d","intent":"i"}}`))
		if len(ws) != 1 || ws[0].Code != lint.CodeUnknownType || ws[0].Message != want {
			t.Fatalf("type %s: unexpected warnings %#v", typ, ws)
		}
	}
	for _, typ := range []string{`null`, `false`, `0`, `[]`, `{}`} {
		ws := lint.LintDocument(decode(t, `{"component":{"id":"a","type":`+typ+`,"description":"d","intent":"i"}}`))
		if len(ws) != 0 {
			t.Fatalf("type %s: expected no warnings, got %#v", typ, ws)
		}
	}
}
