package runner_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	plmcheck "github.com/reoring/plmcheck"
	"github.com/reoring/plmcheck/internal/runner"
	"github.com/reoring/plmcheck/source"
)

const schemaJSON = `{
  "type": "object",
  "required": ["component"],
  "properties": {"component": {"type": "object", "required": ["id", "type"]}}
}`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func rels(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.json", "{}")
	write(t, dir, "a.json", "{}")
	write(t, dir, "notes.txt", "")
	write(t, dir, "pages/home.json", "{}")
	write(t, dir, "pages/home.yaml", "")

	files, err := runner.Discover(dir, []string{"*.json"}, false)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if got := rels(t, dir, files); !reflect.DeepEqual(got, []string{"a.json", "b.json"}) {
		t.Fatalf("non-recursive: %v", got)
	}

	files, _ = runner.Discover(dir, []string{"*.json"}, true)
	if got := rels(t, dir, files); !reflect.DeepEqual(got, []string{"a.json", "b.json", "pages/home.json"}) {
		t.Fatalf("recursive: %v", got)
	}

	files, _ = runner.Discover(dir, []string{"pages/**/*.{json,yaml}"}, true)
	if got := rels(t, dir, files); !reflect.DeepEqual(got, []string{"pages/home.json", "pages/home.yaml"}) {
		t.Fatalf("slash pattern: %v", got)
	}

	single := filepath.Join(dir, "notes.txt")
	if files, _ := runner.Discover(single, []string{"*.json"}, false); len(files) != 1 || files[0] != single {
		t.Fatalf("file target should be returned as is: %v", files)
	}

	if _, err := runner.Discover(dir, []string{"[a-"}, false); err == nil {
		t.Fatalf("expected invalid pattern error")
	}
}

func TestRun_OrderedResultsAndLoadFailures(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "schema/plm.schema.json", schemaJSON)
	files := []string{
		write(t, dir, "1.json", `{"component":{"id":"save_btn","type":"button","description":"d","intent":"i","llmHint":"h"}}`),
		write(t, dir, "2.json", `{"component":{"id":"MyButton"}}`),
		write(t, dir, "3.json", `{"component":`),
		write(t, dir, "4.yaml", "component:\n  id: a\n  type: carousel\n"),
	}

	v, err := runner.LoadSchema(schema, source.Options{})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var logs bytes.Buffer
	results, err := runner.Run(context.Background(), v, files, runner.Options{Workers: 3, Logger: runner.NewLogger(&logs, true)})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Path != files[i] {
			t.Fatalf("result %d out of order: %s", i, r.Path)
		}
	}
	if !results[0].OK() || len(results[0].Report.Warnings) != 0 {
		t.Fatalf("first file should be clean: %+v", results[0])
	}
	if results[1].OK() || results[1].Report.Violations[0].Pointer() != "/component/type" {
		t.Fatalf("second file should miss type: %+v", results[1].Report)
	}
	if _, ok := source.AsLoadError(results[2].LoadErr); !ok {
		t.Fatalf("third file should fail to load: %+v", results[2])
	}
	if !results[3].OK() || len(results[3].Report.Warnings) == 0 {
		t.Fatalf("yaml file should be valid with warnings: %+v", results[3].Report)
	}

	sum := runner.Summarize(results)
	if sum.Files != 4 || sum.Valid != 2 || sum.Invalid != 1 || sum.LoadFailed != 1 || sum.OK() {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if !strings.Contains(logs.String(), "could not load manifest") {
		t.Fatalf("expected load failure to be logged, got %q", logs.String())
	}
}

func TestRun_NoWarnings(t *testing.T) {
	dir := t.TempDir()
	f := write(t, dir, "m.json", `{"component":{"id":"MyButton","type":"button"}}`)
	v, err := plmcheck.NewValidator(true)
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	results, err := runner.Run(context.Background(), v, []string{f}, runner.Options{NoWarnings: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results[0].Report.Warnings) != 0 {
		t.Fatalf("linter should be skipped: %v", results[0].Report.Warnings)
	}
}

func TestRun_DuplicateKeyIssuesRecorded(t *testing.T) {
	dir := t.TempDir()
	f := write(t, dir, "m.json", `{"component":{"id":"a","id":"b","type":"text"}}`)
	v, _ := plmcheck.NewValidator(true)
	results, err := runner.Run(context.Background(), v, []string{f}, runner.Options{Load: source.Options{OnDuplicateKey: source.Warn}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results[0].Issues) != 1 || results[0].Issues[0].Path != "/component" {
		t.Fatalf("unexpected issues: %+v", results[0].Issues)
	}
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	f := write(t, dir, "m.json", `{}`)
	v, _ := plmcheck.NewValidator(true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Run(ctx, v, []string{f}, runner.Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadSchema_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := runner.LoadSchema(filepath.Join(dir, "missing.json"), source.Options{}); err == nil {
		t.Fatalf("expected load error")
	} else if _, ok := source.AsLoadError(err); !ok {
		t.Fatalf("expected *LoadError, got %T", err)
	}

	bad := write(t, dir, "bad.json", `{"$ref":"#/definitions/nope"}`)
	_, err := runner.LoadSchema(bad, source.Options{})
	if _, ok := plmcheck.AsSchemaError(err); !ok {
		t.Fatalf("expected schema error, got %v", err)
	}
}
