package plmcheck_test

import (
	"sort"
	"testing"

	plmcheck "github.com/reoring/plmcheck"
)

func TestPath_Rendering(t *testing.T) {
	cases := []struct {
		path    plmcheck.Path
		pointer string
		dotted  string
	}{
		{plmcheck.Root(), "/", "<root>"},
		{plmcheck.NewPath("components", 0, "id"), "/components/0/id", "components.0.id"},
		{plmcheck.NewPath("a/b", "c~d"), "/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tc := range cases {
		if got := tc.path.Pointer(); got != tc.pointer {
			t.Fatalf("Pointer() = %q, want %q", got, tc.pointer)
		}
		if got := tc.path.String(); got != tc.dotted {
			t.Fatalf("String() = %q, want %q", got, tc.dotted)
		}
	}
}

func TestPath_ExtendDoesNotAlias(t *testing.T) {
	parent := make(plmcheck.Path, 0, 8).Key("components")
	a := parent.Index(0)
	b := parent.Index(1)
	if a.Pointer() != "/components/0" || b.Pointer() != "/components/1" {
		t.Fatalf("siblings aliased: %s %s", a.Pointer(), b.Pointer())
	}
	if len(parent) != 1 {
		t.Fatalf("parent modified: %v", parent)
	}
}

func TestComparePaths_Order(t *testing.T) {
	paths := []plmcheck.Path{
		plmcheck.NewPath("page"),
		plmcheck.NewPath("components", 10, "id"),
		plmcheck.NewPath("components", 2),
		plmcheck.Root(),
		plmcheck.NewPath("components", 2, "id"),
		plmcheck.NewPath("components"),
		plmcheck.NewPath("Components"),
	}
	sort.Slice(paths, func(i, j int) bool { return plmcheck.ComparePaths(paths[i], paths[j]) < 0 })
	want := []string{
		"/",
		"/Components",
		"/components",
		"/components/2",
		"/components/2/id",
		"/components/10/id",
		"/page",
	}
	for i, p := range paths {
		if p.Pointer() != want[i] {
			t.Fatalf("position %d: got %s want %s", i, p.Pointer(), want[i])
		}
	}
}

func TestComparePaths_IndexBeforeKey(t *testing.T) {
	idx := plmcheck.NewPath("x", 5)
	key := plmcheck.NewPath("x", "0")
	if plmcheck.ComparePaths(idx, key) >= 0 {
		t.Fatalf("index segment should sort before key segment")
	}
	if !idx.Equal(plmcheck.NewPath("x", plmcheck.IndexSegment(5))) {
		t.Fatalf("expected equal paths")
	}
}
