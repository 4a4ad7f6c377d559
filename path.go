package plmcheck

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// KeySegment returns a segment addressing an object member.
func KeySegment(name string) Segment { return Segment{key: name} }

// IndexSegment returns a segment addressing an array element.
func IndexSegment(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether the segment addresses an array element.
func (s Segment) IsIndex() bool { return s.isIndex }

// Key returns the object key (empty for index segments).
func (s Segment) Key() string { return s.key }

// Index returns the array index (zero for key segments).
func (s Segment) Index() int { return s.index }

func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path addresses a node inside a document. The empty Path is the root.
type Path []Segment

// Root returns the empty path.
func Root() Path { return nil }

// NewPath builds a path from keys (string) and indices (int). Other element
// types are formatted as keys.
func NewPath(parts ...any) Path {
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case int:
			p = append(p, IndexSegment(v))
		case string:
			p = append(p, KeySegment(v))
		case Segment:
			p = append(p, v)
		default:
			p = append(p, KeySegment(fmt.Sprint(v)))
		}
	}
	return p
}

// Key returns a new path extended with an object key. The receiver is never
// modified, so sibling paths built from the same parent do not alias.
func (p Path) Key(name string) Path { return p.with(KeySegment(name)) }

// Index returns a new path extended with an array index.
func (p Path) Index(i int) Path { return p.with(IndexSegment(i)) }

func (p Path) with(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// Pointer renders the path as an RFC 6901 JSON Pointer ("/" for the root).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.isIndex {
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// identity encodes the segment sequence unambiguously. Unlike Pointer it
// tells the root apart from the empty key and an index from a numeric key.
func (p Path) identity() string {
	b := &strings.Builder{}
	for _, s := range p {
		if s.isIndex {
			b.WriteByte('#')
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		b.WriteString(strconv.Quote(s.key))
	}
	return b.String()
}

// String renders the path in dotted form, e.g. "components.0.id", or "<root>".
func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Equal reports whether both paths address the same node.
func (p Path) Equal(o Path) bool { return ComparePaths(p, o) == 0 }

// ComparePaths orders paths lexicographically by segment. A prefix sorts before
// any of its extensions, so the root sorts first. At the same position an index
// sorts before a key; indices compare numerically and keys bytewise.
func ComparePaths(a, b Path) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := compareSegments(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func compareSegments(a, b Segment) int {
	switch {
	case a.isIndex && !b.isIndex:
		return -1
	case !a.isIndex && b.isIndex:
		return 1
	case a.isIndex:
		switch {
		case a.index < b.index:
			return -1
		case a.index > b.index:
			return 1
		}
		return 0
	}
	return strings.Compare(a.key, b.key)
}
