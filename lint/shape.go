package lint

// Shape identifies which of the accepted manifest layouts a document uses.
type Shape int

const (
	ShapeUnknown    Shape = iota // Neither layout matched.
	ShapeStandalone              // {"component": {...}}
	ShapePage                    // {"page": "...", "components": [...]}
)

func (s Shape) String() string {
	switch s {
	case ShapeStandalone:
		return "standalone"
	case ShapePage:
		return "page"
	default:
		return "unknown"
	}
}

// Component is one component node of a manifest.
type Component map[string]any

// ID returns the component id when it is a string.
func (c Component) ID() (string, bool) {
	id, ok := c["id"].(string)
	return id, ok
}

// Type returns the component type when it is a string.
func (c Component) Type() (string, bool) {
	t, ok := c["type"].(string)
	return t, ok
}

// Has reports whether field is present, whatever its value.
func (c Component) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Label identifies the component in messages.
func (c Component) Label() string {
	if id, ok := c.ID(); ok {
		return id
	}
	return "<unknown>"
}

// Manifest is the normalized view of a manifest document.
type Manifest struct {
	Shape Shape
	// Page holds the page name when the document is page-shaped and "page" is
	// a string.
	Page       string
	HasPage    bool
	Components []Component
}

// Meta returns the document-level metadata consumed by the linter.
func (m Manifest) Meta() Meta {
	if !m.HasPage {
		return Meta{}
	}
	page := m.Page
	return Meta{Page: &page}
}

// Extract normalizes doc into a Manifest. It never fails: documents matching
// neither layout yield ShapeUnknown and no components. A "component" object
// takes precedence over page keys. In a page, a missing or non-array
// "components" is treated as empty and non-object entries are skipped.
func Extract(doc any) Manifest {
	root, ok := doc.(map[string]any)
	if !ok {
		return Manifest{}
	}
	if c, ok := root["component"].(map[string]any); ok {
		return Manifest{Shape: ShapeStandalone, Components: []Component{c}}
	}
	rawPage, hasPage := root["page"]
	rawComps, hasComps := root["components"]
	if !hasPage && !hasComps {
		return Manifest{}
	}
	m := Manifest{Shape: ShapePage}
	if name, ok := rawPage.(string); ok {
		m.Page, m.HasPage = name, true
	}
	if arr, ok := rawComps.([]any); ok {
		m.Components = make([]Component, 0, len(arr))
		for _, it := range arr {
			if c, ok := it.(map[string]any); ok {
				m.Components = append(m.Components, c)
			}
		}
	}
	return m
}

// ExtractComponents returns the component list of doc in document order.
func ExtractComponents(doc any) []Component {
	return Extract(doc).Components
}
