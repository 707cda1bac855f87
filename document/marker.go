package document

import (
	"slices"

	"github.com/arthur-debert/citeorder/types"
)

// Marker is a citation embedded in a document. It occupies one position.
type Marker struct {
	id      int
	key     string
	typ     types.SourceType
	doc     *Document
	mounted bool

	label   string
	classes []string
}

// ID returns the marker identity
func (m *Marker) ID() int { return m.id }

// Key returns the cited source key
func (m *Marker) Key() string { return m.key }

// Type returns the source type
func (m *Marker) Type() types.SourceType { return m.typ }

// Mounted reports whether the marker is currently in its document
func (m *Marker) Mounted() bool { return m.mounted }

// Position returns the marker's offset, or -1 when detached
func (m *Marker) Position() int {
	if pos, ok := m.doc.PositionOf(m.id); ok {
		return pos
	}
	return -1
}

// Label returns the rendered citation label
func (m *Marker) Label() string { return m.label }

// SetLabel sets the rendered citation label
func (m *Marker) SetLabel(label string) { m.label = label }

// AddClass tags the marker for styling; duplicates are ignored
func (m *Marker) AddClass(class string) {
	if !m.HasClass(class) {
		m.classes = append(m.classes, class)
	}
}

// HasClass reports whether the marker carries class
func (m *Marker) HasClass(class string) bool {
	return slices.Contains(m.classes, class)
}

// Classes returns a copy of the marker's classes
func (m *Marker) Classes() []string {
	return slices.Clone(m.classes)
}
