// Package testutil provides fixtures and assertions shared by citeorder tests.
package testutil

import (
	"github.com/arthur-debert/citeorder/types"
)

// MockReference is a sources.Reference with a settable position
type MockReference struct {
	id       int
	key      string
	typ      types.SourceType
	position int

	// PositionCalls counts Position reads
	PositionCalls int
}

// ID implements sources.Reference
func (r *MockReference) ID() int { return r.id }

// Key implements sources.Reference
func (r *MockReference) Key() string { return r.key }

// Type implements sources.Reference
func (r *MockReference) Type() types.SourceType { return r.typ }

// Position implements sources.Reference
func (r *MockReference) Position() int {
	r.PositionCalls++
	return r.position
}

// SetPosition moves the reference, as an edit before it would
func (r *MockReference) SetPosition(pos int) { r.position = pos }

// RefData describes the references of one source
type RefData struct {
	Key       string `yaml:"key"`
	Positions []int  `yaml:"positions"`
}

// RefFactory hands out mock references with ids assigned in creation order, starting at 0
type RefFactory struct {
	Type   types.SourceType
	nextID int
}

// NewRefFactory creates a factory for citation document references
func NewRefFactory() *RefFactory {
	return &RefFactory{Type: types.CitationDocument}
}

// Ref creates one reference
func (f *RefFactory) Ref(key string, pos int) *MockReference {
	return f.RefOfType(f.Type, key, pos)
}

// RefOfType creates one reference with an explicit type
func (f *RefFactory) RefOfType(t types.SourceType, key string, pos int) *MockReference {
	ref := &MockReference{id: f.nextID, key: key, typ: t, position: pos}
	f.nextID++
	return ref
}

// Refs creates references for every position of every source, in order
func (f *RefFactory) Refs(data ...RefData) []*MockReference {
	var refs []*MockReference
	for _, src := range data {
		for _, pos := range src.Positions {
			refs = append(refs, f.Ref(src.Key, pos))
		}
	}
	return refs
}

// Reset restarts id assignment at 0
func (f *RefFactory) Reset() {
	f.nextID = 0
}

// Minimum returns the reference with the smallest position, earliest on ties
func Minimum(refs []*MockReference) *MockReference {
	var best *MockReference
	for _, ref := range refs {
		if best == nil || ref.position < best.position {
			best = ref
		}
	}
	return best
}
