package sources

import (
	"errors"

	"github.com/arthur-debert/citeorder/types"
)

// Reference is one occurrence of a source in a document.
// ID and Key never change; Position reflects the live document at call time.
type Reference interface {
	ID() int
	Key() string
	Type() types.SourceType
	Position() int
}

// Marker is the embedded element a surface places in its document for each citation
type Marker interface {
	ID() int
	Key() string
	Type() types.SourceType
}

// MarkerEvent is the payload of events.TopicMarkerMounted and events.TopicMarkerUnmounted
type MarkerEvent struct {
	Marker Marker
}

// PositionResolver finds the current document offset of a marker
type PositionResolver interface {
	PositionOf(id int) (int, bool)
}

// PositionFunc adapts a function to PositionResolver
type PositionFunc func(id int) (int, bool)

// PositionOf implements PositionResolver
func (f PositionFunc) PositionOf(id int) (int, bool) {
	return f(id)
}

// MarkerReference is the Reference of a marker placed on a surface
type MarkerReference struct {
	marker   Marker
	resolver PositionResolver
}

// NewReference wraps a marker. The resolver is required: positions are always
// read from the surface that holds the marker.
func NewReference(m Marker, resolver PositionResolver) (*MarkerReference, error) {
	if m == nil {
		return nil, errors.New("marker is nil")
	}
	if resolver == nil {
		return nil, errors.New("position resolver is nil")
	}
	return &MarkerReference{marker: m, resolver: resolver}, nil
}

// ID returns the marker identity
func (r *MarkerReference) ID() int { return r.marker.ID() }

// Key returns the source key
func (r *MarkerReference) Key() string { return r.marker.Key() }

// Type returns the source type
func (r *MarkerReference) Type() types.SourceType { return r.marker.Type() }

// Marker returns the wrapped marker
func (r *MarkerReference) Marker() Marker { return r.marker }

// Position returns the marker's current offset, or -1 once the marker is no
// longer in the document
func (r *MarkerReference) Position() int {
	pos, ok := r.resolver.PositionOf(r.marker.ID())
	if !ok {
		return -1
	}
	return pos
}
