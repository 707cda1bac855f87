// Package document is a minimal rich-text surface: a rune buffer in which
// citation markers are embedded, one position each.
//
// It publishes events.TopicMarkerMounted when a marker enters the buffer and
// events.TopicMarkerUnmounted before a marker leaves it, so positions are
// still valid while unmount handlers run. Offsets of markers are derived from
// the buffer on every lookup; nothing caches them.
package document

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/arthur-debert/citeorder/events"
	"github.com/arthur-debert/citeorder/sources"
	"github.com/arthur-debert/citeorder/types"
)

// Placeholder is the rune Text uses in place of a marker
const Placeholder = '\uFFFC'

var (
	// ErrOutOfRange is returned for offsets outside the document
	ErrOutOfRange = errors.New("offset out of range")

	// ErrUnknownMarker is returned for ids of markers not in the document
	ErrUnknownMarker = errors.New("unknown marker")
)

type element struct {
	r      rune
	marker *Marker
}

// Document is a buffer of text and markers
type Document struct {
	elems  []element
	byID   map[int]*Marker
	ids    *IDSource
	bus    events.Publisher
	cursor int
	logger *slog.Logger
}

// Option configures a Document
type Option func(*Document)

// WithIDSource shares an id source between documents
func WithIDSource(ids *IDSource) Option {
	return func(d *Document) {
		if ids != nil {
			d.ids = ids
		}
	}
}

// WithLogger sets the document logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates an empty document publishing marker lifecycle events on bus
func New(bus events.Publisher, opts ...Option) *Document {
	d := &Document{
		byID:   make(map[int]*Marker),
		ids:    NewIDSource(),
		bus:    bus,
		logger: slog.Default(),
	}
	if d.bus == nil {
		d.bus = events.Discard
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Len returns the number of positions (runes plus markers)
func (d *Document) Len() int {
	return len(d.elems)
}

// Cursor returns the insertion point
func (d *Document) Cursor() int {
	return d.cursor
}

// SetCursor moves the insertion point
func (d *Document) SetCursor(at int) error {
	if err := d.checkOffset(at); err != nil {
		return err
	}
	d.cursor = at
	return nil
}

// InsertText inserts s at offset at
func (d *Document) InsertText(at int, s string) error {
	if err := d.checkOffset(at); err != nil {
		return err
	}
	runes := []rune(s)
	elems := make([]element, len(runes))
	for i, r := range runes {
		elems[i] = element{r: r}
	}
	d.elems = slices.Insert(d.elems, at, elems...)
	d.shiftCursor(at, len(runes))
	return nil
}

// InsertMarker embeds a new marker for key at offset at
func (d *Document) InsertMarker(at int, key string, t types.SourceType) (*Marker, error) {
	if key == "" {
		return nil, sources.ErrEmptyKey
	}
	if err := d.checkOffset(at); err != nil {
		return nil, err
	}
	m := &Marker{id: d.ids.Next(), key: key, typ: t, doc: d}
	d.attach(at, m)
	return m, nil
}

// Embed implements citations.Surface
func (d *Document) Embed(at int, key string, t types.SourceType) (sources.Marker, error) {
	m, err := d.InsertMarker(at, key, t)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes positions [from, to). Markers in the range are unmounted
// one at a time, in document order.
func (d *Document) Delete(from, to int) error {
	if from < 0 || to > len(d.elems) || from > to {
		return fmt.Errorf("%w: [%d, %d) in document of length %d", ErrOutOfRange, from, to, len(d.elems))
	}

	var doomed []*Marker
	for _, e := range d.elems[from:to] {
		if e.marker != nil {
			doomed = append(doomed, e.marker)
		}
	}
	for _, m := range doomed {
		d.detach(m)
		to--
	}

	d.elems = slices.Delete(d.elems, from, to)
	d.shiftCursor(from, from-to)
	return nil
}

// MoveMarker cuts marker id and pastes it at offset to, measured after the cut
func (d *Document) MoveMarker(id, to int) error {
	m, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMarker, id)
	}
	if to < 0 || to > len(d.elems)-1 {
		return fmt.Errorf("%w: %d", ErrOutOfRange, to)
	}
	d.detach(m)
	d.attach(to, m)
	return nil
}

// PositionOf implements sources.PositionResolver
func (d *Document) PositionOf(id int) (int, bool) {
	m, ok := d.byID[id]
	if !ok {
		return -1, false
	}
	return d.indexOf(m), true
}

// Owns reports whether m is a marker currently mounted in this document
func (d *Document) Owns(m sources.Marker) bool {
	own, ok := m.(*Marker)
	return ok && own.doc == d && d.byID[own.id] == own
}

// Marker returns the mounted marker with the given id
func (d *Document) Marker(id int) (*Marker, bool) {
	m, ok := d.byID[id]
	return m, ok
}

// Markers returns the mounted markers in document order
func (d *Document) Markers() []*Marker {
	var out []*Marker
	for _, e := range d.elems {
		if e.marker != nil {
			out = append(out, e.marker)
		}
	}
	return out
}

// Text returns the document with markers shown as Placeholder
func (d *Document) Text() string {
	return d.Render(func(*Marker) string { return string(Placeholder) })
}

// Render returns the document with each marker replaced by render(marker)
func (d *Document) Render(render func(*Marker) string) string {
	var b strings.Builder
	for _, e := range d.elems {
		if e.marker != nil {
			b.WriteString(render(e.marker))
		} else {
			b.WriteRune(e.r)
		}
	}
	return b.String()
}

func (d *Document) attach(at int, m *Marker) {
	d.elems = slices.Insert(d.elems, at, element{marker: m})
	d.byID[m.id] = m
	m.mounted = true
	d.shiftCursor(at, 1)
	d.logger.Debug("marker mounted", "id", m.id, "key", m.key, "position", at)
	d.bus.Emit(m.typ, events.TopicMarkerMounted, sources.MarkerEvent{Marker: m})
}

func (d *Document) detach(m *Marker) {
	d.logger.Debug("marker unmounting", "id", m.id, "key", m.key)
	d.bus.Emit(m.typ, events.TopicMarkerUnmounted, sources.MarkerEvent{Marker: m})

	at := d.indexOf(m)
	d.elems = slices.Delete(d.elems, at, at+1)
	delete(d.byID, m.id)
	m.mounted = false
	d.shiftCursor(at, -1)
}

func (d *Document) indexOf(m *Marker) int {
	return slices.IndexFunc(d.elems, func(e element) bool { return e.marker == m })
}

// shiftCursor keeps the cursor on the same content after an edit of n positions at offset at
func (d *Document) shiftCursor(at, n int) {
	switch {
	case n > 0 && at <= d.cursor:
		d.cursor += n
	case n < 0 && at < d.cursor:
		d.cursor = max(at, d.cursor+n)
	}
}

func (d *Document) checkOffset(at int) error {
	if at < 0 || at > len(d.elems) {
		return fmt.Errorf("%w: %d in document of length %d", ErrOutOfRange, at, len(d.elems))
	}
	return nil
}
