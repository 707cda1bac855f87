// Package citations connects a document surface to a source registry.
//
// A Controller listens for markers being mounted and unmounted on its
// surface, records them in a sources.Registry, and calls its renderers
// whenever the number a marker displays may have changed.
package citations

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arthur-debert/citeorder/events"
	"github.com/arthur-debert/citeorder/sources"
	"github.com/arthur-debert/citeorder/types"
)

const (
	// DefaultClass is the class DefaultRenderer adds when none is configured
	DefaultClass = "citation"
)

// ErrForeignMarker is reported when a marker mounted on another surface reaches a controller
var ErrForeignMarker = errors.New("marker belongs to a different surface")

// Surface is the editing surface holding the markers
type Surface interface {
	sources.PositionResolver
	Owns(m sources.Marker) bool
	Cursor() int
	Embed(at int, key string, t types.SourceType) (sources.Marker, error)
}

// Config configures a Controller
type Config struct {
	Type  types.SourceType // defaults to types.CitationDocument
	Class string           // defaults to DefaultClass
	// Renderers run after the DefaultRenderer, in order
	Renderers []Renderer
	Logger    *slog.Logger
}

// RegistryNew is the payload of events.TopicRegistryNew
type RegistryNew struct {
	Controller *Controller
	Ordinal    int
	Reference  sources.Reference
}

// SourceUpdated is the payload of events.TopicSourceUpdated
type SourceUpdated struct {
	// References maps source keys to the references re-rendered
	References map[string][]sources.Reference
	Controller *Controller
}

// Controller keeps the citations of one surface numbered
type Controller struct {
	surface    Surface
	bus        events.PubSub
	sourceType types.SourceType
	class      string
	renderers  []Renderer
	logger     *slog.Logger

	reg    *sources.Registry
	view   *sources.KeyView
	mirror *sources.SliceMirror
	subs   []events.Subscription
}

// New creates a controller for surface and subscribes it on bus
func New(surface Surface, bus events.PubSub, cfg Config) (*Controller, error) {
	if surface == nil {
		return nil, errors.New("surface is nil")
	}
	if bus == nil {
		return nil, errors.New("bus is nil")
	}
	if cfg.Type == "" {
		cfg.Type = types.CitationDocument
	}
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidType, cfg.Type)
	}
	if cfg.Class == "" {
		cfg.Class = DefaultClass
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Controller{
		surface:    surface,
		bus:        bus,
		sourceType: cfg.Type,
		class:      cfg.Class,
		renderers:  append([]Renderer{DefaultRenderer{Class: cfg.Class}}, cfg.Renderers...),
		logger:     cfg.Logger.With("component", "citations", "source_type", string(cfg.Type)),
	}
	if err := c.build(); err != nil {
		return nil, err
	}
	c.bind()
	return c, nil
}

func (c *Controller) build() error {
	c.reg = sources.New(c.sourceType, c.bus, sources.WithLogger(c.logger))
	if c.reg.Errored() {
		return c.reg.Err()
	}
	c.mirror = &sources.SliceMirror{}
	view, err := sources.NewKeyView(c.reg, c.bus, c.mirror)
	if err != nil {
		return err
	}
	c.view = view
	return nil
}

func (c *Controller) bind() {
	c.subs = []events.Subscription{
		c.bus.On(c.sourceType, events.TopicMarkerMounted, c.onMounted),
		c.bus.On(c.sourceType, events.TopicMarkerUnmounted, c.onUnmounted),
		c.bus.On(c.sourceType, events.TopicReferenceAdded, c.onReferenceAdded),
		c.bus.On(c.sourceType, events.TopicReferenceAddedReordered, c.onReferenceAdded),
		c.bus.On(c.sourceType, events.TopicOrderChange, c.onOrderChange),
	}
}

func (c *Controller) unbind() {
	for _, sub := range c.subs {
		c.bus.Off(sub)
	}
	c.subs = nil
}

func (c *Controller) onMounted(msg events.Message) {
	if ev, ok := msg.Data.(sources.MarkerEvent); ok {
		c.Register(ev.Marker)
	}
}

func (c *Controller) onUnmounted(msg events.Message) {
	ev, ok := msg.Data.(sources.MarkerEvent)
	if !ok {
		return
	}
	if !c.surface.Owns(ev.Marker) {
		c.logger.Debug("ignoring unmount from another surface", "id", ev.Marker.ID())
		return
	}
	c.Unregister(ev.Marker)
}

func (c *Controller) onReferenceAdded(msg events.Message) {
	added, ok := msg.Data.(sources.ReferenceAdded)
	if !ok || added.Registry != c.reg {
		return
	}
	c.update(added.Reference)
}

func (c *Controller) onOrderChange(msg events.Message) {
	change, ok := msg.Data.(sources.OrderChange)
	if !ok || change.Registry != c.reg {
		return
	}
	c.updateFrom(change.From)
}

// Register records a mounted marker. Markers of other surfaces are rejected
// with an error notification.
func (c *Controller) Register(m sources.Marker) bool {
	if !c.surface.Owns(m) {
		err := fmt.Errorf("%w: marker %d", ErrForeignMarker, m.ID())
		c.logger.Warn("register rejected", "error", err)
		c.bus.Emit(c.sourceType, events.TopicError, events.ErrorEvent{Err: err, Source: c})
		return false
	}

	ref, err := sources.NewReference(m, c.surface)
	if err != nil {
		c.bus.Emit(c.sourceType, events.TopicError, events.ErrorEvent{Err: err, Source: c})
		return false
	}

	c.render(Renderer.OnCreate, m, RenderEvent{Ordinal: -1, Key: m.Key(), ID: m.ID()})
	i := c.reg.Put(ref)
	c.logger.Debug("marker registered", "id", m.ID(), "key", m.Key(), "ordinal", i)

	c.bus.Emit(c.sourceType, events.TopicRegistryNew, RegistryNew{Controller: c, Ordinal: i, Reference: ref})
	return true
}

// Unregister forgets a marker and returns the ordinal its source had or now has
func (c *Controller) Unregister(m sources.Marker) int {
	i := c.reg.RemoveReference(m.ID(), m.Key())
	c.render(Renderer.OnRemove, m, RenderEvent{Ordinal: i, Key: m.Key(), ID: m.ID()})
	c.logger.Debug("marker unregistered", "id", m.ID(), "key", m.Key(), "ordinal", i)
	return i
}

// Insert embeds a marker for key at offset at, or at the cursor when at is negative
func (c *Controller) Insert(key string, at int) (sources.Marker, error) {
	if at < 0 {
		at = c.surface.Cursor()
	}
	return c.surface.Embed(at, key, c.sourceType)
}

func (c *Controller) update(ref sources.Reference) {
	m, ok := markerOf(ref)
	if !ok {
		return
	}
	i := c.reg.SourceOrdinal(ref.Key())
	c.render(Renderer.OnUpdate, m, RenderEvent{Ordinal: i, Key: ref.Key(), ID: ref.ID()})
	c.bus.Emit(c.sourceType, events.TopicSourceUpdated, SourceUpdated{
		References: map[string][]sources.Reference{ref.Key(): {ref}},
		Controller: c,
	})
}

func (c *Controller) updateFrom(from int) {
	updated := make(map[string][]sources.Reference)
	for i := max(from, 0); i < c.reg.Len(); i++ {
		src, err := c.reg.SourceAt(i)
		if err != nil {
			break
		}
		refs := src.List()
		for _, ref := range refs {
			if m, ok := markerOf(ref); ok {
				c.render(Renderer.OnUpdate, m, RenderEvent{Ordinal: i, Key: ref.Key(), ID: ref.ID()})
			}
		}
		updated[src.Key()] = refs
	}
	c.bus.Emit(c.sourceType, events.TopicSourceUpdated, SourceUpdated{References: updated, Controller: c})
}

func (c *Controller) render(call func(Renderer, sources.Marker, RenderEvent), m sources.Marker, ev RenderEvent) {
	for _, r := range c.renderers {
		call(r, m, ev)
	}
}

func markerOf(ref sources.Reference) (sources.Marker, bool) {
	mr, ok := ref.(*sources.MarkerReference)
	if !ok {
		return nil, false
	}
	return mr.Marker(), true
}

// Reset forgets every registered marker, starting over with an empty registry
func (c *Controller) Reset() error {
	c.unbind()
	c.view.Close()
	if err := c.build(); err != nil {
		return err
	}
	c.bind()
	return nil
}

// Close unsubscribes the controller from the bus
func (c *Controller) Close() {
	c.unbind()
	c.view.Close()
}

// Type returns the source type handled by the controller
func (c *Controller) Type() types.SourceType { return c.sourceType }

// Class returns the class added to rendered markers
func (c *Controller) Class() string { return c.class }

// Registry returns the underlying registry
func (c *Controller) Registry() *sources.Registry { return c.reg }

// View returns the ordered key view
func (c *Controller) View() *sources.KeyView { return c.view }

// Keys returns the mirrored key list in citation order
func (c *Controller) Keys() []string {
	return append([]string{}, c.mirror.Keys...)
}

// Len returns the number of cited sources
func (c *Controller) Len() int { return c.reg.Len() }

// Source returns the references of key, or nil
func (c *Controller) Source(key string) *sources.SourceReferences { return c.reg.Source(key) }

// SourceAt returns the source with ordinal i
func (c *Controller) SourceAt(i int) (*sources.SourceReferences, error) { return c.reg.SourceAt(i) }

// Ordinal returns the ordinal of key, or -1
func (c *Controller) Ordinal(key string) int { return c.reg.SourceOrdinal(key) }

// SourceOfReference returns the source holding reference id, or nil
func (c *Controller) SourceOfReference(id int) *sources.SourceReferences {
	return c.reg.SourceOfReference(id)
}

// Reference returns the reference with the given id
func (c *Controller) Reference(id int) (sources.Reference, bool) {
	src := c.reg.SourceOfReference(id)
	if src == nil {
		return nil, false
	}
	return src.Get(id)
}
