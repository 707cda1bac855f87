package sources

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/arthur-debert/citeorder/events"
	"github.com/arthur-debert/citeorder/types"
)

// Registry keeps the sources of one type ordered by the position of their first reference
type Registry struct {
	sourceType types.SourceType
	sources    []*SourceReferences
	bus        events.Publisher
	logger     *slog.Logger
	err        error
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the registry logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a registry for sources of type t, publishing on bus.
//
// An invalid type does not abort construction: the registry is returned in
// an errored state (see Err) and the error is published under the empty
// source type. An errored registry rejects every reference as mismatched.
func New(t types.SourceType, bus events.Publisher, opts ...Option) *Registry {
	r := &Registry{
		bus:    bus,
		logger: slog.Default(),
	}
	if r.bus == nil {
		r.bus = events.Discard
	}
	for _, opt := range opts {
		opt(r)
	}

	if !t.IsValid() {
		r.err = fmt.Errorf("%w: %q", types.ErrInvalidType, t)
		r.logger.Warn("registry construction failed", "type", string(t), "error", r.err)
		r.bus.Emit("", events.TopicError, events.ErrorEvent{Err: r.err, Source: r})
		return r
	}
	r.sourceType = t
	r.logger = r.logger.With("source_type", string(t))
	return r
}

// Err returns the construction error, if any
func (r *Registry) Err() error {
	return r.err
}

// Errored reports whether construction failed
func (r *Registry) Errored() bool {
	return r.err != nil
}

// Type returns the source type modeled by the registry
func (r *Registry) Type() types.SourceType {
	return r.sourceType
}

// Len returns the number of distinct sources
func (r *Registry) Len() int {
	return len(r.sources)
}

// Put adds ref to its source, creating or relocating the source as needed,
// and returns the source's ordinal. It returns -1 and publishes an error when
// ref's type differs from the registry's, or when the registry is errored.
func (r *Registry) Put(ref Reference) int {
	if r.err != nil {
		r.fail(r.err)
		return -1
	}
	if ref == nil {
		r.fail(ErrNilReference)
		return -1
	}
	if ref.Type() != r.sourceType {
		r.fail(fmt.Errorf("%w: reference %d has type %q, registry has type %q",
			ErrTypeMismatch, ref.ID(), ref.Type(), r.sourceType))
		return -1
	}

	i := r.SourceOrdinal(ref.Key())
	if i > -1 {
		if !r.sources[i].Put(ref) {
			r.logger.Debug("reference added", "key", ref.Key(), "id", ref.ID(), "ordinal", i)
			r.emit(events.TopicReferenceAdded, ReferenceAdded{Reference: ref, Ordinal: i, Registry: r})
			return i
		}

		former := i
		i = r.relocate(i)
		r.logger.Debug("reference became first", "key", ref.Key(), "id", ref.ID(), "from", former, "to", i)
		if i != former || len(r.sources) == 1 {
			r.emit(events.TopicOrderChange, OrderChange{From: i, Registry: r})
		}
		r.emit(events.TopicReferenceAddedReordered, ReferenceAdded{Reference: ref, Ordinal: i, Registry: r})
		return i
	}

	src, err := NewSourceReferences(ref.Key())
	if err != nil {
		r.fail(fmt.Errorf("reference %d: %w", ref.ID(), err))
		return -1
	}
	src.Put(ref)
	i = r.locate(src)
	r.logger.Debug("source created", "key", ref.Key(), "id", ref.ID(), "ordinal", i)
	r.emit(events.TopicOrderChange, OrderChange{From: i, Registry: r})
	r.emit(events.TopicReferenceAddedReordered, ReferenceAdded{Reference: ref, Ordinal: i, Registry: r})
	return i
}

// Remove removes ref from its source
func (r *Registry) Remove(ref Reference) int {
	return r.RemoveReference(ref.ID(), ref.Key())
}

// RemoveByID removes the reference with the given id from whichever source
// holds it. It fails when no source does.
func (r *Registry) RemoveByID(id int) (int, error) {
	src := r.SourceOfReference(id)
	if src == nil {
		return -1, &LookupError{ID: id, Err: ErrReferenceNotFound}
	}
	return r.RemoveReference(id, src.Key()), nil
}

// RemoveReference removes reference id from the source key and returns the
// source's resulting ordinal (the vacated ordinal when the source emptied).
// Unknown keys or ids are published as errors and return -1.
func (r *Registry) RemoveReference(id int, key string) int {
	i := r.SourceOrdinal(key)
	if i < 0 {
		r.fail(&LookupError{Key: key, ID: id, Err: ErrSourceNotFound})
		return -1
	}

	src := r.sources[i]
	ref, _ := src.Get(id)
	wasFirst, err := src.Remove(id)
	if err != nil {
		r.fail(&LookupError{Key: key, ID: id, Err: err})
		return -1
	}

	if wasFirst {
		if src.Len() > 0 {
			former := i
			i = r.relocate(i)
			r.logger.Debug("first reference removed", "key", key, "id", id, "from", former, "to", i)
			r.emit(events.TopicOrderChange, OrderChange{From: former, Registry: r})
		} else {
			r.sources = slices.Delete(r.sources, i, i+1)
			r.logger.Debug("source removed", "key", key, "id", id, "ordinal", i)
			r.emit(events.TopicOrderChange, OrderChange{From: i, Registry: r})
		}
	} else {
		r.logger.Debug("reference removed", "key", key, "id", id, "ordinal", i)
	}

	r.emit(events.TopicReferenceRemoved, ReferenceRemoved{
		Reference: ref,
		Ordinal:   i,
		WasFirst:  wasFirst,
		Registry:  r,
	})
	return i
}

// SourceAt returns the source with ordinal i
func (r *Registry) SourceAt(i int) (*SourceReferences, error) {
	if i < 0 || i >= len(r.sources) {
		return nil, &RangeError{What: "source", Index: i, Len: len(r.sources)}
	}
	return r.sources[i], nil
}

// Source returns the source with the given key, or nil
func (r *Registry) Source(key string) *SourceReferences {
	if i := r.SourceOrdinal(key); i > -1 {
		return r.sources[i]
	}
	return nil
}

// SourceOrdinal returns the ordinal of key, or -1
func (r *Registry) SourceOrdinal(key string) int {
	return slices.IndexFunc(r.sources, func(s *SourceReferences) bool {
		return s.Key() == key
	})
}

// Reference returns reference id of source key. An unknown key is also
// published as an error; an unknown id within a known source is not.
func (r *Registry) Reference(key string, id int) (Reference, bool) {
	src := r.Source(key)
	if src == nil {
		r.fail(&LookupError{Key: key, ID: id, Err: ErrSourceNotFound})
		return nil, false
	}
	return src.Get(id)
}

// SourceOfReference returns the source holding reference id, or nil
func (r *Registry) SourceOfReference(id int) *SourceReferences {
	for _, src := range r.sources {
		if _, ok := src.Get(id); ok {
			return src
		}
	}
	return nil
}

// Keys returns the source keys in ordinal order
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.sources))
	for i, src := range r.sources {
		keys[i] = src.Key()
	}
	return keys
}

// locate inserts src after every resident whose first position is not
// greater than src's and returns its ordinal
func (r *Registry) locate(src *SourceReferences) int {
	pos := src.First().Position()
	i := len(r.sources)
	for i > 0 && r.sources[i-1].First().Position() > pos {
		i--
	}
	r.sources = slices.Insert(r.sources, i, src)
	return i
}

// relocate moves the source at ordinal i to where its first position now belongs
func (r *Registry) relocate(i int) int {
	if len(r.sources) < 2 {
		return i
	}
	src := r.sources[i]
	r.sources = slices.Delete(r.sources, i, i+1)
	return r.locate(src)
}

func (r *Registry) emit(topic events.Topic, data any) {
	r.bus.Emit(r.sourceType, topic, data)
}

func (r *Registry) fail(err error) {
	r.logger.Warn("registry operation failed", "error", err)
	r.bus.Emit(r.sourceType, events.TopicError, events.ErrorEvent{Err: err, Source: r})
}
