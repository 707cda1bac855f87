package events

import (
	"log/slog"
	"sync"

	"github.com/arthur-debert/citeorder/types"
)

// Message is what a handler receives
type Message struct {
	Type  types.SourceType
	Topic Topic
	Data  any
}

// Handler reacts to a message
type Handler func(Message)

// ErrorEvent is the payload of TopicError
type ErrorEvent struct {
	Err    error
	Source any // the component reporting the error, may be nil
}

// Subscription identifies a registered handler. The zero value matches nothing.
type Subscription struct {
	id uint64
}

// Valid reports whether s was returned by a subscribe call
func (s Subscription) Valid() bool {
	return s.id != 0
}

// Publisher is the side of the bus used by components that report changes
type Publisher interface {
	Emit(t types.SourceType, topic Topic, data any)
}

// Subscriber is the side of the bus used by components that observe changes
type Subscriber interface {
	On(t types.SourceType, topic Topic, h Handler) Subscription
	Once(t types.SourceType, topic Topic, h Handler) Subscription
	Off(sub Subscription)
}

// PubSub is both sides of a bus
type PubSub interface {
	Publisher
	Subscriber
}

type key struct {
	t     types.SourceType
	topic Topic
}

type subscriber struct {
	id      uint64
	key     key
	handler Handler
	once    bool
	any     bool
	active  bool
}

// Bus is a synchronous publish/subscribe dispatcher keyed by (source type, topic)
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*subscriber
	byKey  map[key][]*subscriber
	any    []*subscriber
	logger *slog.Logger
}

// Option configures a Bus
type Option func(*Bus)

// WithLogger sets the logger used for dispatch tracing
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBus creates an empty bus
func NewBus(opts ...Option) *Bus {
	b := &Bus{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset()
	return b
}

// Reset drops every subscription
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.byID {
		s.active = false
	}
	b.byID = make(map[uint64]*subscriber)
	b.byKey = make(map[key][]*subscriber)
	b.any = nil
}

// On subscribes h to messages published for (t, topic)
func (b *Bus) On(t types.SourceType, topic Topic, h Handler) Subscription {
	return b.add(&subscriber{key: key{t, topic}, handler: h})
}

// Once subscribes h to the next message published for (t, topic)
func (b *Bus) Once(t types.SourceType, topic Topic, h Handler) Subscription {
	return b.add(&subscriber{key: key{t, topic}, handler: h, once: true})
}

// OnAny subscribes h to every message published on the bus
func (b *Bus) OnAny(h Handler) Subscription {
	return b.add(&subscriber{handler: h, any: true})
}

func (b *Bus) add(s *subscriber) Subscription {
	if s.handler == nil {
		return Subscription{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s.id = b.nextID
	s.active = true
	b.byID[s.id] = s
	if s.any {
		b.any = append(b.any, s)
	} else {
		b.byKey[s.key] = append(b.byKey[s.key], s)
	}
	return Subscription{id: s.id}
}

// Off removes a single subscription. Unknown subscriptions are ignored.
func (b *Bus) Off(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.byID[sub.id]
	if !ok {
		return
	}
	b.removeLocked(s)
}

// Clear removes every subscription for (t, topic). Wildcard subscriptions are kept.
func (b *Bus) Clear(t types.SourceType, topic Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := key{t, topic}
	for _, s := range b.byKey[k] {
		s.active = false
		delete(b.byID, s.id)
	}
	delete(b.byKey, k)
}

// Count returns the number of handlers subscribed to (t, topic)
func (b *Bus) Count(t types.SourceType, topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byKey[key{t, topic}])
}

func (b *Bus) removeLocked(s *subscriber) {
	s.active = false
	delete(b.byID, s.id)

	if s.any {
		b.any = without(b.any, s)
		return
	}
	list := without(b.byKey[s.key], s)
	if len(list) == 0 {
		delete(b.byKey, s.key)
	} else {
		b.byKey[s.key] = list
	}
}

// Emit delivers a message to the handlers subscribed for (t, topic), then to wildcard handlers
func (b *Bus) Emit(t types.SourceType, topic Topic, data any) {
	b.mu.Lock()
	targets := make([]*subscriber, 0, len(b.byKey[key{t, topic}])+len(b.any))
	targets = append(targets, b.byKey[key{t, topic}]...)
	targets = append(targets, b.any...)
	b.mu.Unlock()

	b.logger.Debug("emit", "type", string(t), "topic", string(topic), "handlers", len(targets))

	msg := Message{Type: t, Topic: topic, Data: data}
	for _, s := range targets {
		if !b.claim(s) {
			continue
		}
		s.handler(msg)
	}
}

// claim reports whether s should still run, retiring once-subscribers
func (b *Bus) claim(s *subscriber) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !s.active {
		return false
	}
	if s.once {
		b.removeLocked(s)
	}
	return true
}

func without(list []*subscriber, s *subscriber) []*subscriber {
	out := make([]*subscriber, 0, len(list))
	for _, item := range list {
		if item != s {
			out = append(out, item)
		}
	}
	return out
}

type discard struct{}

func (discard) Emit(types.SourceType, Topic, any) {}

// Discard is a Publisher that drops every message
var Discard Publisher = discard{}
