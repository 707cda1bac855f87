package testutil

import (
	"github.com/arthur-debert/citeorder/events"
)

// Recorder captures every message published on a bus
type Recorder struct {
	bus  *events.Bus
	sub  events.Subscription
	msgs []events.Message
}

// NewRecorder subscribes a recorder to every message on bus
func NewRecorder(bus *events.Bus) *Recorder {
	r := &Recorder{bus: bus}
	r.sub = bus.OnAny(func(m events.Message) {
		r.msgs = append(r.msgs, m)
	})
	return r
}

// Messages returns the captured messages in publication order
func (r *Recorder) Messages() []events.Message {
	return append([]events.Message(nil), r.msgs...)
}

// Topics returns the captured topics in publication order
func (r *Recorder) Topics() []events.Topic {
	topics := make([]events.Topic, len(r.msgs))
	for i, m := range r.msgs {
		topics[i] = m.Topic
	}
	return topics
}

// Count returns how many messages with topic were captured
func (r *Recorder) Count(topic events.Topic) int {
	n := 0
	for _, m := range r.msgs {
		if m.Topic == topic {
			n++
		}
	}
	return n
}

// Last returns the most recent message with topic
func (r *Recorder) Last(topic events.Topic) (events.Message, bool) {
	for i := len(r.msgs) - 1; i >= 0; i-- {
		if r.msgs[i].Topic == topic {
			return r.msgs[i], true
		}
	}
	return events.Message{}, false
}

// Errors returns the errors carried by captured error messages
func (r *Recorder) Errors() []error {
	var errs []error
	for _, m := range r.msgs {
		if ev, ok := m.Data.(events.ErrorEvent); ok && m.Topic == events.TopicError {
			errs = append(errs, ev.Err)
		}
	}
	return errs
}

// Clear drops captured messages
func (r *Recorder) Clear() {
	r.msgs = nil
}

// Stop unsubscribes the recorder
func (r *Recorder) Stop() {
	r.bus.Off(r.sub)
}
