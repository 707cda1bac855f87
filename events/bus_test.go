package events

import (
	"testing"

	"github.com/arthur-debert/citeorder/types"
	"github.com/google/go-cmp/cmp"
)

const doc = types.CitationDocument

func TestBusDeliversByKey(t *testing.T) {
	b := NewBus()
	var got []Message

	b.On(doc, TopicOrderChange, func(m Message) { got = append(got, m) })
	b.Emit(doc, TopicOrderChange, 3)
	b.Emit(doc, TopicReferenceAdded, 4)
	b.Emit("other", TopicOrderChange, 5)

	want := []Message{{Type: doc, Topic: TopicOrderChange, Data: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestBusOrderAndWildcard(t *testing.T) {
	b := NewBus()
	var order []string

	b.OnAny(func(m Message) { order = append(order, "any:"+string(m.Topic)) })
	b.On(doc, TopicError, func(Message) { order = append(order, "first") })
	b.On(doc, TopicError, func(Message) { order = append(order, "second") })

	b.Emit(doc, TopicError, nil)
	b.Emit(doc, TopicOrderChange, nil)

	want := []string{"first", "second", "any:error", "any:source.order.change"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("dispatch order mismatch (-want +got):\n%s", diff)
	}
}

func TestBusOnce(t *testing.T) {
	b := NewBus()
	calls := 0
	b.Once(doc, TopicRegistryNew, func(Message) { calls++ })

	b.Emit(doc, TopicRegistryNew, nil)
	b.Emit(doc, TopicRegistryNew, nil)

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if n := b.Count(doc, TopicRegistryNew); n != 0 {
		t.Errorf("expected once subscription to be retired, %d left", n)
	}
}

func TestBusOffAndClear(t *testing.T) {
	b := NewBus()
	calls := 0
	h := func(Message) { calls++ }

	sub := b.On(doc, TopicReferenceRemoved, h)
	b.On(doc, TopicReferenceRemoved, h)
	b.Off(sub)
	b.Emit(doc, TopicReferenceRemoved, nil)
	if calls != 1 {
		t.Fatalf("expected 1 call after Off, got %d", calls)
	}

	b.Clear(doc, TopicReferenceRemoved)
	b.Emit(doc, TopicReferenceRemoved, nil)
	if calls != 1 {
		t.Errorf("expected no calls after Clear, got %d", calls-1)
	}

	// unknown and zero subscriptions are ignored
	b.Off(Subscription{})
	b.Off(sub)
}

func TestBusClearKeepsWildcard(t *testing.T) {
	b := NewBus()
	anyCalls := 0
	b.OnAny(func(Message) { anyCalls++ })
	b.Clear(doc, TopicError)
	b.Emit(doc, TopicError, nil)
	if anyCalls != 1 {
		t.Errorf("wildcard should survive Clear, got %d calls", anyCalls)
	}
}

func TestBusMutationDuringDispatch(t *testing.T) {
	b := NewBus()
	var order []string

	var second Subscription
	b.On(doc, TopicOrderChange, func(Message) {
		order = append(order, "first")
		b.Off(second)
		b.On(doc, TopicOrderChange, func(Message) { order = append(order, "late") })
	})
	second = b.On(doc, TopicOrderChange, func(Message) { order = append(order, "second") })

	b.Emit(doc, TopicOrderChange, nil)
	if diff := cmp.Diff([]string{"first"}, order); diff != "" {
		t.Fatalf("first emit mismatch (-want +got):\n%s", diff)
	}

	order = nil
	b.Emit(doc, TopicOrderChange, nil)
	// first adds another late handler during this emit, which does not run yet
	if diff := cmp.Diff([]string{"first", "late"}, order); diff != "" {
		t.Errorf("second emit mismatch (-want +got):\n%s", diff)
	}
}

func TestBusReset(t *testing.T) {
	b := NewBus()
	calls := 0
	b.On(doc, TopicError, func(Message) { calls++ })
	b.OnAny(func(Message) { calls++ })
	b.Reset()
	b.Emit(doc, TopicError, nil)
	if calls != 0 {
		t.Errorf("expected no calls after Reset, got %d", calls)
	}
}

func TestNilHandlerIsIgnored(t *testing.T) {
	b := NewBus()
	if sub := b.On(doc, TopicError, nil); sub.Valid() {
		t.Error("nil handler should not produce a valid subscription")
	}
	b.Emit(doc, TopicError, nil)
}

func TestDiscard(t *testing.T) {
	Discard.Emit(doc, TopicError, ErrorEvent{})
}
