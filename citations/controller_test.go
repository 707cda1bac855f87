package citations_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/citeorder/citations"
	"github.com/arthur-debert/citeorder/document"
	"github.com/arthur-debert/citeorder/events"
	"github.com/arthur-debert/citeorder/sources"
	"github.com/arthur-debert/citeorder/testutil"
	"github.com/arthur-debert/citeorder/types"
)

type fixture struct {
	bus *events.Bus
	rec *testutil.Recorder
	doc *document.Document
	c   *citations.Controller
}

func newFixture(t *testing.T, cfg citations.Config) *fixture {
	t.Helper()
	bus := events.NewBus()
	rec := testutil.NewRecorder(bus)
	doc := document.New(bus)
	if err := doc.InsertText(0, "abcdefghij"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	c, err := citations.New(doc, bus, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return &fixture{bus: bus, rec: rec, doc: doc, c: c}
}

func (f *fixture) insert(t *testing.T, key string, at int) *document.Marker {
	t.Helper()
	m, err := f.c.Insert(key, at)
	if err != nil {
		t.Fatalf("Insert(%q, %d): %v", key, at, err)
	}
	return m.(*document.Marker)
}

func labels(d *document.Document) string {
	return d.Render(func(m *document.Marker) string { return "[" + m.Label() + "]" })
}

func TestNumbersFollowDocumentOrder(t *testing.T) {
	f := newFixture(t, citations.Config{})

	smith := f.insert(t, "smith", 2)
	if smith.Label() != "1" {
		t.Fatalf("first citation label = %q, want 1", smith.Label())
	}

	jones := f.insert(t, "jones", 0)
	if got := labels(f.doc); got != "[1]ab[2]cdefghij" {
		t.Errorf("after citing jones before smith = %q", got)
	}

	// a second smith citation before the first one keeps smith's number
	again := f.insert(t, "smith", 1)
	if got := labels(f.doc); got != "[1][2]ab[2]cdefghij" {
		t.Errorf("after second smith citation = %q", got)
	}
	if !again.HasClass(citations.DefaultClass) {
		t.Errorf("classes = %v, want %q", again.Classes(), citations.DefaultClass)
	}
	if diff := cmp.Diff([]string{"jones", "smith"}, f.c.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	if err := f.doc.Delete(0, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if jones.Mounted() {
		t.Error("deleted marker is still mounted")
	}
	if got := labels(f.doc); got != "[1]ab[1]cdefghij" {
		t.Errorf("after deleting jones = %q", got)
	}
	if diff := cmp.Diff([]string{"smith"}, f.c.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	testutil.AssertSorted(t, f.c.Registry())
}

func TestMoveMarkerRenumbers(t *testing.T) {
	f := newFixture(t, citations.Config{})
	a := f.insert(t, "a", 1)
	f.insert(t, "b", 5)

	if err := f.doc.MoveMarker(a.ID(), 10); err != nil {
		t.Fatalf("MoveMarker: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, f.c.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if a.Label() != "2" {
		t.Errorf("moved marker label = %q, want 2", a.Label())
	}
}

func TestInsertAtCursor(t *testing.T) {
	f := newFixture(t, citations.Config{})
	if err := f.doc.SetCursor(3); err != nil {
		t.Fatal(err)
	}
	m := f.insert(t, "k", -1)
	if got := m.Position(); got != 3 {
		t.Errorf("Position() = %d, want 3", got)
	}
	if f.doc.Cursor() != 4 {
		t.Errorf("Cursor() = %d, want 4", f.doc.Cursor())
	}
}

func TestRenderers(t *testing.T) {
	var calls []string
	rec := citations.RendererFuncs{
		Create: func(m sources.Marker, ev citations.RenderEvent) {
			calls = append(calls, fmt.Sprintf("create %s %d", ev.Key, ev.Ordinal))
		},
		Update: func(m sources.Marker, ev citations.RenderEvent) {
			calls = append(calls, fmt.Sprintf("update %s %d", ev.Key, ev.Ordinal))
		},
		Remove: func(m sources.Marker, ev citations.RenderEvent) {
			calls = append(calls, fmt.Sprintf("remove %s %d", ev.Key, ev.Ordinal))
		},
	}
	f := newFixture(t, citations.Config{Class: "cite", Renderers: []citations.Renderer{rec}})

	m := f.insert(t, "a", 0)
	if !m.HasClass("cite") {
		t.Errorf("classes = %v, want cite", m.Classes())
	}
	if len(calls) == 0 || calls[0] != "create a -1" {
		t.Fatalf("calls = %v, want create first", calls)
	}
	if calls[len(calls)-1] != "update a 0" {
		t.Errorf("last call = %q, want update a 0", calls[len(calls)-1])
	}

	calls = nil
	if err := f.doc.Delete(0, 1); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"remove a 0"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestLabel(t *testing.T) {
	if got := citations.Label(citations.RenderEvent{Ordinal: -1}); got != "" {
		t.Errorf("Label(-1) = %q, want empty", got)
	}
	if got := citations.Label(citations.RenderEvent{Ordinal: 4}); got != "5" {
		t.Errorf("Label(4) = %q, want 5", got)
	}
}

func TestNotifications(t *testing.T) {
	f := newFixture(t, citations.Config{})
	f.insert(t, "a", 4)
	f.insert(t, "b", 0)

	msg, ok := f.rec.Last(events.TopicRegistryNew)
	if !ok {
		t.Fatal("no registry-new notification")
	}
	added := msg.Data.(citations.RegistryNew)
	if added.Controller != f.c || added.Ordinal != 0 || added.Reference.Key() != "b" {
		t.Errorf("registry-new = %+v", added)
	}
	if got := f.rec.Count(events.TopicRegistryNew); got != 2 {
		t.Errorf("registry-new count = %d, want 2", got)
	}

	// b became ordinal 0, so both sources were re-rendered
	var full *citations.SourceUpdated
	for _, m := range f.rec.Messages() {
		if su, ok := m.Data.(citations.SourceUpdated); ok && len(su.References) == 2 {
			full = &su
		}
	}
	if full == nil {
		t.Fatal("no source-updated notification covering both sources")
	}
	if full.Controller != f.c {
		t.Error("source-updated carries the wrong controller")
	}
}

func TestForeignMarkers(t *testing.T) {
	bus := events.NewBus()
	rec := testutil.NewRecorder(bus)
	ids := document.NewIDSource()
	doc1 := document.New(bus, document.WithIDSource(ids))
	doc2 := document.New(bus, document.WithIDSource(ids))
	c1, err := citations.New(doc1, bus, citations.Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer c1.Close()
	c2, err := citations.New(doc2, bus, citations.Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Close()

	m, err := c1.Insert("a", 0)
	if err != nil {
		t.Fatal(err)
	}
	if c1.Len() != 1 || c2.Len() != 0 {
		t.Fatalf("Len() = %d, %d, want 1, 0", c1.Len(), c2.Len())
	}
	errs := rec.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], citations.ErrForeignMarker) {
		t.Fatalf("errors = %v, want one foreign marker error", errs)
	}
	if c2.Register(m) {
		t.Error("Register accepted a marker of another document")
	}

	rec.Clear()
	if err := doc1.Delete(0, 1); err != nil {
		t.Fatal(err)
	}
	if c1.Len() != 0 {
		t.Errorf("c1.Len() = %d, want 0", c1.Len())
	}
	if errs := rec.Errors(); len(errs) != 0 {
		t.Errorf("unmount reported errors: %v", errs)
	}
}

func TestLookups(t *testing.T) {
	f := newFixture(t, citations.Config{})
	a := f.insert(t, "a", 0)
	b := f.insert(t, "b", 3)

	if got := f.c.Ordinal("b"); got != 1 {
		t.Errorf("Ordinal(b) = %d, want 1", got)
	}
	if f.c.Source("a") == nil || f.c.Source("zzz") != nil {
		t.Error("Source() lookup wrong")
	}
	if src := f.c.SourceOfReference(b.ID()); src == nil || src.Key() != "b" {
		t.Errorf("SourceOfReference(%d) = %v", b.ID(), src)
	}
	ref, ok := f.c.Reference(a.ID())
	if !ok || ref.Position() != 0 {
		t.Errorf("Reference(%d) = %v, %v", a.ID(), ref, ok)
	}
	if _, ok := f.c.Reference(99); ok {
		t.Error("Reference(99) found a reference")
	}
	src, err := f.c.SourceAt(1)
	if err != nil || src.Key() != "b" {
		t.Errorf("SourceAt(1) = %v, %v", src, err)
	}
	var rangeErr *sources.RangeError
	if _, err := f.c.SourceAt(2); !errors.As(err, &rangeErr) {
		t.Errorf("SourceAt(2) error = %v, want RangeError", err)
	}
	if diff := cmp.Diff(f.c.Keys(), f.c.View().List()); diff != "" {
		t.Errorf("mirror and view disagree (-mirror +view):\n%s", diff)
	}
	if f.c.Type() != types.CitationDocument || f.c.Class() != citations.DefaultClass {
		t.Errorf("defaults = %q, %q", f.c.Type(), f.c.Class())
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t, citations.Config{})
	f.insert(t, "a", 0)
	f.insert(t, "b", 2)

	old := f.c.Registry()
	if err := f.c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if f.c.Registry() == old {
		t.Error("Reset kept the old registry")
	}
	if f.c.Len() != 0 || len(f.c.Keys()) != 0 {
		t.Errorf("after Reset Len() = %d, Keys() = %v", f.c.Len(), f.c.Keys())
	}

	m := f.insert(t, "c", 5)
	if m.Label() != "1" {
		t.Errorf("label after Reset = %q, want 1", m.Label())
	}
	if diff := cmp.Diff([]string{"c"}, f.c.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t, citations.Config{})
	f.insert(t, "a", 0)
	f.c.Close()

	if _, err := f.doc.InsertMarker(1, "b", types.CitationDocument); err != nil {
		t.Fatal(err)
	}
	if f.c.Len() != 1 {
		t.Errorf("Len() after Close = %d, want 1", f.c.Len())
	}
}

func TestNewErrors(t *testing.T) {
	bus := events.NewBus()
	doc := document.New(bus)

	if _, err := citations.New(nil, bus, citations.Config{}); err == nil {
		t.Error("New accepted a nil surface")
	}
	if _, err := citations.New(doc, nil, citations.Config{}); err == nil {
		t.Error("New accepted a nil bus")
	}
	_, err := citations.New(doc, bus, citations.Config{Type: "figure"})
	if !errors.Is(err, types.ErrInvalidType) {
		t.Errorf("New with unknown type error = %v, want ErrInvalidType", err)
	}
}
