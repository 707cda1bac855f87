package citations

import (
	"strconv"

	"github.com/arthur-debert/citeorder/sources"
)

// RenderEvent tells a renderer which number a marker displays
type RenderEvent struct {
	Ordinal int // -1 when the marker has no ordinal yet, or its removal failed
	Key     string
	ID      int
}

// Number returns the displayed citation number, 0 when unassigned
func (e RenderEvent) Number() int {
	if e.Ordinal < 0 {
		return 0
	}
	return e.Ordinal + 1
}

// Renderer keeps the on-screen form of markers in step with the registry
type Renderer interface {
	OnCreate(target sources.Marker, ev RenderEvent)
	OnUpdate(target sources.Marker, ev RenderEvent)
	OnRemove(target sources.Marker, ev RenderEvent)
}

// RendererFuncs adapts functions to Renderer; nil functions are skipped
type RendererFuncs struct {
	Create func(sources.Marker, RenderEvent)
	Update func(sources.Marker, RenderEvent)
	Remove func(sources.Marker, RenderEvent)
}

// OnCreate implements Renderer
func (f RendererFuncs) OnCreate(target sources.Marker, ev RenderEvent) {
	if f.Create != nil {
		f.Create(target, ev)
	}
}

// OnUpdate implements Renderer
func (f RendererFuncs) OnUpdate(target sources.Marker, ev RenderEvent) {
	if f.Update != nil {
		f.Update(target, ev)
	}
}

// OnRemove implements Renderer
func (f RendererFuncs) OnRemove(target sources.Marker, ev RenderEvent) {
	if f.Remove != nil {
		f.Remove(target, ev)
	}
}

// Labeler is implemented by markers that can show a label
type Labeler interface {
	SetLabel(label string)
	AddClass(class string)
}

// DefaultRenderer tags markers with Class and labels them with their citation number
type DefaultRenderer struct {
	Class string
}

// OnCreate implements Renderer
func (r DefaultRenderer) OnCreate(target sources.Marker, ev RenderEvent) {
	if l, ok := target.(Labeler); ok {
		l.AddClass(r.Class)
		l.SetLabel(Label(ev))
	}
}

// OnUpdate implements Renderer
func (r DefaultRenderer) OnUpdate(target sources.Marker, ev RenderEvent) {
	if l, ok := target.(Labeler); ok {
		l.SetLabel(Label(ev))
	}
}

// OnRemove implements Renderer
func (DefaultRenderer) OnRemove(sources.Marker, RenderEvent) {}

// Label formats the number shown for ev, empty when unassigned
func Label(ev RenderEvent) string {
	if ev.Ordinal < 0 {
		return ""
	}
	return strconv.Itoa(ev.Number())
}
