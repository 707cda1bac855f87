package sources

import (
	"errors"

	"github.com/arthur-debert/citeorder/events"
	"github.com/arthur-debert/citeorder/types"
)

// Mirror receives a copy of the key list after every resync
type Mirror interface {
	SetKeys(keys []string)
}

// SliceMirror is a Mirror backed by a plain slice
type SliceMirror struct {
	Keys []string
}

// SetKeys implements Mirror
func (m *SliceMirror) SetKeys(keys []string) {
	m.Keys = keys
}

// MirrorFunc adapts a function to Mirror
type MirrorFunc func(keys []string)

// SetKeys implements Mirror
func (f MirrorFunc) SetKeys(keys []string) {
	f(keys)
}

// KeyView is a read-only list of a registry's source keys in ordinal order,
// kept current through order change notifications
type KeyView struct {
	reg    *Registry
	bus    events.Subscriber
	sub    events.Subscription
	keys   []string
	mirror Mirror
}

// NewKeyView builds the view and subscribes it to reg's order changes on bus.
// mirror may be nil.
func NewKeyView(reg *Registry, bus events.Subscriber, mirror Mirror) (*KeyView, error) {
	if reg == nil {
		return nil, errors.New("registry is nil")
	}
	if reg.Errored() {
		return nil, reg.Err()
	}
	if bus == nil {
		return nil, errors.New("subscriber is nil")
	}

	v := &KeyView{reg: reg, bus: bus, mirror: mirror}
	v.resync(0)
	v.sub = bus.On(reg.Type(), events.TopicOrderChange, v.observe)
	return v, nil
}

func (v *KeyView) observe(msg events.Message) {
	change, ok := msg.Data.(OrderChange)
	if !ok || change.Registry != v.reg {
		return
	}
	v.resync(change.From)
}

// resync reloads keys from ordinal from onward and trims to the registry length
func (v *KeyView) resync(from int) {
	from = max(0, min(from, len(v.keys)))
	n := v.reg.Len()
	for i := from; i < n; i++ {
		key := v.reg.sources[i].Key()
		if i < len(v.keys) {
			v.keys[i] = key
		} else {
			v.keys = append(v.keys, key)
		}
	}
	if len(v.keys) > n {
		v.keys = v.keys[:n]
	}

	if v.mirror != nil {
		v.mirror.SetKeys(v.List())
	}
}

// KeyAt returns the key with ordinal i
func (v *KeyView) KeyAt(i int) (string, bool) {
	if i < 0 || i >= len(v.keys) {
		return "", false
	}
	return v.keys[i], true
}

// List returns a copy of the keys
func (v *KeyView) List() []string {
	return append(make([]string, 0, len(v.keys)), v.keys...)
}

// Len returns the number of keys
func (v *KeyView) Len() int {
	return len(v.keys)
}

// Type returns the registry's source type
func (v *KeyView) Type() types.SourceType {
	return v.reg.Type()
}

// Close stops following the registry
func (v *KeyView) Close() {
	v.bus.Off(v.sub)
	v.sub = events.Subscription{}
}
