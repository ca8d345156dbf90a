package widget

import "github.com/dshills/codeglow/internal/event"

// forwarded is the allow-list of interactive event types rebound to
// the editable surface. Everything else dispatches on the widget
// itself.
var forwarded = map[event.Type]bool{
	event.Input:           true,
	event.Change:          true,
	event.SelectionChange: true,
	event.Invalid:         true,
}

// wrapperKey identifies one forwarded registration: the original
// handler plus its options. The same handler added under two distinct
// option sets is two registrations, each removable on its own.
type wrapperKey struct {
	typ     event.Type
	handler uintptr
	cfg     any
}

// pendingListener is a forwarded registration made before the editable
// surface exists; setup flushes it.
type pendingListener struct {
	key     wrapperKey
	typ     event.Type
	wrapper event.Handler
	opts    []event.ListenerOption
}

// AddListener registers a handler. Interactive types forward to the
// editable surface through a wrapper that retargets the event at the
// widget; registrations made before setup are deferred until the
// surface exists.
func (w *Widget) AddListener(typ event.Type, h event.Handler, opts ...event.ListenerOption) {
	if h == nil {
		return
	}
	if !forwarded[typ] {
		w.events.AddListener(typ, h, opts...)
		return
	}

	key := wrapperKey{typ: typ, handler: event.HandlerKey(h), cfg: event.ConfigKey(opts...)}

	w.mu.Lock()
	if _, ok := w.wrappers[key]; ok {
		w.mu.Unlock()
		return
	}
	wrapper := func(e event.Event) {
		e.Target = w
		h(e)
	}
	// Wrapper closures share a code pointer, so the registration on
	// the editable surface is disambiguated by tag.
	tagged := append(append([]event.ListenerOption{}, opts...), event.WithTag(key))
	w.wrappers[key] = wrapper
	built := w.built
	if !built {
		w.pending = append(w.pending, pendingListener{key: key, typ: typ, wrapper: wrapper, opts: tagged})
	}
	w.mu.Unlock()

	if built {
		w.editable.Events().AddListener(typ, wrapper, tagged...)
	}
}

// RemoveListener removes the registration previously made with the
// same handler identity and options, detaching the exact wrapper that
// was attached.
func (w *Widget) RemoveListener(typ event.Type, h event.Handler, opts ...event.ListenerOption) {
	if h == nil {
		return
	}
	if !forwarded[typ] {
		w.events.RemoveListener(typ, h, opts...)
		return
	}

	key := wrapperKey{typ: typ, handler: event.HandlerKey(h), cfg: event.ConfigKey(opts...)}

	w.mu.Lock()
	wrapper, ok := w.wrappers[key]
	if !ok {
		w.mu.Unlock()
		return
	}
	delete(w.wrappers, key)
	for i, p := range w.pending {
		if p.key == key {
			w.pending = append(w.pending[:i], w.pending[i+1:]...)
			break
		}
	}
	built := w.built
	w.mu.Unlock()

	if built {
		tagged := append(append([]event.ListenerOption{}, opts...), event.WithTag(key))
		w.editable.Events().RemoveListener(typ, wrapper, tagged...)
	}
}

// Events returns the widget's own event target, carrying the load
// notification and any non-interactive types.
func (w *Widget) Events() *event.Target {
	return &w.events
}
