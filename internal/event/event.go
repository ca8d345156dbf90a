// Package event provides listener registration and dispatch for widget
// surfaces.
//
// A Target owns per-type listener lists. Listeners are identified by
// handler function identity plus their registration options, which is
// what allows a caller to remove exactly the listener it added.
package event

import (
	"reflect"
	"sync"
	"time"
)

// Type identifies an event kind.
type Type string

// Event types dispatched by widget surfaces.
const (
	// Input fires on every value mutation of the editable surface.
	Input Type = "input"

	// Change fires when an edit is committed (focus leaves the surface).
	Change Type = "change"

	// SelectionChange fires when the selection or caret moves.
	SelectionChange Type = "selectionchange"

	// Invalid fires when constraint validation fails.
	Invalid Type = "invalid"

	// Load fires once after a widget finishes setup.
	Load Type = "load"
)

// Event carries a dispatched notification.
type Event struct {
	// Type is the event kind.
	Type Type

	// Target is the object the event is dispatched on behalf of.
	Target any

	// Value carries the surface value for input/change events.
	Value string

	// Message carries the validation message for invalid events.
	Message string

	// Timestamp is when the event was created.
	Timestamp time.Time
}

// Handler is a listener callback.
type Handler func(Event)

// HandlerKey returns an identity key for a handler. Two references to
// the same function value produce the same key; distinct closures do
// not, matching remove-what-you-added semantics.
func HandlerKey(h Handler) uintptr {
	if h == nil {
		return 0
	}
	return reflect.ValueOf(h).Pointer()
}

// ListenerOption configures a listener registration.
type ListenerOption func(*listenerConfig)

type listenerConfig struct {
	once bool
	tag  any
}

// WithOnce removes the listener after its first invocation.
func WithOnce() ListenerOption {
	return func(c *listenerConfig) {
		c.once = true
	}
}

// WithTag attaches a comparable tag to the registration identity.
// Closures built from the same function literal share a code pointer,
// so HandlerKey alone cannot tell two such wrappers apart; a distinct
// tag keeps their registrations distinct.
func WithTag(tag any) ListenerOption {
	return func(c *listenerConfig) {
		c.tag = tag
	}
}

// ConfigKey folds a set of options into a comparable value. The same
// handler registered under different option sets counts as a distinct
// listener.
func ConfigKey(opts ...ListenerOption) any {
	var c listenerConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type registration struct {
	key     uintptr
	cfg     listenerConfig
	handler Handler
}

// Target dispatches events to registered listeners.
// The zero value is ready to use.
type Target struct {
	mu        sync.Mutex
	listeners map[Type][]*registration
}

// AddListener registers h for events of the given type. Registering the
// same handler with the same options twice is a no-op.
func (t *Target) AddListener(typ Type, h Handler, opts ...ListenerOption) {
	if h == nil {
		return
	}
	var cfg listenerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	key := HandlerKey(h)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listeners == nil {
		t.listeners = make(map[Type][]*registration)
	}
	for _, reg := range t.listeners[typ] {
		if reg.key == key && reg.cfg == cfg {
			return
		}
	}
	t.listeners[typ] = append(t.listeners[typ], &registration{key: key, cfg: cfg, handler: h})
}

// RemoveListener removes the listener previously added with the same
// handler identity and options. Removing an unknown listener is a no-op.
func (t *Target) RemoveListener(typ Type, h Handler, opts ...ListenerOption) {
	if h == nil {
		return
	}
	var cfg listenerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	key := HandlerKey(h)

	t.mu.Lock()
	defer t.mu.Unlock()
	regs := t.listeners[typ]
	for i, reg := range regs {
		if reg.key == key && reg.cfg == cfg {
			t.listeners[typ] = append(regs[:i], regs[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of listeners for a type.
func (t *Target) ListenerCount(typ Type) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners[typ])
}

// Dispatch delivers e to every listener of e.Type in registration
// order. Once-listeners are removed before their handler runs, so a
// handler re-dispatching the same type cannot fire itself again.
func (t *Target) Dispatch(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	t.mu.Lock()
	regs := t.listeners[e.Type]
	run := make([]Handler, 0, len(regs))
	kept := regs[:0]
	for _, reg := range regs {
		run = append(run, reg.handler)
		if !reg.cfg.once {
			kept = append(kept, reg)
		}
	}
	if t.listeners != nil {
		t.listeners[e.Type] = kept
	}
	t.mu.Unlock()

	for _, h := range run {
		h(e)
	}
}
