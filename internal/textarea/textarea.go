// Package textarea implements the editable surface of a widget.
//
// The model is the authoritative owner of the text value. It stands in
// for the host platform's native text-entry primitive: the widget never
// edits text itself, it only mirrors attributes onto the model and
// forwards interactive events to and from it.
package textarea

import (
	"sync"

	"github.com/rivo/uniseg"

	"github.com/dshills/codeglow/internal/event"
)

// Model is an editable text surface.
type Model struct {
	mu sync.Mutex

	value    string
	selStart int // byte offset
	selEnd   int // byte offset

	placeholder  string
	focused      bool
	valueAtFocus string

	// attrs mirrors the host attributes the widget copies across
	// (constraint validation inputs, aria-*, and friends).
	attrs map[string]string

	// custom is the custom validity message; non-empty means invalid.
	custom string

	rows, cols int
	background string

	events event.Target
}

// New creates an empty model.
func New() *Model {
	return &Model{attrs: make(map[string]string)}
}

// Events returns the model's event target. The widget forwards
// interactive listeners here.
func (m *Model) Events() *event.Target {
	return &m.events
}

// Value returns the current text.
func (m *Model) Value() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// SetValue replaces the text, clamps the selection, and emits an input
// event.
func (m *Model) SetValue(v string) {
	m.mu.Lock()
	if m.value == v {
		m.mu.Unlock()
		return
	}
	m.value = v
	if m.selStart > len(v) {
		m.selStart = len(v)
	}
	if m.selEnd > len(v) {
		m.selEnd = len(v)
	}
	m.mu.Unlock()
	m.events.Dispatch(event.Event{Type: event.Input, Target: m, Value: v})
}

// InsertText inserts s at the caret, replacing any active selection,
// and emits an input event.
func (m *Model) InsertText(s string) {
	if s == "" {
		return
	}
	m.mu.Lock()
	start, end := m.selStart, m.selEnd
	if start > end {
		start, end = end, start
	}
	m.value = m.value[:start] + s + m.value[end:]
	caret := start + len(s)
	m.selStart, m.selEnd = caret, caret
	v := m.value
	m.mu.Unlock()
	m.events.Dispatch(event.Event{Type: event.Input, Target: m, Value: v})
}

// DeleteBackward removes the active selection, or the byte run of the
// grapheme before the caret, and emits an input event.
func (m *Model) DeleteBackward() {
	m.mu.Lock()
	start, end := m.selStart, m.selEnd
	if start > end {
		start, end = end, start
	}
	if start == end {
		if start == 0 {
			m.mu.Unlock()
			return
		}
		start = prevGrapheme(m.value, end)
	}
	m.value = m.value[:start] + m.value[end:]
	m.selStart, m.selEnd = start, start
	v := m.value
	m.mu.Unlock()
	m.events.Dispatch(event.Event{Type: event.Input, Target: m, Value: v})
}

// prevGrapheme returns the byte offset of the start of the grapheme
// cluster ending at offset.
func prevGrapheme(s string, offset int) int {
	start := 0
	state := -1
	rest := s[:offset]
	for len(rest) > 0 {
		cluster, tail, _, next := uniseg.FirstGraphemeClusterInString(rest, state)
		if len(tail) == 0 {
			return offset - len(cluster)
		}
		start += len(cluster)
		rest = tail
		state = next
	}
	return start
}

// Selection returns the current selection byte offsets.
func (m *Model) Selection() (start, end int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selStart, m.selEnd
}

// SetSelection moves the selection and emits a selectionchange event.
func (m *Model) SetSelection(start, end int) {
	m.mu.Lock()
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}
	if start > len(m.value) {
		start = len(m.value)
	}
	if end > len(m.value) {
		end = len(m.value)
	}
	changed := start != m.selStart || end != m.selEnd
	m.selStart, m.selEnd = start, end
	v := m.value
	m.mu.Unlock()
	if changed {
		m.events.Dispatch(event.Event{Type: event.SelectionChange, Target: m, Value: v})
	}
}

// Placeholder returns the placeholder text.
func (m *Model) Placeholder() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.placeholder
}

// SetPlaceholder sets the placeholder text.
func (m *Model) SetPlaceholder(p string) {
	m.mu.Lock()
	m.placeholder = p
	m.mu.Unlock()
}

// Focused reports whether the surface has keyboard focus.
func (m *Model) Focused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

// Focus gives the surface keyboard focus.
func (m *Model) Focus() {
	m.mu.Lock()
	m.focused = true
	m.valueAtFocus = m.value
	m.mu.Unlock()
}

// Blur removes focus and emits a change event when the value differs
// from the value at focus time.
func (m *Model) Blur() {
	m.mu.Lock()
	wasFocused := m.focused
	m.focused = false
	changed := wasFocused && m.value != m.valueAtFocus
	v := m.value
	m.mu.Unlock()
	if changed {
		m.events.Dispatch(event.Event{Type: event.Change, Target: m, Value: v})
	}
}

// Attribute returns a mirrored attribute.
func (m *Model) Attribute(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.attrs[name]
	return v, ok
}

// SetAttribute mirrors an attribute onto the surface.
func (m *Model) SetAttribute(name, value string) {
	m.mu.Lock()
	m.attrs[name] = value
	if name == "placeholder" {
		m.placeholder = value
	}
	m.mu.Unlock()
}

// RemoveAttribute drops a mirrored attribute.
func (m *Model) RemoveAttribute(name string) {
	m.mu.Lock()
	delete(m.attrs, name)
	if name == "placeholder" {
		m.placeholder = ""
	}
	m.mu.Unlock()
}

// Attributes returns a copy of the mirrored attribute map.
func (m *Model) Attributes() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.attrs))
	for k, v := range m.attrs {
		out[k] = v
	}
	return out
}

// SetSize records the reconciled box dimensions.
func (m *Model) SetSize(rows, cols int) {
	m.mu.Lock()
	m.rows, m.cols = rows, cols
	m.mu.Unlock()
}

// Size returns the reconciled box dimensions.
func (m *Model) Size() (rows, cols int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows, m.cols
}

// SetBackground records the reconciled background color.
func (m *Model) SetBackground(hex string) {
	m.mu.Lock()
	m.background = hex
	m.mu.Unlock()
}

// Background returns the reconciled background color.
func (m *Model) Background() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.background
}
