package textarea

import (
	"testing"

	"github.com/dshills/codeglow/internal/event"
)

func TestSetValueEmitsInput(t *testing.T) {
	m := New()
	var events []event.Event
	m.Events().AddListener(event.Input, func(e event.Event) {
		events = append(events, e)
	})

	m.SetValue("hello")
	if m.Value() != "hello" {
		t.Errorf("Value() = %q, want %q", m.Value(), "hello")
	}
	if len(events) != 1 {
		t.Fatalf("got %d input events, want 1", len(events))
	}
	if events[0].Value != "hello" {
		t.Errorf("event value = %q, want %q", events[0].Value, "hello")
	}

	// Setting the same value again emits nothing.
	m.SetValue("hello")
	if len(events) != 1 {
		t.Errorf("no-op SetValue emitted %d extra events", len(events)-1)
	}
}

func TestInsertTextAtCaret(t *testing.T) {
	m := New()
	m.SetValue("ac")
	m.SetSelection(1, 1)
	m.InsertText("b")

	if m.Value() != "abc" {
		t.Errorf("Value() = %q, want %q", m.Value(), "abc")
	}
	start, end := m.Selection()
	if start != 2 || end != 2 {
		t.Errorf("Selection() = %d,%d, want 2,2", start, end)
	}
}

func TestInsertTextReplacesSelection(t *testing.T) {
	m := New()
	m.SetValue("hello world")
	m.SetSelection(6, 11)
	m.InsertText("there")

	if m.Value() != "hello there" {
		t.Errorf("Value() = %q, want %q", m.Value(), "hello there")
	}
}

func TestDeleteBackward(t *testing.T) {
	m := New()
	m.SetValue("ab́c") // b with combining accent
	m.SetSelection(len("ab́"), len("ab́"))
	m.DeleteBackward()

	// The whole grapheme cluster goes, not just the combining mark.
	if m.Value() != "ac" {
		t.Errorf("Value() = %q, want %q", m.Value(), "ac")
	}

	m.SetSelection(0, 0)
	m.DeleteBackward() // at start, no-op
	if m.Value() != "ac" {
		t.Errorf("DeleteBackward at start changed value to %q", m.Value())
	}
}

func TestSelectionChangeEvent(t *testing.T) {
	m := New()
	m.SetValue("hello")
	fired := 0
	m.Events().AddListener(event.SelectionChange, func(event.Event) { fired++ })

	m.SetSelection(1, 3)
	m.SetSelection(1, 3) // no movement
	m.SetSelection(99, 99)

	if fired != 2 {
		t.Errorf("selectionchange fired %d times, want 2", fired)
	}
	start, end := m.Selection()
	if start != 5 || end != 5 {
		t.Errorf("out-of-range selection = %d,%d, want clamped to 5,5", start, end)
	}
}

func TestBlurEmitsChangeOnlyWhenEdited(t *testing.T) {
	m := New()
	m.SetValue("initial")
	changes := 0
	m.Events().AddListener(event.Change, func(event.Event) { changes++ })

	m.Focus()
	m.Blur()
	if changes != 0 {
		t.Errorf("unedited blur emitted %d change events", changes)
	}

	m.Focus()
	m.InsertText("!")
	m.Blur()
	if changes != 1 {
		t.Errorf("edited blur emitted %d change events, want 1", changes)
	}
}

func TestAttributeMirroring(t *testing.T) {
	m := New()
	m.SetAttribute("aria-label", "Code")
	if v, ok := m.Attribute("aria-label"); !ok || v != "Code" {
		t.Errorf("Attribute(aria-label) = %q,%v, want Code,true", v, ok)
	}

	m.SetAttribute("placeholder", "type here")
	if m.Placeholder() != "type here" {
		t.Errorf("Placeholder() = %q, want %q", m.Placeholder(), "type here")
	}

	m.RemoveAttribute("placeholder")
	if m.Placeholder() != "" {
		t.Errorf("Placeholder() after remove = %q, want empty", m.Placeholder())
	}
	if _, ok := m.Attribute("placeholder"); ok {
		t.Error("removed attribute still present")
	}
}
