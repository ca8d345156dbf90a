package textarea

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/rivo/uniseg"

	"github.com/dshills/codeglow/internal/event"
)

// Validity mirrors the constraint-validation state of the surface.
type Validity struct {
	// ValueMissing is set when required is present and the value is empty.
	ValueMissing bool

	// TooLong is set when the value exceeds maxlength graphemes.
	TooLong bool

	// TooShort is set when a non-empty value is under minlength graphemes.
	TooShort bool

	// PatternMismatch is set when the value fails the pattern attribute.
	PatternMismatch bool

	// CustomError is set while a custom validity message is active.
	CustomError bool
}

// Valid reports whether no constraint is violated.
func (v Validity) Valid() bool {
	return !v.ValueMissing && !v.TooLong && !v.TooShort && !v.PatternMismatch && !v.CustomError
}

// Validity evaluates the surface's constraints against its current
// value. Constraints come from the mirrored attributes: required,
// maxlength, minlength and pattern. Lengths count grapheme clusters.
func (m *Model) Validity() Validity {
	m.mu.Lock()
	value := m.value
	custom := m.custom
	attrs := make(map[string]string, 4)
	for _, name := range []string{"required", "maxlength", "minlength", "pattern"} {
		if v, ok := m.attrs[name]; ok {
			attrs[name] = v
		}
	}
	m.mu.Unlock()

	var v Validity
	v.CustomError = custom != ""

	if _, ok := attrs["required"]; ok && value == "" {
		v.ValueMissing = true
	}

	length := uniseg.GraphemeClusterCount(value)
	if raw, ok := attrs["maxlength"]; ok {
		if max, err := strconv.Atoi(raw); err == nil && max >= 0 && length > max {
			v.TooLong = true
		}
	}
	if raw, ok := attrs["minlength"]; ok {
		if min, err := strconv.Atoi(raw); err == nil && value != "" && length < min {
			v.TooShort = true
		}
	}

	if pattern, ok := attrs["pattern"]; ok && pattern != "" && value != "" {
		// The pattern must match the whole value. An unparsable
		// pattern constrains nothing.
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		if err == nil && !re.MatchString(value) {
			v.PatternMismatch = true
		}
	}

	return v
}

// SetCustomValidity installs a custom error message. An empty string
// clears it.
func (m *Model) SetCustomValidity(msg string) {
	m.mu.Lock()
	m.custom = msg
	m.mu.Unlock()
}

// ValidationMessage returns the message describing the first active
// constraint violation, or "" when valid.
func (m *Model) ValidationMessage() string {
	m.mu.Lock()
	custom := m.custom
	m.mu.Unlock()
	if custom != "" {
		return custom
	}

	v := m.Validity()
	switch {
	case v.ValueMissing:
		return "Please fill in this field."
	case v.TooLong:
		max, _ := m.Attribute("maxlength")
		return fmt.Sprintf("Please shorten this text to %s characters or less.", max)
	case v.TooShort:
		min, _ := m.Attribute("minlength")
		return fmt.Sprintf("Please lengthen this text to %s characters or more.", min)
	case v.PatternMismatch:
		return "Please match the requested format."
	}
	return ""
}

// CheckValidity evaluates constraints, emitting an invalid event when
// a constraint is violated. It returns true when the value is valid.
func (m *Model) CheckValidity() bool {
	if m.Validity().Valid() {
		return true
	}
	m.events.Dispatch(event.Event{
		Type:    event.Invalid,
		Target:  m,
		Value:   m.Value(),
		Message: m.ValidationMessage(),
	})
	return false
}

// ReportValidity behaves like CheckValidity. There is no built-in
// validation UI; hosts surface the message via the invalid event.
func (m *Model) ReportValidity() bool {
	return m.CheckValidity()
}
