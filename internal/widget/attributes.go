package widget

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/dshills/codeglow/internal/attrs"
	"github.com/dshills/codeglow/internal/extension"
	"github.com/dshills/codeglow/internal/markup"
)

// mirroredNames is the allow-list of host attributes copied verbatim
// onto the editable surface. aria-* names mirror as well, by prefix.
var mirroredNames = []string{
	"autocapitalize",
	"autocomplete",
	"autofocus",
	"cols",
	"disabled",
	"maxlength",
	"minlength",
	"name",
	"pattern",
	"placeholder",
	"readonly",
	"required",
	"rows",
	"wrap",
}

// mirroredAttr reports whether name mirrors onto the editable surface.
func mirroredAttr(name string) bool {
	if strings.HasPrefix(name, "aria-") {
		return true
	}
	for _, n := range mirroredNames {
		if n == name {
			return true
		}
	}
	return false
}

// newHostWatcher builds a watcher observing the built-in transition
// names plus the mirror set. Template-specific names are added by the
// caller.
func newHostWatcher(handler attrs.Handler) *attrs.Watcher {
	w := attrs.NewWatcher(handler)
	w.Observe("value", "template", "lang", "language")
	w.Observe(mirroredNames...)
	w.ObservePrefix("aria-")
	return w
}

// mirroredHostAttrs collects the host attributes in the mirror set.
func mirroredHostAttrs(host *etree.Element) map[string]string {
	out := make(map[string]string)
	for _, a := range host.Attr {
		if key := a.FullKey(); mirroredAttr(key) {
			out[key] = a.Value
		}
	}
	return out
}

// Attribute implements extension.Instance.
func (w *Widget) Attribute(name string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := w.host.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// Attributes returns a copy of the host's attribute map.
func (w *Widget) Attributes() map[string]string {
	return w.hostAttrs()
}

func (w *Widget) hostAttrs() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]string, len(w.host.Attr))
	for _, a := range w.host.Attr {
		out[a.FullKey()] = a.Value
	}
	return out
}

// SetAttribute implements extension.Instance: the setter path both
// mutates the host element and runs the change transition.
func (w *Widget) SetAttribute(name, value string) {
	w.mu.Lock()
	w.host.CreateAttr(name, value)
	watcher := w.watcher
	w.mu.Unlock()
	watcher.Record(name, value, true)
}

// RemoveAttribute implements extension.Instance.
func (w *Widget) RemoveAttribute(name string) {
	w.mu.Lock()
	w.host.RemoveAttr(name)
	watcher := w.watcher
	w.mu.Unlock()
	watcher.Record(name, "", false)
}

// SyncHost diffs the host element's current attributes against the
// watcher snapshot and runs the change transition for every observed
// difference. This is the external boundary: call it after mutating
// the host element directly, outside the widget's setters.
func (w *Widget) SyncHost() {
	w.mu.Lock()
	watcher := w.watcher
	w.mu.Unlock()
	watcher.Sync(w.hostAttrs())
}

// handleChange is the attribute propagation transition. Every change
// first reaches all extensions of the active template, then the
// built-in handling keyed by name runs.
func (w *Widget) handleChange(c attrs.Change) {
	w.mu.Lock()
	tmpl := w.tmpl
	built := w.built
	editableEl := w.editableEl
	renderBox := w.renderBox
	renderNode := w.renderNode
	w.mu.Unlock()

	var exts []extension.Extension
	if tmpl != nil {
		exts = tmpl.Extensions()
	}
	for _, ext := range exts {
		ext.AttributeChanged(w, c.Name, c.Old, c.New)
	}

	switch c.Name {
	case "value":
		w.editable.SetValue(c.New)
		w.sched.Mark()

	case "template":
		w.resolveAndAdopt()

	case "lang", "language":
		if built && tmpl != nil && tmpl.CodeMode() {
			oldClass := languageClass(c.Old)
			newClass := languageClass(c.New)
			switch {
			case newClass == "":
				markup.RemoveClass(renderBox, oldClass)
				markup.RemoveClass(renderNode, oldClass)
			case oldClass != newClass:
				markup.SwapClass(renderBox, oldClass, newClass)
				markup.SwapClass(renderNode, oldClass, newClass)
			}
		}
		// A placeholder that mirrored the old language follows it.
		if p := w.editable.Placeholder(); p != "" && strings.EqualFold(p, c.Old) {
			w.editable.SetPlaceholder(c.New)
		}
		w.sched.Mark()

	default:
		if built && mirroredAttr(c.Name) {
			if c.NewPresent {
				editableEl.CreateAttr(c.Name, c.New)
				w.editable.SetAttribute(c.Name, c.New)
			} else {
				editableEl.RemoveAttr(c.Name)
				w.editable.RemoveAttribute(c.Name)
			}
		}
		// Extension-observed names have no built-in effect beyond the
		// AttributeChanged dispatch above.
	}
}
