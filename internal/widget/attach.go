package widget

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/dshills/codeglow/internal/event"
	"github.com/dshills/codeglow/internal/markup"
	"github.com/dshills/codeglow/internal/template"
)

// Attach resolves the widget's template and runs setup. When the
// requested template is not registered yet the widget stays queued and
// the registry resumes it on registration; queueing is not an error.
// Re-attaching an already-built widget skips the build.
func (w *Widget) Attach() {
	w.resolveAndAdopt()
}

// Detach stops attribute observation and frame scheduling. The
// surfaces stay in place for a later re-attach.
func (w *Widget) Detach() {
	w.mu.Lock()
	watcher := w.watcher
	w.mu.Unlock()
	watcher.Stop()
	w.sched.Suspend()
	w.setState(Unattached)
	w.log.Debug().Msg("detached")
}

// RequestedTemplate implements template.Waiter. An absent or empty
// template attribute means "use the default".
func (w *Widget) RequestedTemplate() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a := w.host.SelectAttr("template")
	if a == nil || a.Value == "" {
		return "", false
	}
	return a.Value, true
}

// AssignTemplate implements template.Waiter: the registry delivers a
// template to a queued widget and the attach procedure resumes.
func (w *Widget) AssignTemplate(name string, tmpl template.Template) {
	w.setState(Resolving)
	w.adopt(name, tmpl)
}

func (w *Widget) resolveAndAdopt() {
	w.setState(Resolving)
	tmpl, ok := w.registry.Resolve(w)
	if !ok {
		w.setState(Queued)
		w.log.Debug().Msg("template unavailable, queued")
		return
	}
	name, named := w.RequestedTemplate()
	if !named {
		name, _ = w.registry.DefaultName()
	}
	w.adopt(name, tmpl)
}

// adopt installs a resolved template and finishes the attach: setup if
// the surfaces do not exist yet, a fresh attribute watcher scoped to
// the template's observed set, and a resumed scheduler.
func (w *Widget) adopt(name string, tmpl template.Template) {
	w.mu.Lock()
	w.tmpl = tmpl
	w.tmplName = name
	host := w.host
	built := w.built
	w.mu.Unlock()

	if tmpl.PreStyled() {
		markup.AddClass(host, styledClass)
	} else {
		markup.RemoveClass(host, styledClass)
	}

	if !built {
		w.setup()
	}
	w.installWatcher()
	w.sched.Mark()
	w.sched.Resume()
	w.setState(Loaded)
	w.log.Debug().Str("template", name).Msg("loaded")
}

// setup builds the managed children once. The build is bracketed by
// the extensions' surface hooks and finishes with the load event and
// the initial value.
func (w *Widget) setup() {
	w.mu.Lock()
	if w.built {
		w.mu.Unlock()
		return
	}
	host := w.host
	tmpl := w.tmpl
	w.mu.Unlock()

	initial := w.captureInitialValue(host)

	exts := tmpl.Extensions()
	for _, ext := range exts {
		ext.BeforeSurfacesAdded(w)
	}

	markup.RemoveChildren(host)

	editableEl := host.CreateElement("textarea")
	for name, value := range mirroredHostAttrs(host) {
		editableEl.CreateAttr(name, value)
		w.editable.SetAttribute(name, value)
	}
	editableEl.CreateAttr("spellcheck", "false")
	editableEl.CreateAttr("tabindex", "0")
	host.CreateAttr("tabindex", "-1")

	renderBox := host.CreateElement("pre")
	renderNode := renderBox.CreateElement("code")
	renderNode.CreateAttr("aria-hidden", "true")
	if tmpl.CodeMode() {
		if class := languageClass(w.Language()); class != "" {
			markup.AddClass(renderBox, class)
			markup.AddClass(renderNode, class)
		}
	}

	overlay := host.CreateElement("div")
	overlay.CreateAttr("class", "overlay")
	instructions := overlay.CreateElement("div")
	instructions.CreateAttr("class", "instructions")

	w.mu.Lock()
	w.editableEl = editableEl
	w.renderBox = renderBox
	w.renderNode = renderNode
	w.overlay = overlay
	w.instructions = instructions
	w.built = true
	w.state = Built
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()

	for _, ext := range exts {
		ext.AfterSurfacesAdded(w)
	}

	// Listeners registered before the editable surface existed attach
	// now, then the one-shot load notification fires.
	for _, p := range pending {
		w.editable.Events().AddListener(p.typ, p.wrapper, p.opts...)
	}
	w.events.Dispatch(event.Event{Type: event.Load, Target: w, Value: initial})

	w.editable.SetValue(initial)
}

// captureInitialValue determines the initial text: a fallback textarea
// child wins (its non-conflicting attributes copy onto the host and
// the child is consumed), then the host's unescaped inner text, then
// the value attribute, then empty.
func (w *Widget) captureInitialValue(host *etree.Element) string {
	if fallback := host.SelectElement("textarea"); fallback != nil {
		for _, a := range fallback.Attr {
			key := a.FullKey()
			if host.SelectAttr(key) == nil {
				host.CreateAttr(key, a.Value)
			}
		}
		value := markup.TextContent(fallback)
		host.RemoveChild(fallback)
		return value
	}
	if inner := markup.TextContent(host); inner != "" {
		return markup.Unescape(inner)
	}
	if a := host.SelectAttr("value"); a != nil {
		return a.Value
	}
	return ""
}

// installWatcher replaces the attribute watcher with one scoped to the
// active template's observed set. Switching templates must not keep
// observing the previous template's extension attributes.
func (w *Widget) installWatcher() {
	w.mu.Lock()
	old := w.watcher
	tmpl := w.tmpl
	w.mu.Unlock()
	old.Stop()

	watcher := newHostWatcher(w.handleChange)
	if tmpl != nil {
		watcher.Observe(tmpl.ObservedAttributes()...)
	}
	watcher.Start(w.hostAttrs())

	w.mu.Lock()
	w.watcher = watcher
	w.mu.Unlock()
}

// languageClass maps a declared language to its rendering-node class.
func languageClass(lang string) string {
	if lang == "" {
		return ""
	}
	return "language-" + strings.ToLower(lang)
}
