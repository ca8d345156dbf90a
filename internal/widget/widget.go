package widget

import (
	"context"
	"sync"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/codeglow/internal/attrs"
	"github.com/dshills/codeglow/internal/event"
	"github.com/dshills/codeglow/internal/extension"
	"github.com/dshills/codeglow/internal/frame"
	"github.com/dshills/codeglow/internal/highlight"
	"github.com/dshills/codeglow/internal/markup"
	"github.com/dshills/codeglow/internal/template"
	"github.com/dshills/codeglow/internal/textarea"
)

// State is the attach lifecycle position of a widget.
type State int

// Attach lifecycle states.
const (
	// Unattached is the initial and post-detach state.
	Unattached State = iota

	// Resolving means a template lookup is in flight.
	Resolving

	// Queued means the requested template is not registered yet; the
	// registry resumes the widget when it appears.
	Queued

	// Built means the surfaces exist but setup has not finished.
	Built

	// Loaded is the terminal per-attachment state.
	Loaded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case Resolving:
		return "resolving"
	case Queued:
		return "queued"
	case Built:
		return "built"
	case Loaded:
		return "loaded"
	}
	return "unknown"
}

// styledClass marks the host when the active template styles the
// rendering container rather than the inner node.
const styledClass = "pre-styled"

// Widget is one code-entry instance.
type Widget struct {
	id       string
	log      zerolog.Logger
	registry *template.Registry
	theme    *highlight.Theme

	mu    sync.Mutex
	host  *etree.Element
	state State
	built bool

	tmpl     template.Template
	tmplName string

	editableEl   *etree.Element
	renderBox    *etree.Element
	renderNode   *etree.Element
	overlay      *etree.Element
	instructions *etree.Element

	watcher *attrs.Watcher

	wrappers map[wrapperKey]event.Handler
	pending  []pendingListener

	bags map[string]*extension.Bag

	rows, cols int

	editable *textarea.Model
	sched    *frame.Scheduler
	events   event.Target
}

// Option configures a Widget.
type Option func(*Widget)

// WithLogger sets the widget's logger. The default discards output.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Widget) { w.log = log }
}

// WithRegistry sets the template registry the widget resolves against.
// The default is the process-wide registry.
func WithRegistry(reg *template.Registry) Option {
	return func(w *Widget) {
		if reg != nil {
			w.registry = reg
		}
	}
}

// WithTheme sets the theme used for size and background reconciliation.
func WithTheme(theme *highlight.Theme) Option {
	return func(w *Widget) {
		if theme != nil {
			w.theme = theme
		}
	}
}

// New creates a widget over a host element. The widget is unattached;
// call Attach to resolve its template and build the surfaces.
func New(host *etree.Element, opts ...Option) (*Widget, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	w := &Widget{
		id:       uuid.NewString(),
		log:      zerolog.Nop(),
		registry: template.Default(),
		theme:    highlight.DefaultDark(),
		host:     host,
		wrappers: make(map[wrapperKey]event.Handler),
		bags:     make(map[string]*extension.Bag),
		editable: textarea.New(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With().Str("widget", w.id).Logger()
	w.sched = frame.NewScheduler(w.highlightPass)
	w.watcher = attrs.NewWatcher(w.handleChange)

	// Every edit of the editable surface requests one highlight pass
	// on the next tick.
	w.editable.Events().AddListener(event.Input, func(event.Event) { w.sched.Mark() })
	return w, nil
}

// ID implements extension.Instance.
func (w *Widget) ID() string { return w.id }

// Host returns the host element.
func (w *Widget) Host() *etree.Element {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.host
}

// State returns the current lifecycle state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Widget) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// TemplateName returns the name of the active template.
func (w *Widget) TemplateName() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tmplName
}

// Editable returns the editable surface model. Hosts route keyboard
// input here.
func (w *Widget) Editable() *textarea.Model { return w.editable }

// RenderBox returns the rendering container element, nil before setup.
func (w *Widget) RenderBox() *etree.Element {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renderBox
}

// RenderNode returns the inner rendering element, nil before setup.
func (w *Widget) RenderNode() *etree.Element {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.renderNode
}

// Overlay returns the overlay container element, nil before setup.
func (w *Widget) Overlay() *etree.Element {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.overlay
}

// Value implements extension.Instance.
func (w *Widget) Value() string { return w.editable.Value() }

// SetValue implements extension.Instance. The editable surface owns
// the authoritative copy; the rendering surface catches up on the next
// tick.
func (w *Widget) SetValue(v string) {
	w.editable.SetValue(v)
	w.sched.Mark()
}

// Language implements extension.Instance. The language attribute wins
// over lang when both are present.
func (w *Widget) Language() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if a := w.host.SelectAttr("language"); a != nil {
		return a.Value
	}
	if a := w.host.SelectAttr("lang"); a != nil {
		return a.Value
	}
	return ""
}

// SetLanguage declares the programming language through the setter
// path.
func (w *Widget) SetLanguage(lang string) {
	w.SetAttribute("language", lang)
}

// SetTemplateName requests a different template through the setter
// path.
func (w *Widget) SetTemplateName(name string) {
	w.SetAttribute("template", name)
}

// Placeholder returns the editable surface's placeholder text.
func (w *Widget) Placeholder() string { return w.editable.Placeholder() }

// SetPlaceholder sets the placeholder through the attribute path so it
// mirrors onto the editable surface.
func (w *Widget) SetPlaceholder(p string) {
	w.SetAttribute("placeholder", p)
}

// Focus gives the editable surface keyboard focus.
func (w *Widget) Focus() { w.editable.Focus() }

// Blur removes focus, committing any pending edit.
func (w *Widget) Blur() { w.editable.Blur() }

// Validity returns the editable surface's constraint state.
func (w *Widget) Validity() textarea.Validity { return w.editable.Validity() }

// ValidationMessage returns the active validation message.
func (w *Widget) ValidationMessage() string { return w.editable.ValidationMessage() }

// SetCustomValidity installs a custom validation message.
func (w *Widget) SetCustomValidity(msg string) { w.editable.SetCustomValidity(msg) }

// CheckValidity evaluates constraints, emitting an invalid event on
// violation.
func (w *Widget) CheckValidity() bool { return w.editable.CheckValidity() }

// ReportValidity behaves like CheckValidity.
func (w *Widget) ReportValidity() bool { return w.editable.ReportValidity() }

// Bag implements extension.Instance. Bags are created on first use and
// live for the widget's lifetime.
func (w *Widget) Bag(extName string) *extension.Bag {
	w.mu.Lock()
	defer w.mu.Unlock()
	bag, ok := w.bags[extName]
	if !ok {
		bag = extension.NewBag()
		w.bags[extName] = bag
	}
	return bag
}

// baseInstructions is the accessibility description prefixed when an
// extension asks for it.
const baseInstructions = "Press Escape, then Tab to move focus out of the editor."

// SetInstructions implements extension.Instance.
func (w *Widget) SetInstructions(text string, prefixBase bool) {
	w.mu.Lock()
	slot := w.instructions
	w.mu.Unlock()
	if slot == nil {
		return
	}
	if prefixBase {
		if text == "" {
			text = baseInstructions
		} else {
			text = baseInstructions + " " + text
		}
	}
	markup.SetText(slot, text)
}

// Instructions returns the instructions slot text.
func (w *Widget) Instructions() string {
	w.mu.Lock()
	slot := w.instructions
	w.mu.Unlock()
	if slot == nil {
		return ""
	}
	return markup.TextContent(slot)
}

// Size returns the reconciled box dimensions in cells.
func (w *Widget) Size() (rows, cols int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows, w.cols
}

// Tick drives one frame. Hosts with their own frame loop call this
// once per frame; a dirty widget runs exactly one highlight pass.
func (w *Widget) Tick() { w.sched.Tick() }

// Run drives frames from an internal ticker until ctx is cancelled,
// for hosts without a frame loop of their own.
func (w *Widget) Run(ctx context.Context) {
	w.sched.Run(ctx, frame.DefaultInterval)
}

// Stats returns the frame scheduler counters.
func (w *Widget) Stats() frame.Stats { return w.sched.Stats() }
