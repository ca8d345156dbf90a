package widget

import (
	"testing"

	"github.com/beevik/etree"

	"github.com/dshills/codeglow/internal/event"
	"github.com/dshills/codeglow/internal/extension"
	"github.com/dshills/codeglow/internal/markup"
	"github.com/dshills/codeglow/internal/template"
)

func plainTemplate(t *testing.T, opts ...template.FuncOption) template.Template {
	t.Helper()
	tmpl, err := template.NewFunc(func(*etree.Element, extension.Instance) {}, opts...)
	if err != nil {
		t.Fatalf("NewFunc() error = %v", err)
	}
	return tmpl
}

func newLoadedWidget(t *testing.T, host *etree.Element, opts ...template.FuncOption) *Widget {
	t.Helper()
	reg := template.NewRegistry()
	if err := reg.Register("plain", plainTemplate(t, opts...)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	w, err := New(host, WithRegistry(reg))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.Attach()
	if got := w.State(); got != Loaded {
		t.Fatalf("State() = %v, want Loaded", got)
	}
	return w
}

func TestNewRequiresHost(t *testing.T) {
	if _, err := New(nil); err != ErrNilHost {
		t.Errorf("New(nil) error = %v, want ErrNilHost", err)
	}
}

func TestAttachQueuesUntilRegistration(t *testing.T) {
	reg := template.NewRegistry()
	host := etree.NewElement("code-glow")
	host.CreateAttr("value", "a&b<c")

	w, err := New(host, WithRegistry(reg))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.Attach()
	if got := w.State(); got != Queued {
		t.Fatalf("State() before registration = %v, want Queued", got)
	}

	if err := reg.Register("plain", plainTemplate(t)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if got := w.State(); got != Loaded {
		t.Fatalf("State() after registration = %v, want Loaded", got)
	}

	w.Tick()
	if got := markup.TextContent(w.RenderNode()); got != "a&amp;b&lt;c\n" {
		t.Errorf("rendering node = %q, want escaped value plus trailing line", got)
	}
	if got := w.Value(); got != "a&b<c" {
		t.Errorf("Value() = %q, want raw value", got)
	}
}

func TestRegistrationReplaysWaitingWidgetsInOrder(t *testing.T) {
	reg := template.NewRegistry()
	var order []string

	mkWidget := func(id string) *Widget {
		host := etree.NewElement("code-glow")
		host.CreateAttr("template", "syntax")
		w, err := New(host, WithRegistry(reg))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		w.AddListener(event.Load, func(event.Event) { order = append(order, id) })
		w.Attach()
		return w
	}
	first := mkWidget("first")
	second := mkWidget("second")

	if err := reg.Register("syntax", plainTemplate(t)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if first.State() != Loaded || second.State() != Loaded {
		t.Fatal("both widgets should load on registration")
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("load order = %v, want [first second]", order)
	}
}

func TestCoalescing(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)
	w.Tick() // drain the initial pass

	before := w.Stats().Passes
	w.SetValue("one")
	w.SetValue("two")
	w.SetValue("three")
	w.Tick()
	if got := w.Stats().Passes - before; got != 1 {
		t.Errorf("passes after three mutations and one tick = %d, want 1", got)
	}

	w.Tick()
	if got := w.Stats().Passes - before; got != 1 {
		t.Errorf("clean tick ran a pass; passes = %d, want 1", got)
	}
	if got := markup.TextContent(w.RenderNode()); got != "three\n" {
		t.Errorf("rendering node = %q, want %q", got, "three\n")
	}
}

func TestSetupIdempotent(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)

	renderBox := w.RenderBox()
	renderNode := w.RenderNode()
	overlay := w.Overlay()
	children := len(host.ChildElements())

	w.Detach()
	if got := w.State(); got != Unattached {
		t.Fatalf("State() after detach = %v, want Unattached", got)
	}
	w.Attach()
	if got := w.State(); got != Loaded {
		t.Fatalf("State() after re-attach = %v, want Loaded", got)
	}

	if w.RenderBox() != renderBox || w.RenderNode() != renderNode || w.Overlay() != overlay {
		t.Error("re-attach rebuilt the surfaces")
	}
	if got := len(host.ChildElements()); got != children {
		t.Errorf("managed children = %d, want %d", got, children)
	}
}

func TestDetachSuspendsScheduling(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)
	w.Tick()

	w.Detach()
	before := w.Stats().Passes
	w.SetValue("ignored until reattach")
	w.Tick()
	if got := w.Stats().Passes; got != before {
		t.Errorf("detached widget ran a pass; passes = %d, want %d", got, before)
	}

	// The mark made while detached survives suspension.
	w.Attach()
	w.Tick()
	if got := markup.TextContent(w.RenderNode()); got != "ignored until reattach\n" {
		t.Errorf("rendering node = %q after re-attach", got)
	}
}

func TestLanguageClassSwap(t *testing.T) {
	host := etree.NewElement("code-glow")
	host.CreateAttr("language", "python")
	w := newLoadedWidget(t, host, template.WithCodeMode())

	for _, el := range []*etree.Element{w.RenderBox(), w.RenderNode()} {
		if !markup.HasClass(el, "language-python") {
			t.Fatal("setup should apply the declared language class")
		}
	}

	w.SetLanguage("rust")
	for _, el := range []*etree.Element{w.RenderBox(), w.RenderNode()} {
		if markup.HasClass(el, "language-python") {
			t.Error("old language class should be removed")
		}
		if !markup.HasClass(el, "language-rust") {
			t.Error("new language class should be added")
		}
	}

	// Same value again is a no-op; the class list must not grow.
	w.SetLanguage("rust")
	classes := markup.Classes(w.RenderNode())
	count := 0
	for _, c := range classes {
		if c == "language-rust" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("language-rust appears %d times, want 1", count)
	}
}

func TestValueAttributeOverwritesEditable(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)

	w.SetAttribute("value", "from attribute")
	if got := w.Value(); got != "from attribute" {
		t.Errorf("Value() = %q, want attribute value", got)
	}
	if !w.sched.Dirty() {
		t.Error("value change should mark the scheduler dirty")
	}
}

type recordingExt struct {
	extension.Base
	calls [][3]string
}

func (r *recordingExt) AttributeChanged(_ extension.Instance, name, oldValue, newValue string) {
	r.calls = append(r.calls, [3]string{name, oldValue, newValue})
}

func TestExtensionObservedAttribute(t *testing.T) {
	ext := &recordingExt{Base: extension.Base{ExtName: "limiter", Observed: []string{"data-limit"}}}
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host, template.WithExtensions(ext))

	w.SetAttribute("data-limit", "10")
	w.SetAttribute("data-limit", "20")

	if len(ext.calls) != 2 {
		t.Fatalf("attributeChanged calls = %d, want 2", len(ext.calls))
	}
	if ext.calls[0] != [3]string{"data-limit", "", "10"} {
		t.Errorf("first call = %v", ext.calls[0])
	}
	if ext.calls[1] != [3]string{"data-limit", "10", "20"} {
		t.Errorf("second call = %v", ext.calls[1])
	}
}

func TestMirroredAttributes(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)

	w.SetAttribute("maxlength", "5")
	if got, ok := w.editable.Attribute("maxlength"); !ok || got != "5" {
		t.Errorf("editable maxlength = %q, %v, want 5, true", got, ok)
	}

	w.SetAttribute("aria-label", "Code editor")
	if got, ok := w.editable.Attribute("aria-label"); !ok || got != "Code editor" {
		t.Errorf("editable aria-label = %q, %v", got, ok)
	}

	w.RemoveAttribute("maxlength")
	if _, ok := w.editable.Attribute("maxlength"); ok {
		t.Error("removed attribute should leave the editable surface")
	}
}

func TestFallbackChild(t *testing.T) {
	host := etree.NewElement("code-glow")
	host.CreateAttr("placeholder", "Host placeholder")
	fallback := host.CreateElement("textarea")
	fallback.CreateText("hello fallback")
	fallback.CreateAttr("placeholder", "Fallback placeholder")
	fallback.CreateAttr("rows", "4")

	w := newLoadedWidget(t, host)

	if got := w.Value(); got != "hello fallback" {
		t.Errorf("Value() = %q, want fallback text", got)
	}
	// The host's own attribute wins; non-conflicting ones copy over.
	if got, _ := w.Attribute("placeholder"); got != "Host placeholder" {
		t.Errorf("placeholder = %q, want host value", got)
	}
	if got, _ := w.Attribute("rows"); got != "4" {
		t.Errorf("rows = %q, want fallback value", got)
	}
}

func TestEarlyListenerDeferredUntilLoad(t *testing.T) {
	reg := template.NewRegistry()
	host := etree.NewElement("code-glow")
	w, err := New(host, WithRegistry(reg))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var got []event.Event
	w.AddListener(event.Input, func(e event.Event) { got = append(got, e) })

	if err := reg.Register("plain", plainTemplate(t)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	w.Attach()

	w.SetValue("typed")
	if len(got) != 1 {
		t.Fatalf("input events = %d, want 1", len(got))
	}
	if got[0].Target != any(w) {
		t.Error("forwarded event should retarget at the widget")
	}
	if got[0].Value != "typed" {
		t.Errorf("event value = %q, want %q", got[0].Value, "typed")
	}
}

func TestRemoveListenerDetachesWrapper(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)

	fired := 0
	h := func(event.Event) { fired++ }
	w.AddListener(event.Input, h)
	w.RemoveListener(event.Input, h)

	w.SetValue("quiet")
	if fired != 0 {
		t.Errorf("removed listener fired %d times", fired)
	}
}

func TestSameListenerDistinctOptions(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)

	fired := 0
	h := func(event.Event) { fired++ }
	w.AddListener(event.Input, h)
	w.AddListener(event.Input, h, event.WithOnce())

	w.SetValue("one")
	if fired != 2 {
		t.Fatalf("fired = %d after first input, want 2", fired)
	}
	w.SetValue("two")
	if fired != 3 {
		t.Errorf("fired = %d after second input, want 3 (once-listener gone)", fired)
	}
}

func TestLoadEventFiresOnce(t *testing.T) {
	reg := template.NewRegistry()
	host := etree.NewElement("code-glow")
	host.CreateAttr("value", "v0")
	w, err := New(host, WithRegistry(reg))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var loads []event.Event
	w.AddListener(event.Load, func(e event.Event) { loads = append(loads, e) })

	if err := reg.Register("plain", plainTemplate(t)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	w.Attach()
	w.Detach()
	w.Attach()

	if len(loads) != 1 {
		t.Fatalf("load events = %d, want 1", len(loads))
	}
	if loads[0].Value != "v0" {
		t.Errorf("load value = %q, want initial value", loads[0].Value)
	}
}

func TestInstructionsSlot(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)

	w.SetInstructions("Press F1 for help.", false)
	if got := w.Instructions(); got != "Press F1 for help." {
		t.Errorf("Instructions() = %q", got)
	}

	w.SetInstructions("Press F1 for help.", true)
	want := baseInstructions + " Press F1 for help."
	if got := w.Instructions(); got != want {
		t.Errorf("Instructions() = %q, want %q", got, want)
	}
}

func TestDataBagPerExtension(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)

	if err := w.Bag("counter").Set("count", 7); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := w.Bag("counter").Get("count").Int(); got != 7 {
		t.Errorf("bag value = %d, want 7", got)
	}
	if w.Bag("other").Get("count").Exists() {
		t.Error("bags must be isolated per extension name")
	}
}

func TestSyncHostPicksUpDirectMutation(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)

	// Mutation outside the widget's setters reaches the transition
	// only at the external boundary.
	host.CreateAttr("value", "direct")
	if got := w.Value(); got == "direct" {
		t.Fatal("direct mutation should not propagate before SyncHost")
	}
	w.SyncHost()
	if got := w.Value(); got != "direct" {
		t.Errorf("Value() after SyncHost = %q, want %q", got, "direct")
	}
}

func TestSizeReconciliation(t *testing.T) {
	host := etree.NewElement("code-glow")
	w := newLoadedWidget(t, host)

	w.SetValue("short\nlonger line")
	w.Tick()

	rows, cols := w.Size()
	if rows != 3 {
		t.Errorf("rows = %d, want 3 (two lines plus the trailing placeholder)", rows)
	}
	if cols != len("longer line") {
		t.Errorf("cols = %d, want %d", cols, len("longer line"))
	}
	if bg := w.editable.Background(); bg == "" {
		t.Error("background should be reconciled onto the editable surface")
	}
}
