package extension

import (
	"reflect"
	"testing"
)

// fakeInstance implements Instance for hook tests.
type fakeInstance struct {
	id           string
	value        string
	language     string
	attrs        map[string]string
	bags         map[string]*Bag
	instructions string
	prefixBase   bool
}

func newFakeInstance() *fakeInstance {
	return &fakeInstance{
		id:    "test-instance",
		attrs: make(map[string]string),
		bags:  make(map[string]*Bag),
	}
}

func (f *fakeInstance) ID() string       { return f.id }
func (f *fakeInstance) Value() string    { return f.value }
func (f *fakeInstance) SetValue(v string) { f.value = v }
func (f *fakeInstance) Language() string { return f.language }

func (f *fakeInstance) Attribute(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}

func (f *fakeInstance) SetAttribute(name, value string) { f.attrs[name] = value }
func (f *fakeInstance) RemoveAttribute(name string)     { delete(f.attrs, name) }

func (f *fakeInstance) Bag(name string) *Bag {
	if f.bags[name] == nil {
		f.bags[name] = NewBag()
	}
	return f.bags[name]
}

func (f *fakeInstance) SetInstructions(text string, prefixBase bool) {
	f.instructions = text
	f.prefixBase = prefixBase
}

const counterScript = `
observed_attributes = { "data-limit" }

function after_highlight(inst)
  inst.bag_set("chars", string.len(inst.value()))
end

function attribute_changed(inst, name, old, new)
  if name == "data-limit" then
    inst.bag_set("limit", tonumber(new))
  end
end
`

func TestLoadLuaScript(t *testing.T) {
	ext, err := LoadLuaScript("counter", counterScript)
	if err != nil {
		t.Fatalf("LoadLuaScript() error = %v", err)
	}
	defer ext.Close()

	if ext.Name() != "counter" {
		t.Errorf("Name() = %q, want %q", ext.Name(), "counter")
	}
	if got, want := ext.ObservedAttributes(), []string{"data-limit"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ObservedAttributes() = %v, want %v", got, want)
	}
}

func TestLuaHookWritesBag(t *testing.T) {
	ext, err := LoadLuaScript("counter", counterScript)
	if err != nil {
		t.Fatalf("LoadLuaScript() error = %v", err)
	}
	defer ext.Close()

	inst := newFakeInstance()
	inst.value = "hello"
	ext.AfterHighlight(inst)

	if got := inst.Bag("counter").Get("chars").Int(); got != 5 {
		t.Errorf("bag chars = %d, want 5", got)
	}
}

func TestLuaAttributeChanged(t *testing.T) {
	ext, err := LoadLuaScript("counter", counterScript)
	if err != nil {
		t.Fatalf("LoadLuaScript() error = %v", err)
	}
	defer ext.Close()

	inst := newFakeInstance()
	ext.AttributeChanged(inst, "data-limit", "", "80")

	if got := inst.Bag("counter").Get("limit").Int(); got != 80 {
		t.Errorf("bag limit = %d, want 80", got)
	}
}

func TestLuaMissingHooksAreSkipped(t *testing.T) {
	ext, err := LoadLuaScript("sparse", `function before_highlight(inst) end`)
	if err != nil {
		t.Fatalf("LoadLuaScript() error = %v", err)
	}
	defer ext.Close()

	// None of these are defined by the script; all must be no-ops.
	inst := newFakeInstance()
	ext.BeforeSurfacesAdded(inst)
	ext.AfterSurfacesAdded(inst)
	ext.AfterHighlight(inst)
	ext.AttributeChanged(inst, "x", "", "1")
}

func TestLoadLuaScriptErrors(t *testing.T) {
	if _, err := LoadLuaScript("", "x = 1"); err == nil {
		t.Error("empty name should fail")
	}
	if _, err := LoadLuaScript("bad", "this is not lua ("); err == nil {
		t.Error("syntax error should fail")
	}
}

func TestLuaSandboxBlocksCodeLoading(t *testing.T) {
	_, err := LoadLuaScript("escape", `dofile("/etc/passwd")`)
	if err == nil {
		t.Error("dofile should be unavailable in the restricted state")
	}
}

func TestLuaInstanceSurface(t *testing.T) {
	script := `
function before_surfaces_added(inst)
  inst.set_attr("data-seen", inst.id)
  inst.set_instructions("Press Escape to leave", true)
end
`
	ext, err := LoadLuaScript("surface", script)
	if err != nil {
		t.Fatalf("LoadLuaScript() error = %v", err)
	}
	defer ext.Close()

	inst := newFakeInstance()
	ext.BeforeSurfacesAdded(inst)

	if got := inst.attrs["data-seen"]; got != "test-instance" {
		t.Errorf("data-seen = %q, want instance id", got)
	}
	if inst.instructions != "Press Escape to leave" || !inst.prefixBase {
		t.Errorf("instructions = %q prefix=%v", inst.instructions, inst.prefixBase)
	}
}
