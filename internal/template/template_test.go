package template

import (
	"errors"
	"testing"

	"github.com/beevik/etree"

	"github.com/dshills/codeglow/internal/extension"
)

func noopHighlight(_ *etree.Element, _ extension.Instance) {}

func TestNewFuncRequiresFunction(t *testing.T) {
	_, err := NewFunc(nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("NewFunc(nil) error = %v, want ErrInvalidArgument", err)
	}
}

func TestNewFuncDefaults(t *testing.T) {
	f, err := NewFunc(noopHighlight)
	if err != nil {
		t.Fatalf("NewFunc() error = %v", err)
	}
	if f.PreStyled() || f.CodeMode() || f.PassInstance() {
		t.Error("flags should default to false")
	}
	if len(f.Extensions()) != 0 {
		t.Errorf("Extensions() = %d entries, want 0", len(f.Extensions()))
	}
}

func TestNewFuncOptions(t *testing.T) {
	ext := &extension.Base{ExtName: "marker"}
	f, err := NewFunc(noopHighlight,
		WithPreStyled(),
		WithCodeMode(),
		WithPassInstance(),
		WithExtensions(ext),
	)
	if err != nil {
		t.Fatalf("NewFunc() error = %v", err)
	}
	if !f.PreStyled() || !f.CodeMode() || !f.PassInstance() {
		t.Error("options should set all three flags")
	}
	if got := len(f.Extensions()); got != 1 {
		t.Errorf("Extensions() = %d entries, want 1", got)
	}
}

func TestNewFuncRejectsBrokenExtensions(t *testing.T) {
	_, err := NewFunc(noopHighlight, WithExtensions(nil))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil extension: error = %v, want ErrInvalidArgument", err)
	}

	_, err = NewFunc(noopHighlight, WithExtensions(&extension.Base{}))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unnamed extension: error = %v, want ErrInvalidArgument", err)
	}
}

func TestObservedAttributesUnion(t *testing.T) {
	a := &extension.Base{ExtName: "a", Observed: []string{"data-limit", "lang"}}
	b := &extension.Base{ExtName: "b", Observed: []string{"lang", "data-mode"}}

	f, err := NewFunc(noopHighlight, WithExtensions(a, b))
	if err != nil {
		t.Fatalf("NewFunc() error = %v", err)
	}

	got := f.ObservedAttributes()
	want := []string{"data-limit", "lang", "data-mode"}
	if len(got) != len(want) {
		t.Fatalf("ObservedAttributes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ObservedAttributes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPresetFlags(t *testing.T) {
	p, err := NewPreset(nil)
	if err != nil {
		t.Fatalf("NewPreset() error = %v", err)
	}
	if p.PreStyled() {
		t.Error("Preset should not be pre-styled")
	}
	if !p.CodeMode() {
		t.Error("Preset should run in code mode")
	}
	if !p.PassInstance() {
		t.Error("Preset needs the instance to read its language")
	}
}

type langInstance struct {
	extension.Instance
	lang string
}

func (l *langInstance) Language() string { return l.lang }

func TestPresetUnknownLanguageLeavesTextAlone(t *testing.T) {
	p, err := NewPreset(nil)
	if err != nil {
		t.Fatalf("NewPreset() error = %v", err)
	}

	target := etree.NewElement("code")
	target.SetText("return 1\n")
	p.Highlight(target, &langInstance{lang: "fortran"})

	if got := target.Text(); got != "return 1\n" {
		t.Errorf("unknown language rewrote text: %q", got)
	}
}

func TestPresetFallbackLanguage(t *testing.T) {
	p, err := NewPreset(nil, WithFallbackLanguage("go"))
	if err != nil {
		t.Fatalf("NewPreset() error = %v", err)
	}

	target := etree.NewElement("code")
	target.SetText("func main() {}\n")
	p.Highlight(target, &langInstance{})

	if len(target.ChildElements()) == 0 {
		t.Error("fallback language should produce token spans")
	}
}
