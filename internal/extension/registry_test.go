package extension

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	ext := Base{ExtName: "counter"}

	if err := r.Register(ext); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := r.Lookup("counter")
	if !ok {
		t.Fatal("Lookup should find registered extension")
	}
	if got.Name() != "counter" {
		t.Errorf("Name() = %q, want %q", got.Name(), "counter")
	}

	if _, ok := r.Lookup("missing"); ok {
		t.Error("Lookup of unregistered name should miss")
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("Register(nil) error = %v, want ErrInvalidExtension", err)
	}
	if err := r.Register(Base{}); !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("Register(unnamed) error = %v, want ErrInvalidExtension", err)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Base{ExtName: "x"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	err := r.Register(Base{ExtName: "x"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate Register() error = %v, want ErrDuplicateName", err)
	}
}

func TestResolveIdentifiesMissingName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Base{ExtName: "a"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	exts, err := r.Resolve("a")
	if err != nil || len(exts) != 1 {
		t.Fatalf("Resolve(a) = %v, %v", exts, err)
	}

	_, err = r.Resolve("a", "ghost")
	if !errors.Is(err, ErrUnknownExtension) {
		t.Fatalf("Resolve with missing name error = %v, want ErrUnknownExtension", err)
	}
	if want := `"ghost"`; err == nil || !strings.Contains(err.Error(), want) {
		t.Errorf("error %q should identify the missing name %s", err, want)
	}
}

func TestNames(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"b", "a", "c"} {
		if err := r.Register(Base{ExtName: name}); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}
	if got, want := r.Names(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
