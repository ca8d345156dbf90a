package template

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/dshills/codeglow/internal/extension"
	"github.com/dshills/codeglow/internal/highlight"
)

// Template is a pluggable highlighting strategy. Implementations are
// immutable once registered.
type Template interface {
	// Highlight rewrites target, the inner rendering node, which holds
	// the escaped value plus a trailing newline when the call starts.
	// inst is nil unless PassInstance reports true.
	Highlight(target *etree.Element, inst extension.Instance)

	// PreStyled reports whether the rendering container, rather than
	// the inner node, carries the visual styling. Size reconciliation
	// measures whichever surface is styled.
	PreStyled() bool

	// CodeMode reports whether instances apply language-<x> classes to
	// the rendering nodes.
	CodeMode() bool

	// PassInstance reports whether Highlight receives the instance.
	PassInstance() bool

	// Extensions returns the ordered extension list.
	Extensions() []extension.Extension

	// ObservedAttributes returns the deduplicated union of the
	// extensions' declared attribute sets.
	ObservedAttributes() []string
}

// HighlightFunc is a custom highlight strategy.
type HighlightFunc func(target *etree.Element, inst extension.Instance)

// Func is a Template backed by a caller-supplied highlight function.
type Func struct {
	fn           HighlightFunc
	preStyled    bool
	codeMode     bool
	passInstance bool
	extensions   []extension.Extension
}

// FuncOption configures a Func template.
type FuncOption func(*Func)

// WithPreStyled marks the rendering container as the styled surface.
func WithPreStyled() FuncOption {
	return func(f *Func) { f.preStyled = true }
}

// WithCodeMode enables language-<x> class handling.
func WithCodeMode() FuncOption {
	return func(f *Func) { f.codeMode = true }
}

// WithPassInstance passes the instance to the highlight function.
func WithPassInstance() FuncOption {
	return func(f *Func) { f.passInstance = true }
}

// WithExtensions sets the ordered extension list.
func WithExtensions(exts ...extension.Extension) FuncOption {
	return func(f *Func) { f.extensions = exts }
}

// NewFunc creates a Func template. The highlight function is required
// and every extension must be non-nil and named.
func NewFunc(fn HighlightFunc, opts ...FuncOption) (*Func, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil highlight function", ErrInvalidArgument)
	}
	f := &Func{fn: fn}
	for _, opt := range opts {
		opt(f)
	}
	if err := validateExtensions(f.extensions); err != nil {
		return nil, err
	}
	return f, nil
}

// Highlight implements Template.
func (f *Func) Highlight(target *etree.Element, inst extension.Instance) {
	f.fn(target, inst)
}

// PreStyled implements Template.
func (f *Func) PreStyled() bool { return f.preStyled }

// CodeMode implements Template.
func (f *Func) CodeMode() bool { return f.codeMode }

// PassInstance implements Template.
func (f *Func) PassInstance() bool { return f.passInstance }

// Extensions implements Template.
func (f *Func) Extensions() []extension.Extension { return f.extensions }

// ObservedAttributes implements Template.
func (f *Func) ObservedAttributes() []string {
	return observedUnion(f.extensions)
}

// Preset is a Template backed by the built-in regex rulesets. It
// resolves the ruleset from the instance's declared language, so it
// always receives the instance.
type Preset struct {
	rules      *highlight.Registry
	fallback   string
	extensions []extension.Extension
}

// PresetOption configures a Preset template.
type PresetOption func(*Preset)

// WithFallbackLanguage sets the language used when an instance
// declares none.
func WithFallbackLanguage(lang string) PresetOption {
	return func(p *Preset) { p.fallback = lang }
}

// WithPresetExtensions sets the ordered extension list.
func WithPresetExtensions(exts ...extension.Extension) PresetOption {
	return func(p *Preset) { p.extensions = exts }
}

// NewPreset creates a Preset template over a ruleset registry. A nil
// registry selects the built-in default rulesets.
func NewPreset(rules *highlight.Registry, opts ...PresetOption) (*Preset, error) {
	if rules == nil {
		rules = highlight.DefaultRegistry()
	}
	p := &Preset{rules: rules}
	for _, opt := range opts {
		opt(p)
	}
	if err := validateExtensions(p.extensions); err != nil {
		return nil, err
	}
	return p, nil
}

// Highlight implements Template. Unknown languages leave the escaped
// text untouched.
func (p *Preset) Highlight(target *etree.Element, inst extension.Instance) {
	lang := p.fallback
	if inst != nil && inst.Language() != "" {
		lang = inst.Language()
	}
	rs, ok := p.rules.Get(lang)
	if !ok {
		return
	}
	highlight.Render(target, rs)
}

// PreStyled implements Template.
func (p *Preset) PreStyled() bool { return false }

// CodeMode implements Template.
func (p *Preset) CodeMode() bool { return true }

// PassInstance implements Template.
func (p *Preset) PassInstance() bool { return true }

// Extensions implements Template.
func (p *Preset) Extensions() []extension.Extension { return p.extensions }

// ObservedAttributes implements Template.
func (p *Preset) ObservedAttributes() []string {
	return observedUnion(p.extensions)
}

// validateExtensions rejects nil or unnamed extensions.
func validateExtensions(exts []extension.Extension) error {
	for i, ext := range exts {
		if ext == nil {
			return fmt.Errorf("%w: nil extension at index %d", ErrInvalidArgument, i)
		}
		if ext.Name() == "" {
			return fmt.Errorf("%w: unnamed extension at index %d", ErrInvalidArgument, i)
		}
	}
	return nil
}

// observedUnion builds the per-template observed attribute set:
// deduplicated, insertion-ordered across the extension list.
func observedUnion(exts []extension.Extension) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, ext := range exts {
		for _, name := range ext.ObservedAttributes() {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
