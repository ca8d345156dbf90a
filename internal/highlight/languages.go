package highlight

import (
	"sort"
	"strings"
	"sync"
)

// Go returns the built-in ruleset for Go source.
func Go() *Ruleset {
	rs := NewRuleset("go")

	rs.AddMultiLine("/*", "*/", TokenComment, StateBlockComment)
	rs.AddMultiLine("`", "`", TokenString, StateStringBacktick)

	rs.AddRule(`//.*$`, TokenComment)
	rs.AddRule(`"(?:[^"\\]|\\.)*"`, TokenString)
	rs.AddRule(`'(?:[^'\\]|\\.)*'`, TokenString)
	rs.AddRule(`\b0[xX][0-9a-fA-F_]+\b`, TokenNumber)
	rs.AddRule(`\b0[bB][01_]+\b`, TokenNumber)
	rs.AddRule(`\b\d[\d_]*\.?\d*(?:[eE][+-]?\d+)?\b`, TokenNumber)

	rs.AddKeywords(TokenKeyword,
		"if", "else", "for", "range", "switch", "case", "default",
		"break", "continue", "return", "goto", "fallthrough", "select",
		"func", "var", "const", "type", "struct", "interface", "map",
		"chan", "package", "import", "defer", "go")
	rs.AddKeywords(TokenConstant, "true", "false", "nil", "iota")
	rs.AddKeywords(TokenBuiltin,
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128",
		"string", "bool", "byte", "rune", "error", "any",
		"len", "cap", "make", "new", "append", "copy", "delete",
		"panic", "recover", "print", "println", "close")

	return rs
}

// Python returns the built-in ruleset for Python source.
func Python() *Ruleset {
	rs := NewRuleset("python")

	rs.AddMultiLine(`"""`, `"""`, TokenString, StateStringTriple)

	rs.AddRule(`#.*$`, TokenComment)
	rs.AddRule(`"(?:[^"\\]|\\.)*"`, TokenString)
	rs.AddRule(`'(?:[^'\\]|\\.)*'`, TokenString)
	rs.AddRule(`\b0[xX][0-9a-fA-F_]+\b`, TokenNumber)
	rs.AddRule(`\b\d[\d_]*\.?\d*(?:[eE][+-]?\d+)?\b`, TokenNumber)

	rs.AddKeywords(TokenKeyword,
		"def", "class", "return", "yield", "lambda", "if", "elif",
		"else", "for", "while", "break", "continue", "pass", "import",
		"from", "as", "with", "try", "except", "finally", "raise",
		"assert", "global", "nonlocal", "del", "in", "is", "not",
		"and", "or", "async", "await", "match")
	rs.AddKeywords(TokenConstant, "True", "False", "None")
	rs.AddKeywords(TokenBuiltin,
		"print", "len", "range", "str", "int", "float", "bool",
		"list", "dict", "set", "tuple", "type", "isinstance", "super",
		"open", "enumerate", "zip", "map", "filter", "sorted")

	return rs
}

// Registry maps language names to rulesets. Lookups are
// case-insensitive on the language name.
type Registry struct {
	mu         sync.RWMutex
	byLanguage map[string]*Ruleset
}

// NewRegistry creates an empty ruleset registry.
func NewRegistry() *Registry {
	return &Registry{byLanguage: make(map[string]*Ruleset)}
}

// DefaultRegistry returns a registry preloaded with the built-in
// rulesets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Go())
	r.Register(Python())
	return r
}

// Register adds a ruleset, replacing any previous one for the same
// language.
func (r *Registry) Register(rs *Ruleset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byLanguage[strings.ToLower(rs.Language())] = rs
}

// Get returns the ruleset for a language.
func (r *Registry) Get(language string) (*Ruleset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.byLanguage[strings.ToLower(language)]
	return rs, ok
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
