package extension

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps names to extensions. Lookup misses are reported with a
// comma-ok result; callers that need a hard failure wrap the miss in
// ErrUnknownExtension via Resolve.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Extension
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Extension)}
}

// Register adds an extension under its own name.
func (r *Registry) Register(ext Extension) error {
	if ext == nil || ext.Name() == "" {
		return ErrInvalidExtension
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	name := ext.Name()
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	r.byName[name] = ext
	return nil
}

// Lookup returns the extension registered under name.
func (r *Registry) Lookup(name string) (Extension, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext, ok := r.byName[name]
	return ext, ok
}

// Resolve maps names to extensions, failing on the first missing name.
// The error identifies the missing name.
func (r *Registry) Resolve(names ...string) ([]Extension, error) {
	out := make([]Extension, 0, len(names))
	for _, name := range names {
		ext, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
		}
		out = append(out, ext)
	}
	return out, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
