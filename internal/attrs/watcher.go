package attrs

import (
	"sort"
	"strings"
	"sync"
)

// Change describes a single attribute mutation.
type Change struct {
	// Name is the attribute name.
	Name string

	// Old is the previous value. Meaningful only when OldPresent.
	Old string

	// New is the current value. Meaningful only when NewPresent.
	New string

	// OldPresent reports whether the attribute existed before the change.
	OldPresent bool

	// NewPresent reports whether the attribute exists after the change.
	NewPresent bool
}

// Removed reports whether the change removed the attribute.
func (c Change) Removed() bool {
	return c.OldPresent && !c.NewPresent
}

// Handler receives attribute changes while the watcher is started.
type Handler func(Change)

// Watcher filters attribute mutations down to an observed name set and
// delivers them to a single handler. Names are observed idempotently;
// observing the same name twice does not grow the set.
type Watcher struct {
	mu       sync.Mutex
	observed map[string]struct{}
	prefixes []string
	snapshot map[string]string
	handler  Handler
	started  bool
}

// NewWatcher creates a watcher delivering changes to handler.
func NewWatcher(handler Handler) *Watcher {
	return &Watcher{
		observed: make(map[string]struct{}),
		handler:  handler,
	}
}

// Observe adds names to the observed set. Inserts are idempotent.
func (w *Watcher) Observe(names ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, name := range names {
		if name == "" {
			continue
		}
		w.observed[name] = struct{}{}
	}
}

// ObservePrefix observes every attribute whose name starts with prefix.
func (w *Watcher) ObservePrefix(prefix string) {
	if prefix == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.prefixes {
		if p == prefix {
			return
		}
	}
	w.prefixes = append(w.prefixes, prefix)
}

// Observes reports whether a mutation of name would be delivered.
func (w *Watcher) Observes(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.observesLocked(name)
}

func (w *Watcher) observesLocked(name string) bool {
	if _, ok := w.observed[name]; ok {
		return true
	}
	for _, p := range w.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// ObservedNames returns the explicit observed set, sorted.
func (w *Watcher) ObservedNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.observed))
	for name := range w.observed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start begins delivery and snapshots the current attribute state.
// Restarting an already-started watcher just refreshes the snapshot.
func (w *Watcher) Start(current map[string]string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snapshot = make(map[string]string, len(current))
	for k, v := range current {
		w.snapshot[k] = v
	}
	w.started = true
}

// Stop halts delivery. Record and Sync become no-ops until Start.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.started = false
}

// Started reports whether the watcher is delivering changes.
func (w *Watcher) Started() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

// Record reports a mutation made through a setter. The snapshot is
// updated unconditionally; the handler runs only for observed names
// while started, and only when the value actually changed.
func (w *Watcher) Record(name, value string, present bool) {
	w.mu.Lock()
	old, hadOld := w.snapshot[name]
	if w.snapshot == nil {
		w.snapshot = make(map[string]string)
	}
	if present {
		w.snapshot[name] = value
	} else {
		delete(w.snapshot, name)
	}
	deliver := w.started && w.observesLocked(name) &&
		(hadOld != present || old != value)
	handler := w.handler
	w.mu.Unlock()

	if deliver && handler != nil {
		handler(Change{
			Name:       name,
			Old:        old,
			New:        value,
			OldPresent: hadOld,
			NewPresent: present,
		})
	}
}

// Sync diffs current against the snapshot and delivers a change for
// every observed difference. This is the external boundary: mutations
// made directly on the host element, outside the widget's setters, are
// picked up here.
func (w *Watcher) Sync(current map[string]string) {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	var changes []Change
	for name, value := range current {
		old, hadOld := w.snapshot[name]
		if hadOld && old == value {
			continue
		}
		if w.observesLocked(name) {
			changes = append(changes, Change{
				Name:       name,
				Old:        old,
				New:        value,
				OldPresent: hadOld,
				NewPresent: true,
			})
		}
	}
	for name, old := range w.snapshot {
		if _, ok := current[name]; ok {
			continue
		}
		if w.observesLocked(name) {
			changes = append(changes, Change{
				Name:       name,
				Old:        old,
				OldPresent: true,
			})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })

	w.snapshot = make(map[string]string, len(current))
	for k, v := range current {
		w.snapshot[k] = v
	}
	handler := w.handler
	w.mu.Unlock()

	if handler == nil {
		return
	}
	for _, c := range changes {
		handler(c)
	}
}
