package template

import (
	"fmt"
	"sort"
	"sync"
)

// Waiter is an instance awaiting a template. The widget type
// implements it.
type Waiter interface {
	// RequestedTemplate returns the template name the instance asked
	// for. ok is false when the instance did not name one and should
	// follow the default.
	RequestedTemplate() (name string, ok bool)

	// AssignTemplate delivers a resolved template and re-runs the
	// instance's attach procedure. Called synchronously from Register.
	AssignTemplate(name string, tmpl Template)
}

// unnamedBucket queues instances that requested no name before any
// default exists.
const unnamedBucket = ""

// Registry maps names to templates and queues instances whose
// requested name is not registered yet. The first registration
// becomes the default.
type Registry struct {
	mu          sync.Mutex
	templates   map[string]Template
	defaultName string
	hasDefault  bool

	// queues holds waiting instances in FIFO order per name.
	// membership tracks which bucket a waiter sits in, keeping each
	// instance in at most one bucket.
	queues     map[string][]Waiter
	membership map[Waiter]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		templates:  make(map[string]Template),
		queues:     make(map[string][]Waiter),
		membership: make(map[Waiter]string),
	}
}

// Register validates and stores a template, then replays every queued
// instance whose requested name now resolves, in FIFO order. Replay is
// synchronous: waiting instances finish setup before Register returns.
func (r *Registry) Register(name string, tmpl Template) error {
	if name == "" {
		return fmt.Errorf("%w: empty template name", ErrInvalidArgument)
	}
	if tmpl == nil {
		return fmt.Errorf("%w: nil template", ErrInvalidArgument)
	}
	if err := validateExtensions(tmpl.Extensions()); err != nil {
		return err
	}

	r.mu.Lock()
	if _, ok := r.templates[name]; ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	r.templates[name] = tmpl
	becameDefault := !r.hasDefault
	if becameDefault {
		r.defaultName = name
		r.hasDefault = true
	}

	// Drain the matching buckets before releasing the lock; the
	// replayed attach procedures re-enter Resolve.
	waiters := r.drainLocked(name)
	if becameDefault {
		waiters = append(waiters, r.drainLocked(unnamedBucket)...)
	}
	r.mu.Unlock()

	for _, w := range waiters {
		w.AssignTemplate(name, tmpl)
	}
	return nil
}

// drainLocked removes and returns a bucket's waiters. Callers hold mu.
func (r *Registry) drainLocked(bucket string) []Waiter {
	waiters := r.queues[bucket]
	if len(waiters) == 0 {
		return nil
	}
	delete(r.queues, bucket)
	for _, w := range waiters {
		delete(r.membership, w)
	}
	return waiters
}

// Resolve returns the template for the waiter's requested name,
// falling back to the default when no name was requested. When the
// name is not registered the waiter is enqueued and Resolve reports
// false; setup is deferred, not failed.
func (r *Registry) Resolve(w Waiter) (Template, bool) {
	name, named := w.RequestedTemplate()

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket := name
	if !named {
		if !r.hasDefault {
			r.enqueueLocked(unnamedBucket, w)
			return nil, false
		}
		name = r.defaultName
		bucket = name
	}

	if tmpl, ok := r.templates[name]; ok {
		// A previously queued instance that now resolves leaves its
		// bucket.
		r.removeLocked(w)
		return tmpl, true
	}

	r.enqueueLocked(bucket, w)
	return nil, false
}

// enqueueLocked adds w to a bucket, moving it if it waits elsewhere.
func (r *Registry) enqueueLocked(bucket string, w Waiter) {
	if current, ok := r.membership[w]; ok {
		if current == bucket {
			return
		}
		r.removeFromBucketLocked(current, w)
	}
	r.queues[bucket] = append(r.queues[bucket], w)
	r.membership[w] = bucket
}

// removeLocked removes w from whatever bucket holds it.
func (r *Registry) removeLocked(w Waiter) {
	bucket, ok := r.membership[w]
	if !ok {
		return
	}
	r.removeFromBucketLocked(bucket, w)
}

func (r *Registry) removeFromBucketLocked(bucket string, w Waiter) {
	q := r.queues[bucket]
	for i, queued := range q {
		if queued == w {
			r.queues[bucket] = append(q[:i], q[i+1:]...)
			break
		}
	}
	if len(r.queues[bucket]) == 0 {
		delete(r.queues, bucket)
	}
	delete(r.membership, w)
}

// Get returns the template registered under name.
func (r *Registry) Get(name string) (Template, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tmpl, ok := r.templates[name]
	return tmpl, ok
}

// DefaultName returns the designated default template name.
func (r *Registry) DefaultName() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defaultName, r.hasDefault
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pending returns the number of instances waiting on a name. The
// unnamed bucket is reported under "".
func (r *Registry) Pending(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queues[name])
}

// std is the process-wide registry used by the package-level helpers.
// Independent script contexts registering into it are serialized by
// the callers' single-threaded execution.
var std = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return std
}

// Register registers into the process-wide registry.
func Register(name string, tmpl Template) error {
	return std.Register(name, tmpl)
}

// Resolve resolves against the process-wide registry.
func Resolve(w Waiter) (Template, bool) {
	return std.Resolve(w)
}
