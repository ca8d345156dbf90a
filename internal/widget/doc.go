// Package widget implements the composite code-entry instance: an
// editable surface stacked atop a read-only highlighted rendering
// surface, kept character-identical by a dirty-flag frame loop.
//
// A Widget owns a host element, one editable child, one two-level
// rendering child (container plus inner node), and one overlay
// container with an instructions slot. The authoritative text value
// lives in the editable surface; every mutation marks the frame
// scheduler dirty, and the next tick runs exactly one highlight pass
// no matter how many mutations accumulated.
//
// Widgets follow the single-goroutine cooperative model of their host:
// all methods, extension hooks, and scheduler ticks are expected to run
// on the host's main goroutine. Internal locking only protects the
// bookkeeping a ticker-driven scheduler can touch concurrently.
package widget
