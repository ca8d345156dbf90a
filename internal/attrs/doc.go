// Package attrs provides attribute change detection for widget hosts.
//
// Change detection is setter-first: code that mutates an attribute
// through the widget's own setters reports the mutation via
// Watcher.Record. Observation of the host element itself happens only
// at the external boundary, where Watcher.Sync diffs the element's
// current attributes against the last known snapshot and emits a typed
// Change for every observed difference.
package attrs
