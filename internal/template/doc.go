// Package template defines highlighting strategies and their registry.
//
// A Template is a capability record: a highlight function, three
// layout/behavior flags, and an ordered extension list. The closed set
// of implementations is Func (a caller-supplied highlight function,
// typically bridging a third-party highlighter) and Preset (the
// built-in regex rulesets from internal/highlight).
//
// The Registry resolves which template an instance uses. Requesting a
// name that is not registered yet is not an error: the instance is
// queued, and registration replays the queue in FIFO order. This is
// what makes out-of-order script loading work.
package template
