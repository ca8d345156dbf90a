// Package extension defines the plugin contract for widget templates.
//
// An Extension is a stateless bundle of lifecycle hooks invoked around
// surface construction, highlight passes, and attribute changes. A
// template carries an ordered extension list; every instance using the
// template shares the same extension values, so hooks keep per-instance
// state in the instance's data bag rather than on the extension.
//
// Extensions can be written in Go or loaded from Lua scripts.
package extension
