// Package markup provides the element layer for the rendering surface.
//
// The rendering surface is an etree element tree: a container element
// holding an inner rendered node. Highlight strategies rewrite the inner
// node's children with token spans. This package supplies the escaping
// rules applied to user text before it enters the tree, plus class-list
// and span helpers used by strategies and the widget.
package markup
