package markup

import "strings"

// escaper rewrites user text before it enters the rendering tree. Only
// the two characters that can open markup are encoded.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
)

// unescaper reverses escaper and additionally decodes &gt;, which some
// highlight strategies emit even though Escape never produces it.
var unescaper = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// Escape encodes text for insertion into the rendering surface.
// It encodes & and < only; > passes through unchanged.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape decodes text previously escaped with Escape.
// It also decodes &gt; so that Unescape(Escape(v)) round-trips for any
// v limited to &, < and >.
func Unescape(s string) string {
	return unescaper.Replace(s)
}
