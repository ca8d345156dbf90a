package highlight

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/dshills/codeglow/internal/markup"
)

// Render rewrites target's content with token spans. The target is
// expected to hold escaped text (the widget writes the escaped value
// plus a trailing newline before the strategy runs); Render fully
// replaces it. No incremental diffing: each pass is a recompute.
//
// The concatenated text of the result is character-identical to the
// unescaped input, so the editable/rendering sync invariant holds.
func Render(target *etree.Element, rs *Ruleset) {
	raw := markup.Unescape(markup.TextContent(target))
	markup.RemoveChildren(target)

	state := StateNormal
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		var tokens []Token
		tokens, state = rs.TokenizeLine(line, state)

		pos := 0
		for _, tok := range tokens {
			if tok.Start > pos {
				target.CreateText(line[pos:tok.Start])
			}
			text := line[tok.Start:tok.End]
			if cls := tok.Type.Class(); cls != "" {
				markup.AppendSpan(target, cls, text)
			} else {
				target.CreateText(text)
			}
			pos = tok.End
		}
		if pos < len(line) {
			target.CreateText(line[pos:])
		}
		if i < len(lines)-1 {
			target.CreateText("\n")
		}
	}
}
