package widget

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/codeglow/internal/extension"
	"github.com/dshills/codeglow/internal/markup"
)

// highlightPass is the scheduler callback: one full recompute of the
// rendering surface. The escaped value plus a trailing newline
// placeholder goes into the rendering node, the extensions' highlight
// hooks bracket the template's highlight function, and the surfaces
// are re-measured. The template may replace the node's content
// entirely; no incremental diffing is assumed.
func (w *Widget) highlightPass() {
	w.mu.Lock()
	built := w.built
	tmpl := w.tmpl
	renderNode := w.renderNode
	w.mu.Unlock()
	if !built || tmpl == nil {
		return
	}

	v := w.editable.Value()
	markup.SetText(renderNode, markup.Escape(v)+"\n")

	exts := tmpl.Extensions()
	for _, ext := range exts {
		ext.BeforeHighlight(w)
	}

	var inst extension.Instance
	if tmpl.PassInstance() {
		inst = w
	}
	tmpl.Highlight(renderNode, inst)

	w.reconcileSize()

	for _, ext := range exts {
		ext.AfterHighlight(w)
	}
}

// reconcileSize measures the styled surface and applies the measured
// box and background to the editable surface and host element, keeping
// the invisible editable layer co-extensive with the visible rendering
// beneath it.
func (w *Widget) reconcileSize() {
	w.mu.Lock()
	built := w.built
	tmpl := w.tmpl
	styled := w.renderNode
	if tmpl != nil && tmpl.PreStyled() {
		styled = w.renderBox
	}
	host := w.host
	editableEl := w.editableEl
	w.mu.Unlock()
	if !built || styled == nil {
		return
	}

	// The trailing newline placeholder yields a final empty line; it
	// counts as a renderable row.
	lines := strings.Split(markup.TextContent(styled), "\n")
	rows := len(lines)
	cols := 0
	for _, line := range lines {
		if width := uniseg.StringWidth(line); width > cols {
			cols = width
		}
	}
	bg := w.theme.BackgroundHex()

	w.editable.SetSize(rows, cols)
	w.editable.SetBackground(bg)
	box := fmt.Sprintf("width: %dch; height: %dlh; background: %s", cols, rows, bg)
	editableEl.CreateAttr("style", box)
	host.CreateAttr("style", box)

	w.mu.Lock()
	w.rows, w.cols = rows, cols
	w.mu.Unlock()
}

// NotifyResize re-runs size reconciliation. Hosts call it when the
// host element's box changes for reasons outside the widget, such as a
// terminal resize.
func (w *Widget) NotifyResize() {
	w.reconcileSize()
}
