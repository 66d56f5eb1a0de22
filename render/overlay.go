package render

import (
	"github.com/mattn/go-runewidth"
)

// OverlayLine is one row of text in an overlay.
type OverlayLine struct {
	Text      string
	Highlight bool
	Dim       bool
}

// Overlay is a boxed list of text rows drawn over the panes, used by the
// search bar and the profile picker.
type Overlay struct {
	Bounds Rect
	Lines  []OverlayLine
}

// PaintOverlay draws the overlay background and one text row per line.
// Rows are truncated to the overlay width.
func (e *Engine) PaintOverlay(o Overlay, m Metrics) []Op {
	l := &opList{bounds: o.Bounds}
	l.fill(o.Bounds, e.theme.TabBar)
	if !m.Valid() {
		return l.ops
	}
	cols := int(o.Bounds.W / m.CellWidth)
	for i, line := range o.Lines {
		y := o.Bounds.Y + float32(i)*m.CellHeight
		if y+m.CellHeight > o.Bounds.Y+o.Bounds.H+epsilon {
			break
		}
		fg := e.theme.Foreground
		if line.Dim {
			fg = fg.WithAlpha(dimAlpha)
		}
		if line.Highlight {
			l.fill(Rect{X: o.Bounds.X, Y: y, W: o.Bounds.W, H: m.CellHeight}, e.theme.Selection)
		}
		l.text(o.Bounds.X, y, runewidth.Truncate(line.Text, cols, "…"), fg, line.Highlight, m)
	}
	return l.ops
}
