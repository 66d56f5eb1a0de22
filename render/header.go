package render

import (
	"github.com/mattn/go-runewidth"
)

// Icon names understood by icon rasterizers.
const (
	IconClose     = "close"
	IconSplit     = "split-horizontal"
	IconAdd       = "add"
	IconProfiles  = "chevron-down"
	maxTitleCells = 18
)

// Header is the tab strip and action icons drawn above the panes.
type Header struct {
	Bounds Rect
	Titles []string
	Active int
}

// TabSlot is the layout of one tab in the strip.
type TabSlot struct {
	Rect  Rect
	Close Rect
	Title string
}

// HeaderLayout holds the hit rectangles of everything in the header.
type HeaderLayout struct {
	Tabs      []TabSlot
	Profiles  Rect
	Add       Rect
	Split     Rect
	ClosePane Rect
}

// LayoutHeader places tabs left to right and the action icons at the right
// edge. Tabs that do not fit before the icons are left out.
func LayoutHeader(h Header, m Metrics) HeaderLayout {
	var out HeaderLayout
	if !m.Valid() {
		return out
	}
	cw, ch := m.CellWidth, m.CellHeight
	icon := func(slot int) Rect {
		return Rect{X: h.Bounds.X + h.Bounds.W - float32(slot+1)*2*cw, Y: h.Bounds.Y, W: 2 * cw, H: ch}
	}
	out.ClosePane = icon(0)
	out.Split = icon(1)
	out.Add = icon(2)
	out.Profiles = icon(3)

	limit := out.Profiles.X
	x := h.Bounds.X
	for _, title := range h.Titles {
		title = runewidth.Truncate(title, maxTitleCells, "…")
		w := float32(runewidth.StringWidth(title)+4) * cw
		if x+w > limit {
			break
		}
		slot := TabSlot{
			Rect:  Rect{X: x, Y: h.Bounds.Y, W: w, H: ch},
			Close: Rect{X: x + w - 2*cw, Y: h.Bounds.Y, W: 2 * cw, H: ch},
			Title: title,
		}
		out.Tabs = append(out.Tabs, slot)
		x += w
	}
	return out
}

// PaintHeader draws the tab strip and header icons.
func (e *Engine) PaintHeader(h Header, m Metrics) []Op {
	l := &opList{bounds: h.Bounds}
	l.fill(h.Bounds, e.theme.TabBar)
	layout := LayoutHeader(h, m)

	for i, slot := range layout.Tabs {
		fg := e.theme.Foreground
		if i == h.Active {
			l.fill(slot.Rect, e.theme.TabActive.WithAlpha(0.25))
			fg = e.theme.TabActive
		}
		l.text(slot.Rect.X+m.CellWidth, slot.Rect.Y, slot.Title, fg, i == h.Active, m)
		l.icon(slot.Close, IconClose, fg)
	}

	l.icon(layout.Profiles, IconProfiles, e.theme.Foreground)
	l.icon(layout.Add, IconAdd, e.theme.Foreground)
	l.icon(layout.Split, IconSplit, e.theme.Foreground)
	l.icon(layout.ClosePane, IconClose, e.theme.Foreground)
	return l.ops
}
