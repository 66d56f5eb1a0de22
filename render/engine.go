// Package render converts terminal grid snapshots and panel chrome into
// backend-neutral draw operations.
package render

import (
	"github.com/javanhut/RavenPanel/grid"
	"github.com/javanhut/RavenPanel/search"
	"github.com/javanhut/RavenPanel/selection"
)

// Mode is the interaction mode of a pane.
type Mode uint8

const (
	ModeInteractive Mode = iota // keys go to the shell
	ModeNavigation              // keys move through scrollback
)

func (m Mode) String() string {
	if m == ModeNavigation {
		return "navigation"
	}
	return "interactive"
}

// dimAlpha is the foreground alpha multiplier for faint text.
const dimAlpha = 0.66

// Frame is everything needed to paint one pane.
type Frame struct {
	Bounds    Rect
	Grid      grid.Snapshot
	Focused   bool
	Mode      Mode
	Selection *selection.Range
	Search    *search.Highlighter
	Metrics   Metrics
}

// Engine paints frames with a theme and color resolver.
type Engine struct {
	theme    Theme
	resolver ColorResolver
}

// NewEngine creates an engine. A nil resolver resolves against the theme.
func NewEngine(theme Theme, resolver ColorResolver) *Engine {
	if resolver == nil {
		resolver = Palette{Theme: theme}
	}
	return &Engine{theme: theme, resolver: resolver}
}

func (e *Engine) Theme() Theme { return e.theme }

// SetTheme switches theme; a Palette resolver follows it.
func (e *Engine) SetTheme(theme Theme) {
	e.theme = theme
	if _, ok := e.resolver.(Palette); ok {
		e.resolver = Palette{Theme: theme}
	}
}

// Paint returns the draw operations for one pane in paint order: background,
// selection or current line, cells with the cursor, then search matches.
func (e *Engine) Paint(f Frame) []Op {
	l := &opList{bounds: f.Bounds}
	l.fill(f.Bounds, e.theme.Background)

	m := f.Metrics
	g := f.Grid
	if !m.Valid() || g.Columns() <= 0 {
		return l.ops
	}
	offset := g.DisplayOffset()
	screenLines := g.ScreenLines()
	cw, ch := m.CellWidth, m.CellHeight

	cellRect := func(line, col, width int) Rect {
		return Rect{
			X: f.Bounds.X + float32(col)*cw,
			Y: f.Bounds.Y + float32(line+offset)*ch,
			W: float32(width) * cw,
			H: ch,
		}
	}
	visible := func(line int) bool {
		row := line + offset
		return row >= 0 && row < screenLines
	}

	if f.Selection != nil && !f.Selection.IsEmpty() {
		for _, s := range f.Selection.Spans(g) {
			if !visible(s.Line) {
				continue
			}
			l.fill(cellRect(s.Line, s.Start, s.End-s.Start+1), e.theme.Selection)
		}
	} else if f.Mode == ModeNavigation && visible(g.Cursor.Line) {
		l.fill(cellRect(g.Cursor.Line, 0, g.Columns()), e.theme.CurrentLine)
	}

	cursorColor := e.theme.Cursor
	if f.Mode == ModeNavigation {
		cursorColor = e.theme.NavCursor
	}

	for row := 0; row < screenLines; row++ {
		line := row - offset
		cells := g.Row(line)
		for col, cell := range cells {
			if cell.Flags&grid.FlagWideSpacer != 0 {
				continue
			}
			rect := cellRect(line, col, cell.Width())

			fg := e.resolver.Resolve(cell.Fg, true)
			bg := e.resolver.Resolve(cell.Bg, false)
			if cell.Flags&grid.FlagDim != 0 {
				fg = fg.WithAlpha(dimAlpha)
			}
			if cell.Flags&grid.FlagInverse != 0 {
				fg, bg = bg, fg
			}
			if bg != e.theme.Background {
				l.fill(rect, bg)
			}

			isCursor := g.CursorVisible && g.Cursor.Line == line && g.Cursor.Col == col
			if isCursor {
				if f.Focused {
					l.fill(rect, cursorColor)
					fg = e.theme.Background
				} else {
					l.stroke(rect, cursorColor)
				}
			}

			switch cell.Char {
			case ' ', '\t', 0:
				continue
			}
			if cell.Flags&grid.FlagHidden != 0 {
				continue
			}
			l.glyph(rect, cell.Char, fg, cell.Flags&grid.FlagBold != 0)
		}
	}

	if f.Search != nil {
		for match := range f.Search.Matches(g) {
			for line := match.Start.Line; line <= match.End.Line; line++ {
				if !visible(line) {
					continue
				}
				start, end := 0, g.Columns()
				if line == match.Start.Line {
					start = match.Start.Col
				}
				if line == match.End.Line {
					end = match.End.Col
				}
				if end > start {
					l.stroke(cellRect(line, start, end-start), e.theme.SearchMatch)
				}
			}
		}
	}
	return l.ops
}
