package grid

import (
	"strings"
)

const (
	MaxScrollback = 10000
)

// Point addresses a cell. Line 0 is the top screen line, negative lines
// index history with -1 being the most recent line scrolled off the top.
type Point struct {
	Line int
	Col  int
}

// Before reports whether p sorts before o in reading order.
func (p Point) Before(o Point) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Col < o.Col)
}

// Side is the half of a cell a pointer landed on.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

// CellFlags represents text attributes
type CellFlags uint16

const (
	FlagBold CellFlags = 1 << iota
	FlagItalic
	FlagUnderline
	FlagInverse
	FlagHidden
	FlagStrikethrough
	FlagDim
	FlagWide       // first column of a double-width character
	FlagWideSpacer // second column of a double-width character
	FlagWrapline   // set on the last cell of a soft-wrapped line
)

// FlagDimBold is the faint+bold combination.
const FlagDimBold = FlagDim | FlagBold

// ColorType identifies the type of color
type ColorType uint8

const (
	ColorDefault ColorType = iota
	ColorIndexed
	ColorRGB
)

// Color represents a terminal color
type Color struct {
	Type    ColorType
	Index   uint8 // For indexed colors (0-255)
	R, G, B uint8 // For RGB colors
}

// DefaultFg returns the default foreground color
func DefaultFg() Color {
	return Color{Type: ColorDefault}
}

// DefaultBg returns the default background color
func DefaultBg() Color {
	return Color{Type: ColorDefault}
}

// IndexedColor creates an indexed color
func IndexedColor(index uint8) Color {
	return Color{Type: ColorIndexed, Index: index}
}

// RGBColor creates an RGB color
func RGBColor(r, g, b uint8) Color {
	return Color{Type: ColorRGB, R: r, G: g, B: b}
}

// Cell represents a single terminal cell
type Cell struct {
	Char  rune
	Fg    Color
	Bg    Color
	Flags CellFlags
}

// NewCell creates an empty cell
func NewCell() Cell {
	return Cell{
		Char: ' ',
		Fg:   DefaultFg(),
		Bg:   DefaultBg(),
	}
}

// Width is the number of columns the cell's character covers.
func (c Cell) Width() int {
	if c.Flags&FlagWide != 0 {
		return 2
	}
	return 1
}

// Lines is read access to a window of grid lines. Both *Grid and Snapshot
// implement it.
type Lines interface {
	Columns() int
	ScreenLines() int
	DisplayOffset() int
	TopmostLine() int
	BottommostLine() int
	Row(line int) []Cell
}

// Grid is a terminal screen plus its scrollback history. It does no locking
// of its own; the owning session serializes access.
type Grid struct {
	screen  [][]Cell
	history [][]Cell // oldest first
	cols    int
	lines   int

	cursor      Point
	savedCursor Point
	wrapPending bool

	displayOffset int
	maxHistory    int

	// Scroll region, 0-based, bottom exclusive
	scrollTop    int
	scrollBottom int

	// Last written cell for REP
	last Cell
}

// New creates a grid with the default scrollback limit.
func New(cols, lines int) *Grid {
	return NewWithHistory(cols, lines, MaxScrollback)
}

// NewWithHistory creates a grid keeping at most maxHistory lines of scrollback.
func NewWithHistory(cols, lines, maxHistory int) *Grid {
	cols = max(cols, 1)
	lines = max(lines, 1)
	if maxHistory < 0 {
		maxHistory = 0
	}
	screen := make([][]Cell, lines)
	for i := range screen {
		screen[i] = blankRow(cols)
	}
	return &Grid{
		screen:       screen,
		cols:         cols,
		lines:        lines,
		maxHistory:   maxHistory,
		scrollBottom: lines,
		last:         NewCell(),
	}
}

func blankRow(cols int) []Cell {
	row := make([]Cell, cols)
	for i := range row {
		row[i] = NewCell()
	}
	return row
}

func (g *Grid) Columns() int     { return g.cols }
func (g *Grid) ScreenLines() int { return g.lines }
func (g *Grid) HistorySize() int { return len(g.history) }
func (g *Grid) DisplayOffset() int {
	return g.displayOffset
}

// TopmostLine is the oldest line still held in history.
func (g *Grid) TopmostLine() int {
	return -len(g.history)
}

// BottommostLine is the last screen line.
func (g *Grid) BottommostLine() int {
	return g.lines - 1
}

// Row returns the cells of a line, or nil when the line does not exist.
// The slice aliases grid storage and must not be retained past the lock.
func (g *Grid) Row(line int) []Cell {
	switch {
	case line >= 0 && line < g.lines:
		return g.screen[line]
	case line < 0 && -line <= len(g.history):
		return g.history[len(g.history)+line]
	}
	return nil
}

// Cell returns the cell at p, or a blank cell when p is outside the grid.
func (g *Grid) Cell(p Point) Cell {
	row := g.Row(p.Line)
	if p.Col < 0 || p.Col >= len(row) {
		return NewCell()
	}
	return row[p.Col]
}

// SetCell overwrites the cell at p. Out of range points are ignored.
func (g *Grid) SetCell(p Point, c Cell) {
	row := g.Row(p.Line)
	if p.Col < 0 || p.Col >= len(row) {
		return
	}
	row[p.Col] = c
}

// Cursor returns the cursor position on the screen.
func (g *Grid) Cursor() Point {
	return g.cursor
}

// SetCursor moves the cursor, clamped to the screen.
func (g *Grid) SetCursor(p Point) {
	g.cursor = Point{
		Line: clampInt(p.Line, 0, g.lines-1),
		Col:  clampInt(p.Col, 0, g.cols-1),
	}
	g.wrapPending = false
}

// LineText returns the characters of a line with trailing blanks removed.
func (g *Grid) LineText(line int) string {
	return RowText(g.Row(line), 0, len(g.Row(line))-1)
}

// VisibleText returns the visible window as plain text.
func (g *Grid) VisibleText() string {
	top := -g.displayOffset
	lines := make([]string, 0, g.lines)
	for line := top; line < top+g.lines; line++ {
		lines = append(lines, g.LineText(line))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// RowText renders columns [start, end] of a row, skipping wide spacers and
// trimming trailing blanks.
func RowText(row []Cell, start, end int) string {
	if len(row) == 0 {
		return ""
	}
	start = max(start, 0)
	end = min(end, len(row)-1)
	var b strings.Builder
	b.Grow(end - start + 1)
	for col := start; col <= end; col++ {
		cell := row[col]
		if cell.Flags&FlagWideSpacer != 0 {
			continue
		}
		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		b.WriteRune(ch)
	}
	return strings.TrimRight(b.String(), " ")
}

// ScrollKind selects how the display window moves through history.
type ScrollKind int

const (
	ScrollDelta ScrollKind = iota
	ScrollPageUp
	ScrollPageDown
	ScrollTop
	ScrollBottom
)

// Scroll describes a display scroll. Positive deltas move up into history.
type Scroll struct {
	Kind  ScrollKind
	Delta int
}

// ScrollLines returns a delta scroll of n lines.
func ScrollLines(n int) Scroll {
	return Scroll{Kind: ScrollDelta, Delta: n}
}

// ScrollDisplay moves the visible window without touching content.
func (g *Grid) ScrollDisplay(s Scroll) {
	offset := g.displayOffset
	switch s.Kind {
	case ScrollDelta:
		offset += s.Delta
	case ScrollPageUp:
		offset += g.lines
	case ScrollPageDown:
		offset -= g.lines
	case ScrollTop:
		offset = len(g.history)
	case ScrollBottom:
		offset = 0
	}
	g.displayOffset = clampInt(offset, 0, len(g.history))
}

// Resize changes the screen dimensions. Lines that no longer fit above the
// cursor move into history so the cursor stays on screen.
func (g *Grid) Resize(cols, lines int) {
	cols = max(cols, 1)
	lines = max(lines, 1)

	if lines < g.lines {
		if shift := g.cursor.Line - lines + 1; shift > 0 {
			for i := 0; i < shift; i++ {
				g.pushHistory(g.screen[i])
			}
			g.screen = g.screen[shift:]
			g.cursor.Line -= shift
			g.savedCursor.Line = max(g.savedCursor.Line-shift, 0)
		}
		g.screen = g.screen[:min(len(g.screen), lines)]
	}
	for len(g.screen) < lines {
		g.screen = append(g.screen, blankRow(g.cols))
	}

	if cols != g.cols {
		for i, row := range g.screen {
			g.screen[i] = resizeRow(row, cols)
		}
		for i, row := range g.history {
			g.history[i] = resizeRow(row, cols)
		}
	}

	g.cols = cols
	g.lines = lines
	g.scrollTop = 0
	g.scrollBottom = lines
	g.wrapPending = false
	g.cursor.Line = clampInt(g.cursor.Line, 0, lines-1)
	g.cursor.Col = clampInt(g.cursor.Col, 0, cols-1)
	g.savedCursor.Line = clampInt(g.savedCursor.Line, 0, lines-1)
	g.savedCursor.Col = clampInt(g.savedCursor.Col, 0, cols-1)
	g.displayOffset = clampInt(g.displayOffset, 0, len(g.history))
}

func resizeRow(row []Cell, cols int) []Cell {
	if len(row) >= cols {
		row = row[:cols]
		last := &row[cols-1]
		last.Flags &^= FlagWrapline
		if last.Flags&FlagWide != 0 {
			*last = NewCell()
		}
		return row
	}
	out := make([]Cell, cols)
	copy(out, row)
	for i := len(row); i < cols; i++ {
		out[i] = NewCell()
	}
	return out
}

func (g *Grid) pushHistory(row []Cell) {
	if g.maxHistory == 0 {
		return
	}
	saved := make([]Cell, len(row))
	copy(saved, row)
	g.history = append(g.history, saved)
	if len(g.history) > g.maxHistory {
		g.history = g.history[len(g.history)-g.maxHistory:]
	}
}

func clampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
