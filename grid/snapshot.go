package grid

// Snapshot is a copy of the visible window taken under the session lock so
// painting can proceed without holding it. It carries one extra line below
// the window when the grid has one.
type Snapshot struct {
	Cursor        Point
	CursorVisible bool

	cols    int
	lines   int
	history int
	offset  int
	top     int
	rows    [][]Cell
}

// Snapshot copies the lines from the top of the display window down to one
// line past its bottom.
func (g *Grid) Snapshot() Snapshot {
	top := -g.displayOffset
	bottom := min(top+g.lines, g.BottommostLine())
	rows := make([][]Cell, 0, bottom-top+1)
	for line := top; line <= bottom; line++ {
		src := g.Row(line)
		row := make([]Cell, g.cols)
		n := copy(row, src)
		for i := n; i < g.cols; i++ {
			row[i] = NewCell()
		}
		rows = append(rows, row)
	}
	return Snapshot{
		Cursor:        g.cursor,
		CursorVisible: true,
		cols:          g.cols,
		lines:         g.lines,
		history:       len(g.history),
		offset:        g.displayOffset,
		top:           top,
		rows:          rows,
	}
}

func (s Snapshot) Columns() int        { return s.cols }
func (s Snapshot) ScreenLines() int    { return s.lines }
func (s Snapshot) DisplayOffset() int  { return s.offset }
func (s Snapshot) TopmostLine() int    { return -s.history }
func (s Snapshot) BottommostLine() int { return s.lines - 1 }

// Row returns a captured line, or nil when the line lies outside the copy.
func (s Snapshot) Row(line int) []Cell {
	i := line - s.top
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}

// Cell returns the captured cell at p, blank outside the copy.
func (s Snapshot) Cell(p Point) Cell {
	row := s.Row(p.Line)
	if p.Col < 0 || p.Col >= len(row) {
		return NewCell()
	}
	return row[p.Col]
}
