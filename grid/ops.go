package grid

// ClearMode selects the region affected by an erase.
type ClearMode int

const (
	ClearBelow ClearMode = iota // cursor to end
	ClearAbove                  // start to cursor
	ClearAll
	ClearSaved // history
)

// Input writes a character at the cursor and advances it, wrapping to the
// next line when the previous write filled the last column.
func (g *Grid) Input(c rune, fg, bg Color, flags CellFlags) {
	w := RuneWidth(c)
	if w == 0 {
		return
	}
	if g.wrapPending {
		g.wrapLine()
	}
	if w == 2 && g.cursor.Col+1 >= g.cols {
		if g.cols < 2 {
			return
		}
		g.wrapLine()
	}

	row := g.screen[g.cursor.Line]
	col := g.cursor.Col
	g.clearWideAt(row, col)
	cell := Cell{Char: c, Fg: fg, Bg: bg, Flags: flags &^ (FlagWide | FlagWideSpacer | FlagWrapline)}
	if w == 2 {
		g.clearWideAt(row, col+1)
		cell.Flags |= FlagWide
		row[col+1] = Cell{Char: ' ', Fg: fg, Bg: bg, Flags: cell.Flags&^FlagWide | FlagWideSpacer}
	}
	row[col] = cell
	g.last = cell

	if col+w >= g.cols {
		g.cursor.Col = g.cols - 1
		g.wrapPending = true
	} else {
		g.cursor.Col = col + w
	}
}

// wrapLine marks the current line as soft-wrapped and moves to the start of
// the next one.
func (g *Grid) wrapLine() {
	row := g.screen[g.cursor.Line]
	row[g.cols-1].Flags |= FlagWrapline
	g.Linefeed()
	g.cursor.Col = 0
}

// clearWideAt blanks the other half of a wide character being overwritten.
func (g *Grid) clearWideAt(row []Cell, col int) {
	if col < 0 || col >= len(row) {
		return
	}
	switch {
	case row[col].Flags&FlagWide != 0 && col+1 < len(row):
		row[col+1] = NewCell()
	case row[col].Flags&FlagWideSpacer != 0 && col > 0:
		row[col-1] = NewCell()
	}
}

// Linefeed moves the cursor down one line, scrolling the region at its bottom.
func (g *Grid) Linefeed() {
	g.wrapPending = false
	if g.cursor.Line+1 == g.scrollBottom {
		g.ScrollUp(1)
		return
	}
	if g.cursor.Line < g.lines-1 {
		g.cursor.Line++
	}
}

// ReverseIndex moves the cursor up one line, scrolling down at the region top.
func (g *Grid) ReverseIndex() {
	g.wrapPending = false
	if g.cursor.Line == g.scrollTop {
		g.ScrollDown(1)
		return
	}
	if g.cursor.Line > 0 {
		g.cursor.Line--
	}
}

// CarriageReturn moves cursor to the beginning of the current line
func (g *Grid) CarriageReturn() {
	g.cursor.Col = 0
	g.wrapPending = false
}

// Backspace moves cursor back one position
func (g *Grid) Backspace() {
	if g.wrapPending {
		g.wrapPending = false
		return
	}
	if g.cursor.Col > 0 {
		g.cursor.Col--
	}
}

// Tab moves cursor to next tab stop (8 columns)
func (g *Grid) Tab() {
	g.cursor.Col = min(((g.cursor.Col/8)+1)*8, g.cols-1)
	g.wrapPending = false
}

// MoveCursor moves the cursor by the given delta, clamped to the screen.
func (g *Grid) MoveCursor(dCol, dLine int) {
	g.SetCursor(Point{Line: g.cursor.Line + dLine, Col: g.cursor.Col + dCol})
}

// SaveCursor saves the current cursor position
func (g *Grid) SaveCursor() {
	g.savedCursor = g.cursor
}

// RestoreCursor restores the saved cursor position
func (g *Grid) RestoreCursor() {
	g.SetCursor(g.savedCursor)
}

// ScrollUp scrolls the scroll region up by n lines. When the region is the
// whole screen the lines leaving the top go to history.
func (g *Grid) ScrollUp(n int) {
	n = min(n, g.scrollBottom-g.scrollTop)
	if n <= 0 {
		return
	}
	if g.scrollTop == 0 && g.scrollBottom == g.lines {
		for i := 0; i < n; i++ {
			g.pushHistory(g.screen[i])
		}
		if g.displayOffset > 0 {
			g.displayOffset = min(g.displayOffset+n, len(g.history))
		}
	}
	g.ScrollUpInRegion(n)
}

// ScrollDown scrolls the scroll region down by n lines.
func (g *Grid) ScrollDown(n int) {
	n = min(n, g.scrollBottom-g.scrollTop)
	if n <= 0 {
		return
	}
	region := g.screen[g.scrollTop:g.scrollBottom]
	copy(region[n:], region)
	for i := 0; i < n; i++ {
		region[i] = blankRow(g.cols)
	}
}

// SetScrollRegion sets the scrolling region (1-based, inclusive) and homes
// the cursor.
func (g *Grid) SetScrollRegion(top, bottom int) {
	top = max(top, 1)
	bottom = min(bottom, g.lines)
	if top < bottom {
		g.scrollTop = top - 1
		g.scrollBottom = bottom
	}
	g.SetCursor(Point{})
}

// ClearScreen erases part of the screen relative to the cursor.
func (g *Grid) ClearScreen(mode ClearMode) {
	switch mode {
	case ClearBelow:
		g.ClearLine(ClearBelow)
		for line := g.cursor.Line + 1; line < g.lines; line++ {
			g.screen[line] = blankRow(g.cols)
		}
	case ClearAbove:
		for line := 0; line < g.cursor.Line; line++ {
			g.screen[line] = blankRow(g.cols)
		}
		g.ClearLine(ClearAbove)
	case ClearAll:
		for line := range g.screen {
			g.screen[line] = blankRow(g.cols)
		}
	case ClearSaved:
		g.history = nil
		g.displayOffset = 0
	}
}

// ClearLine erases part of the cursor line: ClearBelow is cursor to end of
// line, ClearAbove is start of line to cursor, ClearAll is the whole line.
func (g *Grid) ClearLine(mode ClearMode) {
	row := g.screen[g.cursor.Line]
	start, end := 0, g.cols
	switch mode {
	case ClearBelow:
		start = g.cursor.Col
	case ClearAbove:
		end = g.cursor.Col + 1
	}
	for col := start; col < end && col < len(row); col++ {
		row[col] = NewCell()
	}
}

// EraseChars erases n characters at cursor without moving cursor
func (g *Grid) EraseChars(n int) {
	row := g.screen[g.cursor.Line]
	for i := 0; i < n && g.cursor.Col+i < g.cols; i++ {
		row[g.cursor.Col+i] = NewCell()
	}
}

// DeleteChars deletes n characters at cursor, shifting left
func (g *Grid) DeleteChars(n int) {
	row := g.screen[g.cursor.Line]
	n = min(n, g.cols-g.cursor.Col)
	copy(row[g.cursor.Col:], row[g.cursor.Col+n:])
	for col := g.cols - n; col < g.cols; col++ {
		row[col] = NewCell()
	}
}

// InsertChars inserts n blank characters at cursor, shifting right
func (g *Grid) InsertChars(n int) {
	row := g.screen[g.cursor.Line]
	n = min(n, g.cols-g.cursor.Col)
	copy(row[g.cursor.Col+n:], row[g.cursor.Col:])
	for col := g.cursor.Col; col < g.cursor.Col+n; col++ {
		row[col] = NewCell()
	}
}

// DeleteLines deletes n lines at the cursor inside the scroll region.
func (g *Grid) DeleteLines(n int) {
	if g.cursor.Line < g.scrollTop || g.cursor.Line >= g.scrollBottom {
		return
	}
	top := g.scrollTop
	g.scrollTop = g.cursor.Line
	g.ScrollUpInRegion(n)
	g.scrollTop = top
}

// InsertLines inserts n blank lines at the cursor inside the scroll region.
func (g *Grid) InsertLines(n int) {
	if g.cursor.Line < g.scrollTop || g.cursor.Line >= g.scrollBottom {
		return
	}
	top := g.scrollTop
	g.scrollTop = g.cursor.Line
	g.ScrollDown(n)
	g.scrollTop = top
}

// ScrollUpInRegion scrolls the region without feeding history.
func (g *Grid) ScrollUpInRegion(n int) {
	n = min(n, g.scrollBottom-g.scrollTop)
	if n <= 0 {
		return
	}
	region := g.screen[g.scrollTop:g.scrollBottom]
	copy(region, region[n:])
	for i := len(region) - n; i < len(region); i++ {
		region[i] = blankRow(g.cols)
	}
}

// RepeatLast repeats the last written character n times
func (g *Grid) RepeatLast(n int) {
	for i := 0; i < n; i++ {
		g.Input(g.last.Char, g.last.Fg, g.last.Bg, g.last.Flags)
	}
}

// Reset clears the screen and history and homes the cursor.
func (g *Grid) Reset() {
	g.ClearScreen(ClearAll)
	g.ClearScreen(ClearSaved)
	g.scrollTop = 0
	g.scrollBottom = g.lines
	g.SetCursor(Point{})
	g.savedCursor = Point{}
	g.last = NewCell()
}

// PutString writes s starting at p without moving the cursor. Wide characters
// take two columns; text past the end of the line is dropped.
func (g *Grid) PutString(p Point, s string) {
	row := g.Row(p.Line)
	col := p.Col
	for _, r := range s {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		if col < 0 || col+w > len(row) {
			return
		}
		cell := NewCell()
		cell.Char = r
		if w == 2 {
			cell.Flags = FlagWide
			spacer := NewCell()
			spacer.Flags = FlagWideSpacer
			row[col+1] = spacer
		}
		row[col] = cell
		col += w
	}
}
