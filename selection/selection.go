// Package selection models text selections over a terminal grid: how they
// start and grow from pointer input, how they snap to cells, words, lines or
// blocks, and how their text is extracted.
package selection

import (
	"math"
	"strings"

	"github.com/javanhut/RavenPanel/grid"
)

// DefaultSeparators are the characters that end a word for semantic
// selection.
const DefaultSeparators = ",│`|:\"' ()[]{}<>\t"

// Kind is the snapping behavior of a selection.
type Kind int

const (
	KindCell Kind = iota
	KindWord
	KindLine
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindCell:
		return "cell"
	case KindWord:
		return "word"
	case KindLine:
		return "line"
	case KindBlock:
		return "block"
	}
	return "unknown"
}

// Range is a selection between an anchor and a head. The anchor is fixed
// once set; extending only moves the head. Lines may be negative to reach
// into scrollback. AnchorSide and Side record which half of the anchor and
// head cells the pointer was on.
type Range struct {
	Kind       Kind
	Anchor     grid.Point
	Head       grid.Point
	AnchorSide grid.Side
	Side       grid.Side

	// Separators overrides DefaultSeparators for KindWord.
	Separators string
}

// Span is a run of selected columns on one line, End inclusive.
type Span struct {
	Line  int
	Start int
	End   int
}

// BeginOrExtend starts a selection at p when cur is nil, otherwise moves the
// head of cur to p keeping its anchor and kind.
func BeginOrExtend(cur *Range, p grid.Point, side grid.Side, kind Kind) Range {
	if cur == nil {
		return Range{Kind: kind, Anchor: p, Head: p, AnchorSide: side, Side: side}
	}
	next := *cur
	next.Head = p
	next.Side = side
	return next
}

// PointFromPixel converts a position relative to the pane origin into a grid
// point. The visual row is clamped to the screen and shifted by the display
// offset; the column is only clamped on the left, so points past the last
// column are left for Spans to clamp.
func PointFromPixel(x, y, colW, rowH float32, displayOffset, screenLines int) (grid.Point, grid.Side) {
	if colW <= 0 || rowH <= 0 {
		return grid.Point{Line: -displayOffset}, grid.SideLeft
	}
	row := int(math.Floor(float64(y / rowH)))
	row = min(max(row, 0), max(screenLines-1, 0))
	col := max(int(math.Floor(float64(x/colW))), 0)

	side := grid.SideLeft
	if x-float32(col)*colW > colW/2 {
		side = grid.SideRight
	}
	return grid.Point{Line: row - displayOffset, Col: col}, side
}

// Ordered returns the anchor and head in reading order.
func (r Range) Ordered() (start, end grid.Point) {
	if r.Head.Before(r.Anchor) {
		return r.Head, r.Anchor
	}
	return r.Anchor, r.Head
}

// IsEmpty reports whether the selection covers no cells. Only a cell
// selection can be empty: one whose anchor and head are the same point on
// the same side of the cell. Crossing the middle of a cell selects it.
func (r Range) IsEmpty() bool {
	return r.Kind == KindCell && r.Anchor == r.Head && r.AnchorSide == r.Side
}

// Spans snaps the selection and returns the selected columns per line, top
// to bottom. Columns are clamped to the grid width and lines to those the
// grid holds; a selection entirely outside the grid has no spans.
func (r Range) Spans(lines grid.Lines) []Span {
	if r.IsEmpty() {
		return nil
	}
	cols := lines.Columns()
	if cols <= 0 {
		return nil
	}
	start, end := r.Ordered()

	switch r.Kind {
	case KindBlock:
		left := min(r.Anchor.Col, r.Head.Col)
		right := min(max(r.Anchor.Col, r.Head.Col), cols-1)
		left = min(left, cols-1)
		top := max(start.Line, lines.TopmostLine())
		bottom := min(end.Line, lines.BottommostLine())
		if top > bottom {
			return nil
		}
		spans := make([]Span, 0, bottom-top+1)
		for line := top; line <= bottom; line++ {
			spans = append(spans, Span{Line: line, Start: left, End: right})
		}
		return spans
	case KindLine:
		start.Col = 0
		end.Col = cols - 1
	case KindWord:
		seps := r.Separators
		if seps == "" {
			seps = DefaultSeparators
		}
		start = wordStart(lines, clampPoint(start, cols), seps)
		end = wordEnd(lines, clampPoint(end, cols), seps)
	default:
		start = clampPoint(start, cols)
		end = clampPoint(end, cols)
		// a wide character is selected whole
		if row := lines.Row(end.Line); end.Col < len(row) && row[end.Col].Flags&grid.FlagWide != 0 {
			end.Col = min(end.Col+1, cols-1)
		}
	}
	if start.Line < lines.TopmostLine() {
		start = grid.Point{Line: lines.TopmostLine()}
	}
	if end.Line > lines.BottommostLine() {
		end = grid.Point{Line: lines.BottommostLine(), Col: cols - 1}
	}
	if end.Before(start) {
		return nil
	}
	return contiguous(start, end, cols)
}

func contiguous(start, end grid.Point, cols int) []Span {
	spans := make([]Span, 0, end.Line-start.Line+1)
	for line := start.Line; line <= end.Line; line++ {
		s := Span{Line: line, Start: 0, End: cols - 1}
		if line == start.Line {
			s.Start = start.Col
		}
		if line == end.Line {
			s.End = end.Col
		}
		spans = append(spans, s)
	}
	return spans
}

func clampPoint(p grid.Point, cols int) grid.Point {
	p.Col = min(max(p.Col, 0), cols-1)
	return p
}

func isSeparator(c grid.Cell, seps string) bool {
	return strings.ContainsRune(seps, c.Char)
}

// wordStart walks left from p to the first cell of its word, following soft
// wraps into the previous line.
func wordStart(lines grid.Lines, p grid.Point, seps string) grid.Point {
	row := lines.Row(p.Line)
	if p.Col >= len(row) {
		return p
	}
	if row[p.Col].Flags&grid.FlagWideSpacer != 0 && p.Col > 0 {
		p.Col--
	}
	if isSeparator(row[p.Col], seps) {
		return p
	}
	for {
		if p.Col == 0 {
			prev := lines.Row(p.Line - 1)
			if len(prev) == 0 || prev[len(prev)-1].Flags&grid.FlagWrapline == 0 {
				return p
			}
			last := len(prev) - 1
			if isSeparator(prev[last], seps) {
				return p
			}
			p = grid.Point{Line: p.Line - 1, Col: last}
			row = prev
			continue
		}
		prev := row[p.Col-1]
		if prev.Flags&grid.FlagWideSpacer == 0 && isSeparator(prev, seps) {
			return p
		}
		p.Col--
	}
}

// wordEnd walks right from p to the last cell of its word, following soft
// wraps into the next line.
func wordEnd(lines grid.Lines, p grid.Point, seps string) grid.Point {
	row := lines.Row(p.Line)
	if p.Col >= len(row) {
		return p
	}
	if row[p.Col].Flags&grid.FlagWide != 0 {
		p.Col = min(p.Col+1, len(row)-1)
	}
	if isSeparator(row[p.Col], seps) && row[p.Col].Flags&grid.FlagWideSpacer == 0 {
		return p
	}
	for {
		if p.Col == len(row)-1 {
			next := lines.Row(p.Line + 1)
			if row[p.Col].Flags&grid.FlagWrapline == 0 || len(next) == 0 || isSeparator(next[0], seps) {
				return p
			}
			p = grid.Point{Line: p.Line + 1, Col: 0}
			row = next
			continue
		}
		next := row[p.Col+1]
		if next.Flags&grid.FlagWideSpacer == 0 && isSeparator(next, seps) {
			return p
		}
		p.Col++
	}
}

// Extract returns the selected text. Block rows are joined with newlines;
// other kinds join lines with a newline unless the line soft-wrapped into the
// next. Trailing blanks on each line are dropped. The boolean is false when
// the selection is nil or covers nothing.
func Extract(lines grid.Lines, r *Range) (string, bool) {
	if r == nil {
		return "", false
	}
	spans := r.Spans(lines)
	if len(spans) == 0 {
		return "", false
	}

	var b strings.Builder
	for i, s := range spans {
		row := lines.Row(s.Line)
		wrapped := r.Kind != KindBlock && len(row) > 0 &&
			s.End == len(row)-1 && row[len(row)-1].Flags&grid.FlagWrapline != 0
		text := rowText(row, s.Start, s.End)
		if !wrapped {
			text = strings.TrimRight(text, " ")
		}
		b.WriteString(text)
		if i < len(spans)-1 && !wrapped {
			b.WriteByte('\n')
		}
	}
	return b.String(), true
}

func rowText(row []grid.Cell, start, end int) string {
	end = min(end, len(row)-1)
	var b strings.Builder
	for col := max(start, 0); col <= end; col++ {
		c := row[col]
		if c.Flags&grid.FlagWideSpacer != 0 {
			continue
		}
		ch := c.Char
		if ch == 0 || c.Flags&grid.FlagHidden != 0 {
			ch = ' '
		}
		b.WriteRune(ch)
	}
	return b.String()
}
