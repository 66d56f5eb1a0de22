package render

import "github.com/mattn/go-runewidth"

// Rect is an axis aligned rectangle in pixels.
type Rect struct {
	X, Y, W, H float32
}

const epsilon = 1e-3

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X-epsilon && o.Y >= r.Y-epsilon &&
		o.X+o.W <= r.X+r.W+epsilon && o.Y+o.H <= r.Y+r.H+epsilon
}

// ContainsPoint reports whether (x, y) is inside r.
func (r Rect) ContainsPoint(x, y float32) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Intersect returns the overlap of r and o, which may be empty.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// OpKind is the type of a draw operation.
type OpKind uint8

const (
	OpFillRect OpKind = iota
	OpStrokeRect
	OpGlyph
	OpIcon
)

func (k OpKind) String() string {
	switch k {
	case OpFillRect:
		return "fill"
	case OpStrokeRect:
		return "stroke"
	case OpGlyph:
		return "glyph"
	case OpIcon:
		return "icon"
	}
	return "unknown"
}

// Op is one screen-space draw operation. Glyph ops place Rune in the cell
// Rect; icon ops draw the named icon scaled into Rect.
type Op struct {
	Kind  OpKind
	Rect  Rect
	Color Color
	Rune  rune
	Bold  bool
	Icon  string
}

// opList collects ops clipped to bounds. Rectangles are intersected with the
// bounds; glyphs and icons are dropped unless fully inside.
type opList struct {
	bounds Rect
	ops    []Op
}

func (l *opList) fill(r Rect, c Color) {
	l.rect(OpFillRect, r, c)
}

func (l *opList) stroke(r Rect, c Color) {
	if !l.bounds.Contains(r) {
		return
	}
	l.ops = append(l.ops, Op{Kind: OpStrokeRect, Rect: r, Color: c})
}

func (l *opList) rect(kind OpKind, r Rect, c Color) {
	r = l.bounds.Intersect(r)
	if r.Empty() {
		return
	}
	l.ops = append(l.ops, Op{Kind: kind, Rect: r, Color: c})
}

func (l *opList) glyph(r Rect, ch rune, c Color, bold bool) {
	if !l.bounds.Contains(r) {
		return
	}
	l.ops = append(l.ops, Op{Kind: OpGlyph, Rect: r, Color: c, Rune: ch, Bold: bold})
}

func (l *opList) icon(r Rect, name string, c Color) {
	if !l.bounds.Contains(r) {
		return
	}
	l.ops = append(l.ops, Op{Kind: OpIcon, Rect: r, Color: c, Icon: name})
}

// text places s one glyph per cell starting at (x, y).
func (l *opList) text(x, y float32, s string, c Color, bold bool, m Metrics) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if r != ' ' {
			l.glyph(Rect{X: x, Y: y, W: float32(w) * m.CellWidth, H: m.CellHeight}, r, c, bold)
		}
		x += float32(w) * m.CellWidth
	}
}
