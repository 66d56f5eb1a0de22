// Package tuirender executes draw operations on a text screen, one op pixel
// per character cell.
package tuirender

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/javanhut/RavenPanel/render"
)

// iconRunes stands in for header icons on a text screen.
var iconRunes = map[string]rune{
	render.IconClose:    'x',
	render.IconSplit:    '=',
	render.IconAdd:      '+',
	render.IconProfiles: 'v',
}

// Screen draws ops into a tcell screen. Translucent colors are blended over
// the background already painted in each cell.
type Screen struct {
	screen tcell.Screen
	w, h   int
	bg     []colorful.Color
}

// New wraps an initialized tcell screen.
func New(screen tcell.Screen) *Screen {
	return &Screen{screen: screen}
}

// Size returns the screen size in cells.
func (s *Screen) Size() (w, h int) { return s.screen.Size() }

// Bounds is the whole screen as a render rectangle.
func (s *Screen) Bounds() render.Rect {
	w, h := s.screen.Size()
	return render.Rect{W: float32(w), H: float32(h)}
}

// Draw clears the screen to background, executes ops and shows the result.
func (s *Screen) Draw(background render.Color, ops []render.Op) {
	s.w, s.h = s.screen.Size()
	if cap(s.bg) < s.w*s.h {
		s.bg = make([]colorful.Color, s.w*s.h)
	}
	s.bg = s.bg[:s.w*s.h]
	base := toColorful(background)
	for i := range s.bg {
		s.bg[i] = base
	}
	s.screen.Fill(' ', tcell.StyleDefault.Background(toTcell(base)))

	for _, op := range ops {
		s.exec(op)
	}
	s.screen.Show()
}

func (s *Screen) exec(op render.Op) {
	x0, y0, x1, y1 := s.cells(op.Rect)
	switch op.Kind {
	case render.OpFillRect:
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				c := s.blend(x, y, op.Color)
				s.bg[y*s.w+x] = c
				s.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(toTcell(c)))
			}
		}
	case render.OpStrokeRect:
		// a text cell has no border; underline the covered cells instead
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				ch, comb, style, _ := s.screen.GetContent(x, y)
				style = style.Underline(true, toTcell(s.blend(x, y, op.Color)))
				s.screen.SetContent(x, y, ch, comb, style)
			}
		}
	case render.OpGlyph:
		s.put(x0, y0, op.Rune, op.Color, op.Bold)
	case render.OpIcon:
		if r, ok := iconRunes[op.Icon]; ok {
			s.put(x0, y0, r, op.Color, false)
		}
	}
}

func (s *Screen) put(x, y int, r rune, fg render.Color, bold bool) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	style := tcell.StyleDefault.
		Foreground(toTcell(s.blend(x, y, fg))).
		Background(toTcell(s.bg[y*s.w+x])).
		Bold(bold)
	s.screen.SetContent(x, y, r, nil, style)
}

// cells converts a rectangle into the half-open cell range it covers,
// clipped to the screen.
func (s *Screen) cells(r render.Rect) (x0, y0, x1, y1 int) {
	x0 = max(int(math.Floor(float64(r.X))), 0)
	y0 = max(int(math.Floor(float64(r.Y))), 0)
	x1 = min(int(math.Ceil(float64(r.X+r.W))), s.w)
	y1 = min(int(math.Ceil(float64(r.Y+r.H))), s.h)
	return
}

// blend composes c over the background of cell (x, y).
func (s *Screen) blend(x, y int, c render.Color) colorful.Color {
	under := s.bg[y*s.w+x]
	return under.BlendRgb(toColorful(c), float64(c[3])).Clamped()
}

func toColorful(c render.Color) colorful.Color {
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
