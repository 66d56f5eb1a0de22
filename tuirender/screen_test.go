package tuirender

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/javanhut/RavenPanel/keybindings"
	"github.com/javanhut/RavenPanel/panel"
	"github.com/javanhut/RavenPanel/render"
)

func newSimScreen(t *testing.T, w, h int) tcell.Screen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func readScreenLine(screen tcell.Screen, x, y, width int) string {
	runes := make([]rune, width)
	for i := 0; i < width; i++ {
		ch, _, _, _ := screen.GetContent(x+i, y)
		if ch == 0 {
			ch = ' '
		}
		runes[i] = ch
	}
	end := len(runes)
	for end > 0 && runes[end-1] == ' ' {
		end--
	}
	return string(runes[:end])
}

func TestDrawGlyphsAndIcons(t *testing.T) {
	screen := newSimScreen(t, 10, 3)
	s := New(screen)
	white := render.Color{1, 1, 1, 1}
	s.Draw(render.Color{0, 0, 0, 1}, []render.Op{
		{Kind: render.OpGlyph, Rect: render.Rect{X: 0, Y: 1, W: 1, H: 1}, Rune: 'h', Color: white},
		{Kind: render.OpGlyph, Rect: render.Rect{X: 1, Y: 1, W: 1, H: 1}, Rune: 'i', Color: white},
		{Kind: render.OpIcon, Rect: render.Rect{X: 3, Y: 1, W: 2, H: 1}, Icon: render.IconAdd, Color: white},
		{Kind: render.OpGlyph, Rect: render.Rect{X: 50, Y: 1, W: 1, H: 1}, Rune: 'z', Color: white},
	})
	if got := readScreenLine(screen, 0, 1, 10); got != "hi +" {
		t.Fatalf("line = %q", got)
	}
}

func TestFillBlendsAlpha(t *testing.T) {
	screen := newSimScreen(t, 4, 1)
	s := New(screen)
	s.Draw(render.Color{0, 0, 0, 1}, []render.Op{
		{Kind: render.OpFillRect, Rect: render.Rect{X: 1, Y: 0, W: 2, H: 1}, Color: render.Color{1, 1, 1, 0.5}},
		{Kind: render.OpGlyph, Rect: render.Rect{X: 1, Y: 0, W: 1, H: 1}, Rune: 'a', Color: render.Color{1, 0, 0, 1}},
	})
	_, _, style, _ := screen.GetContent(1, 0)
	fg, bg, attrs := style.Decompose()
	if r, g, b := bg.RGB(); r != 128 || g != 128 || b != 128 {
		t.Fatalf("bg = %d,%d,%d", r, g, b)
	}
	if r, g, b := fg.RGB(); r != 255 || g != 0 || b != 0 {
		t.Fatalf("fg = %d,%d,%d", r, g, b)
	}
	if attrs&tcell.AttrBold != 0 {
		t.Fatalf("unexpected bold")
	}
	_, _, style, _ = screen.GetContent(0, 0)
	if _, bg, _ := style.Decompose(); bg != tcell.NewRGBColor(0, 0, 0) {
		t.Fatalf("untouched bg = %v", bg)
	}
}

func TestPaintedPaneOnTextScreen(t *testing.T) {
	screen := newSimScreen(t, 20, 5)
	s := New(screen)
	e := render.NewEngine(render.DefaultTheme(), nil)
	h := render.Header{Bounds: render.Rect{W: 20, H: 1}, Titles: []string{"sh"}}
	s.Draw(e.Theme().Background, e.PaintHeader(h, render.TextMetrics))
	if got := readScreenLine(screen, 0, 0, 20); got != " sh x       v + = x" {
		t.Fatalf("header = %q", got)
	}
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want keybindings.Event
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), keybindings.Event{Key: keybindings.KeyRune, Rune: 'a'}},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), keybindings.Event{Key: keybindings.KeySpace}},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), keybindings.Event{Key: keybindings.KeyUp, Mods: keybindings.ModShift}},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), keybindings.Event{Key: keybindings.KeyRune, Rune: 'c', Mods: keybindings.ModCtrl}},
		{tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), keybindings.Event{Key: keybindings.KeyTab, Mods: keybindings.ModShift}},
	}
	for _, tt := range tests {
		got, ok := KeyEvent(tt.ev)
		if !ok || got != tt.want {
			t.Errorf("KeyEvent(%v) = %+v %v, want %+v", tt.ev.Name(), got, ok, tt.want)
		}
	}
}

func TestMouseTracker(t *testing.T) {
	var tr MouseTracker
	press := tr.Events(tcell.NewEventMouse(2, 3, tcell.ButtonPrimary, tcell.ModNone))
	if len(press) != 1 || press[0].Kind != panel.MousePress || press[0].Button != panel.ButtonLeft || press[0].X != 2 {
		t.Fatalf("press = %+v", press)
	}
	move := tr.Events(tcell.NewEventMouse(5, 3, tcell.ButtonPrimary, tcell.ModNone))
	if len(move) != 1 || move[0].Kind != panel.MouseMove || move[0].X != 5 {
		t.Fatalf("move = %+v", move)
	}
	release := tr.Events(tcell.NewEventMouse(5, 3, tcell.ButtonNone, tcell.ModNone))
	if len(release) != 1 || release[0].Kind != panel.MouseRelease {
		t.Fatalf("release = %+v", release)
	}
	wheel := tr.Events(tcell.NewEventMouse(1, 1, tcell.WheelUp, tcell.ModNone))
	if len(wheel) != 1 || wheel[0].Kind != panel.MouseWheel || wheel[0].WheelY != 1 {
		t.Fatalf("wheel = %+v", wheel)
	}
}
