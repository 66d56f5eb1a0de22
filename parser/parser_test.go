package parser

import (
	"testing"

	"github.com/javanhut/RavenPanel/grid"
)

func TestPrintAndLinefeed(t *testing.T) {
	p := New(10, 3, 100)
	p.Advance([]byte("hi\r\nthere"))

	g := p.Grid()
	if got := g.LineText(0); got != "hi" {
		t.Fatalf("line 0 = %q", got)
	}
	if got := g.LineText(1); got != "there" {
		t.Fatalf("line 1 = %q", got)
	}
}

func TestUTF8SplitAcrossWrites(t *testing.T) {
	p := New(10, 2, 0)
	b := []byte("é漢")
	p.Advance(b[:1])
	p.Advance(b[1:4])
	p.Advance(b[4:])

	if got := p.Grid().LineText(0); got != "é漢" {
		t.Fatalf("line = %q", got)
	}
}

func TestCursorPositionAndErase(t *testing.T) {
	p := New(10, 3, 0)
	p.Advance([]byte("abcdef\x1b[1;3H\x1b[K"))

	g := p.Grid()
	if got := g.LineText(0); got != "ab" {
		t.Fatalf("line = %q", got)
	}
	if c := g.Cursor(); c != (grid.Point{Line: 0, Col: 2}) {
		t.Fatalf("cursor = %+v", c)
	}
}

func TestSGRColorsAndFlags(t *testing.T) {
	p := New(10, 1, 0)
	p.Advance([]byte("\x1b[1;31mR\x1b[38;2;1;2;3mG\x1b[0mN\x1b[2;7mD"))

	g := p.Grid()
	r := g.Cell(grid.Point{Col: 0})
	if r.Flags&grid.FlagBold == 0 || r.Fg != grid.IndexedColor(1) {
		t.Fatalf("R cell = %+v", r)
	}
	if c := g.Cell(grid.Point{Col: 1}); c.Fg != grid.RGBColor(1, 2, 3) {
		t.Fatalf("G cell = %+v", c)
	}
	if c := g.Cell(grid.Point{Col: 2}); c.Flags != 0 || c.Fg != grid.DefaultFg() {
		t.Fatalf("N cell = %+v", c)
	}
	if c := g.Cell(grid.Point{Col: 3}); c.Flags&grid.FlagDim == 0 || c.Flags&grid.FlagInverse == 0 {
		t.Fatalf("D cell = %+v", c)
	}
}

func TestAltScreenKeepsPrimary(t *testing.T) {
	p := New(10, 2, 10)
	p.Advance([]byte("main"))
	p.Advance([]byte("\x1b[?1049h\x1b[Hfull"))

	if !p.AltScreen() {
		t.Fatalf("expected alt screen")
	}
	if got := p.Grid().LineText(0); got != "full" {
		t.Fatalf("alt line = %q", got)
	}
	p.Advance([]byte("\x1b[?1049l"))
	if got := p.Grid().LineText(0); got != "main" {
		t.Fatalf("primary line = %q", got)
	}
	if c := p.Grid().Cursor(); c.Col != 4 {
		t.Fatalf("cursor not restored: %+v", c)
	}
}

func TestModes(t *testing.T) {
	p := New(10, 2, 0)
	p.Advance([]byte("\x1b[?1h\x1b[?25l"))
	if !p.AppCursorKeys() || p.CursorVisible() {
		t.Fatalf("app=%v visible=%v", p.AppCursorKeys(), p.CursorVisible())
	}
	p.Advance([]byte("\x1bc"))
	if p.AppCursorKeys() || !p.CursorVisible() {
		t.Fatalf("reset did not restore modes")
	}
}

func TestDeviceStatusReport(t *testing.T) {
	p := New(10, 3, 0)
	var got []byte
	p.SetResponseWriter(func(b []byte) { got = append(got, b...) })
	p.Advance([]byte("\r\nab\x1b[6n"))

	if string(got) != "\x1b[2;3R" {
		t.Fatalf("response = %q", got)
	}
}

func TestOSCTitleAndWorkingDir(t *testing.T) {
	p := New(10, 1, 0)
	p.Advance([]byte("\x1b]2;build\x07\x1b]7;file://host/tmp/a%20b\x1b\\x"))

	if p.Title() != "build" {
		t.Fatalf("title = %q", p.Title())
	}
	if p.WorkingDir() != "/tmp/a b" {
		t.Fatalf("dir = %q", p.WorkingDir())
	}
	if got := p.Grid().LineText(0); got != "x" {
		t.Fatalf("line = %q", got)
	}
}
