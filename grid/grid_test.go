package grid

import "testing"

func writeString(g *Grid, s string) {
	for _, r := range s {
		switch r {
		case '\n':
			g.CarriageReturn()
			g.Linefeed()
		default:
			g.Input(r, DefaultFg(), DefaultBg(), 0)
		}
	}
}

func TestInputWrapsAndMarksWrapline(t *testing.T) {
	g := New(4, 3)
	writeString(g, "abcdef")

	if got := g.LineText(0); got != "abcd" {
		t.Fatalf("line 0 = %q, want %q", got, "abcd")
	}
	if got := g.LineText(1); got != "ef" {
		t.Fatalf("line 1 = %q, want %q", got, "ef")
	}
	if g.Cell(Point{Line: 0, Col: 3}).Flags&FlagWrapline == 0 {
		t.Fatalf("expected wrapline flag on last cell of line 0")
	}
	if c := g.Cursor(); c != (Point{Line: 1, Col: 2}) {
		t.Fatalf("cursor = %+v", c)
	}
}

func TestInputWideCharacter(t *testing.T) {
	g := New(5, 2)
	writeString(g, "a漢b")

	wide := g.Cell(Point{Line: 0, Col: 1})
	if wide.Char != '漢' || wide.Flags&FlagWide == 0 {
		t.Fatalf("expected wide cell at col 1, got %+v", wide)
	}
	if spacer := g.Cell(Point{Line: 0, Col: 2}); spacer.Flags&FlagWideSpacer == 0 {
		t.Fatalf("expected spacer at col 2, got %+v", spacer)
	}
	if got := g.LineText(0); got != "a漢b" {
		t.Fatalf("line text = %q", got)
	}
}

func TestWideCharacterWrapsAtLastColumn(t *testing.T) {
	g := New(3, 2)
	writeString(g, "ab漢")

	if got := g.LineText(0); got != "ab" {
		t.Fatalf("line 0 = %q", got)
	}
	if got := g.LineText(1); got != "漢" {
		t.Fatalf("line 1 = %q", got)
	}
}

func TestScrollbackUsesNegativeLines(t *testing.T) {
	g := New(5, 2)
	writeString(g, "one\ntwo\nthree\nfour")

	if g.HistorySize() != 2 {
		t.Fatalf("history = %d, want 2", g.HistorySize())
	}
	if g.TopmostLine() != -2 || g.BottommostLine() != 1 {
		t.Fatalf("topmost/bottommost = %d/%d", g.TopmostLine(), g.BottommostLine())
	}
	want := map[int]string{-2: "one", -1: "two", 0: "three", 1: "four"}
	for line, text := range want {
		if got := g.LineText(line); got != text {
			t.Errorf("line %d = %q, want %q", line, got, text)
		}
	}
	if g.Row(-3) != nil || g.Row(2) != nil {
		t.Fatalf("expected nil rows outside the grid")
	}
}

func TestScrollDisplayClampsToHistory(t *testing.T) {
	g := New(5, 2)
	writeString(g, "1\n2\n3\n4\n5")

	g.ScrollDisplay(ScrollLines(100))
	if g.DisplayOffset() != g.HistorySize() {
		t.Fatalf("offset = %d, want %d", g.DisplayOffset(), g.HistorySize())
	}
	g.ScrollDisplay(Scroll{Kind: ScrollPageDown})
	if g.DisplayOffset() != 1 {
		t.Fatalf("offset after page down = %d, want 1", g.DisplayOffset())
	}
	g.ScrollDisplay(Scroll{Kind: ScrollBottom})
	if g.DisplayOffset() != 0 {
		t.Fatalf("offset after bottom = %d", g.DisplayOffset())
	}
	if got := g.VisibleText(); got != "4\n5" {
		t.Fatalf("visible = %q", got)
	}
}

func TestDisplayOffsetFollowsNewOutputWhenScrolledBack(t *testing.T) {
	g := New(5, 2)
	writeString(g, "1\n2\n3")
	g.ScrollDisplay(ScrollLines(1))
	before := g.VisibleText()

	writeString(g, "\n4")
	if got := g.VisibleText(); got != before {
		t.Fatalf("view moved while scrolled back: %q -> %q", before, got)
	}
}

func TestResizeKeepsCursorOnScreen(t *testing.T) {
	g := New(80, 24)
	for i := 0; i < 23; i++ {
		writeString(g, "line\n")
	}
	writeString(g, "prompt")

	g.Resize(40, 12)
	if g.Columns() != 40 || g.ScreenLines() != 12 {
		t.Fatalf("dims = %dx%d", g.Columns(), g.ScreenLines())
	}
	c := g.Cursor()
	if c.Line < 0 || c.Line >= 12 || c.Col < 0 || c.Col >= 40 {
		t.Fatalf("cursor out of bounds after resize: %+v", c)
	}
	if got := g.LineText(c.Line); got != "prompt" {
		t.Fatalf("cursor line = %q, want prompt", got)
	}
	for line := g.TopmostLine(); line <= g.BottommostLine(); line++ {
		if n := len(g.Row(line)); n != 40 {
			t.Fatalf("row %d has %d cells, want 40", line, n)
		}
	}
}

func TestSnapshotCopiesWindow(t *testing.T) {
	g := New(4, 2)
	writeString(g, "ab\ncd\nef")
	g.ScrollDisplay(ScrollLines(1))

	snap := g.Snapshot()
	if snap.DisplayOffset() != 1 {
		t.Fatalf("offset = %d", snap.DisplayOffset())
	}
	if got := RowText(snap.Row(-1), 0, 3); got != "ab" {
		t.Fatalf("snapshot top row = %q", got)
	}
	if got := RowText(snap.Row(1), 0, 3); got != "ef" {
		t.Fatalf("snapshot look-ahead row = %q", got)
	}
	if snap.Row(-2) != nil {
		t.Fatalf("expected nil outside the copy")
	}

	g.SetCell(Point{Line: -1, Col: 0}, Cell{Char: 'z'})
	if snap.Cell(Point{Line: -1, Col: 0}).Char != 'a' {
		t.Fatalf("snapshot aliases grid storage")
	}
}

func TestClearAndEditOps(t *testing.T) {
	g := New(6, 2)
	writeString(g, "abcdef")
	g.SetCursor(Point{Line: 0, Col: 2})

	g.DeleteChars(2)
	if got := g.LineText(0); got != "abef" {
		t.Fatalf("after delete = %q", got)
	}
	g.InsertChars(1)
	if got := g.LineText(0); got != "ab ef" {
		t.Fatalf("after insert = %q", got)
	}
	g.ClearLine(ClearBelow)
	if got := g.LineText(0); got != "ab" {
		t.Fatalf("after clear = %q", got)
	}
}

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'漢', 2},
		{0, 0},
		{'́', 0},
		{'Ａ', 2},
	}
	for _, tt := range tests {
		if got := RuneWidth(tt.r); got != tt.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}
