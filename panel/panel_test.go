package panel

import (
	"testing"
	"time"

	"github.com/javanhut/RavenPanel/clipboard"
	"github.com/javanhut/RavenPanel/commands"
	"github.com/javanhut/RavenPanel/config"
	"github.com/javanhut/RavenPanel/focus"
	"github.com/javanhut/RavenPanel/grid"
	"github.com/javanhut/RavenPanel/keybindings"
	"github.com/javanhut/RavenPanel/render"
	"github.com/javanhut/RavenPanel/selection"
	"github.com/javanhut/RavenPanel/tab"
)

type fakeSession struct {
	profile config.Profile
	g       *grid.Grid
	closed  int
	exited  bool
	written []byte
}

func (s *fakeSession) WithGrid(fn func(*grid.Grid)) { fn(s.g) }
func (s *fakeSession) Resize(cols, lines int) error {
	s.g.Resize(cols, lines)
	return nil
}
func (s *fakeSession) Write(data []byte) error   { s.written = append(s.written, data...); return nil }
func (s *fakeSession) ScrollTo(sc grid.Scroll)   { s.g.ScrollDisplay(sc) }
func (s *fakeSession) Close() error              { s.closed++; return nil }
func (s *fakeSession) Renderable() grid.Snapshot { return s.g.Snapshot() }
func (s *fakeSession) Exited() bool              { return s.exited }
func (s *fakeSession) ID() string                { return s.profile.Name }

var cellMetrics = render.Metrics{CellWidth: 10, CellHeight: 20}

type harness struct {
	p        *Panel
	sessions []*fakeSession
	clip     *clipboard.Memory
	now      time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{clip: &clipboard.Memory{}, now: time.Unix(1000, 0)}
	h.p = New(Options{
		Metrics:        cellMetrics,
		Clipboard:      h.clip,
		DefaultProfile: config.Profile{Name: "sh", Command: "/bin/sh"},
		Profiles: []config.Profile{
			{Name: "bash", Command: "/bin/bash"},
			{Name: "zsh", Command: "/bin/zsh"},
		},
		NewSession: func(profile config.Profile, cols, lines int) (tab.Session, error) {
			s := &fakeSession{profile: profile, g: grid.New(cols, lines)}
			h.sessions = append(h.sessions, s)
			return s, nil
		},
		Now: func() time.Time { return h.now },
	})
	// 80x24 cells below a one-line header
	h.p.Resize(render.Rect{W: 800, H: 500})
	h.p.FocusMain("editor")
	if err := h.p.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}
	return h
}

func (h *harness) last() *fakeSession { return h.sessions[len(h.sessions)-1] }

func (h *harness) click(x, y float32, button MouseButton) {
	h.p.HandleMouse(MouseEvent{Kind: MousePress, Button: button, X: x, Y: y})
	h.p.HandleMouse(MouseEvent{Kind: MouseRelease, Button: button, X: x, Y: y})
}

func TestShowOpensTabAndFocusesPane(t *testing.T) {
	h := newHarness(t)
	if h.p.IsEmpty() || !h.p.Visible() {
		t.Fatalf("panel empty=%v visible=%v", h.p.IsEmpty(), h.p.Visible())
	}
	pane := h.p.Tabs().ActivePane()
	if !h.p.Focus().HasPane(pane.ID()) {
		t.Fatalf("owner = %+v", h.p.Focus().Owner())
	}
	if cols, lines := pane.GridSize(); cols != 80 || lines != 24 {
		t.Fatalf("grid = %dx%d", cols, lines)
	}
}

func TestClosingLastPaneRestoresMainFocus(t *testing.T) {
	h := newHarness(t)
	pane := h.p.Tabs().ActivePane()
	h.p.Bus().Dispatch(commands.IntentClosePane{Pane: pane.ID()})
	h.p.Update()

	if !h.p.IsEmpty() {
		t.Fatalf("panel not empty")
	}
	if h.p.Visible() {
		t.Fatalf("empty panel still visible")
	}
	if got := h.p.Focus().Owner(); got != focus.WidgetTarget("editor") {
		t.Fatalf("owner = %+v", got)
	}
	if h.last().closed != 1 {
		t.Fatalf("session closed %d times", h.last().closed)
	}
}

func TestExitedSessionMovesFocusToSurvivor(t *testing.T) {
	h := newHarness(t)
	first := h.p.Tabs().ActivePane()
	if _, err := h.p.OpenTab(config.Profile{Name: "second"}); err != nil {
		t.Fatal(err)
	}
	h.last().exited = true
	h.p.Update()

	if h.p.Tabs().Len() != 1 {
		t.Fatalf("tabs = %d", h.p.Tabs().Len())
	}
	if !h.p.Focus().HasPane(first.ID()) {
		t.Fatalf("owner = %+v", h.p.Focus().Owner())
	}
}

func TestResizeKeepsPaintInBounds(t *testing.T) {
	h := newHarness(t)
	s := h.last()
	for i := 0; i < 30; i++ {
		s.g.Input('x', grid.DefaultFg(), grid.IndexedColor(1), 0)
	}

	bounds := render.Rect{W: 400, H: 260}
	h.p.Resize(bounds)
	if s.g.Columns() != 40 || s.g.ScreenLines() != 12 {
		t.Fatalf("grid = %dx%d", s.g.Columns(), s.g.ScreenLines())
	}
	ops := h.p.Paint()
	if len(ops) == 0 {
		t.Fatalf("no ops")
	}
	for _, op := range ops {
		if !bounds.Contains(op.Rect) {
			t.Fatalf("%v op %+v outside %+v", op.Kind, op.Rect, bounds)
		}
	}
}

func TestDoubleClickSelectsWordAndRightClickCopies(t *testing.T) {
	h := newHarness(t)
	s := h.last()
	s.g.PutString(grid.Point{}, "hello world")
	pane := h.p.Tabs().ActivePane()

	h.click(15, 25, ButtonLeft)
	h.now = h.now.Add(100 * time.Millisecond)
	h.click(16, 25, ButtonLeft)
	if sel := pane.Selection(); sel == nil || sel.Kind != selection.KindWord {
		t.Fatalf("selection = %+v", sel)
	}

	h.click(15, 25, ButtonRight)
	if got, _ := h.clip.GetText(); got != "hello" {
		t.Fatalf("clipboard = %q", got)
	}
	if pane.Selection() != nil {
		t.Fatalf("selection kept after copy")
	}

	h.click(15, 25, ButtonRight)
	if string(s.written) != "hello" {
		t.Fatalf("paste wrote %q", s.written)
	}
}

func TestSlowClicksDoNotSelectWord(t *testing.T) {
	h := newHarness(t)
	h.last().g.PutString(grid.Point{}, "hello world")
	pane := h.p.Tabs().ActivePane()

	h.click(15, 25, ButtonLeft)
	h.now = h.now.Add(time.Second)
	h.click(15, 25, ButtonLeft)
	if pane.Selection() != nil {
		t.Fatalf("selection = %+v", pane.Selection())
	}
}

func TestDragSelectsCells(t *testing.T) {
	h := newHarness(t)
	h.last().g.PutString(grid.Point{}, "hello")
	pane := h.p.Tabs().ActivePane()

	h.p.HandleMouse(MouseEvent{Kind: MousePress, Button: ButtonLeft, X: 2, Y: 25})
	h.p.HandleMouse(MouseEvent{Kind: MouseMove, X: 34, Y: 25})
	h.p.HandleMouse(MouseEvent{Kind: MouseRelease, Button: ButtonLeft, X: 34, Y: 25})

	if got, ok := pane.SelectedText(); !ok || got != "hell" {
		t.Fatalf("selected %q %v", got, ok)
	}
	h.p.HandleMouse(MouseEvent{Kind: MouseMove, X: 60, Y: 25})
	if got, _ := pane.SelectedText(); got != "hell" {
		t.Fatalf("move after release extended selection to %q", got)
	}
}

func TestDragWithinOneCellSelectsIt(t *testing.T) {
	h := newHarness(t)
	h.last().g.PutString(grid.Point{}, "hello")
	pane := h.p.Tabs().ActivePane()

	h.p.HandleMouse(MouseEvent{Kind: MousePress, Button: ButtonLeft, X: 1, Y: 25})
	h.p.HandleMouse(MouseEvent{Kind: MouseMove, X: 9, Y: 25})
	if got, ok := pane.SelectedText(); !ok || got != "h" {
		t.Fatalf("selected %q %v; want %q", got, ok, "h")
	}
}

func TestDragAfterMultiClickExtendsBySnap(t *testing.T) {
	tests := []struct {
		name   string
		clicks int
		moveY  float32
		want   string
	}{
		{"double-click drag extends by word", 2, 25, "hello world"},
		{"triple-click drag extends by line", 3, 45, "hello world again\nsecond line"},
	}
	for _, tt := range tests {
		h := newHarness(t)
		s := h.last()
		s.g.PutString(grid.Point{}, "hello world again")
		s.g.PutString(grid.Point{Line: 1}, "second line")
		pane := h.p.Tabs().ActivePane()

		for i := 1; i < tt.clicks; i++ {
			h.click(15, 25, ButtonLeft)
			h.now = h.now.Add(100 * time.Millisecond)
		}
		h.p.HandleMouse(MouseEvent{Kind: MousePress, Button: ButtonLeft, X: 15, Y: 25})
		h.p.HandleMouse(MouseEvent{Kind: MouseMove, X: 75, Y: tt.moveY})
		h.p.HandleMouse(MouseEvent{Kind: MouseRelease, Button: ButtonLeft, X: 75, Y: tt.moveY})

		if got, ok := pane.SelectedText(); !ok || got != tt.want {
			t.Fatalf("%s: selected %q %v; want %q", tt.name, got, ok, tt.want)
		}
	}
}

func TestKeysFollowPaneMode(t *testing.T) {
	h := newHarness(t)
	s := h.last()
	pane := h.p.Tabs().ActivePane()

	h.p.HandleKey(keybindings.Event{Key: keybindings.KeyRune, Rune: 'a'})
	if string(s.written) != "a" {
		t.Fatalf("written = %q", s.written)
	}

	h.p.HandleKey(keybindings.Event{Key: keybindings.KeyRune, Rune: 'n', Mods: keybindings.ModCtrl | keybindings.ModShift})
	if pane.Mode() != render.ModeNavigation {
		t.Fatalf("mode = %v", pane.Mode())
	}
	h.p.HandleKey(keybindings.Event{Key: keybindings.KeyRune, Rune: 'j'})
	if string(s.written) != "a" {
		t.Fatalf("navigation key reached the shell: %q", s.written)
	}
	h.p.HandleKey(keybindings.Event{Key: keybindings.KeyRune, Rune: 'i'})
	if pane.Mode() != render.ModeInteractive {
		t.Fatalf("mode = %v", pane.Mode())
	}
}

func TestShortcutsGoThroughBus(t *testing.T) {
	h := newHarness(t)
	first := h.p.Tabs().ActivePane()
	h.p.HandleKey(keybindings.Event{Key: keybindings.KeyRune, Rune: 'T', Mods: keybindings.ModCtrl | keybindings.ModShift})
	if h.p.Tabs().Len() != 1 {
		t.Fatalf("tab opened before Update")
	}
	h.p.Update()
	if h.p.Tabs().Len() != 2 || h.p.Tabs().ActiveIndex() != 1 {
		t.Fatalf("tabs = %d active = %d", h.p.Tabs().Len(), h.p.Tabs().ActiveIndex())
	}

	h.p.HandleKey(keybindings.Event{Key: keybindings.KeyRune, Rune: 'e', Mods: keybindings.ModCtrl | keybindings.ModShift})
	h.p.Update()
	if g := h.p.Tabs().ActiveSplit(); g.Len() != 2 {
		t.Fatalf("split panes = %d", g.Len())
	}

	h.p.HandleKey(keybindings.Event{Key: keybindings.KeyTab, Mods: keybindings.ModCtrl})
	if !h.p.Focus().HasPane(first.ID()) {
		t.Fatalf("next tab did not focus first pane")
	}
}

func TestHeaderButtons(t *testing.T) {
	h := newHarness(t)
	// add icon sits third from the right edge
	h.click(745, 5, ButtonLeft)
	h.p.Update()
	if h.p.Tabs().Len() != 2 {
		t.Fatalf("tabs = %d", h.p.Tabs().Len())
	}

	// close icon of the first tab: title "sh" gives a 60px tab
	h.click(50, 5, ButtonLeft)
	h.p.Update()
	if h.p.Tabs().Len() != 1 || h.sessions[0].closed != 1 {
		t.Fatalf("tabs = %d first closed = %d", h.p.Tabs().Len(), h.sessions[0].closed)
	}
	if !h.p.Focus().HasPane(h.p.Tabs().ActivePane().ID()) {
		t.Fatalf("focus not on surviving pane")
	}
}

func TestProfilePicker(t *testing.T) {
	h := newHarness(t)
	h.click(725, 5, ButtonLeft)
	h.p.Update()
	if !h.p.Picker().IsOpen() || h.p.Focus().Owner().Kind != focus.KindPicker {
		t.Fatalf("picker not focused")
	}

	h.p.HandleKey(keybindings.Event{Key: keybindings.KeyDown})
	h.p.HandleKey(keybindings.Event{Key: keybindings.KeyEnter})
	if h.p.Picker().IsOpen() {
		t.Fatalf("picker still open")
	}
	if h.last().profile.Name != "zsh" || h.p.Tabs().Len() != 2 {
		t.Fatalf("opened %q, tabs = %d", h.last().profile.Name, h.p.Tabs().Len())
	}
	if !h.p.Focus().HasPane(h.p.Tabs().ActivePane().ID()) {
		t.Fatalf("owner = %+v", h.p.Focus().Owner())
	}
}

func TestPickerDismissedWhenFocusMoves(t *testing.T) {
	h := newHarness(t)
	h.p.Bus().Dispatch(commands.IntentShowProfiles{})
	h.p.Update()
	if !h.p.Picker().IsOpen() {
		t.Fatalf("picker closed")
	}
	h.p.FocusMain("editor")
	if h.p.Picker().IsOpen() {
		t.Fatalf("picker survived focus loss")
	}
}

func TestSearchHighlightsMatches(t *testing.T) {
	h := newHarness(t)
	h.last().g.PutString(grid.Point{}, "hello world")
	h.p.Bus().Dispatch(commands.IntentShowSearch{})
	h.p.Update()
	for _, r := range "wor" {
		h.p.HandleKey(keybindings.Event{Key: keybindings.KeyRune, Rune: r})
	}
	if len(h.last().written) != 0 {
		t.Fatalf("search typing reached the shell")
	}

	ops := h.p.Paint()
	if h.p.Search().Status != "1 match" {
		t.Fatalf("status = %q", h.p.Search().Status)
	}
	theme := h.p.Engine().Theme()
	found := false
	for _, op := range ops {
		if op.Kind == render.OpStrokeRect && op.Color == theme.SearchMatch {
			found = true
			if op.Rect.X != 60 || op.Rect.W != 30 || op.Rect.Y != 20 {
				t.Fatalf("match rect = %+v", op.Rect)
			}
		}
	}
	if !found {
		t.Fatalf("no match stroke painted")
	}
}

func TestWheelScrollsHistory(t *testing.T) {
	h := newHarness(t)
	s := h.last()
	for i := 0; i < 40; i++ {
		s.g.Linefeed()
	}
	h.p.HandleMouse(MouseEvent{Kind: MouseWheel, X: 100, Y: 100, WheelY: 1})
	if s.g.DisplayOffset() != wheelLines {
		t.Fatalf("offset = %d", s.g.DisplayOffset())
	}
}

func TestClickDetectorCycles(t *testing.T) {
	d := clickDetector{timeout: DefaultMultiClickTimeout}
	now := time.Unix(0, 0)
	want := []int{1, 2, 3, 1}
	for i, w := range want {
		if got := d.press(now.Add(time.Duration(i)*10*time.Millisecond), 5, 5); got != w {
			t.Fatalf("press %d = %d, want %d", i, got, w)
		}
	}
	if got := d.press(now.Add(time.Second), 50, 5); got != 1 {
		t.Fatalf("far press = %d", got)
	}
}
