package panel

import (
	"github.com/javanhut/RavenPanel/commands"
	"github.com/javanhut/RavenPanel/focus"
	"github.com/javanhut/RavenPanel/grid"
	"github.com/javanhut/RavenPanel/keybindings"
	"github.com/javanhut/RavenPanel/picker"
	"github.com/javanhut/RavenPanel/render"
	"github.com/javanhut/RavenPanel/selection"
	"github.com/javanhut/RavenPanel/tab"
)

// wheelLines is how many lines one wheel notch scrolls.
const wheelLines = 3

// MouseKind is the type of pointer event.
type MouseKind uint8

const (
	MousePress MouseKind = iota
	MouseRelease
	MouseMove
	MouseWheel
)

// MouseButton identifies the button of a press or release.
type MouseButton uint8

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

// MouseEvent is a pointer event in window pixels. WheelY is in notches,
// positive away from the user.
type MouseEvent struct {
	Kind   MouseKind
	Button MouseButton
	X, Y   float32
	WheelY float32
}

type pointer struct {
	point grid.Point
	side  grid.Side
}

// appCursor is implemented by sessions that track DECCKM.
type appCursor interface {
	AppCursorKeys() bool
}

// HandleKey routes a key press to the picker, the search bar or the focused
// pane. It reports whether the key was used.
func (p *Panel) HandleKey(ev keybindings.Event) bool {
	if !p.visible {
		return false
	}
	if p.focus.Owner().Kind == focus.KindPicker {
		p.pickerKey(ev)
		return true
	}
	if p.search.HandleKey(ev) {
		if !p.search.Focused {
			p.focusActive()
		}
		return true
	}

	pane := p.focusedPane()
	if pane == nil {
		return false
	}
	var res keybindings.Result
	if pane.Mode() == render.ModeNavigation {
		res = keybindings.Navigation(ev)
	} else {
		app := false
		if s, ok := pane.Session().(appCursor); ok {
			app = s.AppCursorKeys()
		}
		res = keybindings.Translate(ev, app)
	}
	return p.perform(pane, res)
}

func (p *Panel) pickerKey(ev keybindings.Event) {
	out, prof := p.picker.HandleKey(ev)
	switch out {
	case picker.OutcomeChosen:
		p.focusActive()
		if _, err := p.OpenTab(prof); err != nil {
			p.log.Warn("open tab failed", "profile", prof.Name, "err", err)
		}
	case picker.OutcomeDismissed:
		p.focusActive()
	}
}

// focusedPane is the pane owning focus, if it still exists.
func (p *Panel) focusedPane() *tab.Pane {
	owner := p.focus.Owner()
	if owner.Kind != focus.KindPane {
		return nil
	}
	pane, _, ok := p.tabs.FindPane(owner.Pane)
	if !ok {
		return nil
	}
	return pane
}

func (p *Panel) perform(pane *tab.Pane, res keybindings.Result) bool {
	s := pane.Session()
	switch res.Action {
	case keybindings.ActionNone:
		return false
	case keybindings.ActionInput:
		pane.ClearSelection()
		s.ScrollTo(grid.Scroll{Kind: grid.ScrollBottom})
		if err := s.Write(res.Data); err != nil {
			p.log.Debug("input dropped", "pane", pane.ID(), "err", err)
		}
	case keybindings.ActionExit:
		p.quit = true
	case keybindings.ActionNewTab:
		p.bus.Dispatch(commands.IntentOpenTab{})
	case keybindings.ActionCloseTab:
		p.bus.Dispatch(commands.IntentCloseTab{Tab: pane.Split()})
	case keybindings.ActionClosePane:
		p.bus.Dispatch(commands.IntentClosePane{Pane: pane.ID()})
	case keybindings.ActionSplitVertical:
		p.bus.Dispatch(commands.IntentSplit{Pane: pane.ID()})
	case keybindings.ActionSplitHorizontal:
		p.bus.Dispatch(commands.IntentSplit{Pane: pane.ID(), Horizontal: true})
	case keybindings.ActionNextTab:
		p.tabs.NextTab()
		p.layout()
		p.focusActive()
	case keybindings.ActionPrevTab:
		p.tabs.PrevTab()
		p.layout()
		p.focusActive()
	case keybindings.ActionNextPane, keybindings.ActionPrevPane:
		if g := p.tabs.ActiveSplit(); g != nil {
			if res.Action == keybindings.ActionNextPane {
				g.NextPane()
			} else {
				g.PrevPane()
			}
			p.focusActive()
		}
	case keybindings.ActionCopy:
		if text, ok := pane.SelectedText(); ok {
			p.opts.Clipboard.PutText(text)
			if pane.Mode() == render.ModeNavigation {
				pane.ClearSelection()
			}
		}
	case keybindings.ActionPaste:
		p.paste(pane)
	case keybindings.ActionShowSearch:
		p.bus.Dispatch(commands.IntentShowSearch{})
	case keybindings.ActionShowProfiles:
		p.bus.Dispatch(commands.IntentShowProfiles{})
	case keybindings.ActionToggleMode:
		pane.ToggleMode()
		pane.ClearSelection()
	case keybindings.ActionBeginSelection:
		var cursor grid.Point
		s.WithGrid(func(g *grid.Grid) { cursor = g.Cursor() })
		pane.SetSelection(selection.Range{Kind: selection.KindLine, Anchor: cursor, Head: cursor})
	case keybindings.ActionClearSelection:
		pane.ClearSelection()
	case keybindings.ActionScrollLineUp:
		p.scrollLines(pane, 1)
	case keybindings.ActionScrollLineDown:
		p.scrollLines(pane, -1)
	case keybindings.ActionScrollPageUp:
		s.ScrollTo(grid.Scroll{Kind: grid.ScrollPageUp})
	case keybindings.ActionScrollPageDown:
		s.ScrollTo(grid.Scroll{Kind: grid.ScrollPageDown})
	case keybindings.ActionScrollTop:
		s.ScrollTo(grid.Scroll{Kind: grid.ScrollTop})
	case keybindings.ActionScrollBottom:
		s.ScrollTo(grid.Scroll{Kind: grid.ScrollBottom})
	default:
		// fullscreen and other window actions belong to the front-end
		return false
	}
	return true
}

// scrollLines scrolls the display; in navigation mode a line selection
// follows with its head.
func (p *Panel) scrollLines(pane *tab.Pane, n int) {
	pane.Session().ScrollTo(grid.ScrollLines(n))
	if pane.Mode() != render.ModeNavigation {
		return
	}
	if sel := pane.Selection(); sel != nil && sel.Kind == selection.KindLine {
		head := sel.Head
		head.Line -= n
		pane.SetSelection(selection.BeginOrExtend(sel, head, sel.Side, sel.Kind))
	}
}

func (p *Panel) paste(pane *tab.Pane) {
	text, ok := p.opts.Clipboard.GetText()
	if !ok {
		return
	}
	if err := pane.Session().Write([]byte(text)); err != nil {
		p.log.Debug("paste dropped", "pane", pane.ID(), "err", err)
		return
	}
	pane.Session().ScrollTo(grid.Scroll{Kind: grid.ScrollBottom})
}

// HandleMouse routes a pointer event to the header or the pane under it.
// It reports whether the event landed on the panel.
func (p *Panel) HandleMouse(ev MouseEvent) bool {
	if !p.visible {
		return false
	}
	if ev.Kind == MouseRelease {
		p.drag = nil
		return p.bounds.ContainsPoint(ev.X, ev.Y)
	}
	if ev.Kind == MouseMove {
		return p.dragTo(ev.X, ev.Y)
	}
	if !p.bounds.ContainsPoint(ev.X, ev.Y) {
		return false
	}
	if ev.Kind == MousePress && p.picker.IsOpen() {
		o := p.picker.Overlay(p.paneArea(), p.opts.Metrics)
		if !o.Bounds.ContainsPoint(ev.X, ev.Y) {
			p.focusActive()
		}
		return true
	}
	if p.headerRect().ContainsPoint(ev.X, ev.Y) {
		if ev.Kind == MousePress && ev.Button == ButtonLeft {
			p.headerClick(ev.X, ev.Y)
		}
		return true
	}

	pane, rect, ok := p.paneAt(ev.X, ev.Y)
	if !ok {
		return true
	}
	switch ev.Kind {
	case MouseWheel:
		if n := int(ev.WheelY * wheelLines); n != 0 {
			pane.Session().ScrollTo(grid.ScrollLines(n))
		}
	case MousePress:
		p.focusPane(pane.ID())
		switch ev.Button {
		case ButtonLeft:
			p.leftPress(pane, rect, ev.X, ev.Y)
		case ButtonRight:
			if text, ok := pane.SelectedText(); ok {
				p.opts.Clipboard.PutText(text)
				pane.ClearSelection()
			} else {
				p.paste(pane)
			}
		}
	}
	return true
}

func (p *Panel) leftPress(pane *tab.Pane, rect render.Rect, x, y float32) {
	at := p.pointAt(pane, rect, x, y)
	switch p.clicks.press(p.opts.Now(), x, y) {
	case 2:
		p.selectAt(pane, at, selection.KindWord)
	case 3:
		pane.ClearSelection()
		p.selectAt(pane, at, selection.KindLine)
	default:
		pane.ClearSelection()
	}
	// dragging after a multi-click extends by word or line
	p.drag = &dragState{pane: pane.ID(), start: at}
}

func (p *Panel) selectAt(pane *tab.Pane, at pointer, kind selection.Kind) {
	r := selection.BeginOrExtend(nil, at.point, at.side, kind)
	r.Separators = p.opts.WordSeparators
	pane.SetSelection(r)
}

func (p *Panel) dragTo(x, y float32) bool {
	if p.drag == nil {
		return false
	}
	pane, g, ok := p.tabs.FindPane(p.drag.pane)
	if !ok {
		p.drag = nil
		return false
	}
	for _, l := range g.Layouts(p.paneArea()) {
		if l.Pane != pane {
			continue
		}
		at := p.pointAt(pane, l.Rect, x, y)
		cur := pane.Selection()
		if cur == nil {
			start := selection.BeginOrExtend(nil, p.drag.start.point, p.drag.start.side, selection.KindCell)
			start.Separators = p.opts.WordSeparators
			cur = &start
		}
		pane.SetSelection(selection.BeginOrExtend(cur, at.point, at.side, selection.KindCell))
		return true
	}
	return false
}

func (p *Panel) pointAt(pane *tab.Pane, rect render.Rect, x, y float32) pointer {
	var offset, lines int
	pane.Session().WithGrid(func(g *grid.Grid) {
		offset, lines = g.DisplayOffset(), g.ScreenLines()
	})
	m := pane.Metrics()
	pt, side := selection.PointFromPixel(x-rect.X, y-rect.Y, m.CellWidth, m.CellHeight, offset, lines)
	return pointer{point: pt, side: side}
}

func (p *Panel) paneAt(x, y float32) (*tab.Pane, render.Rect, bool) {
	g := p.tabs.ActiveSplit()
	if g == nil {
		return nil, render.Rect{}, false
	}
	for _, l := range g.Layouts(p.paneArea()) {
		if l.Rect.ContainsPoint(x, y) {
			return l.Pane, l.Rect, true
		}
	}
	return nil, render.Rect{}, false
}

// headerClick maps a click in the tab strip to an intent.
func (p *Panel) headerClick(x, y float32) {
	hits := render.LayoutHeader(render.Header{
		Bounds: p.headerRect(),
		Titles: p.tabs.Titles(),
		Active: p.tabs.ActiveIndex(),
	}, p.opts.Metrics)
	order := p.tabs.Order()
	active := p.tabs.ActivePane()

	for i, slot := range hits.Tabs {
		if i >= len(order) {
			break
		}
		if slot.Close.ContainsPoint(x, y) {
			p.bus.Dispatch(commands.IntentCloseTab{Tab: order[i]})
			return
		}
		if slot.Rect.ContainsPoint(x, y) {
			if g, ok := p.tabs.Split(order[i]); ok {
				if pane := g.ActivePane(); pane != nil {
					p.bus.Dispatch(commands.IntentFocus{Target: focus.PaneTarget(pane.ID())})
				}
			}
			return
		}
	}
	switch {
	case hits.Add.ContainsPoint(x, y):
		p.bus.Dispatch(commands.IntentOpenTab{})
	case hits.Profiles.ContainsPoint(x, y):
		p.bus.Dispatch(commands.IntentShowProfiles{})
	case active == nil:
	case hits.Split.ContainsPoint(x, y):
		p.bus.Dispatch(commands.IntentSplit{Pane: active.ID(), Horizontal: true})
	case hits.ClosePane.ContainsPoint(x, y):
		p.bus.Dispatch(commands.IntentClosePane{Pane: active.ID()})
	}
}
