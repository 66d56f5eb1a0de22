// Package panel wires tabs, focus, selection, search and the profile picker
// into one terminal panel driven by backend-neutral input events.
package panel

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pkt.systems/pslog"

	"github.com/javanhut/RavenPanel/clipboard"
	"github.com/javanhut/RavenPanel/commands"
	"github.com/javanhut/RavenPanel/config"
	"github.com/javanhut/RavenPanel/focus"
	"github.com/javanhut/RavenPanel/picker"
	"github.com/javanhut/RavenPanel/render"
	"github.com/javanhut/RavenPanel/searchpanel"
	"github.com/javanhut/RavenPanel/tab"
)

// MainWidget is the focus target restored when the panel gives focus up
// and no other main widget was focused before.
const MainWidget = "main"

// SessionFactory starts a session running profile at the given grid size.
type SessionFactory func(profile config.Profile, cols, lines int) (tab.Session, error)

// Options configures a Panel.
type Options struct {
	Theme             render.Theme
	Resolver          render.ColorResolver
	Metrics           render.Metrics
	Clipboard         clipboard.Clipboard
	NewSession        SessionFactory
	Profiles          []config.Profile
	DefaultProfile    config.Profile
	WordSeparators    string
	MultiClickTimeout time.Duration
	Bus               *commands.Bus
	Logger            pslog.Logger
	// Now is the clock used for multi-click detection.
	Now func() time.Time
}

// Panel is the terminal panel: a header with the tab strip above the
// panes of the active tab.
type Panel struct {
	opts   Options
	log    pslog.Logger
	engine *render.Engine
	tabs   *tab.Collection
	focus  *focus.Router
	bus    *commands.Bus
	search *searchpanel.Panel
	picker *picker.Picker

	bounds  render.Rect
	visible bool
	quit    bool

	clicks clickDetector
	drag   *dragState
}

type dragState struct {
	pane  tab.PaneID
	start pointer
}

// New creates a hidden, empty panel.
func New(opts Options) *Panel {
	if opts.Logger == nil {
		opts.Logger = pslog.Ctx(context.Background())
	}
	if opts.Clipboard == nil {
		opts.Clipboard = &clipboard.Memory{}
	}
	if opts.MultiClickTimeout <= 0 {
		opts.MultiClickTimeout = DefaultMultiClickTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if !opts.Metrics.Valid() {
		opts.Metrics = render.TextMetrics
	}
	if opts.Theme.Name == "" {
		opts.Theme = render.DefaultTheme()
	}
	bus := opts.Bus
	if bus == nil {
		bus = commands.NewBus(opts.Logger, commands.DefaultDepth)
	}
	return &Panel{
		opts:   opts,
		log:    opts.Logger,
		engine: render.NewEngine(opts.Theme, opts.Resolver),
		tabs:   tab.NewCollection(opts.Logger),
		focus:  focus.NewRouter(focus.WidgetTarget(MainWidget)),
		bus:    bus,
		search: searchpanel.New(),
		picker: picker.New(opts.Profiles, opts.Logger),
		clicks: clickDetector{timeout: opts.MultiClickTimeout},
	}
}

func (p *Panel) Tabs() *tab.Collection      { return p.tabs }
func (p *Panel) Focus() *focus.Router       { return p.focus }
func (p *Panel) Bus() *commands.Bus         { return p.bus }
func (p *Panel) Search() *searchpanel.Panel { return p.search }
func (p *Panel) Picker() *picker.Picker     { return p.picker }
func (p *Panel) Engine() *render.Engine     { return p.engine }
func (p *Panel) Visible() bool              { return p.visible }
func (p *Panel) Bounds() render.Rect        { return p.bounds }
func (p *Panel) Metrics() render.Metrics    { return p.opts.Metrics }

// IsEmpty reports whether the panel has no tabs.
func (p *Panel) IsEmpty() bool { return p.tabs.Len() == 0 }

// QuitRequested reports whether the user asked to exit.
func (p *Panel) QuitRequested() bool { return p.quit }

// SetTheme swaps the theme used for painting.
func (p *Panel) SetTheme(t render.Theme) { p.engine.SetTheme(t) }

// SetMetrics changes the cell size of every pane.
func (p *Panel) SetMetrics(m render.Metrics) {
	if !m.Valid() {
		return
	}
	p.opts.Metrics = m
	for _, id := range p.tabs.Order() {
		g, _ := p.tabs.Split(id)
		for _, pane := range g.Panes() {
			if err := pane.SetMetrics(m); err != nil {
				p.log.Warn("pane resize failed", "pane", pane.ID(), "err", err)
			}
		}
	}
	p.layout()
}

// Resize sets the panel's pixel bounds and lays out the active tab.
func (p *Panel) Resize(bounds render.Rect) {
	p.bounds = bounds
	p.layout()
}

func (p *Panel) headerRect() render.Rect {
	return render.Rect{X: p.bounds.X, Y: p.bounds.Y, W: p.bounds.W, H: min(p.opts.Metrics.CellHeight, p.bounds.H)}
}

func (p *Panel) paneArea() render.Rect {
	h := p.headerRect().H
	return render.Rect{X: p.bounds.X, Y: p.bounds.Y + h, W: p.bounds.W, H: max(p.bounds.H-h, 0)}
}

func (p *Panel) layout() {
	g := p.tabs.ActiveSplit()
	if g == nil {
		return
	}
	if err := g.Resize(p.paneArea()); err != nil {
		p.log.Warn("layout resize failed", "tab", g.ID(), "err", err)
	}
}

// Show makes the panel visible and focuses the active pane, opening a tab
// first when there is none.
func (p *Panel) Show() error {
	if p.IsEmpty() {
		if _, err := p.OpenTab(p.opts.DefaultProfile); err != nil {
			return err
		}
	}
	p.visible = true
	if pane := p.tabs.ActivePane(); pane != nil {
		p.focusPane(pane.ID())
	}
	return nil
}

// Hide hides the panel and hands focus back to the main area.
func (p *Panel) Hide() {
	p.visible = false
	p.restoreMain()
}

// FocusMain records that a main-area widget took focus.
func (p *Panel) FocusMain(widget string) {
	prev := p.focus.FocusMain(widget)
	p.afterFocus(prev)
}

func (p *Panel) newPane(profile config.Profile) (*tab.Pane, error) {
	if p.opts.NewSession == nil {
		return nil, fmt.Errorf("panel: no session factory")
	}
	cols, lines := p.opts.Metrics.GridSize(p.paneArea().W, p.paneArea().H)
	s, err := p.opts.NewSession(profile, cols, lines)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", profileTitle(profile), err)
	}
	return tab.NewPane(s, profileTitle(profile), p.opts.Metrics), nil
}

func profileTitle(profile config.Profile) string {
	switch {
	case profile.Name != "":
		return profile.Name
	case profile.Command != "":
		return filepath.Base(profile.Command)
	}
	return "shell"
}

// OpenTab starts profile in a new tab, selects it and focuses its pane.
func (p *Panel) OpenTab(profile config.Profile) (tab.TabID, error) {
	pane, err := p.newPane(profile)
	if err != nil {
		return 0, err
	}
	id := p.tabs.OpenTab()
	g, _ := p.tabs.Split(id)
	g.AddPane(pane)
	p.tabs.SelectID(id)
	p.layout()
	p.focusPane(pane.ID())
	p.log.Info("tab opened", "tab", id, "profile", profileTitle(profile))
	return id, nil
}

// SplitPane starts the default profile next to target.
func (p *Panel) SplitPane(target tab.PaneID, horizontal bool) error {
	_, g, ok := p.tabs.FindPane(target)
	if !ok {
		return nil
	}
	pane, err := p.newPane(p.opts.DefaultProfile)
	if err != nil {
		return err
	}
	dir := tab.SplitVertical
	if horizontal {
		dir = tab.SplitHorizontal
	}
	if !g.SplitPane(target, pane, dir) {
		_ = pane.Session().Close()
		p.log.Warn("split refused", "pane", target, "panes", g.Len())
		return nil
	}
	p.tabs.SelectID(g.ID())
	p.layout()
	p.focusPane(pane.ID())
	return nil
}

func (p *Panel) focusPane(id tab.PaneID) {
	if pane, g, ok := p.tabs.FindPane(id); ok {
		g.SetActive(pane.ID())
		p.tabs.SelectID(g.ID())
	}
	prev := p.focus.FocusPane(id)
	p.afterFocus(prev)
}

func (p *Panel) focusPicker() {
	p.picker.SetProfiles(p.opts.Profiles)
	p.picker.Open()
	prev := p.focus.FocusPicker()
	p.afterFocus(prev)
}

func (p *Panel) restoreMain() {
	prev := p.focus.RestorePrevious()
	p.afterFocus(prev)
}

// afterFocus dismisses the picker when focus moved off it.
func (p *Panel) afterFocus(prev focus.Target) {
	if prev.Kind == focus.KindPicker && p.focus.Owner().Kind != focus.KindPicker {
		p.picker.Close()
	}
}

// focusActive focuses the active pane, or gives focus back to the main area
// when there is none.
func (p *Panel) focusActive() {
	if pane := p.tabs.ActivePane(); pane != nil {
		p.focusPane(pane.ID())
		return
	}
	p.restoreMain()
}

// Update applies queued intents, drops exited sessions and prunes empty
// tabs. Call once per frame before Paint.
func (p *Panel) Update() {
	for _, in := range p.bus.Drain() {
		p.apply(in)
	}
	if gone := p.tabs.RemoveExited(); len(gone) > 0 {
		p.log.Debug("exited panes removed", "panes", len(gone))
	}
	p.prune()
	p.layout()
}

func (p *Panel) prune() {
	res := p.tabs.PruneEmpty()
	switch {
	case res.Empty:
		if len(res.Removed) > 0 || p.focus.Area() == focus.AreaTerminal {
			p.visible = false
			p.search.Hide()
			p.restoreMain()
		}
	case res.ActiveRemoved:
		p.focusActive()
	default:
		// a pane closed inside a surviving tab
		if owner := p.focus.Owner(); owner.Kind == focus.KindPane {
			if _, _, ok := p.tabs.FindPane(owner.Pane); !ok {
				p.focusActive()
			}
		}
	}
}

func (p *Panel) apply(in commands.Intent) {
	p.log.Trace("intent", "intent", in.String())
	switch in := in.(type) {
	case commands.IntentOpenTab:
		if _, err := p.OpenTab(p.opts.DefaultProfile); err != nil {
			p.log.Warn("open tab failed", "err", err)
		}
	case commands.IntentOpenProfile:
		prof, ok := p.profile(in.Profile)
		if !ok {
			p.log.Warn("unknown profile", "profile", in.Profile)
			return
		}
		if _, err := p.OpenTab(prof); err != nil {
			p.log.Warn("open tab failed", "profile", in.Profile, "err", err)
		}
	case commands.IntentCloseTab:
		if !p.tabs.CloseTab(in.Tab) {
			p.log.Debug("close of unknown tab ignored", "tab", in.Tab)
		}
	case commands.IntentClosePane:
		if _, g, ok := p.tabs.FindPane(in.Pane); ok {
			g.RemovePane(in.Pane)
		}
	case commands.IntentSplit:
		if err := p.SplitPane(in.Pane, in.Horizontal); err != nil {
			p.log.Warn("split failed", "pane", in.Pane, "err", err)
		}
	case commands.IntentFocus:
		switch in.Target.Kind {
		case focus.KindPane:
			if _, _, ok := p.tabs.FindPane(in.Target.Pane); ok {
				p.focusPane(in.Target.Pane)
			}
		case focus.KindWidget:
			p.FocusMain(in.Target.Widget)
		case focus.KindPicker:
			p.focusPicker()
		}
	case commands.IntentShowSearch:
		p.search.Show()
	case commands.IntentShowProfiles:
		p.focusPicker()
	}
}

func (p *Panel) profile(name string) (config.Profile, bool) {
	for _, prof := range p.opts.Profiles {
		if strings.EqualFold(prof.Name, name) {
			return prof, true
		}
	}
	return config.Profile{}, false
}

// Paint draws the header, the panes of the active tab and any open
// overlay. Ops are in paint order.
func (p *Panel) Paint() []render.Op {
	if !p.visible || p.bounds.Empty() {
		return nil
	}
	m := p.opts.Metrics
	header := render.Header{Bounds: p.headerRect(), Titles: p.tabs.Titles(), Active: p.tabs.ActiveIndex()}
	ops := p.engine.PaintHeader(header, m)

	hl := p.search.Highlighter()
	if g := p.tabs.ActiveSplit(); g != nil {
		for _, l := range g.Layouts(p.paneArea()) {
			focused := p.focus.HasPane(l.Pane.ID())
			frame := l.Pane.Frame(l.Rect, focused, hl)
			if hl != nil && focused {
				n := 0
				for range hl.Matches(frame.Grid) {
					n++
				}
				p.search.SetMatchCount(n)
			}
			ops = append(ops, p.engine.Paint(frame)...)
		}
	}

	if p.search.Open {
		ops = append(ops, p.engine.PaintOverlay(p.search.Overlay(p.paneArea(), m), m)...)
	}
	if p.picker.IsOpen() {
		ops = append(ops, p.engine.PaintOverlay(p.picker.Overlay(p.paneArea(), m), m)...)
	}
	return ops
}

// Close tears down every session.
func (p *Panel) Close() {
	p.tabs.CloseAll()
	p.bus.Close()
}
