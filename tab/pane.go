package tab

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/javanhut/RavenPanel/grid"
	"github.com/javanhut/RavenPanel/render"
	"github.com/javanhut/RavenPanel/search"
	"github.com/javanhut/RavenPanel/selection"
)

// Session is a running terminal the pane displays. Implementations own the
// grid and serialize access to it.
type Session interface {
	// WithGrid runs fn with the grid locked. fn must not retain the grid.
	WithGrid(fn func(*grid.Grid))
	Resize(cols, lines int) error
	Write(data []byte) error
	ScrollTo(s grid.Scroll)
	// Close is idempotent.
	Close() error
	// Renderable copies the visible window out of the grid.
	Renderable() grid.Snapshot
	Exited() bool
	ID() string
}

// PaneID identifies a pane for the lifetime of the process.
type PaneID uint64

var lastPaneID atomic.Uint64

// Pane is one terminal view inside a split group.
type Pane struct {
	id      PaneID
	split   SplitID
	session Session
	title   string

	pixelW, pixelH float32
	cols, lines    int
	metrics        render.Metrics

	mode      render.Mode
	selection *selection.Range

	closeOnce sync.Once
	closeErr  error
}

// NewPane wraps a session. The title is shown in the tab strip.
func NewPane(session Session, title string, metrics render.Metrics) *Pane {
	return &Pane{
		id:      PaneID(lastPaneID.Add(1)),
		session: session,
		title:   title,
		metrics: metrics,
	}
}

func (p *Pane) ID() PaneID                  { return p.id }
func (p *Pane) Split() SplitID              { return p.split }
func (p *Pane) Session() Session            { return p.session }
func (p *Pane) Title() string               { return p.title }
func (p *Pane) Metrics() render.Metrics     { return p.metrics }
func (p *Pane) Mode() render.Mode           { return p.mode }
func (p *Pane) Selection() *selection.Range { return p.selection }

// ToggleMode switches between interactive and navigation mode. Leaving
// navigation mode returns the display to the bottom.
func (p *Pane) ToggleMode() render.Mode {
	if p.mode == render.ModeNavigation {
		p.mode = render.ModeInteractive
		p.session.ScrollTo(grid.Scroll{Kind: grid.ScrollBottom})
	} else {
		p.mode = render.ModeNavigation
	}
	return p.mode
}

// SetSelection replaces the selection.
func (p *Pane) SetSelection(r selection.Range) {
	p.selection = &r
}

// ClearSelection drops the selection.
func (p *Pane) ClearSelection() {
	p.selection = nil
}

// Size returns the last layout size in pixels.
func (p *Pane) Size() (w, h float32) { return p.pixelW, p.pixelH }

// GridSize returns the grid dimensions derived from the last layout.
func (p *Pane) GridSize() (cols, lines int) { return p.cols, p.lines }

// SetMetrics changes the cell size and re-derives the grid size.
func (p *Pane) SetMetrics(m render.Metrics) error {
	p.metrics = m
	return p.Resize(p.pixelW, p.pixelH)
}

// Resize records the pane's pixel size and resizes the session when the
// number of whole cells changed.
func (p *Pane) Resize(w, h float32) error {
	p.pixelW, p.pixelH = w, h
	cols, lines := p.metrics.GridSize(w, h)
	if cols == p.cols && lines == p.lines {
		return nil
	}
	p.cols, p.lines = cols, lines
	if err := p.session.Resize(cols, lines); err != nil {
		return fmt.Errorf("resize pane %d to %dx%d: %w", p.id, cols, lines, err)
	}
	return nil
}

// Frame captures what the render engine needs to paint this pane.
func (p *Pane) Frame(bounds render.Rect, focused bool, hl *search.Highlighter) render.Frame {
	return render.Frame{
		Bounds:    bounds,
		Grid:      p.session.Renderable(),
		Focused:   focused,
		Mode:      p.mode,
		Selection: p.selection,
		Search:    hl,
		Metrics:   p.metrics,
	}
}

// SelectedText extracts the current selection from the session grid.
func (p *Pane) SelectedText() (string, bool) {
	if p.selection == nil {
		return "", false
	}
	var (
		text string
		ok   bool
	)
	p.session.WithGrid(func(g *grid.Grid) {
		text, ok = selection.Extract(g, p.selection)
	})
	return text, ok
}

// close tears down the session exactly once.
func (p *Pane) close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.session.Close()
	})
	return p.closeErr
}
