// Package searchpanel is the search bar state: the query being typed and
// the highlighter compiled from it.
package searchpanel

import (
	"fmt"

	"github.com/javanhut/RavenPanel/keybindings"
	"github.com/javanhut/RavenPanel/render"
	"github.com/javanhut/RavenPanel/search"
)

type Panel struct {
	Open       bool
	Focused    bool
	Query      string
	LastQuery  string
	QueryDirty bool
	Status     string
	Matches    int

	hl *search.Highlighter
}

func New() *Panel {
	return &Panel{}
}

func (p *Panel) Toggle() {
	if p.Open {
		p.Hide()
		return
	}
	p.Show()
}

// Show opens the bar with keyboard focus.
func (p *Panel) Show() {
	p.Open = true
	p.Focused = true
}

// Hide closes the bar. The query is kept for the next Show.
func (p *Panel) Hide() {
	p.Open = false
	p.Focused = false
}

func (p *Panel) SetQuery(text string) {
	p.Query = text
	p.QueryDirty = p.Query != p.LastQuery
}

func (p *Panel) AppendQuery(char rune) {
	p.SetQuery(p.Query + string(char))
}

func (p *Panel) Backspace() {
	if p.Query == "" {
		return
	}
	runes := []rune(p.Query)
	p.SetQuery(string(runes[:len(runes)-1]))
}

func (p *Panel) ClearQuery() {
	p.SetQuery("")
}

// Highlighter returns the highlighter for the current query, recompiling
// it when the query changed. It is nil while the bar is closed or the query
// does not compile.
func (p *Panel) Highlighter() *search.Highlighter {
	if !p.Open {
		return nil
	}
	if p.QueryDirty {
		p.refresh()
	}
	return p.hl
}

func (p *Panel) refresh() {
	p.LastQuery = p.Query
	p.QueryDirty = false
	p.hl = nil
	p.Status = ""
	if p.Query == "" {
		return
	}
	hl, err := search.Compile(p.Query)
	if err != nil {
		p.Status = "Invalid query"
		return
	}
	p.hl = hl
}

// SetMatchCount records how many matches the last paint found.
func (p *Panel) SetMatchCount(n int) {
	p.Matches = n
	switch {
	case p.hl == nil:
	case n == 0:
		p.Status = "No matches"
	case n == 1:
		p.Status = "1 match"
	default:
		p.Status = fmt.Sprintf("%d matches", n)
	}
}

// HandleKey edits the query. It reports whether the key was consumed.
func (p *Panel) HandleKey(ev keybindings.Event) bool {
	if !p.Open || !p.Focused {
		return false
	}
	ctrl := ev.Mods&keybindings.ModCtrl != 0
	switch ev.Key {
	case keybindings.KeyEscape:
		p.Hide()
	case keybindings.KeyEnter:
		p.Focused = false
	case keybindings.KeyBackspace:
		p.Backspace()
	case keybindings.KeySpace:
		p.AppendQuery(' ')
	case keybindings.KeyRune:
		if ctrl {
			if ev.Rune == 'u' {
				p.ClearQuery()
				return true
			}
			return false
		}
		p.AppendQuery(ev.Rune)
	default:
		return false
	}
	return true
}

// Layout places the bar at the top right of a width x height area.
func (p *Panel) Layout(bounds render.Rect, cellWidth, cellHeight float32) render.Rect {
	panelWidth := bounds.W * 0.35
	minPanelWidth := cellWidth * 32
	if panelWidth < minPanelWidth {
		panelWidth = minPanelWidth
	}
	if panelWidth > cellWidth*80 {
		panelWidth = cellWidth * 80
	}
	if panelWidth > bounds.W {
		panelWidth = bounds.W
	}
	return render.Rect{
		X: bounds.X + bounds.W - panelWidth,
		Y: bounds.Y,
		W: panelWidth,
		H: min(cellHeight*2, bounds.H),
	}
}

// Overlay is the bar's text for painting.
func (p *Panel) Overlay(bounds render.Rect, m render.Metrics) render.Overlay {
	cursor := ""
	if p.Focused {
		cursor = "_"
	}
	return render.Overlay{
		Bounds: p.Layout(bounds, m.CellWidth, m.CellHeight),
		Lines: []render.OverlayLine{
			{Text: "Search: " + p.Query + cursor, Highlight: p.Focused},
			{Text: p.Status, Dim: true},
		},
	}
}
