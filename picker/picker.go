// Package picker is the modal profile list opened from the header.
package picker

import (
	"context"
	"strings"

	"github.com/mattn/go-runewidth"
	"pkt.systems/pslog"

	"github.com/javanhut/RavenPanel/config"
	"github.com/javanhut/RavenPanel/keybindings"
	"github.com/javanhut/RavenPanel/render"
)

const (
	visibleItems  = 12
	maxNameCells  = 16
	maxLabelCells = 60
)

// Item is one selectable profile row.
type Item struct {
	Label   string
	Profile config.Profile
}

// Picker filters profiles by a typed string and lets the user choose one.
type Picker struct {
	open          bool
	profiles      []config.Profile
	Filter        string
	Items         []Item
	SelectedIndex int
	ScrollOffset  int

	log pslog.Logger
}

// New creates a closed picker over profiles.
func New(profiles []config.Profile, logger pslog.Logger) *Picker {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Picker{profiles: profiles, log: logger}
}

// SetProfiles replaces the list, keeping the filter.
func (p *Picker) SetProfiles(profiles []config.Profile) {
	p.profiles = profiles
	p.rebuild()
}

// Open opens the picker with an empty filter.
func (p *Picker) Open() {
	p.open = true
	p.Filter = ""
	p.rebuild()
	p.log.Debug("picker opened", "profiles", len(p.profiles))
}

// Close closes the picker
func (p *Picker) Close() {
	p.open = false
	p.Filter = ""
}

// IsOpen returns true if the picker is open
func (p *Picker) IsOpen() bool {
	return p.open
}

func (p *Picker) rebuild() {
	needle := strings.ToLower(p.Filter)
	p.Items = p.Items[:0]
	for _, prof := range p.profiles {
		if needle != "" &&
			!strings.Contains(strings.ToLower(prof.Name), needle) &&
			!strings.Contains(strings.ToLower(prof.Command), needle) {
			continue
		}
		p.Items = append(p.Items, Item{Label: label(prof), Profile: prof})
	}
	p.SelectedIndex = 0
	p.ScrollOffset = 0
}

func label(prof config.Profile) string {
	name := runewidth.Truncate(prof.Name, maxNameCells, "…")
	name = runewidth.FillRight(name, maxNameCells)
	cmd := prof.Command
	if cmd == "" {
		cmd = "login shell"
	}
	if len(prof.Args) > 0 {
		cmd += " " + strings.Join(prof.Args, " ")
	}
	return runewidth.Truncate(name+"  "+cmd, maxLabelCells, "…")
}

// HandleChar appends to the filter.
func (p *Picker) HandleChar(char rune) {
	p.Filter += string(char)
	p.rebuild()
}

// HandleBackspace removes the last filter rune.
func (p *Picker) HandleBackspace() {
	if p.Filter == "" {
		return
	}
	runes := []rune(p.Filter)
	p.Filter = string(runes[:len(runes)-1])
	p.rebuild()
}

// MoveUp moves selection up
func (p *Picker) MoveUp() {
	if len(p.Items) == 0 {
		return
	}
	p.SelectedIndex--
	if p.SelectedIndex < 0 {
		p.SelectedIndex = len(p.Items) - 1
	}
	p.adjustScroll()
}

// MoveDown moves selection down
func (p *Picker) MoveDown() {
	if len(p.Items) == 0 {
		return
	}
	p.SelectedIndex++
	if p.SelectedIndex >= len(p.Items) {
		p.SelectedIndex = 0
	}
	p.adjustScroll()
}

// adjustScroll adjusts scroll offset to keep selection visible
func (p *Picker) adjustScroll() {
	if p.SelectedIndex < p.ScrollOffset {
		p.ScrollOffset = p.SelectedIndex
	} else if p.SelectedIndex >= p.ScrollOffset+visibleItems {
		p.ScrollOffset = p.SelectedIndex - visibleItems + 1
	}
}

// Selected returns the highlighted profile.
func (p *Picker) Selected() (config.Profile, bool) {
	if p.SelectedIndex < 0 || p.SelectedIndex >= len(p.Items) {
		return config.Profile{}, false
	}
	return p.Items[p.SelectedIndex].Profile, true
}

// Outcome is what a key did to the picker.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeChosen
	OutcomeDismissed
)

// HandleKey processes a key while the picker is open. On OutcomeChosen the
// picker is closed and the profile is returned.
func (p *Picker) HandleKey(ev keybindings.Event) (Outcome, config.Profile) {
	if !p.open {
		return OutcomeNone, config.Profile{}
	}
	switch ev.Key {
	case keybindings.KeyEscape:
		p.Close()
		return OutcomeDismissed, config.Profile{}
	case keybindings.KeyEnter:
		prof, ok := p.Selected()
		if !ok {
			return OutcomeNone, config.Profile{}
		}
		p.Close()
		p.log.Info("profile chosen", "profile", prof.Name)
		return OutcomeChosen, prof
	case keybindings.KeyUp:
		p.MoveUp()
	case keybindings.KeyDown, keybindings.KeyTab:
		p.MoveDown()
	case keybindings.KeyBackspace:
		p.HandleBackspace()
	case keybindings.KeySpace:
		p.HandleChar(' ')
	case keybindings.KeyRune:
		if ev.Mods&keybindings.ModCtrl == 0 {
			p.HandleChar(ev.Rune)
		}
	}
	return OutcomeNone, config.Profile{}
}

// Overlay lays the picker out centred in bounds: a filter row followed by
// the visible items.
func (p *Picker) Overlay(bounds render.Rect, m render.Metrics) render.Overlay {
	lines := []render.OverlayLine{{Text: "Profile: " + p.Filter}}
	end := min(p.ScrollOffset+visibleItems, len(p.Items))
	for i := p.ScrollOffset; i < end; i++ {
		lines = append(lines, render.OverlayLine{Text: " " + p.Items[i].Label, Highlight: i == p.SelectedIndex})
	}
	if len(p.Items) == 0 {
		lines = append(lines, render.OverlayLine{Text: " no matching profiles", Dim: true})
	}

	w := min(float32(maxLabelCells+2)*m.CellWidth, bounds.W)
	h := max(min(float32(len(lines))*m.CellHeight, bounds.H-m.CellHeight), 0)
	return render.Overlay{
		Bounds: render.Rect{X: bounds.X + (bounds.W-w)/2, Y: bounds.Y + m.CellHeight, W: w, H: h},
		Lines:  lines,
	}
}
