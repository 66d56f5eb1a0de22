package tuirender

import (
	"github.com/gdamore/tcell/v2"

	"github.com/javanhut/RavenPanel/keybindings"
	"github.com/javanhut/RavenPanel/panel"
)

var namedKeys = map[tcell.Key]keybindings.Key{
	tcell.KeyEnter:      keybindings.KeyEnter,
	tcell.KeyTab:        keybindings.KeyTab,
	tcell.KeyBacktab:    keybindings.KeyTab,
	tcell.KeyBackspace:  keybindings.KeyBackspace,
	tcell.KeyBackspace2: keybindings.KeyBackspace,
	tcell.KeyEscape:     keybindings.KeyEscape,
	tcell.KeyUp:         keybindings.KeyUp,
	tcell.KeyDown:       keybindings.KeyDown,
	tcell.KeyLeft:       keybindings.KeyLeft,
	tcell.KeyRight:      keybindings.KeyRight,
	tcell.KeyHome:       keybindings.KeyHome,
	tcell.KeyEnd:        keybindings.KeyEnd,
	tcell.KeyPgUp:       keybindings.KeyPageUp,
	tcell.KeyPgDn:       keybindings.KeyPageDown,
	tcell.KeyInsert:     keybindings.KeyInsert,
	tcell.KeyDelete:     keybindings.KeyDelete,
	tcell.KeyF1:         keybindings.KeyF1,
	tcell.KeyF2:         keybindings.KeyF2,
	tcell.KeyF3:         keybindings.KeyF3,
	tcell.KeyF4:         keybindings.KeyF4,
	tcell.KeyF5:         keybindings.KeyF5,
	tcell.KeyF6:         keybindings.KeyF6,
	tcell.KeyF7:         keybindings.KeyF7,
	tcell.KeyF8:         keybindings.KeyF8,
	tcell.KeyF9:         keybindings.KeyF9,
	tcell.KeyF10:        keybindings.KeyF10,
	tcell.KeyF11:        keybindings.KeyF11,
	tcell.KeyF12:        keybindings.KeyF12,
}

// KeyEvent converts a tcell key event. Control letters arrive from tcell as
// their own keys and come out as the letter with ModCtrl.
func KeyEvent(ev *tcell.EventKey) (keybindings.Event, bool) {
	var mods keybindings.Mod
	m := ev.Modifiers()
	if m&tcell.ModShift != 0 {
		mods |= keybindings.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= keybindings.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= keybindings.ModAlt
	}

	k := ev.Key()
	if k == tcell.KeyBacktab {
		mods |= keybindings.ModShift
	}
	if named, ok := namedKeys[k]; ok {
		return keybindings.Event{Key: named, Mods: mods}, true
	}
	if k == tcell.KeyRune {
		if r := ev.Rune(); r > 0 && r < ' ' {
			return keybindings.Event{Key: keybindings.KeyRune, Rune: 'a' + r - 1, Mods: mods | keybindings.ModCtrl}, true
		}
		if ev.Rune() == ' ' {
			return keybindings.Event{Key: keybindings.KeySpace, Mods: mods}, true
		}
		return keybindings.Event{Key: keybindings.KeyRune, Rune: ev.Rune(), Mods: mods}, true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return keybindings.Event{Key: keybindings.KeyRune, Rune: rune('a' + k - tcell.KeyCtrlA), Mods: mods | keybindings.ModCtrl}, true
	}
	if k == tcell.KeyCtrlSpace {
		return keybindings.Event{Key: keybindings.KeySpace, Mods: mods | keybindings.ModCtrl}, true
	}
	return keybindings.Event{}, false
}

// MouseTracker turns tcell's button state reports into press, release,
// move and wheel events.
type MouseTracker struct {
	buttons tcell.ButtonMask
}

var trackedButtons = []struct {
	mask   tcell.ButtonMask
	button panel.MouseButton
}{
	{tcell.ButtonPrimary, panel.ButtonLeft},
	{tcell.ButtonSecondary, panel.ButtonRight},
	{tcell.ButtonMiddle, panel.ButtonMiddle},
}

// Events converts one tcell mouse report.
func (t *MouseTracker) Events(ev *tcell.EventMouse) []panel.MouseEvent {
	x, y := ev.Position()
	fx, fy := float32(x), float32(y)
	mask := ev.Buttons()

	var out []panel.MouseEvent
	switch {
	case mask&tcell.WheelUp != 0:
		out = append(out, panel.MouseEvent{Kind: panel.MouseWheel, X: fx, Y: fy, WheelY: 1})
	case mask&tcell.WheelDown != 0:
		out = append(out, panel.MouseEvent{Kind: panel.MouseWheel, X: fx, Y: fy, WheelY: -1})
	}

	changed := false
	for _, b := range trackedButtons {
		was, is := t.buttons&b.mask != 0, mask&b.mask != 0
		switch {
		case is && !was:
			out = append(out, panel.MouseEvent{Kind: panel.MousePress, Button: b.button, X: fx, Y: fy})
			changed = true
		case was && !is:
			out = append(out, panel.MouseEvent{Kind: panel.MouseRelease, Button: b.button, X: fx, Y: fy})
			changed = true
		}
	}
	if !changed && mask&tcell.ButtonPrimary != 0 {
		out = append(out, panel.MouseEvent{Kind: panel.MouseMove, X: fx, Y: fy})
	}
	t.buttons = mask & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle)
	return out
}
