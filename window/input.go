package window

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/javanhut/RavenPanel/keybindings"
	"github.com/javanhut/RavenPanel/panel"
)

var namedKeys = map[glfw.Key]keybindings.Key{
	glfw.KeyEnter:     keybindings.KeyEnter,
	glfw.KeyKPEnter:   keybindings.KeyEnter,
	glfw.KeyTab:       keybindings.KeyTab,
	glfw.KeyBackspace: keybindings.KeyBackspace,
	glfw.KeyEscape:    keybindings.KeyEscape,
	glfw.KeyUp:        keybindings.KeyUp,
	glfw.KeyDown:      keybindings.KeyDown,
	glfw.KeyLeft:      keybindings.KeyLeft,
	glfw.KeyRight:     keybindings.KeyRight,
	glfw.KeyHome:      keybindings.KeyHome,
	glfw.KeyEnd:       keybindings.KeyEnd,
	glfw.KeyPageUp:    keybindings.KeyPageUp,
	glfw.KeyPageDown:  keybindings.KeyPageDown,
	glfw.KeyInsert:    keybindings.KeyInsert,
	glfw.KeyDelete:    keybindings.KeyDelete,
	glfw.KeyF1:        keybindings.KeyF1,
	glfw.KeyF2:        keybindings.KeyF2,
	glfw.KeyF3:        keybindings.KeyF3,
	glfw.KeyF4:        keybindings.KeyF4,
	glfw.KeyF5:        keybindings.KeyF5,
	glfw.KeyF6:        keybindings.KeyF6,
	glfw.KeyF7:        keybindings.KeyF7,
	glfw.KeyF8:        keybindings.KeyF8,
	glfw.KeyF9:        keybindings.KeyF9,
	glfw.KeyF10:       keybindings.KeyF10,
	glfw.KeyF11:       keybindings.KeyF11,
	glfw.KeyF12:       keybindings.KeyF12,
}

// Input converts GLFW callbacks into key and mouse events. Text arrives
// through the char callback; the key callback only reports named keys and
// keys held with Ctrl or Alt, which produce no char event.
type Input struct {
	win     *Window
	mods    glfw.ModifierKey
	OnKey   func(keybindings.Event)
	OnMouse func(panel.MouseEvent)
	OnSize  func(width, height int)
}

// Attach installs the callbacks on w.
func Attach(w *Window) *Input {
	in := &Input{win: w}
	g := w.glfw
	g.SetKeyCallback(in.key)
	g.SetCharCallback(in.char)
	g.SetMouseButtonCallback(in.button)
	g.SetCursorPosCallback(in.cursor)
	g.SetScrollCallback(in.scroll)
	g.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if in.OnSize != nil {
			in.OnSize(width, height)
		}
	})
	return in
}

func convertMods(m glfw.ModifierKey) keybindings.Mod {
	var out keybindings.Mod
	if m&glfw.ModShift != 0 {
		out |= keybindings.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= keybindings.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= keybindings.ModAlt
	}
	return out
}

func (in *Input) key(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	in.mods = mods
	if action == glfw.Release || in.OnKey == nil {
		return
	}
	ev := keybindings.Event{Mods: convertMods(mods)}
	if k, ok := namedKeys[key]; ok {
		ev.Key = k
		in.OnKey(ev)
		return
	}
	if mods&(glfw.ModControl|glfw.ModAlt) == 0 {
		return
	}
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		ev.Key, ev.Rune = keybindings.KeyRune, 'a'+rune(key-glfw.KeyA)
	case key >= glfw.Key0 && key <= glfw.Key9:
		ev.Key, ev.Rune = keybindings.KeyRune, '0'+rune(key-glfw.Key0)
	case key == glfw.KeySpace:
		ev.Key = keybindings.KeySpace
	default:
		return
	}
	in.OnKey(ev)
}

func (in *Input) char(_ *glfw.Window, r rune) {
	if in.OnKey == nil || in.mods&(glfw.ModControl|glfw.ModAlt) != 0 {
		return
	}
	if r == ' ' {
		in.OnKey(keybindings.Event{Key: keybindings.KeySpace})
		return
	}
	in.OnKey(keybindings.Event{Key: keybindings.KeyRune, Rune: r})
}

func (in *Input) position() (float32, float32) {
	x, y := in.win.glfw.GetCursorPos()
	sx, sy := in.win.Scale()
	return float32(x) * sx, float32(y) * sy
}

func (in *Input) button(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if in.OnMouse == nil {
		return
	}
	ev := panel.MouseEvent{Kind: panel.MousePress}
	if action == glfw.Release {
		ev.Kind = panel.MouseRelease
	}
	switch b {
	case glfw.MouseButtonLeft:
		ev.Button = panel.ButtonLeft
	case glfw.MouseButtonRight:
		ev.Button = panel.ButtonRight
	case glfw.MouseButtonMiddle:
		ev.Button = panel.ButtonMiddle
	default:
		return
	}
	ev.X, ev.Y = in.position()
	in.OnMouse(ev)
}

func (in *Input) cursor(_ *glfw.Window, _, _ float64) {
	if in.OnMouse == nil {
		return
	}
	x, y := in.position()
	in.OnMouse(panel.MouseEvent{Kind: panel.MouseMove, X: x, Y: y})
}

func (in *Input) scroll(_ *glfw.Window, _, yoff float64) {
	if in.OnMouse == nil || yoff == 0 {
		return
	}
	x, y := in.position()
	in.OnMouse(panel.MouseEvent{Kind: panel.MouseWheel, X: x, Y: y, WheelY: float32(yoff)})
}
