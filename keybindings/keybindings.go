// Package keybindings maps key events to pty input or panel actions.
package keybindings

import (
	"unicode"
	"unicode/utf8"
)

// Key identifies a non-text key. Text keys use KeyRune with Event.Rune set.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Mod is a modifier bitmask.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
)

// Event is a key press from any window backend.
type Event struct {
	Key  Key
	Rune rune
	Mods Mod
}

func (e Event) ctrl() bool  { return e.Mods&ModCtrl != 0 }
func (e Event) shift() bool { return e.Mods&ModShift != 0 }
func (e Event) alt() bool   { return e.Mods&ModAlt != 0 }

// letter returns the lower-cased rune of a text key, or 0.
func (e Event) letter() rune {
	if e.Key != KeyRune {
		return 0
	}
	return unicode.ToLower(e.Rune)
}

// KeyAction represents the action to take for a key press
type KeyAction int

const (
	ActionNone KeyAction = iota
	ActionInput
	ActionExit
	ActionNewTab
	ActionCloseTab
	ActionNextTab
	ActionPrevTab
	ActionSplitVertical
	ActionSplitHorizontal
	ActionClosePane
	ActionNextPane
	ActionPrevPane
	ActionCopy
	ActionPaste
	ActionShowSearch
	ActionToggleMode
	ActionShowProfiles
	ActionScrollPageUp
	ActionScrollPageDown
	ActionScrollLineUp
	ActionScrollLineDown
	ActionScrollTop
	ActionScrollBottom
	ActionToggleFullscreen
	ActionBeginSelection
	ActionClearSelection
)

// Result contains the result of processing a key
type Result struct {
	Action KeyAction
	Data   []byte
}

func input(s string) Result { return Result{Action: ActionInput, Data: []byte(s)} }

// panelShortcut handles the bindings shared by both pane modes.
func panelShortcut(ev Event) (Result, bool) {
	ctrl, shift := ev.ctrl(), ev.shift()

	if ctrl && !shift && ev.letter() == 'q' {
		return Result{Action: ActionExit}, true
	}
	if ctrl && shift {
		switch ev.letter() {
		case 't':
			return Result{Action: ActionNewTab}, true
		case 'x':
			return Result{Action: ActionCloseTab}, true
		case 'w':
			return Result{Action: ActionClosePane}, true
		case 'd':
			return Result{Action: ActionSplitVertical}, true
		case 'e':
			return Result{Action: ActionSplitHorizontal}, true
		case 'c':
			return Result{Action: ActionCopy}, true
		case 'v':
			return Result{Action: ActionPaste}, true
		case 'f':
			return Result{Action: ActionShowSearch}, true
		case 'n':
			return Result{Action: ActionToggleMode}, true
		case 'p':
			return Result{Action: ActionShowProfiles}, true
		}
		switch ev.Key {
		case KeyRight:
			return Result{Action: ActionNextPane}, true
		case KeyLeft:
			return Result{Action: ActionPrevPane}, true
		}
	}
	if ctrl && ev.Key == KeyTab {
		if shift {
			return Result{Action: ActionPrevTab}, true
		}
		return Result{Action: ActionNextTab}, true
	}
	if shift && !ctrl {
		switch ev.Key {
		case KeyPageUp:
			return Result{Action: ActionScrollPageUp}, true
		case KeyPageDown:
			return Result{Action: ActionScrollPageDown}, true
		case KeyUp:
			return Result{Action: ActionScrollLineUp}, true
		case KeyDown:
			return Result{Action: ActionScrollLineDown}, true
		case KeyHome:
			return Result{Action: ActionScrollTop}, true
		case KeyEnd:
			return Result{Action: ActionScrollBottom}, true
		case KeyEnter:
			return Result{Action: ActionToggleFullscreen}, true
		}
	}
	return Result{}, false
}

var fKeySeqs = map[Key]string{
	KeyF1:  "\x1bOP",
	KeyF2:  "\x1bOQ",
	KeyF3:  "\x1bOR",
	KeyF4:  "\x1bOS",
	KeyF5:  "\x1b[15~",
	KeyF6:  "\x1b[17~",
	KeyF7:  "\x1b[18~",
	KeyF8:  "\x1b[19~",
	KeyF9:  "\x1b[20~",
	KeyF10: "\x1b[21~",
	KeyF11: "\x1b[23~",
	KeyF12: "\x1b[24~",
}

// Translate maps a key in interactive mode to pty bytes or a panel action.
// appCursor selects SS3 arrow sequences.
func Translate(ev Event, appCursor bool) Result {
	if r, ok := panelShortcut(ev); ok {
		return r
	}

	switch ev.Key {
	case KeyUp, KeyDown, KeyRight, KeyLeft:
		final := map[Key]byte{KeyUp: 'A', KeyDown: 'B', KeyRight: 'C', KeyLeft: 'D'}[ev.Key]
		if appCursor {
			return input("\x1bO" + string(final))
		}
		return input("\x1b[" + string(final))
	case KeyHome:
		return input("\x1b[H")
	case KeyEnd:
		return input("\x1b[F")
	case KeyPageUp:
		return input("\x1b[5~")
	case KeyPageDown:
		return input("\x1b[6~")
	case KeyInsert:
		return input("\x1b[2~")
	case KeyDelete:
		return input("\x1b[3~")
	case KeyBackspace:
		return Result{Action: ActionInput, Data: []byte{0x7f}}
	case KeyEnter:
		return input("\r")
	case KeyTab:
		if ev.shift() {
			return input("\x1b[Z")
		}
		return input("\t")
	case KeyEscape:
		return input("\x1b")
	case KeySpace:
		if ev.ctrl() {
			return Result{Action: ActionInput, Data: []byte{0}}
		}
		return input(" ")
	case KeyRune:
		return translateRune(ev)
	}
	if seq, ok := fKeySeqs[ev.Key]; ok {
		return input(seq)
	}
	return Result{Action: ActionNone}
}

func translateRune(ev Event) Result {
	r := ev.Rune
	if ev.ctrl() {
		// Ctrl+A = 1, Ctrl+B = 2, etc.
		if l := unicode.ToLower(r); l >= 'a' && l <= 'z' {
			return Result{Action: ActionInput, Data: []byte{byte(l - 'a' + 1)}}
		}
		switch r {
		case '[':
			return Result{Action: ActionInput, Data: []byte{0x1b}}
		case '\\':
			return Result{Action: ActionInput, Data: []byte{0x1c}}
		case ']':
			return Result{Action: ActionInput, Data: []byte{0x1d}}
		}
		return Result{Action: ActionNone}
	}
	if !utf8.ValidRune(r) {
		return Result{Action: ActionNone}
	}
	data := utf8.AppendRune(nil, r)
	if ev.alt() {
		// Alt sends ESC prefix
		data = append([]byte{0x1b}, data...)
	}
	return Result{Action: ActionInput, Data: data}
}

// Navigation maps a key in navigation mode. Nothing reaches the shell.
func Navigation(ev Event) Result {
	if r, ok := panelShortcut(ev); ok {
		return r
	}
	if ev.ctrl() {
		switch ev.letter() {
		case 'd':
			return Result{Action: ActionScrollPageDown}
		case 'u':
			return Result{Action: ActionScrollPageUp}
		}
		return Result{Action: ActionNone}
	}
	switch ev.Key {
	case KeyEscape:
		return Result{Action: ActionClearSelection}
	case KeyUp:
		return Result{Action: ActionScrollLineUp}
	case KeyDown:
		return Result{Action: ActionScrollLineDown}
	case KeyPageUp:
		return Result{Action: ActionScrollPageUp}
	case KeyPageDown:
		return Result{Action: ActionScrollPageDown}
	case KeyRune:
	default:
		return Result{Action: ActionNone}
	}
	switch ev.Rune {
	case 'j':
		return Result{Action: ActionScrollLineDown}
	case 'k':
		return Result{Action: ActionScrollLineUp}
	case 'g':
		return Result{Action: ActionScrollTop}
	case 'G':
		return Result{Action: ActionScrollBottom}
	case 'y':
		return Result{Action: ActionCopy}
	case 'v':
		return Result{Action: ActionBeginSelection}
	case '/':
		return Result{Action: ActionShowSearch}
	case 'i':
		return Result{Action: ActionToggleMode}
	}
	return Result{Action: ActionNone}
}
