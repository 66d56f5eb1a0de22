// Package parser turns the byte stream coming out of a pty into grid
// mutations. It is not safe for concurrent use; the owning session holds its
// lock around every call.
package parser

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/javanhut/RavenPanel/grid"
)

// State is the current state of the escape sequence machine.
type State int

const (
	StateGround State = iota
	StateEscape
	StateCSI
	StateOSC
	StateOSCEscape
	StateCharset
	StateHash
)

// Parser handles ANSI escape sequence parsing for one terminal.
type Parser struct {
	primary *grid.Grid
	alt     *grid.Grid
	onAlt   bool

	state     State
	csiParams strings.Builder
	oscParams strings.Builder

	fg    grid.Color
	bg    grid.Color
	flags grid.CellFlags

	appCursorKeys bool
	cursorVisible bool
	title         string
	workingDir    string

	respond func([]byte)

	utf8Buf  [utf8.UTFMax]byte
	utf8Len  int
	utf8Need int
}

// New creates a parser with a primary screen of the given size keeping
// maxHistory lines of scrollback. The alternate screen has none.
func New(cols, lines, maxHistory int) *Parser {
	return &Parser{
		primary:       grid.NewWithHistory(cols, lines, maxHistory),
		alt:           grid.NewWithHistory(cols, lines, 0),
		fg:            grid.DefaultFg(),
		bg:            grid.DefaultBg(),
		cursorVisible: true,
	}
}

// Grid returns the screen currently being drawn to.
func (p *Parser) Grid() *grid.Grid {
	if p.onAlt {
		return p.alt
	}
	return p.primary
}

// AltScreen reports whether the alternate screen is active.
func (p *Parser) AltScreen() bool     { return p.onAlt }
func (p *Parser) CursorVisible() bool { return p.cursorVisible }
func (p *Parser) AppCursorKeys() bool { return p.appCursorKeys }
func (p *Parser) Title() string       { return p.title }
func (p *Parser) WorkingDir() string  { return p.workingDir }

// SetResponseWriter sets a callback used to answer device status queries.
func (p *Parser) SetResponseWriter(fn func([]byte)) {
	p.respond = fn
}

// Resize resizes both screens.
func (p *Parser) Resize(cols, lines int) {
	p.primary.Resize(cols, lines)
	p.alt.Resize(cols, lines)
}

// Advance feeds bytes read from the pty through the state machine.
func (p *Parser) Advance(data []byte) {
	for _, b := range data {
		p.advanceByte(b)
	}
}

func (p *Parser) advanceByte(b byte) {
	switch p.state {
	case StateGround:
		p.ground(b)
	case StateEscape:
		p.escape(b)
	case StateCSI:
		p.csi(b)
	case StateOSC:
		p.osc(b)
	case StateOSCEscape:
		// ESC \ (ST) or anything else ends the string
		p.finishOSC()
		if b != '\\' {
			p.advanceByte(b)
		}
	case StateCharset, StateHash:
		p.state = StateGround
	}
}

func (p *Parser) ground(b byte) {
	if p.utf8Need > 0 {
		if b&0xC0 == 0x80 {
			p.utf8Buf[p.utf8Len] = b
			p.utf8Len++
			p.utf8Need--
			if p.utf8Need == 0 {
				r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
				p.utf8Len = 0
				p.print(r)
			}
			return
		}
		p.utf8Len, p.utf8Need = 0, 0
		p.print(utf8.RuneError)
	}

	g := p.Grid()
	switch {
	case b == 0x1b:
		p.state = StateEscape
	case b == 0x07:
	case b == 0x08:
		g.Backspace()
	case b == 0x09:
		g.Tab()
	case b == 0x0a || b == 0x0b || b == 0x0c:
		g.Linefeed()
	case b == 0x0d:
		g.CarriageReturn()
	case b >= 0x20 && b < 0x7f:
		p.print(rune(b))
	case b >= 0xC0 && b < 0xE0:
		p.startUTF8(b, 1)
	case b >= 0xE0 && b < 0xF0:
		p.startUTF8(b, 2)
	case b >= 0xF0 && b < 0xF8:
		p.startUTF8(b, 3)
	}
}

func (p *Parser) startUTF8(b byte, need int) {
	p.utf8Buf[0] = b
	p.utf8Len = 1
	p.utf8Need = need
}

func (p *Parser) print(r rune) {
	p.Grid().Input(r, p.fg, p.bg, p.flags)
}

func (p *Parser) escape(b byte) {
	g := p.Grid()
	p.state = StateGround
	switch b {
	case '[':
		p.state = StateCSI
		p.csiParams.Reset()
	case ']':
		p.state = StateOSC
		p.oscParams.Reset()
	case '7': // DECSC
		g.SaveCursor()
	case '8': // DECRC
		g.RestoreCursor()
	case 'c': // RIS
		p.reset()
	case 'D': // IND
		g.Linefeed()
	case 'M': // RI
		g.ReverseIndex()
	case 'E': // NEL
		g.CarriageReturn()
		g.Linefeed()
	case '(', ')', '*', '+':
		p.state = StateCharset
	case '#':
		p.state = StateHash
	}
}

func (p *Parser) csi(b byte) {
	switch {
	case b >= 0x20 && b <= 0x3f:
		p.csiParams.WriteByte(b)
	case b >= 0x40 && b <= 0x7e:
		p.executeCSI(b)
		p.state = StateGround
	default:
		p.state = StateGround
	}
}

func (p *Parser) executeCSI(final byte) {
	raw := p.csiParams.String()
	params := parseParams(raw)
	g := p.Grid()
	cur := g.Cursor()

	switch final {
	case 'A': // CUU
		g.MoveCursor(0, -param(params, 0, 1))
	case 'B', 'e': // CUD, VPR
		g.MoveCursor(0, param(params, 0, 1))
	case 'C', 'a': // CUF, HPR
		g.MoveCursor(param(params, 0, 1), 0)
	case 'D': // CUB
		g.MoveCursor(-param(params, 0, 1), 0)
	case 'E': // CNL
		g.CarriageReturn()
		g.MoveCursor(0, param(params, 0, 1))
	case 'F': // CPL
		g.CarriageReturn()
		g.MoveCursor(0, -param(params, 0, 1))
	case 'G', '`': // CHA, HPA
		g.SetCursor(grid.Point{Line: cur.Line, Col: param(params, 0, 1) - 1})
	case 'H', 'f': // CUP
		g.SetCursor(grid.Point{Line: param(params, 0, 1) - 1, Col: param(params, 1, 1) - 1})
	case 'd': // VPA
		g.SetCursor(grid.Point{Line: param(params, 0, 1) - 1, Col: cur.Col})
	case 'J': // ED
		switch param(params, 0, 0) {
		case 0:
			g.ClearScreen(grid.ClearBelow)
		case 1:
			g.ClearScreen(grid.ClearAbove)
		case 2:
			g.ClearScreen(grid.ClearAll)
		case 3:
			g.ClearScreen(grid.ClearSaved)
		}
	case 'K': // EL
		switch param(params, 0, 0) {
		case 0:
			g.ClearLine(grid.ClearBelow)
		case 1:
			g.ClearLine(grid.ClearAbove)
		case 2:
			g.ClearLine(grid.ClearAll)
		}
	case 'L': // IL
		g.InsertLines(param(params, 0, 1))
	case 'M': // DL
		g.DeleteLines(param(params, 0, 1))
	case 'P': // DCH
		g.DeleteChars(param(params, 0, 1))
	case '@': // ICH
		g.InsertChars(param(params, 0, 1))
	case 'S': // SU
		g.ScrollUpInRegion(param(params, 0, 1))
	case 'T': // SD
		g.ScrollDown(param(params, 0, 1))
	case 'X': // ECH
		g.EraseChars(param(params, 0, 1))
	case 'b': // REP
		g.RepeatLast(param(params, 0, 1))
	case 'm':
		if strings.HasPrefix(raw, ">") {
			return // XTMODKEYS
		}
		p.sgr(params)
	case 'h':
		p.setMode(raw, params, true)
	case 'l':
		p.setMode(raw, params, false)
	case 'r': // DECSTBM
		g.SetScrollRegion(param(params, 0, 1), param(params, 1, g.ScreenLines()))
	case 's':
		g.SaveCursor()
	case 'u':
		g.RestoreCursor()
	case 'n':
		p.deviceStatus(params)
	case 'c':
		if p.respond != nil && !strings.HasPrefix(raw, ">") {
			p.respond([]byte("\x1b[?6c"))
		}
	}
}

func (p *Parser) sgr(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		n := params[i]
		switch {
		case n == 0:
			p.fg = grid.DefaultFg()
			p.bg = grid.DefaultBg()
			p.flags = 0
		case n == 1:
			p.flags |= grid.FlagBold
		case n == 2:
			p.flags |= grid.FlagDim
		case n == 3:
			p.flags |= grid.FlagItalic
		case n == 4:
			p.flags |= grid.FlagUnderline
		case n == 7:
			p.flags |= grid.FlagInverse
		case n == 8:
			p.flags |= grid.FlagHidden
		case n == 9:
			p.flags |= grid.FlagStrikethrough
		case n == 22:
			p.flags &^= grid.FlagDimBold
		case n == 23:
			p.flags &^= grid.FlagItalic
		case n == 24:
			p.flags &^= grid.FlagUnderline
		case n == 27:
			p.flags &^= grid.FlagInverse
		case n == 28:
			p.flags &^= grid.FlagHidden
		case n == 29:
			p.flags &^= grid.FlagStrikethrough
		case n >= 30 && n <= 37:
			p.fg = grid.IndexedColor(uint8(n - 30))
		case n == 38:
			var consumed int
			p.fg, consumed = extendedColor(params[i+1:], p.fg)
			i += consumed
		case n == 39:
			p.fg = grid.DefaultFg()
		case n >= 40 && n <= 47:
			p.bg = grid.IndexedColor(uint8(n - 40))
		case n == 48:
			var consumed int
			p.bg, consumed = extendedColor(params[i+1:], p.bg)
			i += consumed
		case n == 49:
			p.bg = grid.DefaultBg()
		case n >= 90 && n <= 97:
			p.fg = grid.IndexedColor(uint8(n - 90 + 8))
		case n >= 100 && n <= 107:
			p.bg = grid.IndexedColor(uint8(n - 100 + 8))
		}
	}
}

// extendedColor decodes the arguments following 38 or 48 and returns how
// many parameters it used.
func extendedColor(args []int, current grid.Color) (grid.Color, int) {
	if len(args) == 0 {
		return current, 0
	}
	switch args[0] {
	case 5:
		if len(args) >= 2 {
			return grid.IndexedColor(uint8(args[1])), 2
		}
	case 2:
		if len(args) >= 4 {
			return grid.RGBColor(uint8(args[1]), uint8(args[2]), uint8(args[3])), 4
		}
	}
	return current, len(args)
}

func (p *Parser) setMode(raw string, params []int, set bool) {
	if !strings.HasPrefix(raw, "?") {
		return
	}
	for _, n := range params {
		switch n {
		case 1: // DECCKM
			p.appCursorKeys = set
		case 25: // DECTCEM
			p.cursorVisible = set
		case 47, 1047:
			p.switchScreen(set)
		case 1049:
			if set {
				p.primary.SaveCursor()
				p.switchScreen(true)
				p.alt.ClearScreen(grid.ClearAll)
			} else {
				p.switchScreen(false)
				p.primary.RestoreCursor()
			}
		}
	}
}

func (p *Parser) switchScreen(alt bool) {
	if p.onAlt == alt {
		return
	}
	if alt {
		p.alt.SetCursor(p.primary.Cursor())
	}
	p.onAlt = alt
}

func (p *Parser) osc(b byte) {
	switch b {
	case 0x07:
		p.finishOSC()
	case 0x1b:
		p.state = StateOSCEscape
	default:
		p.oscParams.WriteByte(b)
	}
}

func (p *Parser) finishOSC() {
	p.state = StateGround
	cmd, value, ok := strings.Cut(p.oscParams.String(), ";")
	p.oscParams.Reset()
	if !ok {
		return
	}
	switch cmd {
	case "0", "2":
		p.title = value
	case "7":
		if path := parseOSC7Path(value); path != "" {
			p.workingDir = path
		}
	}
}

func parseOSC7Path(value string) string {
	if strings.HasPrefix(value, "file://") {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Path == "" {
			return ""
		}
		path, err := url.PathUnescape(parsed.Path)
		if err != nil {
			return ""
		}
		return path
	}
	if strings.HasPrefix(value, "/") {
		return value
	}
	return ""
}

func parseParams(s string) []int {
	s = strings.TrimLeft(s, "?>!=")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	params := make([]int, len(parts))
	for i, part := range parts {
		// colon sub-parameters: keep the first
		if idx := strings.IndexByte(part, ':'); idx >= 0 {
			part = part[:idx]
		}
		n, err := strconv.Atoi(part)
		if err == nil {
			params[i] = n
		}
	}
	return params
}

func param(params []int, index, def int) int {
	if index < len(params) && params[index] > 0 {
		return params[index]
	}
	return def
}

func (p *Parser) reset() {
	p.onAlt = false
	p.primary.Reset()
	p.alt.Reset()
	p.fg = grid.DefaultFg()
	p.bg = grid.DefaultBg()
	p.flags = 0
	p.appCursorKeys = false
	p.cursorVisible = true
}

func (p *Parser) deviceStatus(params []int) {
	if p.respond == nil {
		return
	}
	switch param(params, 0, 0) {
	case 5:
		p.respond([]byte("\x1b[0n"))
	case 6:
		cur := p.Grid().Cursor()
		p.respond(fmt.Appendf(nil, "\x1b[%d;%dR", cur.Line+1, cur.Col+1))
	}
}
