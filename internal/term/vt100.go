package term

import "github.com/wxmodem/retroterm/internal/term/codepage"

type vt100State int

const (
	vt100Ground vt100State = iota
	vt100Escape
	vt100CSIEntry
	vt100DCSIgnore
	vt100OSCString
	vt100ChangeG0
	vt100ChangeG1
	vt100ChangeG2
	vt100ChangeG3
)

type savedCursor struct {
	x, y int
	attr Attr
	g0, g1 codepage.ID
	gl   int
}

// vt100Parser implements the VT100/102/220 state machine (spec.md §4.4),
// and doubles as the Linux/xterm parser (spec.md §4.5) when linuxXterm is
// set, since the latter "shares the VT220 state machine" and only adds
// extra CSI/OSC handling on top.
type vt100Parser struct {
	t          *Terminal
	state      vt100State
	linuxXterm bool

	params    []int
	curParam  int
	haveParam bool
	private   byte // '?' for DEC private-mode sequences

	charsets  [4]codepage.ID // G0..G3
	gl        int            // 0 or 1: which of G0/G1 is invoked into GL
	singleShift int          // -1, or 2/3 for the next single character only

	saved savedCursor

	oscBuf []byte
}

func newVT100Parser(t *Terminal, linuxXterm bool) *vt100Parser {
	p := &vt100Parser{t: t, linuxXterm: linuxXterm, singleShift: -1}
	p.charsets = [4]codepage.ID{codepage.NRCUS, codepage.NRCUS, codepage.NRCUS, codepage.NRCUS}
	t.ArrowKeyANSI = true
	return p
}

func (p *vt100Parser) Name() string {
	if p.linuxXterm {
		return "LINUX-XTERM"
	}
	return "VT100"
}

func (p *vt100Parser) FeedByte(b byte) FeedResult {
	switch p.state {
	case vt100Ground:
		return p.feedGround(b)
	case vt100Escape:
		return p.feedEscape(b)
	case vt100CSIEntry:
		return p.feedCSI(b)
	case vt100OSCString:
		return p.feedOSC(b)
	case vt100DCSIgnore:
		if b == 0x1B {
			p.state = vt100Escape // caller will feed '\\' next, closing it
		}
		return NoCharYet
	case vt100ChangeG0, vt100ChangeG1, vt100ChangeG2, vt100ChangeG3:
		return p.feedCharsetFinal(b)
	}
	return NoCharYet
}

func (p *vt100Parser) feedGround(b byte) FeedResult {
	switch b {
	case 0x1B:
		p.state = vt100Escape
		return NoCharYet
	case 0x0D:
		p.t.Screen.CarriageReturn()
		if p.t.NewLineMode {
			p.t.Screen.LineFeed()
		}
		return OneChar
	case 0x0A, 0x0B, 0x0C:
		p.t.Screen.LineFeed()
		return OneChar
	case 0x0E: // SO: invoke G1 into GL
		p.gl = 1
		return NoCharYet
	case 0x0F: // SI: invoke G0 into GL
		p.gl = 0
		return NoCharYet
	default:
		if b < 0x20 || (b == 0x7F && !p.linuxXterm) {
			if HandleC0(p.t, b) {
				return OneChar
			}
			return NoCharYet
		}
		if b == 0x7F && p.linuxXterm {
			p.t.Screen.CursorLeft(1)
			return OneChar
		}
		return p.printByte(b)
	}
}

func (p *vt100Parser) printByte(b byte) FeedResult {
	cs := p.charsets[p.gl]
	if p.singleShift == 2 {
		cs = p.charsets[2]
		p.singleShift = -1
	} else if p.singleShift == 3 {
		cs = p.charsets[3]
		p.singleShift = -1
	}

	var ch rune
	if p.linuxXterm && p.t.UTF8Mode {
		ch = p.t.decodeByte(b)
		if ch == 0 {
			return NoCharYet
		}
	} else {
		ch = codepage.Map(cs, b)
	}
	p.t.Screen.Print(ch)
	p.t.Status.LastChar = ch
	return OneChar
}

func (p *vt100Parser) feedEscape(b byte) FeedResult {
	s := p.t.Screen
	switch b {
	case '[':
		p.state = vt100CSIEntry
		p.params = p.params[:0]
		p.curParam = 0
		p.haveParam = false
		p.private = 0
		return NoCharYet
	case ']':
		p.state = vt100OSCString
		p.oscBuf = p.oscBuf[:0]
		return NoCharYet
	case 'P', 'X', '^', '_': // DCS, SOS, PM, APC: contents ignored until ST
		p.state = vt100DCSIgnore
		return NoCharYet
	case 'c': // RIS
		p.t.Reset()
		p.state = vt100Ground
		return ManyChars
	case 'D': // IND
		s.LineFeed()
	case 'M': // RI
		s.CursorUp(1)
	case 'E': // NEL
		s.CarriageReturn()
		s.LineFeed()
	case 'H': // HTS
		p.t.Tabs.Set(s.CursorX)
	case '7': // DECSC
		p.saved = savedCursor{x: s.CursorX, y: s.CursorY, attr: s.CurAttr, g0: p.charsets[0], g1: p.charsets[1], gl: p.gl}
	case '8': // DECRC
		s.CursorX, s.CursorY = p.saved.x, p.saved.y
		s.CurAttr = p.saved.attr
		p.charsets[0], p.charsets[1] = p.saved.g0, p.saved.g1
		p.gl = p.saved.gl
	case '=': // DECKPAM
		p.t.KeypadApplication = true
	case '>': // DECKPNM
		p.t.KeypadApplication = false
	case 'N': // SS2
		p.singleShift = 2
	case 'O': // SS3
		p.singleShift = 3
	case '(', ')', '*', '+':
		p.state = gDesignState(b)
		return NoCharYet
	default:
		p.state = vt100Ground
		return ManyChars
	}
	p.state = vt100Ground
	return ManyChars
}

func gDesignState(b byte) vt100State {
	switch b {
	case '(':
		return vt100ChangeG0
	case ')':
		return vt100ChangeG1
	case '*':
		return vt100ChangeG2
	default:
		return vt100ChangeG3
	}
}

// feedCharsetFinal reads the final byte of a `ESC ( x` style designation
// (spec.md §4.4: final byte from {B,0,A,2,4,5,6,7,9,C,K,Q,R,Y,Z,=}).
func (p *vt100Parser) feedCharsetFinal(b byte) FeedResult {
	id := nrcFinalByteToID(b)
	switch p.state {
	case vt100ChangeG0:
		p.charsets[0] = id
	case vt100ChangeG1:
		p.charsets[1] = id
	case vt100ChangeG2:
		p.charsets[2] = id
	case vt100ChangeG3:
		p.charsets[3] = id
	}
	p.state = vt100Ground
	return NoCharYet
}

func nrcFinalByteToID(b byte) codepage.ID {
	switch b {
	case 'B':
		return codepage.NRCUS
	case 'A':
		return codepage.NRCUK
	case '0':
		return codepage.DECSpecialGraphics
	case '4':
		return codepage.NRCNL
	case '5', '9':
		return codepage.NRCFI
	case '6':
		return codepage.NRCNO
	case '7':
		return codepage.NRCSV
	case 'C':
		return codepage.NRCFR
	case 'R':
		return codepage.NRCFR
	case 'Q':
		return codepage.NRCFRCA
	case 'K':
		return codepage.NRCDE
	case 'Y':
		return codepage.NRCIT
	case 'Z':
		return codepage.NRCES
	case '=':
		return codepage.NRCCH
	default:
		return codepage.NRCUS
	}
}

func (p *vt100Parser) feedOSC(b byte) FeedResult {
	if b == 0x07 || b == 0x1B {
		p.state = vt100Ground
		p.handleOSC()
		return ManyChars
	}
	p.oscBuf = append(p.oscBuf, b)
	return NoCharYet
}

// handleOSC implements spec.md §4.5's OSC subset: window title (captured,
// not rendered), palette change and clipboard access (accepted and
// ignored by default — no external collaborator is wired to surface them).
func (p *vt100Parser) handleOSC() {
	// oscBuf holds "<code>;<payload>". Codes 0 (icon+title), 1 (icon only)
	// and 2 (title only) all carry a title string worth retaining; anything
	// else is parsed and discarded since no collaborator reads it.
	code, payload := splitOSC(p.oscBuf)
	if code == "0" || code == "1" || code == "2" {
		p.t.Status.Title = payload
	}
	p.oscBuf = p.oscBuf[:0]
}

// splitOSC splits an "OSC code;payload" buffer at the first semicolon.
func splitOSC(buf []byte) (code, payload string) {
	for i, b := range buf {
		if b == ';' {
			return string(buf[:i]), string(buf[i+1:])
		}
	}
	return string(buf), ""
}

func (p *vt100Parser) feedCSI(b byte) FeedResult {
	switch {
	case b == '?' && len(p.params) == 0 && !p.haveParam:
		p.private = '?'
		return NoCharYet
	case b == '>' || b == '=':
		p.private = b
		return NoCharYet
	case b >= '0' && b <= '9':
		p.curParam = p.curParam*10 + int(b-'0')
		p.haveParam = true
		return NoCharYet
	case b == ';':
		p.params = append(p.params, p.curParam)
		p.curParam = 0
		p.haveParam = false
		return NoCharYet
	case b >= 0x40 && b <= 0x7E:
		if p.haveParam || len(p.params) == 0 {
			p.params = append(p.params, p.curParam)
		}
		r := p.dispatchCSI(b, p.params)
		p.state = vt100Ground
		return r
	default:
		return NoCharYet
	}
}

func (p *vt100Parser) param(i, def int) int {
	if i >= len(p.params) || p.params[i] == 0 {
		return def
	}
	return p.params[i]
}

func (p *vt100Parser) dispatchCSI(final byte, params []int) FeedResult {
	s := p.t.Screen
	if p.private == '?' {
		return p.dispatchPrivateMode(final, params)
	}
	switch final {
	case 'A':
		s.CursorUp(p.param(0, 1))
	case 'B', 'e':
		s.CursorDown(p.param(0, 1))
	case 'C', 'a':
		s.CursorRight(p.param(0, 1))
	case 'D':
		s.CursorLeft(p.param(0, 1))
	case 'G', '`': // CHA / HPA
		s.CursorPosition(s.CursorY, p.param(0, 1)-1)
	case 'd': // VPA
		s.CursorPosition(p.param(0, 1)-1, s.CursorX)
	case 'E': // CNL
		s.CursorPosition(s.CursorY+p.param(0, 1), 0)
	case 'F': // CPL
		s.CursorPosition(s.CursorY-p.param(0, 1), 0)
	case 'H', 'f': // CUP / HVP
		s.CursorPosition(p.param(0, 1)-1, p.param(1, 1)-1)
	case 'J':
		p.eraseDisplay(p.param(0, 0))
	case 'K':
		p.eraseLine(p.param(0, 0))
	case 'L': // IL
		s.InsertLine(p.param(0, 1))
	case 'M': // DL
		s.DeleteLine(p.param(0, 1))
	case '@': // ICH
		s.InsertBlanks(p.param(0, 1))
	case 'P': // DCH
		s.DeleteCharacter(p.param(0, 1))
	case 'S': // SU
		s.ScrollUp(p.param(0, 1))
	case 'T': // SD
		s.ScrollDown(p.param(0, 1))
	case 'r': // DECSTBM
		top := p.param(0, 1) - 1
		bottom := p.param(1, s.Height) - 1
		s.SetScrollRegion(top, bottom)
		s.CursorPosition(0, 0)
	case 'g': // TBC
		switch p.param(0, 0) {
		case 0:
			p.t.Tabs.Clear(s.CursorX)
		case 3:
			p.t.Tabs.ClearAll()
		}
	case 'm':
		applySGRParams(p.t, params)
	case 'c': // DA
		p.t.Status.QueueReply([]byte("\x1B[?62;1;2;6;7;8;9c"))
	case 'n': // DSR
		switch p.param(0, 0) {
		case 5:
			p.t.Status.QueueReply([]byte("\x1B[0n"))
		case 6:
			reply := cprReply(s.CursorY+1, s.CursorX+1)
			p.t.Status.QueueReply(reply)
		}
	default:
		return NoCharYet
	}
	return ManyChars
}

func cprReply(row, col int) []byte {
	buf := []byte("\x1B[")
	buf = append(buf, []byte(itoa(row))...)
	buf = append(buf, ';')
	buf = append(buf, []byte(itoa(col))...)
	buf = append(buf, 'R')
	return buf
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits [20]byte
	i := len(digits)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		digits[i] = '-'
	}
	return string(digits[i:])
}

// dispatchPrivateMode implements DECSET/DECRST for the modes spec.md §4.4
// and §4.5 name (1, 3, 6, 7, 25, 1000, 1002, 1004, 1049) via `h`/`l` final
// bytes, and the mouse/bracketed-paste modes Linux/xterm add.
func (p *vt100Parser) dispatchPrivateMode(final byte, params []int) FeedResult {
	set := final == 'h'
	if final != 'h' && final != 'l' {
		return NoCharYet
	}
	for _, mode := range params {
		switch mode {
		case 1:
			p.t.ArrowKeyANSI = !set // application cursor keys when set
		case 3:
			// 80/132 column switch: this core does not reflow the screen
			// buffer on the fly; recognised and accepted as a no-op.
		case 6:
			p.t.Screen.OriginMode = set
		case 7:
			p.t.Screen.LineWrap = set
		case 25:
			p.t.Screen.CursorVisible = set
		case 1000:
			if set {
				p.t.MouseMode = 1000
			} else {
				p.t.MouseMode = 0
			}
		case 1002:
			if set {
				p.t.MouseMode = 1002
			} else {
				p.t.MouseMode = 0
			}
		case 1004:
			// focus in/out reporting: recognised, no internal state needed
			// beyond acknowledging the mode (no external collaborator is
			// wired to emit focus bytes from this core).
		case 1006:
			if set {
				p.t.MouseEncoding = 2
			} else {
				p.t.MouseEncoding = 0
			}
		case 2004:
			p.t.BracketedPasteMode = set
		case 1049:
			// Alternate screen buffer: out of scope for this core's single
			// Screen model (see DESIGN.md); accepted as a no-op.
		}
	}
	return ManyChars
}

func (p *vt100Parser) eraseDisplay(mode int) {
	s := p.t.Screen
	switch mode {
	case 0:
		s.EraseScreen(s.CursorY, s.CursorX, s.Height-1, s.Width-1, false)
	case 1:
		s.EraseScreen(0, 0, s.CursorY, s.CursorX, false)
	case 2, 3:
		s.EraseScreen(0, 0, s.Height-1, s.Width-1, false)
	}
}

func (p *vt100Parser) eraseLine(mode int) {
	s := p.t.Screen
	switch mode {
	case 0:
		s.EraseLine(s.CursorX, s.Width-1, false)
	case 1:
		s.EraseLine(0, s.CursorX, false)
	case 2:
		s.EraseLine(0, s.Width-1, false)
	}
}
