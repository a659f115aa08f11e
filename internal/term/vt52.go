package term

import "github.com/wxmodem/retroterm/internal/term/codepage"

type vt52State int

const (
	vt52Ground vt52State = iota
	vt52Escape
	vt52WaitRow
	vt52WaitCol
	vt52AnsiDivert // optional SGR extension, when vt52Color is configured
)

// vt52Parser implements the VT52 escape-code family, with an optional SGR
// extension gated by config.VT52Color (spec.md §2 "VT52 (with optional SGR
// extension)"). CR/LF are not owned by VT52 (spec.md §4.7), so they never
// reach FeedByte.
type vt52Parser struct {
	t     *Terminal
	state vt52State
	row   int

	graphicsMode bool
	fallback     *ansiParser
}

func newVT52Parser(t *Terminal) *vt52Parser {
	return &vt52Parser{t: t}
}

func (p *vt52Parser) Name() string { return "VT52" }

func (p *vt52Parser) FeedByte(b byte) FeedResult {
	switch p.state {
	case vt52Ground:
		return p.feedGround(b)
	case vt52Escape:
		return p.feedEscape(b)
	case vt52WaitRow:
		p.row = int(b) - 32
		p.state = vt52WaitCol
		return NoCharYet
	case vt52WaitCol:
		col := int(b) - 32
		p.t.Screen.CursorPosition(p.row, col)
		p.state = vt52Ground
		return OneChar
	case vt52AnsiDivert:
		r := p.fallback.FeedByte(b)
		if p.fallback.state == ansiGround {
			p.state = vt52Ground
		}
		return r
	}
	return NoCharYet
}

func (p *vt52Parser) feedGround(b byte) FeedResult {
	if b == 0x1B {
		p.state = vt52Escape
		return NoCharYet
	}
	if b < 0x20 || b == 0x7F {
		if HandleC0(p.t, b) {
			return OneChar
		}
		return NoCharYet
	}
	var ch rune
	if p.graphicsMode {
		ch = codepage.Map(codepage.VT52SpecialGraphics, b)
	} else {
		ch = p.t.decodeByte(b)
	}
	p.t.Screen.Print(ch)
	p.t.Status.LastChar = ch
	return OneChar
}

func (p *vt52Parser) feedEscape(b byte) FeedResult {
	s := p.t.Screen
	switch b {
	case 'A':
		s.CursorUp(1)
	case 'B':
		s.CursorDown(1)
	case 'C':
		s.CursorRight(1)
	case 'D':
		s.CursorLeft(1)
	case 'H':
		s.CursorPosition(0, 0)
	case 'I': // reverse line feed
		s.CursorUp(1)
	case 'J':
		s.EraseScreen(s.CursorY, s.CursorX, s.Height-1, s.Width-1, false)
	case 'K':
		s.EraseLine(s.CursorX, s.Width-1, false)
	case 'Y':
		p.state = vt52WaitRow
		return NoCharYet
	case 'Z': // identify: per spec.md §9 open question, emit ESC / K
		p.t.Status.QueueReply([]byte{0x1B, '/', 'K'})
	case 'F':
		p.graphicsMode = true
	case 'G':
		p.graphicsMode = false
	case '=':
		p.t.KeypadApplication = true
	case '>':
		p.t.KeypadApplication = false
	case '<':
		// Enter ANSI/VT100 mode: handled by the caller switching emulation;
		// this parser only needs to return to ground.
	case '[':
		if p.t.Config.VT52Color {
			p.fallback = newANSIParser(p.t)
			p.fallback.FeedByte(0x1B)
			p.fallback.FeedByte('[')
			p.state = vt52AnsiDivert
			return NoCharYet
		}
	}
	p.state = vt52Ground
	return ManyChars
}
