package term

// avatarState is AVATAR's scan state (spec.md §4.3).
type avatarState int

const (
	avatarGround avatarState = iota
	avatarEscape    // saw top-level ESC, deciding between ANSI fallback and
	                // plain diversion
	avatarCtrlV     // saw 0x16, waiting for the command byte
	avatarArgs      // accumulating a fixed-arity command's argument bytes
	avatarRLESingle // top-level 0x19: waiting for <char> <count>
	avatarPattern   // ^V^Y: accumulating <len> <pattern...> <count>
	avatarAnsiDivert
)

// avatarCmd names the ^V sub-commands spec.md §4.3 documents.
type avatarCmd byte

const (
	cmdAttr       avatarCmd = 'A' - '@' // ^A
	cmdBlinkOn    avatarCmd = 'B' - '@'
	cmdUp         avatarCmd = 'C' - '@'
	cmdDown       avatarCmd = 'D' - '@'
	cmdLeft       avatarCmd = 'E' - '@'
	cmdRight      avatarCmd = 'F' - '@'
	cmdEraseEOL   avatarCmd = 'G' - '@'
	cmdPosition   avatarCmd = 'H' - '@'
	cmdInsertOn   avatarCmd = 'I' - '@'
	cmdRectUp     avatarCmd = 'J' - '@'
	cmdRectDown   avatarCmd = 'K' - '@'
	cmdClearArea  avatarCmd = 'L' - '@'
	cmdClearArea2 avatarCmd = 'M' - '@' // synonym of ^L, see DESIGN.md open question
	cmdDeleteChar avatarCmd = 'N' - '@'
	cmdInsertOff  avatarCmd = 'P' - '@'
	cmdPatternRLE avatarCmd = 'Y' - '@'
)

// avatarArity gives the number of argument bytes each ^V command consumes
// after its command byte (spec.md §4.3). cmdPatternRLE is variable-length
// and handled separately by avatarPattern.
var avatarArity = map[avatarCmd]int{
	cmdAttr:       1,
	cmdBlinkOn:    0,
	cmdUp:         0,
	cmdDown:       0,
	cmdLeft:       0,
	cmdRight:      0,
	cmdEraseEOL:   0,
	cmdPosition:   2,
	cmdInsertOn:   0,
	cmdRectUp:     5,
	cmdRectDown:   5,
	cmdClearArea:  4,
	cmdClearArea2: 4,
	cmdDeleteChar: 0,
	cmdInsertOff:  0,
}

type avatarParser struct {
	t     *Terminal
	state avatarState

	cmd  avatarCmd
	args []byte

	rleChar  byte
	patLen   int
	pattern  []byte
	patCount int

	fallback *ansiParser // reused for the ANSI-fallback diversion
}

func newAvatarParser(t *Terminal) *avatarParser {
	return &avatarParser{t: t, fallback: newANSIParser(t)}
}

func (p *avatarParser) Name() string { return "AVATAR" }

func (p *avatarParser) FeedByte(b byte) FeedResult {
	for {
		switch p.state {
		case avatarGround:
			return p.feedGround(b)
		case avatarEscape:
			return p.feedEscapeDecide(b)
		case avatarAnsiDivert:
			return p.feedAnsiDivert(b)
		case avatarCtrlV:
			return p.feedCtrlV(b)
		case avatarArgs:
			return p.feedArgs(b)
		case avatarRLESingle:
			return p.feedRLESingle(b)
		case avatarPattern:
			return p.feedPattern(b)
		}
		return NoCharYet
	}
}

func (p *avatarParser) feedGround(b byte) FeedResult {
	switch b {
	case 0x16: // ^V
		p.state = avatarCtrlV
		p.t.Pending.Reset()
		return NoCharYet
	case 0x19: // top-level RLE
		p.state = avatarRLESingle
		p.args = p.args[:0]
		return NoCharYet
	case 0x0C: // top-level form feed: clear + home
		p.t.Screen.FormFeedPC()
		return OneChar
	case 0x1B:
		p.state = avatarEscape
		return NoCharYet
	case 0x0D, 0x0A:
		HandleC0(p.t, b)
		return OneChar
	default:
		if b < 0x20 || b == 0x7F {
			if HandleC0(p.t, b) {
				return OneChar
			}
			return NoCharYet
		}
		ch := p.t.decodeByte(b)
		p.t.Screen.Print(ch)
		p.t.Status.LastChar = ch
		return OneChar
	}
}

func (p *avatarParser) feedEscapeDecide(b byte) FeedResult {
	if b == '[' && p.t.Config.AvatarColor {
		p.state = avatarAnsiDivert
		p.fallback = newANSIParser(p.t)
		p.fallback.FeedByte(0x1B)
		return p.fallback.FeedByte(b)
	}
	p.state = avatarGround
	return p.dispositionUnrecognized([]byte{0x1B, b})
}

func (p *avatarParser) feedAnsiDivert(b byte) FeedResult {
	r := p.fallback.FeedByte(b)
	if r == OneChar || r == ManyChars {
		if p.fallback.state == ansiGround {
			p.state = avatarGround
		}
	}
	return r
}

func (p *avatarParser) feedCtrlV(b byte) FeedResult {
	cmd := avatarCmd(b)
	if cmd == cmdPatternRLE {
		p.state = avatarPattern
		p.patLen = -1
		p.pattern = p.pattern[:0]
		return NoCharYet
	}
	arity, ok := avatarArity[cmd]
	if !ok {
		p.state = avatarGround
		return p.dispositionUnrecognized([]byte{0x16, b})
	}
	p.cmd = cmd
	p.args = p.args[:0]
	if arity == 0 {
		p.state = avatarGround
		return p.execCommand(nil)
	}
	p.state = avatarArgs
	return NoCharYet
}

func (p *avatarParser) feedArgs(b byte) FeedResult {
	p.args = append(p.args, b)
	if len(p.args) >= avatarArity[p.cmd] {
		p.state = avatarGround
		return p.execCommand(p.args)
	}
	return NoCharYet
}

// execCommand carries out a fully-read ^V command (spec.md §4.3).
func (p *avatarParser) execCommand(args []byte) FeedResult {
	s := p.t.Screen
	switch p.cmd {
	case cmdAttr:
		s.CurAttr = DecodeCGA(CGAAttr(args[0]))
	case cmdBlinkOn:
		s.CurAttr.Blink = true
	case cmdUp:
		s.CursorUp(1)
	case cmdDown:
		s.CursorDown(1)
	case cmdLeft:
		s.CursorLeft(1)
	case cmdRight:
		s.CursorRight(1)
	case cmdEraseEOL:
		s.EraseLine(s.CursorX, s.Width-1, false)
	case cmdPosition:
		s.CursorPosition(int(args[0])-1, int(args[1])-1)
	case cmdInsertOn:
		s.InsertMode = true
	case cmdRectUp, cmdRectDown:
		n, top, left, bottom, right := int(args[0]), int(args[1])-1, int(args[2])-1, int(args[3])-1, int(args[4])-1
		if p.cmd == cmdRectUp {
			s.RectangleScrollUp(top, left, bottom, right, n)
		} else {
			s.RectangleScrollDown(top, left, bottom, right, n)
		}
	case cmdClearArea, cmdClearArea2:
		attr, ch, lines, cols := args[0], args[1], int(args[2]), int(args[3])
		s.CurAttr = DecodeCGA(CGAAttr(attr))
		s.FillLineWithCharacter(s.CursorX, s.CursorX+cols-1, rune(ch), false)
		for l := 1; l < lines; l++ {
			if line := s.Line(s.CursorY + l); line != nil {
				save := s.CursorY
				s.CursorY += l
				s.FillLineWithCharacter(s.CursorX, s.CursorX+cols-1, rune(ch), false)
				s.CursorY = save
			}
		}
	case cmdDeleteChar:
		s.DeleteCharacter(1)
	case cmdInsertOff:
		s.InsertMode = false
	}
	return ManyChars
}

func (p *avatarParser) feedRLESingle(b byte) FeedResult {
	p.args = append(p.args, b)
	if len(p.args) < 2 {
		return NoCharYet
	}
	ch, count := p.args[0], int(p.args[1])
	p.state = avatarGround
	for i := 0; i < count; i++ {
		if ch < 0x20 || ch == 0x7F {
			HandleC0(p.t, ch)
		} else {
			r := p.t.decodeByte(ch)
			p.t.Screen.Print(r)
		}
	}
	return ManyChars
}

func (p *avatarParser) feedPattern(b byte) FeedResult {
	if p.patLen < 0 {
		p.patLen = int(b)
		if p.patLen == 0 {
			p.state = avatarGround
			return ManyChars
		}
		return NoCharYet
	}
	if len(p.pattern) < p.patLen {
		p.pattern = append(p.pattern, b)
		return NoCharYet
	}
	// b is now the repeat count.
	p.patCount = int(b)
	p.state = avatarGround

	total := make([]byte, 0, p.patCount*p.patLen)
	for i := 0; i < p.patCount; i++ {
		total = append(total, p.pattern...)
	}
	p.t.Repeat.Load(total)
	return RepeatState
}

// dispositionUnrecognized implements spec.md §4.3's fallback rule: on any
// byte not matching the current sub-grammar, divert the accumulated pending
// bytes through ANSI fallback if enabled, else emit them as plain
// codepage-mapped characters.
func (p *avatarParser) dispositionUnrecognized(pending []byte) FeedResult {
	if p.t.Config.AvatarANSIFallback {
		p.fallback = newANSIParser(p.t)
		var last FeedResult = NoCharYet
		for _, b := range pending {
			last = p.fallback.FeedByte(b)
		}
		if p.fallback.state != ansiGround {
			p.state = avatarAnsiDivert
		}
		return last
	}
	for _, b := range pending {
		if b < 0x20 || b == 0x7F {
			HandleC0(p.t, b)
			continue
		}
		ch := p.t.decodeByte(b)
		p.t.Screen.Print(ch)
	}
	return ManyChars
}
