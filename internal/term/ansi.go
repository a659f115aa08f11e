package term

// ansiState is the ANSI/CSI scan state (spec.md §9 "loop + tagged return"
// instead of the source's goto-driven re-drive).
type ansiState int

const (
	ansiGround ansiState = iota
	ansiEscape
	ansiCSI
	ansiMusic // PCBoard-style ANSI music: bytes between 0x0E and 0x0F are a
	// note sequence for an external sound collaborator, not screen output.
)

// ansiParser implements CSI + SGR + cursor motion + the music sub-grammar
// (spec.md §4 component 5). It is also embedded by AVATAR's fallback path
// (avatar.go) and reused, in a restricted SGR-only form, by PETSCII/ATASCII
// fallback.
type ansiParser struct {
	t     *Terminal
	state ansiState

	params   []int
	curParam int
	haveParam bool
	private  byte // '?' if the CSI sequence carries a private-mode prefix

	savedX, savedY int // CSI s / CSI u cursor save-restore
}

func newANSIParser(t *Terminal) *ansiParser {
	return &ansiParser{t: t}
}

func (p *ansiParser) Name() string { return "ANSI" }

func (p *ansiParser) FeedByte(b byte) FeedResult {
	switch p.state {
	case ansiGround:
		return p.feedGround(b)
	case ansiEscape:
		return p.feedEscape(b)
	case ansiCSI:
		return p.feedCSI(b)
	case ansiMusic:
		if b == 0x0F || b == 0x0E {
			p.state = ansiGround
		}
		return NoCharYet
	}
	return NoCharYet
}

func (p *ansiParser) feedGround(b byte) FeedResult {
	switch {
	case b == 0x1B:
		p.t.Pending.Reset()
		p.t.Pending.Push(b)
		p.state = ansiEscape
		return NoCharYet
	case b == 0x0E:
		p.state = ansiMusic
		return NoCharYet
	case b < 0x20 || b == 0x7F:
		if HandleC0(p.t, b) {
			return OneChar
		}
		return NoCharYet
	default:
		ch := p.t.decodeByte(b)
		if ch == 0 && p.t.UTF8Mode {
			return NoCharYet
		}
		p.t.Screen.Print(ch)
		p.t.Status.LastChar = ch
		return OneChar
	}
}

func (p *ansiParser) feedEscape(b byte) FeedResult {
	p.t.Pending.Push(b)
	switch b {
	case '[':
		p.state = ansiCSI
		p.params = p.params[:0]
		p.curParam = 0
		p.haveParam = false
		p.private = 0
		return NoCharYet
	case 'c': // RIS full reset
		p.t.Reset()
		p.state = ansiGround
		return ManyChars
	default:
		// Unrecognised ESC sequence: spec.md §7 MalformedSequence — flush
		// pending bytes as plain characters.
		p.flushPendingAsText()
		p.state = ansiGround
		return ManyChars
	}
}

func (p *ansiParser) feedCSI(b byte) FeedResult {
	p.t.Pending.Push(b)
	switch {
	case b == '?' && len(p.params) == 0 && !p.haveParam:
		p.private = '?'
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
		result := p.dispatchCSI(b, p.params)
		p.state = ansiGround
		p.t.Pending.Reset()
		return result
	default:
		// Intermediate bytes (0x20-0x2F) are accepted but not acted on by
		// this parser's CSI subset.
		return NoCharYet
	}
}

func (p *ansiParser) param(params []int, i, def int) int {
	if i >= len(params) || params[i] == 0 {
		return def
	}
	return params[i]
}

func (p *ansiParser) dispatchCSI(final byte, params []int) FeedResult {
	s := p.t.Screen
	if final != 'm' && (p.t.Emulation == EmuPETSCII || p.t.Emulation == EmuATASCII) {
		// PETSCII/ATASCII fallback: only SGR is acted on.
		return NoCharYet
	}
	switch final {
	case 'A':
		s.CursorUp(p.param(params, 0, 1))
	case 'B':
		s.CursorDown(p.param(params, 0, 1))
	case 'C':
		s.CursorRight(p.param(params, 0, 1))
	case 'D':
		s.CursorLeft(p.param(params, 0, 1))
	case 'H', 'f':
		y := p.param(params, 0, 1) - 1
		x := p.param(params, 1, 1) - 1
		s.CursorPosition(y, x)
	case 'J':
		p.eraseDisplay(p.param(params, 0, 0))
	case 'K':
		p.eraseLine(p.param(params, 0, 0))
	case 'm':
		p.applySGR(params)
	case 's':
		p.savedX, p.savedY = s.CursorX, s.CursorY
	case 'u':
		s.CursorX, s.CursorY = p.savedX, p.savedY
	default:
		return NoCharYet
	}
	return ManyChars
}

func (p *ansiParser) eraseDisplay(mode int) {
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

func (p *ansiParser) eraseLine(mode int) {
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

// applySGR implements the Select Graphic Rendition subset spec.md §4.4
// documents (shared by ANSI, AVATAR's fallback, and VT100/220's own SGR).
func (p *ansiParser) applySGR(params []int) {
	applySGRParams(p.t, params)
}

// applySGRParams is the package-level SGR implementation vt100.go's richer
// CSI dispatch also calls, so the 16-colour/256-colour/truecolour handling
// is written once.
func applySGRParams(t *Terminal, params []int) {
	a := &t.Screen.CurAttr
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		code := params[i]
		switch {
		case code == 0:
			*a = DefaultAttr
		case code == 1:
			a.Bold = true
		case code == 4:
			a.Underline = true
		case code == 5:
			a.Blink = true
		case code == 7:
			a.Reverse = true
		case code == 22:
			a.Bold, a.Bright = false, false
		case code == 24:
			a.Underline = false
		case code == 25:
			a.Blink = false
		case code == 27:
			a.Reverse = false
		case code >= 30 && code <= 37:
			a.FG = Color(code - 30)
		case code == 38 && i+1 < len(params):
			i = extendedColorParams(params, i, &a.FG)
		case code == 39:
			a.FG = DefaultAttr.FG
		case code >= 40 && code <= 47:
			a.BG = Color(code - 40)
		case code == 48 && i+1 < len(params):
			i = extendedColorParams(params, i, &a.BG)
		case code == 49:
			a.BG = DefaultAttr.BG
		case code >= 90 && code <= 97:
			a.FG = Color(code - 90)
			a.Bright = true
		case code >= 100 && code <= 107:
			a.BG = Color(code - 100)
		}
	}
}

// extendedColorParams parses the `38;5;n` / `38;2;r;g;b` (and 48;...) forms,
// downsampling to the shared 8-colour palette via NearestBasicColor
// (spec.md §9 "Colour packing"), and returns the index of the last
// parameter it consumed.
func extendedColorParams(params []int, i int, target *Color) int {
	mode := params[i+1]
	switch mode {
	case 5:
		if i+2 < len(params) {
			if n := params[i+2]; n >= 0 && n <= 255 {
				*target, _ = Resolve256(n)
			}
			return i + 2
		}
	case 2:
		if i+4 < len(params) {
			r, g, b := params[i+2], params[i+3], params[i+4]
			*target, _ = ResolveTruecolor(uint8(r), uint8(g), uint8(b))
			return i + 4
		}
	}
	return i + 1
}

func (p *ansiParser) flushPendingAsText() {
	for _, b := range p.t.Pending.Bytes() {
		ch := p.t.decodeByte(b)
		if ch != 0 {
			p.t.Screen.Print(ch)
		}
	}
	p.t.Pending.Reset()
}
