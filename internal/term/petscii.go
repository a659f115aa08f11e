package term

import "github.com/wxmodem/retroterm/internal/term/codepage"

// petsciiColorEntry is one of the 16 CBM colour codes, downsampled to the
// shared 8-colour/bright palette (spec.md §9 "Colour packing" applies
// here too: PETSCII's colour space doesn't match the shared palette 1:1).
type petsciiColorEntry struct {
	color  Color
	bright bool
}

var petsciiColorCodes = map[byte]petsciiColorEntry{
	0x90: {Black, false},
	0x05: {White, false},
	0x1C: {Red, false},
	0x9F: {Cyan, false},
	0x9C: {Magenta, false},
	0x1E: {Green, false},
	0x1F: {Blue, false},
	0x9E: {Yellow, false},
	0x81: {Red, true},
	0x95: {Yellow, false},
	0x96: {Red, true},
	0x97: {Black, true},
	0x98: {White, false},
	0x99: {Green, true},
	0x9A: {Blue, true},
	0x9B: {White, true},
}

type petsciiParser struct {
	t *Terminal

	upperMode bool // true: letters uppercase, 0x61-0x7A are graphics
	reverse   bool
	textColor Color
	bright    bool

	isC128 bool

	ansiDivert *ansiParser
}

func newPETSCIIParser(t *Terminal) *petsciiParser {
	p := &petsciiParser{t: t, upperMode: true, textColor: DefaultAttr.FG}
	p.isC128 = !t.Config.PETSCIIIsC64
	return p
}

func (p *petsciiParser) Name() string { return "PETSCII" }

func (p *petsciiParser) FeedByte(b byte) FeedResult {
	if p.ansiDivert != nil {
		r := p.ansiDivert.FeedByte(b)
		if p.ansiDivert.state == ansiGround {
			p.ansiDivert = nil
		}
		return r
	}

	if b == 0x1B {
		if p.t.Config.PETSCIIANSIFallback {
			p.ansiDivert = newANSIParser(p.t)
			p.ansiDivert.FeedByte(b)
			return NoCharYet
		}
		return NoCharYet
	}

	if c, handled := p.handleControl(b); handled {
		return c
	}

	ch := petsciiToRune(b, p.upperMode)
	p.applyCurrentAttr()
	p.t.Screen.Print(ch)
	p.t.Status.LastChar = ch
	return OneChar
}

func (p *petsciiParser) applyCurrentAttr() {
	a := &p.t.Screen.CurAttr
	if p.reverse {
		a.FG = DefaultAttr.FG
		a.BG = p.textColor
		a.Bright = false
	} else {
		a.FG = p.textColor
		a.BG = DefaultAttr.BG
		a.Bright = p.bright
	}
}

// handleControl dispatches the 0x00-0x1F / 0x80-0x9F control range
// (spec.md §4.6). It returns handled=false for bytes that are ordinary
// printable PETSCII positions (there is overlap: e.g. 0x20-0x7E is always
// printable).
func (p *petsciiParser) handleControl(b byte) (FeedResult, bool) {
	if entry, ok := petsciiColorCodes[b]; ok {
		p.textColor = entry.color
		p.bright = entry.bright
		return NoCharYet, true
	}
	switch b {
	case 0x0D: // CR: PETSCII owns CR/LF (spec.md §4.7)
		p.t.Screen.CarriageReturn()
		p.t.Screen.LineFeed()
		return OneChar, true
	case 0x0A:
		if p.isC128 {
			p.t.Screen.LineFeed()
			return OneChar, true
		}
		return NoCharYet, true
	case 0x09:
		if p.isC128 {
			p.t.Screen.CursorRight(1)
			return OneChar, true
		}
		return NoCharYet, true
	case 0x12: // RVS ON
		p.reverse = true
		return NoCharYet, true
	case 0x92: // RVS OFF
		p.reverse = false
		return NoCharYet, true
	case 0x0E: // lowercase mode (shift to a-z letters)
		p.upperMode = false
		return NoCharYet, true
	case 0x8E: // uppercase mode
		p.upperMode = true
		return NoCharYet, true
	case 0x93: // CLR/HOME with clear
		p.t.Screen.EraseScreen(0, 0, p.t.Screen.Height-1, p.t.Screen.Width-1, false)
		p.t.Screen.CursorPosition(0, 0)
		return ManyChars, true
	case 0x13: // HOME
		p.t.Screen.CursorPosition(0, 0)
		return OneChar, true
	case 0x11: // cursor down
		p.cursorDownWrap()
		return OneChar, true
	case 0x91: // cursor up
		p.t.Screen.CursorUp(1)
		return OneChar, true
	case 0x1D: // cursor right
		p.cursorRightWrap()
		return OneChar, true
	case 0x9D: // cursor left
		p.t.Screen.CursorLeft(1)
		return OneChar, true
	case 0x14: // delete
		p.t.Screen.DeleteCharacter(1)
		return OneChar, true
	case 0x94: // insert
		p.t.Screen.InsertBlanks(1)
		return OneChar, true
	}
	if b < 0x20 || (b >= 0x80 && b <= 0x9F) {
		// Unrecognised control byte: discard (spec.md §7 MalformedSequence
		// for the simplest case — no printable glyph exists for it).
		return NoCharYet, true
	}
	return NoCharYet, false
}

// cursorRightWrap implements the C64 column-wrap-at-39 behaviour spec.md
// §4.6 documents; the C128 variant wraps the same way at the screen's last
// column.
func (p *petsciiParser) cursorRightWrap() {
	s := p.t.Screen
	maxCol := s.Width - 1
	if !p.isC128 {
		maxCol = 39
		if maxCol > s.Width-1 {
			maxCol = s.Width - 1
		}
	}
	if s.CursorX >= maxCol {
		s.CursorX = 0
		s.CursorDown(1)
		return
	}
	s.CursorRight(1)
}

func (p *petsciiParser) cursorDownWrap() {
	s := p.t.Screen
	if !p.isC128 && s.CursorY >= s.Height-1 {
		s.CursorY = s.Height - 1
		return
	}
	s.CursorDown(1)
}

// petsciiToRune maps a byte according to the uppercase/lowercase mode
// alone; reverse mode does not change the glyph and is rendered by
// applyCurrentAttr's colour swap. Letters swap case between the two modes;
// the 0x61-0x7A graphics range is approximated with DEC line-drawing
// glyphs since no PETSCII glyph table exists in the reference pack (see
// DESIGN.md).
func petsciiToRune(b byte, upperMode bool) rune {
	switch {
	case b >= 0x41 && b <= 0x5A:
		if upperMode {
			return rune(b)
		}
		return rune(b) + 0x20
	case b >= 0x61 && b <= 0x7A:
		if upperMode {
			return codepage.Map(codepage.DECSpecialGraphics, b)
		}
		return rune(b) - 0x20
	case b == 0x40:
		return '@'
	case b == 0x5B:
		return '['
	case b == 0x5C:
		return '£'
	case b == 0x5D:
		return ']'
	case b == 0x5E:
		return '↑'
	case b == 0x5F:
		return '←'
	case b >= 0x20 && b <= 0x3F:
		return rune(b)
	case b == 0x7E:
		return 'π'
	default:
		return '?'
	}
}
