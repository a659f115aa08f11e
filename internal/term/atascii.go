package term

// atasciiParser implements the Atari 8-bit ATASCII character mapping
// (spec.md §4.6). Unlike PETSCII, ATASCII's "reverse mode" is not a
// persistent toggle: the high bit of each byte directly selects the
// inverse-video rendering of the same glyph (0x80-0xFF mirror 0x00-0x7F).
// No ATASCII ANSI-fallback configuration option exists in spec.md §6.4, so
// (per the DESIGN.md open-question resolution) the fallback is always
// enabled rather than gated by a missing option.
type atasciiParser struct {
	t *Terminal

	ansiDivert *ansiParser
}

func newATASCIIParser(t *Terminal) *atasciiParser {
	return &atasciiParser{t: t}
}

func (p *atasciiParser) Name() string { return "ATASCII" }

func (p *atasciiParser) FeedByte(b byte) FeedResult {
	if p.ansiDivert != nil {
		r := p.ansiDivert.FeedByte(b)
		if p.ansiDivert.state == ansiGround {
			p.ansiDivert = nil
		}
		return r
	}

	if b == 0x1B {
		p.ansiDivert = newANSIParser(p.t)
		p.ansiDivert.FeedByte(b)
		return NoCharYet
	}

	if r, handled := p.handleControl(b); handled {
		return r
	}

	reverse := b >= 0x80
	base := b
	if reverse {
		base -= 0x80
	}
	ch := atasciiToRune(base)
	p.t.Screen.CurAttr.Reverse = reverse
	p.t.Screen.Print(ch)
	p.t.Status.LastChar = ch
	return OneChar
}

func (p *atasciiParser) handleControl(b byte) (FeedResult, bool) {
	s := p.t.Screen
	switch b {
	case 0x9B: // EOL
		s.CarriageReturn()
		s.LineFeed()
		return OneChar, true
	case 0x1C:
		s.CursorUp(1)
		return OneChar, true
	case 0x1D:
		s.CursorDown(1)
		return OneChar, true
	case 0x1E:
		s.CursorLeft(1)
		return OneChar, true
	case 0x1F:
		s.CursorRight(1)
		return OneChar, true
	case 0x7D:
		s.EraseScreen(0, 0, s.Height-1, s.Width-1, false)
		s.CursorPosition(0, 0)
		return ManyChars, true
	case 0x7E:
		s.CursorLeft(1)
		s.DeleteCharacter(1)
		return OneChar, true
	case 0x7F:
		p.tabForward()
		return OneChar, true
	case 0xFE:
		s.DeleteLine(1)
		return OneChar, true
	case 0xFF:
		s.InsertLine(1)
		return OneChar, true
	}
	if b < 0x20 {
		return NoCharYet, true
	}
	return NoCharYet, false
}

func (p *atasciiParser) tabForward() {
	next := ((p.t.Screen.CursorX / 8) + 1) * 8
	if next >= p.t.Screen.Width {
		next = p.t.Screen.Width - 1
	}
	p.t.Screen.CursorX = next
}

// atasciiToRune maps the base (0x00-0x7F) ATASCII code to Unicode. The
// alphanumeric and punctuation range matches ASCII; the handful of Atari
// graphics/international glyphs are approximated with their closest
// Unicode symbol since no ATASCII glyph table exists in the reference
// pack (see DESIGN.md).
func atasciiToRune(b byte) rune {
	switch {
	case b >= 0x20 && b <= 0x5F:
		return rune(b)
	case b >= 0x60 && b <= 0x7A:
		return rune(b)
	case b == 0x00:
		return '♥'
	case b == 0x01:
		return '●'
	case b == 0x02:
		return '▗'
	default:
		return '?'
	}
}
