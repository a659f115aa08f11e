package term

import "github.com/wxmodem/retroterm/internal/term/codepage"

// NamedKey enumerates the non-Unicode key events the encoder understands
// (spec.md §4.8).
type NamedKey int

const (
	KeyUp NamedKey = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
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
	// There are no NamedKey values for F13-F36; xtermFunctionKeySeq below
	// covers F1-F12 only.
	KeyKeypad0
	KeyKeypad1
	KeyKeypad2
	KeyKeypad3
	KeyKeypad4
	KeyKeypad5
	KeyKeypad6
	KeyKeypad7
	KeyKeypad8
	KeyKeypad9
	KeyKeypadPlus
	KeyKeypadMinus
	KeyKeypadComma
	KeyKeypadPeriod
	KeyKeypadEnter
)

// KeyEvent is the normalised input to the encoder (spec.md §4.8).
type KeyEvent struct {
	Named   NamedKey
	IsNamed bool

	Rune rune // valid when !IsNamed

	Alt     bool
	Ctrl    bool
	Shift   bool
	Unicode bool // Rune should be treated as a full Unicode scalar, not Latin-1
}

// Keymap lets an external collaborator override named-key sequences,
// implementing the "user-bound keyboard" / "emulation-bound keyboard"
// priority tiers of spec.md §4.8 without this core owning any disk I/O
// itself (spec.md §6.5 "None owned by this core").
type Keymap map[NamedKey][]byte

// Encode implements the keystroke encoder (spec.md §4.8): priority order
// UserKeymap, then EmulationKeymap, then the hard-coded per-emulation
// table; Alt prepends ESC; after Enter, new-line mode appends LF; ASCII
// telnet transports always send CR+LF regardless of mode.
func (t *Terminal) Encode(ev KeyEvent, userKeymap, emulationKeymap Keymap, telnetASCII bool) []byte {
	var out []byte

	if ev.IsNamed {
		seq := lookupKeymap(ev.Named, userKeymap)
		if seq == nil {
			seq = lookupKeymap(ev.Named, emulationKeymap)
		}
		if seq == nil {
			seq = t.hardCodedSequence(ev.Named)
		}
		if seq == nil {
			// spec.md §7 "UnknownKey": empty sequence; caller may print a
			// diagnostic literal itself.
			return nil
		}
		out = append(out, seq...)
		if ev.Named == KeyEnter {
			out = appendNewlineIfNeeded(out, t, telnetASCII)
		}
	} else {
		out = t.encodeRune(ev.Rune, ev.Unicode, ev.Ctrl)
	}

	if ev.Alt {
		out = append([]byte{0x1B}, out...)
	}
	return out
}

func appendNewlineIfNeeded(out []byte, t *Terminal, telnetASCII bool) []byte {
	if telnetASCII || t.NewLineMode {
		out = append(out, 0x0A)
	}
	return out
}

func (t *Terminal) encodeRune(r rune, unicode bool, ctrl bool) []byte {
	// Ctrl masks a printable ASCII rune down into the C0 control range
	// (spec.md §4.8), the same rule every DEC/ANSI keyboard uses: Ctrl-A
	// through Ctrl-_ clear bits 5 and 6 of the key's base code.
	if ctrl && r >= 0x3F && r <= 0x7F {
		return []byte{byte(r) & 0x1F}
	}
	if unicode && (t.Emulation == EmuLinuxXterm) && t.UTF8Mode {
		buf := make([]byte, 4)
		n := codepage.UTF8Encode(r, buf)
		return buf[:n]
	}
	return []byte{byte(r & 0xFF)}
}

func lookupKeymap(k NamedKey, m Keymap) []byte {
	if m == nil {
		return nil
	}
	if seq, ok := m[k]; ok {
		return seq
	}
	return nil
}

// hardCodedSequence implements the per-emulation named-key tables spec.md
// §4.8 describes: "VT100 cursor keys emit ESC [ A in ANSI mode, ESC O A in
// VT100 application keypad mode, ESC A in VT52 mode".
func (t *Terminal) hardCodedSequence(k NamedKey) []byte {
	switch t.Emulation {
	case EmuVT52:
		return t.vt52Sequence(k)
	case EmuVT100, EmuLinuxXterm:
		return t.vtSequence(k)
	default:
		return t.ansiSequence(k)
	}
}

func (t *Terminal) ansiSequence(k NamedKey) []byte {
	switch k {
	case KeyUp:
		return []byte("\x1B[A")
	case KeyDown:
		return []byte("\x1B[B")
	case KeyRight:
		return []byte("\x1B[C")
	case KeyLeft:
		return []byte("\x1B[D")
	case KeyHome:
		return []byte("\x1B[H")
	case KeyEnd:
		return []byte("\x1B[F")
	case KeyInsert:
		return []byte("\x1B[2~")
	case KeyDelete:
		return []byte("\x1B[3~")
	case KeyPageUp:
		return []byte("\x1B[5~")
	case KeyPageDown:
		return []byte("\x1B[6~")
	case KeyBackspace:
		return t.backspaceSequence()
	case KeyTab:
		return []byte{0x09}
	case KeyEnter:
		return []byte{0x0D}
	case KeyEscape:
		return []byte{0x1B}
	}
	if seq := xtermFunctionKeySeq(k); seq != nil {
		return seq
	}
	return nil
}

func (t *Terminal) vtSequence(k NamedKey) []byte {
	// Cursor keys switch between CSI and SS3 lead-in depending on
	// application-cursor-key mode (spec.md §4.4/§4.8).
	lead := "\x1B["
	if !t.ArrowKeyANSI {
		lead = "\x1BO"
	}
	switch k {
	case KeyUp:
		return []byte(lead + "A")
	case KeyDown:
		return []byte(lead + "B")
	case KeyRight:
		return []byte(lead + "C")
	case KeyLeft:
		return []byte(lead + "D")
	}
	if t.KeypadApplication {
		if seq := keypadApplicationSeq(k); seq != nil {
			return seq
		}
	}
	return t.ansiSequence(k)
}

func (t *Terminal) vt52Sequence(k NamedKey) []byte {
	switch k {
	case KeyUp:
		return []byte("\x1BA")
	case KeyDown:
		return []byte("\x1BB")
	case KeyRight:
		return []byte("\x1BC")
	case KeyLeft:
		return []byte("\x1BD")
	case KeyHome:
		return []byte("\x1BH")
	case KeyBackspace:
		return t.backspaceSequence()
	case KeyTab:
		return []byte{0x09}
	case KeyEnter:
		return []byte{0x0D}
	case KeyEscape:
		return []byte{0x1B}
	}
	return nil
}

func (t *Terminal) backspaceSequence() []byte {
	if t.Config.HardBackspace {
		return []byte{0x08}
	}
	return []byte{0x7F}
}

// keypadApplicationSeq covers the numeric keypad's SS3-prefixed sequences
// used in DECKPAM (application keypad) mode.
func keypadApplicationSeq(k NamedKey) []byte {
	m := map[NamedKey]byte{
		KeyKeypad0: 'p', KeyKeypad1: 'q', KeyKeypad2: 'r', KeyKeypad3: 's',
		KeyKeypad4: 't', KeyKeypad5: 'u', KeyKeypad6: 'v', KeyKeypad7: 'w',
		KeyKeypad8: 'x', KeyKeypad9: 'y',
		KeyKeypadMinus: 'm', KeyKeypadComma: 'l', KeyKeypadPeriod: 'n',
		KeyKeypadEnter: 'M',
	}
	if b, ok := m[k]; ok {
		return []byte{0x1B, 'O', b}
	}
	return nil
}

// xtermFunctionKeySeq implements the CSI-~ and SS3-letter function-key
// sequences common to ANSI/xterm terminfo entries.
func xtermFunctionKeySeq(k NamedKey) []byte {
	switch k {
	case KeyF1:
		return []byte("\x1BOP")
	case KeyF2:
		return []byte("\x1BOQ")
	case KeyF3:
		return []byte("\x1BOR")
	case KeyF4:
		return []byte("\x1BOS")
	case KeyF5:
		return []byte("\x1B[15~")
	case KeyF6:
		return []byte("\x1B[17~")
	case KeyF7:
		return []byte("\x1B[18~")
	case KeyF8:
		return []byte("\x1B[19~")
	case KeyF9:
		return []byte("\x1B[20~")
	case KeyF10:
		return []byte("\x1B[21~")
	case KeyF11:
		return []byte("\x1B[23~")
	case KeyF12:
		return []byte("\x1B[24~")
	}
	return nil
}
