package term

import (
	"github.com/wxmodem/retroterm/internal/config"
	"github.com/wxmodem/retroterm/internal/term/codepage"
)

// Emulation identifies which protocol parser is currently active.
type Emulation int

const (
	EmuTTY Emulation = iota
	EmuANSI
	EmuAvatar
	EmuVT52
	EmuVT100
	EmuLinuxXterm
	EmuPETSCII
	EmuATASCII
	EmuDebug
)

func (e Emulation) String() string {
	switch e {
	case EmuTTY:
		return "TTY"
	case EmuANSI:
		return "ANSI"
	case EmuAvatar:
		return "AVATAR"
	case EmuVT52:
		return "VT52"
	case EmuVT100:
		return "VT100"
	case EmuLinuxXterm:
		return "LINUX-XTERM"
	case EmuPETSCII:
		return "PETSCII"
	case EmuATASCII:
		return "ATASCII"
	case EmuDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ownsCRLF reports whether an emulation handles CR/LF itself instead of
// relying on the dispatcher's shared preprocessing (spec.md §4.7). AVATAR is
// named in both the "does not own" and "owns" sentences of the source
// description; this core follows the more specific, unqualified second
// sentence and treats AVATAR as owning its own CR/LF (see DESIGN.md).
func ownsCRLF(e Emulation) bool {
	switch e {
	case EmuVT100, EmuLinuxXterm, EmuAvatar, EmuPETSCII, EmuATASCII, EmuDebug:
		return true
	default:
		return false
	}
}

// BellFunc is invoked whenever a BEL (0x07) is processed, or by protocols
// that synthesise a bell from a Linux setterm sequence. The core never
// produces audio itself; this is the external collaborator hook (spec.md
// §1 "Non-goals": "audio playback beyond a bell signal").
type BellFunc func()

// Terminal is the single explicit context threaded through every parser
// entry point (spec.md §9 "Shared mutable state -> explicit context"),
// replacing what the source repository kept as module-level globals
// (q_status, q_emul_buffer, and their relatives).
type Terminal struct {
	Screen *Screen
	Status Status
	Pending Pending
	Repeat  RepeatBuffer
	Tabs    *TabStops

	Config config.Emulation

	Emulation Emulation
	parser    Parser

	NewLineMode     bool
	PCStyleFormFeed bool

	KeypadApplication bool
	ArrowKeyANSI      bool // true: ANSI cursor keys (CSI), false: application cursor keys (SS3)

	// Codepage selects the 8-bit table used by decodeByte; UTF8Mode (Linux/
	// xterm only) switches input decoding to the incremental UTF-8 DFA
	// instead (spec.md §4.1/§4.5).
	Codepage  codepage.ID
	UTF8Mode  bool
	utf8State uint32
	utf8Codep rune

	// BracketedPasteMode and MouseMode/MouseEncoding are set by the
	// Linux/xterm parser's private-mode handling and read by the keystroke
	// encoder (spec.md §4.8's modifier-dependent encoding).
	BracketedPasteMode bool
	MouseMode          int
	MouseEncoding      int

	onBell BellFunc
}

// decodeByte maps an incoming byte to a Unicode code point using the active
// codepage, or feeds it through the UTF-8 DFA when UTF8Mode is set. While a
// multi-byte UTF-8 sequence is in progress it returns 0 (no char yet);
// callers only print the rune once the DFA reaches UTF8Accept, and reset to
// U+FFFD on UTF8Reject (spec.md §7 "InvalidUtf8").
func (t *Terminal) decodeByte(b byte) rune {
	if !t.UTF8Mode {
		return codepage.Map(t.Codepage, b)
	}
	switch codepage.DecodeStep(&t.utf8State, &t.utf8Codep, b) {
	case codepage.UTF8Accept:
		return t.utf8Codep
	case codepage.UTF8Reject:
		t.utf8State = codepage.UTF8Accept
		t.utf8Codep = 0
		return 0xFFFD
	default:
		return 0
	}
}

// NewTerminal allocates a Terminal with the given viewport size and
// emulation configuration, ready to receive bytes via FeedByte.
func NewTerminal(width, height int, cfg config.Emulation, onBell BellFunc) *Terminal {
	t := &Terminal{
		Config:      cfg,
		NewLineMode: false,
		onBell:      onBell,
	}
	t.Screen = NewScreen(width, height, cfg.ScrollbackMaxLines)
	t.Screen.LineWrap = cfg.LineWrap
	t.Screen.OriginMode = cfg.OriginMode
	t.Screen.InsertMode = cfg.InsertMode
	t.Tabs = NewTabStops(width)
	t.Status.AnswerbackMessage = cfg.Answerback
	t.PCStyleFormFeed = false
	return t
}

// Bell invokes the configured bell callback, if any.
func (t *Terminal) Bell() {
	if t.onBell != nil {
		t.onBell()
	}
}

// SwitchEmulation performs the reset-plus-reload described in spec.md §3
// "Lifetimes": full reset, then installation of the named parser with its
// emulation-dependent defaults.
func (t *Terminal) SwitchEmulation(e Emulation) {
	t.Emulation = e
	t.Reset()
	t.parser = newParserFor(e, t)
}

// Reset implements spec.md §7 "ResetRequested": all parser state, Pending,
// RepeatBuffer, scroll region, attribute, and screen-level modes return to
// emulation defaults. It is idempotent and may be invoked between any two
// bytes (spec.md §5 "Cancellation").
func (t *Terminal) Reset() {
	t.Pending.Reset()
	t.Repeat.Load(nil)
	t.Screen.Reset()
	t.Screen.LineWrap = t.Config.LineWrap
	t.Screen.OriginMode = t.Config.OriginMode
	t.Screen.InsertMode = t.Config.InsertMode
	t.Tabs.ResetDefault()
	t.NewLineMode = false
	t.KeypadApplication = false
	t.ArrowKeyANSI = true
	t.Status.LastChar = 0
	t.BracketedPasteMode = false
	t.MouseMode = 0
	t.MouseEncoding = 0

	// Every parser's local scan-state returns to its initial state too
	// (spec.md §3 "Lifetimes"); the simplest faithful way to guarantee that
	// is to rebuild the parser, rather than give each one its own Reset
	// method to keep in sync.
	if t.parser != nil {
		t.parser = newParserFor(t.Emulation, t)
	}
}

func newParserFor(e Emulation, t *Terminal) Parser {
	switch e {
	case EmuTTY:
		return newTTYParser(t)
	case EmuANSI:
		return newANSIParser(t)
	case EmuAvatar:
		return newAvatarParser(t)
	case EmuVT52:
		return newVT52Parser(t)
	case EmuVT100:
		return newVT100Parser(t, false)
	case EmuLinuxXterm:
		return newVT100Parser(t, true)
	case EmuPETSCII:
		return newPETSCIIParser(t)
	case EmuATASCII:
		return newATASCIIParser(t)
	case EmuDebug:
		return newDebugParser(t)
	default:
		return newTTYParser(t)
	}
}

// FeedByte is the dispatcher's per-byte entry point (spec.md §4.7). It
// applies the shared CR/LF preprocessing for emulations that don't own
// their own, tracks bytes_received, delegates to the active parser, and
// drains RepeatBuffer when the parser asks for a re-drive.
func (t *Terminal) FeedByte(b byte) FeedResult {
	t.Status.BytesReceived++

	if !ownsCRLF(t.Emulation) {
		switch b {
		case 0x0D:
			t.Screen.CarriageReturn()
			if t.NewLineMode {
				t.Screen.LineFeed()
			}
			return OneChar
		case 0x0A:
			t.Screen.LineFeed()
			return OneChar
		}
	}

	if t.parser == nil {
		t.parser = newParserFor(t.Emulation, t)
	}

	result := t.parser.FeedByte(b)
	if result == RepeatState {
		for t.Repeat.HasMore() {
			rb := t.Repeat.Next()
			t.parser.FeedByte(rb)
		}
		t.Repeat.Load(nil)
		return ManyChars
	}

	if t.Pending.Len() >= pendingCapacity-1 {
		t.Pending.Reset()
	}

	return result
}

// FeedBytes feeds an entire buffer through FeedByte, for callers that don't
// need per-byte Status granularity (e.g. bulk test fixtures).
func (t *Terminal) FeedBytes(buf []byte) {
	for _, b := range buf {
		t.FeedByte(b)
	}
}
