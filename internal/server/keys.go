package server

import "github.com/wxmodem/retroterm/internal/term"

// WireKeyEvent is the browser's JSON encoding of a keydown event. The
// browser is expected to do the minimal work of classifying a key (named
// vs. printable rune) and forward modifiers; all of the emulation-specific
// sequence generation happens in term.Terminal.Encode, not in JavaScript,
// unlike the teacher's translateANSIInputToLegacy which sniffed finished
// ANSI escape sequences back out of an xterm.js keymap.
type WireKeyEvent struct {
	Name    string `json:"name,omitempty"` // e.g. "ArrowUp", "F5", "Enter"; empty if Rune is set
	Rune    string `json:"rune,omitempty"` // single Unicode scalar as a string
	Alt     bool   `json:"alt,omitempty"`
	Ctrl    bool   `json:"ctrl,omitempty"`
	Shift   bool   `json:"shift,omitempty"`
	Unicode bool   `json:"unicode,omitempty"`
}

var namedKeyByWireName = map[string]term.NamedKey{
	"ArrowUp":    term.KeyUp,
	"ArrowDown":  term.KeyDown,
	"ArrowLeft":  term.KeyLeft,
	"ArrowRight": term.KeyRight,
	"PageUp":     term.KeyPageUp,
	"PageDown":   term.KeyPageDown,
	"Home":       term.KeyHome,
	"End":        term.KeyEnd,
	"Insert":     term.KeyInsert,
	"Delete":     term.KeyDelete,
	"Backspace":  term.KeyBackspace,
	"Tab":        term.KeyTab,
	"Enter":      term.KeyEnter,
	"Escape":     term.KeyEscape,
	"F1":         term.KeyF1,
	"F2":         term.KeyF2,
	"F3":         term.KeyF3,
	"F4":         term.KeyF4,
	"F5":         term.KeyF5,
	"F6":         term.KeyF6,
	"F7":         term.KeyF7,
	"F8":         term.KeyF8,
	"F9":         term.KeyF9,
	"F10":        term.KeyF10,
	"F11":        term.KeyF11,
	"F12":        term.KeyF12,
}

// ToKeyEvent converts the wire event to the core's KeyEvent, reporting
// whether the name (if any) was recognised.
func (w WireKeyEvent) ToKeyEvent() (term.KeyEvent, bool) {
	ev := term.KeyEvent{Alt: w.Alt, Ctrl: w.Ctrl, Shift: w.Shift, Unicode: w.Unicode}
	if w.Name != "" {
		named, ok := namedKeyByWireName[w.Name]
		if !ok {
			return ev, false
		}
		ev.IsNamed = true
		ev.Named = named
		return ev, true
	}
	runes := []rune(w.Rune)
	if len(runes) == 0 {
		return ev, false
	}
	ev.Rune = runes[0]
	return ev, true
}
