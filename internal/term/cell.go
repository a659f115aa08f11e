// Package term implements the multi-protocol terminal emulation core:
// a family of byte-stream parsers (TTY, ANSI, AVATAR, VT52, VT100/102/220,
// Linux/xterm, PETSCII, ATASCII, DEBUG) sharing one screen/scrollback model,
// one emulator status record, and one keystroke encoder.
package term

import (
	"github.com/mattn/go-runewidth"
)

// Color is one of the 8 logical colours every emulator ultimately resolves
// to; bold/bright shifts it into the "bright" half of the 16-colour palette.
type Color uint8

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

// Attr is the packed cell attribute word: palette indices plus boolean flags.
// Kept distinct from AVATAR's CGA byte layout (see avatar.go); the two are
// converted explicitly at the parser-to-screen boundary per the design note
// in spec.md §9 ("Colour packing").
type Attr struct {
	FG Color
	BG Color

	Bold      bool
	Bright    bool // independent of Bold: some protocols set intensity without SGR 1
	Blink     bool
	Underline bool
	Reverse   bool
	Protected bool
}

// DefaultAttr is white-on-black, no flags — the state every reset restores.
var DefaultAttr = Attr{FG: White, BG: Black}

// Resolved returns the (fg,bg) pair to actually paint with, swapping them
// when the cell's own Reverse flag is set; Bold and Bright are not folded
// in and stay separate flags for the renderer to apply. Global
// "reverse video" mode is applied by the caller via checkReverseColor, not
// here — a cell's own Reverse flag is orthogonal to screen-wide reverse.
func (a Attr) Resolved() (fg, bg Color) {
	fg, bg = a.FG, a.BG
	if a.Reverse {
		fg, bg = bg, fg
	}
	return fg, bg
}

// Cell is one screen position: a code point plus its attribute. Blank cells
// are space with whatever the default/background attribute was when cleared.
type Cell struct {
	Rune rune
	Attr Attr
}

// BlankCell returns a blank cell painted with attr's background.
func BlankCell(attr Attr) Cell {
	return Cell{Rune: ' ', Attr: attr}
}

// printable reports whether r should occupy exactly one screen cell as a
// normal glyph. go-runewidth classifies control/zero-width runes so the
// screen model can fall back to '?' instead of corrupting column accounting
// (grounded in gdamore/tcell's use of the same package for this purpose).
func printable(r rune) bool {
	if r < 0x20 || r == 0x7F {
		return false
	}
	return runewidth.RuneWidth(r) == 1
}

// sanitizeRune returns r if it is safely representable as one cell, or '?'
// otherwise (double-width/zero-width glyphs are outside this core's scope —
// double-width is a per-line flag set by escape codes, not inferred from
// glyph width; see spec.md §3 "Line").
func sanitizeRune(r rune) rune {
	if printable(r) {
		return r
	}
	return '?'
}

// Line is an ordered, bounded-length sequence of cells (spec.md §3).
type Line struct {
	Cells         []Cell
	LogicalLength int
	DoubleWidth   bool
}

// NewLine allocates a blank line of the given width.
func NewLine(width int, attr Attr) Line {
	cells := make([]Cell, width)
	for i := range cells {
		cells[i] = BlankCell(attr)
	}
	return Line{Cells: cells, LogicalLength: 0}
}

// Clear resets every cell in the line to blank with the given attribute and
// resets LogicalLength, but preserves DoubleWidth (callers that want to
// reset it too call SetDoubleWidth(false) explicitly).
func (l *Line) Clear(attr Attr) {
	for i := range l.Cells {
		l.Cells[i] = BlankCell(attr)
	}
	l.LogicalLength = 0
}

// Width reports the configured cell count of the line.
func (l *Line) Width() int {
	return len(l.Cells)
}
