package server

import "github.com/wxmodem/retroterm/internal/term"

// CellDTO is the wire representation of one on-screen cell.
type CellDTO struct {
	Ch    string `json:"ch"`
	FG    int    `json:"fg"`
	BG    int    `json:"bg"`
	Bold  bool   `json:"bold,omitempty"`
	Rev   bool   `json:"rev,omitempty"`
	Blink bool   `json:"blink,omitempty"`
}

// Frame is a full snapshot of the emulated screen, sent to the browser
// after each batch of remote bytes is fed through the terminal core. The
// browser side renders cells directly instead of re-interpreting ANSI
// escapes itself — the core's Screen model (spec.md §4.2) is the single
// source of rendering truth, not a side channel alongside a raw byte feed.
type Frame struct {
	Cols      int         `json:"cols"`
	Rows      int         `json:"rows"`
	CursorX   int         `json:"cursorX"`
	CursorY   int         `json:"cursorY"`
	Visible   bool        `json:"cursorVisible"`
	Lines     [][]CellDTO `json:"lines"`
	Emulation string      `json:"emulation"`
}

// BuildFrame serializes a Terminal's current viewport.
func BuildFrame(t *term.Terminal) Frame {
	s := t.Screen
	f := Frame{
		Cols:      s.Width,
		Rows:      s.Height,
		CursorX:   s.CursorX,
		CursorY:   s.CursorY,
		Visible:   s.CursorVisible,
		Lines:     make([][]CellDTO, s.Height),
		Emulation: t.Emulation.String(),
	}
	for y := 0; y < s.Height; y++ {
		line := s.Line(y)
		row := make([]CellDTO, s.Width)
		for x := 0; x < s.Width && x < len(line.Cells); x++ {
			c := line.Cells[x]
			row[x] = CellDTO{
				Ch:    string(c.Rune),
				FG:    int(c.Attr.FG),
				BG:    int(c.Attr.BG),
				Bold:  c.Attr.Bold,
				Rev:   c.Attr.Reverse,
				Blink: c.Attr.Blink,
			}
		}
		f.Lines[y] = row
	}
	return f
}
