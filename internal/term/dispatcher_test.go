package term

import (
	"testing"

	"github.com/wxmodem/retroterm/internal/config"
)

func newTestTerminal(e Emulation) *Terminal {
	t := NewTerminal(80, 24, config.DefaultEmulation(), nil)
	t.SwitchEmulation(e)
	return t
}

func cellAt(t *Terminal, y, x int) Cell {
	return t.Screen.Line(y).Cells[x]
}

// Scenario 1: ANSI SGR + cursor (spec.md §8).
func TestANSISGRAndCursor(t *testing.T) {
	tm := newTestTerminal(EmuANSI)
	tm.FeedBytes([]byte("\x1B[1;31mHi\x1B[5;1H\x1B[0mX"))

	c0 := cellAt(tm, 0, 0)
	if c0.Rune != 'H' || c0.Attr.FG != Red || !c0.Attr.Bold {
		t.Fatalf("cell(0,0) = %+v, want bold red H", c0)
	}
	c1 := cellAt(tm, 0, 1)
	if c1.Rune != 'i' || c1.Attr.FG != Red || !c1.Attr.Bold {
		t.Fatalf("cell(0,1) = %+v, want bold red i", c1)
	}
	if tm.Screen.CursorX != 1 || tm.Screen.CursorY != 4 {
		t.Fatalf("cursor = (%d,%d), want (1,4)", tm.Screen.CursorX, tm.Screen.CursorY)
	}
	cx := cellAt(tm, 4, 0)
	if cx.Rune != 'X' || cx.Attr != DefaultAttr {
		t.Fatalf("cell(4,0) = %+v, want default X", cx)
	}
}

// Scenario 2: AVATAR single-char RLE (spec.md §8).
func TestAvatarSingleCharRLE(t *testing.T) {
	tm := newTestTerminal(EmuAvatar)
	tm.FeedBytes([]byte{0x19, 'A', 5})

	for x := 0; x < 5; x++ {
		c := cellAt(tm, 0, x)
		if c.Rune != 'A' {
			t.Fatalf("cell(0,%d) = %q, want A", x, c.Rune)
		}
	}
	if tm.Screen.CursorX != 5 || tm.Screen.CursorY != 0 {
		t.Fatalf("cursor = (%d,%d), want (5,0)", tm.Screen.CursorX, tm.Screen.CursorY)
	}
}

// Scenario 3: AVATAR pattern RLE (spec.md §8).
func TestAvatarPatternRLE(t *testing.T) {
	tm := newTestTerminal(EmuAvatar)
	tm.FeedBytes([]byte{0x16, 0x19, 2, 'X', 'Y', 3})

	want := "XYXYXY"
	for i, w := range want {
		c := cellAt(tm, 0, i)
		if c.Rune != w {
			t.Fatalf("cell(0,%d) = %q, want %q", i, c.Rune, w)
		}
	}
}

// Scenario 4: VT100 scrolling region (spec.md §8).
func TestVT100ScrollingRegion(t *testing.T) {
	tm := newTestTerminal(EmuVT100)
	tm.FeedBytes([]byte("\x1B[2;4r\x1B[4;1HA"))
	tm.FeedByte(0x0D)
	tm.FeedByte(0x0A)
	tm.FeedByte('B')

	if cellAt(tm, 2, 0).Rune != 'A' {
		t.Fatalf("cell(2,0) = %q, want A (scrolled up within region)", cellAt(tm, 2, 0).Rune)
	}
	if cellAt(tm, 3, 0).Rune != 'B' {
		t.Fatalf("cell(3,0) = %q, want B", cellAt(tm, 3, 0).Rune)
	}
}

// Scenario 5: VT220 DA response (spec.md §8).
func TestVT220DAResponse(t *testing.T) {
	tm := newTestTerminal(EmuVT100)
	tm.FeedBytes([]byte("\x1B[c"))

	reply := tm.Status.DrainReply()
	want := "\x1B[?62;1;2;6;7;8;9c"
	if string(reply) != want {
		t.Fatalf("DA reply = %q, want %q", reply, want)
	}
}

// Scenario 6: PETSCII colour + reverse (spec.md §8).
func TestPETSCIIColourReverse(t *testing.T) {
	tm := newTestTerminal(EmuPETSCII)
	tm.FeedBytes([]byte{0x12, 0x1C, 'A', 0x92, 'B'})

	a := cellAt(tm, 0, 0)
	if a.Rune != 'A' || a.Attr.FG != White || a.Attr.BG != Red {
		t.Fatalf("cell(0,0) = %+v, want white-on-red A", a)
	}
	b := cellAt(tm, 0, 1)
	if b.Rune != 'B' || b.Attr.FG != Red || b.Attr.BG != Black {
		t.Fatalf("cell(0,1) = %+v, want red-on-default B", b)
	}
}

// Universal invariant: printable ASCII with no ESC produces one cell per
// byte and advances the cursor by one (spec.md §8).
func TestPrintableASCIIOneCellPerByte(t *testing.T) {
	for _, e := range []Emulation{EmuANSI, EmuAvatar, EmuPETSCII, EmuATASCII} {
		tm := newTestTerminal(e)
		tm.FeedBytes([]byte("ABC"))
		if tm.Screen.CursorX != 3 {
			t.Fatalf("%v: cursor.x = %d, want 3", e, tm.Screen.CursorX)
		}
	}
}

// Universal invariant: cursor coordinates always stay in range, and
// Pending never exceeds capacity-1, across an adversarial byte stream.
func TestInvariantsHoldUnderAdversarialInput(t *testing.T) {
	for _, e := range []Emulation{EmuANSI, EmuAvatar, EmuVT100, EmuLinuxXterm, EmuPETSCII, EmuATASCII, EmuVT52, EmuTTY, EmuDebug} {
		tm := newTestTerminal(e)
		for i := 0; i < 4000; i++ {
			tm.FeedByte(byte(i % 256))
		}
		if tm.Screen.CursorX < 0 || tm.Screen.CursorX >= tm.Screen.Width {
			t.Fatalf("%v: cursor.x out of range: %d", e, tm.Screen.CursorX)
		}
		if tm.Screen.CursorY < 0 || tm.Screen.CursorY >= tm.Screen.Height {
			t.Fatalf("%v: cursor.y out of range: %d", e, tm.Screen.CursorY)
		}
		if tm.Pending.Len() > pendingCapacity-1 {
			t.Fatalf("%v: Pending.Len() = %d, want <= %d", e, tm.Pending.Len(), pendingCapacity-1)
		}
	}
}

// Universal invariant: reset() followed by feeding B equals a fresh
// instance fed with B (spec.md §8).
func TestResetThenFeedEqualsFreshInstance(t *testing.T) {
	input := []byte("\x1B[1;31mHello\x1B[2J")

	dirty := newTestTerminal(EmuANSI)
	dirty.FeedBytes([]byte("garbage state \x1B[7m"))
	dirty.Reset()
	dirty.FeedBytes(input)

	fresh := newTestTerminal(EmuANSI)
	fresh.FeedBytes(input)

	if dirty.Screen.CursorX != fresh.Screen.CursorX || dirty.Screen.CursorY != fresh.Screen.CursorY {
		t.Fatalf("cursor mismatch after reset: %+v vs %+v", dirty.Screen.CursorX, fresh.Screen.CursorX)
	}
	for y := 0; y < fresh.Screen.Height; y++ {
		for x := 0; x < fresh.Screen.Width; x++ {
			if cellAt(dirty, y, x) != cellAt(fresh, y, x) {
				t.Fatalf("cell(%d,%d) mismatch after reset", y, x)
			}
		}
	}
}

// Boundary: right margin with line-wrap off overwrites the last column.
func TestRightMarginNoWrapOverwrites(t *testing.T) {
	tm := newTestTerminal(EmuANSI)
	tm.Screen.LineWrap = false
	tm.Screen.CursorPosition(0, tm.Screen.Width-1)
	tm.FeedByte('X')
	tm.FeedByte('Y')

	if cellAt(tm, 0, tm.Screen.Width-1).Rune != 'Y' {
		t.Fatalf("last column should be overwritten with Y")
	}
	if tm.Screen.CursorX != tm.Screen.Width-1 {
		t.Fatalf("cursor should stay pinned at the last column")
	}
}

// Boundary: right margin with line-wrap on advances to the next row.
func TestRightMarginWrapAdvances(t *testing.T) {
	tm := newTestTerminal(EmuANSI)
	tm.Screen.LineWrap = true
	tm.Screen.CursorPosition(0, tm.Screen.Width-1)
	tm.FeedByte('X')
	tm.FeedByte('Y')

	if cellAt(tm, 1, 0).Rune != 'Y' {
		t.Fatalf("wrapped print should land at column 0 of the next row")
	}
}

// Full reset: ESC c restores cursor, attribute, and erases the viewport.
func TestFullResetByEscC(t *testing.T) {
	tm := newTestTerminal(EmuANSI)
	tm.FeedBytes([]byte("\x1B[1;31mHello\x1B[10;10H"))
	tm.FeedByte(0x1B)
	tm.FeedByte('c')

	if tm.Screen.CursorX != 0 || tm.Screen.CursorY != 0 {
		t.Fatalf("cursor not reset: (%d,%d)", tm.Screen.CursorX, tm.Screen.CursorY)
	}
	if tm.Screen.CurAttr != DefaultAttr {
		t.Fatalf("attribute not reset: %+v", tm.Screen.CurAttr)
	}
	if cellAt(tm, 0, 0).Rune != ' ' {
		t.Fatalf("viewport not cleared")
	}
}
