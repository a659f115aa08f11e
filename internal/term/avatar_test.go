package term

import "testing"

// AVATAR's ESC is ambiguous on its own: ESC [ diverts into a full ANSI
// CSI parse when AvatarColor is enabled (spec.md's AVATAR/ANSI dual-mode
// behavior some BBS doors rely on), and any other unrecognised escape or
// control byte falls back to plain ANSI re-parsing when AvatarANSIFallback
// is set, else is printed as plain codepage-mapped characters (control
// bytes go through HandleC0).

func TestAvatarEscBracketDivertsToANSIWhenColorEnabled(t *testing.T) {
	tm := newTestTerminal(EmuAvatar)
	tm.Config.AvatarColor = true
	tm.FeedBytes([]byte("\x1B[1;31mZ"))

	c := cellAt(tm, 0, 0)
	if c.Rune != 'Z' || c.Attr.FG != Red || !c.Attr.Bold {
		t.Fatalf("cell(0,0) = %+v, want bold red Z (diverted through ANSI CSI parse)", c)
	}
}

func TestAvatarEscBracketNotDivertedWhenColorDisabled(t *testing.T) {
	tm := newTestTerminal(EmuAvatar)
	tm.Config.AvatarColor = false
	tm.Config.AvatarANSIFallback = false
	tm.FeedBytes([]byte("\x1B[Z"))

	// With AvatarColor off, ESC [ is not diverted into a CSI parse, and
	// with AvatarANSIFallback off too, dispositionUnrecognized's fallback
	// branch emits the pending bytes as plain codepage-mapped characters:
	// ESC is a C0 code HandleC0 doesn't act on (dropped, no cell), '[' is
	// printed literally, then 'Z' is printed in ordinary AVATAR ground.
	if c := cellAt(tm, 0, 0); c.Rune != '[' {
		t.Fatalf("cell(0,0) = %q, want '['", c.Rune)
	}
	if c := cellAt(tm, 0, 1); c.Rune != 'Z' {
		t.Fatalf("cell(0,1) = %q, want Z", c.Rune)
	}
}

func TestAvatarUnrecognisedEscapeFallsBackToANSIWhenEnabled(t *testing.T) {
	tm := newTestTerminal(EmuAvatar)
	tm.Config.AvatarColor = false
	tm.Config.AvatarANSIFallback = true

	// ESC c is not an AVATAR command and not "ESC [", so it goes through
	// dispositionUnrecognized, which re-parses the escape through a fresh
	// ANSI parser when fallback is enabled. ESC c is ANSI RIS (full reset):
	// it clears the screen and homes the cursor, so the 'A' printed before
	// it is wiped and 'Z' lands at the origin instead of column 1.
	tm.FeedBytes([]byte("A\x1BcZ"))

	if c := cellAt(tm, 0, 0); c.Rune != 'Z' {
		t.Fatalf("cell(0,0) = %q, want Z (A erased by the RIS reset)", c.Rune)
	}
	if tm.Screen.CursorX != 1 || tm.Screen.CursorY != 0 {
		t.Fatalf("cursor = (%d,%d), want (1,0)", tm.Screen.CursorX, tm.Screen.CursorY)
	}
}

func TestAvatarAnsiDivertReturnsToAvatarGroundAfterCSI(t *testing.T) {
	tm := newTestTerminal(EmuAvatar)
	tm.Config.AvatarColor = true
	tm.FeedBytes([]byte("\x1B[32m"))
	// Back in AVATAR ground: ^Y (top-level RLE) should be recognised again,
	// proving the parser returned to avatarGround and isn't still stuck
	// inside the ANSI diversion consuming bytes as CSI parameters.
	tm.FeedBytes([]byte{0x19, 'Q', 3})

	for x := 0; x < 3; x++ {
		c := cellAt(tm, 0, x)
		if c.Rune != 'Q' || c.Attr.FG != Green {
			t.Fatalf("cell(0,%d) = %+v, want green Q", x, c)
		}
	}
}
