package codepage

import "testing"

func TestUTF8RoundTrip(t *testing.T) {
	samples := []rune{0x00, 'A', 0x7F, 0x80, 0x7FF, 0x800, 0xFFFF, 0x10000, 0x10FFFF}
	for _, cp := range samples {
		buf := make([]byte, 4)
		n := UTF8Encode(cp, buf)

		var state uint32
		var decoded rune
		for i := 0; i < n; i++ {
			state = DecodeStep(&state, &decoded, buf[i])
		}
		if state != UTF8Accept {
			t.Fatalf("encode(%U) failed to decode back to ACCEPT, state=%d", cp, state)
		}
		if decoded != cp {
			t.Fatalf("decode(encode(%U)) = %U, want %U", cp, decoded, cp)
		}
	}
}

func TestUTF8RejectResyncsOnInvalidByte(t *testing.T) {
	var state uint32
	var codep rune

	state = DecodeStep(&state, &codep, 0xFF) // invalid lead byte
	if state != UTF8Reject {
		t.Fatalf("expected REJECT for 0xFF, got state=%d", state)
	}

	state = UTF8Accept
	state = DecodeStep(&state, &codep, 'A')
	if state != UTF8Accept || codep != 'A' {
		t.Fatalf("decoder did not resume cleanly after reset: state=%d codep=%U", state, codep)
	}
}

func TestCodepageRoundTripOnASCIIRange(t *testing.T) {
	for _, id := range []ID{CP437, CP850, CP1252, ISO8859_1, KOI8R} {
		for b := 0x20; b < 0x7F; b++ {
			r := Map(id, byte(b))
			back, ok := Unmap(id, r)
			if !ok || back != byte(b) {
				t.Fatalf("codepage %v: round trip failed for byte 0x%02X: got 0x%02X ok=%v", id, b, back, ok)
			}
		}
	}
}

func TestDECSpecialGraphicsLineDrawing(t *testing.T) {
	if Map(DECSpecialGraphics, 'q') != '─' {
		t.Fatalf("expected horizontal line glyph for 'q'")
	}
	if Map(DECSpecialGraphics, 'A') != 'A' {
		t.Fatalf("expected identity mapping outside the glyph range")
	}
}

func TestNRCSubstitutesOnlyDocumentedPositions(t *testing.T) {
	if Map(NRCUK, 0x23) != '£' {
		t.Fatalf("UK NRC set should map 0x23 to £")
	}
	if Map(NRCUK, 0x41) != 'A' {
		t.Fatalf("UK NRC set should leave 'A' untouched")
	}
}

// TestHandTabulatedCodepagesInheritASCIIFromCP437 checks the documented
// construction of the four hand-tabulated DOS codepages: control codes and
// the 0x20-0x7E ASCII range come straight from CP437, only the upper half
// is overridden per page.
func TestHandTabulatedCodepagesInheritASCIIFromCP437(t *testing.T) {
	for _, id := range []ID{CP720, CP737, CP775, CP857} {
		for b := 0x20; b < 0x7F; b++ {
			if got, want := Map(id, byte(b)), Map(CP437, byte(b)); got != want {
				t.Fatalf("codepage %v: byte 0x%02X = %U, want CP437's %U", id, b, got, want)
			}
		}
	}
}

func TestCP720ArabicUpperHalf(t *testing.T) {
	if r := Map(CP720, 0x84); r != 'ا' {
		t.Fatalf("CP720 0x84 = %U, want arabic alef", r)
	}
	if r := Map(CP720, 0xAB); r != '½' {
		t.Fatalf("CP720 0xAB = %U, want half fraction glyph", r)
	}
}

func TestCP737GreekUpperHalf(t *testing.T) {
	if r := Map(CP737, 0x80); r != 'Α' {
		t.Fatalf("CP737 0x80 = %U, want capital alpha", r)
	}
	if r := Map(CP737, 0x98); r != 'α' {
		t.Fatalf("CP737 0x98 = %U, want lowercase alpha", r)
	}
	// Bytes CP737 doesn't override (0xB0-0xDF, 0xE8-0xFF) fall back to the
	// inherited CP437 glyph rather than going unmapped.
	if r := Map(CP737, 0xB0); r != Map(CP437, 0xB0) {
		t.Fatalf("CP737 0xB0 = %U, want CP437 fallback %U", r, Map(CP437, 0xB0))
	}
}

func TestCP775BalticUpperHalf(t *testing.T) {
	if r := Map(CP775, 0x80); r != 'Ć' {
		t.Fatalf("CP775 0x80 = %U, want C-acute", r)
	}
	if r := Map(CP775, 0x9C); r != '£' {
		t.Fatalf("CP775 0x9C = %U, want pound sign", r)
	}
}

func TestCP857TurkishUpperHalf(t *testing.T) {
	if r := Map(CP857, 0x9E); r != 'Ş' {
		t.Fatalf("CP857 0x9E = %U, want S-cedilla", r)
	}
	if r := Map(CP857, 0x8D); r != 'ı' {
		t.Fatalf("CP857 0x8D = %U, want dotless i", r)
	}
	// CP857 has no 0x00D7 (multiplication sign) override at 0x9E unlike
	// CP775; CP857's table stops at 0xA7, so bytes beyond that fall back
	// to CP437.
	if r := Map(CP857, 0xE0); r != Map(CP437, 0xE0) {
		t.Fatalf("CP857 0xE0 = %U, want CP437 fallback %U", r, Map(CP437, 0xE0))
	}
}
