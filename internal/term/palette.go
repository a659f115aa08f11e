package term

import (
	"github.com/lucasb-eyer/go-colorful"
)

// basicRGB is the standard 16-colour CGA/ANSI palette (dark + bright half),
// used both to render the shared 8-colour logical palette at its two
// intensities and as the downsample target for 256-colour/truecolour SGR
// selections (spec.md §4.4/§4.5) and for AVATAR's CGA attribute byte
// (spec.md §4.3), which only ever needs 16 colours.
var basicRGB = [16][3]uint8{
	{0x00, 0x00, 0x00}, // 0 black
	{0xAA, 0x00, 0x00}, // 1 red
	{0x00, 0xAA, 0x00}, // 2 green
	{0xAA, 0x55, 0x00}, // 3 yellow/brown
	{0x00, 0x00, 0xAA}, // 4 blue
	{0xAA, 0x00, 0xAA}, // 5 magenta
	{0x00, 0xAA, 0xAA}, // 6 cyan
	{0xAA, 0xAA, 0xAA}, // 7 white
	{0x55, 0x55, 0x55}, // 8 bright black
	{0xFF, 0x55, 0x55}, // 9 bright red
	{0x55, 0xFF, 0x55}, // 10 bright green
	{0xFF, 0xFF, 0x55}, // 11 bright yellow
	{0x55, 0x55, 0xFF}, // 12 bright blue
	{0xFF, 0x55, 0xFF}, // 13 bright magenta
	{0x55, 0xFF, 0xFF}, // 14 bright cyan
	{0xFF, 0xFF, 0xFF}, // 15 bright white
}

// xterm256 is the standard xterm 256-colour cube + greyscale ramp, used to
// resolve `CSI 38;5;n m` / `CSI 48;5;n m` (spec.md §4.4) before downsampling
// to the 16-colour palette via NearestBasicColor.
var xterm256 = buildXterm256()

func buildXterm256() [256][3]uint8 {
	var t [256][3]uint8
	for i := 0; i < 16; i++ {
		t[i] = basicRGB[i]
	}
	levels := []uint8{0, 95, 135, 175, 215, 255}
	idx := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				t[idx] = [3]uint8{levels[r], levels[g], levels[b]}
				idx++
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + i*10)
		t[232+i] = [3]uint8{v, v, v}
	}
	return t
}

// NearestBasicColor maps an arbitrary RGB triple to the closest of the 16
// logical colours using CIE Lab perceptual distance (go-colorful), per the
// "Colour packing" design note in spec.md §9: AVATAR and the shared palette
// only ever carry 16 colours, so any richer colour arriving via VT220/Linux/
// xterm SGR (256-colour or 24-bit) must be downsampled at the boundary.
func NearestBasicColor(r, g, b uint8) (index int, bright bool) {
	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}

	best := 0
	bestDist := -1.0
	for i, rgb := range basicRGB {
		c := colorful.Color{R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255}
		d := target.DistanceLab(c)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best >= 8 {
		return best - 8, true
	}
	return best, false
}

// Resolve256 resolves an xterm 256-colour index to the nearest basic colour.
func Resolve256(n int) (Color, bool) {
	if n < 0 || n > 255 {
		return Black, false
	}
	rgb := xterm256[n]
	idx, bright := NearestBasicColor(rgb[0], rgb[1], rgb[2])
	return Color(idx), bright
}

// ResolveTruecolor resolves a 24-bit r;g;b triple to the nearest basic colour.
func ResolveTruecolor(r, g, b uint8) (Color, bool) {
	idx, bright := NearestBasicColor(r, g, b)
	return Color(idx), bright
}

// CGAAttr is AVATAR's attribute byte layout (spec.md §4.3): low 3 bits
// foreground, bits 4-6 background, bit 3 bold, bit 7 blink — NOT the same
// bit order as the shared palette, hence a dedicated type and an explicit
// conversion (DecodeCGA) rather than sharing bit layout with Attr.
type CGAAttr uint8

// cgaColorOrder is AVATAR's non-ANSI logical colour order: black, blue,
// green, cyan, red, magenta, yellow(brown), white (spec.md §4.3).
var cgaColorOrder = [8]Color{Black, Blue, Green, Cyan, Red, Magenta, Yellow, White}

// DecodeCGA converts an AVATAR ^A attribute byte into a shared Attr.
func DecodeCGA(b CGAAttr) Attr {
	fgBits := b & 0x07
	bgBits := (b >> 4) & 0x07
	bold := b&0x08 != 0
	blink := b&0x80 != 0
	return Attr{
		FG:     cgaColorOrder[fgBits],
		BG:     cgaColorOrder[bgBits],
		Bold:   bold,
		Bright: bold,
		Blink:  blink,
	}
}

// checkReverseColor implements the VT "reverse video" helper referenced in
// spec.md §4.2: the screen-wide reverse flag never touches a cell's own
// Reverse bit; it is instead applied at read-out time so that printed
// content stays semantically "white on black" underneath.
func checkReverseColor(a Attr, globalReverse bool) Attr {
	if !globalReverse {
		return a
	}
	a.FG, a.BG = a.BG, a.FG
	return a
}
