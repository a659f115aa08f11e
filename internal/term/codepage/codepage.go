// Package codepage maps the 8-bit codepages and national-replacement
// character sets used by the terminal core onto Unicode code points, and
// provides a DFA-style incremental UTF-8 decoder plus encoder (spec.md
// §4.1). Where golang.org/x/text/encoding/charmap already defines a
// codepage, tables here are built from it; the handful of codepages
// charmap does not carry (CP720, CP737, CP775, CP857) are hand-tabulated
// from their published code charts, and the DEC/VT52/PETSCII/ATASCII sets
// (which charmap has no notion of) are built directly — see DESIGN.md for
// the per-table grounding.
package codepage

import (
	"golang.org/x/text/encoding/charmap"
)

// Table maps each of the 256 byte values of an 8-bit codepage to a Unicode
// code point.
type Table [256]rune

// ID names one of the supported codepages/character sets (spec.md §4.1).
type ID int

const (
	CP437 ID = iota
	CP720
	CP737
	CP775
	CP850
	CP852
	CP857
	CP858
	CP860
	CP862
	CP863
	CP866
	CP1250
	CP1251
	CP1252
	ISO8859_1
	KOI8R
	KOI8U
	DECSpecialGraphics
	VT52SpecialGraphics
	NRCUS
	NRCUK
	NRCNL
	NRCFI
	NRCFR
	NRCFRCA
	NRCDE
	NRCIT
	NRCNO
	NRCES
	NRCSV
	NRCCH
)

var tables = map[ID]*Table{}

func register(id ID, t Table) {
	tables[id] = &t
}

// fromCharmap builds a Table from an x/text charmap.Charmap, which already
// covers the common DOS/Windows/ISO/KOI8 codepages (spec.md §4.1's table
// list minus CP720/737/775/857).
func fromCharmap(cm *charmap.Charmap) Table {
	var t Table
	for i := 0; i < 256; i++ {
		r := cm.DecodeByte(byte(i))
		if r == 0 {
			r = rune(i)
		}
		t[i] = r
	}
	return t
}

func init() {
	register(CP437, fromCharmap(charmap.CodePage437))
	register(CP850, fromCharmap(charmap.CodePage850))
	register(CP852, fromCharmap(charmap.CodePage852))
	register(CP858, fromCharmap(charmap.CodePage858))
	register(CP860, fromCharmap(charmap.CodePage860))
	register(CP862, fromCharmap(charmap.CodePage862))
	register(CP863, fromCharmap(charmap.CodePage863))
	register(CP866, fromCharmap(charmap.CodePage866))
	register(CP1250, fromCharmap(charmap.Windows1250))
	register(CP1251, fromCharmap(charmap.Windows1251))
	register(CP1252, fromCharmap(charmap.Windows1252))
	register(ISO8859_1, fromCharmap(charmap.ISO8859_1))
	register(KOI8R, fromCharmap(charmap.KOI8R))
	register(KOI8U, fromCharmap(charmap.KOI8U))

	register(CP720, buildCP720())
	register(CP737, buildCP737())
	register(CP775, buildCP775())
	register(CP857, buildCP857())

	register(DECSpecialGraphics, buildDECSpecialGraphics())
	register(VT52SpecialGraphics, buildDECSpecialGraphics())

	register(NRCUS, buildASCIIBase())
	register(NRCUK, buildNRC(map[byte]rune{0x23: '£'}))
	register(NRCNL, buildNRC(map[byte]rune{0x23: '£', 0x40: '¾', 0x5B: 'ĳ', 0x5C: '½', 0x5D: '|', 0x7B: '¨', 0x7C: 'ƒ', 0x7D: '¼', 0x7E: '´'}))
	register(NRCFI, buildNRC(map[byte]rune{0x5B: 'Ä', 0x5C: 'Ö', 0x5D: 'Å', 0x5E: 'Ü', 0x60: 'é', 0x7B: 'ä', 0x7C: 'ö', 0x7D: 'å', 0x7E: 'ü'}))
	register(NRCFR, buildNRC(map[byte]rune{0x23: '£', 0x40: 'à', 0x5B: '°', 0x5C: 'ç', 0x5D: '§', 0x7B: 'é', 0x7C: 'ù', 0x7D: 'è', 0x7E: '¨'}))
	register(NRCFRCA, buildNRC(map[byte]rune{0x40: 'à', 0x5B: 'â', 0x5C: 'ç', 0x5D: 'ê', 0x5E: 'î', 0x60: 'ô', 0x7B: 'é', 0x7C: 'ù', 0x7D: 'è', 0x7E: 'û'}))
	register(NRCDE, buildNRC(map[byte]rune{0x40: '§', 0x5B: 'Ä', 0x5C: 'Ö', 0x5D: 'Ü', 0x7B: 'ä', 0x7C: 'ö', 0x7D: 'ü', 0x7E: 'ß'}))
	register(NRCIT, buildNRC(map[byte]rune{0x23: '£', 0x40: '§', 0x5B: '°', 0x5C: 'ç', 0x5D: 'é', 0x60: 'ù', 0x7B: 'à', 0x7C: 'ò', 0x7D: 'è', 0x7E: 'ì'}))
	register(NRCNO, buildNRC(map[byte]rune{0x5B: 'Æ', 0x5C: 'Ø', 0x5D: 'Å', 0x5E: 'Ü', 0x60: 'é', 0x7B: 'æ', 0x7C: 'ø', 0x7D: 'å', 0x7E: 'ü'}))
	register(NRCES, buildNRC(map[byte]rune{0x23: '£', 0x40: '§', 0x5B: '¡', 0x5C: 'Ñ', 0x5D: '¿', 0x7B: '°', 0x7C: 'ñ', 0x7D: 'ç', 0x7E: '~'}))
	register(NRCSV, buildNRC(map[byte]rune{0x40: 'É', 0x5B: 'Ä', 0x5C: 'Ö', 0x5D: 'Å', 0x5E: 'Ü', 0x60: 'é', 0x7B: 'ä', 0x7C: 'ö', 0x7D: 'å', 0x7E: 'ü'}))
	register(NRCCH, buildNRC(map[byte]rune{0x23: 'ù', 0x40: 'à', 0x5B: 'é', 0x5C: 'ç', 0x5D: 'ê', 0x5E: 'î', 0x5F: 'è', 0x60: 'ô', 0x7B: 'ä', 0x7C: 'ö', 0x7D: 'ü', 0x7E: 'û'}))
}

func buildASCIIBase() Table {
	var t Table
	for i := 0; i < 256; i++ {
		t[i] = rune(i)
	}
	return t
}

// buildNRC starts from 7-bit ASCII (upper half left identity-mapped, as the
// DEC NRC sets only ever substitute a handful of positions in the 0x20-0x7E
// range; spec.md §4.1 / GLOSSARY "NRC set") and applies the given overrides.
func buildNRC(overrides map[byte]rune) Table {
	t := buildASCIIBase()
	for b, r := range overrides {
		t[b] = r
	}
	return t
}

// buildDECSpecialGraphics implements the VT100 "special graphics" set
// selected by `ESC ( 0`: 0x5F-0x7E are remapped (symbols at 0x5F-0x69,
// line-drawing glyphs from 0x6A), identity elsewhere (spec.md §4.4
// character-set designation).
func buildDECSpecialGraphics() Table {
	t := buildASCIIBase()
	glyphs := map[byte]rune{
		0x5F: ' ', // blank
		0x60: '♦', // diamond
		0x61: '▒', // checkerboard
		0x62: '␉', // HT symbol
		0x63: '␌', // FF symbol
		0x64: '␍', // CR symbol
		0x65: '␊', // LF symbol
		0x66: '°', // degree
		0x67: '±', // plus/minus
		0x68: '␤', // NL symbol
		0x69: '␋', // VT symbol
		0x6A: '┘', // lower-right corner
		0x6B: '┐', // upper-right corner
		0x6C: '┌', // upper-left corner
		0x6D: '└', // lower-left corner
		0x6E: '┼', // crossing lines
		0x6F: '⎺', // scan line 1
		0x70: '⎻', // scan line 3
		0x71: '─', // horizontal line
		0x72: '⎼', // scan line 7
		0x73: '⎽', // scan line 9
		0x74: '├', // left tee
		0x75: '┤', // right tee
		0x76: '┴', // bottom tee
		0x77: '┬', // top tee
		0x78: '│', // vertical line
		0x79: '≤', // less-or-equal
		0x7A: '≥', // greater-or-equal
		0x7B: 'π', // pi
		0x7C: '≠', // not equal
		0x7D: '£', // UK pound
		0x7E: '·', // centered dot
	}
	for b, r := range glyphs {
		t[b] = r
	}
	return t
}

// Map resolves byte b through codepage id, falling back to identity mapping
// for an unregistered id (defensive; see spec.md §7 error taxonomy).
func Map(id ID, b byte) rune {
	t, ok := tables[id]
	if !ok {
		return rune(b)
	}
	return t[b]
}

// Unmap performs the reverse lookup spec.md §4.1 describes as a linear
// scan; on failure it returns ('?', false), leaving the caller to decide
// how to surface the miss.
func Unmap(id ID, r rune) (byte, bool) {
	t, ok := tables[id]
	if !ok {
		if r >= 0 && r < 256 {
			return byte(r), true
		}
		return '?', false
	}
	for i := 0; i < 256; i++ {
		if t[i] == r {
			return byte(i), true
		}
	}
	return '?', false
}
