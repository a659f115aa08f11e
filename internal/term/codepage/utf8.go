package codepage

// UTF8Decoder implements the incremental decoder spec.md §4.1 describes as
// "a DFA with states {ACCEPT(0), REJECT(1), ...}; a byte advances the
// state; on ACCEPT the accumulated code point in codep is valid, on REJECT
// the input is malformed". The states here are explicit rather than a
// packed transition table: ACCEPT, REJECT, and one "need N more
// continuation bytes" state per multi-byte lead, which is the same
// automaton the table-driven constructions (e.g. the DFA decoders bundled
// with danielgatis/go-utf8 and go-vte in the reference pack) compute, laid
// out so each transition is checkable by inspection rather than by a
// memorised magic-number table (see DESIGN.md).
const (
	UTF8Accept = 0
	UTF8Reject = 1

	utf8Need1 = 2 // one more continuation byte expected
	utf8Need2 = 3 // two more
	utf8Need3 = 4 // three more
)

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// DecodeStep advances the DFA by one byte. On UTF8Accept, codep holds a
// complete, valid code point. On UTF8Reject, the caller must emit U+FFFD
// and reset state to UTF8Accept before continuing (spec.md §7 "InvalidUtf8").
// An intermediate state (anything other than Accept/Reject) means more
// continuation bytes are needed; codep is not yet valid.
func DecodeStep(state *uint32, codep *rune, b byte) uint32 {
	switch *state {
	case UTF8Accept, UTF8Reject:
		switch {
		case b&0x80 == 0x00:
			*codep = rune(b)
			*state = UTF8Accept
		case b&0xE0 == 0xC0 && b >= 0xC2:
			*codep = rune(b & 0x1F)
			*state = utf8Need1
		case b&0xF0 == 0xE0:
			*codep = rune(b & 0x0F)
			*state = utf8Need2
		case b&0xF8 == 0xF0 && b <= 0xF4:
			*codep = rune(b & 0x07)
			*state = utf8Need3
		default:
			*state = UTF8Reject
		}
	case utf8Need1:
		if !isContinuation(b) {
			*state = UTF8Reject
			break
		}
		*codep = (*codep << 6) | rune(b&0x3F)
		*state = UTF8Accept
	case utf8Need2:
		if !isContinuation(b) {
			*state = UTF8Reject
			break
		}
		*codep = (*codep << 6) | rune(b&0x3F)
		*state = utf8Need1
	case utf8Need3:
		if !isContinuation(b) {
			*state = UTF8Reject
			break
		}
		*codep = (*codep << 6) | rune(b&0x3F)
		*state = utf8Need2
	default:
		*state = UTF8Reject
	}
	return *state
}

// UTF8Encode produces the 1-4 byte UTF-8 encoding of a code point into buf,
// returning the number of bytes written (spec.md §4.1 "utf8_encode").
func UTF8Encode(cp rune, buf []byte) int {
	switch {
	case cp < 0x80:
		buf[0] = byte(cp)
		return 1
	case cp < 0x800:
		buf[0] = byte(0xC0 | (cp >> 6))
		buf[1] = byte(0x80 | (cp & 0x3F))
		return 2
	case cp < 0x10000:
		buf[0] = byte(0xE0 | (cp >> 12))
		buf[1] = byte(0x80 | ((cp >> 6) & 0x3F))
		buf[2] = byte(0x80 | (cp & 0x3F))
		return 3
	default:
		buf[0] = byte(0xF0 | (cp >> 18))
		buf[1] = byte(0x80 | ((cp >> 12) & 0x3F))
		buf[2] = byte(0x80 | ((cp >> 6) & 0x3F))
		buf[3] = byte(0x80 | (cp & 0x3F))
		return 4
	}
}
