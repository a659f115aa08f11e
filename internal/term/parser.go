package term

// FeedResult is the per-byte outcome a Parser reports back to the
// dispatcher (spec.md §5 "Status enum"). It tells the dispatcher how many
// output runes resulted from the byte just fed, or whether the parser is
// mid-sequence and has produced nothing printable yet.
type FeedResult int

const (
	// NoCharYet means the byte was consumed into a pending sequence; no
	// screen-visible output resulted and none is owed yet.
	NoCharYet FeedResult = iota
	// OneChar means the byte produced exactly one printed/acted-on change.
	OneChar
	// ManyChars means the byte (almost always a control/escape terminator)
	// produced more than one screen change in a single call, e.g. AVATAR's
	// RLE expansion or an erase operation.
	ManyChars
	// RepeatState means the parser has loaded its RepeatBuffer and wants
	// the dispatcher to drain it by redriving those bytes through FeedByte
	// before consuming any further input.
	RepeatState
)

// Parser is implemented by each protocol's byte-stream state machine
// (spec.md §5). Every parser shares the same Screen, Status and Pending/
// RepeatBuffer state via the embedding Terminal (see dispatcher.go); Parser
// itself is deliberately narrow; the "tagged return instead of goto"
// design note in spec.md §9 is why FeedByte returns a FeedResult instead of
// mutating shared globals and jumping to a shared label.
type Parser interface {
	// FeedByte consumes one input byte, updating Screen/Status state as a
	// side effect, and reports what happened.
	FeedByte(b byte) FeedResult

	// Name identifies the protocol for logging/diagnostics.
	Name() string
}
