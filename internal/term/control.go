package term

// HandleC0 implements the shared C0 control-character behaviour used
// directly by the simpler emulators (TTY, ANSI, AVATAR) and invoked by VT52
// and VT100/220/Linux-xterm for the subset of codes they don't override
// themselves (spec.md §2 component 4); PETSCII and ATASCII use their own
// control tables and do not call it. It reports
// whether b was a recognised control code; callers treat an unrecognised
// byte as plain printable input.
func HandleC0(t *Terminal, b byte) bool {
	switch b {
	case 0x00: // NUL
		if t.Config.DisplayNull {
			t.Screen.Print(' ')
		}
		return true
	case 0x07: // BEL
		t.Bell()
		return true
	case 0x08: // BS
		t.Screen.CursorLeft(1)
		return true
	case 0x09: // TAB
		t.tabForward()
		return true
	case 0x0A: // LF
		t.Screen.LineFeed()
		return true
	case 0x0B: // VT, treated as LF
		t.Screen.LineFeed()
		return true
	case 0x0C: // FF
		if t.PCStyleFormFeed {
			t.Screen.FormFeedPC()
		} else {
			t.Screen.FormFeedVT()
		}
		return true
	case 0x0D: // CR
		t.Screen.CarriageReturn()
		if t.NewLineMode || t.Config.LineFeedOnCR {
			t.Screen.LineFeed()
		}
		return true
	case 0x05: // ENQ
		t.Status.QueueReply([]byte(t.Status.AnswerbackMessage))
		return true
	default:
		return false
	}
}

// TabStops tracks which columns are tab stops, defaulting to every 8th
// column (spec.md §4.4 "reset ... clears tabs to every 8th column").
type TabStops struct {
	stops map[int]bool
	width int
}

// NewTabStops builds the default every-8th-column tab stop set.
func NewTabStops(width int) *TabStops {
	ts := &TabStops{stops: make(map[int]bool), width: width}
	ts.ResetDefault()
	return ts
}

// ResetDefault restores tab stops to every 8th column.
func (ts *TabStops) ResetDefault() {
	ts.stops = make(map[int]bool)
	for x := 8; x < ts.width; x += 8 {
		ts.stops[x] = true
	}
}

// Set marks column x as a tab stop (HTS).
func (ts *TabStops) Set(x int) {
	ts.stops[x] = true
}

// Clear removes the tab stop at column x (TBC with param 0).
func (ts *TabStops) Clear(x int) {
	delete(ts.stops, x)
}

// ClearAll removes every tab stop (TBC with param 3).
func (ts *TabStops) ClearAll() {
	ts.stops = make(map[int]bool)
}

// Next returns the next tab stop strictly after x, or width-1 if none.
func (ts *TabStops) Next(x int) int {
	best := ts.width - 1
	for stop := range ts.stops {
		if stop > x && stop < best {
			best = stop
		}
	}
	return best
}

func (t *Terminal) tabForward() {
	next := t.Tabs.Next(t.Screen.CursorX)
	t.Screen.CursorX = next
}
