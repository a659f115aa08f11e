package term

// Screen is the abstract logical screen of spec.md §3/§4.2: an ordered
// sequence of lines, the bottom Height of which form the visible viewport,
// earlier lines forming a bounded scrollback. All coordinate clamping for
// every emulator lives here, per the design note in spec.md §4.2.
type Screen struct {
	Width  int
	Height int

	// Lines holds scrollback+viewport, oldest first. The viewport is always
	// the last Height entries.
	Lines []Line

	ScrollbackMax int

	CursorX, CursorY int // viewport-relative, 0-based

	RegionTop, RegionBottom int // inclusive, viewport-relative

	CurAttr Attr

	// Modes that affect Screen operations directly; the rest of the larger
	// per-emulator Status record (spec.md §3) lives in state.go.
	InsertMode     bool
	LineWrap       bool
	OriginMode     bool
	ReverseVideo   bool
	CursorVisible  bool
	WrapPending    bool // right-margin "pending wrap" deferred until next print
}

// NewScreen allocates a screen of height blank lines of width cells, with
// the cursor at the origin and the default attribute, matching the
// documented reset defaults (spec.md §3 "Lifetimes"). Scrollback is not
// allocated up front: lines are added to it as they scroll off the top,
// up to scrollbackMax.
func NewScreen(width, height, scrollbackMax int) *Screen {
	s := &Screen{
		Width:         width,
		Height:        height,
		ScrollbackMax: scrollbackMax,
		CurAttr:       DefaultAttr,
		LineWrap:      true,
		CursorVisible: true,
	}
	s.Lines = make([]Line, height)
	for i := range s.Lines {
		s.Lines[i] = NewLine(width, DefaultAttr)
	}
	s.RegionTop = 0
	s.RegionBottom = height - 1
	return s
}

// Reset restores the screen to its post-construction state: full clear,
// cursor home, default attribute, full-viewport scroll region, insert/
// origin/reverse-video modes off, cursor visible; LineWrap is left as it
// was (spec.md §3 "Lifetimes": "reset ... reasserts the default
// attribute").
func (s *Screen) Reset() {
	s.CurAttr = DefaultAttr
	s.CursorX, s.CursorY = 0, 0
	s.RegionTop, s.RegionBottom = 0, s.Height-1
	s.InsertMode = false
	s.OriginMode = false
	s.ReverseVideo = false
	s.CursorVisible = true
	s.WrapPending = false
	s.EraseScreen(0, 0, s.Height-1, s.Width-1, false)
}

// viewport returns the slice of Lines that is the visible viewport.
func (s *Screen) viewport() []Line {
	return s.Lines[len(s.Lines)-s.Height:]
}

// Line returns the viewport line at row y (0-based), or nil if out of range.
func (s *Screen) Line(y int) *Line {
	vp := s.viewport()
	if y < 0 || y >= len(vp) {
		return nil
	}
	return &vp[y]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// regionBounds returns the effective top/bottom rows motions must respect:
// the scrolling region when origin-mode is active, the whole viewport
// otherwise (spec.md §3 invariants).
func (s *Screen) regionBounds() (top, bottom int) {
	if s.OriginMode {
		return s.RegionTop, s.RegionBottom
	}
	return 0, s.Height - 1
}

// scrollBounds returns the scrolling region itself, unconditionally — the
// boundary that LF/IND and cursor_up/down use to decide whether to scroll.
// Unlike regionBounds, this is never widened to the full viewport: origin
// mode only changes how cursor motions are *clamped* and how CUP addresses
// coordinates, not where the scrolling region's edges are (spec.md §4.2).
func (s *Screen) scrollBounds() (top, bottom int) {
	return s.RegionTop, s.RegionBottom
}

func (s *Screen) clampCursor() {
	s.CursorX = clamp(s.CursorX, 0, s.Width-1)
	top, bottom := s.regionBounds()
	s.CursorY = clamp(s.CursorY, top, bottom)
}

// Print places ch at the cursor with the current attribute and advances the
// cursor, honouring insert mode and line-wrap (spec.md §4.2 "print").
func (s *Screen) Print(ch rune) {
	ch = sanitizeRune(ch)

	if s.WrapPending {
		s.lineFeedInternal()
		s.CursorX = 0
		s.WrapPending = false
	}

	line := s.Line(s.CursorY)
	if line == nil {
		return
	}

	if s.InsertMode {
		s.insertCellsAt(line, s.CursorX, 1)
	}
	line.Cells[s.CursorX] = Cell{Rune: ch, Attr: s.CurAttr}
	if s.CursorX+1 > line.LogicalLength {
		line.LogicalLength = s.CursorX + 1
	}

	if s.CursorX == s.Width-1 {
		if s.LineWrap {
			// Defer the wrap: stay on this row until the next print, so a
			// print that lands exactly on the last column doesn't eagerly
			// scroll before it has to (classic terminal "pending wrap").
			s.WrapPending = true
		}
		// else: line-wrap off, further prints overwrite the last column.
		return
	}
	s.CursorX++
}

func (s *Screen) insertCellsAt(line *Line, x, n int) {
	w := line.Width()
	for i := w - 1; i >= x+n; i-- {
		line.Cells[i] = line.Cells[i-n]
	}
	for i := x; i < x+n && i < w; i++ {
		line.Cells[i] = BlankCell(s.CurAttr)
	}
}

// CursorUp moves the cursor up n rows, scrolling the region down by one if
// it would leave the region top (spec.md §4.2).
func (s *Screen) CursorUp(n int) {
	s.WrapPending = false
	top, _ := s.regionBounds()
	if s.CursorY-n < top {
		s.CursorY = top
		s.ScrollDown(1)
		return
	}
	s.CursorY -= n
	s.clampCursor()
}

// CursorDown moves the cursor down n rows, scrolling the region up by one if
// it would leave the region bottom.
func (s *Screen) CursorDown(n int) {
	s.WrapPending = false
	_, bottom := s.regionBounds()
	if s.CursorY+n > bottom {
		s.CursorY = bottom
		s.ScrollUp(1)
		return
	}
	s.CursorY += n
	s.clampCursor()
}

// CursorLeft/CursorRight move horizontally, clamped to the viewport.
func (s *Screen) CursorLeft(n int) {
	s.WrapPending = false
	s.CursorX = clamp(s.CursorX-n, 0, s.Width-1)
}

func (s *Screen) CursorRight(n int) {
	s.WrapPending = false
	s.CursorX = clamp(s.CursorX+n, 0, s.Width-1)
}

// CursorPosition performs an absolute move; (0,0) is relative to the
// viewport or to the scrolling region depending on origin-mode.
func (s *Screen) CursorPosition(y, x int) {
	s.WrapPending = false
	top, _ := s.regionBounds()
	s.CursorY = top + y
	s.CursorX = x
	s.clampCursor()
}

func (s *Screen) lineFeedInternal() {
	_, bottom := s.scrollBounds()
	if s.CursorY == bottom || s.CursorY == s.Height-1 {
		s.ScrollUp(1)
		return
	}
	s.CursorY++
}

// CarriageReturn sets x=0.
func (s *Screen) CarriageReturn() {
	s.CursorX = 0
	s.WrapPending = false
}

// LineFeed moves down with scroll-if-needed.
func (s *Screen) LineFeed() {
	s.lineFeedInternal()
	s.WrapPending = false
}

// FormFeedVT is the VT-family form-feed behaviour: equivalent to LF.
func (s *Screen) FormFeedVT() {
	s.LineFeed()
}

// FormFeedPC is the PC-style form-feed behaviour: erase screen + home.
func (s *Screen) FormFeedPC() {
	s.EraseScreen(0, 0, s.Height-1, s.Width-1, false)
	s.CursorX, s.CursorY = 0, 0
	s.WrapPending = false
}

// EraseScreen fills the inclusive rectangle (y0,x0)-(y1,x1) with blanks at
// the current attribute. honourProtected, when true, skips protected cells
// (DECSCA), matching spec.md §4.2.
func (s *Screen) EraseScreen(y0, x0, y1, x1 int, honourProtected bool) {
	for y := y0; y <= y1 && y < s.Height; y++ {
		line := s.Line(y)
		if line == nil {
			continue
		}
		startX, endX := 0, line.Width()-1
		if y == y0 {
			startX = x0
		}
		if y == y1 {
			endX = x1
		}
		s.eraseLineRange(line, startX, endX, honourProtected)
	}
}

// EraseLine fills a single row's [x0,x1] inclusive range with blanks.
func (s *Screen) EraseLine(x0, x1 int, honourProtected bool) {
	line := s.Line(s.CursorY)
	if line == nil {
		return
	}
	s.eraseLineRange(line, x0, x1, honourProtected)
}

func (s *Screen) eraseLineRange(line *Line, x0, x1 int, honourProtected bool) {
	if x0 < 0 {
		x0 = 0
	}
	if x1 >= line.Width() {
		x1 = line.Width() - 1
	}
	for x := x0; x <= x1; x++ {
		if honourProtected && line.Cells[x].Attr.Protected {
			continue
		}
		line.Cells[x] = BlankCell(s.CurAttr)
	}
	if x0 == 0 {
		line.LogicalLength = 0
	}
}

// ScrollUp scrolls the scrolling region up by n; lines that leave the top of
// the full viewport (region top == 0) enter scrollback.
func (s *Screen) ScrollUp(n int) {
	s.scrollRegion(s.RegionTop, s.RegionBottom, n, true)
}

// ScrollDown scrolls the scrolling region down by n.
func (s *Screen) ScrollDown(n int) {
	s.scrollRegion(s.RegionTop, s.RegionBottom, n, false)
}

func (s *Screen) scrollRegion(top, bottom, n int, up bool) {
	if n <= 0 {
		return
	}
	vp := s.viewport()
	if top < 0 || bottom >= len(vp) || top > bottom {
		return
	}
	regionHeight := bottom - top + 1
	if n > regionHeight {
		n = regionHeight
	}

	if up {
		if top == 0 {
			// Whole-viewport-origin scroll: push the departing lines into
			// scrollback before shifting.
			for i := 0; i < n; i++ {
				s.pushScrollback(vp[i])
			}
		}
		for i := 0; i < regionHeight-n; i++ {
			vp[top+i] = vp[top+i+n]
		}
		for i := regionHeight - n; i < regionHeight; i++ {
			vp[top+i] = NewLine(s.Width, s.CurAttr)
		}
	} else {
		for i := regionHeight - 1; i >= n; i-- {
			vp[top+i] = vp[top+i-n]
		}
		for i := 0; i < n; i++ {
			vp[top+i] = NewLine(s.Width, s.CurAttr)
		}
	}
}

func (s *Screen) pushScrollback(l Line) {
	if s.ScrollbackMax <= 0 {
		return
	}
	cp := Line{Cells: append([]Cell(nil), l.Cells...), LogicalLength: l.LogicalLength, DoubleWidth: l.DoubleWidth}
	scrollbackLen := len(s.Lines) - s.Height
	if scrollbackLen >= s.ScrollbackMax {
		// Drop the oldest scrollback line.
		s.Lines = s.Lines[1:]
	}
	// Insert just before the viewport.
	insertAt := len(s.Lines) - s.Height
	s.Lines = append(s.Lines, Line{})
	copy(s.Lines[insertAt+1:], s.Lines[insertAt:])
	s.Lines[insertAt] = cp
}

// RectangleScrollUp/Down implement AVATAR's rectangular scroll (spec.md
// §4.2 "rectangle_scroll_up/down"): content outside the rectangle is
// untouched, and (unlike ScrollUp/Down) departing rows never enter
// scrollback, matching AVATAR's own ^J/^K semantics (spec.md §4.3).
func (s *Screen) RectangleScrollUp(top, left, bottom, right, n int) {
	s.rectangleScroll(top, left, bottom, right, n, true)
}

func (s *Screen) RectangleScrollDown(top, left, bottom, right, n int) {
	s.rectangleScroll(top, left, bottom, right, n, false)
}

func (s *Screen) rectangleScroll(top, left, bottom, right, n int, up bool) {
	vp := s.viewport()
	top, bottom = clamp(top, 0, len(vp)-1), clamp(bottom, 0, len(vp)-1)
	left, right = clamp(left, 0, s.Width-1), clamp(right, 0, s.Width-1)
	if top > bottom || left > right || n <= 0 {
		return
	}
	h := bottom - top + 1
	if n > h {
		n = h
	}
	snapshot := make([][]Cell, h)
	for i := 0; i < h; i++ {
		snapshot[i] = append([]Cell(nil), vp[top+i].Cells[left:right+1]...)
	}
	for i := 0; i < h; i++ {
		var src []Cell
		if up {
			if i+n < h {
				src = snapshot[i+n]
			}
		} else {
			if i-n >= 0 {
				src = snapshot[i-n]
			}
		}
		dst := vp[top+i].Cells[left : right+1]
		if src != nil {
			copy(dst, src)
		} else {
			for j := range dst {
				dst[j] = BlankCell(s.CurAttr)
			}
		}
	}
}

// InsertBlanks inserts n blank cells at the cursor, shifting the rest of the
// row right (the rightmost cells are dropped).
func (s *Screen) InsertBlanks(n int) {
	line := s.Line(s.CursorY)
	if line == nil {
		return
	}
	s.insertCellsAt(line, s.CursorX, n)
}

// DeleteCharacter deletes n cells at the cursor, shifting the remainder of
// the row left and filling the vacated right end with blanks.
func (s *Screen) DeleteCharacter(n int) {
	line := s.Line(s.CursorY)
	if line == nil {
		return
	}
	w := line.Width()
	for i := s.CursorX; i < w-n; i++ {
		line.Cells[i] = line.Cells[i+n]
	}
	for i := w - n; i < w; i++ {
		if i >= 0 && i < w {
			line.Cells[i] = BlankCell(s.CurAttr)
		}
	}
}

// InsertLine/DeleteLine operate within the scrolling region at the cursor
// row, used by IL/DL (spec.md §4.4).
func (s *Screen) InsertLine(n int) {
	_, bottom := s.scrollBounds()
	s.scrollRegion(s.CursorY, bottom, n, false)
}

func (s *Screen) DeleteLine(n int) {
	_, bottom := s.scrollBounds()
	s.scrollRegion(s.CursorY, bottom, n, true)
}

// FillLineWithCharacter implements AVATAR's pattern fill (spec.md §4.2).
func (s *Screen) FillLineWithCharacter(x0, x1 int, ch rune, honourProtected bool) {
	line := s.Line(s.CursorY)
	if line == nil {
		return
	}
	ch = sanitizeRune(ch)
	if x1 >= line.Width() {
		x1 = line.Width() - 1
	}
	for x := x0; x <= x1 && x >= 0; x++ {
		if honourProtected && line.Cells[x].Attr.Protected {
			continue
		}
		line.Cells[x] = Cell{Rune: ch, Attr: s.CurAttr}
	}
}

// SetDoubleWidth marks the current row as double-width.
func (s *Screen) SetDoubleWidth(flag bool) {
	line := s.Line(s.CursorY)
	if line == nil {
		return
	}
	line.DoubleWidth = flag
}

// SetScrollRegion sets the scrolling region (top,bottom inclusive,
// viewport-relative) honouring the invariant top <= bottom.
func (s *Screen) SetScrollRegion(top, bottom int) {
	top = clamp(top, 0, s.Height-1)
	bottom = clamp(bottom, 0, s.Height-1)
	if top > bottom {
		top, bottom = bottom, top
	}
	s.RegionTop, s.RegionBottom = top, bottom
}

// VisibleAttr resolves a cell's paint colours honouring both its own
// Reverse flag and the screen-wide ReverseVideo mode (spec.md §4.2
// "check_reverse_color").
func (s *Screen) VisibleAttr(c Cell) (fg, bg Color) {
	a := checkReverseColor(c.Attr, s.ReverseVideo)
	return a.Resolved()
}
