package screen

// Print implements vtparse.Sink. It writes ch at the cursor with the
// current attribute state, wrapping and scrolling the active region as
// needed.
func (s *Screen) Print(ch rune) {
	if s.cursor.Col == s.cols {
		s.cursor.Col = 0
		s.advanceRowWithScroll()
	}
	row := &s.grid[s.cursor.Row]
	row.cells[s.cursor.Col] = Cell{Char: ch, Attrs: s.attrs}
	s.markDirty(s.cursor.Row)
	s.cursor.Col++
}

// advanceRowWithScroll moves the cursor down one row, scrolling the
// active region up by one if the cursor would pass scrollBottom.
func (s *Screen) advanceRowWithScroll() {
	if s.cursor.Row >= s.scrollBottom {
		s.scrollUp(1)
		s.cursor.Row = s.scrollBottom
		return
	}
	s.cursor.Row++
}

// Execute implements vtparse.Sink for C0 control codes.
func (s *Screen) Execute(b byte) {
	switch b {
	case 0x08: // BS
		if s.cursor.Col > 0 {
			s.cursor.Col--
		}
	case 0x09: // HT
		next := s.nextTabStop(s.cursor.Col)
		if next >= s.cols {
			next = s.cols - 1
		}
		s.cursor.Col = next
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		s.advanceRowWithScroll()
	case 0x0d: // CR
		s.cursor.Col = 0
	default:
		// BEL and other C0 codes are no-ops; nothing is notified of a
		// bell.
	}
}

func (s *Screen) nextTabStop(col int) int {
	for c := col + 1; c < len(s.tabStops); c++ {
		if s.tabStops[c] {
			return c
		}
	}
	return s.cols
}

// scrollUp removes n rows at scrollTop, pushing them to scrollback when
// the region's top is the screen's top and the alternate screen is not
// active, then inserts n blank rows at scrollBottom.
func (s *Screen) scrollUp(n int) {
	if n <= 0 {
		return
	}
	top, bottom := s.scrollTop, s.scrollBottom
	if n > bottom-top+1 {
		n = bottom - top + 1
	}
	for i := 0; i < n; i++ {
		removed := s.grid[top]
		if top == 0 && !s.altScreen {
			s.pushScrollback(removed)
		}
		copy(s.grid[top:bottom], s.grid[top+1:bottom+1])
		s.grid[bottom] = NewRow(s.cols)
	}
	for r := top; r <= bottom; r++ {
		s.markDirty(r)
	}
}

// scrollDown inserts n blank rows at scrollTop, dropping n rows off
// scrollBottom.
func (s *Screen) scrollDown(n int) {
	if n <= 0 {
		return
	}
	top, bottom := s.scrollTop, s.scrollBottom
	if n > bottom-top+1 {
		n = bottom - top + 1
	}
	for i := 0; i < n; i++ {
		copy(s.grid[top+1:bottom+1], s.grid[top:bottom])
		s.grid[top] = NewRow(s.cols)
	}
	for r := top; r <= bottom; r++ {
		s.markDirty(r)
	}
}

func (s *Screen) pushScrollback(r Row) {
	s.scrollback = append(s.scrollback, r)
	if s.maxScroll > 0 && len(s.scrollback) > s.maxScroll {
		s.scrollback = s.scrollback[len(s.scrollback)-s.maxScroll:]
	}
}

func (s *Screen) clampCursor() {
	if s.cursor.Row < 0 {
		s.cursor.Row = 0
	}
	if s.cursor.Row >= s.rows {
		s.cursor.Row = s.rows - 1
	}
	if s.cursor.Col < 0 {
		s.cursor.Col = 0
	}
	if s.cursor.Col > s.cols {
		s.cursor.Col = s.cols
	}
}

// Resize changes the grid dimensions. Growing rows appends
// blanks; shrinking drops rows from the top into scrollback (subject to
// the alternate-screen rule and max_scrollback). Scroll region resets to
// the full grid and the cursor clamps into bounds.
func (s *Screen) Resize(cols, rows int) {
	if cols == s.cols && rows == s.rows {
		return
	}
	for i := range s.grid {
		s.grid[i].Resize(cols)
	}
	for i := range s.scrollback {
		s.scrollback[i].Resize(cols)
	}
	if rows > len(s.grid) {
		for len(s.grid) < rows {
			s.grid = append(s.grid, NewRow(cols))
		}
	} else if rows < len(s.grid) {
		drop := len(s.grid) - rows
		for i := 0; i < drop; i++ {
			if !s.altScreen {
				s.pushScrollback(s.grid[i])
			}
		}
		s.grid = append([]Row(nil), s.grid[drop:]...)
	}
	if cols > len(s.tabStops) {
		grown := make([]bool, cols)
		copy(grown, s.tabStops)
		s.tabStops = grown
	} else {
		s.tabStops = s.tabStops[:cols]
	}
	s.cols = cols
	s.rows = rows
	s.scrollTop = 0
	s.scrollBottom = rows - 1
	s.clampCursor()
	for r := range s.grid {
		s.markDirty(r)
	}
}
