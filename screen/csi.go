package screen

import "github.com/tuiharness/bte/vtparse"

// CSI implements vtparse.Sink, dispatching the supported subset of CSI
// final bytes.
func (s *Screen) CSI(c vtparse.CSI) {
	if c.Private != 0 {
		s.csiPrivate(c)
		return
	}
	n := int(c.Param(0, 1))
	switch c.Final {
	case 'A': // CUU
		s.moveCursorVertical(-n)
	case 'B': // CUD
		s.moveCursorVertical(n)
	case 'C': // CUF
		s.moveCursorHorizontal(n)
	case 'D': // CUB
		s.moveCursorHorizontal(-n)
	case 'E': // CNL
		s.moveCursorVertical(n)
		s.cursor.Col = 0
	case 'F': // CPL
		s.moveCursorVertical(-n)
		s.cursor.Col = 0
	case 'G': // CHA
		s.cursor.Col = clampInt(int(c.Param(0, 1))-1, 0, s.cols-1)
	case 'H', 'f': // CUP / HVP
		row := int(c.Param(0, 1)) - 1
		col := int(c.Param(1, 1)) - 1
		s.cursor.Row = clampInt(row, 0, s.rows-1)
		s.cursor.Col = clampInt(col, 0, s.cols-1)
	case 'J': // ED
		s.eraseInDisplay(int(c.Param(0, 0)))
	case 'K': // EL
		s.eraseInLine(int(c.Param(0, 0)))
	case 'L': // IL
		s.insertLines(n)
	case 'M': // DL
		s.deleteLines(n)
	case '@': // ICH
		s.insertChars(n)
	case 'P': // DCH
		s.deleteChars(n)
	case 'S': // SU
		s.scrollUp(n)
	case 'T': // SD
		s.scrollDown(n)
	case 'm': // SGR
		s.sgr(c.Params)
	case 'r': // DECSTBM
		top := int(c.Param(0, 1)) - 1
		bottom := int(c.Param(1, int64(s.rows))) - 1
		if top < 0 {
			top = 0
		}
		if bottom >= s.rows {
			bottom = s.rows - 1
		}
		if top < bottom {
			s.scrollTop = top
			s.scrollBottom = bottom
		}
		s.cursor = Cursor{}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Screen) moveCursorVertical(n int) {
	row := s.cursor.Row + n
	s.cursor.Row = clampInt(row, s.scrollTop, s.scrollBottom)
}

func (s *Screen) moveCursorHorizontal(n int) {
	col := s.cursor.Col + n
	s.cursor.Col = clampInt(col, 0, s.cols)
}

func (s *Screen) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		s.grid[s.cursor.Row].ClearFrom(s.cursor.Col)
		for r := s.cursor.Row + 1; r < s.rows; r++ {
			s.grid[r].Clear()
			s.markDirty(r)
		}
		s.markDirty(s.cursor.Row)
	case 1:
		s.grid[s.cursor.Row].ClearTo(s.cursor.Col)
		for r := 0; r < s.cursor.Row; r++ {
			s.grid[r].Clear()
			s.markDirty(r)
		}
		s.markDirty(s.cursor.Row)
	case 2, 3:
		for r := 0; r < s.rows; r++ {
			s.grid[r].Clear()
			s.markDirty(r)
		}
	}
}

func (s *Screen) eraseInLine(mode int) {
	row := &s.grid[s.cursor.Row]
	switch mode {
	case 0:
		row.ClearFrom(s.cursor.Col)
	case 1:
		row.ClearTo(s.cursor.Col)
	case 2:
		row.Clear()
	}
	s.markDirty(s.cursor.Row)
}

func (s *Screen) insertLines(n int) {
	if s.cursor.Row < s.scrollTop || s.cursor.Row > s.scrollBottom {
		return
	}
	savedTop := s.scrollTop
	s.scrollTop = s.cursor.Row
	s.scrollDown(n)
	s.scrollTop = savedTop
}

func (s *Screen) deleteLines(n int) {
	if s.cursor.Row < s.scrollTop || s.cursor.Row > s.scrollBottom {
		return
	}
	savedTop := s.scrollTop
	s.scrollTop = s.cursor.Row
	s.scrollUp(n)
	s.scrollTop = savedTop
}

func (s *Screen) insertChars(n int) {
	row := &s.grid[s.cursor.Row]
	col := s.cursor.Col
	if n > row.Len()-col {
		n = row.Len() - col
	}
	if n <= 0 {
		return
	}
	copy(row.cells[col+n:], row.cells[col:row.Len()-n])
	for i := col; i < col+n; i++ {
		row.cells[i] = blankCell
	}
	s.markDirty(s.cursor.Row)
}

func (s *Screen) deleteChars(n int) {
	row := &s.grid[s.cursor.Row]
	col := s.cursor.Col
	if n > row.Len()-col {
		n = row.Len() - col
	}
	if n <= 0 {
		return
	}
	copy(row.cells[col:], row.cells[col+n:])
	for i := row.Len() - n; i < row.Len(); i++ {
		row.cells[i] = blankCell
	}
	s.markDirty(s.cursor.Row)
}

func (s *Screen) csiPrivate(c vtparse.CSI) {
	if c.Final != 'h' && c.Final != 'l' {
		return
	}
	set := c.Final == 'h'
	for _, p := range c.Params {
		switch p {
		case 1047, 1049:
			if set {
				s.enterAlternateScreen(p == 1049)
			} else {
				s.exitAlternateScreen(p == 1049)
			}
		case 1048:
			if set {
				s.saveCursor()
			} else {
				s.restoreCursor()
			}
		default:
			// Accepted but no-op: this private mode has no screen-state
			// effect in this model.
		}
	}
}
