package screen

import "github.com/tuiharness/bte/vtparse"

// ESC implements vtparse.Sink for single/two-byte ESC sequences.
func (s *Screen) ESC(e vtparse.Esc) {
	switch e.Variant {
	case vtparse.EscSaveCursor:
		s.saveCursor()
	case vtparse.EscRestoreCursor:
		s.restoreCursor()
	case vtparse.EscIndex:
		s.advanceRowWithScroll()
	case vtparse.EscReverseIndex:
		if s.cursor.Row <= s.scrollTop {
			s.scrollDown(1)
		} else {
			s.cursor.Row--
		}
	case vtparse.EscNextLine:
		s.advanceRowWithScroll()
		s.cursor.Col = 0
	case vtparse.EscReset:
		s.resetToDefaults()
	case vtparse.EscApplicationKeypad, vtparse.EscNormalKeypad:
		// No keypad-mode state is modeled; these are accepted no-ops.
	case vtparse.EscDesignateG0, vtparse.EscDesignateG1, vtparse.EscDecAlignmentTest:
		// Charset designation and the DEC alignment test pattern are
		// outside the subset of ECMA-48 this engine emulates.
	}
}

func (s *Screen) saveCursor() {
	s.savedCursor = &SavedCursor{Cursor: s.cursor, Attrs: s.attrs}
}

func (s *Screen) restoreCursor() {
	if s.savedCursor == nil {
		return
	}
	s.cursor = s.savedCursor.Cursor
	s.attrs = s.savedCursor.Attrs
	s.clampCursor()
}

func (s *Screen) resetToDefaults() {
	for r := range s.grid {
		s.grid[r].Clear()
		s.markDirty(r)
	}
	s.cursor = Cursor{}
	s.attrs = DefaultAttrs
	s.scrollTop = 0
	s.scrollBottom = s.rows - 1
	s.savedCursor = nil
}

// enterAlternateScreen deep-copies the primary grid, scrollback, and
// cursor into the saved triple, then clears the grid and scrollback and
// homes the cursor. Both 1047 and 1049 save and restore the cursor
// position this way; alsoSaveCursor (mode 1049) additionally performs a
// DECSC-style save of the cursor and attributes.
func (s *Screen) enterAlternateScreen(alsoSaveCursor bool) {
	if s.altScreen {
		return
	}
	s.savedGrid = make([]Row, len(s.grid))
	for i := range s.grid {
		s.savedGrid[i] = s.grid[i].Copy()
	}
	s.savedBack = append([]Row(nil), s.scrollback...)
	s.savedCur = s.cursor

	if alsoSaveCursor {
		s.saveCursor()
	}

	for r := range s.grid {
		s.grid[r].Clear()
	}
	s.scrollback = s.scrollback[:0]
	s.cursor = Cursor{}
	s.altScreen = true
	for r := range s.grid {
		s.markDirty(r)
	}
}

// exitAlternateScreen restores the saved primary triple exactly as saved:
// grid, scrollback, and cursor must equal what enterAlternateScreen
// captured, with no loss or mutation in between.
func (s *Screen) exitAlternateScreen(alsoRestoreCursor bool) {
	if !s.altScreen {
		return
	}
	s.grid = s.savedGrid
	s.scrollback = s.savedBack
	s.cursor = s.savedCur
	s.savedGrid, s.savedBack = nil, nil
	s.altScreen = false

	if alsoRestoreCursor {
		s.restoreCursor()
	}
	for r := range s.grid {
		s.markDirty(r)
	}
}
