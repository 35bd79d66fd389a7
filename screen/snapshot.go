package screen

// Snapshot is a point-in-time capture of visible screen state.
type Snapshot struct {
	Cols, Rows int
	Cursor     Cursor
	Lines      []string
	Hash       uint64
}

// maxExcerptChars bounds the excerpt stored in a trace checkpoint.
const maxExcerptChars = 200

// TakeSnapshot captures the current visible grid as text lines plus the
// state hash, independent of any trace recording.
func (s *Screen) TakeSnapshot() Snapshot {
	lines := make([]string, len(s.grid))
	for i := range s.grid {
		lines[i] = s.grid[i].Text()
	}
	return Snapshot{
		Cols:   s.cols,
		Rows:   s.rows,
		Cursor: s.cursor,
		Lines:  lines,
		Hash:   s.StateHash(),
	}
}

// Excerpt returns up to the first maxExcerptChars runes of the visible
// text, for embedding in a trace checkpoint.
func (s *Screen) Excerpt() string {
	text := s.Text()
	r := []rune(text)
	if len(r) <= maxExcerptChars {
		return text
	}
	return string(r[:maxExcerptChars])
}
