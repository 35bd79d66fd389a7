// Package screen implements the 2D cell grid, scrollback, alternate
// screen, scroll region, and content hashing. Screen implements
// vtparse.Sink directly: parsing and application are one pipeline step,
// the way danielgatis-go-headless-term's Terminal implements
// ansicode.Handler.
package screen

import (
	"hash/fnv"

	"github.com/tuiharness/bte/vtparse"
)

var _ vtparse.Sink = (*Screen)(nil)

// Screen owns the primary grid, scrollback, the saved triple used only
// while the alternate screen is active, cursor, scroll region, current
// print attributes, and a dirty-line set.
type Screen struct {
	cols, rows int

	grid       []Row
	scrollback []Row
	maxScroll  int

	altScreen bool
	savedGrid []Row // saved primary grid+scrollback+cursor while alternate is active
	savedBack []Row
	savedCur  Cursor

	cursor      Cursor
	savedCursor *SavedCursor

	attrs Attrs

	scrollTop, scrollBottom int

	dirty    map[int]struct{}
	dirtyOn  bool
	tabStops []bool

	title string

	parser *vtparse.Parser

	responder Responder
}

// Responder receives bytes the screen writes back to the PTY; nil is
// valid. No sequence the screen handles produces a reply (DSR, CSI n, is
// not handled), so the responder is never called.
type Responder interface {
	Respond(data []byte)
}

// Option configures a new Screen.
type Option func(*Screen)

// WithMaxScrollback bounds the scrollback deque: its length never
// exceeds n. An n of zero or less leaves it unbounded.
func WithMaxScrollback(n int) Option {
	return func(s *Screen) { s.maxScroll = n }
}

// WithResponder installs the Responder.
func WithResponder(r Responder) Option {
	return func(s *Screen) { s.responder = r }
}

// WithDirtyTracking enables or disables dirty-line tracking (default on).
func WithDirtyTracking(on bool) Option {
	return func(s *Screen) { s.dirtyOn = on }
}

// New constructs a Screen of the given size. Scroll region defaults to
// the full grid.
func New(cols, rows int, opts ...Option) *Screen {
	s := &Screen{
		cols:         cols,
		rows:         rows,
		maxScroll:    10000,
		dirtyOn:      true,
		scrollTop:    0,
		scrollBottom: rows - 1,
		attrs:        DefaultAttrs,
		dirty:        make(map[int]struct{}),
		parser:       vtparse.NewParser(),
	}
	s.grid = make([]Row, rows)
	for i := range s.grid {
		s.grid[i] = NewRow(cols)
	}
	s.tabStops = make([]bool, cols)
	for i := 0; i < cols; i += 8 {
		s.tabStops[i] = true
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Cols returns the current column count.
func (s *Screen) Cols() int { return s.cols }

// Rows returns the current row count.
func (s *Screen) Rows() int { return s.rows }

// Cursor returns the current cursor position.
func (s *Screen) Cursor() Cursor { return s.cursor }

// IsAlternateScreen reports whether the alternate buffer is active.
func (s *Screen) IsAlternateScreen() bool { return s.altScreen }

// ScrollbackLen returns the number of rows currently held in scrollback.
func (s *Screen) ScrollbackLen() int { return len(s.scrollback) }

// Write feeds raw PTY output bytes through the parser into the grid. It
// implements io.Writer so a Screen can sit directly behind an io.Copy from
// the I/O loop's output buffer.
func (s *Screen) Write(p []byte) (int, error) {
	s.parser.FeedBytes(p, s)
	return len(p), nil
}

// Cell returns a pointer to the cell at (row, col) in the active grid, or
// nil if out of bounds.
func (s *Screen) Cell(row, col int) *Cell {
	if row < 0 || row >= len(s.grid) {
		return nil
	}
	return s.grid[row].Cell(col)
}

// Row returns the row at the given index in the active grid.
func (s *Screen) Row(row int) *Row {
	if row < 0 || row >= len(s.grid) {
		return nil
	}
	return &s.grid[row]
}

// Text returns the full visible screen as newline-joined rows.
func (s *Screen) Text() string {
	out := make([]byte, 0, s.rows*(s.cols+1))
	for i := range s.grid {
		out = append(out, []byte(s.grid[i].Text())...)
		if i != len(s.grid)-1 {
			out = append(out, '\n')
		}
	}
	return string(out)
}

func (s *Screen) markDirty(row int) {
	if s.dirtyOn {
		s.dirty[row] = struct{}{}
	}
}

// TakeDirtyLines drains and returns the dirty-row set.
func (s *Screen) TakeDirtyLines() []int {
	out := make([]int, 0, len(s.dirty))
	for r := range s.dirty {
		out = append(out, r)
	}
	s.dirty = make(map[int]struct{})
	return out
}

// SetDirtyTracking enables or disables dirty tracking; disabling clears
// the current set.
func (s *Screen) SetDirtyTracking(on bool) {
	s.dirtyOn = on
	if !on {
		s.dirty = make(map[int]struct{})
	}
}

// StateHash is a deterministic FNV-1a hash over (cols, rows, cursor, grid
// cells in row-major order) including attributes.
func (s *Screen) StateHash() uint64 {
	return s.hash(true)
}

// TextHash is StateHash with attributes masked out.
func (s *Screen) TextHash() uint64 {
	return s.hash(false)
}

func (s *Screen) hash(withAttrs bool) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeInt := func(v int) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	writeInt(s.cols)
	writeInt(s.rows)
	writeInt(s.cursor.Row)
	writeInt(s.cursor.Col)
	for i := range s.grid {
		row := &s.grid[i]
		for c := 0; c < row.Len(); c++ {
			cell := row.Cell(c)
			writeInt(int(cell.Char))
			if withAttrs {
				writeInt(int(cell.Attrs.Fg.Index))
				if cell.Attrs.Fg.Default {
					writeInt(-1)
				}
				writeInt(int(cell.Attrs.Bg.Index))
				if cell.Attrs.Bg.Default {
					writeInt(-1)
				}
				writeInt(int(cell.Attrs.Style))
			}
		}
	}
	return h.Sum64()
}
