package invariant

import "github.com/tuiharness/bte/screen"

// ScreenAdapter bridges *screen.Screen, whose Cursor() returns a
// Row/Col-field struct, to the Screen interface invariants evaluate
// against.
type ScreenAdapter struct {
	S *screen.Screen
}

func (a ScreenAdapter) Text() string      { return a.S.Text() }
func (a ScreenAdapter) Cols() int         { return a.S.Cols() }
func (a ScreenAdapter) Rows() int         { return a.S.Rows() }
func (a ScreenAdapter) CursorRow() int    { return a.S.Cursor().Row }
func (a ScreenAdapter) CursorCol() int    { return a.S.Cursor().Col }
func (a ScreenAdapter) StateHash() uint64 { return a.S.StateHash() }
