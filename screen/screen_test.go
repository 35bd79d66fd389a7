package screen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintAndCursorAdvance(t *testing.T) {
	s := New(10, 3)
	s.Write([]byte("abc"))
	require.Equal(t, "abc", s.Row(0).Text()[:3])
	require.Equal(t, Cursor{Row: 0, Col: 3}, s.Cursor())
}

func TestWrapAtColumnBoundary(t *testing.T) {
	s := New(3, 3)
	s.Write([]byte("abcd"))
	require.Equal(t, "abc", s.Row(0).Text())
	require.Equal(t, "d", s.Row(1).Text()[:1])
	require.Equal(t, 1, s.Cursor().Col)
}

func TestLineFeedScrollsAtBottomOfRegion(t *testing.T) {
	s := New(5, 2)
	s.Write([]byte("one\r\ntwo\r\nthree"))
	require.Equal(t, "two  ", s.Row(0).Text())
	require.Equal(t, "three", s.Row(1).Text())
}

func TestCursorNeverExceedsBoundsAfterArbitraryBytes(t *testing.T) {
	s := New(10, 5)
	s.Write([]byte("\x1b[99;99H\x1b[A\x1b[999B\x1b[999C\x1b[999D"))
	c := s.Cursor()
	require.LessOrEqual(t, c.Row, s.Rows())
	require.LessOrEqual(t, c.Col, s.Cols())
}

func TestEraseInLine(t *testing.T) {
	s := New(5, 1)
	s.Write([]byte("abcde"))
	s.Write([]byte("\x1b[3G\x1b[K"))
	require.Equal(t, "ab   ", s.Row(0).Text())
}

func TestSGRSetsAttrsAndResetsOnZero(t *testing.T) {
	s := New(5, 1)
	s.Write([]byte("\x1b[1;31mX\x1b[0mY"))
	require.True(t, s.Row(0).Cell(0).Attrs.Style.Has(StyleBold))
	require.Equal(t, Indexed(1), s.Row(0).Cell(0).Attrs.Fg)
	require.Equal(t, DefaultAttrs, s.Row(0).Cell(1).Attrs)
}

func TestSGR256Color(t *testing.T) {
	s := New(5, 1)
	s.Write([]byte("\x1b[38;5;200mX"))
	require.Equal(t, Indexed(200), s.Row(0).Cell(0).Attrs.Fg)
}

func TestAlternateScreenRestoresPrimaryExactly(t *testing.T) {
	s := New(5, 2)
	s.Write([]byte("hello"))
	before := s.TakeSnapshot()

	s.Write([]byte("\x1b[?1049h"))
	require.True(t, s.IsAlternateScreen())
	s.Write([]byte("garbage"))

	s.Write([]byte("\x1b[?1049l"))
	require.False(t, s.IsAlternateScreen())
	after := s.TakeSnapshot()
	require.Equal(t, before.Lines, after.Lines)
	require.Equal(t, before.Cursor, after.Cursor)
}

func TestScrollbackNeverGrowsInAlternateScreen(t *testing.T) {
	s := New(5, 2, WithMaxScrollback(100))
	s.Write([]byte("\x1b[?1049h"))
	for i := 0; i < 20; i++ {
		s.Write([]byte("x\r\n"))
	}
	require.Equal(t, 0, s.ScrollbackLen())
}

func TestScrollbackBoundedByMax(t *testing.T) {
	s := New(5, 2, WithMaxScrollback(3))
	for i := 0; i < 50; i++ {
		s.Write([]byte("x\r\n"))
	}
	require.LessOrEqual(t, s.ScrollbackLen(), 3)
}

func TestStateHashStableWithoutMutation(t *testing.T) {
	s := New(5, 2)
	s.Write([]byte("abc"))
	h1 := s.StateHash()
	h2 := s.StateHash()
	require.Equal(t, h1, h2)
}

func TestStateHashChangesOnMutation(t *testing.T) {
	s := New(5, 2)
	h1 := s.StateHash()
	s.Write([]byte("x"))
	h2 := s.StateHash()
	require.NotEqual(t, h1, h2)
}

func TestResizeToSameDimensionsIsNoop(t *testing.T) {
	s := New(5, 2)
	s.Write([]byte("hi"))
	h1 := s.StateHash()
	s.Resize(5, 2)
	require.Equal(t, h1, s.StateHash())
}

func TestResizeOneByOneDoesNotPanic(t *testing.T) {
	s := New(5, 2)
	require.NotPanics(t, func() { s.Resize(1, 1) })
	_ = s.StateHash()
}

func TestDirtyTrackingDrains(t *testing.T) {
	s := New(5, 2)
	s.Write([]byte("x"))
	lines := s.TakeDirtyLines()
	require.Contains(t, lines, 0)
	require.Empty(t, s.TakeDirtyLines())
}
