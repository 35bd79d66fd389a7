package vtparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	prints   []rune
	executes []byte
	csis     []CSI
	oscs     [][2]any
	escs     []Esc
	dcs      [][]byte
	apc      [][]byte
}

func (r *recordingSink) Print(c rune)             { r.prints = append(r.prints, c) }
func (r *recordingSink) Execute(b byte)           { r.executes = append(r.executes, b) }
func (r *recordingSink) CSI(c CSI)                { r.csis = append(r.csis, c) }
func (r *recordingSink) OSC(cmd int, data []byte) { r.oscs = append(r.oscs, [2]any{cmd, string(data)}) }
func (r *recordingSink) ESC(e Esc)                { r.escs = append(r.escs, e) }
func (r *recordingSink) DCS(data []byte)          { r.dcs = append(r.dcs, data) }
func (r *recordingSink) APC(data []byte)          { r.apc = append(r.apc, data) }

func TestPrintAndExecute(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	p.FeedBytes([]byte("Hi\x07\nThere"), s)
	require.Equal(t, []rune("HiThere"), s.prints)
	require.Equal(t, []byte{0x07, 0x0a}, s.executes)
	require.Equal(t, Ground, p.State())
}

func TestDELIsDropped(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	p.FeedBytes([]byte{'a', 0x7f, 'b'}, s)
	require.Equal(t, []rune{'a', 'b'}, s.prints)
}

func TestCSIBasic(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	p.FeedBytes([]byte("\x1b[1;31m"), s)
	require.Len(t, s.csis, 1)
	require.Equal(t, []int64{1, 31}, s.csis[0].Params)
	require.Equal(t, byte('m'), s.csis[0].Final)
}

func TestCSIPrivateMarker(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	p.FeedBytes([]byte("\x1b[?1049h"), s)
	require.Len(t, s.csis, 1)
	require.Equal(t, byte('?'), s.csis[0].Private)
	require.Equal(t, []int64{1049}, s.csis[0].Params)
}

func TestCSIEmptyParamDefaultsToAbsent(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	p.FeedBytes([]byte("\x1b[m"), s)
	require.Len(t, s.csis, 1)
	require.Equal(t, int64(0), s.csis[0].Param(0, 0))
}

func TestCANCancelsSequence(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	p.FeedBytes([]byte("\x1b[1;3\x18A"), s)
	require.Empty(t, s.csis)
	require.Equal(t, []rune{'A'}, s.prints)
}

func TestOSCWithBELTerminator(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	p.FeedBytes([]byte("\x1b]0;title\x07"), s)
	require.Len(t, s.oscs, 1)
	require.Equal(t, 0, s.oscs[0][0])
	require.Equal(t, "title", s.oscs[0][1])
}

func TestUTF8MultiByte(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	p.FeedBytes([]byte("héllo"), s)
	require.Equal(t, []rune("héllo"), s.prints)
}

func TestUTF8InvalidContinuationReprocesses(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	// 0xC2 starts a 2-byte sequence, but 'A' is not a valid continuation.
	p.FeedBytes([]byte{0xC2, 'A'}, s)
	require.Equal(t, []rune{0xfffd, 'A'}, s.prints)
}

func TestParserNeverPanicsOnRandomBytes(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = byte(i)
	}
	require.NotPanics(t, func() { p.FeedBytes(buf, s) })
}

func TestResetReturnsToGround(t *testing.T) {
	p := NewParser()
	s := &recordingSink{}
	p.FeedBytes([]byte("\x1b["), s)
	require.NotEqual(t, Ground, p.State())
	p.Reset()
	require.Equal(t, Ground, p.State())
}
