package invariant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeScreen struct {
	text       string
	cols, rows int
	curRow     int
	curCol     int
	hash       uint64
}

func (f fakeScreen) Text() string      { return f.text }
func (f fakeScreen) Cols() int         { return f.cols }
func (f fakeScreen) Rows() int         { return f.rows }
func (f fakeScreen) CursorRow() int    { return f.curRow }
func (f fakeScreen) CursorCol() int    { return f.curCol }
func (f fakeScreen) StateHash() uint64 { return f.hash }

func baseCtx() Context {
	return Context{
		Screen: fakeScreen{text: "hello world", cols: 80, rows: 24, curRow: 1, curCol: 5, hash: 42},
	}
}

func TestCursorBoundsSatisfiedWithinGrid(t *testing.T) {
	ctx := baseCtx()
	r := CursorBounds{}.Evaluate(ctx)
	require.True(t, r.Satisfied)
}

func TestCursorBoundsAllowsWrapPosition(t *testing.T) {
	ctx := baseCtx()
	ctx.Screen = fakeScreen{cols: 80, rows: 24, curRow: 24, curCol: 80}
	r := CursorBounds{}.Evaluate(ctx)
	require.True(t, r.Satisfied)
}

func TestCursorBoundsViolatedPastGrid(t *testing.T) {
	ctx := baseCtx()
	ctx.Screen = fakeScreen{cols: 80, rows: 24, curRow: 25, curCol: 5}
	r := CursorBounds{}.Evaluate(ctx)
	require.False(t, r.Satisfied)
}

func TestNoDeadlockViolatedWhenStalled(t *testing.T) {
	ctx := baseCtx()
	ctx.NoOutputTicks = 100
	r := NoDeadlock{TimeoutTicks: 50}.Evaluate(ctx)
	require.False(t, r.Satisfied)
}

func TestNoDeadlockSatisfiedWhenExited(t *testing.T) {
	ctx := baseCtx()
	ctx.NoOutputTicks = 100
	ctx.Process.HasExited = true
	r := NoDeadlock{TimeoutTicks: 50}.Evaluate(ctx)
	require.True(t, r.Satisfied)
}

func TestSignalHandledRequiresMatchingSignal(t *testing.T) {
	ctx := baseCtx()
	ctx.Process = Process{HasExited: true, Signaled: true, SignalName: "SIGTERM"}
	require.True(t, SignalHandled{Signal: "SIGTERM"}.Evaluate(ctx).Satisfied)
	require.False(t, SignalHandled{Signal: "SIGKILL"}.Evaluate(ctx).Satisfied)
}

func TestScreenContainsAndNotContains(t *testing.T) {
	ctx := baseCtx()
	require.True(t, ScreenContains{Pattern: "world"}.Evaluate(ctx).Satisfied)
	require.False(t, ScreenContains{Pattern: "absent"}.Evaluate(ctx).Satisfied)
	require.True(t, ScreenNotContains{Pattern: "absent"}.Evaluate(ctx).Satisfied)
	require.False(t, ScreenNotContains{Pattern: "world"}.Evaluate(ctx).Satisfied)
}

func TestScreenChangedComparesAgainstLastHash(t *testing.T) {
	ctx := baseCtx()
	ctx.HaveLastHash = true
	ctx.LastHash = 42
	require.False(t, ScreenChanged{}.Evaluate(ctx).Satisfied)

	ctx.LastHash = 7
	require.True(t, ScreenChanged{}.Evaluate(ctx).Satisfied)

	ctx.HaveLastHash = false
	require.True(t, ScreenChanged{}.Evaluate(ctx).Satisfied)
}

func TestScreenStableRequiresUnchangedHashAndQuietTicks(t *testing.T) {
	ctx := baseCtx()
	ctx.HaveLastHash = true
	ctx.LastHash = 42
	ctx.NoOutputTicks = 10
	require.True(t, ScreenStable{MinTicks: 5}.Evaluate(ctx).Satisfied)
	require.False(t, ScreenStable{MinTicks: 20}.Evaluate(ctx).Satisfied)

	ctx.LastHash = 1
	require.False(t, ScreenStable{MinTicks: 5}.Evaluate(ctx).Satisfied)
}

func TestNoOutputAfterExit(t *testing.T) {
	ctx := baseCtx()
	ctx.Process.HasExited = true
	ctx.NoOutputTicks = 0
	require.False(t, NoOutputAfterExit{}.Evaluate(ctx).Satisfied)
	ctx.NoOutputTicks = 1
	require.True(t, NoOutputAfterExit{}.Evaluate(ctx).Satisfied)
}

func TestProcessTerminatedCleanly(t *testing.T) {
	ctx := baseCtx()
	require.True(t, ProcessTerminatedCleanly{}.Evaluate(ctx).Satisfied)

	ctx.Process = Process{HasExited: true}
	require.True(t, ProcessTerminatedCleanly{}.Evaluate(ctx).Satisfied)

	ctx.Process = Process{HasExited: true, Signaled: true, SignalName: "SIGTERM"}
	require.True(t, ProcessTerminatedCleanly{AllowedSignals: []string{"SIGTERM"}}.Evaluate(ctx).Satisfied)
	require.False(t, ProcessTerminatedCleanly{AllowedSignals: []string{"SIGINT"}}.Evaluate(ctx).Satisfied)
}

func TestViewportValidExcludesWrapPosition(t *testing.T) {
	ctx := baseCtx()
	ctx.Screen = fakeScreen{cols: 80, rows: 24, curRow: 24, curCol: 80}
	require.False(t, ViewportValid{}.Evaluate(ctx).Satisfied)

	ctx.Screen = fakeScreen{cols: 80, rows: 24, curRow: 23, curCol: 79}
	require.True(t, ViewportValid{}.Evaluate(ctx).Satisfied)
}

func TestResponseTimeAndMaxLatency(t *testing.T) {
	ctx := baseCtx()
	ctx.Tick = 10
	require.True(t, ResponseTime{MaxTicks: 10}.Evaluate(ctx).Satisfied)
	require.False(t, ResponseTime{MaxTicks: 9}.Evaluate(ctx).Satisfied)
	require.True(t, MaxLatency{MaxTicks: 10}.Evaluate(ctx).Satisfied)
}

func TestCustomCombinesPatternAndCursorChecks(t *testing.T) {
	ctx := baseCtx()
	pattern, err := CompilePattern("wor.d")
	require.NoError(t, err)
	row, col := 1, 5
	c := Custom{CustomName: "prompt-ready", Pattern: pattern, CursorRow: &row, CursorCol: &col}
	r := c.Evaluate(ctx)
	require.True(t, r.Satisfied)
	require.Equal(t, "prompt-ready", r.Name)

	wrongCol := 6
	c.CursorCol = &wrongCol
	require.False(t, c.Evaluate(ctx).Satisfied)
}

func TestCompilePatternRejectsInvalidRegexp(t *testing.T) {
	_, err := CompilePattern("(unterminated")
	require.Error(t, err)
}

func TestEngineTracksViolationsAndAllSatisfied(t *testing.T) {
	e := NewEngine()
	e.AddInvariant(CursorBounds{})
	e.AddInvariant(ScreenContains{Pattern: "absent"})

	ctx := baseCtx()
	results := e.Evaluate(ctx)
	require.Len(t, results, 2)
	require.False(t, e.AllSatisfied())
	require.Len(t, e.Violations(), 1)
	require.Equal(t, "ScreenContains", e.Violations()[0].Name)
}

func TestEngineEmptyIsVacuouslySatisfied(t *testing.T) {
	e := NewEngine()
	require.True(t, e.AllSatisfied())
	require.Empty(t, e.Violations())
}
