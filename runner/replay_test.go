package runner

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuiharness/bte/ioloop"
	"github.com/tuiharness/bte/keys"
	"github.com/tuiharness/bte/ptyhost"
	"github.com/tuiharness/bte/scenario"
	"github.com/tuiharness/bte/screen"
	"github.com/tuiharness/bte/trace"
)

// replayHarness re-spawns a scenario's command and drives it through a
// recorded trace's events. The trace format keeps inputs, not recorded
// output bytes, so a meaningful replay has to re-run the program and let
// it produce output afresh; this is the trace.Actions/trace.LiveScreen
// pair the replayer needs to do that.
type replayHarness struct {
	host *ptyhost.Host
	loop *ioloop.Loop
	scr  *screen.Screen
}

func newReplayHarness(t *testing.T, scn scenario.Scenario) *replayHarness {
	t.Helper()
	host, err := ptyhost.Spawn(ptyhost.Config{
		Command: scn.Command.Program,
		Args:    scn.Command.Args,
		Cols:    scn.Terminal.Cols,
		Rows:    scn.Terminal.Rows,
		Env:     scn.Env,
		Dir:     scn.Command.Dir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { host.Close() })
	return &replayHarness{
		host: host,
		loop: ioloop.New(host, DefaultBufferSize),
		scr:  screen.New(scn.Terminal.Cols, scn.Terminal.Rows),
	}
}

func (h *replayHarness) drain() {
	_, _, _ = h.loop.Tick(PumpTimeout)
	if out := h.loop.Out.TakeAll(); len(out) > 0 {
		_, _ = h.scr.Write(out)
	}
}

func (h *replayHarness) FireKeyPress(payload []byte) error {
	if err := h.loop.In.Push(payload); err != nil {
		return err
	}
	h.drain()
	return nil
}

func (h *replayHarness) FireResize(cols, rows int) error {
	err := h.host.Resize(cols, rows)
	h.drain()
	return err
}

func (h *replayHarness) FireSignal(name []byte) error {
	sig, err := lookupSignal(string(name))
	if err != nil {
		return err
	}
	err = h.host.SendSignal(sig)
	h.drain()
	return err
}

func (h *replayHarness) FireTick() error {
	h.drain()
	return nil
}

func (h *replayHarness) AdvanceTicks(n uint64) error {
	for i := uint64(0); i < n; i++ {
		h.drain()
	}
	return nil
}

func (h *replayHarness) StateHash() uint64 { return h.scr.StateHash() }
func (h *replayHarness) CursorRow() int    { return h.scr.Cursor().Row }
func (h *replayHarness) CursorCol() int    { return h.scr.Cursor().Col }

// perturbedScreen wraps a live screen but reports a state hash that can
// never match a recorded checkpoint, standing in for a replay that
// genuinely drifted from what was recorded.
type perturbedScreen struct {
	trace.LiveScreen
}

func (p perturbedScreen) StateHash() uint64 { return p.LiveScreen.StateHash() ^ 0xdeadbeef }

func echoReplayScenario() scenario.Scenario {
	return scenario.Scenario{
		Name:     "replay-echo",
		Command:  scenario.Command{Program: "cat"},
		Terminal: scenario.TerminalSize{Cols: 80, Rows: 24},
		Steps: []scenario.Step{
			scenario.SendKeys{Keys: keys.Text("hello")},
			scenario.WaitTicks{Ticks: 3},
			scenario.SendKeys{Keys: keys.Text("world")},
			scenario.WaitTicks{Ticks: 3},
		},
	}
}

// TestRunnerTraceReplaysWithZeroDivergence exercises the exact path the
// review flagged as untested: a trace produced by runner.Run, fed into
// trace.NewReplayer, against a freshly spawned process. Two SendKeys
// steps are used deliberately so at least one checkpoint's EventSequence
// falls strictly between the two recorded events, which is what makes
// compareCheckpoint actually run instead of the replay trivially
// iterating zero times.
func TestRunnerTraceReplaysWithZeroDivergence(t *testing.T) {
	scn := echoReplayScenario()
	tr, err := Run(scn, Config{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(tr.Events), 2)
	require.NotEmpty(t, tr.Checkpoints)

	harness := newReplayHarness(t, scn)
	replayer := trace.NewReplayer(tr)
	diverged, err := replayer.Replay(harness, harness)
	require.NoError(t, err)
	require.Empty(t, diverged)
}

// TestRunnerTraceReplayDetectsPerturbedScreen proves the zero-divergence
// result above is meaningful rather than vacuous: feeding the same
// actions through a screen that reports a deliberately wrong hash must
// surface a real divergence.
func TestRunnerTraceReplayDetectsPerturbedScreen(t *testing.T) {
	scn := echoReplayScenario()
	tr, err := Run(scn, Config{})
	require.NoError(t, err)

	harness := newReplayHarness(t, scn)
	replayer := trace.NewReplayer(tr)
	diverged, err := replayer.Replay(harness, perturbedScreen{harness})
	require.NoError(t, err)
	require.NotEmpty(t, diverged)
	require.Equal(t, trace.DivergeScreenMismatch, diverged[0].Kind)
}
