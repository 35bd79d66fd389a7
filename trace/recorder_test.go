package trace

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuiharness/bte/invariant"
	"github.com/tuiharness/bte/scenario"
)

func TestRecorderComputesTickDelayBetweenEvents(t *testing.T) {
	r := NewRecorder(scenario.Scenario{Name: "s"}, 7, 1)
	r.RecordEvent(Event{Kind: EventTick}, 10, 100)
	r.RecordEvent(Event{Kind: EventTick}, 15, 200)

	tr := r.Finalize()
	require.Len(t, tr.EventMetadata, 2)
	require.Equal(t, uint64(0), tr.EventMetadata[0].TickDelay)
	require.Equal(t, uint64(5), tr.EventMetadata[1].TickDelay)
}

func TestRecorderChecksumIsDeterministic(t *testing.T) {
	build := func() Trace {
		r := NewRecorder(scenario.Scenario{Name: "s"}, 7, 1)
		r.RecordEvent(Event{Kind: EventKeyPress, Payload: []byte("hi")}, 1, 42)
		r.RecordCheckpoint(Checkpoint{EventSequence: 0, ScreenHash: 99})
		r.RecordInvariantResult(invariant.Result{Name: "CursorBounds", Satisfied: true})
		return r.Finalize()
	}
	a := build()
	b := build()
	require.Equal(t, a.Checksum, b.Checksum)
	require.NotZero(t, a.Checksum)
}

func TestRecorderChecksumChangesWithDifferentEvents(t *testing.T) {
	r1 := NewRecorder(scenario.Scenario{Name: "s"}, 1, 1)
	r1.RecordEvent(Event{Kind: EventKeyPress, Payload: []byte("a")}, 1, 1)
	tr1 := r1.Finalize()

	r2 := NewRecorder(scenario.Scenario{Name: "s"}, 1, 1)
	r2.RecordEvent(Event{Kind: EventKeyPress, Payload: []byte("b")}, 1, 1)
	tr2 := r2.Finalize()

	require.NotEqual(t, tr1.Checksum, tr2.Checksum)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	r := NewRecorder(scenario.Scenario{Name: "s"}, 1, 1)
	r.RecordEvent(Event{Kind: EventTick}, 1, 1)
	first := r.Finalize()
	second := r.Finalize()
	require.Equal(t, first.Checksum, second.Checksum)
}

func TestTerminationOutcomeExitCodeMapping(t *testing.T) {
	cases := map[OutcomeKind]int{
		OutcomeCleanExit:          0,
		OutcomeSignalExit:         -1,
		OutcomePanic:              -99,
		OutcomeDeadlock:           -98,
		OutcomeTimeout:            -97,
		OutcomeInvariantViolation: -96,
		OutcomeReplayDivergence:   -95,
		OutcomeUserInterrupt:      -130,
		OutcomeUnknown:            -4,
	}
	for kind, want := range cases {
		o := TerminationOutcome{Kind: kind}
		require.Equal(t, want, o.ExitCode())
	}
}
