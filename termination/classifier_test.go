package termination

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuiharness/bte/trace"
)

func TestClassifyTimeoutTakesPriority(t *testing.T) {
	in := Input{
		IsTimeout:  true,
		Step:       3,
		TimeoutMax: 100,
		ExitReason: ExitReason{Kind: ExitReasonRunning},
		Violations: []trace.TerminationOutcome{{ViolationName: "x"}},
	}
	out := Classify(in)
	require.Equal(t, trace.OutcomeTimeout, out.Kind)
	require.Equal(t, 3, out.Step)
}

func TestClassifyDeadlockWhenStalledAndNotTimedOut(t *testing.T) {
	in := Input{
		NoOutputTicks: 2000,
		ExitReason:    ExitReason{Kind: ExitReasonRunning},
	}
	out := Classify(in)
	require.Equal(t, trace.OutcomeDeadlock, out.Kind)
}

func TestClassifyDeadlockUsesDefaultThreshold(t *testing.T) {
	in := Input{NoOutputTicks: DeadlockThreshold + 1, ExitReason: ExitReason{Kind: ExitReasonRunning}}
	require.Equal(t, trace.OutcomeDeadlock, Classify(in).Kind)

	in.NoOutputTicks = DeadlockThreshold
	require.NotEqual(t, trace.OutcomeDeadlock, Classify(in).Kind)
}

func TestClassifyInvariantViolationBeforeExitMapping(t *testing.T) {
	in := Input{
		ExitReason: ExitReason{Kind: ExitReasonExited, Code: 0},
		Violations: []trace.TerminationOutcome{{ViolationName: "CursorBounds", Details: "oob"}},
	}
	out := Classify(in)
	require.Equal(t, trace.OutcomeInvariantViolation, out.Kind)
	require.Equal(t, "CursorBounds", out.ViolationName)
}

func TestClassifyCleanExitNonZeroCodeIsReportedNotReclassified(t *testing.T) {
	in := Input{ExitReason: ExitReason{Kind: ExitReasonExited, Code: 7}}
	out := Classify(in)
	require.Equal(t, trace.OutcomeCleanExit, out.Kind)
	require.Equal(t, 7, out.Code)
}

func TestClassifySignalExitMarksCoreDumpedOnSegv(t *testing.T) {
	in := Input{ExitReason: ExitReason{Kind: ExitReasonSignaled, Signal: "SIGSEGV", SignalNum: 11}}
	out := Classify(in)
	require.Equal(t, trace.OutcomeSignalExit, out.Kind)
	require.True(t, out.CoreDumped)

	in.ExitReason.Signal = "SIGTERM"
	out = Classify(in)
	require.False(t, out.CoreDumped)
}

func TestClassifyUnknownWhenStillRunningAndNothingElseMatches(t *testing.T) {
	in := Input{ExitReason: ExitReason{Kind: ExitReasonRunning}}
	out := Classify(in)
	require.Equal(t, trace.OutcomeUnknown, out.Kind)
}

func TestExitCodeMappingMatchesClassification(t *testing.T) {
	out := Classify(Input{ExitReason: ExitReason{Kind: ExitReasonSignaled, Signal: "SIGTERM"}})
	require.Equal(t, -1, out.ExitCode())
}
