// Package termination classifies how a run ended into a single
// TerminationOutcome, applying the first matching rule in a fixed
// priority order.
package termination

import "github.com/tuiharness/bte/trace"

// ExitReasonKind tags how the child process itself ended, independent
// of the higher-level classification this package produces.
type ExitReasonKind int

const (
	ExitReasonRunning ExitReasonKind = iota
	ExitReasonExited
	ExitReasonSignaled
)

// ExitReason is the raw process termination state the classifier maps
// from.
type ExitReason struct {
	Kind      ExitReasonKind
	Code      int
	Signal    string
	SignalNum int
}

// DeadlockThreshold is the default no-output tick count after which a
// still-running process is classified as deadlocked.
const DeadlockThreshold = 1000

// Input bundles everything the classifier needs to decide an outcome.
type Input struct {
	ExitReason        ExitReason
	IsTimeout         bool
	Step              int
	StepName          string
	TimeoutMax        uint64
	TimeoutElapsed    uint64
	NoOutputTicks     uint64
	DeadlockThreshold uint64
	LastEventSequence uint64
	LastActivityTick  uint64
	Violations        []trace.TerminationOutcome // carries ViolationName/Checkpoint/Details only
}

// Classify applies the first-match-wins rules and returns the resulting
// outcome.
func Classify(in Input) trace.TerminationOutcome {
	threshold := in.DeadlockThreshold
	if threshold == 0 {
		threshold = DeadlockThreshold
	}

	if in.IsTimeout {
		return trace.TerminationOutcome{
			Kind:    trace.OutcomeTimeout,
			Step:    in.Step,
			Max:     in.TimeoutMax,
			Elapsed: in.TimeoutElapsed,
		}
	}

	if in.NoOutputTicks > threshold && in.ExitReason.Kind == ExitReasonRunning {
		return trace.TerminationOutcome{
			Kind:        trace.OutcomeDeadlock,
			LastEvent:   in.LastEventSequence,
			StuckAtTick: in.LastActivityTick,
		}
	}

	if len(in.Violations) > 0 {
		first := in.Violations[0]
		return trace.TerminationOutcome{
			Kind:          trace.OutcomeInvariantViolation,
			ViolationName: first.ViolationName,
			Checkpoint:    first.Checkpoint,
			Details:       first.Details,
		}
	}

	switch in.ExitReason.Kind {
	case ExitReasonExited:
		return trace.TerminationOutcome{Kind: trace.OutcomeCleanExit, Code: in.ExitReason.Code}
	case ExitReasonSignaled:
		return trace.TerminationOutcome{
			Kind:       trace.OutcomeSignalExit,
			Signal:     in.ExitReason.Signal,
			SignalNum:  in.ExitReason.SignalNum,
			CoreDumped: in.ExitReason.Signal == "SIGSEGV",
		}
	default:
		return trace.TerminationOutcome{Kind: trace.OutcomeUnknown}
	}
}
