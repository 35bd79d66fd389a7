// Package trace records every input event and checkpoint of a run into
// an immutable, checksummed log, and replays that log against a fresh
// run to detect divergence.
package trace

import (
	"github.com/tuiharness/bte/invariant"
	"github.com/tuiharness/bte/scenario"
)

// EventKind tags the InputEvent sum.
type EventKind int

const (
	EventKeyPress EventKind = iota
	EventResize
	EventSignal
	EventTick
)

func (k EventKind) String() string {
	switch k {
	case EventKeyPress:
		return "KeyPress"
	case EventResize:
		return "Resize"
	case EventSignal:
		return "Signal"
	case EventTick:
		return "Tick"
	default:
		return "Unknown"
	}
}

// Event is one recorded input to the run.
type Event struct {
	Kind    EventKind
	Payload []byte // KeyPress: raw bytes written. Signal: signal name.
	Cols    int    // Resize only
	Rows    int    // Resize only
}

// EventMetadata is the per-event bookkeeping recorded alongside Event,
// kept in a parallel slice so Event stays a plain payload record.
type EventMetadata struct {
	Sequence  uint64
	Tick      uint64
	TickDelay uint64
	RNGState  uint64
}

// Checkpoint captures screen state at a step boundary or explicit
// snapshot.
type Checkpoint struct {
	Index         int
	EventSequence uint64
	Tick          uint64
	ScreenHash    uint64
	CursorRow     int
	CursorCol     int
	Cols          int
	Rows          int
	TextExcerpt   string // at most 200 characters
}

// OutcomeKind tags the TerminationOutcome sum.
type OutcomeKind int

const (
	OutcomeCleanExit OutcomeKind = iota
	OutcomeSignalExit
	OutcomePanic
	OutcomeDeadlock
	OutcomeTimeout
	OutcomeInvariantViolation
	OutcomeReplayDivergence
	OutcomeUserInterrupt
	OutcomeUnknown
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCleanExit:
		return "CleanExit"
	case OutcomeSignalExit:
		return "SignalExit"
	case OutcomePanic:
		return "Panic"
	case OutcomeDeadlock:
		return "Deadlock"
	case OutcomeTimeout:
		return "Timeout"
	case OutcomeInvariantViolation:
		return "InvariantViolation"
	case OutcomeReplayDivergence:
		return "ReplayDivergence"
	case OutcomeUserInterrupt:
		return "UserInterrupt"
	default:
		return "Unknown"
	}
}

// TerminationOutcome is the result of classifying how a run ended.
type TerminationOutcome struct {
	Kind OutcomeKind

	// CleanExit / SignalExit
	Code       int
	Signal     string
	SignalNum  int
	CoreDumped bool
	ExitTicks  uint64

	// Panic
	Message     string
	DuringEvent uint64

	// Deadlock
	LastEvent   uint64
	StuckAtTick uint64

	// Timeout
	Step    int
	Max     uint64
	Elapsed uint64

	// InvariantViolation
	ViolationName string
	Checkpoint    int
	Details       string

	// ReplayDivergence
	ExpectedSeq  uint64
	ActualSeq    uint64
	ExpectedHash uint64
	ActualHash   uint64
	DivergeKind  DivergenceKind
}

// ExitCode maps a TerminationOutcome to the process exit code the
// embedding CLI reports.
func (o TerminationOutcome) ExitCode() int {
	switch o.Kind {
	case OutcomeCleanExit:
		return o.Code
	case OutcomeSignalExit:
		return -1
	case OutcomePanic:
		return -99
	case OutcomeDeadlock:
		return -98
	case OutcomeTimeout:
		return -97
	case OutcomeInvariantViolation:
		return -96
	case OutcomeReplayDivergence:
		return -95
	case OutcomeUserInterrupt:
		return -130
	default:
		return -4
	}
}

// Trace is an immutable, checksummed record of one run, sealed by
// Finalize.
type Trace struct {
	Version          int
	Scenario         scenario.Scenario
	Seed             uint64
	InitialRNGState  uint64
	Events           []Event
	EventMetadata    []EventMetadata
	Checkpoints      []Checkpoint
	InvariantResults []invariant.Result
	Outcome          TerminationOutcome
	Checksum         uint64
}
