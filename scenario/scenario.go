// Package scenario holds the declarative data model a run is built
// from: a target command, terminal geometry, an ordered list of steps,
// and the invariants checked after each one. Nothing in this package
// touches a PTY or a clock; it is pure data plus validation.
package scenario

import (
	"time"

	"github.com/tuiharness/bte/invariant"
	"github.com/tuiharness/bte/keys"
)

// Command describes the child process to launch.
type Command struct {
	Program string
	Args    []string
	Dir     string
}

// TerminalSize is the initial PTY window size.
type TerminalSize struct {
	Cols int
	Rows int
}

// Scenario is a complete, read-only description of one run.
type Scenario struct {
	Name       string
	Command    Command
	Terminal   TerminalSize
	Env        []string
	Steps      []Step
	Invariants []invariant.Invariant
	Seed       *uint64
	Timeout    time.Duration
}

// Step is the sum type of everything a scenario can ask the runner to
// do. Concrete types implement isStep as a marker; callers type-switch
// on the concrete value.
type Step interface {
	isStep()
	// StepKind names the concrete variant for error messages and trace
	// records.
	StepKind() string
}

// WaitFor pumps I/O until the screen's text contains Pattern or
// TimeoutTicks elapses.
type WaitFor struct {
	Pattern      string
	TimeoutTicks uint64
}

func (WaitFor) isStep()          {}
func (WaitFor) StepKind() string { return "WaitFor" }

// WaitTicks advances the scheduler by Ticks boundaries, pumping I/O
// between them.
type WaitTicks struct {
	Ticks uint64
}

func (WaitTicks) isStep()          {}
func (WaitTicks) StepKind() string { return "WaitTicks" }

// SendKeys injects Keys and pumps I/O once to drain any immediate echo.
type SendKeys struct {
	Keys keys.Sequence
}

func (SendKeys) isStep()          {}
func (SendKeys) StepKind() string { return "SendKeys" }

// SendSignal delivers Signal to the child process.
type SendSignal struct {
	Signal string
}

func (SendSignal) isStep()          {}
func (SendSignal) StepKind() string { return "SendSignal" }

// Resize changes the PTY window size and delivers SIGWINCH.
type Resize struct {
	Cols int
	Rows int
}

func (Resize) isStep()          {}
func (Resize) StepKind() string { return "Resize" }

// AssertScreen checks Pattern against the screen's text. If Anywhere is
// false, only Row is checked.
type AssertScreen struct {
	Pattern  string
	Anywhere bool
	Row      int
}

func (AssertScreen) isStep()          {}
func (AssertScreen) StepKind() string { return "AssertScreen" }

// AssertCursor checks the cursor position exactly.
type AssertCursor struct {
	Row int
	Col int
}

func (AssertCursor) isStep()          {}
func (AssertCursor) StepKind() string { return "AssertCursor" }

// Snapshot records a named checkpoint without otherwise acting.
type Snapshot struct {
	Name string
}

func (Snapshot) isStep()          {}
func (Snapshot) StepKind() string { return "Snapshot" }

// CheckInvariant evaluates a single invariant immediately, independent
// of the scenario-level invariant list.
type CheckInvariant struct {
	Invariant invariant.Invariant
}

func (CheckInvariant) isStep()          {}
func (CheckInvariant) StepKind() string { return "CheckInvariant" }
