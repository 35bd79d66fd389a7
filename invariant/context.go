// Package invariant holds a heterogeneous collection of scenario
// invariants and evaluates them against the current run context,
// grounded in the Condition-closure style used by the pack's PTY test
// harnesses, adapted here to methods so each invariant can carry its own
// private mutable scratch instead of relying on package-level state.
package invariant

// Screen is the minimal surface an invariant needs from the screen model.
// The root screen model's Cursor() returns a struct with Row/Col fields
// rather than this method pair, so ScreenAdapter bridges the two.
type Screen interface {
	Text() string
	Cols() int
	Rows() int
	CursorRow() int
	CursorCol() int
	StateHash() uint64
}

// Process is the minimal surface an invariant needs from process status.
type Process struct {
	HasExited  bool
	ExitCode   int
	Signaled   bool
	SignalNum  int
	SignalName string
}

// Context is the read-only view passed to every Invariant on each
// evaluation.
type Context struct {
	Screen         Screen
	Process        Process
	Step           int
	Tick           uint64
	LastHash       uint64
	HaveLastHash   bool
	NoOutputTicks  uint64
	ExpectedSignal string
}

// Result is the structured outcome of evaluating one Invariant.
type Result struct {
	Name        string
	Satisfied   bool
	Description string
	Details     string
	Step        int
	Tick        uint64
}
