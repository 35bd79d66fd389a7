package invariant

import (
	"regexp"
	"strings"
)

// Invariant is the tagged-sum interface every concrete invariant
// implements. Evaluate must be safe to call repeatedly. The invariants in
// this package keep no mutable state of their own: each reads everything
// it needs from the Context (ScreenChanged and ScreenStable compare the
// screen's hash with Context.LastHash, which the caller supplies).
type Invariant interface {
	Name() string
	Evaluate(ctx Context) Result
}

func result(name string, satisfied bool, description, details string, ctx Context) Result {
	return Result{
		Name:        name,
		Satisfied:   satisfied,
		Description: description,
		Details:     details,
		Step:        ctx.Step,
		Tick:        ctx.Tick,
	}
}

// CursorBounds is satisfied iff the cursor is within [0, cols] x [0,
// rows], allowing the transient wrap position (col == cols).
type CursorBounds struct{}

func (CursorBounds) Name() string { return "CursorBounds" }

func (CursorBounds) Evaluate(ctx Context) Result {
	ok := ctx.Screen.CursorCol() <= ctx.Screen.Cols() && ctx.Screen.CursorRow() <= ctx.Screen.Rows()
	return result("CursorBounds", ok, "cursor stays within the grid", "", ctx)
}

// NoDeadlock is violated iff the process has produced no output for at
// least timeoutTicks ticks and has not exited.
type NoDeadlock struct {
	TimeoutTicks uint64
}

func (NoDeadlock) Name() string { return "NoDeadlock" }

func (nd NoDeadlock) Evaluate(ctx Context) Result {
	violated := ctx.NoOutputTicks >= nd.TimeoutTicks && !ctx.Process.HasExited
	return result("NoDeadlock", !violated, "process keeps making progress", "", ctx)
}

// SignalHandled requires the process to have exited via the expected
// signal.
type SignalHandled struct {
	Signal string
}

func (SignalHandled) Name() string { return "SignalHandled" }

func (sh SignalHandled) Evaluate(ctx Context) Result {
	ok := ctx.Process.HasExited && ctx.Process.Signaled && ctx.Process.SignalName == sh.Signal
	return result("SignalHandled", ok, "process exited via "+sh.Signal, "", ctx)
}

// ScreenContains is satisfied iff the screen's text contains pattern as
// a literal substring.
type ScreenContains struct {
	Pattern string
}

func (ScreenContains) Name() string { return "ScreenContains" }

func (sc ScreenContains) Evaluate(ctx Context) Result {
	ok := strings.Contains(ctx.Screen.Text(), sc.Pattern)
	return result("ScreenContains", ok, "screen contains "+sc.Pattern, "", ctx)
}

// ScreenNotContains is the negation of ScreenContains.
type ScreenNotContains struct {
	Pattern string
}

func (ScreenNotContains) Name() string { return "ScreenNotContains" }

func (sc ScreenNotContains) Evaluate(ctx Context) Result {
	ok := !strings.Contains(ctx.Screen.Text(), sc.Pattern)
	return result("ScreenNotContains", ok, "screen does not contain "+sc.Pattern, "", ctx)
}

// ScreenChanged is satisfied iff the current screen hash differs from
// the last recorded hash.
type ScreenChanged struct{}

func (ScreenChanged) Name() string { return "ScreenChanged" }

func (ScreenChanged) Evaluate(ctx Context) Result {
	ok := !ctx.HaveLastHash || ctx.Screen.StateHash() != ctx.LastHash
	return result("ScreenChanged", ok, "screen state changed since last check", "", ctx)
}

// ScreenStable is satisfied iff the hash is unchanged and no output has
// arrived for at least minTicks ticks.
type ScreenStable struct {
	MinTicks uint64
}

func (ScreenStable) Name() string { return "ScreenStable" }

func (ss ScreenStable) Evaluate(ctx Context) Result {
	unchanged := ctx.HaveLastHash && ctx.Screen.StateHash() == ctx.LastHash
	ok := unchanged && ctx.NoOutputTicks >= ss.MinTicks
	return result("ScreenStable", ok, "screen has been stable", "", ctx)
}

// NoOutputAfterExit requires at least one tick of silence following
// process exit.
type NoOutputAfterExit struct{}

func (NoOutputAfterExit) Name() string { return "NoOutputAfterExit" }

func (NoOutputAfterExit) Evaluate(ctx Context) Result {
	ok := !ctx.Process.HasExited || ctx.NoOutputTicks >= 1
	return result("NoOutputAfterExit", ok, "no output arrives after exit", "", ctx)
}

// ProcessTerminatedCleanly is satisfied by any exit code, by a signal in
// allowedSignals, or by the process still running.
type ProcessTerminatedCleanly struct {
	AllowedSignals []string
}

func (ProcessTerminatedCleanly) Name() string { return "ProcessTerminatedCleanly" }

func (pt ProcessTerminatedCleanly) Evaluate(ctx Context) Result {
	if !ctx.Process.HasExited {
		return result("ProcessTerminatedCleanly", true, "process still running", "", ctx)
	}
	if !ctx.Process.Signaled {
		return result("ProcessTerminatedCleanly", true, "process exited", "", ctx)
	}
	for _, s := range pt.AllowedSignals {
		if s == ctx.Process.SignalName {
			return result("ProcessTerminatedCleanly", true, "process exited via allowed signal "+s, "", ctx)
		}
	}
	return result("ProcessTerminatedCleanly", false, "process exited via disallowed signal", ctx.Process.SignalName, ctx)
}

// ViewportValid requires the cursor strictly inside the grid, excluding
// the transient wrap position.
type ViewportValid struct{}

func (ViewportValid) Name() string { return "ViewportValid" }

func (ViewportValid) Evaluate(ctx Context) Result {
	ok := ctx.Screen.CursorCol() < ctx.Screen.Cols() && ctx.Screen.CursorRow() < ctx.Screen.Rows()
	return result("ViewportValid", ok, "cursor strictly inside the grid", "", ctx)
}

// ResponseTime and MaxLatency share the same tick-budget semantics:
// satisfied iff the context tick is within the configured budget.
type ResponseTime struct {
	MaxTicks uint64
}

func (ResponseTime) Name() string { return "ResponseTime" }

func (rt ResponseTime) Evaluate(ctx Context) Result {
	ok := ctx.Tick <= rt.MaxTicks
	return result("ResponseTime", ok, "response arrived within budget", "", ctx)
}

type MaxLatency struct {
	MaxTicks uint64
}

func (MaxLatency) Name() string { return "MaxLatency" }

func (ml MaxLatency) Evaluate(ctx Context) Result {
	ok := ctx.Tick <= ml.MaxTicks
	return result("MaxLatency", ok, "latency within budget", "", ctx)
}

// Custom combines an optional pattern check and an optional cursor
// position check, with caller-supplied name and description. Pattern, if
// set, must come from CompilePattern rather than a raw string: it is
// matched with regexp.MatchString, not substring containment.
type Custom struct {
	CustomName  string
	Description string
	Pattern     *regexp.Regexp
	CursorRow   *int
	CursorCol   *int
}

func (c Custom) Name() string {
	if c.CustomName != "" {
		return c.CustomName
	}
	return "Custom"
}

func (c Custom) Evaluate(ctx Context) Result {
	ok := true
	if c.Pattern != nil {
		ok = ok && c.Pattern.MatchString(ctx.Screen.Text())
	}
	if c.CursorRow != nil {
		ok = ok && ctx.Screen.CursorRow() == *c.CursorRow
	}
	if c.CursorCol != nil {
		ok = ok && ctx.Screen.CursorCol() == *c.CursorCol
	}
	desc := c.Description
	if desc == "" {
		desc = "custom invariant"
	}
	return result(c.Name(), ok, desc, "", ctx)
}
