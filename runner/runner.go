// Package runner drives a scenario end to end: it owns the scheduler,
// PTY host, I/O loop, screen, key injector, and invariant engine, and
// records everything it does into a trace.
package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tuiharness/bte/invariant"
	"github.com/tuiharness/bte/ioloop"
	"github.com/tuiharness/bte/keys"
	"github.com/tuiharness/bte/ptyhost"
	"github.com/tuiharness/bte/scenario"
	"github.com/tuiharness/bte/scheduler"
	"github.com/tuiharness/bte/screen"
	"github.com/tuiharness/bte/termination"
	"github.com/tuiharness/bte/trace"
	"golang.org/x/sys/unix"
)

// DefaultBufferSize bounds each direction of the I/O loop's buffers.
const DefaultBufferSize = 1 << 20

// PumpTimeout is the per-tick poll timeout used while draining I/O.
const PumpTimeout = 20 * time.Millisecond

// Config tunes a Runner beyond what the Scenario itself specifies.
type Config struct {
	BufferSize        int
	DeadlockThreshold uint64
	// Logger receives step-boundary and PTY transition events at debug
	// level. Nil (the default) means zerolog.Nop().
	Logger *zerolog.Logger
}

// Runner executes a single Scenario and produces a sealed Trace.
type Runner struct {
	cfg      Config
	sched    *scheduler.Scheduler
	host     *ptyhost.Host
	loop     *ioloop.Loop
	scr      *screen.Screen
	injector *keys.Injector
	invEng   *invariant.Engine
	rec      *trace.Recorder

	log zerolog.Logger

	lastHash      uint64
	haveLastHash  bool
	noOutputTicks uint64
	violations    []trace.TerminationOutcome
	stepTimedOut  bool
	timedOutStep  int
}

// Run validates, executes, and seals a trace for scn. Errors returned
// here are start-up failures (validation, spawn); failures that happen
// mid-run are captured in the returned Trace's Outcome instead.
func Run(scn scenario.Scenario, cfg Config) (trace.Trace, error) {
	if errs := scenario.Validate(scn); len(errs) > 0 {
		return trace.Trace{}, fmt.Errorf("runner: invalid scenario: %v", errs)
	}

	seed := uint64(1)
	if scn.Seed != nil {
		seed = *scn.Seed
	}
	bufSize := cfg.BufferSize
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	sched := scheduler.New(seed, scheduler.WithLogger(log))
	initialRNG := sched.RNGState()

	host, err := ptyhost.Spawn(ptyhost.Config{
		Command: scn.Command.Program,
		Args:    scn.Command.Args,
		Cols:    scn.Terminal.Cols,
		Rows:    scn.Terminal.Rows,
		Env:     scn.Env,
		Dir:     scn.Command.Dir,
		Logger:  &log,
	})
	if err != nil {
		return trace.Trace{}, fmt.Errorf("runner: spawn: %w", err)
	}
	defer host.Close()

	loop := ioloop.New(host, bufSize)
	scr := screen.New(scn.Terminal.Cols, scn.Terminal.Rows)

	r := &Runner{
		cfg:   cfg,
		sched: sched,
		host:  host,
		loop:  loop,
		scr:   scr,
		log:   log,
		invEng: func() *invariant.Engine {
			e := invariant.NewEngine()
			for _, inv := range scn.Invariants {
				e.AddInvariant(inv)
			}
			return e
		}(),
		rec: trace.NewRecorder(scn, seed, initialRNG),
	}
	r.injector = keys.New(loop.In, func() bool {
		status := host.TryWait()
		return status.Exited || status.Signal
	})

	start := time.Now()
	for i, step := range scn.Steps {
		r.log.Debug().Int("step", i).Str("kind", step.StepKind()).Msg("runner: step starting")
		r.markBoundary(scheduler.BeforeInput)
		r.runStep(i, step)
		r.markBoundary(scheduler.AfterInput)

		r.drainOnce()
		r.evaluateInvariants(i)
		r.checkpoint(i)

		if scn.Timeout > 0 && time.Since(start) > scn.Timeout {
			r.log.Debug().Int("step", i).Msg("runner: scenario timeout reached")
			r.stepTimedOut = true
			r.timedOutStep = i
			break
		}
		if r.stepTimedOut {
			r.log.Debug().Int("step", i).Msg("runner: step timed out")
			break
		}
	}

	status := host.TryWait()
	outcome := r.classify(status, scn, time.Since(start))
	r.log.Debug().Str("outcome", outcome.Kind.String()).Msg("runner: scenario finished")
	r.rec.SetOutcome(outcome)
	return r.rec.Finalize(), nil
}

func (r *Runner) markBoundary(kind scheduler.BoundaryKind) {
	_, _ = r.sched.Boundary(kind)
}

func (r *Runner) drainOnce() {
	_, _, _ = r.loop.Tick(PumpTimeout)
	out := r.loop.Out.TakeAll()
	if len(out) > 0 {
		r.noOutputTicks = 0
		_, _ = r.scr.Write(out)
	} else {
		r.noOutputTicks++
	}
}

func (r *Runner) pumpUntil(done func() bool, timeoutTicks uint64) bool {
	var elapsed uint64
	for {
		if done() {
			return true
		}
		if elapsed >= timeoutTicks {
			return false
		}
		r.drainOnce()
		r.sched.Tick()
		elapsed++
	}
}

func (r *Runner) runStep(idx int, step scenario.Step) {
	switch st := step.(type) {
	case scenario.WaitFor:
		ok := r.pumpUntil(func() bool {
			return strings.Contains(r.scr.Text(), st.Pattern)
		}, st.TimeoutTicks)
		if !ok {
			r.stepTimedOut = true
			r.timedOutStep = idx
		}

	case scenario.WaitTicks:
		for i := uint64(0); i < st.Ticks; i++ {
			r.drainOnce()
			r.sched.Tick()
		}

	case scenario.SendKeys:
		if b, err := st.Keys.Bytes(); err == nil {
			r.rec.RecordEvent(trace.Event{Kind: trace.EventKeyPress, Payload: b}, r.sched.Now(), r.sched.RNGState())
		}
		_, _ = r.injector.Inject(st.Keys)
		r.drainOnce()

	case scenario.SendSignal:
		if sig, err := lookupSignal(st.Signal); err == nil {
			_ = r.host.SendSignal(sig)
		}
		r.rec.RecordEvent(trace.Event{Kind: trace.EventSignal, Payload: []byte(st.Signal)}, r.sched.Now(), r.sched.RNGState())
		r.drainOnce()

	case scenario.Resize:
		_ = r.host.Resize(st.Cols, st.Rows)
		r.rec.RecordEvent(trace.Event{Kind: trace.EventResize, Cols: st.Cols, Rows: st.Rows}, r.sched.Now(), r.sched.RNGState())
		r.drainOnce()

	case scenario.AssertScreen:
		var ok bool
		if st.Anywhere {
			ok = strings.Contains(r.scr.Text(), st.Pattern)
		} else if row := r.scr.Row(st.Row); row != nil {
			ok = strings.Contains(row.Text(), st.Pattern)
		}
		if !ok {
			r.violations = append(r.violations, trace.TerminationOutcome{
				ViolationName: "AssertScreen",
				Checkpoint:    idx,
				Details:       fmt.Sprintf("pattern %q not found", st.Pattern),
			})
		}

	case scenario.AssertCursor:
		cur := r.scr.Cursor()
		if cur.Row != st.Row || cur.Col != st.Col {
			r.violations = append(r.violations, trace.TerminationOutcome{
				ViolationName: "AssertCursor",
				Checkpoint:    idx,
				Details:       fmt.Sprintf("expected (%d,%d), got (%d,%d)", st.Row, st.Col, cur.Row, cur.Col),
			})
		}

	case scenario.Snapshot:
		r.checkpointNamed(idx, st.Name)

	case scenario.CheckInvariant:
		if st.Invariant != nil {
			res := st.Invariant.Evaluate(r.invariantContext(idx))
			r.rec.RecordInvariantResult(res)
			if !res.Satisfied {
				r.violations = append(r.violations, trace.TerminationOutcome{
					ViolationName: res.Name,
					Checkpoint:    idx,
					Details:       res.Details,
				})
			}
		}
	}
}

func (r *Runner) invariantContext(step int) invariant.Context {
	status := r.host.TryWait()
	return invariant.Context{
		Screen: invariant.ScreenAdapter{S: r.scr},
		Process: invariant.Process{
			HasExited:  status.Exited || status.Signal,
			ExitCode:   status.Code,
			Signaled:   status.Signal,
			SignalNum:  status.SigNum,
			SignalName: signalName(unix.Signal(status.SigNum)),
		},
		Step:          step,
		Tick:          r.sched.Now(),
		LastHash:      r.lastHash,
		HaveLastHash:  r.haveLastHash,
		NoOutputTicks: r.noOutputTicks,
	}
}

func (r *Runner) evaluateInvariants(step int) {
	ctx := r.invariantContext(step)
	for _, res := range r.invEng.Evaluate(ctx) {
		r.rec.RecordInvariantResult(res)
		if !res.Satisfied {
			r.violations = append(r.violations, trace.TerminationOutcome{
				ViolationName: res.Name,
				Checkpoint:    step,
				Details:       res.Details,
			})
		}
	}
	r.lastHash = r.scr.StateHash()
	r.haveLastHash = true
}

func (r *Runner) checkpoint(step int) {
	r.checkpointNamed(step, "")
}

// lastEventSequence returns the index of the most recently recorded
// event, matching the 0-based Sequence the recorder assigns each event.
// The replayer walks Trace.Events by index and compares a checkpoint
// against live state right after firing the event at that index, so a
// checkpoint taken before any event has been recorded falls back to
// index 0 (compared once the first event fires) rather than a count,
// which would always land one event late.
func (r *Runner) lastEventSequence() uint64 {
	if n := r.rec.EventCount(); n > 0 {
		return uint64(n - 1)
	}
	return 0
}

func (r *Runner) checkpointNamed(step int, _ string) {
	cur := r.scr.Cursor()
	text := r.scr.Excerpt()
	r.rec.RecordCheckpoint(trace.Checkpoint{
		EventSequence: r.lastEventSequence(),
		Tick:          r.sched.Now(),
		ScreenHash:    r.scr.StateHash(),
		CursorRow:     cur.Row,
		CursorCol:     cur.Col,
		Cols:          r.scr.Cols(),
		Rows:          r.scr.Rows(),
		TextExcerpt:   text,
	})
}

func (r *Runner) classify(status ptyhost.WaitStatus, scn scenario.Scenario, elapsed time.Duration) trace.TerminationOutcome {
	reason := termination.ExitReason{Kind: termination.ExitReasonRunning}
	if status.Exited {
		reason = termination.ExitReason{Kind: termination.ExitReasonExited, Code: status.Code}
	} else if status.Signal {
		reason = termination.ExitReason{
			Kind:      termination.ExitReasonSignaled,
			SignalNum: status.SigNum,
			Signal:    signalName(unix.Signal(status.SigNum)),
		}
	}

	threshold := r.cfg.DeadlockThreshold
	in := termination.Input{
		ExitReason:        reason,
		IsTimeout:         r.stepTimedOut,
		Step:              r.timedOutStep,
		TimeoutMax:        uint64(scn.Timeout / time.Millisecond),
		TimeoutElapsed:    uint64(elapsed / time.Millisecond),
		NoOutputTicks:     r.noOutputTicks,
		DeadlockThreshold: threshold,
		Violations:        r.violations,
	}
	return termination.Classify(in)
}
