package trace

import (
	"github.com/cespare/xxhash/v2"
	"github.com/tuiharness/bte/invariant"
	"github.com/tuiharness/bte/scenario"
)

const traceVersion = 1

// Recorder builds a Trace incrementally as a run proceeds. It is not
// safe for concurrent use; the runner is single-threaded per §5.
type Recorder struct {
	trace    Trace
	lastTick uint64
	haveLast bool
	sealed   bool
}

// NewRecorder starts a Recorder for scenario s with the given seed and
// initial RNG state.
func NewRecorder(s scenario.Scenario, seed, initialRNGState uint64) *Recorder {
	return &Recorder{
		trace: Trace{
			Version:         traceVersion,
			Scenario:        s,
			Seed:            seed,
			InitialRNGState: initialRNGState,
		},
	}
}

// RecordEvent appends ev, computing tick_delay from the previously
// recorded event's tick.
func (r *Recorder) RecordEvent(ev Event, tick, rngStateAfter uint64) {
	var delay uint64
	if r.haveLast {
		delay = tick - r.lastTick
	}
	r.lastTick = tick
	r.haveLast = true

	seq := uint64(len(r.trace.Events))
	r.trace.Events = append(r.trace.Events, ev)
	r.trace.EventMetadata = append(r.trace.EventMetadata, EventMetadata{
		Sequence:  seq,
		Tick:      tick,
		TickDelay: delay,
		RNGState:  rngStateAfter,
	})
}

// RecordCheckpoint appends cp, assigning its Index; cp.EventSequence is
// stored as the caller set it.
func (r *Recorder) RecordCheckpoint(cp Checkpoint) {
	cp.Index = len(r.trace.Checkpoints)
	r.trace.Checkpoints = append(r.trace.Checkpoints, cp)
}

// EventCount returns the number of events recorded so far. Checkpoint's
// EventSequence must be derived from this (the index of the most
// recently recorded event, EventCount()-1), not a tick count: the
// replayer walks Trace.Events by index and compares a checkpoint against
// live state right after firing the event at that same index.
func (r *Recorder) EventCount() int {
	return len(r.trace.Events)
}

// RecordInvariantResult appends one invariant evaluation result.
func (r *Recorder) RecordInvariantResult(res invariant.Result) {
	r.trace.InvariantResults = append(r.trace.InvariantResults, res)
}

// SetOutcome sets the run's termination outcome.
func (r *Recorder) SetOutcome(o TerminationOutcome) {
	r.trace.Outcome = o
}

// Finalize computes the checksum and returns the sealed Trace. Calling
// it more than once returns the same sealed value.
func (r *Recorder) Finalize() Trace {
	if r.sealed {
		return r.trace
	}
	r.trace.Checksum = checksum(r.trace)
	r.sealed = true
	return r.trace
}

// checksum folds events, checkpoints, invariant results, and the seed
// into a single xxhash digest, standing in for the seahash-keyed
// checksum this format was originally specified against.
func checksum(t Trace) uint64 {
	h := xxhash.New()
	var buf [8]byte

	writeU64 := func(v uint64) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}

	for i, ev := range t.Events {
		writeU64(uint64(ev.Kind))
		h.Write(ev.Payload)
		writeU64(uint64(ev.Cols))
		writeU64(uint64(ev.Rows))
		writeU64(t.EventMetadata[i].Sequence)
		writeU64(t.EventMetadata[i].Tick)
		writeU64(t.EventMetadata[i].TickDelay)
		writeU64(t.EventMetadata[i].RNGState)
	}
	for _, cp := range t.Checkpoints {
		writeU64(uint64(cp.Index))
		writeU64(cp.EventSequence)
		writeU64(cp.Tick)
		writeU64(cp.ScreenHash)
		writeU64(uint64(cp.CursorRow))
		writeU64(uint64(cp.CursorCol))
		writeU64(uint64(cp.Cols))
		writeU64(uint64(cp.Rows))
		h.Write([]byte(cp.TextExcerpt))
	}
	for _, res := range t.InvariantResults {
		h.Write([]byte(res.Name))
		if res.Satisfied {
			buf[0] = 1
		} else {
			buf[0] = 0
		}
		h.Write(buf[:1])
	}
	writeU64(t.Seed)

	return h.Sum64()
}
