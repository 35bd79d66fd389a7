package trace

// DivergenceKind tags why a replayed run disagreed with its recording.
type DivergenceKind int

const (
	DivergeScreenMismatch DivergenceKind = iota
	DivergeTimingMismatch
	DivergeOutputMismatch
	DivergeInvariantViolation
)

func (k DivergenceKind) String() string {
	switch k {
	case DivergeScreenMismatch:
		return "ScreenMismatch"
	case DivergeTimingMismatch:
		return "TimingMismatch"
	case DivergeOutputMismatch:
		return "OutputMismatch"
	case DivergeInvariantViolation:
		return "InvariantViolation"
	default:
		return "Unknown"
	}
}

// Divergence records one point where a replay disagreed with the
// recorded trace.
type Divergence struct {
	Kind          DivergenceKind
	EventSequence uint64
	Expected      uint64
	Actual        uint64
}

// LiveScreen is the minimal surface the replayer needs from a screen
// under replay, to compare against a recorded checkpoint.
type LiveScreen interface {
	StateHash() uint64
	CursorRow() int
	CursorCol() int
}

// Actions lets the replayer fire the same actions the recorder observed
// without depending on ptyhost/keys/ioloop directly.
type Actions interface {
	FireKeyPress(payload []byte) error
	FireResize(cols, rows int) error
	FireSignal(name []byte) error
	FireTick() error
	AdvanceTicks(n uint64) error
}

// Replayer walks a recorded Trace against a live Actions/LiveScreen
// pair, comparing state at each checkpoint.
type Replayer struct {
	trace       Trace
	HaltOnFirst bool
}

// NewReplayer constructs a Replayer for an already-sealed trace.
func NewReplayer(t Trace) *Replayer {
	return &Replayer{trace: t}
}

// Replay iterates every recorded event, firing it through actions and
// advancing ticks in between, then compares each checkpoint against
// screen. It returns every Divergence found, or stops at the first one
// if HaltOnFirst is set.
func (r *Replayer) Replay(actions Actions, screen LiveScreen) ([]Divergence, error) {
	return r.replayFrom(0, actions, screen)
}

// ReplayFrom jumps to the event sequence recorded at checkpoint index
// checkpointIdx and replays from there, matching partial-replay
// semantics: the caller is responsible for having restored state up to
// that point.
func (r *Replayer) ReplayFrom(checkpointIdx int, actions Actions, screen LiveScreen) ([]Divergence, error) {
	if checkpointIdx < 0 || checkpointIdx >= len(r.trace.Checkpoints) {
		return nil, nil
	}
	start := r.trace.Checkpoints[checkpointIdx].EventSequence
	return r.replayFrom(start, actions, screen)
}

func (r *Replayer) replayFrom(startSeq uint64, actions Actions, screen LiveScreen) ([]Divergence, error) {
	var diverged []Divergence
	nextCheckpoint := 0
	for i := range r.trace.Checkpoints {
		if r.trace.Checkpoints[i].EventSequence >= startSeq {
			nextCheckpoint = i
			break
		}
		nextCheckpoint = i + 1
	}

	for i := int(startSeq); i < len(r.trace.Events); i++ {
		meta := r.trace.EventMetadata[i]
		if meta.TickDelay > 0 {
			if err := actions.AdvanceTicks(meta.TickDelay); err != nil {
				return diverged, err
			}
		}

		ev := r.trace.Events[i]
		var err error
		switch ev.Kind {
		case EventKeyPress:
			err = actions.FireKeyPress(ev.Payload)
		case EventResize:
			err = actions.FireResize(ev.Cols, ev.Rows)
		case EventSignal:
			err = actions.FireSignal(ev.Payload)
		case EventTick:
			err = actions.FireTick()
		}
		if err != nil {
			return diverged, err
		}

		for nextCheckpoint < len(r.trace.Checkpoints) && r.trace.Checkpoints[nextCheckpoint].EventSequence == uint64(i) {
			cp := r.trace.Checkpoints[nextCheckpoint]
			if d, ok := compareCheckpoint(cp, screen); !ok {
				diverged = append(diverged, d)
				if r.HaltOnFirst {
					return diverged, nil
				}
			}
			nextCheckpoint++
		}
	}

	return diverged, nil
}

func compareCheckpoint(cp Checkpoint, screen LiveScreen) (Divergence, bool) {
	if screen.StateHash() != cp.ScreenHash {
		return Divergence{
			Kind:          DivergeScreenMismatch,
			EventSequence: cp.EventSequence,
			Expected:      cp.ScreenHash,
			Actual:        screen.StateHash(),
		}, false
	}
	if screen.CursorRow() != cp.CursorRow || screen.CursorCol() != cp.CursorCol {
		return Divergence{
			Kind:          DivergeScreenMismatch,
			EventSequence: cp.EventSequence,
			Expected:      uint64(cp.CursorRow)<<32 | uint64(cp.CursorCol),
			Actual:        uint64(screen.CursorRow())<<32 | uint64(screen.CursorCol()),
		}, false
	}
	return Divergence{}, true
}
