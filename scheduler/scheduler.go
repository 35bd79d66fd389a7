// Package scheduler is the sole source of ordering for a run: a logical
// clock, a seeded RNG, and a boundary-id counter, all driven explicitly by
// the runner rather than by wall-clock time.
package scheduler

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrSaturated is returned by Boundary when the clock is already at its
// maximum value (Tick and Advance report this by returning false); callers surface this as a fatal error rather than a
// deadlock, since it can only happen after an astronomical number of
// ticks and signals a broken caller loop.
var ErrSaturated = errors.New("scheduler: clock saturated")

const maxTick uint64 = ^uint64(0)

// BoundaryKind names the point in the B/C/D/E pipeline a SchedulingBoundary
// marks.
type BoundaryKind int

const (
	BeforePtyRead BoundaryKind = iota
	AfterPtyRead
	BeforePtyWrite
	AfterPtyWrite
	BeforeInput
	AfterInput
	BeforeInvariantCheck
	AfterInvariantCheck
)

func (k BoundaryKind) String() string {
	switch k {
	case BeforePtyRead:
		return "BeforePtyRead"
	case AfterPtyRead:
		return "AfterPtyRead"
	case BeforePtyWrite:
		return "BeforePtyWrite"
	case AfterPtyWrite:
		return "AfterPtyWrite"
	case BeforeInput:
		return "BeforeInput"
	case AfterInput:
		return "AfterInput"
	case BeforeInvariantCheck:
		return "BeforeInvariantCheck"
	case AfterInvariantCheck:
		return "AfterInvariantCheck"
	default:
		return "Unknown"
	}
}

// SchedulingBoundary is the record produced each time the runner crosses
// one of the fixed pipeline boundaries.
type SchedulingBoundary struct {
	ID   uint64
	Kind BoundaryKind
}

// Scheduler is a single-writer clock/RNG/boundary-counter triple. Every
// method takes mu, so individual calls are safe from multiple goroutines;
// the runner drives it from one goroutine by design.
type Scheduler struct {
	mu sync.Mutex

	nanosPerTick uint64

	tick     uint64
	boundary uint64

	rngState uint64

	log zerolog.Logger
}

// Option configures a new Scheduler.
type Option func(*Scheduler)

// WithNanosPerTick overrides the default 1ms tick granularity used by
// NowNanos.
func WithNanosPerTick(n uint64) Option {
	return func(s *Scheduler) { s.nanosPerTick = n }
}

// WithLogger installs a logger for fatal saturation conditions. The
// default is zerolog.Nop(), matching the engine's "silent unless verbose"
// contract.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// New constructs a Scheduler seeded with seed. Seed 0 is normalized to 1,
// since an all-zero xorshift64 state never advances.
func New(seed uint64, opts ...Option) *Scheduler {
	s := &Scheduler{nanosPerTick: 1_000_000, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	s.reset(seed)
	return s
}

func normalizeSeed(seed uint64) uint64 {
	if seed == 0 {
		return 1
	}
	return seed
}

// Reset zeroes the tick and boundary counters and reseeds the RNG.
func (s *Scheduler) Reset(seed uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(seed)
}

func (s *Scheduler) reset(seed uint64) {
	s.tick = 0
	s.boundary = 0
	s.rngState = normalizeSeed(seed)
}

// Now returns the current logical tick.
func (s *Scheduler) Now() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// NowNanos returns tick * nanosPerTick, saturating at the maximum uint64
// instead of wrapping.
func (s *Scheduler) NowNanos() uint64 {
	s.mu.Lock()
	t := s.tick
	s.mu.Unlock()
	return saturatingMul(t, s.nanosPerTick)
}

func saturatingMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/a != b {
		return maxTick
	}
	return p
}

// Tick advances the clock by one. It returns false iff the counter was
// already saturated, in which case the clock is left unchanged.
func (s *Scheduler) Tick() bool {
	return s.Advance(1)
}

// Advance moves the clock forward by n, saturating at the maximum uint64.
// It returns false iff the counter was already at the maximum value.
func (s *Scheduler) Advance(n uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tick == maxTick {
		s.log.Error().Msg("scheduler: clock already saturated")
		return false
	}
	if maxTick-s.tick < n {
		s.tick = maxTick
	} else {
		s.tick += n
	}
	return true
}

// Boundary atomically increments the boundary counter, ticks the clock
// once, and returns the resulting SchedulingBoundary.
func (s *Scheduler) Boundary(kind BoundaryKind) (SchedulingBoundary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boundary++
	if s.tick == maxTick {
		s.log.Error().Str("kind", kind.String()).Msg("scheduler: boundary crossed at clock saturation")
		return SchedulingBoundary{}, ErrSaturated
	}
	s.tick++
	return SchedulingBoundary{ID: s.boundary, Kind: kind}, nil
}

// RNGState returns the current raw RNG state without advancing it, for
// recording the seed a trace was built against.
func (s *Scheduler) RNGState() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rngState
}

// RandomU64 draws the next value from the xorshift64 stream under
// exclusive access. The same seed always produces the same sequence,
// independent of platform or goroutine scheduling.
func (s *Scheduler) RandomU64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	x := s.rngState
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	s.rngState = x
	return x
}

// BoundedUniform returns a uniformly distributed value in [0, max) using
// rejection sampling against the largest multiple of max below 2^64. It
// falls back to modulo after 64 rejections, which for any reasonable max
// has probability at most 2^-64 of ever triggering.
func (s *Scheduler) BoundedUniform(max uint64) uint64 {
	if max == 0 {
		return 0
	}
	limit := maxTick - (maxTick % max)
	for i := 0; i < 64; i++ {
		v := s.RandomU64()
		if v < limit {
			return v % max
		}
	}
	return s.RandomU64() % max
}
