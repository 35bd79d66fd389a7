package bte

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/tuiharness/bte/runner"
	"github.com/tuiharness/bte/scenario"
	"github.com/tuiharness/bte/trace"
)

// Option configures a run beyond what the Scenario itself specifies.
type Option func(*runner.Config)

// WithBufferSize overrides the default bounded I/O buffer size, in bytes,
// for each direction of the PTY pump.
func WithBufferSize(n int) Option {
	return func(c *runner.Config) { c.BufferSize = n }
}

// WithDeadlockThreshold overrides the default number of consecutive
// no-output ticks after which a run is classified as deadlocked.
func WithDeadlockThreshold(ticks uint64) Option {
	return func(c *runner.Config) { c.DeadlockThreshold = ticks }
}

// WithLogger attaches a logger that receives step-boundary and PTY
// transition events at debug level. The default is zerolog.Nop().
func WithLogger(log zerolog.Logger) Option {
	return func(c *runner.Config) { c.Logger = &log }
}

func buildConfig(opts []Option) runner.Config {
	var cfg runner.Config
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Run validates, executes, and seals a trace for scn.
func Run(scn scenario.Scenario, opts ...Option) (trace.Trace, error) {
	return runner.Run(scn, buildConfig(opts))
}

// RunMany runs scenarios concurrently, each through its own independent,
// single-threaded Run, bounded to at most concurrency simultaneous runs.
func RunMany(ctx context.Context, scenarios []scenario.Scenario, concurrency int, opts ...Option) []runner.ManyResult {
	return runner.RunMany(ctx, scenarios, buildConfig(opts), concurrency)
}
