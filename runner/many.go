package runner

import (
	"context"
	"sync"

	"github.com/tuiharness/bte/scenario"
	"github.com/tuiharness/bte/trace"
)

// ManyResult pairs a scenario's outcome with its originating index; RunMany
// returns results in submission order, so Index equals the slice position.
type ManyResult struct {
	Index int
	Trace trace.Trace
	Err   error
}

// RunMany runs scenarios concurrently, each through its own single-threaded
// Run, bounded to at most concurrency simultaneous runs. It does not share
// a scheduler, PTY host, or screen across scenarios — concurrency is
// strictly across independent runs, never within one. Results are returned
// in submission order; ctx cancellation stops launching new runs but does
// not abort ones already in flight.
func RunMany(ctx context.Context, scenarios []scenario.Scenario, cfg Config, concurrency int) []ManyResult {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]ManyResult, len(scenarios))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, scn := range scenarios {
		select {
		case <-ctx.Done():
			results[i] = ManyResult{Index: i, Err: ctx.Err()}
			continue
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, scn scenario.Scenario) {
			defer wg.Done()
			defer func() { <-sem }()
			tr, err := Run(scn, cfg)
			results[i] = ManyResult{Index: i, Trace: tr, Err: err}
		}(i, scn)
	}

	wg.Wait()
	return results
}
