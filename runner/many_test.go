package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuiharness/bte/scenario"
)

func catScenario(name string) scenario.Scenario {
	return scenario.Scenario{
		Name:     name,
		Command:  scenario.Command{Program: "cat"},
		Terminal: scenario.TerminalSize{Cols: 80, Rows: 24},
		Steps: []scenario.Step{
			scenario.WaitTicks{Ticks: 1},
		},
	}
}

func TestRunManyRunsAllScenariosAndPreservesOrder(t *testing.T) {
	scns := []scenario.Scenario{catScenario("a"), catScenario("b"), catScenario("c")}
	results := RunMany(context.Background(), scns, Config{}, 2)
	require.Len(t, results, 3)
	for i, r := range results {
		require.Equal(t, i, r.Index)
		require.NoError(t, r.Err)
		require.NotZero(t, r.Trace.Checksum)
	}
}

func TestRunManyZeroConcurrencyFallsBackToOne(t *testing.T) {
	scns := []scenario.Scenario{catScenario("solo")}
	results := RunMany(context.Background(), scns, Config{}, 0)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
}

func TestRunManyStopsLaunchingAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	scns := []scenario.Scenario{catScenario("x"), catScenario("y")}
	results := RunMany(ctx, scns, Config{}, 2)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Error(t, r.Err)
	}
}
