package bte

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuiharness/bte/scenario"
)

func TestRunProducesSealedTrace(t *testing.T) {
	scn := scenario.Scenario{
		Name:     "facade",
		Command:  scenario.Command{Program: "cat"},
		Terminal: scenario.TerminalSize{Cols: 80, Rows: 24},
		Steps: []scenario.Step{
			scenario.WaitTicks{Ticks: 1},
		},
	}
	tr, err := Run(scn, WithBufferSize(1<<16), WithDeadlockThreshold(500))
	require.NoError(t, err)
	require.NotZero(t, tr.Checksum)
}

func TestRunManyDelegatesToRunner(t *testing.T) {
	scn := scenario.Scenario{
		Name:     "facade-many",
		Command:  scenario.Command{Program: "cat"},
		Terminal: scenario.TerminalSize{Cols: 80, Rows: 24},
		Steps: []scenario.Step{
			scenario.WaitTicks{Ticks: 1},
		},
	}
	results := RunMany(context.Background(), []scenario.Scenario{scn, scn}, 2)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
}
