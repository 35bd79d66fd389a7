package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tuiharness/bte"
	"github.com/tuiharness/bte/scenario"
)

var (
	outPath string
)

var runCmd = &cobra.Command{
	Use:   "run [scenario.yaml]",
	Short: "Run a scenario file and print its outcome",
	Long: `Run loads a YAML scenario file, executes it against a freshly
spawned child process under a PTY, and prints its termination outcome.
Pass --out to also write the full sealed trace as JSON.

Examples:
  # Run a scenario and print the outcome
  btectl run scenarios/shell-prompt.yaml

  # Also capture the full trace for later replay
  btectl run scenarios/shell-prompt.yaml --out trace.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scn, err := scenario.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("btectl: %w", err)
		}
		if errs := scenario.Validate(scn); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", e.Path, e.Message)
			}
			return fmt.Errorf("btectl: %d validation error(s)", len(errs))
		}

		tr, err := bte.Run(scn, bte.WithLogger(log))
		if err != nil {
			return fmt.Errorf("btectl: %w", err)
		}

		fmt.Printf("scenario: %s\n", scn.Name)
		fmt.Printf("outcome:  %s\n", tr.Outcome.Kind)
		fmt.Printf("checksum: %x\n", tr.Checksum)
		if len(tr.Events) > 0 {
			fmt.Printf("events:   %d\n", len(tr.Events))
		}

		if outPath != "" {
			data, err := json.MarshalIndent(tr, "", "  ")
			if err != nil {
				return fmt.Errorf("btectl: marshal trace: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("btectl: write %s: %w", outPath, err)
			}
		}

		if code := tr.Outcome.ExitCode(); code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&outPath, "out", "", "write the full sealed trace as JSON to this path")
	rootCmd.AddCommand(runCmd)
}
