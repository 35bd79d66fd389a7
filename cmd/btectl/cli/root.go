// Package cli implements the btectl command-line surface: a thin layer
// over the bte package for running scenario files from disk.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	log     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "btectl",
	Short: "Run behavioral test scenarios against interactive terminal programs",
	Long: `btectl drives an interactive program inside a PTY under a
deterministic scheduler, checks it against a scenario file, and emits a
sealed trace of everything that happened.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging")
}
