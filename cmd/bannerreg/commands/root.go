package commands

import (
	"bannerreg/lib/telemetry"
	"context"

	"github.com/spf13/cobra"
)

var debug *bool

var rootCmd = &cobra.Command{
	Use:   "bannerreg",
	Short: "bannerreg registers for Banner course sections the moment registration opens.",
	// failures are logged once by main after telemetry is flushed
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if *debug {
			telemetry.InitSlog(true)
		}
	},
}

func init() {
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Log at debug level.")
}

// ExecuteContext runs the command line and returns the error of the
// command that failed, if any.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
