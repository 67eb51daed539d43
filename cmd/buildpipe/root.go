package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "buildpipe",
		Short:         "Buildpipe selects and runs build pipelines for a project",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	persistent := cmd.PersistentFlags()
	persistent.StringArray("pipeline", nil, "pipeline asset to include (repeatable)")
	persistent.String("name", "", "select the pipeline with this name instead of matching")
	persistent.StringArray("only-step", nil, "include only matching steps")
	persistent.StringArray("skip-step", nil, "exclude matching steps")
	persistent.BoolP("verbose", "v", false, "stream command output in real time")
	persistent.String("format", "pretty", "output format (pretty|json)")
	persistent.String("log-level", "info", "log level (debug|info|warn|error)")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newStepCmd())
	cmd.AddCommand(newCommandsCmd())

	return cmd
}
