package main

import (
	"github.com/bgricker/buildpipe/internal/output"
	"github.com/spf13/cobra"
)

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "Describe the command types pipelines can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, nil)
			if err != nil {
				return err
			}
			return p.renderer.RenderTypes(output.DescribeTypes(p.registry.Types()))
		},
	}
}
