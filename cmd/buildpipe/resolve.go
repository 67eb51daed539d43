package main

import (
	"errors"
	"fmt"

	"github.com/bgricker/buildpipe/internal/buildmap"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [-- build arguments]",
		Short: "Print the build parameters the selected pipeline would run with",
		RunE:  runResolve,
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	_, buildArgs := splitArgs(cmd, args)
	p, err := openProject(cmd, buildArgs)
	if err != nil {
		return err
	}
	if err := p.loadPipelines(); err != nil {
		return err
	}

	selected, resolved, err := p.selectPipeline()
	if errors.Is(err, buildmap.ErrNoMatch) {
		fmt.Fprintln(cmd.ErrOrStderr(), "No pipeline matches; showing project parameters")
		return p.renderer.RenderParameters("", resolved)
	}
	if err != nil {
		return err
	}
	return p.renderer.RenderParameters(selected.Name, resolved)
}
