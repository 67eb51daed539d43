package main

import (
	"fmt"

	"github.com/bgricker/buildpipe/internal/pipeline"
	"github.com/spf13/cobra"
)

func newStepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step <name> [-- build arguments]",
		Short: "Run a single command of the selected pipeline",
		RunE:  runStep,
	}
}

func runStep(cmd *cobra.Command, args []string) error {
	positional, buildArgs := splitArgs(cmd, args)
	if len(positional) != 1 {
		return fmt.Errorf("step requires exactly one command name")
	}
	p, err := openProject(cmd, buildArgs)
	if err != nil {
		return err
	}
	if err := p.loadPipelines(); err != nil {
		return err
	}

	selected, resolved, err := p.selectPipeline()
	if err != nil {
		return err
	}
	target := selected.FindCommand(positional[0])
	if target == nil {
		return fmt.Errorf("pipeline %q has no command %q", selected.Name, positional[0])
	}

	executor := pipeline.New(pipeline.Options{Log: p.log})
	state, err := executor.ExecuteStep(cmd.Context(), target, resolved)
	if err != nil {
		return err
	}
	if err := p.renderer.RenderRun(state); err != nil {
		return err
	}
	if !state.Result.Success {
		return fmt.Errorf("step %q failed", target.Name())
	}
	return nil
}
