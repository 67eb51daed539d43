package main

import (
	"fmt"

	"github.com/bgricker/buildpipe/internal/pipeline"
	"github.com/bgricker/buildpipe/internal/platform"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [-- build arguments]",
		Short: "Run the selected pipeline",
		RunE:  runExecute,
	}
}

func runExecute(cmd *cobra.Command, args []string) error {
	_, buildArgs := splitArgs(cmd, args)
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

	executor := pipeline.New(pipeline.Options{
		Builder:      p.builder(),
		Log:          p.log,
		HistoryLimit: p.cfg.HistoryLimit,
	})
	state, err := executor.ExecutePipeline(cmd.Context(), selected, resolved)
	if err != nil {
		return err
	}

	if err := p.renderer.RenderRun(state); err != nil {
		return err
	}
	if state.Summary().ExitCode != 0 {
		return fmt.Errorf("pipeline %q failed", selected.Name)
	}
	return nil
}

func (p *project) builder() platform.Builder {
	if p.cfg.Build.Command == "" {
		return nil
	}
	return &platform.ShellBuilder{
		Command: p.cfg.Build.Command,
		Shell:   p.cfg.Build.Shell,
		Runner:  p.runner,
	}
}
