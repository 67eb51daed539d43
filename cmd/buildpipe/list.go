package main

import (
	"errors"

	"github.com/bgricker/buildpipe/internal/buildmap"
	"github.com/bgricker/buildpipe/internal/output"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [-- build arguments]",
		Short: "List pipelines and their steps, marking the one that would run",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	_, buildArgs := splitArgs(cmd, args)
	p, err := openProject(cmd, buildArgs)
	if err != nil {
		return err
	}
	if err := p.loadPipelines(); err != nil {
		return err
	}

	selected, _, err := p.selectPipeline()
	if err != nil && !errors.Is(err, buildmap.ErrNoMatch) {
		return err
	}

	pipelines := make([]output.Pipeline, 0, len(p.maps))
	for _, m := range p.maps {
		pipelines = append(pipelines, output.Describe(m, m == selected))
	}
	return p.renderer.RenderList(pipelines, p.warnings)
}
