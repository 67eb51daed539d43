package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bgricker/buildpipe/internal/argument"
	"github.com/bgricker/buildpipe/internal/asset"
	"github.com/bgricker/buildpipe/internal/buildmap"
	"github.com/bgricker/buildpipe/internal/command"
	"github.com/bgricker/buildpipe/internal/commands"
	"github.com/bgricker/buildpipe/internal/config"
	"github.com/bgricker/buildpipe/internal/discovery"
	"github.com/bgricker/buildpipe/internal/filter"
	"github.com/bgricker/buildpipe/internal/logging"
	"github.com/bgricker/buildpipe/internal/output"
	"github.com/bgricker/buildpipe/internal/params"
	"github.com/bgricker/buildpipe/internal/runner"
	"github.com/bgricker/buildpipe/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// project bundles everything a subcommand needs: configuration, loaded
// pipelines and the build arguments.
type project struct {
	cfg      config.Config
	root     string
	log      *logrus.Logger
	runner   *runner.Runner
	registry *command.Registry
	maps     []*buildmap.BuildMap
	warnings []asset.Warning
	args     *argument.Store
	renderer output.Renderer
}

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)

	return cfg, root, nil
}

// openProject loads configuration and the command registry. Pipelines are
// loaded separately so `commands` works in an empty project.
func openProject(cmd *cobra.Command, buildArgs []string) (*project, error) {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	renderer, err := output.New(strings.ToLower(cfg.Format), cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	args, err := argument.Parse(buildArgs)
	if err != nil {
		return nil, fmt.Errorf("parse build arguments: %w", err)
	}
	args.Fill(argument.FromEnvironment(cfg.EnvPrefix, argument.Keys()))

	run := runner.New(runner.Options{
		Root:      root,
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
		Verbose:   cfg.Verbose,
		TailLines: 20,
	})

	p := &project{
		cfg:      cfg,
		root:     root,
		log:      log,
		runner:   run,
		args:     args,
		renderer: renderer,
	}
	p.registry = commands.NewRegistry(commands.Deps{Runner: run, Root: root, Log: log})
	return p, nil
}

func (p *project) loadPipelines() error {
	paths, err := discovery.Pipelines(p.root, p.cfg.PipelineDirs, p.cfg.Pipelines)
	if err != nil {
		if errors.Is(err, discovery.ErrNoPipelines) {
			return fmt.Errorf("no pipelines found; add *.buildmap.yml files under %s or pass --pipeline", discovery.DefaultDir)
		}
		return err
	}

	loader := asset.NewLoader(p.root, p.registry, p.cfg.MaxGroupDepth)
	maps, warnings, err := loader.Load(paths)
	if err != nil {
		return err
	}
	p.maps = maps
	p.warnings = warnings
	for _, w := range warnings {
		p.log.WithField("path", w.Path).Warn(w.Message)
	}
	return p.applyFilters()
}

func (p *project) applyFilters() error {
	only, err := filter.Compile(p.cfg.OnlySteps)
	if err != nil {
		return err
	}
	skip, err := filter.Compile(p.cfg.SkipSteps)
	if err != nil {
		return err
	}
	for _, m := range p.maps {
		off := append(filter.Apply(m.PreBuild, only, skip), filter.Apply(m.PostBuild, only, skip)...)
		if len(off) > 0 {
			p.log.WithField("pipeline", m.Name).Debugf("filtered out: %s", strings.Join(off, ", "))
		}
	}
	return nil
}

func (p *project) resolver() *params.Resolver {
	defaults := p.cfg.Project.Defaults()
	if defaults.GitBranch == "" {
		branch, err := version.DetectGitBranch(p.root)
		switch {
		case err == nil:
			defaults.GitBranch = branch
		case version.Missing(err):
			p.log.Debug("git executable not found; git branch left empty")
		default:
			p.log.Debugf("unable to detect git branch: %v", err)
		}
	}
	return params.NewResolver(defaults, p.log)
}

// selectPipeline picks the pipeline for this invocation: by --name when set,
// otherwise the first pipeline matching the candidate parameters. When no
// pipeline matches it returns the candidate parameters and ErrNoMatch.
func (p *project) selectPipeline() (*buildmap.BuildMap, *params.Parameters, error) {
	resolver := p.resolver()

	var selected *buildmap.BuildMap
	if p.cfg.Name != "" {
		selected = buildmap.Find(p.maps, p.cfg.Name)
		if selected == nil {
			return nil, nil, fmt.Errorf("pipeline %q not found", p.cfg.Name)
		}
	} else {
		candidate, err := resolver.Resolve(nil, p.args)
		if err != nil {
			return nil, nil, err
		}
		selected = buildmap.Select(p.maps, candidate)
		if selected == nil {
			return nil, candidate, buildmap.ErrNoMatch
		}
	}

	resolved, err := resolver.Resolve(&selected.Data, p.args)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline %q: %w", selected.Name, err)
	}
	p.log.WithField("pipeline", selected.Name).Debugf("selected pipeline from %s", selected.Source)
	return selected, resolved, nil
}
