package commands

import (
	"context"
	"strings"

	"github.com/bgricker/buildpipe/internal/command"
	"github.com/bgricker/buildpipe/internal/params"
	"github.com/bgricker/buildpipe/internal/platform"
	"github.com/bgricker/buildpipe/internal/runner"
	"github.com/sirupsen/logrus"
)

// Shell runs a script with the build parameters exported to its environment.
type Shell struct {
	command.Base
	Script           string
	Interpreter      string
	WorkingDirectory string

	runner *runner.Runner
	log    logrus.FieldLogger
}

func (s *Shell) Validate(*params.Parameters) bool {
	return strings.TrimSpace(s.Script) != ""
}

func (s *Shell) Execute(ctx context.Context, p *params.Parameters) error {
	result, err := s.runner.Run(ctx, runner.Script{
		Run:              s.Script,
		Shell:            s.Interpreter,
		WorkingDirectory: s.WorkingDirectory,
		Env:              platform.Environment(p),
	})
	entry := s.log.WithFields(logrus.Fields{"step": s.Name(), "exit_code": result.ExitCode})
	if err != nil {
		if tail := strings.TrimSpace(result.Stderr); tail != "" {
			entry.Errorf("stderr:\n%s", tail)
		}
		return err
	}
	entry.Debugf("script finished in %s", result.Duration)
	return nil
}

func shellType(deps Deps) command.Type {
	return command.Type{
		Tag:         "shell",
		Description: "Run a script through a shell",
		New: func(name string) command.Command {
			return &Shell{Base: command.NewBase(name), runner: deps.Runner, log: deps.Log}
		},
		Fields: []command.Field{
			command.StringField("script", "script body", true, func(s *Shell) *string { return &s.Script }),
			command.StringField("shell", "interpreter, e.g. bash, sh, pwsh", false, func(s *Shell) *string { return &s.Interpreter }),
			command.StringField("working_directory", "directory relative to the project root", false, func(s *Shell) *string { return &s.WorkingDirectory }),
		},
	}
}
