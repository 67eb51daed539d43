// Package commands provides the built-in command types available to
// pipeline assets.
package commands

import (
	"github.com/bgricker/buildpipe/internal/command"
	"github.com/bgricker/buildpipe/internal/logging"
	"github.com/bgricker/buildpipe/internal/runner"
	"github.com/sirupsen/logrus"
)

// Deps are the services built-in commands share.
type Deps struct {
	Runner *runner.Runner
	Root   string
	Log    logrus.FieldLogger
}

// Register adds every built-in type to r.
func Register(r *command.Registry, deps Deps) {
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	if deps.Runner == nil {
		deps.Runner = runner.New(runner.Options{Root: deps.Root})
	}
	r.Register(shellType(deps))
	r.Register(setOutputType())
	r.Register(writeVersionType(deps))
	r.Register(requireBuildSuccessType())
	r.Register(setDefineType())
}

// NewRegistry returns a registry holding the built-in types.
func NewRegistry(deps Deps) *command.Registry {
	r := command.NewRegistry()
	Register(r, deps)
	return r
}
