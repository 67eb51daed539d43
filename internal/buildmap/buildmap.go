// Package buildmap couples build data with the pre- and post-build command
// containers of one pipeline, and selects the pipeline for a run.
package buildmap

import (
	"errors"
	"strings"

	"github.com/bgricker/buildpipe/internal/command"
	"github.com/bgricker/buildpipe/internal/params"
)

// ErrNoMatch is returned by callers that treat an empty selection as fatal.
var ErrNoMatch = errors.New("no pipeline matches the build parameters")

// BuildMap is one pipeline configuration.
type BuildMap struct {
	Name   string
	Source string
	Data   params.BuildData

	PreBuild           *command.Container
	PostBuild          *command.Container
	PlayerBuildEnabled bool

	// LastReport is set by the executor after the player build step so later
	// commands and callers can inspect it.
	LastReport *params.BuildReport
}

// New returns a build map with empty containers.
func New(name string, data params.BuildData) *BuildMap {
	return &BuildMap{
		Name:      name,
		Data:      data,
		PreBuild:  command.NewContainer(),
		PostBuild: command.NewContainer(),
	}
}

// Validate reports whether the map applies to p. Target and target group
// must match; sub target and environment are checked when configured.
func (m *BuildMap) Validate(p *params.Parameters) bool {
	if p == nil {
		return false
	}
	if !strings.EqualFold(m.Data.Target, p.Target) || !strings.EqualFold(m.Data.TargetGroup, p.TargetGroup) {
		return false
	}
	if m.Data.SubTarget != "" && !strings.EqualFold(m.Data.SubTarget, p.SubTarget) {
		return false
	}
	if len(m.Data.Environments) > 0 && !containsFold(m.Data.Environments, p.Environment) {
		return false
	}
	return true
}

// Commands returns every command of both containers, pre-build first.
func (m *BuildMap) Commands() []command.Command {
	return append(m.PreBuild.All(), m.PostBuild.All()...)
}

// FindCommand looks a command up by name in both containers.
func (m *BuildMap) FindCommand(name string) command.Command {
	if c := m.PreBuild.Find(name); c != nil {
		return c
	}
	return m.PostBuild.Find(name)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
