package output

import (
	"github.com/bgricker/buildpipe/internal/buildmap"
	"github.com/bgricker/buildpipe/internal/command"
)

// Pipeline is the listing view of a build map.
type Pipeline struct {
	Name         string   `json:"name"`
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	TargetGroup  string   `json:"target_group"`
	SubTarget    string   `json:"sub_target,omitempty"`
	Environments []string `json:"environments,omitempty"`
	PlayerBuild  bool     `json:"player_build"`
	Selected     bool     `json:"selected"`
	PreBuild     []Step   `json:"pre_build"`
	PostBuild    []Step   `json:"post_build"`
}

// Step is the listing view of a step tree node.
type Step struct {
	Name        string `json:"name"`
	Group       bool   `json:"group,omitempty"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
	Steps       []Step `json:"steps,omitempty"`
}

// CommandType describes a registered command type.
type CommandType struct {
	Tag         string      `json:"tag"`
	Description string      `json:"description"`
	Fields      []TypeField `json:"fields"`
}

// TypeField describes one field of a command type.
type TypeField struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Usage    string `json:"usage,omitempty"`
	Required bool   `json:"required"`
}

// Describe converts m into its listing view.
func Describe(m *buildmap.BuildMap, selected bool) Pipeline {
	return Pipeline{
		Name:         m.Name,
		Source:       m.Source,
		Target:       m.Data.Target,
		TargetGroup:  m.Data.TargetGroup,
		SubTarget:    m.Data.SubTarget,
		Environments: m.Data.Environments,
		PlayerBuild:  m.PlayerBuildEnabled,
		Selected:     selected,
		PreBuild:     describeSteps(m.PreBuild.Steps),
		PostBuild:    describeSteps(m.PostBuild.Steps),
	}
}

func describeSteps(steps []command.Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		if g := s.Group(); g != nil {
			out = append(out, Step{
				Name:        g.Name,
				Group:       true,
				Description: g.Description,
				Active:      g.Active,
				Steps:       describeSteps(g.Steps),
			})
			continue
		}
		if cmd := s.Command(); cmd != nil {
			out = append(out, Step{Name: cmd.Name(), Active: cmd.Active()})
		}
	}
	return out
}

// DescribeTypes converts registered types into their listing view.
func DescribeTypes(types []*command.Type) []CommandType {
	out := make([]CommandType, 0, len(types))
	for _, t := range types {
		ct := CommandType{Tag: t.Tag, Description: t.Description, Fields: make([]TypeField, 0, len(t.Fields))}
		for _, f := range t.Fields {
			ct.Fields = append(ct.Fields, TypeField{Name: f.Name, Kind: string(f.Kind), Usage: f.Usage, Required: f.Required})
		}
		out = append(out, ct)
	}
	return out
}
