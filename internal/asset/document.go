package asset

import (
	"fmt"
	"strings"

	"github.com/bgricker/buildpipe/internal/params"
	"gopkg.in/yaml.v3"
)

type document struct {
	Name        string         `yaml:"name"`
	PlayerBuild bool           `yaml:"player_build"`
	Build       buildDocument  `yaml:"build"`
	PreBuild    []stepDocument `yaml:"pre_build"`
	PostBuild   []stepDocument `yaml:"post_build"`
}

type buildDocument struct {
	Version          int               `yaml:"version"`
	Target           string            `yaml:"target"`
	TargetGroup      string            `yaml:"target_group"`
	SubTarget        string            `yaml:"sub_target"`
	ScriptingBackend string            `yaml:"scripting_backend"`
	Development      bool              `yaml:"development"`
	Profiler         bool              `yaml:"profiler"`
	Debug            bool              `yaml:"debug"`
	ProductName      overrideDocument  `yaml:"product_name"`
	BundleID         overrideDocument  `yaml:"bundle_id"`
	CompanyName      overrideDocument  `yaml:"company_name"`
	Environments     []string          `yaml:"environments"`
	Arguments        argumentsDocument `yaml:"arguments"`
}

// overrideDocument accepts either `{override: bool, value: string}` or a
// bare scalar, which means an enabled override.
type overrideDocument struct {
	Override bool   `yaml:"override"`
	Value    string `yaml:"value"`
}

func (o *overrideDocument) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Override = true
		o.Value = node.Value
		return nil
	}
	type plain overrideDocument
	return node.Decode((*plain)(o))
}

type argumentsDocument struct {
	Enabled *bool              `yaml:"enabled"`
	Entries []argumentDocument `yaml:"entries"`
}

type argumentDocument struct {
	Key      string `yaml:"key"`
	Value    string `yaml:"value"`
	Override bool   `yaml:"override"`
}

type stepDocument struct {
	Uses        string                 `yaml:"uses"`
	Name        string                 `yaml:"name"`
	Active      *bool                  `yaml:"active"`
	With        map[string]interface{} `yaml:"with"`
	Group       string                 `yaml:"group"`
	Description string                 `yaml:"description"`
	Steps       []stepDocument         `yaml:"steps"`
}

func (d buildDocument) buildData() (params.BuildData, error) {
	data := params.BuildData{
		Version:             d.Version,
		Target:              d.Target,
		TargetGroup:         d.TargetGroup,
		SubTarget:           d.SubTarget,
		Development:         d.Development,
		Profiler:            d.Profiler,
		Debug:               d.Debug,
		OverrideProductName: d.ProductName.Override,
		ProductName:         d.ProductName.Value,
		OverrideBundleID:    d.BundleID.Override,
		BundleID:            d.BundleID.Value,
		OverrideCompanyName: d.CompanyName.Override,
		CompanyName:         d.CompanyName.Value,
		Environments:        d.Environments,
	}
	if data.Version == 0 {
		data.Version = params.DataVersion
	}
	if data.Version > params.DataVersion {
		return params.BuildData{}, fmt.Errorf("build data version %d is newer than supported version %d", data.Version, params.DataVersion)
	}
	if data.Target == "" || data.TargetGroup == "" {
		return params.BuildData{}, fmt.Errorf("build.target and build.target_group are required")
	}

	if d.ScriptingBackend != "" {
		backend, ok := matchBackend(d.ScriptingBackend)
		if !ok {
			return params.BuildData{}, fmt.Errorf("unknown scripting backend %q", d.ScriptingBackend)
		}
		data.ScriptingBackend = backend
	}

	data.Arguments.Enabled = len(d.Arguments.Entries) > 0
	if d.Arguments.Enabled != nil {
		data.Arguments.Enabled = *d.Arguments.Enabled
	}
	for _, e := range d.Arguments.Entries {
		if e.Key == "" {
			return params.BuildData{}, fmt.Errorf("argument entry without key")
		}
		data.Arguments.Entries = append(data.Arguments.Entries, params.ArgumentEntry{
			Key:      e.Key,
			Value:    e.Value,
			Override: e.Override,
		})
	}
	return data, nil
}

func matchBackend(raw string) (params.ScriptingBackend, bool) {
	for _, b := range params.Backends() {
		if strings.EqualFold(string(b), raw) {
			return b, true
		}
	}
	return "", false
}
