// Package params models build configuration data and the resolved parameter
// snapshot every command of a run reads and writes.
package params

import (
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
)

// DataVersion is the newest BuildData layout this package understands.
const DataVersion = 1

// ScriptingBackend selects the scripting implementation of the player.
type ScriptingBackend string

const (
	BackendMono   ScriptingBackend = "Mono2x"
	BackendIL2CPP ScriptingBackend = "IL2CPP"
)

// Backends lists the accepted scripting backends.
func Backends() []ScriptingBackend {
	return []ScriptingBackend{BackendMono, BackendIL2CPP}
}

// ArgumentEntry is one key/value pair of an ArgumentsMap. Override entries
// replace externally supplied arguments; the others only fill gaps.
type ArgumentEntry struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Override bool   `json:"override"`
}

// ArgumentsMap is an ordered list of argument entries with a master switch.
type ArgumentsMap struct {
	Enabled bool            `json:"enabled"`
	Entries []ArgumentEntry `json:"entries,omitempty"`
}

// BuildData describes a build target as stored in a pipeline asset.
type BuildData struct {
	Version          int              `json:"version"`
	Target           string           `json:"target"`
	TargetGroup      string           `json:"target_group"`
	SubTarget        string           `json:"sub_target,omitempty"`
	ScriptingBackend ScriptingBackend `json:"scripting_backend,omitempty"`
	Development      bool             `json:"development"`
	Profiler         bool             `json:"profiler"`
	Debug            bool             `json:"debug"`

	OverrideProductName bool   `json:"override_product_name"`
	ProductName         string `json:"product_name,omitempty"`
	OverrideBundleID    bool   `json:"override_bundle_id"`
	BundleID            string `json:"bundle_id,omitempty"`
	OverrideCompanyName bool   `json:"override_company_name"`
	CompanyName         string `json:"company_name,omitempty"`

	// Environments restricts the build environments this data applies to.
	Environments []string `json:"environments,omitempty"`

	Arguments ArgumentsMap `json:"arguments"`
}

// ProjectDefaults are the project-level values every resolution starts from.
type ProjectDefaults struct {
	Target           string           `json:"target"`
	TargetGroup      string           `json:"target_group"`
	SubTarget        string           `json:"sub_target,omitempty"`
	ProductName      string           `json:"product_name"`
	CompanyName      string           `json:"company_name"`
	BundleID         string           `json:"bundle_id"`
	BundleVersion    string           `json:"bundle_version"`
	BuildNumber      int              `json:"build_number"`
	ScriptingBackend ScriptingBackend `json:"scripting_backend"`
	OutputFolder     string           `json:"output_folder"`
	OutputFile       string           `json:"output_file,omitempty"`
	Environment      string           `json:"environment,omitempty"`
	GitBranch        string           `json:"git_branch,omitempty"`
}

// BuildReport is what the platform build step hands back.
type BuildReport struct {
	Success    bool          `json:"success"`
	Summary    string        `json:"summary"`
	Output     string        `json:"output,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
}

// Parameters is the resolved, mutable snapshot for one run. Commands run
// sequentially and share one instance, so no locking is done.
type Parameters struct {
	Target           string           `json:"target"`
	TargetGroup      string           `json:"target_group"`
	SubTarget        string           `json:"sub_target,omitempty"`
	ProductName      string           `json:"product_name"`
	CompanyName      string           `json:"company_name"`
	BundleID         string           `json:"bundle_id"`
	BundleVersion    string           `json:"bundle_version"`
	BuildNumber      int              `json:"build_number"`
	OutputFolder     string           `json:"output_folder"`
	OutputFile       string           `json:"output_file"`
	OutputPath       string           `json:"output_path"`
	ScriptingBackend ScriptingBackend `json:"scripting_backend"`
	Development      bool             `json:"development"`
	Profiler         bool             `json:"profiler"`
	Debug            bool             `json:"debug"`
	Environment      string           `json:"environment,omitempty"`
	GitBranch        string           `json:"git_branch,omitempty"`
	Defines          []string         `json:"defines,omitempty"`

	BuildReport *BuildReport `json:"build_report,omitempty"`
}

// RefreshOutputPath recomputes OutputPath from OutputFolder and OutputFile.
// An empty file name defaults to the product name plus the target extension.
func (p *Parameters) RefreshOutputPath() {
	if p.OutputFile == "" && p.ProductName != "" {
		p.OutputFile = p.ProductName + TargetExtension(p.Target)
	}
	folder := p.OutputFolder
	if expanded, err := homedir.Expand(folder); err == nil {
		folder = expanded
	}
	if p.OutputFile == "" {
		p.OutputPath = filepath.Clean(folder)
		return
	}
	p.OutputPath = filepath.Join(folder, p.OutputFile)
}

// Clone returns a deep copy.
func (p *Parameters) Clone() *Parameters {
	out := *p
	out.Defines = append([]string(nil), p.Defines...)
	if p.BuildReport != nil {
		report := *p.BuildReport
		out.BuildReport = &report
	}
	return &out
}

var targetExtensions = map[string]string{
	"standalonewindows":   ".exe",
	"standalonewindows64": ".exe",
	"standaloneosx":       ".app",
	"android":             ".apk",
}

// TargetExtension returns the artifact extension for target, or "".
func TargetExtension(target string) string {
	return targetExtensions[strings.ToLower(target)]
}
