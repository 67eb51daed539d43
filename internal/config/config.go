package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bgricker/buildpipe/internal/params"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up at the root.
const FileName = ".buildpipe.yml"

// Config captures CLI options sourced from config files or flags.
type Config struct {
	Pipelines    []string `yaml:"pipelines"`
	PipelineDirs []string `yaml:"pipeline_dirs"`
	Name         string   `yaml:"name"`

	OnlySteps []string `yaml:"only_step"`
	SkipSteps []string `yaml:"skip_step"`

	Verbose  bool   `yaml:"verbose"`
	Format   string `yaml:"format"`
	LogLevel string `yaml:"log_level"`

	HistoryLimit  int    `yaml:"history_limit"`
	MaxGroupDepth int    `yaml:"max_group_depth"`
	EnvPrefix     string `yaml:"env_prefix"`

	Build   BuildConfig   `yaml:"build"`
	Project ProjectConfig `yaml:"project"`
}

// BuildConfig configures the external player build command.
type BuildConfig struct {
	Command string `yaml:"command"`
	Shell   string `yaml:"shell"`
}

// ProjectConfig holds the project-level defaults every resolution starts
// from.
type ProjectConfig struct {
	Target           string `yaml:"target"`
	TargetGroup      string `yaml:"target_group"`
	SubTarget        string `yaml:"sub_target"`
	ProductName      string `yaml:"product_name"`
	CompanyName      string `yaml:"company_name"`
	BundleID         string `yaml:"bundle_id"`
	BundleVersion    string `yaml:"bundle_version"`
	BuildNumber      int    `yaml:"build_number"`
	ScriptingBackend string `yaml:"scripting_backend"`
	OutputFolder     string `yaml:"output_folder"`
	OutputFile       string `yaml:"output_file"`
	Environment      string `yaml:"environment"`
	GitBranch        string `yaml:"git_branch"`
}

// Defaults converts the project section for the resolver.
func (p ProjectConfig) Defaults() params.ProjectDefaults {
	return params.ProjectDefaults{
		Target:           p.Target,
		TargetGroup:      p.TargetGroup,
		SubTarget:        p.SubTarget,
		ProductName:      p.ProductName,
		CompanyName:      p.CompanyName,
		BundleID:         p.BundleID,
		BundleVersion:    p.BundleVersion,
		BuildNumber:      p.BuildNumber,
		ScriptingBackend: params.ScriptingBackend(p.ScriptingBackend),
		OutputFolder:     p.OutputFolder,
		OutputFile:       p.OutputFile,
		Environment:      p.Environment,
		GitBranch:        p.GitBranch,
	}
}

const (
	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"

	// DefaultEnvPrefix prefixes environment variables read as arguments.
	DefaultEnvPrefix = "BUILDPIPE"
)

// Default returns the baseline configuration used when no flags or config file specify values.
func Default() Config {
	return Config{
		Format:        FormatPretty,
		LogLevel:      "info",
		HistoryLimit:  20,
		MaxGroupDepth: 16,
		EnvPrefix:     DefaultEnvPrefix,
		Project: ProjectConfig{
			ScriptingBackend: string(params.BackendMono),
			OutputFolder:     "Builds",
			BundleVersion:    "0.1.0",
		},
	}
}

// Load reads .buildpipe.yml from the project root when present. Missing files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	return cfg, nil
}

func merge(base, override Config) Config {
	out := base

	if len(override.Pipelines) > 0 {
		out.Pipelines = append([]string{}, override.Pipelines...)
	}
	if len(override.PipelineDirs) > 0 {
		out.PipelineDirs = append([]string{}, override.PipelineDirs...)
	}
	if override.Name != "" {
		out.Name = override.Name
	}
	if len(override.OnlySteps) > 0 {
		out.OnlySteps = append([]string{}, override.OnlySteps...)
	}
	if len(override.SkipSteps) > 0 {
		out.SkipSteps = append([]string{}, override.SkipSteps...)
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.LogLevel != "" {
		out.LogLevel = override.LogLevel
	}
	if override.Verbose {
		out.Verbose = true
	}
	if override.HistoryLimit > 0 {
		out.HistoryLimit = override.HistoryLimit
	}
	if override.MaxGroupDepth > 0 {
		out.MaxGroupDepth = override.MaxGroupDepth
	}
	if override.EnvPrefix != "" {
		out.EnvPrefix = override.EnvPrefix
	}
	if override.Build.Command != "" {
		out.Build.Command = override.Build.Command
	}
	if override.Build.Shell != "" {
		out.Build.Shell = override.Build.Shell
	}
	out.Project = mergeProject(out.Project, override.Project)

	return out
}

func mergeProject(base, override ProjectConfig) ProjectConfig {
	out := base
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&out.Target, override.Target)
	pick(&out.TargetGroup, override.TargetGroup)
	pick(&out.SubTarget, override.SubTarget)
	pick(&out.ProductName, override.ProductName)
	pick(&out.CompanyName, override.CompanyName)
	pick(&out.BundleID, override.BundleID)
	pick(&out.BundleVersion, override.BundleVersion)
	pick(&out.ScriptingBackend, override.ScriptingBackend)
	pick(&out.OutputFolder, override.OutputFolder)
	pick(&out.OutputFile, override.OutputFile)
	pick(&out.Environment, override.Environment)
	pick(&out.GitBranch, override.GitBranch)
	if override.BuildNumber > 0 {
		out.BuildNumber = override.BuildNumber
	}
	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if len(flags.Pipelines.Values) > 0 {
		cfg.Pipelines = append([]string{}, flags.Pipelines.Values...)
	}
	if flags.Name.Set {
		cfg.Name = flags.Name.Value
	}
	if len(flags.OnlySteps.Values) > 0 {
		cfg.OnlySteps = append([]string{}, flags.OnlySteps.Values...)
	}
	if len(flags.SkipSteps.Values) > 0 {
		cfg.SkipSteps = append([]string{}, flags.SkipSteps.Values...)
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.LogLevel.Set {
		cfg.LogLevel = flags.LogLevel.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was set explicitly.
type FlagValues struct {
	Pipelines SliceFlag
	Name      StringFlag
	OnlySteps SliceFlag
	SkipSteps SliceFlag
	Format    StringFlag
	LogLevel  StringFlag
	Verbose   BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
