package params

import (
	"fmt"

	"github.com/bgricker/buildpipe/internal/argument"
	"github.com/sirupsen/logrus"
)

// Resolver turns defaults, build data and arguments into Parameters.
type Resolver struct {
	defaults ProjectDefaults
	log      logrus.FieldLogger
}

// NewResolver returns a resolver seeded with defaults.
func NewResolver(defaults ProjectDefaults, log logrus.FieldLogger) *Resolver {
	return &Resolver{defaults: defaults, log: log}
}

// Resolve builds the parameter snapshot for one run. Layers apply in order,
// each overwriting the previous one:
//
//	defaults < build data < recognized arguments < override entries
//
// Gap-filling and override entries of data.Arguments are written into args,
// so later consumers of the provider see them too. A nil data resolves the
// candidate parameters used for pipeline selection.
func (r *Resolver) Resolve(data *BuildData, args argument.Provider) (*Parameters, error) {
	if args == nil {
		args = argument.NewStore()
	}
	if data != nil && data.Version > DataVersion {
		return nil, fmt.Errorf("build data version %d is newer than supported version %d", data.Version, DataVersion)
	}

	p := r.seed()

	mapEnabled := data != nil && data.Arguments.Enabled
	if mapEnabled {
		for _, entry := range data.Arguments.Entries {
			if entry.Key == "" || args.Contains(entry.Key) {
				continue
			}
			args.Set(entry.Key, entry.Value)
		}
	}

	if data != nil {
		applyData(p, data)
	}

	r.applyArguments(p, args)

	if mapEnabled {
		forced := 0
		for _, entry := range data.Arguments.Entries {
			if entry.Key == "" || !entry.Override {
				continue
			}
			args.Set(entry.Key, entry.Value)
			forced++
		}
		if forced > 0 {
			r.applyArguments(p, args)
		}
	}

	p.RefreshOutputPath()
	return p, nil
}

func (r *Resolver) seed() *Parameters {
	d := r.defaults
	return &Parameters{
		Target:           d.Target,
		TargetGroup:      d.TargetGroup,
		SubTarget:        d.SubTarget,
		ProductName:      d.ProductName,
		CompanyName:      d.CompanyName,
		BundleID:         d.BundleID,
		BundleVersion:    d.BundleVersion,
		BuildNumber:      d.BuildNumber,
		ScriptingBackend: d.ScriptingBackend,
		OutputFolder:     d.OutputFolder,
		OutputFile:       d.OutputFile,
		Environment:      d.Environment,
		GitBranch:        d.GitBranch,
	}
}

func applyData(p *Parameters, data *BuildData) {
	if data.Target != "" {
		p.Target = data.Target
	}
	if data.TargetGroup != "" {
		p.TargetGroup = data.TargetGroup
	}
	if data.SubTarget != "" {
		p.SubTarget = data.SubTarget
	}
	if data.ScriptingBackend != "" {
		p.ScriptingBackend = data.ScriptingBackend
	}
	p.Development = data.Development
	p.Profiler = data.Profiler
	p.Debug = data.Debug

	if data.OverrideProductName {
		p.ProductName = data.ProductName
	}
	if data.OverrideBundleID {
		p.BundleID = data.BundleID
	}
	if data.OverrideCompanyName {
		p.CompanyName = data.CompanyName
	}
}

func (r *Resolver) applyArguments(p *Parameters, args argument.Provider) {
	texts := []struct {
		key string
		dst *string
	}{
		{argument.KeyTarget, &p.Target},
		{argument.KeyTargetGroup, &p.TargetGroup},
		{argument.KeySubTarget, &p.SubTarget},
		{argument.KeyBundleID, &p.BundleID},
		{argument.KeyOutputFolder, &p.OutputFolder},
		{argument.KeyOutputFile, &p.OutputFile},
		{argument.KeyEnvironment, &p.Environment},
		{argument.KeyProductName, &p.ProductName},
		{argument.KeyBundleVersion, &p.BundleVersion},
		{argument.KeyGitBranch, &p.GitBranch},
	}
	for _, s := range texts {
		if v, ok := args.String(s.key); ok {
			*s.dst = v
		}
	}

	if args.Contains(argument.KeyBuildNumber) {
		if v, ok := args.Int(argument.KeyBuildNumber); ok {
			p.BuildNumber = v
		} else {
			r.ignored(argument.KeyBuildNumber, args)
		}
	}

	if args.Contains(argument.KeyScriptingBackend) {
		if v, ok := argument.Enum(args, argument.KeyScriptingBackend, Backends()...); ok {
			p.ScriptingBackend = v
		} else {
			r.ignored(argument.KeyScriptingBackend, args)
		}
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{argument.KeyDevelopment, &p.Development},
		{argument.KeyProfiler, &p.Profiler},
		{argument.KeyDebug, &p.Debug},
	}
	for _, f := range flags {
		if !args.Contains(f.key) {
			continue
		}
		if v, ok := args.Bool(f.key); ok {
			*f.dst = v
		} else {
			r.ignored(f.key, args)
		}
	}
}

func (r *Resolver) ignored(key string, args argument.Provider) {
	if r.log == nil {
		return
	}
	raw, _ := args.String(key)
	r.log.WithField("key", key).Warnf("ignoring unparsable argument value %q", raw)
}
