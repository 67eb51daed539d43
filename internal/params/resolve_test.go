package params

import (
	"path/filepath"
	"testing"

	"github.com/bgricker/buildpipe/internal/argument"
	"github.com/bgricker/buildpipe/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() ProjectDefaults {
	return ProjectDefaults{
		Target:           "StandaloneWindows64",
		TargetGroup:      "Standalone",
		ProductName:      "Game",
		CompanyName:      "Studio",
		BundleID:         "com.default.app",
		BundleVersion:    "1.0.0",
		ScriptingBackend: BackendMono,
		OutputFolder:     "Builds",
	}
}

func newResolver() *Resolver {
	return NewResolver(testDefaults(), logging.Discard())
}

func androidData() *BuildData {
	return &BuildData{
		Version:          1,
		Target:           "Android",
		TargetGroup:      "Android",
		OverrideBundleID: true,
		BundleID:         "com.custom.app",
	}
}

func TestResolveDefaultsOnly(t *testing.T) {
	p, err := newResolver().Resolve(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "StandaloneWindows64", p.Target)
	assert.Equal(t, "com.default.app", p.BundleID)
	assert.Equal(t, "Game.exe", p.OutputFile)
	assert.Equal(t, filepath.Join("Builds", "Game.exe"), p.OutputPath)
}

func TestResolvePrecedence(t *testing.T) {
	data := androidData()

	p, err := newResolver().Resolve(data, argument.NewStore())
	require.NoError(t, err)
	assert.Equal(t, "com.custom.app", p.BundleID, "configuration override beats default")

	args, err := argument.Parse([]string{"-bundleId", "com.cli.app"})
	require.NoError(t, err)
	p, err = newResolver().Resolve(data, args)
	require.NoError(t, err)
	assert.Equal(t, "com.cli.app", p.BundleID, "cli argument beats configuration")

	data.Arguments = ArgumentsMap{
		Enabled: true,
		Entries: []ArgumentEntry{{Key: argument.KeyBundleID, Value: "com.forced.app", Override: true}},
	}
	args, err = argument.Parse([]string{"-bundleId", "com.cli.app"})
	require.NoError(t, err)
	p, err = newResolver().Resolve(data, args)
	require.NoError(t, err)
	assert.Equal(t, "com.forced.app", p.BundleID, "override entry beats cli argument")

	forced, _ := args.String(argument.KeyBundleID)
	assert.Equal(t, "com.forced.app", forced, "override entry is written to the provider")
}

func TestResolveOverrideEntriesIgnoredWhenMapDisabled(t *testing.T) {
	data := androidData()
	data.Arguments = ArgumentsMap{
		Enabled: false,
		Entries: []ArgumentEntry{{Key: argument.KeyBundleID, Value: "com.forced.app", Override: true}},
	}
	args, err := argument.Parse([]string{"-bundleId", "com.cli.app"})
	require.NoError(t, err)

	p, err := newResolver().Resolve(data, args)
	require.NoError(t, err)
	assert.Equal(t, "com.cli.app", p.BundleID)
}

func TestResolveGapFillDoesNotClobber(t *testing.T) {
	data := androidData()
	data.Arguments = ArgumentsMap{
		Enabled: true,
		Entries: []ArgumentEntry{
			{Key: argument.KeyOutputFolder, Value: "MapFolder"},
			{Key: argument.KeyBuildNumber, Value: "12"},
			{Key: "custom", Value: "x"},
		},
	}
	args, err := argument.Parse([]string{"-outputFolder", "CliFolder"})
	require.NoError(t, err)

	p, err := newResolver().Resolve(data, args)
	require.NoError(t, err)

	assert.Equal(t, "CliFolder", p.OutputFolder)
	assert.Equal(t, 12, p.BuildNumber)
	custom, ok := args.String("custom")
	assert.True(t, ok)
	assert.Equal(t, "x", custom)
}

func TestResolveGapFillBeatsConfiguration(t *testing.T) {
	data := androidData()
	data.Arguments = ArgumentsMap{
		Enabled: true,
		Entries: []ArgumentEntry{{Key: argument.KeyBundleID, Value: "com.map.app"}},
	}

	p, err := newResolver().Resolve(data, argument.NewStore())
	require.NoError(t, err)
	assert.Equal(t, "com.map.app", p.BundleID)
}

func TestResolveIsDeterministic(t *testing.T) {
	data := androidData()
	data.Arguments = ArgumentsMap{
		Enabled: true,
		Entries: []ArgumentEntry{
			{Key: argument.KeyBuildNumber, Value: "3"},
			{Key: argument.KeyDevelopment, Value: "true", Override: true},
		},
	}
	tokens := []string{"-buildTarget", "Android", "-outputFile", "game.apk"}

	args1, err := argument.Parse(tokens)
	require.NoError(t, err)
	args2, err := argument.Parse(tokens)
	require.NoError(t, err)

	p1, err := newResolver().Resolve(data, args1)
	require.NoError(t, err)
	p2, err := newResolver().Resolve(data, args2)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	again, err := newResolver().Resolve(data, args1)
	require.NoError(t, err)
	assert.Equal(t, p1, again, "resolving twice against the same provider is stable")
}

func TestResolveTypedArguments(t *testing.T) {
	args, err := argument.Parse([]string{
		"-buildNumber", "99",
		"-scriptingImplementation", "il2cpp",
		"-development",
		"-connectProfiler", "false",
		"-buildEnvironment", "staging",
	})
	require.NoError(t, err)

	p, err := newResolver().Resolve(nil, args)
	require.NoError(t, err)
	assert.Equal(t, 99, p.BuildNumber)
	assert.Equal(t, BackendIL2CPP, p.ScriptingBackend)
	assert.True(t, p.Development)
	assert.False(t, p.Profiler)
	assert.Equal(t, "staging", p.Environment)
}

func TestResolveIgnoresUnparsableValues(t *testing.T) {
	args, err := argument.Parse([]string{"-buildNumber", "abc", "-scriptingImplementation", "dotnet"})
	require.NoError(t, err)

	p, err := newResolver().Resolve(nil, args)
	require.NoError(t, err)
	assert.Equal(t, 0, p.BuildNumber)
	assert.Equal(t, BackendMono, p.ScriptingBackend)
}

func TestResolveRejectsNewerDataVersion(t *testing.T) {
	_, err := newResolver().Resolve(&BuildData{Version: DataVersion + 1}, nil)
	assert.Error(t, err)
}

func TestResolveConfigurationFlags(t *testing.T) {
	data := androidData()
	data.Development = true
	data.ScriptingBackend = BackendIL2CPP
	data.OverrideProductName = true
	data.ProductName = "Mobile"

	p, err := newResolver().Resolve(data, nil)
	require.NoError(t, err)
	assert.True(t, p.Development)
	assert.Equal(t, BackendIL2CPP, p.ScriptingBackend)
	assert.Equal(t, "Mobile.apk", p.OutputFile)
	assert.Equal(t, "Studio", p.CompanyName, "company is kept without override flag")
}

func TestParametersClone(t *testing.T) {
	p := &Parameters{Defines: []string{"A"}, BuildReport: &BuildReport{Success: true}}
	c := p.Clone()
	c.Defines[0] = "B"
	c.BuildReport.Success = false

	assert.Equal(t, "A", p.Defines[0])
	assert.True(t, p.BuildReport.Success)
}
