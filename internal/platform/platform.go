// Package platform runs the player build that sits between the pre- and
// post-build phases of a pipeline.
package platform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bgricker/buildpipe/internal/params"
	"github.com/bgricker/buildpipe/internal/runner"
)

// Builder produces the platform artifact for the resolved parameters.
type Builder interface {
	Build(ctx context.Context, p *params.Parameters) (params.BuildReport, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context, p *params.Parameters) (params.BuildReport, error)

func (f BuilderFunc) Build(ctx context.Context, p *params.Parameters) (params.BuildReport, error) {
	return f(ctx, p)
}

// ShellBuilder runs an external build command with the parameters exported
// as BUILDPIPE_* environment variables.
type ShellBuilder struct {
	Command string
	Shell   string
	Runner  *runner.Runner
	Now     func() time.Time
}

// Build runs the configured command. A non-zero exit is a failed report, not an error.
func (b *ShellBuilder) Build(ctx context.Context, p *params.Parameters) (params.BuildReport, error) {
	if strings.TrimSpace(b.Command) == "" {
		return params.BuildReport{}, fmt.Errorf("no build command configured")
	}
	now := b.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	result, err := b.Runner.Run(ctx, runner.Script{
		Run:   b.Command,
		Shell: b.Shell,
		Env:   Environment(p),
	})
	elapsed := now().Sub(start)

	report := params.BuildReport{
		Success:    err == nil,
		Output:     strings.TrimSpace(result.Stdout + "\n" + result.Stderr),
		Duration:   elapsed,
		DurationMS: elapsed.Milliseconds(),
	}
	if err != nil {
		report.Summary = err.Error()
	} else {
		report.Summary = fmt.Sprintf("built %s", p.OutputPath)
	}
	return report, nil
}

// Environment exports p for external tools.
func Environment(p *params.Parameters) map[string]string {
	return map[string]string{
		"BUILDPIPE_TARGET":            p.Target,
		"BUILDPIPE_TARGET_GROUP":      p.TargetGroup,
		"BUILDPIPE_SUB_TARGET":        p.SubTarget,
		"BUILDPIPE_PRODUCT_NAME":      p.ProductName,
		"BUILDPIPE_COMPANY_NAME":      p.CompanyName,
		"BUILDPIPE_BUNDLE_ID":         p.BundleID,
		"BUILDPIPE_BUNDLE_VERSION":    p.BundleVersion,
		"BUILDPIPE_BUILD_NUMBER":      strconv.Itoa(p.BuildNumber),
		"BUILDPIPE_OUTPUT_FOLDER":     p.OutputFolder,
		"BUILDPIPE_OUTPUT_FILE":       p.OutputFile,
		"BUILDPIPE_OUTPUT_PATH":       p.OutputPath,
		"BUILDPIPE_SCRIPTING_BACKEND": string(p.ScriptingBackend),
		"BUILDPIPE_DEVELOPMENT":       strconv.FormatBool(p.Development),
		"BUILDPIPE_PROFILER":          strconv.FormatBool(p.Profiler),
		"BUILDPIPE_DEBUG":             strconv.FormatBool(p.Debug),
		"BUILDPIPE_ENVIRONMENT":       p.Environment,
		"BUILDPIPE_GIT_BRANCH":        p.GitBranch,
		"BUILDPIPE_DEFINES":           strings.Join(p.Defines, ";"),
	}
}
