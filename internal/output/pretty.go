package output

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bgricker/buildpipe/internal/asset"
	"github.com/bgricker/buildpipe/internal/params"
	"github.com/bgricker/buildpipe/internal/report"
)

// PrettyRenderer renders results in a human-friendly format.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderList renders pipelines with their step trees. The selected pipeline
// is marked with an asterisk.
func (p *PrettyRenderer) RenderList(pipelines []Pipeline, warnings []asset.Warning) error {
	var buf bytes.Buffer
	for _, pl := range pipelines {
		marker := " "
		if pl.Selected {
			marker = "*"
		}
		fmt.Fprintf(&buf, "%s Pipeline %s [%s]\n", marker, decorateName(pl.Name, pl.Source), target(pl))
		writeSteps(&buf, "pre-build", pl.PreBuild)
		if pl.PlayerBuild {
			fmt.Fprintf(&buf, "    player build\n")
		}
		writeSteps(&buf, "post-build", pl.PostBuild)
	}
	for _, w := range warnings {
		fmt.Fprintf(&buf, "warning: %s: %s\n", w.Path, w.Message)
	}
	_, err := buf.WriteTo(p.out)
	return err
}

func target(pl Pipeline) string {
	t := pl.Target + "/" + pl.TargetGroup
	if pl.SubTarget != "" {
		t += "/" + pl.SubTarget
	}
	if len(pl.Environments) > 0 {
		t += " env=" + strings.Join(pl.Environments, ",")
	}
	return t
}

func writeSteps(buf *bytes.Buffer, phase string, steps []Step) {
	if len(steps) == 0 {
		return
	}
	fmt.Fprintf(buf, "    %s\n", phase)
	writeStepTree(buf, steps, "      ")
}

func writeStepTree(buf *bytes.Buffer, steps []Step, pad string) {
	for _, s := range steps {
		suffix := ""
		if !s.Active {
			suffix = " (inactive)"
		}
		if s.Group {
			fmt.Fprintf(buf, "%s▸ %s%s\n", pad, s.Name, suffix)
			writeStepTree(buf, s.Steps, pad+"  ")
			continue
		}
		fmt.Fprintf(buf, "%s• %s%s\n", pad, s.Name, suffix)
	}
}

// RenderParameters prints one field per line.
func (p *PrettyRenderer) RenderParameters(pipeline string, values *params.Parameters) error {
	if pipeline != "" {
		if _, err := fmt.Fprintf(p.out, "Pipeline %s\n", pipeline); err != nil {
			return err
		}
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"target", values.Target},
		{"target group", values.TargetGroup},
		{"sub target", values.SubTarget},
		{"product name", values.ProductName},
		{"company name", values.CompanyName},
		{"bundle id", values.BundleID},
		{"bundle version", values.BundleVersion},
		{"build number", strconv.Itoa(values.BuildNumber)},
		{"scripting backend", string(values.ScriptingBackend)},
		{"output path", values.OutputPath},
		{"development", strconv.FormatBool(values.Development)},
		{"profiler", strconv.FormatBool(values.Profiler)},
		{"debug", strconv.FormatBool(values.Debug)},
		{"environment", values.Environment},
		{"git branch", values.GitBranch},
		{"defines", strings.Join(values.Defines, ";")},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "  %s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

// RenderRun shows execution outcomes for steps with a summary.
func (p *PrettyRenderer) RenderRun(state *report.ExecutionState) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Pipeline %s\n", state.Pipeline)

	var phase report.Phase
	for _, step := range state.Steps {
		if step.Phase != phase {
			phase = step.Phase
			fmt.Fprintf(&buf, "  %s\n", phase)
		}
		fmt.Fprintf(&buf, "    %s %s (%s)\n", statusGlyph(step.Success), step.Name, formatDuration(step.Duration))
		if !step.Success && step.Error != "" {
			fmt.Fprintf(&buf, "      error:\n%s\n", indent(step.Error, "        "))
		}
	}
	if pb := state.PlayerBuild; pb != nil {
		fmt.Fprintf(&buf, "  player build %s %s\n", statusGlyph(pb.Success), pb.Summary)
	}

	summary := state.Summary()
	fmt.Fprintf(&buf, "SUMMARY: %d passed, %d failed (%s)\n", summary.Passed, summary.Failed, formatDuration(summary.Duration))
	fmt.Fprintf(&buf, "RESULT: %s\n", state.Status)
	if !state.Result.Success && state.Result.Message != "" {
		fmt.Fprintf(&buf, "  %s\n", state.Result.Message)
	}
	_, err := buf.WriteTo(p.out)
	return err
}

// RenderTypes lists registered command types and their fields.
func (p *PrettyRenderer) RenderTypes(types []CommandType) error {
	var buf bytes.Buffer
	for _, t := range types {
		fmt.Fprintf(&buf, "%s\n", t.Tag)
		if t.Description != "" {
			fmt.Fprintf(&buf, "  %s\n", t.Description)
		}
		for _, f := range t.Fields {
			req := ""
			if f.Required {
				req = ", required"
			}
			fmt.Fprintf(&buf, "    %s (%s%s) %s\n", f.Name, f.Kind, req, f.Usage)
		}
	}
	_, err := buf.WriteTo(p.out)
	return err
}

func decorateName(name, path string) string {
	if name == "" || name == path {
		return path
	}
	if path == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, path)
}

func statusGlyph(success bool) string {
	if success {
		return "✓"
	}
	return "✗"
}

func indent(s, pad string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Truncate(time.Millisecond).String()
}
