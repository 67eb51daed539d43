package output

import (
	"encoding/json"
	"io"

	"github.com/bgricker/buildpipe/internal/asset"
	"github.com/bgricker/buildpipe/internal/params"
	"github.com/bgricker/buildpipe/internal/report"
)

// JSONRenderer emits structured data.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// ListReport is the JSON schema of a pipeline listing.
type ListReport struct {
	Pipelines []Pipeline      `json:"pipelines"`
	Warnings  []asset.Warning `json:"warnings,omitempty"`
}

// ParametersReport is the JSON schema of a resolution.
type ParametersReport struct {
	Pipeline   string             `json:"pipeline,omitempty"`
	Parameters *params.Parameters `json:"parameters"`
}

// RunReport is the JSON schema of a run.
type RunReport struct {
	Run     *report.ExecutionState `json:"run"`
	Summary report.Summary         `json:"summary"`
}

// TypesReport is the JSON schema of the command type listing.
type TypesReport struct {
	Types []CommandType `json:"types"`
}

func (j *JSONRenderer) RenderList(pipelines []Pipeline, warnings []asset.Warning) error {
	return j.encode(ListReport{Pipelines: pipelines, Warnings: warnings})
}

func (j *JSONRenderer) RenderParameters(pipeline string, p *params.Parameters) error {
	return j.encode(ParametersReport{Pipeline: pipeline, Parameters: p})
}

func (j *JSONRenderer) RenderRun(state *report.ExecutionState) error {
	return j.encode(RunReport{Run: state, Summary: state.Summary()})
}

func (j *JSONRenderer) RenderTypes(types []CommandType) error {
	return j.encode(TypesReport{Types: types})
}

func (j *JSONRenderer) encode(v interface{}) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
