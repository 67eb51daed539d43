// Package output renders listings, resolved parameters and run results.
package output

import (
	"fmt"
	"io"

	"github.com/bgricker/buildpipe/internal/asset"
	"github.com/bgricker/buildpipe/internal/params"
	"github.com/bgricker/buildpipe/internal/report"
)

// Renderer is implemented by every output format.
type Renderer interface {
	RenderList(pipelines []Pipeline, warnings []asset.Warning) error
	RenderParameters(pipeline string, p *params.Parameters) error
	RenderRun(state *report.ExecutionState) error
	RenderTypes(types []CommandType) error
}

// New returns the renderer for format ("pretty" or "json").
func New(format string, out io.Writer) (Renderer, error) {
	switch format {
	case "", "pretty":
		return NewPretty(out), nil
	case "json":
		return NewJSON(out), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
