// Package report draws the tally charts.
//
// A Renderer loads a tally table once and walks an ordered list of ChartSpecs. Each spec is
// composed on a single reusable Canvas, rendered to an image with go-chart, handed to a
// Presenter (which may block until the user dismisses the chart) and then the canvas is
// cleared for the next one.
package report

import (
	"strings"

	"github.com/friedmud/kinesis/src/tally"
)

// ChartSpec describes one chart: which column is plotted against the domain column and how
// the chart is labelled. File is the base name exporters use.
type ChartSpec struct {
	Column int    `toml:"column"`
	XLabel string `toml:"x_label"`
	YLabel string `toml:"y_label"`
	Title  string `toml:"title"`
	File   string `toml:"file"`
}

const domainLabel = "Domain Length (cm)"

// DefaultSpecs returns the pset1 chart sequence: collision rate, flux, mean, variance.
func DefaultSpecs() []ChartSpec {
	return []ChartSpec{
		{Column: tally.ColCollisionRate, XLabel: domainLabel, YLabel: "Collision Rate Average #/cm^2", Title: "Collision Rate", File: "collision_rate"},
		{Column: tally.ColFlux, XLabel: domainLabel, YLabel: "#/cm^2", Title: "Flux", File: "flux"},
		{Column: tally.ColMean, XLabel: domainLabel, YLabel: "Average #/cm", Title: "Mean", File: "mean"},
		{Column: tally.ColVariance, XLabel: domainLabel, YLabel: "Variance", Title: "Variance", File: "variance"},
	}
}

// FileBase returns spec.File or a name derived from the title.
func (s ChartSpec) FileBase() string {
	if f := strings.TrimSpace(s.File); f != "" {
		return f
	}
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s.Title)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "chart"
	}
	return b.String()
}

// requiredColumns is the narrowest table every spec can be drawn from.
func requiredColumns(specs []ChartSpec) int {
	n := tally.MinColumns
	for _, s := range specs {
		if s.Column+1 > n {
			n = s.Column + 1
		}
	}
	return n
}
