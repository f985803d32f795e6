package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/friedmud/kinesis/src/logging"
	"github.com/friedmud/kinesis/src/tally"
)

// RenderError reports a chart that could not be composed, rendered or presented.
type RenderError struct {
	Title string
	Err   error
}

func (e *RenderError) Error() string { return fmt.Sprintf("render %q: %v", e.Title, e.Err) }
func (e *RenderError) Unwrap() error { return e.Err }

// Renderer draws a sequence of charts from one tally table.
type Renderer struct {
	Specs     []ChartSpec
	Canvas    *Canvas
	Presenter Presenter
	// LoadOptions are passed to tally.Load; MinColumns is raised to what Specs need.
	LoadOptions tally.Options
	// Caption stamps the source path on each chart.
	Caption bool

	seq int
}

// New returns a renderer for the default chart sequence on a default-sized canvas.
func New(p Presenter) *Renderer {
	return &Renderer{Specs: DefaultSpecs(), Canvas: NewCanvas(0, 0), Presenter: p}
}

// Run loads the table at path once and renders every spec in order. It stops at the first
// error; a load error means no chart was presented.
func (r *Renderer) Run(ctx context.Context, path string) error {
	tbl, err := r.Load(path)
	if err != nil {
		return err
	}
	return r.RunTable(ctx, tbl)
}

// Load reads path with LoadOptions, requiring every column the specs plot.
func (r *Renderer) Load(path string) (*tally.Table, error) {
	opts := r.LoadOptions
	if need := requiredColumns(r.Specs); opts.MinColumns < need {
		opts.MinColumns = need
	}
	tbl, err := tally.Load(path, opts)
	if err != nil {
		return nil, err
	}
	logging.Infof("loaded %s: %d rows, %d columns", path, tbl.Rows(), tbl.Cols())
	return tbl, nil
}

// RunTable renders every spec in order from an already loaded table.
func (r *Renderer) RunTable(ctx context.Context, tbl *tally.Table) error {
	r.seq = 0
	for _, spec := range r.Specs {
		if err := r.Render(ctx, tbl, spec); err != nil {
			return err
		}
	}
	return nil
}

// Render plots column 0 against spec.Column, presents the chart and clears the canvas.
// The canvas is cleared even when presenting fails.
func (r *Renderer) Render(ctx context.Context, tbl *tally.Table, spec ChartSpec) error {
	defer r.Canvas.Clear()
	if err := ctx.Err(); err != nil {
		return err
	}
	defer logging.TimeTrack(time.Now(), "render "+spec.Title)

	xs, err := tbl.Column(tally.ColDomain)
	if err != nil {
		return &RenderError{Title: spec.Title, Err: err}
	}
	if spec.Column == tally.ColDomain {
		return &RenderError{Title: spec.Title, Err: errors.New("domain column cannot be plotted against itself")}
	}
	ys, err := tbl.Column(spec.Column)
	if err != nil {
		return &RenderError{Title: spec.Title, Err: err}
	}
	if err := r.Canvas.Plot(xs, ys, ""); err != nil {
		return &RenderError{Title: spec.Title, Err: err}
	}
	r.Canvas.SetXLabel(spec.XLabel)
	r.Canvas.SetYLabel(spec.YLabel)
	r.Canvas.SetTitle(spec.Title)
	if r.Caption && tbl.Path() != "" {
		r.Canvas.SetCaption("source: " + tbl.Path())
	}
	img, err := r.Canvas.Image()
	if err != nil {
		return &RenderError{Title: spec.Title, Err: err}
	}

	r.seq++
	total := len(r.Specs)
	if r.seq > total {
		total = r.seq
	}
	fig := Figure{Seq: r.seq, Total: total, Spec: spec, X: xs, Y: ys, Image: img}
	logging.Debugf("presenting %q (%d/%d)", spec.Title, fig.Seq, fig.Total)
	if err := r.Presenter.Present(ctx, fig); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &RenderError{Title: spec.Title, Err: err}
	}
	return nil
}

// Shown reports how many charts have been presented by the current run.
func (r *Renderer) Shown() int { return r.seq }
