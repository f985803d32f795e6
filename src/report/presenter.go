package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/friedmud/kinesis/src/logging"
)

// Figure is a composed chart ready to be shown or stored.
type Figure struct {
	Seq   int // 1-based position in the run
	Total int
	Spec  ChartSpec
	X, Y  []float64
	Image image.Image
}

// Presenter shows or stores a Figure. Interactive presenters block until the user has
// dismissed the chart.
type Presenter interface {
	Present(ctx context.Context, fig Figure) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, fig Figure) error

func (f PresenterFunc) Present(ctx context.Context, fig Figure) error { return f(ctx, fig) }

// Multi presents each figure to every presenter in order.
type Multi []Presenter

func (m Multi) Present(ctx context.Context, fig Figure) error {
	for _, p := range m {
		if err := p.Present(ctx, fig); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every presenter that holds a resource, returning the joined errors.
func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every presented figure.
type Recorder struct {
	Figures []Figure
}

func (r *Recorder) Present(_ context.Context, fig Figure) error {
	r.Figures = append(r.Figures, fig)
	return nil
}

// PNGDir writes each figure to Dir/<file base>.png. A base already written by this
// presenter gets a numeric suffix (flux.png, flux_2.png) so no chart overwrites another.
type PNGDir struct {
	Dir string

	used map[string]int
}

func (p *PNGDir) Present(_ context.Context, fig Figure) error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	b, err := encodePNG(fig.Image)
	if err != nil {
		return fmt.Errorf("png encode %s: %w", fig.Spec.Title, err)
	}
	out := filepath.Join(p.Dir, p.fileName(fig.Spec.FileBase()))
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logging.Infof("wrote %s", out)
	return nil
}

func (p *PNGDir) fileName(base string) string {
	if p.used == nil {
		p.used = map[string]int{}
	}
	p.used[base]++
	if n := p.used[base]; n > 1 {
		return fmt.Sprintf("%s_%d.png", base, n)
	}
	return base + ".png"
}

func encodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("no image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
