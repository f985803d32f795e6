package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/friedmud/kinesis/src/logging"
)

// PDFReport collects figures into a PDF, one landscape A4 page per chart. The file is
// written by Close.
type PDFReport struct {
	Path string

	pdf   *gofpdf.Fpdf
	pages int
}

func (r *PDFReport) Present(_ context.Context, fig Figure) error {
	b, err := encodePNG(fig.Image)
	if err != nil {
		return fmt.Errorf("pdf page %q: %w", fig.Spec.Title, err)
	}
	if r.pdf == nil {
		r.pdf = gofpdf.New("L", "mm", "A4", "")
		r.pdf.SetCreator("kinesis tallyviewer", true)
		r.pdf.SetTitle("Tally report", true)
	}
	pdf := r.pdf
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fig.Spec.Title, "", 1, "C", false, 0, "")

	name := fmt.Sprintf("chart-%d-%s", r.pages+1, fig.Spec.FileBase())
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(b))
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions(name, left, pdf.GetY()+2, pageW-left-right, 0, false, opt, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf page %q: %w", fig.Spec.Title, err)
	}
	r.pages++
	return nil
}

// Pages returns the number of charts added so far.
func (r *PDFReport) Pages() int { return r.pages }

func (r *PDFReport) Close() error {
	if r.pdf == nil {
		return nil
	}
	if err := r.pdf.OutputFileAndClose(r.Path); err != nil {
		return fmt.Errorf("write %s: %w", r.Path, err)
	}
	logging.Infof("wrote %s (%d pages)", r.Path, r.pages)
	r.pdf = nil
	return nil
}
