package report

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/friedmud/kinesis/src/logging"
)

// XLSXReport writes each figure to its own worksheet: the plotted x/y columns plus a native
// line chart carrying the same title and axis titles. The workbook is saved by Close.
type XLSXReport struct {
	Path string

	f      *excelize.File
	sheets []string
}

const maxSheetName = 31

func (r *XLSXReport) Present(_ context.Context, fig Figure) error {
	if r.f == nil {
		r.f = excelize.NewFile()
	}
	sheet := r.sheetName(fig.Spec.Title)
	if len(r.sheets) == 0 {
		if err := r.f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("xlsx sheet %q: %w", sheet, err)
		}
	} else if _, err := r.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx sheet %q: %w", sheet, err)
	}
	r.sheets = append(r.sheets, sheet)

	if err := r.f.SetSheetRow(sheet, "A1", &[]interface{}{fig.Spec.XLabel, fig.Spec.YLabel}); err != nil {
		return fmt.Errorf("xlsx header %q: %w", sheet, err)
	}
	for i := range fig.X {
		cell := fmt.Sprintf("A%d", i+2)
		if err := r.f.SetSheetRow(sheet, cell, &[]interface{}{cellValue(fig.X[i]), cellValue(fig.Y[i])}); err != nil {
			return fmt.Errorf("xlsx row %s!%s: %w", sheet, cell, err)
		}
	}
	_ = r.f.SetColWidth(sheet, "A", "B", 24)

	n := len(fig.X) + 1
	ref := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	err := r.f.AddChart(sheet, "D2", &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, n),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", ref, n),
		}},
		Title:     []excelize.RichTextRun{{Text: fig.Spec.Title}},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: fig.Spec.XLabel}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: fig.Spec.YLabel}}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	})
	if err != nil {
		return fmt.Errorf("xlsx chart %q: %w", sheet, err)
	}
	return nil
}

// Sheets returns the worksheet names in presentation order.
func (r *XLSXReport) Sheets() []string { return r.sheets }

func (r *XLSXReport) Close() error {
	if r.f == nil {
		return nil
	}
	defer func() { r.f = nil }()
	_ = r.f.SetDocProps(&excelize.DocProperties{
		Creator:     "kinesis tallyviewer",
		Title:       "Tally report",
		Description: "Monte Carlo tally charts",
	})
	if err := r.f.SaveAs(r.Path); err != nil {
		_ = r.f.Close()
		return fmt.Errorf("write %s: %w", r.Path, err)
	}
	logging.Infof("wrote %s (%d sheets)", r.Path, len(r.sheets))
	return r.f.Close()
}

// sheetName makes a unique worksheet name Excel will accept.
func (r *XLSXReport) sheetName(title string) string {
	base := strings.Map(func(c rune) rune {
		switch c {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return c
	}, strings.TrimSpace(title))
	// Excel rejects names that start or end with an apostrophe.
	base = strings.Trim(base, "'")
	if base == "" {
		base = "Chart"
	}
	base = truncateRunes(base, maxSheetName)
	name := base
	for i := 2; r.hasSheet(name); i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}
	return name
}

// truncateRunes cuts s to at most n runes; the sheet name limit counts characters.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func (r *XLSXReport) hasSheet(name string) bool {
	for _, s := range r.sheets {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// cellValue leaves non-finite values blank; they have no spreadsheet encoding.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
