// Package tally loads the tallied simulation results written by the Monte Carlo run.
//
// A tally file is a plain delimited numeric matrix. Column 0 is the domain position (cm);
// the remaining columns are per-bin statistics: collision rate, flux, mean and variance.
package tally

import "fmt"

// Column indexes of the tally file layout.
const (
	ColDomain = iota
	ColCollisionRate
	ColFlux
	ColMean
	ColVariance

	// MinColumns is the narrowest file the default chart set can be drawn from.
	MinColumns = ColVariance + 1
)

// DefaultFile is the file the pset1 problem writes its tallies to.
const DefaultFile = "pset1_out_tallies_0001.csv"

// Table is a read-only numeric matrix, rows = samples, columns = variables.
type Table struct {
	path   string
	header []string
	rows   [][]float64
	cols   int
}

// NewTable builds a table from in-memory rows. All rows must have the same width.
func NewTable(rows [][]float64) (*Table, error) {
	t := &Table{}
	for i, r := range rows {
		if i == 0 {
			t.cols = len(r)
		} else if len(r) != t.cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(r), t.cols)
		}
		t.rows = append(t.rows, append([]float64(nil), r...))
	}
	return t, nil
}

// Path returns the file the table was loaded from ("" for in-memory tables).
func (t *Table) Path() string { return t.path }

// Header returns the skipped header row, if any.
func (t *Table) Header() []string { return t.header }

func (t *Table) Rows() int { return len(t.rows) }
func (t *Table) Cols() int { return t.cols }

// Row returns a copy of row i.
func (t *Table) Row(i int) []float64 {
	return append([]float64(nil), t.rows[i]...)
}

func (t *Table) Value(i, j int) float64 { return t.rows[i][j] }

// Column returns a copy of column j.
func (t *Table) Column(j int) ([]float64, error) {
	if j < 0 || j >= t.cols {
		return nil, fmt.Errorf("column %d out of range [0,%d)", j, t.cols)
	}
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out, nil
}
