package tally

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/friedmud/kinesis/src/logging"
)

// ErrEmpty is returned (wrapped in a DataLoadError) when a file holds no data rows.
var ErrEmpty = errors.New("no data rows")

// DataLoadError reports a tally file that is missing, unreadable or malformed.
// Line is 1-based and zero when the failure is not tied to a row.
type DataLoadError struct {
	Path string
	Line int
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Options control how a tally file is parsed.
type Options struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// MinColumns rejects files narrower than this; zero disables the check.
	MinColumns int
	// SkipHeader treats the first record as column names.
	SkipHeader bool
}

// Load parses a delimited numeric file. Any malformed row aborts the whole load.
func Load(path string, opts Options) (*Table, error) {
	defer logging.TimeTrack(time.Now(), "tally load "+path)
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()
	t, err := Parse(f, opts)
	if err != nil {
		var dle *DataLoadError
		if errors.As(err, &dle) {
			dle.Path = path
		}
		return nil, err
	}
	t.path = path
	logging.Debugf("loaded %s: rows=%d cols=%d", path, t.Rows(), t.Cols())
	return t, nil
}

// Parse reads a tally table from r. Errors carry an empty Path.
func Parse(r io.Reader, opts Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ','
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	// widths are checked below so the error names the row
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	t := &Table{}
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &DataLoadError{Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if opts.SkipHeader {
				for _, h := range rec {
					t.header = append(t.header, strings.TrimSpace(h))
				}
				continue
			}
		}
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, &DataLoadError{Line: line, Err: fmt.Errorf("column %d: %q is not a number", j, field)}
			}
			row[j] = v
		}
		if len(t.rows) == 0 {
			t.cols = len(row)
			if opts.MinColumns > 0 && t.cols < opts.MinColumns {
				return nil, &DataLoadError{Line: line, Err: fmt.Errorf("%d columns, need at least %d", t.cols, opts.MinColumns)}
			}
		} else if len(row) != t.cols {
			return nil, &DataLoadError{Line: line, Err: fmt.Errorf("ragged row: %d columns, want %d", len(row), t.cols)}
		}
		t.rows = append(t.rows, row)
	}
	if len(t.rows) == 0 {
		return nil, &DataLoadError{Err: ErrEmpty}
	}
	return t, nil
}
