package tally

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTallyFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write tally file: %v", err)
	}
	return p
}

func TestLoad_WellFormedKeepsShape(t *testing.T) {
	cases := []struct {
		name       string
		content    string
		rows, cols int
	}{
		{"two rows", "0,1,10,2,0.5\n1,2,20,4,0.6\n", 2, 5},
		{"single row", "0.25,1e-3,2,3,4\n", 1, 5},
		{"wide", "0,1,2,3,4,5,6\n1,1,2,3,4,5,6\n2,1,2,3,4,5,6\n", 3, 7},
		{"spaces and blank lines", " 0 , 1, 10 ,2,0.5\n\n1,2,20,4,0.6\n", 2, 5},
		{"comment lines", "# bins\n0,1,10,2,0.5\n", 1, 5},
		{"crlf", "0,1,10,2,0.5\r\n1,2,20,4,0.6\r\n", 2, 5},
	}
	for _, c := range cases {
		p := writeTallyFile(t, c.content)
		tbl, err := Load(p, Options{MinColumns: MinColumns})
		if err != nil {
			t.Fatalf("%s: load: %v", c.name, err)
		}
		if tbl.Rows() != c.rows || tbl.Cols() != c.cols {
			t.Fatalf("%s: shape %dx%d want %dx%d", c.name, tbl.Rows(), tbl.Cols(), c.rows, c.cols)
		}
		if tbl.Path() != p {
			t.Fatalf("%s: path %q want %q", c.name, tbl.Path(), p)
		}
	}
}

func TestLoad_Values(t *testing.T) {
	p := writeTallyFile(t, "0,1,10,2,0.5\n1,2,20,4,0.6\n")
	tbl, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := [][]float64{{0, 1}, {1, 2}, {10, 20}, {2, 4}, {0.5, 0.6}}
	for j, w := range want {
		col, err := tbl.Column(j)
		if err != nil {
			t.Fatalf("column %d: %v", j, err)
		}
		if len(col) != len(w) || col[0] != w[0] || col[1] != w[1] {
			t.Fatalf("column %d = %v want %v", j, col, w)
		}
	}
	if tbl.Value(1, ColFlux) != 20 {
		t.Fatalf("value(1,flux) = %v", tbl.Value(1, ColFlux))
	}
	if _, err := tbl.Column(5); err == nil {
		t.Fatalf("expected out of range error for column 5")
	}
}

func TestLoad_Malformed(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		wantLine int
	}{
		{"non numeric token", "0,1,10,2,0.5\n0,1,abc,2,0.5\n", 2},
		{"ragged row", "0,1,10,2,0.5\n1,2,20,4\n", 2},
		{"too narrow", "0,1,2\n", 1},
		{"empty field", "0,1,,2,0.5\n", 1},
		{"empty file", "", 0},
		{"only comments", "# nothing\n", 0},
	}
	for _, c := range cases {
		p := writeTallyFile(t, c.content)
		tbl, err := Load(p, Options{MinColumns: MinColumns})
		if err == nil {
			t.Fatalf("%s: expected error, got table %dx%d", c.name, tbl.Rows(), tbl.Cols())
		}
		var dle *DataLoadError
		if !errors.As(err, &dle) {
			t.Fatalf("%s: error %T is not a DataLoadError: %v", c.name, err, err)
		}
		if dle.Path != p {
			t.Fatalf("%s: error path %q want %q", c.name, dle.Path, p)
		}
		if dle.Line != c.wantLine {
			t.Fatalf("%s: error line %d want %d (%v)", c.name, dle.Line, c.wantLine, err)
		}
		if !strings.Contains(err.Error(), p) {
			t.Fatalf("%s: diagnostic does not name the path: %v", c.name, err)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing.csv")
	_, err := Load(p, Options{})
	var dle *DataLoadError
	if !errors.As(err, &dle) {
		t.Fatalf("expected DataLoadError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestLoad_SkipHeader(t *testing.T) {
	content := "bin_centroids,collision_rate,flux_tally,mean,variance\n0.5,1,10,2,0.5\n1.5,2,20,4,0.6\n"
	p := writeTallyFile(t, content)
	if _, err := Load(p, Options{}); err == nil {
		t.Fatalf("header row must fail without SkipHeader")
	}
	tbl, err := Load(p, Options{SkipHeader: true, MinColumns: MinColumns})
	if err != nil {
		t.Fatalf("load with header: %v", err)
	}
	if tbl.Rows() != 2 {
		t.Fatalf("rows %d want 2", tbl.Rows())
	}
	if h := tbl.Header(); len(h) != 5 || h[2] != "flux_tally" {
		t.Fatalf("header %v", h)
	}
}

func TestParse_Delimiter(t *testing.T) {
	tbl, err := Parse(strings.NewReader("0;1;10;2;0.5\n"), Options{Comma: ';', MinColumns: MinColumns})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbl.Cols() != 5 {
		t.Fatalf("cols %d want 5", tbl.Cols())
	}
}

func TestParse_NonFiniteTokens(t *testing.T) {
	tbl, err := Parse(strings.NewReader("0,nan,inf,-Inf,0.5\n1,2,20,4,NaN\n"), Options{MinColumns: MinColumns})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !math.IsNaN(tbl.Value(0, 1)) || !math.IsInf(tbl.Value(0, 2), 1) || !math.IsInf(tbl.Value(0, 3), -1) || !math.IsNaN(tbl.Value(1, 4)) {
		t.Fatalf("non-finite tokens not kept: %v %v", tbl.Row(0), tbl.Row(1))
	}
}

func TestNewTable(t *testing.T) {
	tbl, err := NewTable([][]float64{{0, 1, 10, 2, 0.5}, {1, 2, 20, 4, 0.6}})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	row := tbl.Row(0)
	row[0] = 99
	if tbl.Value(0, 0) != 0 {
		t.Fatalf("Row must return a copy")
	}
	if _, err := NewTable([][]float64{{0, 1}, {1}}); err == nil {
		t.Fatalf("expected ragged error")
	}
}
