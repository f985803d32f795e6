// tallyreader prints the shape and per-column range of a tally file without opening any
// window. With --print-config it prints the effective configuration as TOML instead.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/friedmud/kinesis/src/config"
	"github.com/friedmud/kinesis/src/logging"
	"github.com/friedmud/kinesis/src/report"
	"github.com/friedmud/kinesis/src/tally"
)

func main() {
	var file, cfgPath, delimiter string
	var skipHeader, printConfig bool
	flag.StringVar(&file, "file", "", "Path to the tally CSV (default "+tally.DefaultFile+")")
	flag.StringVar(&cfgPath, "config", "", "Optional TOML config file")
	flag.StringVar(&delimiter, "delimiter", "", "Field delimiter (default ,)")
	flag.BoolVar(&skipHeader, "skip-header", false, "Treat the first row as column names")
	flag.BoolVar(&printConfig, "print-config", false, "Print the effective config as TOML and exit")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		c, err := config.Load(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		cfg = c
	}
	if file != "" {
		cfg.File = file
	}
	if delimiter != "" {
		cfg.Delimiter = delimiter
	}
	if skipHeader {
		cfg.SkipHeader = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if printConfig {
		b, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(b)
		return
	}

	logging.SetLogLevel("warn")
	tbl, err := tally.Load(cfg.File, cfg.LoadOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	styled := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	printSummary(os.Stdout, tbl, cfg.Charts, styled)
}

type columnSummary struct {
	name      string
	min, max  float64
	nonFinite int
}

func summarize(tbl *tally.Table, specs []report.ChartSpec) []columnSummary {
	names := map[int]string{tally.ColDomain: "domain"}
	for _, s := range specs {
		names[s.Column] = s.Title
	}
	header := tbl.Header()
	out := make([]columnSummary, tbl.Cols())
	for j := range out {
		col, _ := tbl.Column(j)
		cs := columnSummary{name: fmt.Sprintf("col %d", j), min: math.NaN(), max: math.NaN()}
		if j < len(header) && header[j] != "" {
			cs.name = header[j]
		} else if n, ok := names[j]; ok {
			cs.name = n
		}
		for _, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				cs.nonFinite++
				continue
			}
			if math.IsNaN(cs.min) || v < cs.min {
				cs.min = v
			}
			if math.IsNaN(cs.max) || v > cs.max {
				cs.max = v
			}
		}
		out[j] = cs
	}
	return out
}

func printSummary(w io.Writer, tbl *tally.Table, specs []report.ChartSpec, styled bool) {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	key := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	fmt.Fprintln(w, render(title, tbl.Path()))
	fmt.Fprintf(w, "%s %d\n", render(key, "rows:"), tbl.Rows())
	fmt.Fprintf(w, "%s %d\n", render(key, "columns:"), tbl.Cols())
	sums := summarize(tbl, specs)
	width := 0
	for _, s := range sums {
		if len(s.name) > width {
			width = len(s.name)
		}
	}
	for j, s := range sums {
		line := fmt.Sprintf("%2d  %-*s  min=%-12g max=%-12g", j, width, s.name, s.min, s.max)
		if s.nonFinite > 0 {
			line += fmt.Sprintf(" non-finite=%d", s.nonFinite)
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
