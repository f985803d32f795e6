// tallyviewer draws the Monte Carlo tally charts (collision rate, flux, mean, variance)
// against domain length, one window at a time.
//
// Interactive mode (default): each chart is shown in a window; closing it (or pressing
// q/Enter) moves to the next chart. Headless mode (--headless): charts are only written to
// the export targets given with --out, --pdf and --xlsx. Exports also work alongside the
// window.
//
// Exit status: 0 when every chart was shown (or the user quit), 1 on load or render
// failure, 2 on bad flags or configuration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"fyne.io/fyne/v2/app"

	"github.com/friedmud/kinesis/cmd/tallyviewer/uihelpers"
	"github.com/friedmud/kinesis/src/config"
	"github.com/friedmud/kinesis/src/logging"
	"github.com/friedmud/kinesis/src/report"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type options struct {
	cfg      *config.Config
	headless bool
	pngDir   string
	pdfPath  string
	xlsxPath string
	logFile  string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitUsage
	}
	cfg := opts.cfg
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return exitUsage
		}
		logging.SetOutput(f)
		defer func() {
			logging.SetOutput(os.Stderr)
			f.Close()
		}()
	}

	exports := report.Multi{}
	if opts.pngDir != "" {
		exports = append(exports, &report.PNGDir{Dir: opts.pngDir})
	}
	if opts.pdfPath != "" {
		exports = append(exports, &report.PDFReport{Path: opts.pdfPath})
	}
	if opts.xlsxPath != "" {
		exports = append(exports, &report.XLSXReport{Path: opts.xlsxPath})
	}

	r := &report.Renderer{
		Specs:       cfg.Charts,
		Canvas:      report.NewCanvas(cfg.Width, cfg.Height),
		LoadOptions: cfg.LoadOptions(),
		Caption:     cfg.Caption,
	}
	// The table is loaded before any window exists so a bad file never opens one.
	tbl, err := r.Load(cfg.File)
	if err != nil {
		logging.Errorf("%v", err)
		return exitFailed
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if opts.headless {
		r.Presenter = exports
		err = r.RunTable(ctx, tbl)
		return finish(r, exports, err)
	}

	if err := displayAvailable(); err != nil {
		logging.Errorf("%v", &report.RenderError{Title: cfg.Charts[0].Title, Err: err})
		return exitFailed
	}
	a := app.NewWithID("com.kinesis.tallyviewer")
	wp := newWindowPresenter(a, cfg.File, cfg.Width, cfg.Height, cancel)
	r.Presenter = append(report.Multi{wp}, exports...)

	done := make(chan error, 1)
	go func() {
		err := r.RunTable(ctx, tbl)
		done <- err
		wp.finish()
	}()
	wp.window.ShowAndRun()

	// The window can go away (OS quit) while a chart is still waiting.
	cancel()
	return finish(r, exports, <-done)
}

// finish closes the exporters and maps the run result to an exit status.
func finish(r *report.Renderer, exports report.Multi, runErr error) int {
	closeErr := exports.Close()
	switch {
	case errors.Is(runErr, context.Canceled):
		logging.Infof("stopped after %d of %d charts", r.Shown(), len(r.Specs))
	case runErr != nil:
		logging.Errorf("%v", runErr)
		return exitFailed
	default:
		logging.Infof("rendered %d charts", r.Shown())
	}
	if closeErr != nil {
		logging.Errorf("%v", closeErr)
		return exitFailed
	}
	return exitOK
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("tallyviewer", flag.ContinueOnError)
	file := fs.String("file", "", "Path to the tally CSV (default "+config.Default().File+")")
	cfgPath := fs.String("config", "", "Optional TOML config file")
	logLevel := fs.String("log-level", "info", "Log level (debug|info|warn|error)")
	logFile := fs.String("log-file", "", "Append log output to this file instead of stderr")
	width := fs.Int("width", 0, "Chart width in pixels")
	height := fs.Int("height", 0, "Chart height in pixels (derived from width when omitted)")
	skipHeader := fs.Bool("skip-header", false, "Treat the first row as column names")
	delimiter := fs.String("delimiter", "", "Field delimiter (default ,)")
	caption := fs.Bool("caption", false, "Stamp the source path on each chart")
	headless := fs.Bool("headless", false, "Do not open a window; only write exports")
	pngDir := fs.String("out", "", "Directory to write one PNG per chart")
	pdfPath := fs.String("pdf", "", "Write all charts to this PDF")
	xlsxPath := fs.String("xlsx", "", "Write all charts to this XLSX workbook")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !logging.SetLogLevel(*logLevel) {
		return nil, fmt.Errorf("unknown log level %q", *logLevel)
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	// flags given on the command line win over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.File = *file
		case "width":
			cfg.Width = *width
			if !isSet(fs, "height") {
				cfg.Width, cfg.Height = uihelpers.ComputeChartDimensions(*width)
			}
		case "height":
			cfg.Height = *height
		case "skip-header":
			cfg.SkipHeader = *skipHeader
		case "delimiter":
			cfg.Delimiter = *delimiter
		case "caption":
			cfg.Caption = *caption
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := &options{cfg: cfg, headless: *headless, pngDir: *pngDir, pdfPath: *pdfPath, xlsxPath: *xlsxPath, logFile: *logFile}
	if opts.headless && opts.pngDir == "" && opts.pdfPath == "" && opts.xlsxPath == "" {
		return nil, errors.New("--headless needs at least one of --out, --pdf, --xlsx")
	}
	return opts, nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// displayAvailable reports a missing graphical surface before fyne aborts on it.
func displayAvailable() error {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			return errors.New("no graphical display (DISPLAY and WAYLAND_DISPLAY unset); use --headless with --out, --pdf or --xlsx")
		}
	}
	return nil
}
