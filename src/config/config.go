// Package config holds the settings of the tally tools: where the tallies are, how they are
// delimited and which charts are drawn. Settings come from defaults, an optional TOML file
// and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"

	"github.com/friedmud/kinesis/src/report"
	"github.com/friedmud/kinesis/src/tally"
)

type Config struct {
	File       string             `toml:"file"`
	Delimiter  string             `toml:"delimiter"`
	SkipHeader bool               `toml:"skip_header"`
	Width      int                `toml:"width"`
	Height     int                `toml:"height"`
	Caption    bool               `toml:"caption"`
	Charts     []report.ChartSpec `toml:"chart"`
}

// Default mirrors the pset1 plot: comma-delimited, no header, four charts.
func Default() *Config {
	return &Config{
		File:      tally.DefaultFile,
		Delimiter: ",",
		Width:     report.DefaultWidth,
		Height:    report.DefaultHeight,
		Charts:    report.DefaultSpecs(),
	}
}

// Load reads a TOML file over the defaults. A [[chart]] list in the file replaces the
// default charts entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	cfg.Charts = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.Charts) == 0 {
		cfg.Charts = report.DefaultSpecs()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings a run depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.File == "" {
		errs = append(errs, errors.New("file is empty"))
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("delimiter %q must be a single character", c.Delimiter))
	} else if r, _ := utf8.DecodeRuneInString(c.Delimiter); r == '"' || r == '\r' || r == '\n' || r == '#' {
		errs = append(errs, fmt.Errorf("delimiter %q is not allowed", c.Delimiter))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("chart size %dx%d must be positive", c.Width, c.Height))
	}
	if len(c.Charts) == 0 {
		errs = append(errs, errors.New("no charts configured"))
	}
	for i, s := range c.Charts {
		if s.Column <= tally.ColDomain {
			errs = append(errs, fmt.Errorf("chart %d (%q): column %d must be > %d", i+1, s.Title, s.Column, tally.ColDomain))
		}
	}
	return errors.Join(errs...)
}

// Comma returns the delimiter as a rune.
func (c *Config) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// LoadOptions returns the tally load options for this config.
func (c *Config) LoadOptions() tally.Options {
	return tally.Options{Comma: c.Comma(), SkipHeader: c.SkipHeader}
}

// Marshal renders the config as TOML; tallyreader uses it to print a starting file.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
