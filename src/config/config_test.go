package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/friedmud/kinesis/src/tally"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tallies.toml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.File != tally.DefaultFile || cfg.Comma() != ',' || cfg.SkipHeader {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Charts) != 4 || cfg.Charts[0].Title != "Collision Rate" || cfg.Charts[3].Column != tally.ColVariance {
		t.Fatalf("unexpected default charts: %+v", cfg.Charts)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	p := writeConfig(t, `
file = "run2_out_tallies_0001.csv"
delimiter = ";"
skip_header = true
width = 1200

[[chart]]
column = 2
x_label = "x (cm)"
y_label = "flux"
title = "Flux only"
file = "flux_only"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.File != "run2_out_tallies_0001.csv" || cfg.Comma() != ';' || !cfg.SkipHeader {
		t.Fatalf("file settings not applied: %+v", cfg)
	}
	if cfg.Width != 1200 || cfg.Height == 0 {
		t.Fatalf("size %dx%d", cfg.Width, cfg.Height)
	}
	if len(cfg.Charts) != 1 || cfg.Charts[0].Title != "Flux only" || cfg.Charts[0].Column != 2 || cfg.Charts[0].File != "flux_only" {
		t.Fatalf("charts %+v", cfg.Charts)
	}
	opts := cfg.LoadOptions()
	if opts.Comma != ';' || !opts.SkipHeader {
		t.Fatalf("load options %+v", opts)
	}
}

func TestLoad_KeepsDefaultChartsWhenUnset(t *testing.T) {
	cfg, err := Load(writeConfig(t, "caption = true\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Caption || len(cfg.Charts) != 4 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name, content, want string
	}{
		{"bad toml", "file = ", "parse config"},
		{"long delimiter", "delimiter = \"::\"", "single character"},
		{"quote delimiter", "delimiter = '\"'", "not allowed"},
		{"domain column", "[[chart]]\ncolumn = 0\ntitle = \"x\"\n", "must be > 0"},
		{"zero height", "height = -1", "must be positive"},
	}
	for _, c := range cases {
		_, err := Load(writeConfig(t, c.content))
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: error %q does not mention %q", c.name, err, c.want)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	b, err := Default().Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	p := writeConfig(t, string(b))
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("reload marshalled config: %v\n%s", err, b)
	}
	if len(cfg.Charts) != 4 || cfg.Charts[1].YLabel != "#/cm^2" {
		t.Fatalf("charts lost in round trip: %+v", cfg.Charts)
	}
}
