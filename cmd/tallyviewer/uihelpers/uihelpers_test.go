package uihelpers

import (
	"strings"
	"testing"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
		wantH int
	}{
		{100, 640, 360},
		{640, 640, 360},
		{960, 960, 540},
		{1920, 1920, 1080},
		{10000, 3840, 2160},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW || h != c.wantH {
			t.Fatalf("input %d => %dx%d want %dx%d", c.in, w, h, c.wantW, c.wantH)
		}
	}
}

func TestComputeWindowSize(t *testing.T) {
	w, h := ComputeWindowSize(960, 540)
	if w != 960 || h != 540+StatusBarHeight {
		t.Fatalf("window %vx%v", w, h)
	}
}

func TestWindowTitle(t *testing.T) {
	if got := WindowTitle("Flux", 2, 4); got != "Flux (2/4)" {
		t.Fatalf("title %q", got)
	}
	if got := WindowTitle("Flux", 1, 1); got != "Flux" {
		t.Fatalf("single chart title %q", got)
	}
}

func TestStatusText(t *testing.T) {
	mid := StatusText("pset1_out_tallies_0001.csv", 1, 4)
	if !strings.Contains(mid, "chart 1 of 4") || !strings.Contains(mid, "next chart") {
		t.Fatalf("status %q", mid)
	}
	last := StatusText("pset1_out_tallies_0001.csv", 4, 4)
	if !strings.Contains(last, "finish") {
		t.Fatalf("last status %q", last)
	}
}

func TestTruncatePath(t *testing.T) {
	short := "a/b.csv"
	if got := TruncatePath(short, 60); got != short {
		t.Fatalf("short path changed: %q", got)
	}
	long := "/very/long/directory/name/that/keeps/going/and/going/results/pset1_out_tallies_0001.csv"
	got := TruncatePath(long, 60)
	if !strings.HasSuffix(got, "pset1_out_tallies_0001.csv") {
		t.Fatalf("base name lost: %q", got)
	}
	if len(got) > 60 {
		t.Fatalf("truncated path too long (%d): %q", len(got), got)
	}
	if got := TruncatePath("/x/"+strings.Repeat("n", 70)+".csv", 60); !strings.HasPrefix(got, "...") {
		t.Fatalf("long base should be prefixed with ...: %q", got)
	}
}
