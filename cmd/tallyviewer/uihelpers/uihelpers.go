package uihelpers

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ComputeChartDimensions applies the width/height clamp rules used for charts.
// Input: desired raw width. Returns clamped width and a 16:9 height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	if w > 3840 {
		w = 3840
	}
	h := w * 9 / 16
	if h < 360 {
		h = 360
	}
	return w, h
}

// StatusBarHeight is the space reserved under the chart for the status line.
const StatusBarHeight = 36

// ComputeWindowSize returns the initial window size for a chart of chartW x chartH.
func ComputeWindowSize(chartW, chartH int) (float32, float32) {
	return float32(chartW), float32(chartH + StatusBarHeight)
}

// WindowTitle is shown in the title bar while a chart is on screen.
func WindowTitle(title string, seq, total int) string {
	if total <= 1 {
		return title
	}
	return fmt.Sprintf("%s (%d/%d)", title, seq, total)
}

// StatusText describes how to move on from the current chart.
func StatusText(source string, seq, total int) string {
	action := "next chart"
	if seq >= total {
		action = "finish"
	}
	return fmt.Sprintf("%s  ·  chart %d of %d  ·  close window or press q/Enter for %s", TruncatePath(source, 60), seq, total, action)
}

// TruncatePath shortens p to about n characters, always keeping the base name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return strings.TrimRight(dir, "/") + "/..." + base
}
