package report

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default chart size, in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 540
)

// lineColor matches the first color of the usual scientific plotting palette.
var lineColor = drawing.ColorFromHex("1f77b4")

// Series is one plotted line. An empty Label means no legend entry.
type Series struct {
	Label string
	X, Y  []float64
}

// Canvas is the drawing surface charts are composed on. It is reused across charts and
// must be cleared between them; it is not safe for concurrent use.
type Canvas struct {
	Width, Height int

	series  []Series
	xLabel  string
	yLabel  string
	title   string
	caption string
}

// NewCanvas returns a blank canvas; non-positive sizes fall back to the defaults.
func NewCanvas(width, height int) *Canvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Canvas{Width: width, Height: height}
}

// Plot adds a connected line series.
func (c *Canvas) Plot(xs, ys []float64, label string) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("series %q: %d x values, %d y values", label, len(xs), len(ys))
	}
	if len(xs) == 0 {
		return errors.New("series has no points")
	}
	c.series = append(c.series, Series{
		Label: label,
		X:     append([]float64(nil), xs...),
		Y:     append([]float64(nil), ys...),
	})
	return nil
}

func (c *Canvas) SetXLabel(s string)  { c.xLabel = s }
func (c *Canvas) SetYLabel(s string)  { c.yLabel = s }
func (c *Canvas) SetTitle(s string)   { c.title = s }
func (c *Canvas) SetCaption(s string) { c.caption = s }

func (c *Canvas) Title() string    { return c.title }
func (c *Canvas) XLabel() string   { return c.xLabel }
func (c *Canvas) YLabel() string   { return c.yLabel }
func (c *Canvas) Series() []Series { return c.series }

// Empty reports whether nothing has been drawn or labelled since the last Clear.
func (c *Canvas) Empty() bool {
	return len(c.series) == 0 && c.xLabel == "" && c.yLabel == "" && c.title == "" && c.caption == ""
}

// Clear resets the figure and its axes.
func (c *Canvas) Clear() {
	c.series = nil
	c.xLabel = ""
	c.yLabel = ""
	c.title = ""
	c.caption = ""
}

// Chart builds the go-chart description of the current canvas. Non-finite points split a
// series into separate segments and leave a gap; an isolated finite point is drawn as a dot.
func (c *Canvas) Chart() chart.Chart {
	var series []chart.Series
	var allX, allY []float64
	for _, s := range c.series {
		for _, seg := range finiteSegments(s.X, s.Y) {
			style := chart.Style{StrokeColor: lineColor, StrokeWidth: 2}
			if len(seg.X) == 1 {
				style = chart.Style{StrokeWidth: chart.Disabled, DotColor: lineColor, DotWidth: 3}
			}
			series = append(series, chart.ContinuousSeries{
				Name:    s.Label,
				XValues: seg.X,
				YValues: seg.Y,
				Style:   style,
			})
			allX = append(allX, seg.X...)
			allY = append(allY, seg.Y...)
		}
	}

	xAxis := chart.XAxis{Name: c.xLabel}
	if minX, maxX, ok := finiteRange(allX); ok && maxX <= minX {
		d := relativePad(minX, 0.5)
		xAxis.Range = &chart.ContinuousRange{Min: minX - d, Max: maxX + d}
	}
	yAxis := chart.YAxis{Name: c.yLabel}
	if minY, maxY, ok := finiteRange(allY); ok {
		lo, hi := niceAxisBounds(minY, maxY)
		if ticks := niceTicks(lo, hi, 6); len(ticks) >= 2 {
			yAxis.Ticks = ticks
			yAxis.Range = &chart.ContinuousRange{Min: ticks[0].Value, Max: ticks[len(ticks)-1].Value}
		} else {
			yAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
		}
	}

	padBottom := 28
	if c.caption != "" {
		padBottom += 18
	}
	ch := chart.Chart{
		Title:      c.title,
		Width:      c.Width,
		Height:     c.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 24, Bottom: padBottom}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
	}
	// only labelled series get a legend
	for _, s := range c.series {
		if s.Label != "" {
			ch.Elements = []chart.Renderable{chart.Legend(&ch)}
			break
		}
	}
	return ch
}

// Image renders the canvas.
func (c *Canvas) Image() (image.Image, error) {
	if len(c.series) == 0 {
		return nil, errors.New("nothing plotted")
	}
	for _, s := range c.series {
		if len(finiteSegments(s.X, s.Y)) == 0 {
			return nil, errors.New("no finite points to plot")
		}
	}
	ch := c.Chart()
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	if c.caption != "" {
		img = drawCaption(img, c.caption)
	}
	return img, nil
}

// finiteSegments splits xs/ys into runs where both coordinates are finite.
func finiteSegments(xs, ys []float64) []Series {
	var out []Series
	var cur Series
	for i := range xs {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			cur.X = append(cur.X, xs[i])
			cur.Y = append(cur.Y, ys[i])
			continue
		}
		if len(cur.X) > 0 {
			out = append(out, cur)
			cur = Series{}
		}
	}
	if len(cur.X) > 0 {
		out = append(out, cur)
	}
	return out
}
