package report

import (
	"fmt"
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		d := relativePad(min, 1)
		min, max = min-d, max+d
	}
	span := max - min
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates about n tick marks covering [min, max] in 1, 2, 2.5, 5 steps.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		d := relativePad(min, 1)
		min, max = min-d, max+d
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	if !(bestStep > 0) || math.IsInf(bestStep, 0) {
		return nil
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var ticks []chart.Tick
	for i := 0; ; i++ {
		// multiply instead of accumulate so long runs don't drift
		v := start + float64(i)*bestStep
		if v > end+bestStep/2 || len(ticks) > 50 {
			break
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	// short labels collapse when the span is tiny next to the values
	seen := map[string]bool{}
	for _, t := range ticks {
		if seen[t.Label] {
			digits := int(math.Ceil(math.Log10(math.Max(math.Abs(start), math.Abs(end))/bestStep))) + 2
			if digits < 3 {
				digits = 3
			}
			if digits > 17 {
				digits = 17
			}
			for i := range ticks {
				ticks[i].Label = strconv.FormatFloat(ticks[i].Value, 'g', digits, 64)
			}
			break
		}
		seen[t.Label] = true
	}
	return ticks
}

// formatTick keeps labels short; tallies span many decades so tiny values go scientific.
func formatTick(v float64) string {
	if math.Abs(v) < 1e-12 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 1e6:
		return fmt.Sprintf("%.2e", v)
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	case av >= 0.01:
		return trimZeros(fmt.Sprintf("%.3f", v))
	default:
		return fmt.Sprintf("%.2e", v)
	}
}

func trimZeros(s string) string {
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

// relativePad is the half-width given to a degenerate range around v. It scales with v
// so that v-d and v+d stay distinct at any magnitude.
func relativePad(v, floor float64) float64 {
	return math.Max(math.Abs(v)*1e-6, floor)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// finiteRange returns the min and max of the finite values in vs.
func finiteRange(vs []float64) (min, max float64, ok bool) {
	min = math.MaxFloat64
	max = -math.MaxFloat64
	for _, v := range vs {
		if !isFinite(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		ok = true
	}
	return min, max, ok
}
