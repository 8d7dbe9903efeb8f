package viz

import (
	"fmt"
	"math"
	"strconv"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dualsim/internal/analysis"
)

// PlotOptions sizes an asciigraph chart.
type PlotOptions struct {
	Height  int
	Width   int
	Caption string
}

// PlotSeries charts the sampled values, or the derivative when deriv is set.
// Infinite samples are dropped from the chart.
func PlotSeries(s *analysis.Series, deriv bool, opts PlotOptions) string {
	data := s.Value
	if deriv {
		data = s.Deriv
	}
	return Plot(data, opts)
}

// Finite returns a copy of data with ±Inf replaced by NaN, which asciigraph
// draws as a gap.
func Finite(data []float64) []float64 {
	clean := make([]float64, len(data))
	for i, v := range data {
		if analysis.IsFinite(v) {
			clean[i] = v
		} else {
			clean[i] = math.NaN()
		}
	}
	return clean
}

// Plot charts data with asciigraph. Non-finite values become gaps.
func Plot(data []float64, opts PlotOptions) string {
	if _, _, ok := finiteRange(data); !ok {
		return Subtle.Render("(no finite samples)")
	}
	clean := Finite(data)

	args := []asciigraph.Option{}
	if opts.Height > 0 {
		args = append(args, asciigraph.Height(opts.Height))
	}
	if opts.Width > 0 {
		args = append(args, asciigraph.Width(opts.Width))
	}
	if opts.Caption != "" {
		args = append(args, asciigraph.Caption(opts.Caption))
	}
	return asciigraph.Plot(clean, args...)
}

func formatRoot(r complex128) string {
	return fmt.Sprintf("(%.4g%+.4gi)", real(r), imag(r))
}

func itoa(n int) string { return strconv.Itoa(n) }

// Preview draws f as a Braille curve w cells wide and h tall, followed by a
// one-line sparkline of f'.
func Preview(s *analysis.Series, w, h int) string {
	return CurveToBraille(s.Value, w, h) + MetricLabel.Render("f' ") + Sparkline(s.Deriv, w) + "\n"
}
