package report

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/quadlab/internal/sweep"
)

// ConvergencePlot charts log10 of the measured error against the point
// index (log10 N increases left to right), with the predicted total
// overlaid when every point carries one.
func ConvergencePlot(points []sweep.Point, caption string) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("no data to plot")
	}

	floor := math.Inf(1)
	withPrediction := true
	for _, p := range points {
		if p.Error > 0 {
			floor = math.Min(floor, math.Log10(p.Error))
		}
		if p.Predicted == nil {
			withPrediction = false
		}
	}
	if math.IsInf(floor, 1) {
		floor = 0
	}
	floor--

	measured := make([]float64, len(points))
	predicted := make([]float64, len(points))
	for i, p := range points {
		measured[i] = log10Above(p.Error, floor)
		if withPrediction {
			predicted[i] = log10Above(p.Predicted.Total, floor)
		}
	}

	first, last := points[0].Bins, points[len(points)-1].Bins
	caption = fmt.Sprintf("%s  log10 error, N=%d..%d", caption, first, last)

	if !withPrediction {
		return asciigraph.Plot(measured,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		), nil
	}

	return asciigraph.PlotMany([][]float64{measured, predicted},
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.SeriesLegends("measured", "predicted"),
	), nil
}

// log10Above plots exact zeros one decade below the smallest measured error.
func log10Above(v, floor float64) float64 {
	if v <= 0 {
		return floor
	}
	return math.Log10(v)
}
