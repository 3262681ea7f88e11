// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sink

import (
	"errors"
	"io"
	"math"

	"wellplot/cli/internal/charts"
	"wellplot/cli/internal/curves"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToDraw is returned by Preview when no trace has two drawable points.
var ErrNothingToDraw = errors.New("no drawable series")

var palette = []drawing.Color{
	chart.ColorBlue, chart.ColorGreen, chart.ColorRed, chart.ColorOrange, chart.ColorBlack, chart.ColorAlternateGray,
}

// pointStyle renders points only, without connecting lines.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    3,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{StrokeWidth: 1.5, StrokeColor: col}
}

// Preview renders a PNG of the chart's first panel: the scatter traces sharing
// the axes of the first drawable trace. Log axes are drawn as log10 values.
// Histograms are left out.
func Preview(spec charts.Spec, w io.Writer) error {
	var (
		series       []chart.Series
		xaxis, yaxis string
		xlog, ylog   bool
	)
	for _, tr := range spec.Traces {
		if tr.Type != "scatter" || tr.Y == nil {
			continue
		}
		if xaxis == "" {
			xaxis, yaxis = tr.XAxis, tr.YAxis
			xa, _ := spec.Axis(xaxis)
			ya, _ := spec.Axis(yaxis)
			xlog, ylog = xa.Type == "log", ya.Type == "log"
		}
		if tr.XAxis != xaxis && !overlays(spec, tr.XAxis, xaxis) {
			continue
		}
		if tr.YAxis != yaxis {
			continue
		}
		xs, ys := points(tr.X, tr.Y, xlog, ylog)
		if len(xs) < 2 {
			continue
		}
		col := palette[len(series)%len(palette)]
		st := lineStyle(col)
		if tr.Mode == "markers" {
			st = pointStyle(col)
		}
		series = append(series, chart.ContinuousSeries{Name: tr.Name, XValues: xs, YValues: ys, Style: st})
	}
	if len(series) == 0 {
		return ErrNothingToDraw
	}

	xa, _ := spec.Axis(xaxis)
	ya, _ := spec.Axis(yaxis)
	ch := chart.Chart{
		Title:      spec.Target,
		Width:      900,
		Height:     700,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: axisName(xa.Title, xlog)},
		YAxis:      chart.YAxis{Name: axisName(ya.Title, ylog)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

func overlays(spec charts.Spec, ref, base string) bool {
	a, ok := spec.Axis(ref)
	return ok && a.Overlaying == base
}

func axisName(title string, log bool) string {
	if log {
		return "log10 " + title
	}
	return title
}

// points pairs present samples; non-positive values are dropped on log axes.
func points(x, y []curves.Value, xlog, ylog bool) ([]float64, []float64) {
	n := min(len(x), len(y))
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		xv, ok1 := scale(x[i], xlog)
		yv, ok2 := scale(y[i], ylog)
		if ok1 && ok2 {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	return xs, ys
}

func scale(v curves.Value, log bool) (float64, bool) {
	if !v.Valid || math.IsNaN(v.V) || math.IsInf(v.V, 0) {
		return 0, false
	}
	if !log {
		return v.V, true
	}
	if v.V <= 0 {
		return 0, false
	}
	return math.Log10(v.V), true
}
