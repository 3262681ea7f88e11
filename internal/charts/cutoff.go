// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package charts

import (
	"fmt"
	"strconv"

	"wellplot/cli/internal/curves"
)

// CutoffParams are the pay thresholds.
type CutoffParams struct {
	SW, VCL, PHI float64
}

// payCorners gives the shaded pay region per panel, keyed by the x-axis curve.
// Pay is low SW and low VCL on the left panel, low VCL and high PHIE on the right.
var payCorners = map[string]func(xc, yc float64) (xs, ys []float64){
	"SW": func(xc, yc float64) ([]float64, []float64) {
		return []float64{0, xc, xc, 0}, []float64{0, 0, yc, yc}
	},
	"VCL": func(xc, yc float64) ([]float64, []float64) {
		return []float64{0, xc, xc, 0}, []float64{1, 1, yc, yc}
	},
}

// PayPolygon returns the polygon corners, in winding order, for the panel
// whose x axis is xCurve.
func PayPolygon(xCurve string, xCut, yCut float64) (xs, ys []float64, ok bool) {
	f, ok := payCorners[xCurve]
	if !ok {
		return nil, nil, false
	}
	xs, ys = f(xCut, yCut)
	return xs, ys, true
}

type cutoffPanel struct {
	x, y         string
	xCut, yCut   float64
	xaxis, yaxis string
}

// Cutoff builds the two threshold crossplots: SW vs VCL and VCL vs PHIE.
func Cutoff(t *curves.Table, md curves.Metadata, p CutoffParams) Spec {
	spec := Spec{
		Kind:   KindCutoff,
		Target: TargetCutoff,
		Layout: Layout{
			Height: 1000,
			Axes: map[string]Axis{
				"x":  {Title: md.Title("SW"), Range: []float64{0, 1}, Domain: []float64{0, 0.475}, Anchor: "y", ZeroLine: off()},
				"y":  {Title: md.Title("VCL"), Range: []float64{0, 1}, Anchor: "x", ZeroLine: off()},
				"x2": {Title: md.Title("VCL"), Range: []float64{0, 1}, Domain: []float64{0.525, 1}, Anchor: "y2", ZeroLine: off()},
				"y2": {Title: md.Title("PHIE"), Range: []float64{0, 1}, Anchor: "x2", ZeroLine: off()},
			},
		},
	}
	panels := []cutoffPanel{
		{x: "SW", y: "VCL", xCut: p.SW, yCut: p.VCL, xaxis: "x", yaxis: "y"},
		{x: "VCL", y: "PHIE", xCut: p.VCL, yCut: p.PHI, xaxis: "x2", yaxis: "y2"},
	}
	for _, pn := range panels {
		spec.Traces = append(spec.Traces, cutoffTraces(t, md, pn)...)
	}
	return spec
}

func cutoffTraces(t *curves.Table, md curves.Metadata, pn cutoffPanel) []Trace {
	x, okX := t.Curve(pn.x)
	y, okY := t.Curve(pn.y)
	if !okX || !okY {
		return nil
	}
	m := &Marker{}
	if gr, ok := t.Curve("GR"); ok {
		m.Values, m.Colorscale, m.ColorTitle = gr, "Viridis", md.Title("GR")
	}
	dashed := &Line{Color: "black", Dash: "dash", Width: 2}
	out := []Trace{
		{
			Name: pn.x + "_" + pn.y, Type: "scatter", Mode: "markers",
			X: x, Y: y, XAxis: pn.xaxis, YAxis: pn.yaxis, Marker: m,
		},
		{
			Name: fmt.Sprintf("%s = %s", pn.x, fmtCut(pn.xCut)), Type: "scatter", Mode: "lines",
			X: curves.Floats(pn.xCut, pn.xCut), Y: curves.Floats(0, 1), XAxis: pn.xaxis, YAxis: pn.yaxis, Line: dashed,
		},
		{
			Name: fmt.Sprintf("%s = %s", pn.y, fmtCut(pn.yCut)), Type: "scatter", Mode: "lines",
			X: curves.Floats(0, 1), Y: curves.Floats(pn.yCut, pn.yCut), XAxis: pn.xaxis, YAxis: pn.yaxis, Line: dashed,
		},
	}
	if xs, ys, ok := PayPolygon(pn.x, pn.xCut, pn.yCut); ok {
		out = append(out, Trace{
			Name: "Shaded Area", Type: "scatter",
			X: curves.Floats(xs...), Y: curves.Floats(ys...), XAxis: pn.xaxis, YAxis: pn.yaxis,
			Fill: "toself", FillColor: "rgba(0, 0, 0, 0.1)", Line: &Line{Color: "rgba(0,0,0,0)"},
		})
	}
	return out
}

func fmtCut(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Interpretation wraps the service-rendered net pay image.
func Interpretation(image string) Spec {
	return Spec{
		Kind:   KindInterpretation,
		Target: TargetInterpretation,
		Image:  image,
	}
}
