// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package charts

import (
	"fmt"
	"math"

	"wellplot/cli/internal/curves"
)

// PickettParams are the inputs of the Pickett plot.
type PickettParams struct {
	VCLLimit float64
	ZCurve   string
	A, Rw    float64
	M, N     float64
}

// resistivityPriority is searched in order; the first curve present wins.
var resistivityPriority = []string{"RT", "RDEEP", "RMED", "RSHAL"}

// TypeCurveSW are the water saturations drawn as Pickett type curves.
var TypeCurveSW = []float64{1, 0.8, 0.6, 0.4, 0.2}

// typeCurvePHI are the two porosity endpoints of each type curve.
var typeCurvePHI = []float64{0.01, 1}

// ResistivityCurve picks the resistivity curve for the Pickett x axis.
func ResistivityCurve(t *curves.Table) (string, bool) {
	for _, name := range resistivityPriority {
		if t.Has(name) {
			return name, true
		}
	}
	return "", false
}

// ArchieRt is the true resistivity for saturation sw at porosity phi:
// Rt = a·Rw / (Sw^n · φ^m).
func ArchieRt(p PickettParams, sw, phi float64) float64 {
	return p.A * p.Rw / (math.Pow(sw, p.N) * math.Pow(phi, p.M))
}

// PickettRows returns the rows whose VCL sample is present and below limit.
func PickettRows(t *curves.Table, limit float64) []int {
	return t.Rows("VCL", func(v curves.Value) bool { return v.Valid && v.V < limit })
}

// Pickett builds the log-log resistivity vs effective porosity crossplot over
// the low-clay rows, with constant-saturation type curves.
func Pickett(t *curves.Table, md curves.Metadata, p PickettParams) Spec {
	res, found := ResistivityCurve(t)
	title := "RSHAL"
	if found {
		title = res
	}
	spec := Spec{
		Kind:   KindPickett,
		Target: TargetPickett,
		Layout: Layout{
			Height: 1000,
			Axes: map[string]Axis{
				"x": {Title: md.Title(title), Type: "log", Range: []float64{-1, 3}, ZeroLine: off()},
				"y": {Title: md.Title("PHIE"), Type: "log", Range: []float64{-2, 0}, ZeroLine: off()},
			},
		},
	}

	if found && t.Has("VCL") {
		ft := t.Filter(PickettRows(t, p.VCLLimit))
		x, _ := ft.Curve(res)
		if y, ok := ft.Curve("PHIE"); ok {
			m := &Marker{}
			if z, ok := ft.Curve(p.ZCurve); ok {
				m.Values, m.Colorscale, m.ColorTitle = z, "Viridis", md.Title(p.ZCurve)
			}
			spec.Traces = append(spec.Traces, Trace{
				Name: "Pickett", Type: "scatter", Mode: "markers",
				X: x, Y: y, XAxis: "x", YAxis: "y", Marker: m,
			})
		}
	}

	for _, sw := range TypeCurveSW {
		rt := make([]float64, len(typeCurvePHI))
		for i, phi := range typeCurvePHI {
			rt[i] = ArchieRt(p, sw, phi)
		}
		spec.Traces = append(spec.Traces, Trace{
			Name: fmt.Sprintf("SW %d%%", int(math.Round(sw*100))), Type: "scatter", Mode: "lines",
			X: curves.Floats(rt...), Y: curves.Floats(typeCurvePHI...), XAxis: "x", YAxis: "y",
			Line: &Line{Width: 2},
		})
	}
	return spec
}
