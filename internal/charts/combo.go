// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package charts

import (
	"math"

	"wellplot/cli/internal/curves"
)

// Resistivity tracks share a fixed log range of 0.2 to 2000 ohm.m.
var resistivityRange = []float64{math.Log10(0.2), math.Log10(2000)}

type track struct {
	curve      string
	axis       string
	color      string
	overlaying string
	position   float64
	log        bool
	reversed   bool
}

// Three tracks of three curves each. The first curve of a track owns the axis
// the other two overlay.
var comboTracks = []struct {
	domain []float64
	curves []track
}{
	{
		domain: []float64{0, 0.3},
		curves: []track{
			{curve: "SP", axis: "x", color: "black"},
			{curve: "CALI", axis: "x2", color: "blue", overlaying: "x", position: 0.975},
			{curve: "GR", axis: "x3", color: "green", overlaying: "x", position: 1},
		},
	},
	{
		domain: []float64{0.35, 0.65},
		curves: []track{
			{curve: "RSHAL", axis: "x4", color: "purple", log: true},
			{curve: "RMED", axis: "x5", color: "pink", overlaying: "x4", position: 0.975, log: true},
			{curve: "RDEEP", axis: "x6", color: "red", overlaying: "x4", position: 1, log: true},
		},
	},
	{
		domain: []float64{0.7, 1},
		curves: []track{
			{curve: "DTC", axis: "x7", color: "black"},
			{curve: "NPHI", axis: "x8", color: "green", overlaying: "x7", position: 0.975, reversed: true},
			{curve: "RHOB", axis: "x9", color: "red", overlaying: "x7", position: 1},
		},
	},
}

// comboOrder is the trace order, topmost curve of each track first.
var comboOrder = []string{"GR", "CALI", "SP", "RDEEP", "RMED", "RSHAL", "RHOB", "NPHI", "DTC"}

// Combo builds the overview log plot. figureHeight is in hundreds of pixels.
func Combo(t *curves.Table, md curves.Metadata, figureHeight float64) Spec {
	spec := Spec{
		Kind:   KindCombo,
		Target: TargetCombo,
		Layout: Layout{
			Height: int(math.Round(figureHeight * 100)),
			Axes:   map[string]Axis{"y": depthAxis(md, 0.95)},
		},
	}

	byCurve := map[string]track{}
	for _, tr := range comboTracks {
		for _, c := range tr.curves {
			byCurve[c.curve] = c
			ax := Axis{
				Title:      md.Title(c.curve),
				Domain:     tr.domain,
				Side:       "top",
				Overlaying: c.overlaying,
				ZeroLine:   off(),
			}
			if c.overlaying != "" {
				ax.Color = c.color
				ax.Position = pos(c.position)
			}
			switch {
			case c.log:
				ax.Type = "log"
				ax.Range = resistivityRange
			case c.reversed:
				if l := md.Limits(c.curve); l != nil {
					r := l.Reversed()
					ax.Range = limitsRange(&r)
				}
			default:
				ax.Range = limitsRange(md.Limits(c.curve))
			}
			spec.Layout.Axes[c.axis] = ax
		}
	}

	for _, name := range comboOrder {
		c := byCurve[name]
		if tr, ok := depthTrace(t, name, c.axis, c.color); ok {
			spec.Traces = append(spec.Traces, tr)
		}
	}
	return spec
}
