// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package charts

import (
	"encoding/json"
	"testing"

	"wellplot/cli/internal/curves"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(vs []curves.Value) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.V
	}
	return out
}

func ptr(v float64) *float64 { return &v }

func TestEndpointDerivation(t *testing.T) {
	tbl := curves.NewTable().
		With("MD", curves.Floats(1, 2, 3)).
		With("NPHI", curves.Floats(0.3, 0.1, 0.5)).
		With("RHOB", curves.Floats(2.4, 2.6, 2.2))

	ep := Endpoints{}.Derive(tbl)
	assert.Equal(t, 0.1, *ep.NeutClean1)
	assert.Equal(t, 2.6, *ep.DenClean1)
	assert.Equal(t, 0.5, *ep.NeutClean2)
	assert.Equal(t, 2.2, *ep.DenClean2)
	assert.Equal(t, 0.5, *ep.NeutClay)
	assert.Equal(t, 2.6, *ep.DenClay)

	picked := Endpoints{NeutClay: ptr(0.45)}.Derive(tbl)
	assert.Equal(t, 0.45, *picked.NeutClay, "user picks are kept")
}

func TestEndpointsNotDerivedWithoutBothCurves(t *testing.T) {
	tbl := curves.NewTable().With("MD", curves.Floats(1)).With("NPHI", curves.Floats(0.2))
	ep := Endpoints{DenClay: ptr(2.5)}.Derive(tbl)
	assert.Nil(t, ep.NeutClean1)
	assert.Nil(t, ep.NeutClay)

	spec := VCL(tbl, nil, Endpoints{DenClay: ptr(2.5)})
	_, ok := spec.Trace("Clay")
	assert.False(t, ok, "half-known endpoint is not drawn")
	_, ok = spec.Trace("NXD")
	assert.False(t, ok)
}

func TestVCLTraces(t *testing.T) {
	tbl := curves.NewTable().
		With("MD", curves.Floats(1, 2, 3)).
		With("GR", curves.Floats(40, 90, 120)).
		With("NPHI", curves.Floats(0.1, 0.3, 0.5)).
		With("RHOB", curves.Floats(2.2, 2.4, 2.6)).
		With("VCLGR", curves.Floats(0.1, 0.5, 0.9))

	spec := VCL(tbl, curves.Metadata{"GR": {Unit: "GAPI"}}, Endpoints{})
	assert.Equal(t, 2000, spec.Layout.Height)

	hist, ok := spec.Trace("(GR) Frequency")
	require.True(t, ok)
	assert.Equal(t, 20, hist.NBinsX)
	assert.Equal(t, "y2", hist.YAxis)
	_, ok = spec.Trace("(SP) Frequency")
	assert.False(t, ok)

	nxd, ok := spec.Trace("NXD")
	require.True(t, ok)
	assert.Equal(t, "GR (GAPI)", nxd.Marker.ColorTitle)

	line, ok := spec.Trace("Clean1 - Clay")
	require.True(t, ok)
	assert.Equal(t, []float64{0.1, 0.5}, values(line.X))
	assert.Equal(t, []float64{2.6, 2.6}, values(line.Y))

	vcl, ok := spec.Trace("VCLGR")
	require.True(t, ok)
	assert.Equal(t, "x7", vcl.XAxis)
}

func TestResistivityCurve(t *testing.T) {
	tests := []struct {
		name  string
		have  []string
		want  string
		found bool
	}{
		{"true resistivity wins", []string{"RSHAL", "RDEEP", "RT"}, "RT", true},
		{"deep before medium", []string{"RMED", "RDEEP"}, "RDEEP", true},
		{"medium before shallow", []string{"RSHAL", "RMED"}, "RMED", true},
		{"shallow only", []string{"RSHAL"}, "RSHAL", true},
		{"none", []string{"GR"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := curves.NewTable().With("MD", curves.Floats(1))
			for _, n := range tt.have {
				tbl.With(n, curves.Floats(1))
			}
			got, ok := ResistivityCurve(tbl)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.found, ok)
		})
	}
}

func TestArchieTypeCurve(t *testing.T) {
	p := PickettParams{A: 1, Rw: 0.08, M: 2, N: 2}
	assert.InDelta(t, 0.08, ArchieRt(p, 1, 1), 1e-12)
	assert.InDelta(t, 800, ArchieRt(p, 1, 0.01), 1e-9)
}

func TestPickettFiltersRowsIdentically(t *testing.T) {
	tbl := curves.NewTable().
		With("MD", curves.Floats(100, 101, 102, 103)).
		With("VCL", []curves.Value{curves.Some(0.1), curves.Some(0.4), curves.Some(0.2), curves.None()}).
		With("RMED", curves.Floats(10, 20, 30, 40)).
		With("RSHAL", curves.Floats(1, 2, 3, 4)).
		With("PHIE", curves.Floats(0.25, 0.15, 0.2, 0.1))

	assert.Equal(t, []int{0, 2}, PickettRows(tbl, 0.3))

	spec := Pickett(tbl, nil, PickettParams{VCLLimit: 0.3, ZCurve: "VCL", A: 1, Rw: 0.08, M: 2, N: 2})
	sc, ok := spec.Trace("Pickett")
	require.True(t, ok)
	assert.Equal(t, []float64{10, 30}, values(sc.X))
	assert.Equal(t, []float64{0.25, 0.2}, values(sc.Y))
	assert.Equal(t, []float64{0.1, 0.2}, values(sc.Marker.Values))

	x, _ := spec.Axis("x")
	assert.Equal(t, "RMED ()", x.Title)
	assert.Equal(t, []float64{-1, 3}, x.Range)

	sw100, ok := spec.Trace("SW 100%")
	require.True(t, ok)
	assert.InDelta(t, 800, sw100.X[0].V, 1e-9)
	assert.InDelta(t, 0.08, sw100.X[1].V, 1e-12)
	for _, name := range []string{"SW 80%", "SW 60%", "SW 40%", "SW 20%"} {
		_, ok := spec.Trace(name)
		assert.True(t, ok, name)
	}
	assert.Equal(t, 4, tbl.Len(), "input table untouched")
}

func TestPayPolygon(t *testing.T) {
	xs, ys, ok := PayPolygon("SW", 0.6, 0.4)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0.6, 0.6, 0}, xs)
	assert.Equal(t, []float64{0, 0, 0.4, 0.4}, ys)

	xs, ys, ok = PayPolygon("VCL", 0.4, 0.2)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0.4, 0.4, 0}, xs)
	assert.Equal(t, []float64{1, 1, 0.2, 0.2}, ys)

	_, _, ok = PayPolygon("PHIE", 0.1, 0.1)
	assert.False(t, ok)
}

func TestCutoffPanels(t *testing.T) {
	tbl := curves.NewTable().
		With("MD", curves.Floats(1, 2)).
		With("SW", curves.Floats(0.3, 0.9)).
		With("VCL", curves.Floats(0.1, 0.6))

	spec := Cutoff(tbl, nil, CutoffParams{SW: 0.6, VCL: 0.4, PHI: 0.1})
	// PHIE is missing, so only the SW-VCL panel is drawn.
	names := []string{}
	for _, tr := range spec.Traces {
		names = append(names, tr.Name)
	}
	assert.Equal(t, []string{"SW_VCL", "SW = 0.6", "VCL = 0.4", "Shaded Area"}, names)

	shade, _ := spec.Trace("Shaded Area")
	assert.Equal(t, "toself", shade.Fill)
	assert.Equal(t, []float64{0, 0.6, 0.6, 0}, values(shade.X))
	assert.Equal(t, []float64{0, 0, 0.4, 0.4}, values(shade.Y))
}

func TestComboSkipsMissingCurves(t *testing.T) {
	tbl := curves.NewTable().
		With("MD", curves.Floats(1, 2)).
		With("NPHI", curves.Floats(0.2, 0.3)).
		With("GR", curves.Floats(50, 60))
	md := curves.Metadata{"NPHI": {Unit: "v/v", Limits: &curves.Limits{Min: -0.15, Max: 0.45}}}

	spec := Combo(tbl, md, 30)
	assert.Equal(t, 3000, spec.Layout.Height)
	require.Len(t, spec.Traces, 2)
	assert.Equal(t, "GR", spec.Traces[0].Name)
	assert.Equal(t, "x3", spec.Traces[0].XAxis)
	assert.Equal(t, "x8", spec.Traces[1].XAxis)

	nphi, _ := spec.Axis("x8")
	assert.Equal(t, []float64{0.45, -0.15}, nphi.Range)
	assert.Equal(t, "x7", nphi.Overlaying)
	assert.Nil(t, spec.Layout.Axes["x"].Range, "no limits means auto range")
	rdeep, _ := spec.Axis("x6")
	assert.Equal(t, "log", rdeep.Type)
	assert.InDelta(t, -0.69897, rdeep.Range[0], 1e-5)
	assert.InDelta(t, 3.30103, rdeep.Range[1], 1e-5)
}

func TestComparisonKeepsTableOrder(t *testing.T) {
	tbl := curves.NewTable().
		With("MD", curves.Floats(1)).
		With("PHIE", curves.Floats(0.2)).
		With("GR", curves.Floats(50)).
		With("PHIT", curves.Floats(0.25)).
		With("PHID", curves.Floats(0.22))

	spec := Comparison(tbl, curves.Metadata{"PHI": {Unit: "v/v"}}, "PHI")
	assert.Equal(t, TargetComparePHI, spec.Target)
	var names []string
	for _, tr := range spec.Traces {
		names = append(names, tr.Name)
	}
	assert.Equal(t, []string{"PHIE", "PHIT", "PHID"}, names)
	x, _ := spec.Axis("x")
	assert.Equal(t, "PHI (v/v)", x.Title)
}

func TestSpecEncodesPlotlyFigure(t *testing.T) {
	tbl := curves.NewTable().
		With("MD", curves.Floats(1, 2)).
		With("GR", []curves.Value{curves.Some(50), curves.None()})

	b, err := json.Marshal(Combo(tbl, nil, 10))
	require.NoError(t, err)

	var fig struct {
		Data []struct {
			X     []*float64 `json:"x"`
			XAxis string     `json:"xaxis"`
		} `json:"data"`
		Layout map[string]json.RawMessage `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(b, &fig))
	require.Len(t, fig.Data, 1)
	assert.Nil(t, fig.Data[0].X[1], "absent sample encodes as null")
	assert.Equal(t, "x3", fig.Data[0].XAxis)
	for _, key := range []string{"xaxis", "xaxis3", "xaxis9", "yaxis", "height"} {
		assert.Contains(t, fig.Layout, key)
	}

	img, err := json.Marshal(Interpretation("aW1n"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"layout":{"showlegend":false},"image":"aW1n"}`, string(img))
}

func TestLayoutKey(t *testing.T) {
	assert.Equal(t, "xaxis", LayoutKey("x"))
	assert.Equal(t, "xaxis", LayoutKey("x1"))
	assert.Equal(t, "yaxis5", LayoutKey("y5"))
}
