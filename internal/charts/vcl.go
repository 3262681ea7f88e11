// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package charts

import (
	"wellplot/cli/internal/curves"
)

// Endpoints are the neutron/density picks of the clay model. Nil means the
// user did not pick a value.
type Endpoints struct {
	NeutClean1, DenClean1 *float64
	NeutClean2, DenClean2 *float64
	NeutClay, DenClay     *float64
}

// Derive fills unpicked endpoints from the data: clean1 sits at the lowest
// neutron and highest density, clean2 at the highest neutron and lowest
// density, clay at the highest of both. Nothing is derived unless the table
// has both NPHI and RHOB.
func (e Endpoints) Derive(t *curves.Table) Endpoints {
	nMin, ok1 := t.Min("NPHI")
	nMax, _ := t.Max("NPHI")
	dMin, ok2 := t.Min("RHOB")
	dMax, _ := t.Max("RHOB")
	if !ok1 || !ok2 {
		return e
	}
	fill := func(p **float64, v float64) {
		if *p == nil {
			*p = &v
		}
	}
	fill(&e.NeutClean1, nMin)
	fill(&e.DenClean1, dMax)
	fill(&e.NeutClean2, nMax)
	fill(&e.DenClean2, dMin)
	fill(&e.NeutClay, nMax)
	fill(&e.DenClay, dMax)
	return e
}

// histogram rows, top to bottom.
var vclHistograms = []struct {
	curve, xaxis, yaxis, color, edge string
	domain                           []float64
	position                         float64
}{
	{"GR", "x6", "y2", "blue", "black", []float64{0.7688, 1}, 0.7688},
	{"SP", "x5", "y3", "black", "white", []float64{0.5125, 0.7438}, 0.5125},
	{"RDEEP", "x4", "y4", "red", "black", []float64{0.2563, 0.4875}, 0.2563},
}

// VCL builds the clay-volume overview: depth tracks, histograms, the
// neutron-density crossplot with the model endpoints and the VCL curves.
func VCL(t *curves.Table, md curves.Metadata, ep Endpoints) Spec {
	ep = ep.Derive(t)
	spec := Spec{
		Kind:   KindVCL,
		Target: TargetVCL,
		Layout: Layout{Height: 2000, Axes: map[string]Axis{}},
	}
	add := func(tr Trace, ok bool) {
		if ok {
			spec.Traces = append(spec.Traces, tr)
		}
	}

	add(depthTrace(t, "GR", "x2", "blue"))
	add(depthTrace(t, "SP", "x", "black"))

	for _, h := range vclHistograms {
		if x, ok := t.Curve(h.curve); ok {
			spec.Traces = append(spec.Traces, Trace{
				Name:   "(" + h.curve + ") Frequency",
				Type:   "histogram",
				X:      x,
				XAxis:  h.xaxis,
				YAxis:  h.yaxis,
				NBinsX: 20,
				Marker: &Marker{Color: h.color, Line: &Line{Color: h.edge, Width: 1}},
			})
		}
		spec.Layout.Axes[h.xaxis] = Axis{
			Title:    md.Title(h.curve),
			Domain:   []float64{0.35, 0.65},
			Side:     "bottom",
			Anchor:   h.yaxis,
			Position: pos(h.position),
		}
		spec.Layout.Axes[h.yaxis] = Axis{Title: "Frequency", Domain: h.domain, Anchor: h.xaxis}
	}

	spec.Traces = append(spec.Traces, crossplot(t, md, ep)...)

	add(depthTrace(t, "VCLGR", "x7", "red"))
	add(depthTrace(t, "VCLND", "x7", "green"))
	add(depthTrace(t, "VCLSP", "x7", "blue"))

	spec.Layout.Axes["y"] = depthAxis(md, 0.975)
	spec.Layout.Axes["x"] = Axis{
		Title: md.Title("SP"), Domain: []float64{0, 0.3}, Side: "top",
		Range: limitsRange(md.Limits("SP")), ZeroLine: off(),
	}
	spec.Layout.Axes["x2"] = Axis{
		Title: md.Title("GR"), Color: "blue", Domain: []float64{0, 0.3}, Side: "top",
		Overlaying: "x", Position: pos(1), Range: limitsRange(md.Limits("GR")), ZeroLine: off(),
	}
	spec.Layout.Axes["x3"] = Axis{
		Title: md.Title("NPHI"), Domain: []float64{0.35, 0.65}, Side: "bottom",
		Anchor: "y5", Position: pos(0), ZeroLine: off(),
	}
	spec.Layout.Axes["y5"] = Axis{
		Title: md.Title("RHOB"), Autorange: "reversed", Domain: []float64{0, 0.2313},
		Anchor: "x3", ZeroLine: off(),
	}
	spec.Layout.Axes["x7"] = Axis{
		Title: md.Title("VCL"), Domain: []float64{0.7, 1}, Side: "top",
		Range: limitsRange(md.Limits("VCL")), ZeroLine: off(),
	}
	return spec
}

func crossplot(t *curves.Table, md curves.Metadata, ep Endpoints) []Trace {
	var out []Trace
	nphi, okN := t.Curve("NPHI")
	rhob, okD := t.Curve("RHOB")
	if okN && okD {
		m := &Marker{}
		if gr, ok := t.Curve("GR"); ok {
			m.Values, m.Colorscale, m.ColorTitle = gr, "Viridis", md.Title("GR")
		}
		out = append(out, Trace{
			Name: "NXD", Type: "scatter", Mode: "markers",
			X: nphi, Y: rhob, XAxis: "x3", YAxis: "y5", Marker: m,
		})
	}

	points := []struct {
		name string
		x, y *float64
	}{
		{"Clean1", ep.NeutClean1, ep.DenClean1},
		{"Clean2", ep.NeutClean2, ep.DenClean2},
		{"Clay", ep.NeutClay, ep.DenClay},
	}
	for _, p := range points {
		if p.x == nil || p.y == nil {
			continue
		}
		out = append(out, Trace{
			Name: p.name, Type: "scatter", Mode: "markers",
			X: curves.Floats(*p.x), Y: curves.Floats(*p.y), XAxis: "x3", YAxis: "y5",
			Marker: &Marker{Color: "red", Size: 10},
		})
	}

	lines := []struct {
		name     string
		from, to int
	}{
		{"Clean1 - Clean2", 0, 1},
		{"Clean1 - Clay", 0, 2},
	}
	for _, l := range lines {
		a, b := points[l.from], points[l.to]
		if a.x == nil || a.y == nil || b.x == nil || b.y == nil {
			continue
		}
		out = append(out, Trace{
			Name: l.name, Type: "scatter", Mode: "lines",
			X: curves.Floats(*a.x, *b.x), Y: curves.Floats(*a.y, *b.y), XAxis: "x3", YAxis: "y5",
			Line: &Line{Color: "black", Width: 3},
		})
	}
	return out
}
