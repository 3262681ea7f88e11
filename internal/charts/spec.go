// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package charts turns a curve table into declarative chart descriptions. Every
// builder is a pure function of its inputs: it never mutates the table and never
// fails on missing curves, it just leaves out the traces it cannot draw.
//
// A Spec encodes to the Plotly figure format ({"data": [...], "layout": {...}}),
// so any Plotly front end can draw it unchanged.
package charts

import (
	"encoding/json"

	"wellplot/cli/internal/curves"
)

// Kind identifies the chart builder that produced a spec.
type Kind string

const (
	KindCombo          Kind = "combo"
	KindVCL            Kind = "vcl"
	KindComparison     Kind = "comparison"
	KindPickett        Kind = "pickett"
	KindCutoff         Kind = "cutoff"
	KindInterpretation Kind = "interpretation"
)

// Rendering targets. A target is stable across redraws; drawing it again
// replaces the previous chart.
const (
	TargetCombo          = "combo"
	TargetVCL            = "vcl"
	TargetComparePHI     = "compare-PHI"
	TargetPickett        = "pickett"
	TargetCompareSW      = "compare-SW"
	TargetCutoff         = "cutoff"
	TargetInterpretation = "interpretation"
)

// Targets lists every target in pipeline order.
var Targets = []string{
	TargetCombo, TargetVCL, TargetComparePHI, TargetPickett, TargetCompareSW, TargetCutoff, TargetInterpretation,
}

// Spec is one complete chart.
type Spec struct {
	Kind   Kind
	Target string
	Traces []Trace
	Layout Layout
	// Image is a base64 PNG for charts rendered by the analysis service.
	Image string
}

// Line styles a trace line or a marker outline.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

// Marker styles scatter points and histogram bars. Values, when set, colors
// each point by a curve instead of the fixed Color.
type Marker struct {
	Color      string
	Values     []curves.Value
	Colorscale string
	ColorTitle string
	Size       float64
	Line       *Line
}

// MarshalJSON folds the per-point colors into Plotly's overloaded color key.
func (m Marker) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	switch {
	case m.Values != nil:
		out["color"] = m.Values
		out["colorscale"] = m.Colorscale
		out["showscale"] = true
		if m.ColorTitle != "" {
			out["colorbar"] = map[string]any{"title": m.ColorTitle}
		}
	case m.Color != "":
		out["color"] = m.Color
	}
	if m.Size > 0 {
		out["size"] = m.Size
	}
	if m.Line != nil {
		out["line"] = m.Line
	}
	return json.Marshal(out)
}

// Trace is one Plotly data series.
type Trace struct {
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	Mode      string         `json:"mode,omitempty"`
	X         []curves.Value `json:"x"`
	Y         []curves.Value `json:"y,omitempty"`
	XAxis     string         `json:"xaxis,omitempty"`
	YAxis     string         `json:"yaxis,omitempty"`
	Line      *Line          `json:"line,omitempty"`
	Marker    *Marker        `json:"marker,omitempty"`
	NBinsX    int            `json:"nbinsx,omitempty"`
	Fill      string         `json:"fill,omitempty"`
	FillColor string         `json:"fillcolor,omitempty"`
}

// Axis is the layout of one x or y axis.
type Axis struct {
	Title      string
	Color      string
	Type       string
	Side       string
	Domain     []float64
	Range      []float64
	Autorange  string
	Overlaying string
	Anchor     string
	Position   *float64
	ZeroLine   *bool
}

// MarshalJSON renders the Plotly axis object.
func (a Axis) MarshalJSON() ([]byte, error) {
	out := map[string]any{"automargin": true}
	if a.Title != "" {
		title := map[string]any{"text": a.Title, "standoff": 1}
		if a.Color != "" {
			title["font"] = map[string]string{"color": a.Color}
			out["tickfont"] = map[string]string{"color": a.Color}
		}
		out["title"] = title
	}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set("type", a.Type)
	set("side", a.Side)
	set("autorange", a.Autorange)
	set("overlaying", a.Overlaying)
	set("anchor", a.Anchor)
	if a.Domain != nil {
		out["domain"] = a.Domain
	}
	if a.Range != nil {
		out["range"] = a.Range
	}
	if a.Position != nil {
		out["position"] = *a.Position
	}
	if a.ZeroLine != nil {
		out["zeroline"] = *a.ZeroLine
	}
	return json.Marshal(out)
}

// Layout holds figure-level settings. Axes is keyed by trace axis reference
// ("x", "x2", "y3", ...).
type Layout struct {
	Height     int
	ShowLegend bool
	Axes       map[string]Axis
}

// MarshalJSON writes axes under Plotly's layout keys ("xaxis", "xaxis2", ...).
func (l Layout) MarshalJSON() ([]byte, error) {
	out := map[string]any{"showlegend": l.ShowLegend}
	if l.Height > 0 {
		out["height"] = l.Height
	}
	for ref, ax := range l.Axes {
		out[LayoutKey(ref)] = ax
	}
	return json.Marshal(out)
}

// MarshalJSON writes the Plotly figure.
func (s Spec) MarshalJSON() ([]byte, error) {
	traces := s.Traces
	if traces == nil {
		traces = []Trace{}
	}
	out := map[string]any{
		"data":   traces,
		"layout": s.Layout,
	}
	if s.Image != "" {
		out["image"] = s.Image
	}
	return json.Marshal(out)
}

// Axis returns the layout of axis ref.
func (s Spec) Axis(ref string) (Axis, bool) {
	a, ok := s.Layout.Axes[ref]
	return a, ok
}

// Trace returns the first trace named name.
func (s Spec) Trace(name string) (Trace, bool) {
	for _, t := range s.Traces {
		if t.Name == name {
			return t, true
		}
	}
	return Trace{}, false
}

// LayoutKey maps an axis reference to its layout key: "x" → "xaxis", "y3" → "yaxis3".
func LayoutKey(ref string) string {
	if ref == "" {
		return ""
	}
	n := ref[1:]
	if n == "1" {
		n = ""
	}
	return ref[:1] + "axis" + n
}

func limitsRange(l *curves.Limits) []float64 {
	if l == nil {
		return nil
	}
	return []float64{l.Min, l.Max}
}

func depthTrace(t *curves.Table, name, xaxis, color string) (Trace, bool) {
	x, ok := t.Curve(name)
	if !ok {
		return Trace{}, false
	}
	md, _ := t.Curve(curves.DepthCurve)
	tr := Trace{Name: name, Type: "scatter", X: x, Y: md, XAxis: xaxis, YAxis: "y"}
	if color != "" {
		tr.Line = &Line{Color: color}
	}
	return tr, true
}

func depthAxis(md curves.Metadata, top float64) Axis {
	return Axis{
		Title:     md.Title(curves.DepthCurve),
		Autorange: "reversed",
		Domain:    []float64{0, top},
		ZeroLine:  off(),
	}
}

func pos(v float64) *float64 { return &v }
func off() *bool             { b := false; return &b }
