// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sink

import (
	"context"

	"wellplot/cli/internal/charts"
	"wellplot/cli/internal/logging"
	"wellplot/cli/internal/session"
)

// Binding ties a rendering target to the stage that must have completed and
// the change fields that trigger a redraw.
type Binding struct {
	Target string
	Stage  session.Stage
	Fields []string
	Build  func(session.Snapshot) charts.Spec
}

func params(names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = session.ParamField(n)
	}
	return out
}

// Bindings returns the chart wiring for every target.
func Bindings() []Binding {
	return []Binding{
		{
			Target: charts.TargetCombo,
			Stage:  session.StageCombo,
			Fields: append([]string{session.FlagField(session.StageCombo)}, params("figure_height")...),
			Build: func(s session.Snapshot) charts.Spec {
				return charts.Combo(s.Table, s.Meta, s.Params.Plot.FigureHeight)
			},
		},
		{
			Target: charts.TargetVCL,
			Stage:  session.StageVCL,
			Fields: append([]string{session.FlagField(session.StageVCL)},
				params("neut_clean1", "neut_clean2", "neut_clay", "den_clean1", "den_clean2", "den_clay")...),
			Build: func(s session.Snapshot) charts.Spec {
				l := s.Params.Log
				return charts.VCL(s.Table, s.Meta, charts.Endpoints{
					NeutClean1: l.NeutClean1, DenClean1: l.DenClean1,
					NeutClean2: l.NeutClean2, DenClean2: l.DenClean2,
					NeutClay: l.NeutClay, DenClay: l.DenClay,
				})
			},
		},
		{
			Target: charts.TargetComparePHI,
			Stage:  session.StagePHI,
			Fields: []string{session.FlagField(session.StagePHI)},
			Build: func(s session.Snapshot) charts.Spec {
				return charts.Comparison(s.Table, s.Meta, "PHI")
			},
		},
		{
			Target: charts.TargetPickett,
			Stage:  session.StagePickett,
			Fields: append([]string{session.FlagField(session.StagePickett)},
				params("vcl_limit", "z_axis", "a", "rw", "m", "n")...),
			Build: func(s session.Snapshot) charts.Spec {
				r := s.Params.Res
				return charts.Pickett(s.Table, s.Meta, charts.PickettParams{
					VCLLimit: r.VCLLimit, ZCurve: s.Params.Plot.ZAxis,
					A: r.A, Rw: r.Rw, M: r.M, N: r.N,
				})
			},
		},
		{
			Target: charts.TargetCompareSW,
			Stage:  session.StageSW,
			Fields: []string{session.FlagField(session.StageSW)},
			Build: func(s session.Snapshot) charts.Spec {
				return charts.Comparison(s.Table, s.Meta, "SW")
			},
		},
		{
			Target: charts.TargetCutoff,
			Stage:  session.StageCutoff,
			Fields: append([]string{session.FlagField(session.StageCutoff)},
				params("sw_cutoff", "vcl_cutoff", "phi_cutoff")...),
			Build: func(s session.Snapshot) charts.Spec {
				r := s.Params.Res
				return charts.Cutoff(s.Table, s.Meta, charts.CutoffParams{SW: r.SWCutoff, VCL: r.VCLCutoff, PHI: r.PHICutoff})
			},
		},
		{
			Target: charts.TargetInterpretation,
			Stage:  session.StageInterpretation,
			Fields: []string{session.FieldInterpretation},
			Build: func(s session.Snapshot) charts.Spec {
				return charts.Interpretation(s.Interpretation)
			},
		},
	}
}

// Renderer redraws charts in response to session changes. A target is drawn
// only when one of its fields changed and its stage has completed, so charts
// of failed stages keep showing their previous version.
type Renderer struct {
	sess     *session.Session
	sink     Sink
	bindings []Binding
	log      *logging.Logger
	onError  func(target string, err error)
}

// RendererOption customizes a Renderer.
type RendererOption func(*Renderer)

// WithRenderLogger attaches a logger.
func WithRenderLogger(l *logging.Logger) RendererOption {
	return func(r *Renderer) { r.log = l }
}

// OnDrawError is called when the sink fails to draw a target.
func OnDrawError(f func(target string, err error)) RendererOption {
	return func(r *Renderer) { r.onError = f }
}

// NewRenderer creates a renderer drawing session charts on s.
func NewRenderer(sess *session.Session, s Sink, opts ...RendererOption) *Renderer {
	r := &Renderer{sess: sess, sink: s, bindings: Bindings(), log: logging.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Attach subscribes the renderer to bus until ctx ends.
func (r *Renderer) Attach(ctx context.Context, bus *session.Bus) error {
	return bus.Subscribe(ctx, r.Handle)
}

// Handle processes one change event.
func (r *Renderer) Handle(ctx context.Context, ev session.Event) {
	if ev.SessionID != "" && ev.SessionID != r.sess.ID() {
		return
	}
	changed := make(map[string]bool, len(ev.Fields))
	for _, f := range ev.Fields {
		changed[f] = true
	}
	var snap *session.Snapshot
	for _, b := range r.bindings {
		if !triggered(b, changed) {
			continue
		}
		if snap == nil {
			s := r.sess.Snapshot()
			snap = &s
		}
		if !snap.Done(b.Stage) {
			continue
		}
		r.draw(ctx, b, *snap)
	}
}

// DrawAll draws every target whose stage has completed.
func (r *Renderer) DrawAll(ctx context.Context) {
	snap := r.sess.Snapshot()
	for _, b := range r.bindings {
		if snap.Done(b.Stage) {
			r.draw(ctx, b, snap)
		}
	}
}

func (r *Renderer) draw(ctx context.Context, b Binding, snap session.Snapshot) {
	spec := b.Build(snap)
	if err := r.sink.Draw(ctx, spec); err != nil {
		r.log.Error("render", "draw failed", err, map[string]any{"target": b.Target})
		if r.onError != nil {
			r.onError(b.Target, err)
		}
		return
	}
	r.log.Debug("render", "chart drawn", map[string]any{"target": b.Target, "traces": len(spec.Traces)})
}

func triggered(b Binding, changed map[string]bool) bool {
	for _, f := range b.Fields {
		if changed[f] {
			return true
		}
	}
	return false
}
