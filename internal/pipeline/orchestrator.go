// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pipeline sequences analysis stages against the remote service.
//
// The graph is fixed: VCL → PHI → {Pickett, SW} → Cutoff → Interpretation, with
// Combo standing alone. Each stage call either applies its result to the session
// or leaves the session untouched apart from the status message; failures never
// escape a stage as errors. Pickett and SW run concurrently and are joined
// before Cutoff starts. Chart rendering hangs off the session change bus, whose
// publish blocks until renderers are done, so a stage's chart is drawn before
// the next stage starts.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"wellplot/cli/internal/analysis"
	"wellplot/cli/internal/errors"
	"wellplot/cli/internal/logging"
	"wellplot/cli/internal/session"

	"github.com/google/uuid"
)

// Service is the remote analysis boundary.
type Service interface {
	Run(ctx context.Context, stage session.Stage, form *analysis.Form) (analysis.Result, error)
	Upload(ctx context.Context, name string, r io.Reader) error
}

const (
	outcomeOK           = "ok"
	outcomePrecondition = string(errors.Precondition)
	outcomeSkipped      = "skipped"
)

// StageResult is the outcome of one stage within a run.
type StageResult struct {
	Stage    Stage         `json:"stage"`
	OK       bool          `json:"ok"`
	Skipped  bool          `json:"skipped,omitempty"`
	Kind     errors.Kind   `json:"kind,omitempty"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// RunReport summarizes a pipeline run.
type RunReport struct {
	ID      string        `json:"id"`
	From    string        `json:"from"`
	Results []StageResult `json:"results"`
}

// OK reports whether every attempted stage succeeded and none was skipped.
func (r RunReport) OK() bool {
	for _, res := range r.Results {
		if !res.OK {
			return false
		}
	}
	return true
}

// Result returns the outcome for stage s.
func (r RunReport) Result(s Stage) (StageResult, bool) {
	for _, res := range r.Results {
		if res.Stage == s {
			return res, true
		}
	}
	return StageResult{}, false
}

// Observer is notified when stages start and finish; used for progress output.
type Observer interface {
	StageStarted(s Stage)
	StageFinished(res StageResult)
}

// Orchestrator runs stages for one session.
type Orchestrator struct {
	svc     Service
	sess    *session.Session
	log     *logging.Logger
	metrics *Metrics
	obs     Observer
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

func WithLogger(l *logging.Logger) Option { return func(o *Orchestrator) { o.log = l } }
func WithMetrics(m *Metrics) Option       { return func(o *Orchestrator) { o.metrics = m } }
func WithObserver(obs Observer) Option    { return func(o *Orchestrator) { o.obs = obs } }

// New creates an orchestrator.
func New(svc Service, sess *session.Session, opts ...Option) *Orchestrator {
	o := &Orchestrator{svc: svc, sess: sess, log: logging.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Session returns the session the orchestrator mutates.
func (o *Orchestrator) Session() *session.Session { return o.sess }

// RunStage runs one stage with the completion guard applied.
func (o *Orchestrator) RunStage(ctx context.Context, s Stage) StageResult {
	return o.runStage(ctx, s, false)
}

// RunStageAsEntry runs one stage as an entry point, skipping the guard.
func (o *Orchestrator) RunStageAsEntry(ctx context.Context, s Stage) StageResult {
	return o.runStage(ctx, s, true)
}

// RunCombo draws the overview; it has no prerequisites and no dependents.
func (o *Orchestrator) RunCombo(ctx context.Context) StageResult {
	return o.runStage(ctx, session.StageCombo, true)
}

// RunFrom runs the pipeline downstream of from ("" runs everything from VCL).
// A failed stage halts the stages that depend on it; the concurrent pair is
// always joined before the run moves on.
func (o *Orchestrator) RunFrom(ctx context.Context, from string) (RunReport, error) {
	p, err := pathFrom(from)
	if err != nil {
		return RunReport{}, err
	}
	report := RunReport{ID: uuid.NewString(), From: from}
	failed := map[Stage]bool{}

	o.log.Info("pipeline", "run started", map[string]any{"run": report.ID, "from": from, "session": o.sess.ID()})
	for _, st := range p.steps {
		results := make([]StageResult, len(st))
		var wg sync.WaitGroup
		for i, stage := range st {
			if up, ok := upstream[stage]; ok && failed[up] {
				results[i] = o.skip(stage, up)
				continue
			}
			wg.Add(1)
			go func(i int, stage Stage) {
				defer wg.Done()
				results[i] = o.runStage(ctx, stage, p.entries[stage])
			}(i, stage)
		}
		wg.Wait()

		for _, res := range results {
			if !res.OK {
				failed[res.Stage] = true
			}
			report.Results = append(report.Results, res)
		}
	}
	o.log.Info("pipeline", "run finished", map[string]any{"run": report.ID, "ok": report.OK()})
	return report, nil
}

// Upload sends a LAS file and invalidates every completion flag, since all
// derived curves belong to the previous dataset.
func (o *Orchestrator) Upload(ctx context.Context, name string, r io.Reader) StageResult {
	start := time.Now()
	res := StageResult{Stage: "upload"}
	if err := o.svc.Upload(ctx, name, r); err != nil {
		res.Kind = errors.KindOf(err)
		res.Message = errors.Describe("upload", err)
		res.Duration = time.Since(start)
		_ = o.sess.Fail(ctx, "", res.Message)
		o.log.Error("pipeline", "upload failed", err, map[string]any{"file": name})
		return res
	}
	res.OK = true
	res.Message = fmt.Sprintf("File %s uploaded successfully", name)
	res.Duration = time.Since(start)
	if err := o.sess.ResetFlags(ctx); err != nil {
		o.log.Warn("pipeline", "publish failed", map[string]any{"error": err.Error()})
	}
	_ = o.sess.Note(ctx, res.Message)
	return res
}

func (o *Orchestrator) skip(s, failedUpstream Stage) StageResult {
	res := StageResult{
		Stage:   s,
		Skipped: true,
		Kind:    errors.Precondition,
		Message: fmt.Sprintf("skipped: %s failed", failedUpstream),
	}
	o.metrics.observe(s, outcomeSkipped, 0)
	o.notifyStart(s)
	o.notifyFinish(res)
	return res
}

func (o *Orchestrator) runStage(ctx context.Context, s Stage, entry bool) StageResult {
	o.notifyStart(s)
	start := time.Now()
	res := StageResult{Stage: s}

	finish := func(err error) StageResult {
		res.Duration = time.Since(start)
		outcome := outcomeOK
		if err != nil {
			res.Kind = errors.KindOf(err)
			if res.Kind == "" {
				res.Kind = errors.Transport
			}
			res.Message = errors.Describe(string(s), err)
			outcome = string(res.Kind)
			if perr := o.sess.Fail(ctx, s, res.Message); perr != nil {
				o.log.Warn("pipeline", "publish failed", map[string]any{"stage": s, "error": perr.Error()})
			}
			o.log.Error("pipeline", "stage failed", err, map[string]any{"stage": s, "kind": res.Kind})
		} else {
			res.OK = true
			o.log.Info("pipeline", "stage completed", map[string]any{"stage": s, "elapsed": res.Duration.String()})
		}
		o.metrics.observe(s, outcome, res.Duration)
		o.notifyFinish(res)
		return res
	}

	if !entry {
		if up, ok := upstream[s]; ok && !o.sess.Done(up) {
			return finish(errors.New(errors.Precondition, fmt.Sprintf("%s has not completed", up)))
		}
	}

	params := o.sess.Params()
	out, err := o.svc.Run(ctx, s, BuildForm(s, params))
	if err != nil {
		return finish(err)
	}

	u := session.Update{Stage: s, Message: out.Message, Interpretation: out.Image}
	if s.ProducesTable() {
		u.Table, u.Meta = out.Table, out.Meta
	}
	switch s {
	case session.StageVCL, session.StagePHI, session.StageSW:
		u.Options = out.Options
	}
	res.Message = out.Message
	if err := o.sess.Apply(ctx, u); err != nil {
		o.log.Warn("pipeline", "publish failed", map[string]any{"stage": s, "error": err.Error()})
	}
	return finish(nil)
}

func (o *Orchestrator) notifyStart(s Stage) {
	if o.obs != nil {
		o.obs.StageStarted(s)
	}
}

func (o *Orchestrator) notifyFinish(res StageResult) {
	if o.obs != nil {
		o.obs.StageFinished(res)
	}
}
