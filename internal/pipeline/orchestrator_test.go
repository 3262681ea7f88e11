// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pipeline

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"wellplot/cli/internal/analysis"
	"wellplot/cli/internal/curves"
	"wellplot/cli/internal/errors"
	"wellplot/cli/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	mu      sync.Mutex
	calls   []Stage
	forms   map[Stage]*analysis.Form
	replies map[Stage]func() (analysis.Result, error)
	before  func(Stage)
	uploads []string
	upErr   error
}

func newFake() *fakeService {
	return &fakeService{forms: map[Stage]*analysis.Form{}, replies: map[Stage]func() (analysis.Result, error){}}
}

func (f *fakeService) Run(_ context.Context, s Stage, form *analysis.Form) (analysis.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.forms[s] = form
	reply := f.replies[s]
	before := f.before
	f.mu.Unlock()

	if before != nil {
		before(s)
	}
	if reply == nil {
		return okResult(s), nil
	}
	return reply()
}

func (f *fakeService) Upload(_ context.Context, name string, _ io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, name)
	return f.upErr
}

func (f *fakeService) called() []Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Stage(nil), f.calls...)
}

func tableFor(s Stage) *curves.Table {
	return curves.NewTable().
		With(curves.DepthCurve, curves.Floats(1000, 1001)).
		With("STAGE_"+string(s), curves.Floats(1, 2))
}

func okResult(s Stage) analysis.Result {
	res := analysis.Result{Message: string(s) + " ok"}
	if s.ProducesTable() {
		res.Table = tableFor(s)
		res.Meta = curves.Metadata{}
	}
	switch s {
	case session.StageVCL, session.StagePHI, session.StageSW:
		res.Options = curves.Options{{Value: "x", Label: "X"}}
	case session.StageInterpretation:
		res.Image = "aW1n"
	}
	return res
}

func rejected(s Stage) func() (analysis.Result, error) {
	return func() (analysis.Result, error) {
		return analysis.Result{}, errors.Rejectedf(string(s), 500, "boom")
	}
}

type recorder struct {
	mu     sync.Mutex
	events []session.Event
}

func (r *recorder) Publish(_ context.Context, ev session.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) published(field string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		for _, f := range ev.Fields {
			if f == field {
				return true
			}
		}
	}
	return false
}

func TestGuardLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	svc := newFake()
	sess := session.New(nil)
	o := New(svc, sess)

	require.True(t, o.RunStageAsEntry(ctx, session.StageVCL).OK)
	before := sess.Snapshot()

	tests := []Stage{session.StageSW, session.StagePickett, session.StageCutoff, session.StageInterpretation}
	for _, s := range tests {
		t.Run(string(s), func(t *testing.T) {
			res := o.RunStage(ctx, s)
			assert.False(t, res.OK)
			assert.Equal(t, errors.Precondition, res.Kind)

			after := sess.Snapshot()
			assert.Same(t, before.Table, after.Table, "table must not change")
			assert.False(t, after.Done(s))
			assert.Contains(t, after.Message, "has not completed")
		})
	}
	assert.Equal(t, []Stage{session.StageVCL}, svc.called(), "guarded stages must not reach the service")
}

func TestFanOutPartialFailure(t *testing.T) {
	ctx := context.Background()
	svc := newFake()
	svc.replies[session.StagePickett] = rejected(session.StagePickett)
	rec := &recorder{}
	sess := session.New(rec)
	o := New(svc, sess)

	report, err := o.RunFrom(ctx, "phi")
	require.NoError(t, err)

	pickett, _ := report.Result(session.StagePickett)
	sw, _ := report.Result(session.StageSW)
	assert.False(t, pickett.OK)
	assert.Equal(t, errors.Rejected, pickett.Kind)
	assert.True(t, sw.OK)

	snap := sess.Snapshot()
	assert.False(t, snap.Done(session.StagePickett))
	assert.True(t, snap.Done(session.StageSW))
	assert.True(t, rec.published(session.FlagField(session.StageSW)), "SW chart trigger must be published")
	assert.False(t, rec.published(session.FlagField(session.StagePickett)))

	// Pickett carries no data, so its failure does not block the cutoff chain.
	cutoff, _ := report.Result(session.StageCutoff)
	interp, _ := report.Result(session.StageInterpretation)
	assert.True(t, cutoff.OK)
	assert.True(t, interp.OK)
	assert.True(t, snap.Table.Has("STAGE_cutoff"))
	assert.Equal(t, "aW1n", snap.Interpretation)

	var msgs []string
	for _, e := range snap.History {
		msgs = append(msgs, e.Message)
	}
	assert.Contains(t, msgs, "Failed to run pickett stage. Status code: 500\nError details: boom")
	assert.Contains(t, msgs, "sw ok")
}

func TestFanOutRunsConcurrently(t *testing.T) {
	svc := newFake()
	var started sync.WaitGroup
	started.Add(2)
	both := make(chan struct{})
	go func() { started.Wait(); close(both) }()
	svc.before = func(s Stage) {
		if s != session.StagePickett && s != session.StageSW {
			return
		}
		started.Done()
		select {
		case <-both:
		case <-time.After(2 * time.Second):
		}
	}

	o := New(svc, session.New(nil))
	done := make(chan RunReport, 1)
	go func() {
		r, _ := o.RunFrom(context.Background(), "phi")
		done <- r
	}()

	select {
	case <-both:
	case <-time.After(time.Second):
		t.Fatal("pickett and sw were not in flight at the same time")
	}
	report := <-done
	assert.True(t, report.OK())
}

func TestSWFailureHaltsDependents(t *testing.T) {
	svc := newFake()
	svc.replies[session.StageSW] = rejected(session.StageSW)
	sess := session.New(nil)
	o := New(svc, sess)

	report, err := o.RunFrom(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, report.OK())

	for _, s := range []Stage{session.StageCutoff, session.StageInterpretation} {
		res, ok := report.Result(s)
		require.True(t, ok)
		assert.True(t, res.Skipped, "%s should be skipped", s)
		assert.False(t, sess.Done(s))
	}
	assert.ElementsMatch(t,
		[]Stage{session.StageVCL, session.StagePHI, session.StagePickett, session.StageSW},
		svc.called())
	pickett, _ := report.Result(session.StagePickett)
	assert.True(t, pickett.OK, "independent branch still completes")
}

func TestStaleFlagDoesNotMaskFailure(t *testing.T) {
	ctx := context.Background()
	svc := newFake()
	sess := session.New(nil)
	o := New(svc, sess)
	_, err := o.RunFrom(ctx, "")
	require.NoError(t, err)

	// VCL now fails; PHI's flag from the last run must not let the chain continue.
	svc.replies[session.StageVCL] = rejected(session.StageVCL)
	svc.calls = nil
	report, err := o.RunFrom(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []Stage{session.StageVCL}, svc.called())
	phi, _ := report.Result(session.StagePHI)
	assert.True(t, phi.Skipped)
}

func TestResumeEntryIsExemptFromGuard(t *testing.T) {
	svc := newFake()
	sess := session.New(nil)
	o := New(svc, sess)

	report, err := o.RunFrom(context.Background(), "sw")
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, []Stage{session.StageCutoff, session.StageInterpretation}, svc.called())
	assert.True(t, sess.Done(session.StageInterpretation))
}

func TestRunFromRejectsUnknownPosition(t *testing.T) {
	o := New(newFake(), session.New(nil))
	_, err := o.RunFrom(context.Background(), "pickett")
	assert.Error(t, err)
}

func TestPlan(t *testing.T) {
	tests := []struct {
		from string
		want []Stage
	}{
		{"", []Stage{"vcl", "phi", "pickett", "sw", "cutoff", "interpretation"}},
		{"vcl", []Stage{"phi", "pickett", "sw", "cutoff", "interpretation"}},
		{"PHI", []Stage{"pickett", "sw", "cutoff", "interpretation"}},
		{"sw", []Stage{"cutoff", "interpretation"}},
	}
	for _, tt := range tests {
		got, err := Plan(tt.from)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "from %q", tt.from)
	}
}

func TestTransportFailureKeepsTable(t *testing.T) {
	ctx := context.Background()
	svc := newFake()
	sess := session.New(nil)
	o := New(svc, sess)
	require.True(t, o.RunCombo(ctx).OK)
	before := sess.Snapshot().Table

	svc.replies[session.StageVCL] = func() (analysis.Result, error) {
		return analysis.Result{}, errors.Wrap(errors.Transport, "post", io.ErrUnexpectedEOF)
	}
	res := o.RunStageAsEntry(ctx, session.StageVCL)
	assert.False(t, res.OK)
	assert.Equal(t, "An error occurred: unexpected EOF", res.Message)
	assert.Same(t, before, sess.Snapshot().Table)
	assert.Equal(t, res.Message, sess.Message())
}

func TestUploadResetsFlags(t *testing.T) {
	ctx := context.Background()
	svc := newFake()
	sess := session.New(nil)
	o := New(svc, sess)
	require.True(t, o.RunCombo(ctx).OK)

	res := o.Upload(ctx, "well.las", nil)
	assert.True(t, res.OK)
	assert.False(t, sess.Done(session.StageCombo))
	assert.Equal(t, "File well.las uploaded successfully", sess.Message())

	svc.upErr = errors.Rejectedf("upload", 500, "bad LAS")
	res = o.Upload(ctx, "bad.las", nil)
	assert.False(t, res.OK)
	assert.Equal(t, errors.Rejected, res.Kind)
}

func TestMetricsCountOutcomes(t *testing.T) {
	svc := newFake()
	svc.replies[session.StagePickett] = rejected(session.StagePickett)
	m := NewMetrics()
	o := New(svc, session.New(nil), WithMetrics(m))
	_, err := o.RunFrom(context.Background(), "phi")
	require.NoError(t, err)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "wellplot_stage_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			counts[labels["stage"]+"/"+labels["outcome"]] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, counts["pickett/rejected"])
	assert.Equal(t, 1.0, counts["sw/ok"])
	assert.Equal(t, 1.0, counts["interpretation/ok"])
}
