// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"wellplot/cli/internal/analysis"
	"wellplot/cli/internal/charts"
	"wellplot/cli/internal/curves"
	"wellplot/cli/internal/errors"
	"wellplot/cli/internal/pipeline"
	"wellplot/cli/internal/progress"
	"wellplot/cli/internal/session"
	"wellplot/cli/internal/sink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	mu    sync.Mutex
	calls []session.Stage
	fail  map[session.Stage]bool
}

func (s *stubService) Run(_ context.Context, st session.Stage, _ *analysis.Form) (analysis.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, st)
	if s.fail[st] {
		return analysis.Result{}, errors.Rejectedf(string(st), 500, "")
	}
	tbl := curves.NewTable().
		With("MD", curves.Floats(1000, 1001)).
		With("GR", curves.Floats(40, 90)).
		With("VCL", curves.Floats(0.1, 0.5))
	return analysis.Result{Message: string(st) + " done", Table: tbl}, nil
}

func (s *stubService) Upload(context.Context, string, io.Reader) error { return nil }

func newTestApp(t *testing.T, svc *stubService) *app {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	bus := session.NewBus(nil)
	sess := session.New(bus)
	mem := sink.NewMemory()
	files, err := sink.NewFile(t.TempDir(), false, nil)
	require.NoError(t, err)
	r := sink.NewRenderer(sess, sink.Multi{mem, files})
	require.NoError(t, r.Attach(ctx, bus))

	state := progress.NewState()
	display := progress.NewDisplay(state)
	a := &app{
		bus: bus, sess: sess, memory: mem, files: files, renderer: r,
		progress: state, display: display, cancel: cancel,
		metrics: pipeline.NewMetrics(),
	}
	a.orch = pipeline.New(svc, sess, pipeline.WithMetrics(a.metrics), pipeline.WithObserver(display.Observer()))
	t.Cleanup(a.Close)
	return a
}

func TestShellSetAndStage(t *testing.T) {
	svc := &stubService{}
	a := newTestApp(t, svc)
	ctx := context.Background()

	in := strings.NewReader("set rw 0.1\nstage vcl\nstage phi force\nbogus\nquit\nstage sw\n")
	require.NoError(t, a.repl(ctx, in))

	assert.Equal(t, 0.1, a.sess.Params().Res.Rw)
	assert.Equal(t, []session.Stage{session.StageVCL, session.StagePHI}, svc.calls, "nothing runs after quit")
	assert.True(t, a.sess.Done(session.StageVCL))
	assert.True(t, a.sess.Done(session.StagePHI))
	assert.Equal(t, 1, a.memory.Draws(charts.TargetVCL))
}

func TestShellRunReportsFailures(t *testing.T) {
	svc := &stubService{fail: map[session.Stage]bool{session.StageSW: true}}
	a := newTestApp(t, svc)

	require.NoError(t, a.repl(context.Background(), strings.NewReader("run\n")))

	assert.True(t, a.sess.Done(session.StagePickett))
	assert.False(t, a.sess.Done(session.StageSW))
	assert.False(t, a.sess.Done(session.StageCutoff))
	assert.NotContains(t, svc.calls, session.StageCutoff)
	assert.True(t, a.progress.HasFailures())
}

func TestExecErrors(t *testing.T) {
	a := newTestApp(t, &stubService{})
	ctx := context.Background()
	tests := []struct {
		name string
		cmd  string
		args []string
		want string
	}{
		{"unknown command", "plot", nil, "unknown command"},
		{"unknown stage", "stage", []string{"porosity"}, "unknown stage"},
		{"bad resume", "run", []string{"cutoff"}, "cannot resume"},
		{"unknown param", "set", []string{"nope", "1"}, "unknown parameter"},
		{"bad number", "set", []string{"rw", "abc"}, "not a number"},
		{"missing args", "upload", nil, "usage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.exec(ctx, tt.cmd, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCutAssignment(t *testing.T) {
	tests := []struct {
		in          string
		name, value string
		ok          bool
	}{
		{"rw=0.1", "rw", "0.1", true},
		{" gr_clean =", "gr_clean", "", true},
		{"=1", "", "1", false},
		{"rw", "rw", "", false},
	}
	for _, tt := range tests {
		name, value, ok := cutAssignment(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if ok {
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.value, value)
		}
	}
}
