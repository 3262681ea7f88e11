// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"wellplot/cli/internal/analysis"
	"wellplot/cli/internal/config"
	"wellplot/cli/internal/errors"
	"wellplot/cli/internal/httperrors"
	"wellplot/cli/internal/keychain"
	"wellplot/cli/internal/logging"
	"wellplot/cli/internal/manifest"
	"wellplot/cli/internal/pipeline"
	"wellplot/cli/internal/progress"
	"wellplot/cli/internal/session"
	"wellplot/cli/internal/sink"
	"wellplot/cli/internal/xdg"

	"github.com/pterm/pterm"
)

// app is everything one invocation needs: a session, the orchestrator driving
// it, and the sinks the renderer draws into.
type app struct {
	cfg      config.Config
	log      *logging.Logger
	bus      *session.Bus
	sess     *session.Session
	orch     *pipeline.Orchestrator
	metrics  *pipeline.Metrics
	renderer *sink.Renderer
	memory   *sink.Memory
	files    *sink.File
	remote   *sink.Remote
	progress *progress.State
	display  *progress.Display
	cancel   context.CancelFunc
}

// newApp loads configuration, applies persistent flags and wires the session.
// Errors here are local setup errors and end the command with a non-zero exit.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flagServiceURL != "" {
		cfg.Service.URL = flagServiceURL
	}
	if flagOutputDir != "" {
		cfg.Output.Dir = flagOutputDir
	}
	if flagRenderAddr != "" {
		cfg.Output.RenderAddr = flagRenderAddr
	}
	if flagNoPNG {
		cfg.Output.PNG = false
	}

	a := &app{cfg: cfg}
	if a.log, err = openLogger(cfg); err != nil {
		return nil, err
	}

	m, err := manifest.GetEndpoints(cfg.Service.URL, cfg.Service.Endpoints)
	if err != nil {
		return nil, fmt.Errorf("service endpoints: %w", err)
	}
	client := analysis.New(m, analysis.WithToken(keychain.ServiceToken()), analysis.WithLogger(a.log))

	a.bus = session.NewBus(nil)
	a.sess = session.New(a.bus)
	if err := a.loadParams(ctx); err != nil {
		a.bus.Close()
		return nil, err
	}

	dir, err := cfg.ChartDir()
	if err != nil {
		a.bus.Close()
		return nil, err
	}
	if a.files, err = sink.NewFile(dir, cfg.Output.PNG, a.log); err != nil {
		a.bus.Close()
		return nil, fmt.Errorf("chart directory: %w", err)
	}
	a.memory = sink.NewMemory()
	sinks := sink.Multi{a.memory, a.files}
	if cfg.Output.RenderAddr != "" {
		if a.remote, err = sink.DialRemote(cfg.Output.RenderAddr, keychain.ServiceToken()); err != nil {
			a.bus.Close()
			return nil, err
		}
		sinks = append(sinks, a.remote)
	}

	a.renderer = sink.NewRenderer(a.sess, sinks,
		sink.WithRenderLogger(a.log),
		sink.OnDrawError(func(target string, err error) {
			pterm.Warning.Println(logging.FormatRenderError(target, err))
		}),
	)
	var rctx context.Context
	rctx, a.cancel = context.WithCancel(ctx)
	if err := a.renderer.Attach(rctx, a.bus); err != nil {
		a.Close()
		return nil, fmt.Errorf("attach renderer: %w", err)
	}

	a.progress = progress.NewState()
	a.display = progress.NewDisplay(a.progress)
	a.metrics = pipeline.NewMetrics()
	a.orch = pipeline.New(client, a.sess,
		pipeline.WithLogger(a.log),
		pipeline.WithMetrics(a.metrics),
		pipeline.WithObserver(a.display.Observer()),
	)
	a.log.Info("cmd", "session started", map[string]any{"session": a.sess.ID(), "service": m.Host(), "charts": dir})
	return a, nil
}

func openLogger(cfg config.Config) (*logging.Logger, error) {
	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	path := ""
	if dir, err := xdg.StateDir(); err == nil {
		path = filepath.Join(dir, "wellplot.log")
	}
	l, err := logging.New(logging.Options{Level: level, FilePath: path, Console: flagVerbose})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return l, nil
}

// loadParams seeds the session with --params and --set.
func (a *app) loadParams(ctx context.Context) error {
	p, err := flagParams(a.sess.Params())
	if err != nil {
		return err
	}
	return a.sess.ReplaceParams(ctx, p)
}

// flagParams applies --params and then every --set name=value onto p.
func flagParams(p session.Params) (session.Params, error) {
	if flagParamsFile != "" {
		if _, err := session.LoadParamsFile(flagParamsFile, &p); err != nil {
			return p, err
		}
	}
	for _, kv := range flagSet {
		name, value, ok := cutAssignment(kv)
		if !ok {
			return p, fmt.Errorf("--set %q: want name=value", kv)
		}
		if err := p.Set(name, value); err != nil {
			return p, err
		}
	}
	return p, p.Validate()
}

// upload sends a LAS file when --file is given.
func (a *app) upload(ctx context.Context, path string) (pipeline.StageResult, bool) {
	if path == "" {
		return pipeline.StageResult{}, true
	}
	f, err := os.Open(path)
	if err != nil {
		res := pipeline.StageResult{Stage: "upload", Kind: errors.Precondition, Message: err.Error()}
		a.printResult(res)
		return res, false
	}
	defer f.Close()

	stop := startInlineSpinner(os.Stdout, "Uploading "+filepath.Base(path), progress.Frames, spinnerInterval)
	res := a.orch.Upload(ctx, filepath.Base(path), f)
	stop()
	a.printResult(res)
	return res, res.OK
}

// track shows the progress area for stages while fn runs.
func (a *app) track(stages []session.Stage, fn func()) {
	a.progress.Reset()
	a.progress.Expect(stages...)
	a.display.Start()
	fn()
	a.display.Stop()
}

func (a *app) printResult(res pipeline.StageResult) {
	pterm.Println(logging.PresentStage(string(res.Stage), res.OK, res.Message))
	a.printHint(res)
}

func (a *app) printHint(res pipeline.StageResult) {
	if res.OK || res.Kind != errors.Transport {
		return
	}
	if hint := httperrors.Hint(stderrors.New(res.Message), a.cfg.Service.URL); hint != "" {
		pterm.Println(pterm.Gray(hint))
	}
}

// printCharts lists the chart files written this session.
func (a *app) printCharts() {
	targets := a.memory.Targets()
	if len(targets) == 0 {
		return
	}
	pterm.Println()
	pterm.DefaultSection.WithLevel(2).Println("Charts")
	for _, t := range targets {
		pterm.Printfln("  %-16s %s", t, a.files.Path(t, ".json"))
	}
}

// Close stops the renderer, the bus, the remote connection and the logger.
func (a *app) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.bus != nil {
		_ = a.bus.Close()
	}
	if a.remote != nil {
		_ = a.remote.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
