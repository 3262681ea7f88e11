// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"wellplot/cli/internal/pipeline"
	"wellplot/cli/internal/session"
)

// runPipeline runs every stage downstream of from and prints the outcome.
// An unknown position is the only error; stage failures are reported.
func (a *app) runPipeline(ctx context.Context, from string) (pipeline.RunReport, error) {
	plan, err := pipeline.Plan(from)
	if err != nil {
		return pipeline.RunReport{}, err
	}
	var report pipeline.RunReport
	a.track(plan, func() {
		report, err = a.orch.RunFrom(ctx, from)
	})
	if err != nil {
		return report, err
	}
	for _, res := range report.Results {
		a.printHint(res)
	}
	printSummary(report)
	return report, nil
}

// runCombo draws the overview plot.
func (a *app) runCombo(ctx context.Context) pipeline.StageResult {
	var res pipeline.StageResult
	a.track([]session.Stage{session.StageCombo}, func() {
		res = a.orch.RunCombo(ctx)
	})
	a.printHint(res)
	return res
}

// runOne runs a single stage. force treats it as an entry point, skipping the
// prerequisite check.
func (a *app) runOne(ctx context.Context, name string, force bool) (pipeline.StageResult, error) {
	st, ok := session.ParseStage(name)
	if !ok {
		return pipeline.StageResult{}, fmt.Errorf("unknown stage %q (one of %v)", name, session.Stages)
	}
	if st == session.StageCombo {
		return a.runCombo(ctx), nil
	}
	var res pipeline.StageResult
	a.track([]session.Stage{st}, func() {
		if force {
			res = a.orch.RunStageAsEntry(ctx, st)
		} else {
			res = a.orch.RunStage(ctx, st)
		}
	})
	a.printHint(res)
	return res, nil
}
