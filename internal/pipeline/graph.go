// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pipeline

import (
	"fmt"
	"strings"

	"wellplot/cli/internal/session"
)

// Stage is an alias kept for call sites that only import pipeline.
type Stage = session.Stage

// upstream is the data prerequisite of each stage. Pickett precedes Cutoff in
// the run order but produces no data, so Cutoff depends on SW only.
var upstream = map[Stage]Stage{
	session.StagePHI:            session.StageVCL,
	session.StagePickett:        session.StagePHI,
	session.StageSW:             session.StagePHI,
	session.StageCutoff:         session.StageSW,
	session.StageInterpretation: session.StageCutoff,
}

// Upstream returns the declared prerequisite of s, if any.
func Upstream(s Stage) (Stage, bool) {
	u, ok := upstream[s]
	return u, ok
}

// step is one position in a run: a single stage or a concurrent group.
type step []Stage

// path describes a resumable run: its steps and which stages are entry points
// exempt from the completion guard.
type path struct {
	steps   []step
	entries map[Stage]bool
}

var (
	fanOut = step{session.StagePickett, session.StageSW}
	tail   = []step{{session.StageCutoff}, {session.StageInterpretation}}
)

func pathFrom(from string) (path, error) {
	switch strings.ToLower(strings.TrimSpace(from)) {
	case "":
		return path{
			steps:   append([]step{{session.StageVCL}, {session.StagePHI}, fanOut}, tail...),
			entries: map[Stage]bool{session.StageVCL: true},
		}, nil
	case string(session.StageVCL):
		return path{
			steps:   append([]step{{session.StagePHI}, fanOut}, tail...),
			entries: map[Stage]bool{session.StagePHI: true},
		}, nil
	case string(session.StagePHI):
		return path{
			steps:   append([]step{fanOut}, tail...),
			entries: map[Stage]bool{session.StagePickett: true, session.StageSW: true},
		}, nil
	case string(session.StageSW):
		return path{
			steps:   tail,
			entries: map[Stage]bool{session.StageCutoff: true},
		}, nil
	}
	return path{}, fmt.Errorf("cannot resume from %q (use vcl, phi or sw)", from)
}

// ValidateFrom reports whether from names a resumable position.
func ValidateFrom(from string) error {
	_, err := pathFrom(from)
	return err
}

// Plan lists the stages a run from the given position will attempt, in order.
// Stages of the concurrent group are listed in dispatch order.
func Plan(from string) ([]Stage, error) {
	p, err := pathFrom(from)
	if err != nil {
		return nil, err
	}
	var out []Stage
	for _, st := range p.steps {
		out = append(out, st...)
	}
	return out, nil
}
