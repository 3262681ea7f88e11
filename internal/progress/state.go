// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package progress tracks stage progress during a pipeline run and draws it
// in the terminal.
package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"wellplot/cli/internal/pipeline"
	"wellplot/cli/internal/session"
)

// State tracks the stages of one run. It implements pipeline.Observer; the
// orchestrator calls it from several goroutines during fan-out.
type State struct {
	// Active maps running stages to their start time
	Active map[session.Stage]time.Time
	// Completed maps finished stages to their duration
	Completed map[session.Stage]time.Duration
	// Failed maps stages to the failure message
	Failed map[session.Stage]string
	// Skipped maps stages not attempted because an upstream failed to the reason
	Skipped map[session.Stage]string
	// Order is the display order: planned stages first, then any started later
	Order []session.Stage

	now func() time.Time
	mu  sync.Mutex
}

var _ pipeline.Observer = (*State)(nil)

// NewState creates an empty State.
func NewState() *State {
	s := &State{now: time.Now}
	s.Reset()
	return s
}

// Reset clears all progress, preparing for a new run.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Active = make(map[session.Stage]time.Time)
	s.Completed = make(map[session.Stage]time.Duration)
	s.Failed = make(map[session.Stage]string)
	s.Skipped = make(map[session.Stage]string)
	s.Order = nil
}

// Expect adds planned stages in order.
func (s *State) Expect(stages ...session.Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range stages {
		s.addLocked(st)
	}
}

func (s *State) addLocked(st session.Stage) {
	for _, o := range s.Order {
		if o == st {
			return
		}
	}
	s.Order = append(s.Order, st)
}

// StageStarted implements pipeline.Observer.
func (s *State) StageStarted(st session.Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(st)
	s.Active[st] = s.now()
}

// StageFinished implements pipeline.Observer.
func (s *State) StageFinished(res pipeline.StageResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(res.Stage)
	delete(s.Active, res.Stage)
	switch {
	case res.OK:
		s.Completed[res.Stage] = res.Duration
	case res.Skipped:
		s.Skipped[res.Stage] = res.Message
	default:
		s.Failed[res.Stage] = res.Message
	}
}

// ExpectedCount returns the number of stages shown.
func (s *State) ExpectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Order)
}

// CompletedCount returns the number of stages that succeeded.
func (s *State) CompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Completed)
}

// HasFailures reports whether any stage failed or was skipped.
func (s *State) HasFailures() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Failed) > 0 || len(s.Skipped) > 0
}

// IsFullyCompleted reports whether every shown stage succeeded.
func (s *State) IsFullyCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Order) > 0 && len(s.Completed) == len(s.Order)
}

// Lines renders one plain line per stage. frame is the spinner glyph used for
// running stages.
func (s *State) Lines(frame string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	lines := make([]string, 0, len(s.Order))
	for _, st := range s.Order {
		var line string
		switch {
		case hasKey(s.Completed, st):
			line = fmt.Sprintf("✓ %-15s %s", st, round(s.Completed[st]))
		case hasKey(s.Failed, st):
			line = fmt.Sprintf("✗ %-15s %s", st, s.Failed[st])
		case hasKey(s.Skipped, st):
			line = fmt.Sprintf("- %-15s %s", st, s.Skipped[st])
		case hasKey(s.Active, st):
			line = fmt.Sprintf("%s %-15s %s", frame, st, round(now.Sub(s.Active[st])))
		default:
			line = fmt.Sprintf("· %-15s waiting", st)
		}
		lines = append(lines, line)
	}
	return lines
}

func hasKey[V any](m map[session.Stage]V, k session.Stage) bool {
	_, ok := m[k]
	return ok
}

func round(d time.Duration) time.Duration {
	return d.Round(100 * time.Millisecond)
}

// RenderState holds the animation frame and line padding of the display.
type RenderState struct {
	// FrameIdx is the current spinner frame
	FrameIdx int
	// MaxLineLen is the widest line drawn so far, so shorter updates erase it
	MaxLineLen int
	// LastRendered is the last area content, to skip identical updates
	LastRendered string
	mu           sync.Mutex
}

// NewRenderState creates a RenderState.
func NewRenderState() *RenderState { return &RenderState{} }

// Next advances the frame and returns the new index.
func (rs *RenderState) Next() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.FrameIdx++
	return rs.FrameIdx
}

// Changed records content and reports whether it differs from the last call.
func (rs *RenderState) Changed(content string) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if content == rs.LastRendered {
		return false
	}
	rs.LastRendered = content
	return true
}

// FormatLine pads line to the widest line seen so far.
func (rs *RenderState) FormatLine(line string) string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	n := utf8.RuneCountInString(line)
	if n > rs.MaxLineLen {
		rs.MaxLineLen = n
	}
	if pad := rs.MaxLineLen - n; pad > 0 {
		return line + strings.Repeat(" ", pad)
	}
	return line
}
