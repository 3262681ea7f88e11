// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package progress

import (
	"strings"
	"sync"
	"time"

	"wellplot/cli/internal/logging"
	"wellplot/cli/internal/pipeline"
	"wellplot/cli/internal/session"
	"wellplot/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

// Frames are the braille spinner frames.
var Frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const tick = 120 * time.Millisecond

// Display draws a State in a pterm area while stages run. On a non-interactive
// stdout it prints one line per finished stage instead.
type Display struct {
	state       *State
	render      *RenderState
	interactive bool

	area *pterm.AreaPrinter
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewDisplay creates a display for state.
func NewDisplay(state *State) *Display {
	return &Display{state: state, render: NewRenderState(), interactive: terminal.IsInteractive()}
}

// Observer returns the observer to hand to the orchestrator.
func (d *Display) Observer() pipeline.Observer {
	if d.interactive {
		return d.state
	}
	return printer{d.state}
}

// Start begins animating. It is a no-op when stdout is not a terminal.
func (d *Display) Start() {
	if !d.interactive || d.area != nil {
		return
	}
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return
	}
	d.area = area
	d.stop = make(chan struct{})
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				d.update(d.render.Next())
			case <-d.stop:
				return
			}
		}
	}()
}

// Stop removes the area, shows the cursor and prints the final stage lines.
func (d *Display) Stop() {
	if d.area == nil {
		return
	}
	close(d.stop)
	d.wg.Wait()
	d.area.Stop()
	d.area = nil
	cursor.Show()

	d.state.mu.Lock()
	order := append([]session.Stage(nil), d.state.Order...)
	results := make([]pipeline.StageResult, 0, len(order))
	for _, st := range order {
		res := pipeline.StageResult{Stage: st}
		if dur, ok := d.state.Completed[st]; ok {
			res.OK, res.Duration = true, dur
		} else if msg, ok := d.state.Failed[st]; ok {
			res.Message = msg
		} else if msg, ok := d.state.Skipped[st]; ok {
			res.Skipped, res.Message = true, msg
		} else {
			continue
		}
		results = append(results, res)
	}
	d.state.mu.Unlock()
	for _, res := range results {
		present(res)
	}
}

func (d *Display) update(frame int) {
	width := terminal.Width()
	lines := d.state.Lines(Frames[frame%len(Frames)])
	for i, l := range lines {
		lines[i] = terminal.Fit(d.render.FormatLine(l), width)
	}
	content := strings.Join(lines, "\n")
	if d.render.Changed(content) {
		d.area.Update(content)
	}
}

type printer struct{ state *State }

func (p printer) StageStarted(s session.Stage) { p.state.StageStarted(s) }

func (p printer) StageFinished(res pipeline.StageResult) {
	p.state.StageFinished(res)
	present(res)
}

func present(res pipeline.StageResult) {
	msg := res.Message
	if res.OK && msg == "" {
		msg = round(res.Duration).String()
	}
	pterm.Println(logging.PresentStage(string(res.Stage), res.OK, msg))
}
