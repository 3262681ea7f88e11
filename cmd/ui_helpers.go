// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"wellplot/cli/internal/pipeline"
	"wellplot/cli/internal/terminal"

	"github.com/pterm/pterm"
)

const spinnerInterval = 120 * time.Millisecond

// startInlineSpinner animates frames followed by text on one line until the
// returned function is called, which clears the line. Nothing is drawn when
// stdout is not a terminal.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	if !terminal.IsInteractive() {
		return func() {}
	}
	text = terminal.Fit(text, terminal.Width()-2)
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}

// printSummary closes a run with a one-line verdict.
func printSummary(report pipeline.RunReport) {
	ok := 0
	for _, res := range report.Results {
		if res.OK {
			ok++
		}
	}
	pterm.Println()
	if report.OK() {
		pterm.Success.Printfln("%d of %d stages completed", ok, len(report.Results))
		return
	}
	pterm.Warning.Printfln("%d of %d stages completed", ok, len(report.Results))
}
