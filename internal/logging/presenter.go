// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// PresentStage formats one stage outcome line. Multi-line service messages are
// indented under the stage name.
func PresentStage(stage string, ok bool, message string) string {
	mark := pterm.NewStyle(pterm.FgGreen).Sprint("✓")
	if !ok {
		mark = pterm.NewStyle(pterm.FgRed).Sprint("✗")
	}
	name := pterm.NewStyle(pterm.Bold).Sprintf("%-14s", stage)
	lines := strings.Split(strings.TrimSpace(Mask(message)), "\n")
	return fmt.Sprintf("%s %s %s", mark, name, strings.Join(lines, "\n"+strings.Repeat(" ", 17)))
}
