// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal answers questions about the attached terminal.
package terminal

import (
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

// DefaultWidth is used when stdout is not a terminal.
const DefaultWidth = 80

// Width returns the current terminal width, or DefaultWidth when unknown.
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// IsInteractive reports whether stdout is a terminal; spinners are skipped otherwise.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Fit cuts line to at most width runes, marking the cut with an ellipsis.
func Fit(line string, width int) string {
	if width <= 0 || utf8.RuneCountInString(line) <= width {
		return line
	}
	if width == 1 {
		return "…"
	}
	runes := []rune(line)
	return string(runes[:width-1]) + "…"
}
