// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sink delivers chart specifications to rendering targets. A target is
// keyed by name and drawing it again replaces what was there.
package sink

import (
	"context"
	"errors"

	"wellplot/cli/internal/charts"
)

// Sink draws a chart on the target named by spec.Target.
type Sink interface {
	Draw(ctx context.Context, spec charts.Spec) error
}

// Multi draws on every sink in order. A failing sink does not stop the others.
type Multi []Sink

// Draw implements Sink.
func (m Multi) Draw(ctx context.Context, spec charts.Spec) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Draw(ctx, spec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
