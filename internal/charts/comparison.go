// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package charts

import (
	"strings"

	"wellplot/cli/internal/curves"
)

// Comparison plots every curve whose name starts with prefix against depth on
// a single axis, in table order. It serves both the porosity and the
// saturation model comparisons.
func Comparison(t *curves.Table, md curves.Metadata, prefix string) Spec {
	spec := Spec{
		Kind:   KindComparison,
		Target: "compare-" + prefix,
		Layout: Layout{
			Height:     3000,
			ShowLegend: true,
			Axes: map[string]Axis{
				"y": depthAxis(md, 1),
				"x": {
					Title:    md.Title(prefix),
					Side:     "top",
					Range:    limitsRange(md.Limits(prefix)),
					ZeroLine: off(),
				},
			},
		},
	}
	for _, name := range t.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if tr, ok := depthTrace(t, name, "x", ""); ok {
			spec.Traces = append(spec.Traces, tr)
		}
	}
	return spec
}
