// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sink

import (
	"context"

	"wellplot/cli/internal/charts"

	"github.com/patrickmn/go-cache"
)

// Memory keeps the latest spec per target for the chart server.
type Memory struct {
	specs *cache.Cache
	draws *cache.Cache
}

// NewMemory creates an empty store. Entries never expire.
func NewMemory() *Memory {
	return &Memory{
		specs: cache.New(cache.NoExpiration, 0),
		draws: cache.New(cache.NoExpiration, 0),
	}
}

// Draw implements Sink.
func (m *Memory) Draw(_ context.Context, spec charts.Spec) error {
	m.specs.Set(spec.Target, spec, cache.NoExpiration)
	if err := m.draws.Add(spec.Target, 1, cache.NoExpiration); err != nil {
		_, _ = m.draws.IncrementInt(spec.Target, 1)
	}
	return nil
}

// Get returns the latest spec drawn on target.
func (m *Memory) Get(target string) (charts.Spec, bool) {
	if x, found := m.specs.Get(target); found {
		return x.(charts.Spec), true
	}
	return charts.Spec{}, false
}

// Targets lists drawn targets in pipeline order.
func (m *Memory) Targets() []string {
	var out []string
	for _, t := range charts.Targets {
		if _, ok := m.specs.Get(t); ok {
			out = append(out, t)
		}
	}
	return out
}

// Draws returns how many times target was drawn.
func (m *Memory) Draws(target string) int {
	if x, found := m.draws.Get(target); found {
		return x.(int)
	}
	return 0
}
