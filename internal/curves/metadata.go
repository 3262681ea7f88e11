// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package curves

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Limits is a display range for a curve axis.
type Limits struct {
	Min float64
	Max float64
}

// Reversed swaps the bounds.
func (l Limits) Reversed() Limits { return Limits{Min: l.Max, Max: l.Min} }

// MarshalJSON writes limits as a two element array.
func (l Limits) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{l.Min, l.Max})
}

// CurveMeta holds axis labelling data for one curve.
type CurveMeta struct {
	Unit   string  `json:"unit"`
	Limits *Limits `json:"limits,omitempty"`
}

// UnmarshalJSON accepts limits as a pair of numbers. A null or non-finite bound
// leaves the limits absent so the axis falls back to automatic scaling.
func (m *CurveMeta) UnmarshalJSON(b []byte) error {
	var raw struct {
		Unit   any               `json:"unit"`
		Limits []json.RawMessage `json:"limits"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = CurveMeta{}
	if raw.Unit != nil {
		m.Unit = strings.TrimSpace(fmt.Sprint(raw.Unit))
	}
	if len(raw.Limits) != 2 {
		return nil
	}
	var bounds [2]float64
	for i, r := range raw.Limits {
		if bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			return nil
		}
		if err := json.Unmarshal(r, &bounds[i]); err != nil {
			return nil
		}
		if math.IsNaN(bounds[i]) || math.IsInf(bounds[i], 0) {
			return nil
		}
	}
	m.Limits = &Limits{Min: bounds[0], Max: bounds[1]}
	return nil
}

// Metadata maps curve names to their display metadata. Missing entries are legal.
type Metadata map[string]CurveMeta

// Get returns the metadata for name, or the zero value when absent.
func (md Metadata) Get(name string) CurveMeta {
	if md == nil {
		return CurveMeta{}
	}
	return md[name]
}

// Unit returns the unit of name, empty when unknown.
func (md Metadata) Unit(name string) string { return md.Get(name).Unit }

// Limits returns the display limits of name, nil when unknown.
func (md Metadata) Limits(name string) *Limits {
	l := md.Get(name).Limits
	if l == nil {
		return nil
	}
	cp := *l
	return &cp
}

// Title renders the usual "NAME (unit)" axis title.
func (md Metadata) Title(name string) string {
	return fmt.Sprintf("%s (%s)", name, md.Unit(name))
}
