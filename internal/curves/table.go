// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package curves defines the in-memory columnar well-log dataset exchanged with the
// analysis service: named, depth-aligned curves of nullable samples plus per-curve
// display metadata and the selectable model variants the service reports per stage.
//
// Tables are treated as immutable values. The analysis service returns a complete
// table after every stage and the session swaps it in wholesale; nothing in this
// package patches a table in place.
package curves

import (
	"fmt"
	"math"
)

// DepthCurve is the measured-depth curve every table is aligned to.
const DepthCurve = "MD"

// Value is a single optional sample. The zero value is an absent sample.
type Value struct {
	V     float64
	Valid bool
}

// Some returns a present sample.
func Some(v float64) Value { return Value{V: v, Valid: true} }

// None returns an absent sample.
func None() Value { return Value{} }

// Floats converts plain numbers into present samples.
func Floats(vs ...float64) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Some(v)
	}
	return out
}

// Table is an ordered set of equally long curves.
type Table struct {
	names []string
	cols  map[string][]Value
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{cols: make(map[string][]Value)}
}

// With appends (or replaces) a curve and returns the table for chaining.
// It is meant for building tables, not for mutating a published one.
func (t *Table) With(name string, values []Value) *Table {
	if _, ok := t.cols[name]; !ok {
		t.names = append(t.names, name)
	}
	t.cols[name] = values
	return t
}

// Names returns curve names in table order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether the named curve exists.
func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.cols[name]
	return ok
}

// Curve returns the samples for name.
func (t *Table) Curve(name string) ([]Value, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.cols[name]
	return v, ok
}

// Len returns the row count, taken from the depth curve when present.
func (t *Table) Len() int {
	if t == nil || len(t.names) == 0 {
		return 0
	}
	if d, ok := t.cols[DepthCurve]; ok {
		return len(d)
	}
	return len(t.cols[t.names[0]])
}

// Validate checks the row-alignment invariant: the depth curve exists and every
// curve has the same number of samples.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("curve table is missing")
	}
	if !t.Has(DepthCurve) {
		return fmt.Errorf("curve table has no %s curve", DepthCurve)
	}
	n := t.Len()
	for _, name := range t.names {
		if got := len(t.cols[name]); got != n {
			return fmt.Errorf("curve %s has %d samples, expected %d", name, got, n)
		}
	}
	return nil
}

// Filter returns a new table holding only the given rows, applied identically to
// every curve so alignment is preserved.
func (t *Table) Filter(rows []int) *Table {
	out := NewTable()
	if t == nil {
		return out
	}
	for _, name := range t.names {
		src := t.cols[name]
		dst := make([]Value, 0, len(rows))
		for _, r := range rows {
			if r >= 0 && r < len(src) {
				dst = append(dst, src[r])
			}
		}
		out.With(name, dst)
	}
	return out
}

// Rows returns the indices for which keep returns true on the named curve.
// Absent samples are passed to keep so callers decide how to treat them.
func (t *Table) Rows(name string, keep func(Value) bool) []int {
	vals, ok := t.Curve(name)
	if !ok {
		return nil
	}
	var rows []int
	for i, v := range vals {
		if keep(v) {
			rows = append(rows, i)
		}
	}
	return rows
}

// Min returns the smallest present sample of the curve.
func (t *Table) Min(name string) (float64, bool) {
	return t.reduce(name, func(a, b float64) bool { return b < a })
}

// Max returns the largest present sample of the curve.
func (t *Table) Max(name string) (float64, bool) {
	return t.reduce(name, func(a, b float64) bool { return b > a })
}

func (t *Table) reduce(name string, better func(cur, cand float64) bool) (float64, bool) {
	vals, ok := t.Curve(name)
	if !ok {
		return 0, false
	}
	found := false
	var best float64
	for _, v := range vals {
		if !v.Valid || math.IsNaN(v.V) {
			continue
		}
		if !found || better(best, v.V) {
			best = v.V
			found = true
		}
	}
	return best, found
}
