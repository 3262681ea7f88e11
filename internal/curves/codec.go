// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package curves

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// MarshalJSON encodes an absent sample as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid || math.IsNaN(v.V) || math.IsInf(v.V, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.V, 'g', -1, 64)), nil
}

// UnmarshalJSON decodes null into an absent sample, never into zero.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = None()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("curve sample %s: %w", string(b), err)
	}
	*v = Some(f)
	return nil
}

// MarshalJSON writes curves as an object in table order.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range t.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		vals, err := json.Marshal(t.cols[name])
		if err != nil {
			return nil, err
		}
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a `{"curve": [..], ...}` object, keeping key order.
func (t *Table) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("curve table must be a JSON object")
	}
	fresh := NewTable()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected curve key %v", tok)
		}
		var vals []Value
		if err := dec.Decode(&vals); err != nil {
			return fmt.Errorf("curve %s: %w", name, err)
		}
		fresh.With(name, vals)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = *fresh
	return nil
}
