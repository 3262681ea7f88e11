// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package curves

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Option is a selectable model variant reported by the analysis service.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// UnmarshalJSON accepts both "label" and the service's "text" key.
func (o *Option) UnmarshalJSON(b []byte) error {
	var raw struct {
		Value string `json:"value"`
		Label string `json:"label"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	o.Value = raw.Value
	o.Label = raw.Label
	if o.Label == "" {
		o.Label = raw.Text
	}
	return nil
}

// Options is a list of dropdown entries.
type Options []Option

// UnmarshalJSON accepts either a JSON array or a string holding a JSON array;
// the service double-encodes the dropdown lists.
func (opts *Options) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return err
		}
		b = []byte(inner)
	}
	var list []Option
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("dropdown options: %w", err)
	}
	*opts = list
	return nil
}

// Contains reports whether value is one of the options.
func (opts Options) Contains(value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
