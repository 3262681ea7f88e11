// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package analysis

import (
	"bytes"
	"mime/multipart"
	"strconv"
)

type field struct {
	name  string
	value string
}

// Form is an ordered set of multipart form fields. Optional values that are
// absent never become fields; the service then applies its own default.
type Form struct {
	fields []field
}

// NewForm returns an empty form.
func NewForm() *Form { return &Form{} }

// Set adds a required text field.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, field{name: name, value: value})
	return f
}

// SetFloat adds a required numeric field.
func (f *Form) SetFloat(name string, v float64) *Form {
	return f.Set(name, strconv.FormatFloat(v, 'f', -1, 64))
}

// SetOptional adds a numeric field only when v is present.
func (f *Form) SetOptional(name string, v *float64) *Form {
	if v == nil {
		return f
	}
	return f.SetFloat(name, *v)
}

// Get returns the value of name.
func (f *Form) Get(name string) (string, bool) {
	for _, fl := range f.fields {
		if fl.name == name {
			return fl.value, true
		}
	}
	return "", false
}

// Names lists field names in insertion order.
func (f *Form) Names() []string {
	out := make([]string, len(f.fields))
	for i, fl := range f.fields {
		out[i] = fl.name
	}
	return out
}

// Map returns the fields as a map, for logging.
func (f *Form) Map() map[string]any {
	out := make(map[string]any, len(f.fields))
	for _, fl := range f.fields {
		out[fl.name] = fl.value
	}
	return out
}

// encode writes the form as multipart/form-data and returns the content type.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fl := range f.fields {
		if err := w.WriteField(fl.name, fl.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
