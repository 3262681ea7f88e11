// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest resolves the analysis service endpoint layout: the base URL
// and one path per stage, defaulting to the service's stock routes.
package manifest

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Manifest is the resolved endpoint configuration.
type Manifest struct {
	BaseURL   string        `json:"base_url"`
	Endpoints HTTPEndpoints `json:"endpoints"`
}

// HTTPEndpoints contains the REST paths of the analysis service.
type HTTPEndpoints struct {
	Upload         string `json:"upload"`         // e.g. "/upload-file/"
	Combo          string `json:"combo"`          // e.g. "/process-combo-plot/"
	VCL            string `json:"vcl"`            // e.g. "/process-vcl-plot/"
	PHI            string `json:"phi"`            // e.g. "/process-phi-plot/"
	Pickett        string `json:"pickett"`        // e.g. "/process-pickett-plot/"
	SW             string `json:"sw"`             // e.g. "/process-sw-plot/"
	Cutoff         string `json:"cutoff"`         // e.g. "/process-cutoff-plot/"
	Interpretation string `json:"interpretation"` // e.g. "/process-interpretation-plot/"
}

// DefaultEndpoints returns the stock route layout.
func DefaultEndpoints() HTTPEndpoints {
	return HTTPEndpoints{
		Upload:         "/upload-file/",
		Combo:          "/process-combo-plot/",
		VCL:            "/process-vcl-plot/",
		PHI:            "/process-phi-plot/",
		Pickett:        "/process-pickett-plot/",
		SW:             "/process-sw-plot/",
		Cutoff:         "/process-cutoff-plot/",
		Interpretation: "/process-interpretation-plot/",
	}
}

func (e *HTTPEndpoints) slots() map[string]*string {
	return map[string]*string{
		"upload":         &e.Upload,
		"combo":          &e.Combo,
		"vcl":            &e.VCL,
		"phi":            &e.PHI,
		"pickett":        &e.Pickett,
		"sw":             &e.SW,
		"cutoff":         &e.Cutoff,
		"interpretation": &e.Interpretation,
	}
}

// Path returns the path for a stage name (or "upload").
func (e HTTPEndpoints) Path(name string) (string, bool) {
	p, ok := e.slots()[name]
	if !ok {
		return "", false
	}
	return *p, true
}

// Override replaces paths by name. Unknown names are an error.
func (e *HTTPEndpoints) Override(paths map[string]string) error {
	slots := e.slots()
	names := make([]string, 0, len(paths))
	for k := range paths {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		slot, ok := slots[name]
		if !ok {
			return fmt.Errorf("unknown endpoint %q", name)
		}
		p := strings.TrimSpace(paths[name])
		if p == "" {
			return fmt.Errorf("endpoint %q has an empty path", name)
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		*slot = p
	}
	return nil
}

// URL joins the base URL with the path for name.
func (m *Manifest) URL(name string) (string, error) {
	p, ok := m.Endpoints.Path(name)
	if !ok {
		return "", fmt.Errorf("unknown endpoint %q", name)
	}
	return m.BaseURL + p, nil
}

// Host returns the host:port of the base URL.
func (m *Manifest) Host() string {
	u, err := url.Parse(m.BaseURL)
	if err != nil {
		return ""
	}
	return u.Host
}
