// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolve builds the manifest for baseURL with path overrides applied and
// caches it for the rest of the process.
func Resolve(baseURL string, overrides map[string]string) (*Manifest, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid service URL %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("service URL %q must use http or https", baseURL)
	}
	ep := DefaultEndpoints()
	if err := ep.Override(overrides); err != nil {
		return nil, err
	}
	m := &Manifest{BaseURL: base, Endpoints: ep}
	SetCached(m)
	return m, nil
}

// GetEndpoints returns the cached manifest or resolves a fresh one.
func GetEndpoints(baseURL string, overrides map[string]string) (*Manifest, error) {
	if cached := GetCached(); cached != nil && cached.BaseURL == strings.TrimRight(strings.TrimSpace(baseURL), "/") {
		return cached, nil
	}
	return Resolve(baseURL, overrides)
}
