// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Values resolve in order: defaults, config.json, .env, WELLPLOT_* environment.
// Only non-secret settings are kept here; the service token goes to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wellplot/cli/internal/xdg"

	"github.com/joho/godotenv"
)

// DefaultServiceURL is where the analysis service listens in a local setup.
const DefaultServiceURL = "http://localhost:8000"

// Environment keys.
const (
	EnvServiceURL = "WELLPLOT_SERVICE_URL"
	EnvOutputDir  = "WELLPLOT_OUTPUT_DIR"
	EnvLogLevel   = "WELLPLOT_LOG_LEVEL"
	EnvRenderAddr = "WELLPLOT_RENDER_ADDR"
	EnvServeAddr  = "WELLPLOT_SERVE_ADDR"
	EnvPNG        = "WELLPLOT_PNG"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string        `json:"log_level"`
	Service  ServiceConfig `json:"service"`
	Output   OutputConfig  `json:"output"`
	// ServeAddr is the listen address of the chart server.
	ServeAddr string `json:"serve_addr"`
}

// ServiceConfig locates the analysis service.
type ServiceConfig struct {
	URL string `json:"url"`
	// Endpoints overrides stage endpoint paths, keyed by stage name.
	Endpoints map[string]string `json:"endpoints,omitempty"`
}

// OutputConfig selects where rendered charts go.
type OutputConfig struct {
	// Dir receives <target>.json files; empty means <XDG data>/charts.
	Dir string `json:"dir"`
	// PNG enables raster previews next to the JSON specs.
	PNG bool `json:"png"`
	// RenderAddr is an optional gRPC renderer (host:port).
	RenderAddr string `json:"render_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:  "info",
		Service:   ServiceConfig{URL: DefaultServiceURL},
		Output:    OutputConfig{PNG: true},
		ServeAddr: "127.0.0.1:8088",
	}
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; a missing file yields defaults. A .env file in the
// working directory and WELLPLOT_* variables override file values.
func Load() (Config, error) {
	c, err := LoadSaved()
	if err != nil {
		return c, err
	}
	// .env is optional
	_ = godotenv.Load()
	applyEnv(&c)
	return c, nil
}

// LoadSaved reads only the config file, without environment overrides, so an
// edit can be saved back without capturing them.
func LoadSaved() (Config, error) {
	c := Default()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, err
		}
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

func applyEnv(c *Config) {
	c.Service.URL = getEnv(EnvServiceURL, c.Service.URL)
	c.Output.Dir = getEnv(EnvOutputDir, c.Output.Dir)
	c.Output.RenderAddr = getEnv(EnvRenderAddr, c.Output.RenderAddr)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	c.ServeAddr = getEnv(EnvServeAddr, c.ServeAddr)
	c.Output.PNG = getEnvAsBool(EnvPNG, c.Output.PNG)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}

// ChartDir returns the configured output directory or the XDG default.
func (c Config) ChartDir() (string, error) {
	if c.Output.Dir != "" {
		return c.Output.Dir, nil
	}
	dir, err := xdg.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "charts"), nil
}
