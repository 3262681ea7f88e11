// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package xdg resolves XDG Base Directory paths for wellplot.
// Config holds config.json, state holds the rotated log file, data holds
// rendered chart files when no output directory is configured.
package xdg

import (
	"os"
	"path/filepath"
)

const appDir = "wellplot"

// ConfigDir returns $XDG_CONFIG_HOME/wellplot, falling back to ~/.config/wellplot.
// The directory is created with private permissions (0700) if missing.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/wellplot, falling back to ~/.local/state/wellplot.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// DataDir returns $XDG_DATA_HOME/wellplot, falling back to ~/.local/share/wellplot.
func DataDir() (string, error) {
	return resolve("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func resolve(envKey, homeRel string) (string, error) {
	base := os.Getenv(envKey)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
