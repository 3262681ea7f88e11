// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sink

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wellplot/cli/internal/charts"
	"wellplot/cli/internal/logging"
)

// File writes <dir>/<target>.json with the Plotly figure and, when enabled, a
// <target>.png preview. Service-rendered images are always written as PNG.
type File struct {
	dir string
	png bool
	log *logging.Logger
}

// NewFile creates dir if needed.
func NewFile(dir string, png bool, log *logging.Logger) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &File{dir: dir, png: png, log: log}, nil
}

// Dir returns the output directory.
func (f *File) Dir() string { return f.dir }

// Path returns the file written for target with the given extension.
func (f *File) Path(target, ext string) string {
	return filepath.Join(f.dir, target+ext)
}

// Draw implements Sink.
func (f *File) Draw(_ context.Context, spec charts.Spec) error {
	b, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", spec.Target, err)
	}
	if err := writeAtomic(f.Path(spec.Target, ".json"), b); err != nil {
		return err
	}

	switch {
	case spec.Image != "":
		img, err := base64.StdEncoding.DecodeString(stripDataURL(spec.Image))
		if err != nil {
			return fmt.Errorf("decode %s image: %w", spec.Target, err)
		}
		return writeAtomic(f.Path(spec.Target, ".png"), img)
	case f.png:
		var buf bytes.Buffer
		if err := Preview(spec, &buf); err != nil {
			if errors.Is(err, ErrNothingToDraw) {
				f.log.Debug("sink", "no preview", map[string]any{"target": spec.Target})
				return nil
			}
			return fmt.Errorf("preview %s: %w", spec.Target, err)
		}
		return writeAtomic(f.Path(spec.Target, ".png"), buf.Bytes())
	}
	return nil
}

// stripDataURL accepts both bare base64 and "data:image/png;base64,..." values.
func stripDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		if _, rest, ok := strings.Cut(s, ","); ok {
			return rest
		}
	}
	return s
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".chart-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
