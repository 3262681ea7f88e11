// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package analysis is the client of the remote analysis service: one multipart
// POST per stage, decoded into a typed response schema that is validated at the
// boundary. Every failure comes back as an *errors.E so callers can tell
// transport problems, rejections and malformed bodies apart.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"wellplot/cli/internal/errors"
	"wellplot/cli/internal/logging"
	"wellplot/cli/internal/manifest"
	"wellplot/cli/internal/session"
)

// Client implements stage calls over the service's REST endpoints.
type Client struct {
	manifest *manifest.Manifest
	// client has no timeout: a stage call runs until the service answers or
	// the transport fails.
	client *http.Client
	token  string
	log    *logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.client = c } }

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option { return func(cl *Client) { cl.token = token } }

// WithLogger attaches a structured logger.
func WithLogger(l *logging.Logger) Option { return func(cl *Client) { cl.log = l } }

// New creates a client for the endpoints in m.
func New(m *manifest.Manifest, opts ...Option) *Client {
	c := &Client{
		manifest: m,
		client:   &http.Client{},
		log:      logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run posts form to the endpoint of stage and decodes the stage's response.
func (c *Client) Run(ctx context.Context, stage session.Stage, form *Form) (Result, error) {
	s, ok := newSchema(stage)
	if !ok {
		return Result{}, &errors.E{Kind: errors.Precondition, Stage: string(stage), Message: "unknown stage"}
	}
	url, err := c.manifest.URL(string(stage))
	if err != nil {
		return Result{}, &errors.E{Kind: errors.Precondition, Stage: string(stage), Message: err.Error()}
	}
	if form == nil {
		form = NewForm()
	}
	body, contentType, err := form.encode()
	if err != nil {
		return Result{}, &errors.E{Kind: errors.Transport, Stage: string(stage), Message: "encode form", Err: err}
	}

	start := time.Now()
	status, raw, err := c.post(ctx, url, contentType, body)
	if err != nil {
		c.log.Error("analysis", "stage request failed", err, map[string]any{"stage": stage, "url": logging.Mask(url)})
		return Result{}, &errors.E{Kind: errors.Transport, Stage: string(stage), Message: "post " + logging.Mask(url), Err: err}
	}
	c.log.Debug("analysis", "stage response", map[string]any{
		"stage":   stage,
		"status":  status,
		"bytes":   len(raw),
		"elapsed": time.Since(start).String(),
		"form":    form.Map(),
	})
	if status < 200 || status > 299 {
		return Result{}, errors.Rejectedf(string(stage), status, string(raw))
	}
	return decode(stage, s, raw)
}

func decode(stage session.Stage, s schema, raw []byte) (Result, error) {
	shapeErr := func(msg string, err error) error {
		return &errors.E{Kind: errors.DataShape, Stage: string(stage), Message: msg, Err: err}
	}
	if err := json.Unmarshal(raw, s); err != nil {
		return Result{}, shapeErr("invalid JSON body", err)
	}
	keys, err := missingKeys(s)
	if err != nil {
		return Result{}, shapeErr("invalid body", err)
	}
	if len(keys) > 0 {
		return Result{}, shapeErr("missing "+strings.Join(keys, ", "), nil)
	}
	res := s.result()
	if res.Table != nil {
		if err := res.Table.Validate(); err != nil {
			return Result{}, shapeErr("df_las: "+err.Error(), nil)
		}
	}
	return res, nil
}

// Upload sends a LAS file to the service, which makes it the active dataset.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) error {
	url, err := c.manifest.URL("upload")
	if err != nil {
		return &errors.E{Kind: errors.Precondition, Stage: "upload", Message: err.Error()}
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return &errors.E{Kind: errors.Transport, Stage: "upload", Message: "encode file", Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return &errors.E{Kind: errors.Transport, Stage: "upload", Message: "read " + name, Err: err}
	}
	if err := w.Close(); err != nil {
		return &errors.E{Kind: errors.Transport, Stage: "upload", Message: "encode file", Err: err}
	}

	status, raw, err := c.post(ctx, url, w.FormDataContentType(), &buf)
	if err != nil {
		return &errors.E{Kind: errors.Transport, Stage: "upload", Message: "post " + logging.Mask(url), Err: err}
	}
	if status < 200 || status > 299 {
		return errors.Rejectedf("upload", status, string(raw))
	}
	c.log.Info("analysis", "file uploaded", map[string]any{"file": filepath.Base(name), "bytes": buf.Len()})
	return nil
}

func (c *Client) post(ctx context.Context, url, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "wellplot-cli/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}
