// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"wellplot/cli/internal/charts"
	"wellplot/cli/internal/curves"
	"wellplot/cli/internal/session"
	"wellplot/cli/internal/sink"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *sink.Memory, *session.Session) {
	t.Helper()
	mem := sink.NewMemory()
	sess := session.New(nil)
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "wellplot_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()
	return New(mem, sess, reg, nil), mem, sess
}

func TestChartEndpoints(t *testing.T) {
	srv, mem, _ := newTestServer(t)
	tbl := curves.NewTable().With("MD", curves.Floats(1, 2)).With("GR", curves.Floats(50, 60))
	require.NoError(t, mem.Draw(context.Background(), charts.Combo(tbl, nil, 10)))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"list", "/api/charts", 200, `"targets":["combo"]`},
		{"drawn", "/api/charts/combo", 200, `"xaxis3"`},
		{"not drawn", "/api/charts/pickett", 404, `has not been drawn`},
		{"metrics", "/metrics", 200, `wellplot_test_total 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.App().Test(httptest.NewRequest("GET", tt.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.True(t, strings.Contains(string(body), tt.wantBody), "body: %s", body)
		})
	}
}

func TestSessionEndpoint(t *testing.T) {
	srv, _, sess := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, sess.Apply(ctx, session.Update{Stage: session.StageCombo, Message: "Combo plot generated"}))
	require.NoError(t, sess.Fail(ctx, session.StageVCL, "Failed to run vcl stage. Status code: 500"))

	resp, err := srv.App().Test(httptest.NewRequest("GET", "/api/session", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var view struct {
		Message string          `json:"message"`
		Flags   map[string]bool `json:"flags"`
		Params  map[string]any  `json:"params"`
		History []session.Entry `json:"history"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, "Failed to run vcl stage. Status code: 500", view.Message)
	assert.True(t, view.Flags["combo"])
	assert.False(t, view.Flags["vcl"])
	assert.Equal(t, "0.08", view.Params["rw"])
	assert.Nil(t, view.Params["gr_clean"])
	require.Len(t, view.History, 2)
	assert.True(t, view.History[0].OK)
}
