// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package server exposes the latest chart per target, the session status and
// stage metrics over HTTP so a browser front end can draw them with Plotly.
package server

import (
	"wellplot/cli/internal/charts"
	"wellplot/cli/internal/logging"
	"wellplot/cli/internal/session"
	"wellplot/cli/internal/sink"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves charts from a memory sink.
type Server struct {
	app    *fiber.App
	charts *sink.Memory
	sess   *session.Session
	log    *logging.Logger
}

// New builds the fiber app. reg may be nil, in which case /metrics is not mounted.
func New(mem *sink.Memory, sess *session.Session, reg *prometheus.Registry, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "wellplot",
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, OPTIONS",
	}))

	s := &Server{app: app, charts: mem, sess: sess, log: log}
	api := app.Group("/api")
	api.Get("/charts", s.listCharts)
	api.Get("/charts/:target", s.getChart)
	api.Get("/session", s.getSession)
	if reg != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}
	return s
}

// App returns the fiber app, for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("server", "listening", map[string]any{"addr": addr})
	return s.app.Listen(addr)
}

// Shutdown stops the server.
func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) listCharts(c *fiber.Ctx) error {
	drawn := s.charts.Targets()
	if drawn == nil {
		drawn = []string{}
	}
	return c.JSON(fiber.Map{"targets": drawn, "all": charts.Targets})
}

func (s *Server) getChart(c *fiber.Ctx) error {
	target := c.Params("target")
	spec, ok := s.charts.Get(target)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "chart " + target + " has not been drawn"})
	}
	return c.JSON(spec)
}

type sessionView struct {
	ID      string          `json:"id"`
	Message string          `json:"message"`
	Flags   map[string]bool `json:"flags"`
	Params  map[string]any  `json:"params"`
	History []session.Entry `json:"history"`
}

func (s *Server) getSession(c *fiber.Ctx) error {
	snap := s.sess.Snapshot()
	view := sessionView{
		ID:      snap.ID,
		Message: snap.Message,
		Flags:   make(map[string]bool, len(session.Stages)),
		Params:  map[string]any{},
		History: snap.History,
	}
	for _, st := range session.Stages {
		view.Flags[string(st)] = snap.Done(st)
	}
	for _, e := range snap.Params.Entries() {
		if e.Value == "" {
			view.Params[e.Name] = nil
			continue
		}
		view.Params[e.Name] = e.Value
	}
	if view.History == nil {
		view.History = []session.Entry{}
	}
	return c.JSON(view)
}
