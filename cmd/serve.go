// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"wellplot/cli/internal/pipeline"
	"wellplot/cli/internal/server"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveFile string
	serveFrom string
	serveRun  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve chart specifications over HTTP",
	Long: `Serve the latest chart of every target, the session status and stage metrics
over HTTP until interrupted. With --run the pipeline runs first, so a browser
can pick the charts up from /api/charts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := pipeline.ValidateFrom(serveFrom); err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := serveAddr
		if addr == "" {
			addr = a.cfg.ServeAddr
		}
		srv := a.startServer(addr)

		if serveRun {
			if _, ok := a.upload(ctx, serveFile); ok {
				a.runCombo(ctx)
				if _, err := a.runPipeline(ctx, serveFrom); err != nil {
					return err
				}
			}
		}
		pterm.Info.Printfln("Serving charts on http://%s/api/charts (Ctrl+C to stop)", addr)
		<-ctx.Done()
		return srv.Shutdown()
	},
}

// startServer serves the app's charts in the background. A listen failure is
// reported but does not end the session.
func (a *app) startServer(addr string) *server.Server {
	srv := server.New(a.memory, a.sess, a.metrics.Registry(), a.log)
	go func() {
		if err := srv.Listen(addr); err != nil {
			a.log.Error("server", "listen failed", err, map[string]any{"addr": addr})
			pterm.Error.Println(fmt.Sprintf("chart server on %s: %v", addr, err))
		}
	}()
	return srv
}

// serveUntil shuts srv down when ctx ends.
func serveUntil(ctx context.Context, srv *server.Server) {
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown()
	}()
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config or WELLPLOT_SERVE_ADDR)")
	serveCmd.Flags().BoolVar(&serveRun, "run", false, "Run combo and the pipeline before serving")
	serveCmd.Flags().StringVar(&serveFrom, "from", "", "With --run, resume after this stage: vcl, phi or sw")
	serveCmd.Flags().StringVarP(&serveFile, "file", "f", "", "With --run, upload this LAS file first")
	rootCmd.AddCommand(serveCmd)
}
