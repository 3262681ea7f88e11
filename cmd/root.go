// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for wellplot. Commands upload
// LAS files, run analysis stages against the remote service and draw the
// resulting charts, using the Cobra CLI framework and a pterm terminal UI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wellplot/cli/internal/config"
	"wellplot/cli/internal/manifest"

	"github.com/spf13/cobra"
)

var (
	showVersion bool

	flagServiceURL string
	flagOutputDir  string
	flagRenderAddr string
	flagParamsFile string
	flagSet        []string
	flagVerbose    bool
	flagNoPNG      bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "wellplot",
	Short:         "Petrophysical well-log plots from a remote analysis service",
	Long:          `wellplot uploads LAS files to an analysis service, runs the VCL, porosity, saturation and cutoff stages and writes Plotly chart specifications for each result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if flagServiceURL != "" {
				cfg.Service.URL = flagServiceURL
			}
			fmt.Printf("wellplot %s\n", Version)
			if m, err := manifest.GetEndpoints(cfg.Service.URL, cfg.Service.Endpoints); err == nil {
				fmt.Printf("service  %s\n", m.Host())
			}
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application. An interrupt cancels the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version and the configured service")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagServiceURL, "service-url", "", "Analysis service base URL (default from config or "+config.EnvServiceURL+")")
	pf.StringVarP(&flagOutputDir, "output", "o", "", "Directory for chart files")
	pf.StringVar(&flagRenderAddr, "render-addr", "", "gRPC renderer address; plaintext:// for an insecure channel")
	pf.StringVarP(&flagParamsFile, "params", "p", "", "JSON file of stage parameters keyed by name")
	pf.StringArrayVar(&flagSet, "set", nil, "Set a parameter, name=value (repeatable)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug records to stderr")
	pf.BoolVar(&flagNoPNG, "no-png", false, "Skip PNG previews")
}

func cutAssignment(kv string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(kv, "=")
	name = strings.TrimSpace(name)
	return name, value, ok && name != ""
}
