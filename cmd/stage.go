// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"wellplot/cli/internal/session"

	"github.com/spf13/cobra"
)

var (
	stageForce bool
	stageFile  string
)

var stageCmd = &cobra.Command{
	Use:   "stage NAME",
	Short: "Run one analysis stage",
	Long: `Run one stage. A stage needs its prerequisite to have completed in the same
session; a fresh invocation has no completed stages, so pass --force to run a
stage whose inputs the service already holds from an earlier run.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: stageNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if _, ok := session.ParseStage(args[0]); !ok {
			return fmt.Errorf("unknown stage %q (one of %s)", args[0], strings.Join(stageNames(), ", "))
		}
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, ok := a.upload(ctx, stageFile); !ok {
			return nil
		}
		if _, err := a.runOne(ctx, args[0], stageForce); err != nil {
			return err
		}
		a.printCharts()
		return nil
	},
}

var comboFile string

var comboCmd = &cobra.Command{
	Use:   "combo",
	Short: "Draw the combo overview of the uploaded logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, ok := a.upload(ctx, comboFile); !ok {
			return nil
		}
		a.runCombo(ctx)
		a.printCharts()
		return nil
	},
}

func stageNames() []string {
	names := make([]string, len(session.Stages))
	for i, st := range session.Stages {
		names[i] = string(st)
	}
	return names
}

func init() {
	stageCmd.Flags().BoolVar(&stageForce, "force", false, "Skip the prerequisite check")
	stageCmd.Flags().StringVarP(&stageFile, "file", "f", "", "Upload this LAS file first")
	stageCmd.Short += " (" + strings.Join(stageNames(), ", ") + ")"
	comboCmd.Flags().StringVarP(&comboFile, "file", "f", "", "Upload this LAS file first")
	rootCmd.AddCommand(stageCmd, comboCmd)
}
