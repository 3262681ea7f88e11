// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"wellplot/cli/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	runFrom  string
	runFile  string
	runCombo bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the analysis pipeline",
	Long: `Run the analysis stages in dependency order: vcl, phi, pickett and sw in
parallel, cutoff, interpretation. --from resumes downstream of a stage that
already completed on the service (vcl, phi or sw). A failed stage skips the
stages that depend on it; the command still exits 0.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := pipeline.ValidateFrom(runFrom); err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, ok := a.upload(ctx, runFile); !ok {
			return nil
		}
		if runCombo {
			a.runCombo(ctx)
		}
		if _, err := a.runPipeline(ctx, runFrom); err != nil {
			return err
		}
		a.printCharts()
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runFrom, "from", "", "Resume after this stage: vcl, phi or sw")
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "Upload this LAS file first")
	runCmd.Flags().BoolVar(&runCombo, "combo", false, "Also draw the combo overview")
	rootCmd.AddCommand(runCmd)
}
