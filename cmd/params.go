// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"wellplot/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Show the stage parameters after --params and --set are applied",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := flagParams(session.DefaultParams())
		if err != nil {
			return err
		}
		return renderParams(p)
	},
}

func renderParams(p session.Params) error {
	data := pterm.TableData{{"Group", "Name", "Value"}}
	for _, e := range p.Entries() {
		v := e.Value
		if v == "" {
			v = pterm.Gray("unset")
		}
		data = append(data, []string{e.Group, e.Name, v})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}
