// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"wellplot/cli/internal/config"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// configKeys maps user-facing keys to accessors on Config.
var configKeys = map[string]struct {
	get func(config.Config) string
	set func(*config.Config, string) error
}{
	"service-url": {
		func(c config.Config) string { return c.Service.URL },
		func(c *config.Config, v string) error { c.Service.URL = v; return nil },
	},
	"output": {
		func(c config.Config) string { return c.Output.Dir },
		func(c *config.Config, v string) error { c.Output.Dir = v; return nil },
	},
	"render-addr": {
		func(c config.Config) string { return c.Output.RenderAddr },
		func(c *config.Config, v string) error { c.Output.RenderAddr = v; return nil },
	},
	"serve-addr": {
		func(c config.Config) string { return c.ServeAddr },
		func(c *config.Config, v string) error { c.ServeAddr = v; return nil },
	},
	"log-level": {
		func(c config.Config) string { return c.LogLevel },
		func(c *config.Config, v string) error { c.LogLevel = v; return nil },
	},
	"png": {
		func(c config.Config) string { return strconv.FormatBool(c.Output.PNG) },
		func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("png: %q is not a boolean", v)
			}
			c.Output.PNG = b
			return nil
		},
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change saved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(configKeys))
		for k := range configKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		data := pterm.TableData{{"Key", "Value"}}
		for _, k := range keys {
			data = append(data, []string{k, configKeys[k].get(c)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Save a setting (service-url, output, render-addr, serve-addr, log-level, png)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, ok := configKeys[args[0]]
		if !ok {
			return fmt.Errorf("unknown setting %q", args[0])
		}
		c, err := config.LoadSaved()
		if err != nil {
			return err
		}
		if err := key.set(&c, args[1]); err != nil {
			return err
		}
		if err := config.Save(c); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		pterm.Success.Printfln("%s = %s", args[0], key.get(c))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
