// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"wellplot/cli/internal/curves"
	"wellplot/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var shellServe string

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session: upload, tune parameters and rerun stages",
	Long: `Start an interactive session. Stage results and completion flags persist
until the shell exits, so stages can be rerun one by one and a parameter
change redraws every completed chart that depends on it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if shellServe != "" {
			serveUntil(ctx, a.startServer(shellServe))
			pterm.Info.Printfln("Serving charts on http://%s/api/charts", shellServe)
		}
		pterm.Println(pterm.Gray("Type help for commands."))
		return a.repl(ctx, os.Stdin)
	},
}

const shellHelp = `  upload FILE          upload a LAS file and reset completion flags
  combo                draw the combo overview
  run [vcl|phi|sw]     run the pipeline, optionally resuming after a stage
  stage NAME [force]   run one stage; force skips the prerequisite check
  set NAME VALUE       change a parameter; completed charts redraw
  unset NAME           clear an optional parameter
  load FILE            apply a JSON parameter file
  params               show parameters
  options              show curve choices reported by the service
  status               show completion flags and the last message
  history              show every status message
  charts               list drawn charts
  quit                 leave the shell`

// repl reads commands until quit, EOF or ctx ends.
func (a *app) repl(ctx context.Context, in io.Reader) error {
	reader := bufio.NewReader(in)
	for ctx.Err() == nil {
		pterm.Print(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("wellplot> "))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			pterm.Println()
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := a.exec(ctx, fields[0], fields[1:]); err != nil {
			pterm.Error.Println(err)
		}
	}
	return nil
}

func (a *app) exec(ctx context.Context, name string, args []string) error {
	switch name {
	case "help", "?":
		pterm.Println(shellHelp)
	case "upload":
		if len(args) != 1 {
			return fmt.Errorf("usage: upload FILE")
		}
		a.upload(ctx, args[0])
	case "combo":
		a.runCombo(ctx)
	case "run":
		from := ""
		if len(args) > 0 {
			from = args[0]
		}
		_, err := a.runPipeline(ctx, from)
		return err
	case "stage":
		if len(args) == 0 {
			return fmt.Errorf("usage: stage NAME [force]")
		}
		_, err := a.runOne(ctx, args[0], len(args) > 1 && args[1] == "force")
		return err
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("usage: set NAME VALUE")
		}
		return a.sess.SetParam(ctx, args[0], strings.Join(args[1:], " "))
	case "unset":
		if len(args) != 1 {
			return fmt.Errorf("usage: unset NAME")
		}
		return a.sess.SetParam(ctx, args[0], "")
	case "load":
		if len(args) != 1 {
			return fmt.Errorf("usage: load FILE")
		}
		p := a.sess.Params()
		if _, err := session.LoadParamsFile(args[0], &p); err != nil {
			return err
		}
		return a.sess.ReplaceParams(ctx, p)
	case "params":
		return renderParams(a.sess.Params())
	case "options":
		return renderOptions(a.sess.Params().Plot)
	case "status":
		return a.renderStatus()
	case "history":
		for _, e := range a.sess.Snapshot().History {
			pterm.Println(pterm.Gray(e.At.Format("15:04:05")) + " " + presentEntry(e))
		}
	case "charts":
		a.printCharts()
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	return nil
}

func presentEntry(e session.Entry) string {
	stage := string(e.Stage)
	if stage == "" {
		stage = "session"
	}
	mark := pterm.Green("✓")
	if !e.OK {
		mark = pterm.Red("✗")
	}
	return fmt.Sprintf("%s %-14s %s", mark, stage, e.Message)
}

func (a *app) renderStatus() error {
	snap := a.sess.Snapshot()
	data := pterm.TableData{{"Stage", "Done"}}
	for _, st := range session.Stages {
		done := pterm.Gray("no")
		if snap.Done(st) {
			done = pterm.Green("yes")
		}
		data = append(data, []string{string(st), done})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	if snap.Table != nil {
		pterm.Printfln("%d samples, curves: %s", snap.Table.Len(), strings.Join(snap.Table.Names(), " "))
	}
	if snap.Message != "" {
		pterm.Println(snap.Message)
	}
	return nil
}

func renderOptions(p session.PlotOptions) error {
	groups := []struct {
		name string
		opts curves.Options
	}{
		{"vcl", p.VCLOptions},
		{"phi", p.PHIOptions},
		{"sw", p.SWOptions},
	}
	data := pterm.TableData{{"Stage", "Value", "Label"}}
	for _, g := range groups {
		for _, o := range g.opts {
			data = append(data, []string{g.name, o.Value, o.Label})
		}
	}
	if len(data) == 1 {
		pterm.Println(pterm.Gray("No curve choices yet; run vcl, phi or sw first."))
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func init() {
	shellCmd.Flags().StringVar(&shellServe, "serve", "", "Also serve charts over HTTP on this address")
	rootCmd.AddCommand(shellCmd)
}
