// Copyright (c) 2025 Wellplot
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"wellplot/cli/internal/keychain"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the analysis service bearer token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a bearer token in the OS keychain (read from stdin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := readSecret("Token: ")
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("empty token")
		}
		km, err := keychain.GetManager()
		if err != nil {
			return fmt.Errorf("open keychain: %w", err)
		}
		if err := km.SaveServiceToken(token); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
		pterm.Success.Println("Token saved")
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored bearer token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			return fmt.Errorf("open keychain: %w", err)
		}
		if err := km.ClearServiceToken(); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		pterm.Success.Println("Token removed")
		return nil
	},
}

// readSecret reads a line without echo on a terminal, or plainly from a pipe.
func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pterm.Print(prompt)
		b, err := term.ReadPassword(fd)
		pterm.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenClearCmd)
	rootCmd.AddCommand(tokenCmd)
}
