// Package main is the entry point for the wellplot CLI.
package main

import (
	"wellplot/cli/cmd"
)

func main() {
	cmd.Execute()
}
