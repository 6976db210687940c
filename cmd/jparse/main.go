// Copyright (C) 2025 The jparse authors. All Rights Reserved.

// Command jparse validates JSON files against RFC 8259 and reports
// positioned errors for malformed input.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "jparse",
	Short: "Strict RFC 8259 JSON validator",
	Long:  `jparse checks that files contain a single valid JSON document and reports positioned errors when they do not`,
}

func main() {
	rootCmd.Version = versionString()
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
