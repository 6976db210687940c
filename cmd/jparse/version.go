// Copyright (C) 2025 The jparse authors. All Rights Reserved.

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information for the jparse CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""
)

var (
	versionColor = color.New(color.FgGreen, color.Bold)
	commitColor  = color.New(color.Faint)
)

func versionString() string {
	s := versionColor.Sprint(Version)
	if GitCommit != "" {
		s += " " + commitColor.Sprint(GitCommit)
	}
	return s
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jparse version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(versionString())
	},
}
