// Package main is the entry point for the intervalset CLI.
//
// The binary runs operation scripts against interval-point sets, checks
// them against a reference evaluator and manages port reservations. All
// commands live in the internal/cli package.
//
// Build-time variables (version, commit, date) are injected via ldflags.
// During development they default to "dev", "none" and "unknown".
package main

import (
	"github.com/shinji-kodama/intervalset/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
