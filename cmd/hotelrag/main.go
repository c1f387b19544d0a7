// Package main is the hotelrag CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/hyperjump/hotelrag/cmd/hotelrag/commands"
)

// Set by the release build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
