// Package main is the entry point for the FitMate admin console.
package main

import (
	"fmt"
	"os"

	"github.com/fitmate/admin-console/internal/admintui"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var _ = []string{commit, date}

func main() {
	if err := admintui.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
