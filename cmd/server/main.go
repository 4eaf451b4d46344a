// Package main is the entry point of the FasalSaathi API server.
package main

import (
	"fmt"
	"os"
)

// Version information set via ldflags during build.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
