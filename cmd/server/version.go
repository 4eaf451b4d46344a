package main

import "github.com/spf13/cobra"

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("FasalSaathi Server\n")
			cmd.Printf("Version:    %s\n", Version)
			cmd.Printf("Build Date: %s\n", BuildDate)
			cmd.Printf("Git Commit: %s\n", GitCommit)
		},
	}
}
