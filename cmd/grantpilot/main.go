package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ngoinfo/grantpilot/internal/interfaces/cli/migrate"
	"github.com/ngoinfo/grantpilot/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "grantpilot",
		Short: "GrantPilot - funding opportunity matching for NGOs",
		Long:  `GrantPilot is the backend for NGO funding discovery: profile management, curated funding opportunities, and AI-assisted Fit Scans.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
