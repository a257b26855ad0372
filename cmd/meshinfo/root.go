// Package main provides the entry point for the meshinfo CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for meshinfo.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meshinfo",
		Short: "Crawler for mesh network nodeinfo documents",
		Long: `meshinfo maintains a database of the nodeinfo.json documents published
by nodes of a mesh network.

Every remote node is treated as untrusted: requests run inside sandboxed
child processes with hard memory and time limits, malformed documents are
repaired where possible, and a node that misbehaves is simply recorded as
having no nodeinfo.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewFetchWorkerCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
