package main

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/meshinfo/internal/fetch"
)

// NewFetchWorkerCmd creates the hidden sandbox child command. The crawler
// re-executes its own binary with this command for every probe; it is not
// meant to be invoked by hand, but doing so is harmless.
func NewFetchWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    fetch.WorkerCommandName + " <url>",
		Short:  "Perform one sandboxed request (internal)",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE:   runFetchWorkerCmd,
	}

	cmd.Flags().Duration("timeout", fetch.DefaultTimeout,
		"HTTP client timeout inside the sandbox")
	cmd.Flags().Int64("memory-limit", fetch.DefaultMemoryLimit,
		"Allocator ceiling in bytes for this process")
	cmd.Flags().String("user-agent", fetch.DefaultUserAgent,
		"User-Agent header to send")

	return cmd
}

// runFetchWorkerCmd executes the sandbox child. Any error surfaces as a
// nonzero exit; the parent only trusts what arrives on stdout.
func runFetchWorkerCmd(cmd *cobra.Command, args []string) error {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	memoryLimit, err := cmd.Flags().GetInt64("memory-limit")
	if err != nil {
		return err
	}
	userAgent, err := cmd.Flags().GetString("user-agent")
	if err != nil {
		return err
	}

	return fetch.RunWorker(fetch.WorkerConfig{
		URL:         args[0],
		Timeout:     timeout,
		MemoryLimit: memoryLimit,
		UserAgent:   userAgent,
	}, cmd.OutOrStdout())
}
