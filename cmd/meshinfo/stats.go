package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/meshinfo/internal/config"
	"github.com/nao1215/meshinfo/internal/history"
	"github.com/nao1215/meshinfo/internal/nodedb"
	"github.com/nao1215/meshinfo/internal/report"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the nodeinfo database and crawl history",
		Long: `Stats reports how many nodes the database knows about, how many of them
publish a nodeinfo document, and how the most recent crawl runs went.

Examples:
  # Plain text summary of the default database
  meshinfo stats

  # Markdown report for a specific database file
  meshinfo stats --db ./nodeinfo_database.json --markdown

  # Write the report to a file
  meshinfo stats --markdown --output report.md`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}

	cmd.Flags().StringP("db", "d", "",
		"Nodeinfo database file (default: XDG data directory)")
	cmd.Flags().Bool("markdown", false,
		"Output GitHub Flavored Markdown instead of plain text")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to this file instead of stdout")
	cmd.Flags().Int("runs", 10,
		"Number of recent crawl runs to include")

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = filepath.Join(config.XDGDataDir(), config.DefaultDatabaseFile)
	}

	markdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	runLimit, err := cmd.Flags().GetInt("runs")
	if err != nil {
		return err
	}

	db, err := nodedb.Load(dbPath)
	if err != nil {
		return err
	}

	runs, err := loadRuns(cmd.Context(), filepath.Dir(dbPath), runLimit)
	if err != nil {
		return err
	}

	summary := report.NewSummary(db, runs, time.Now())

	dest := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output) //nolint:gosec // user-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		dest = f
	}

	var writer report.Writer
	if markdown {
		writer = report.NewMarkdownWriter(dest)
	} else {
		writer = report.NewTextWriter(dest)
	}

	if _, err := writer.Write(summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if output != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
	}
	return nil
}

// loadRuns reads recent crawl runs from the journal next to the database.
// A missing journal simply yields no runs; stats must work against a
// database produced elsewhere.
func loadRuns(ctx context.Context, dir string, limit int) ([]history.Run, error) {
	if _, err := os.Stat(filepath.Join(dir, history.FileName)); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	journal, err := history.Open(dir)
	if err != nil {
		return nil, err
	}
	defer journal.Close()

	return journal.ListRuns(ctx, limit)
}
