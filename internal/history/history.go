package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the journal file name, created in the same directory as the
// node database.
const FileName = "meshinfo_history.db"

// Run is one crawl run's journal entry.
type Run struct {
	// ID is the journal row identifier.
	ID int64

	// StartedAt is when node discovery began.
	StartedAt time.Time

	// FinishedAt is when the database was persisted.
	FinishedAt time.Time

	// NodesTotal is the number of distinct nodes probed.
	NodesTotal int

	// NodesWithInfo is how many of them had a usable nodeinfo document.
	NodesWithInfo int
}

// Journal provides SQLite-backed storage for crawl run history.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal in dir.
//
// SQLite only supports one writer, so the connection pool is pinned to a
// single connection; WAL mode keeps concurrent readers cheap.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{db: db}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := j.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}
	return j, nil
}

// Close closes the journal.
func (j *Journal) Close() error {
	return j.db.Close()
}

// createTables creates the journal schema if it doesn't exist.
func (j *Journal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		nodes_total INTEGER NOT NULL,
		nodes_with_info INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := j.db.ExecContext(context.Background(), schema)
	return err
}

// RecordRun appends a run entry and returns its row ID.
func (j *Journal) RecordRun(ctx context.Context, run Run) (int64, error) {
	query := `
	INSERT INTO runs (started_at, finished_at, nodes_total, nodes_with_info)
	VALUES (?, ?, ?, ?)
	`
	result, err := j.db.ExecContext(ctx, query,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.NodesTotal,
		run.NodesWithInfo,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return result.LastInsertId()
}

// LatestRun returns the most recent run, or nil when the journal is empty.
func (j *Journal) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := j.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// ListRuns returns up to limit runs, most recent first. A limit of zero or
// less returns all runs.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
	SELECT id, started_at, finished_at, nodes_total, nodes_with_info
	FROM runs
	ORDER BY started_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string

		if err := rows.Scan(&run.ID, &started, &finished, &run.NodesTotal, &run.NodesWithInfo); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// timestampFormats contains the formats a journal timestamp may use. Rows
// written by this package use RFC3339Nano; the rest cover rows touched by
// external SQLite tooling.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp parses a stored timestamp, returning zero time when no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
