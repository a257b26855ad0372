package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/meshinfo/internal/config"
	"github.com/nao1215/meshinfo/internal/crawl"
	"github.com/nao1215/meshinfo/internal/fetch"
	"github.com/nao1215/meshinfo/internal/history"
	"github.com/nao1215/meshinfo/internal/log"
	"github.com/nao1215/meshinfo/internal/nodedb"
	"github.com/nao1215/meshinfo/internal/nodes"
	"github.com/nao1215/meshinfo/internal/prober"
)

// discoveryTimeout bounds requests to discovery endpoints. These are the
// community registries, not arbitrary nodes; the graph document is a few
// megabytes and worth waiting for.
const discoveryTimeout = 60 * time.Second

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the mesh and update the nodeinfo database",
		Long: `Crawl discovers the current node set from the configured public sources,
probes every node for its nodeinfo.json document, and folds the results
into the persistent database.

Each probe runs in its own sandboxed child process with a hard memory
ceiling and wall-clock deadline, so hostile or broken nodes cannot harm
the crawl. A node that fails to answer is recorded with a null nodeinfo;
nodes that are no longer discoverable keep their last known record.

Examples:
  # Crawl with the default public sources
  meshinfo crawl

  # Crawl a fixed node list into a local database file
  meshinfo crawl --nodes-file nodes.txt --db ./nodeinfo_database.json

  # Slower links, narrower pool
  meshinfo crawl --timeout 30s --concurrency 25`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("db", "d", "",
		"Nodeinfo database file (default: XDG data directory)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Wall-clock deadline per sandboxed request")
	cmd.Flags().Int64P("memory-limit", "m", config.DefaultMemoryLimit,
		"Sandbox heap ceiling in bytes per request")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of concurrent probes")
	cmd.Flags().String("graph-url", config.DefaultGraphURL,
		"Network map graph endpoint (empty to disable)")
	cmd.Flags().String("registry-url", config.DefaultRegistryURL,
		"Attestation registry endpoint (empty to disable)")
	cmd.Flags().String("nodes-file", "",
		"Local node list file, one address per line")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .meshinfo in current or home directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// SIGINT aborts the run before anything is persisted; the database on
	// disk stays exactly as the previous run left it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger)
}

// buildConfig assembles a Config from the config file and command flags.
// Flags win over the file, the file wins over defaults.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	found := config.FindConfigFile(configPath)
	if found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, err
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if cmd.Flags().Changed("db") {
		if cfg.DatabasePath, err = cmd.Flags().GetString("db"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("memory-limit") {
		if cfg.MemoryLimit, err = cmd.Flags().GetInt64("memory-limit"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("graph-url") {
		if cfg.GraphURL, err = cmd.Flags().GetString("graph-url"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("registry-url") {
		if cfg.RegistryURL, err = cmd.Flags().GetString("registry-url"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("nodes-file") {
		if cfg.NodesFile, err = cmd.Flags().GetString("nodes-file"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runCrawl executes one full crawl run: discover, probe, merge, persist.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	startedAt := time.Now()

	db, err := nodedb.Load(cfg.DatabasePath)
	if err != nil {
		return err
	}

	nodeList, err := nodes.Discover(ctx, logger, discoverySources(cfg)...)
	if err != nil {
		return fmt.Errorf("node discovery failed: %w", err)
	}

	fetcher := fetch.New(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMemoryLimit(cfg.MemoryLimit),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithLogger(logger),
	)
	crawler := crawl.New(
		prober.New(fetcher, logger),
		crawl.WithConcurrency(cfg.Concurrency),
		crawl.WithLogger(logger),
	)

	outcomes := crawler.Run(ctx, nodeList)

	// An interrupted run must not be merged: its probes were aborted, not
	// answered, and stamping them as absent would corrupt the database.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("crawl interrupted, database left untouched: %w", err)
	}

	db.Merge(outcomes)
	if err := db.Save(); err != nil {
		return fmt.Errorf("failed to persist node database: %w", err)
	}

	withInfo := 0
	for _, o := range outcomes {
		if o.HasNodeInfo() {
			withInfo++
		}
	}

	recordRun(ctx, cfg, logger, history.Run{
		StartedAt:     startedAt,
		FinishedAt:    time.Now(),
		NodesTotal:    len(outcomes),
		NodesWithInfo: withInfo,
	})

	logger.Info("crawl run persisted",
		"database", cfg.DatabasePath,
		"nodes", len(outcomes),
		"with_nodeinfo", withInfo,
	)
	return nil
}

// discoverySources builds the configured discovery sources.
func discoverySources(cfg *config.Config) []nodes.Source {
	client := &http.Client{Timeout: discoveryTimeout}

	var sources []nodes.Source
	if cfg.RegistryURL != "" {
		sources = append(sources, &nodes.RegistrySource{
			URL:       cfg.RegistryURL,
			Client:    client,
			UserAgent: cfg.UserAgent,
		})
	}
	if cfg.GraphURL != "" {
		sources = append(sources, &nodes.GraphSource{
			URL:       cfg.GraphURL,
			Client:    client,
			UserAgent: cfg.UserAgent,
		})
	}
	if cfg.NodesFile != "" {
		sources = append(sources, &nodes.FileSource{Path: cfg.NodesFile})
	}
	return sources
}

// recordRun appends the run to the crawl journal. Journal trouble is logged
// and otherwise ignored; the JSON database is the artifact of record.
func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, run history.Run) {
	journal, err := history.Open(filepath.Dir(cfg.DatabasePath))
	if err != nil {
		logger.Warn("could not open crawl journal", "error", err)
		return
	}
	defer journal.Close()

	if _, err := journal.RecordRun(ctx, run); err != nil {
		logger.Warn("could not record crawl run", "error", err)
	}
}
