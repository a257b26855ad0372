package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// maxSourceResponse bounds how much of a discovery response is read. The
// public node graphs are a few megabytes at most; the bound only exists so
// a misbehaving registry cannot balloon the crawler.
const maxSourceResponse = 32 * 1024 * 1024 // 32 MiB

// Source returns node addresses from one discovery endpoint.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Nodes returns the addresses this source currently knows about.
	// The result may contain duplicates; Discover deduplicates.
	Nodes(ctx context.Context) ([]string, error)
}

// Discover unions node addresses across all sources, deduplicated and
// sorted. A failing source is logged and skipped; discovery only fails when
// every source fails, in which case the combined error lists each source's
// failure.
func Discover(ctx context.Context, logger *slog.Logger, sources ...Source) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[string]bool)
	var merr *multierror.Error
	succeeded := 0

	for _, src := range sources {
		logger.Info("downloading node list", "source", src.Name())

		list, err := src.Nodes(ctx)
		if err != nil {
			logger.Warn("node source failed", "source", src.Name(), "error", err)
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		succeeded++
		for _, node := range list {
			if node != "" {
				seen[node] = true
			}
		}
	}

	if succeeded == 0 && len(sources) > 0 {
		return nil, fmt.Errorf("all node sources failed: %w", merr.ErrorOrNil())
	}

	nodes := make([]string, 0, len(seen))
	for node := range seen {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	logger.Info("node discovery complete", "nodes", len(nodes), "sources", succeeded)
	return nodes, nil
}

// getJSON fetches url and decodes the response body into v.
func getJSON(ctx context.Context, client *http.Client, url, userAgent string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceResponse))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
