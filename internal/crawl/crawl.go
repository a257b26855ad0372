package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/meshinfo/internal/prober"
)

// DefaultConcurrency is the default worker pool width. The bound caps the
// number of simultaneously open sandbox processes and sockets, not just
// goroutines: each in-flight probe owns one child process with its own
// memory ceiling, so total resource usage scales with this number.
const DefaultConcurrency = 100

// nodeProber is the per-node probe surface the crawler depends on.
// Satisfied by *prober.Prober; tests substitute a fake.
type nodeProber interface {
	Probe(ctx context.Context, node string) prober.Outcome
}

// Crawler runs probes over a node set with bounded concurrency.
type Crawler struct {
	prober      nodeProber
	concurrency int
	logger      *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithConcurrency sets the worker pool width. Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger used for per-node progress output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler that probes with p.
func New(p nodeProber, opts ...Option) *Crawler {
	c := &Crawler{
		prober:      p,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Run probes every node in nodes and returns one outcome per distinct node.
//
// Duplicates in the input are probed once. Probes execute concurrently up to
// the pool width; a node that hangs occupies one slot until its per-probe
// deadline fires, never the whole pool. Run returns only after every probe
// has completed (barrier join), so the result always contains exactly one
// entry per distinct input node regardless of completion order.
//
// Design decision: results are written into a pre-allocated slice by index,
// one slot per goroutine, instead of through a channel or mutex. Each slot
// has exactly one writer and the errgroup barrier orders all writes before
// the return, so no further synchronization is needed.
func (c *Crawler) Run(ctx context.Context, nodes []string) []prober.Outcome {
	distinct := dedupe(nodes)

	c.logger.Info("starting crawl",
		"nodes", len(distinct),
		"concurrency", c.concurrency,
	)
	startTime := time.Now()

	outcomes := make([]prober.Outcome, len(distinct))

	var done atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)

	for i, node := range distinct {
		g.Go(func() error {
			outcome := c.prober.Probe(ctx, node)
			outcomes[i] = outcome

			// Progress in the "n/total" form; n counts completions, not
			// dispatch order, so it is monotonic but unordered by node.
			n := done.Add(1)
			progress := fmt.Sprintf("%d/%d", n, len(distinct))
			if outcome.HasNodeInfo() {
				c.logger.Info("node has a nodeinfo", "progress", progress, "node", node)
			} else {
				c.logger.Info("node has no nodeinfo", "progress", progress, "node", node)
			}
			return nil
		})
	}

	// Probes never return errors; the wait is purely the barrier.
	_ = g.Wait() //nolint:errcheck // probe goroutines always return nil

	c.logger.Info("crawl complete",
		"nodes", len(distinct),
		"elapsed", time.Since(startTime),
	)
	return outcomes
}

// dedupe returns the distinct nodes in first-appearance order. The node-list
// collaborator is supposed to deduplicate, but a duplicate slipping through
// must not produce two probes or two outcomes for one node.
func dedupe(nodes []string) []string {
	seen := make(map[string]bool, len(nodes))
	distinct := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if seen[node] {
			continue
		}
		seen[node] = true
		distinct = append(distinct, node)
	}
	return distinct
}
