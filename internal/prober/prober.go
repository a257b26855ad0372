package prober

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/nao1215/meshinfo/internal/fetch"
	"github.com/nao1215/meshinfo/internal/jsonfix"
)

// markupTypes are content types that are never nodeinfo documents. Nodes
// sometimes run a web server on the same port that answers every path with
// an HTML page; parsing those wastes work and occasionally produces a false
// "valid JSON" match, so they are rejected before the parse is attempted.
var markupTypes = map[string]bool{
	"text/html":             true,
	"application/xhtml+xml": true,
	"application/xml":       true,
}

// Outcome is the result of probing one node. NodeInfo is nil when the node
// was reached but has no usable document, or was not reachable at all; the
// crawl database records both the same way.
type Outcome struct {
	// Node is the probed node address.
	Node string

	// NodeInfo is the parsed document, or nil when absent.
	NodeInfo any
}

// HasNodeInfo reports whether the probe found a usable document.
func (o Outcome) HasNodeInfo() bool {
	return o.NodeInfo != nil
}

// fetcher is the sandboxed request surface the prober depends on.
// Satisfied by *fetch.Fetcher; tests substitute a local fake.
type fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Response, error)
}

// Prober probes mesh nodes for nodeinfo documents.
type Prober struct {
	fetcher fetcher
	logger  *slog.Logger
}

// New creates a Prober backed by the given fetcher.
func New(f fetcher, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{fetcher: f, logger: logger}
}

// NodeInfoURL returns the well-known nodeinfo URL for a node address.
// Mesh node identifiers are IPv6 literals and get bracketed; anything else
// is treated as an opaque host and inserted as-is.
func NodeInfoURL(node string) string {
	if ip := net.ParseIP(node); ip != nil && strings.Contains(node, ":") {
		return fmt.Sprintf("http://[%s]/nodeinfo.json", node)
	}
	return fmt.Sprintf("http://%s/nodeinfo.json", node)
}

// Probe fetches and parses the nodeinfo document for one node. It mutates
// no shared state and never fails: any transport failure, error status,
// markup content type, or unparseable body yields an absent outcome.
func (p *Prober) Probe(ctx context.Context, node string) Outcome {
	url := NodeInfoURL(node)
	outcome := Outcome{Node: node}

	resp, err := p.fetcher.Fetch(ctx, url)
	if err != nil || !resp.OK() {
		return outcome
	}

	if markupTypes[resp.ContentType()] {
		// Don't even try to parse these.
		return outcome
	}

	repaired := jsonfix.Fix(string(resp.Body))

	var doc any
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		p.logger.Warn("could not decode nodeinfo JSON", "url", url, "error", err)
		return outcome
	}

	outcome.NodeInfo = doc
	return outcome
}
