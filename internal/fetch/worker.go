package fetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"time"
)

// WorkerConfig carries the parameters the parent passes to the sandbox child.
type WorkerConfig struct {
	// URL is the untrusted address to fetch.
	URL string

	// Timeout bounds the child's own HTTP client. The parent enforces the
	// real deadline by killing the child, so this is a courtesy bound that
	// lets the child fail cleanly when it can.
	Timeout time.Duration

	// MemoryLimit is the allocator ceiling in bytes.
	MemoryLimit int64

	// UserAgent is sent with the request.
	UserAgent string
}

// errBodyTooLarge reports a response body over the memory ceiling.
var errBodyTooLarge = errors.New("response body exceeds memory limit")

// RunWorker is the sandbox child entry point. It caps the process allocator,
// performs one GET request, and writes the JSON-encoded Response to stdout.
// A non-nil return means the parent sees no usable response; the child exits
// nonzero and whatever was on stdout is discarded by the JSON decode.
//
// This runs in its own process. Never call it from the crawler process: the
// resource limit it installs is process-wide and irreversible.
func RunWorker(cfg WorkerConfig, stdout io.Writer) error {
	if cfg.URL == "" {
		return errors.New("no URL given")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MemoryLimit <= 0 {
		cfg.MemoryLimit = DefaultMemoryLimit
	}

	// Hard ceiling first, before any network work can allocate. The OS
	// limit is the one that actually stops a memory bomb; the Go soft
	// limit below it just makes the GC try harder before we hit the wall.
	if err := setHeapLimit(cfg.MemoryLimit); err != nil {
		return fmt.Errorf("failed to set heap limit: %w", err)
	}
	debug.SetMemoryLimit(cfg.MemoryLimit)

	client := &http.Client{Timeout: cfg.Timeout}

	req, err := http.NewRequest(http.MethodGet, cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Reading one byte past the ceiling detects oversized bodies without
	// buffering beyond it. The rlimit would kill us anyway; this way the
	// child dies politely instead.
	body, err := io.ReadAll(io.LimitReader(resp.Body, cfg.MemoryLimit+1))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > cfg.MemoryLimit {
		return errBodyTooLarge
	}

	out := Response{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Body:    body,
	}
	if err := json.NewEncoder(stdout).Encode(&out); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}
