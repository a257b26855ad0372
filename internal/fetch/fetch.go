package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// Default resource bounds for a single sandboxed request.
//
// The values mirror what a well-behaved nodeinfo endpoint needs with a wide
// margin: real documents are a few kilobytes, so a 10 MiB ceiling only ever
// triggers on hostile or broken peers.
const (
	// DefaultTimeout is the wall-clock deadline for one request, including
	// child process startup and response transfer.
	DefaultTimeout = 10 * time.Second

	// DefaultMemoryLimit is the heap ceiling applied to the child process
	// that performs the request and buffers the response.
	DefaultMemoryLimit = 10 * 1024 * 1024 // 10 MiB

	// DefaultUserAgent identifies the crawler to node operators.
	DefaultUserAgent = "meshinfo"
)

// WorkerCommandName is the hidden subcommand that runs the sandbox child.
// The CLI wires it to RunWorker.
const WorkerCommandName = "fetch-worker"

// Fetcher executes sandboxed GET requests. The zero value is not usable;
// construct with New.
//
// Design decision: the sandbox is a re-execution of our own binary rather
// than a goroutine because the contract is a hard memory ceiling enforced by
// the operating system. An in-process goroutine shares the crawler's heap,
// so a memory bomb from a hostile peer would take the whole run down with it.
// A child process dies alone.
type Fetcher struct {
	// timeout is the wall-clock deadline for the whole fetch.
	timeout time.Duration

	// memoryLimit is the child's allocator ceiling in bytes.
	memoryLimit int64

	// userAgent is sent with the request.
	userAgent string

	// workerCommand is the argv prefix used to start the sandbox child.
	// Empty means "this binary, fetch-worker subcommand", resolved lazily
	// so that New never fails. Tests override it to point at a helper.
	workerCommand []string

	// logger records failure causes. Callers only ever see "no response";
	// the distinction between a refused connection, a deadline kill, and a
	// memory-ceiling death exists only in the logs.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request wall-clock deadline.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithMemoryLimit sets the child process heap ceiling in bytes.
func WithMemoryLimit(limit int64) Option {
	return func(f *Fetcher) {
		if limit > 0 {
			f.memoryLimit = limit
		}
	}
}

// WithUserAgent sets the User-Agent header sent by the sandbox child.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithWorkerCommand overrides the argv prefix used to spawn the sandbox
// child. The fetch URL and worker flags are appended to it. Tests use this
// to substitute a helper process for the real binary.
func WithWorkerCommand(argv []string) Option {
	return func(f *Fetcher) {
		f.workerCommand = argv
	}
}

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher with the given options applied over the defaults.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultTimeout,
		memoryLimit: DefaultMemoryLimit,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch performs one GET request against rawURL inside the sandbox.
//
// On success it returns the buffered response. On any failure (connection
// refused, transport error, deadline exceeded, memory ceiling exceeded, or
// the child being killed) it returns a non-nil error. Callers must treat
// every error identically as "no response"; the cause is logged at debug
// level and deliberately not distinguishable through the API.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	argv, err := f.resolveWorkerCommand()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sandbox command: %w", err)
	}

	argv = append(argv,
		rawURL,
		"--timeout", f.timeout.String(),
		"--memory-limit", strconv.FormatInt(f.memoryLimit, 10),
		"--user-agent", f.userAgent,
	)

	// The context deadline is the hard kill switch: CommandContext sends
	// SIGKILL when it fires, so a child wedged on a never-answering peer
	// cannot outlive the deadline no matter what.
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stderr = io.Discard

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open sandbox stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start sandbox: %w", err)
	}

	// The child's body buffer is capped at memoryLimit, but the JSON
	// encoding inflates it (base64 body plus headers), so the read bound
	// is proportionally larger. Anything beyond that is a child gone rogue.
	output, readErr := io.ReadAll(io.LimitReader(stdout, f.maxOutputSize()+1))
	waitErr := cmd.Wait()

	switch {
	case ctx.Err() != nil:
		f.logger.Debug("sandboxed request killed at deadline", "url", rawURL, "timeout", f.timeout)
		return nil, fmt.Errorf("request to %s exceeded %s deadline: %w", rawURL, f.timeout, ctx.Err())
	case readErr != nil:
		f.logger.Debug("failed to read sandbox output", "url", rawURL, "error", readErr)
		return nil, fmt.Errorf("failed to read sandbox output: %w", readErr)
	case waitErr != nil:
		// Covers connection failures, transport errors, and the child dying
		// at its memory ceiling; the child exits nonzero for all of them.
		f.logger.Debug("sandboxed request failed", "url", rawURL, "error", waitErr)
		return nil, fmt.Errorf("sandboxed request to %s failed: %w", rawURL, waitErr)
	case int64(len(output)) > f.maxOutputSize():
		f.logger.Debug("sandbox output exceeded limit", "url", rawURL, "limit", f.maxOutputSize())
		return nil, fmt.Errorf("sandbox output for %s exceeded %d bytes", rawURL, f.maxOutputSize())
	}

	var resp Response
	if err := json.Unmarshal(output, &resp); err != nil {
		f.logger.Debug("sandbox produced malformed output", "url", rawURL, "error", err)
		return nil, fmt.Errorf("malformed sandbox output for %s: %w", rawURL, err)
	}
	return &resp, nil
}

// resolveWorkerCommand returns the argv prefix for the sandbox child.
func (f *Fetcher) resolveWorkerCommand() ([]string, error) {
	if len(f.workerCommand) > 0 {
		return append([]string(nil), f.workerCommand...), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return []string{exe, WorkerCommandName}, nil
}

// maxOutputSize bounds how much child output the parent is willing to read:
// the body ceiling inflated by base64 (4/3), plus slack for headers and the
// JSON envelope.
func (f *Fetcher) maxOutputSize() int64 {
	return f.memoryLimit + f.memoryLimit/2 + 64*1024
}
