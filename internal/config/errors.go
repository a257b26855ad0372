package config

import "errors"

// Configuration validation errors.
//
// Design decision: package-level sentinel errors rather than fresh error
// values in Validate(). Callers can use errors.Is() for programmatic
// handling while the messages stay human-readable.
var (
	// ErrNoDatabasePath is returned when the database path is empty.
	ErrNoDatabasePath = errors.New("no database path: set --db or the database option in .meshinfo")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMemoryLimit is returned when the sandbox memory limit is
	// not positive. A crawl without a memory ceiling would defeat the
	// point of the sandbox.
	ErrInvalidMemoryLimit = errors.New("invalid memory limit: must be positive")

	// ErrInvalidConcurrency is returned when the worker pool width is not
	// positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrNoNodeSource is returned when every discovery source is disabled.
	// A crawl with no way to learn the node set can do nothing.
	ErrNoNodeSource = errors.New("no node source: enable a graph URL, a registry URL, or a nodes file")
)
