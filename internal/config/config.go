package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The resource bounds match what the original
// crawlers of the public mesh used for years of unattended runs.
const (
	// DefaultTimeout is the wall-clock deadline for one sandboxed request.
	// Mesh links can be slow multi-hop paths, but a node that has not
	// produced a response within 10 seconds is recorded as absent and
	// retried on the next run anyway.
	DefaultTimeout = 10 * time.Second

	// DefaultMemoryLimit is the heap ceiling for the sandbox child that
	// performs a request. Real nodeinfo documents are a few kilobytes;
	// 10 MiB only ever matters against a memory bomb.
	DefaultMemoryLimit = 10 * 1024 * 1024 // 10 MiB

	// DefaultConcurrency is the worker pool width for probing. Every
	// in-flight probe owns one sandbox process and one socket, so total
	// resource usage is roughly Concurrency × MemoryLimit; 100 keeps a
	// full-mesh crawl under a gigabyte at the defaults.
	DefaultConcurrency = 100

	// DefaultGraphURL is the public network map graph document.
	DefaultGraphURL = "https://www.fc00.org/static/graph.json"

	// DefaultRegistryURL is the public attestation registry endpoint.
	DefaultRegistryURL = "http://api.hia.cjdns.ca/"

	// DefaultUserAgent identifies the crawler to node and registry
	// operators.
	DefaultUserAgent = "meshinfo"

	// DefaultDatabaseFile is the node database file name inside the data
	// directory.
	DefaultDatabaseFile = "nodeinfo_database.json"

	// AppName is the application name used for XDG directory paths.
	AppName = "meshinfo"
)

// Config holds all configuration options for a crawl run.
//
// Design decision: a single flat struct instead of nested sub-structs. The
// number of options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// DatabasePath is the nodeinfo database file. Empty means the default
	// location under the XDG data directory.
	DatabasePath string

	// Timeout is the wall-clock deadline per sandboxed request.
	Timeout time.Duration

	// MemoryLimit is the per-request sandbox heap ceiling in bytes.
	MemoryLimit int64

	// Concurrency is the probe worker pool width.
	Concurrency int

	// GraphURL is the network map graph endpoint. Empty disables the
	// graph source.
	GraphURL string

	// RegistryURL is the attestation registry endpoint. Empty disables
	// the registry source.
	RegistryURL string

	// NodesFile is an optional local node list (one address per line).
	// When set it is used as an additional discovery source.
	NodesFile string

	// UserAgent is sent with every request, both discovery and probing.
	UserAgent string

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is the configuration file path. Empty means search
	// for .meshinfo in the current directory and then the home directory.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
//
// Design decision: a constructor instead of relying on zero values because
// most defaults are non-zero. It also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		DatabasePath: filepath.Join(XDGDataDir(), DefaultDatabaseFile),
		Timeout:      DefaultTimeout,
		MemoryLimit:  DefaultMemoryLimit,
		Concurrency:  DefaultConcurrency,
		GraphURL:     DefaultGraphURL,
		RegistryURL:  DefaultRegistryURL,
		UserAgent:    DefaultUserAgent,
	}
}

// XDGDataDir returns the XDG data directory for meshinfo.
// On Linux: ~/.local/share/meshinfo
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for meshinfo.
// On Linux: ~/.config/meshinfo
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration, returning a sentinel error describing
// the first problem found. Called once after flag and file merging, before
// any crawling begins.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return ErrNoDatabasePath
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MemoryLimit <= 0 {
		return ErrInvalidMemoryLimit
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.GraphURL == "" && c.RegistryURL == "" && c.NodesFile == "" {
		return ErrNoNodeSource
	}
	return nil
}
