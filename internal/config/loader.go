package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".meshinfo"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .meshinfo configuration file. All
// fields are optional; unset fields leave the corresponding Config value
// alone.
type File struct {
	// Database is the nodeinfo database file path.
	Database string `yaml:"database,omitempty"`

	// Timeout is the per-request deadline as a Go duration string,
	// for example "10s" or "1m30s".
	Timeout string `yaml:"timeout,omitempty"`

	// MemoryLimit is the sandbox heap ceiling in bytes.
	MemoryLimit int64 `yaml:"memoryLimit,omitempty"`

	// Concurrency is the probe worker pool width.
	Concurrency int `yaml:"concurrency,omitempty"`

	// GraphURL is the network map graph endpoint. A pointer so an
	// explicit empty string disables the source, while an absent key
	// keeps the default.
	GraphURL *string `yaml:"graphURL,omitempty"`

	// RegistryURL is the attestation registry endpoint, pointer for the
	// same reason as GraphURL.
	RegistryURL *string `yaml:"registryURL,omitempty"`

	// NodesFile is a local node list path.
	NodesFile string `yaml:"nodesFile,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// LoadConfigFile loads a configuration file. If the file does not exist it
// returns ErrConfigNotFound; callers decide whether that matters based on
// whether the path was explicitly given by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply overlays the file's set fields onto cfg.
func (cf *File) Apply(cfg *Config) error {
	if cf.Database != "" {
		cfg.DatabasePath = cf.Database
	}
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in config file: %w", cf.Timeout, err)
		}
		cfg.Timeout = d
	}
	if cf.MemoryLimit != 0 {
		cfg.MemoryLimit = cf.MemoryLimit
	}
	if cf.Concurrency != 0 {
		cfg.Concurrency = cf.Concurrency
	}
	if cf.GraphURL != nil {
		cfg.GraphURL = *cf.GraphURL
	}
	if cf.RegistryURL != nil {
		cfg.RegistryURL = *cf.RegistryURL
	}
	if cf.NodesFile != "" {
		cfg.NodesFile = cf.NodesFile
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	return nil
}

// FindConfigFile searches for the configuration file:
//  1. If configPath is specified, use it directly
//  2. Look for .meshinfo in the current directory
//  3. Look for .meshinfo in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
