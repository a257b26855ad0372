package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfigDefaults tests that the constructor fills sane defaults.
func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("got timeout %v, expected %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.MemoryLimit != DefaultMemoryLimit {
		t.Errorf("got memory limit %d, expected %d", cfg.MemoryLimit, DefaultMemoryLimit)
	}
	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("got concurrency %d, expected %d", cfg.Concurrency, DefaultConcurrency)
	}
	if cfg.GraphURL != DefaultGraphURL || cfg.RegistryURL != DefaultRegistryURL {
		t.Error("discovery endpoints not defaulted")
	}
	if cfg.DatabasePath == "" {
		t.Error("database path not defaulted")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

// TestConfigValidate tests each validation failure.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.DatabasePath = "" },
			wantErr: ErrNoDatabasePath,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative memory limit",
			mutate:  func(c *Config) { c.MemoryLimit = -1 },
			wantErr: ErrInvalidMemoryLimit,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name: "all node sources disabled",
			mutate: func(c *Config) {
				c.GraphURL = ""
				c.RegistryURL = ""
				c.NodesFile = ""
			},
			wantErr: ErrNoNodeSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfigFile tests YAML loading and overlay semantics.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("got %v, expected ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML is an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("timeout: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Fatal("expected an error for invalid YAML")
		}
	})

	t.Run("set fields overlay the defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
database: /var/lib/meshinfo/db.json
timeout: 30s
concurrency: 20
registryURL: ""
userAgent: meshinfo-test
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile: %v", err)
		}

		cfg := NewConfig()
		if err := cf.Apply(cfg); err != nil {
			t.Fatalf("Apply: %v", err)
		}

		if cfg.DatabasePath != "/var/lib/meshinfo/db.json" {
			t.Errorf("got database path %q", cfg.DatabasePath)
		}
		if cfg.Timeout != 30*time.Second {
			t.Errorf("got timeout %v", cfg.Timeout)
		}
		if cfg.Concurrency != 20 {
			t.Errorf("got concurrency %d", cfg.Concurrency)
		}
		if cfg.RegistryURL != "" {
			t.Errorf("explicit empty registryURL should disable the source, got %q", cfg.RegistryURL)
		}
		if cfg.GraphURL != DefaultGraphURL {
			t.Errorf("absent graphURL should keep the default, got %q", cfg.GraphURL)
		}
		if cfg.MemoryLimit != DefaultMemoryLimit {
			t.Errorf("absent memoryLimit should keep the default, got %d", cfg.MemoryLimit)
		}
		if cfg.UserAgent != "meshinfo-test" {
			t.Errorf("got user agent %q", cfg.UserAgent)
		}
	})

	t.Run("bad duration in file is an error", func(t *testing.T) {
		t.Parallel()

		cf := &File{Timeout: "not-a-duration"}
		if err := cf.Apply(NewConfig()); err == nil {
			t.Fatal("expected an error for a bad duration")
		}
	})
}

// TestFindConfigFile tests the search order.
func TestFindConfigFile(t *testing.T) {
	// Not parallel: mutates the working directory.

	t.Run("explicit path wins when it exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("got %q, expected %q", got, path)
		}
	})

	t.Run("explicit missing path yields empty", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("got %q, expected empty", got)
		}
	})

	t.Run("current directory is searched", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}

		t.Chdir(dir)
		got := FindConfigFile("")
		// Compare resolved paths; the temp dir may be behind a symlink.
		want, _ := filepath.EvalSymlinks(path)
		gotResolved, _ := filepath.EvalSymlinks(got)
		if gotResolved != want {
			t.Errorf("got %q, expected %q", got, path)
		}
	})
}
