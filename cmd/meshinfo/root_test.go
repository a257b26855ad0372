package main

import (
	"testing"

	"github.com/nao1215/meshinfo/internal/fetch"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "meshinfo" {
			t.Errorf("expected use 'meshinfo', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		hasCrawl := false
		hasStats := false
		hasInit := false
		for _, sub := range cmd.Commands() {
			switch sub.Name() {
			case "crawl":
				hasCrawl = true
			case "stats":
				hasStats = true
			case "init":
				hasInit = true
			}
		}
		if !hasCrawl {
			t.Error("expected crawl subcommand")
		}
		if !hasStats {
			t.Error("expected stats subcommand")
		}
		if !hasInit {
			t.Error("expected init subcommand")
		}
	})

	t.Run("sandbox worker command is hidden", func(t *testing.T) {
		t.Parallel()
		for _, sub := range cmd.Commands() {
			if sub.Name() == fetch.WorkerCommandName {
				if !sub.Hidden {
					t.Error("expected the sandbox worker command to be hidden")
				}
				return
			}
		}
		t.Error("expected the sandbox worker command to be registered")
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}
