package nodes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// staticSource is a Source with fixed results for Discover tests.
type staticSource struct {
	name  string
	nodes []string
	err   error
}

func (s *staticSource) Name() string { return s.name }
func (s *staticSource) Nodes(context.Context) ([]string, error) {
	return s.nodes, s.err
}

// TestDiscover tests source union, dedup, and failure handling.
func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("unions and dedupes across sources", func(t *testing.T) {
		t.Parallel()

		got, err := Discover(context.Background(), nil,
			&staticSource{name: "a", nodes: []string{"fc00::2", "fc00::1", "fc00::2"}},
			&staticSource{name: "b", nodes: []string{"fc00::3", "fc00::1", ""}},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"fc00::1", "fc00::2", "fc00::3"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, expected %v", got, want)
		}
	})

	t.Run("one failing source does not abort discovery", func(t *testing.T) {
		t.Parallel()

		got, err := Discover(context.Background(), nil,
			&staticSource{name: "down", err: errors.New("connection refused")},
			&staticSource{name: "up", nodes: []string{"fc00::1"}},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0] != "fc00::1" {
			t.Errorf("got %v", got)
		}
	})

	t.Run("all sources failing is an error", func(t *testing.T) {
		t.Parallel()

		_, err := Discover(context.Background(), nil,
			&staticSource{name: "a", err: errors.New("boom")},
			&staticSource{name: "b", err: errors.New("bang")},
		)
		if err == nil {
			t.Fatal("expected an error when every source fails")
		}
	})

	t.Run("no sources yields no nodes and no error", func(t *testing.T) {
		t.Parallel()

		got, err := Discover(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %v, expected none", got)
		}
	})
}

// TestGraphSource tests graph document decoding.
func TestGraphSource(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"nodes": [{"id": "fc00::1"}, {"id": "fc00::2"}], "edges": []}`))
	}))
	defer srv.Close()

	src := &GraphSource{URL: srv.URL}
	got, err := src.Nodes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"fc00::1", "fc00::2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, expected %v", got, want)
	}
}

// TestRegistrySource tests flat array decoding and User-Agent forwarding.
func TestRegistrySource(t *testing.T) {
	t.Parallel()

	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`["fc00::1", "fc00::2"]`))
	}))
	defer srv.Close()

	src := &RegistrySource{URL: srv.URL, UserAgent: "meshinfo"}
	got, err := src.Nodes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %v", got)
	}
	if gotAgent != "meshinfo" {
		t.Errorf("got User-Agent %q", gotAgent)
	}
}

// TestRegistrySourceErrors tests failure reporting.
func TestRegistrySourceErrors(t *testing.T) {
	t.Parallel()

	t.Run("error status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		if _, err := (&RegistrySource{URL: srv.URL}).Nodes(context.Background()); err == nil {
			t.Fatal("expected an error for status 503")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		if _, err := (&RegistrySource{URL: srv.URL}).Nodes(context.Background()); err == nil {
			t.Fatal("expected an error for a malformed body")
		}
	})
}

// TestFileSource tests local node list parsing.
func TestFileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nodes.txt")
	content := "# comment\nfc00::1\n\n  fc00::2  \n#fc00::3\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := (&FileSource{Path: path}).Nodes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"fc00::1", "fc00::2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, expected %v", got, want)
	}

	if _, err := (&FileSource{Path: filepath.Join(t.TempDir(), "absent")}).Nodes(context.Background()); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
