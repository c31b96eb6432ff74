package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/bagtree/pkg/cache"
	bterrors "github.com/matzehuels/bagtree/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[decompose]
ordering = "min-degree"
operations = ["compress", "bag-size"]

[cache]
backend = "redis"
addr = "localhost:6379"
db = 2

[serve]
max_vertices = 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Decompose.Ordering != "min-degree" || len(cfg.Decompose.Operations) != 2 {
		t.Errorf("decompose = %+v", cfg.Decompose)
	}
	opts := cfg.CacheOptions()
	if opts.Backend != cache.BackendRedis || opts.Addr != "localhost:6379" || opts.DB != 2 {
		t.Errorf("cache options = %+v", opts)
	}
	// unset keys keep their defaults
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("serve addr = %q, want the default", cfg.Serve.Addr)
	}
	if l := cfg.Limits(); l.MaxVertices != 10 || l.MaxEdges != bterrors.DefaultLimits.MaxEdges {
		t.Errorf("limits = %+v", l)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(error) bool
	}{
		{"unknown key", "[decompose]\norderin = \"min-fill\"\n", func(err error) bool { return errors.Is(err, ErrUnknownKey) }},
		{"unknown ordering", "[decompose]\nordering = \"random\"\n", func(err error) bool { return bterrors.Is(err, bterrors.ErrCodeInvalidOrdering) }},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n", func(err error) bool { return bterrors.Is(err, bterrors.ErrCodeInvalidInput) }},
		{"syntax", "[decompose\n", func(err error) bool { return err != nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should fall back: %v", err)
	}
	if cfg.Decompose.Ordering != "min-fill" {
		t.Errorf("ordering = %q", cfg.Decompose.Ordering)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit file should fail")
	}
}

func TestLoad_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[serve]\naddr = \":9000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("serve addr = %q", cfg.Serve.Addr)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p, filepath.Join(".config", AppName, "config.toml")) {
		t.Errorf("DefaultPath() = %q", p)
	}
}
