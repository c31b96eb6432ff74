// Package config loads the bagtree configuration file.
//
// The file is TOML and every section is optional:
//
//	[decompose]
//	ordering = "min-degree"
//	operations = ["compress", "bag-size"]
//
//	[cache]
//	backend = "redis"     # none, file, redis or mongo
//	addr = "localhost:6379"
//
//	[serve]
//	addr = ":8080"
//	max_vertices = 50000
//
// Without an explicit path, [Load] reads $XDG_CONFIG_HOME/bagtree/config.toml
// (~/.config/bagtree/config.toml) and falls back to [Default] when that file
// does not exist. Command-line flags override the loaded values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bagtree/pkg/cache"
	bterrors "github.com/matzehuels/bagtree/pkg/errors"
	"github.com/matzehuels/bagtree/pkg/ordering"
)

// AppName names the configuration and cache directories.
const AppName = "bagtree"

// ErrUnknownKey is returned for keys that no field accepts, which usually
// means a typo.
var ErrUnknownKey = errors.New("unknown configuration key")

// Config is the decoded configuration file.
type Config struct {
	Decompose Decompose `toml:"decompose"`
	Cache     Cache     `toml:"cache"`
	Serve     Serve     `toml:"serve"`
}

// Decompose holds the defaults for the decompose command and the API.
type Decompose struct {
	Ordering   string   `toml:"ordering"`
	Operations []string `toml:"operations"`
}

type Cache struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Serve configures the HTTP API.
type Serve struct {
	Addr        string `toml:"addr"`
	MaxVertices int    `toml:"max_vertices"`
	MaxEdges    int    `toml:"max_edges"`
	MaxEdgeSize int    `toml:"max_edge_size"`
}

// Default returns the configuration used when no file exists: min-fill
// ordering, a file cache in the user cache directory, and the API on :8080
// with the default input limits.
func Default() *Config {
	dir, _ := CacheDir()
	backend := cache.BackendFile
	if dir == "" {
		backend = cache.BackendNone
	}
	return &Config{
		Decompose: Decompose{Ordering: ordering.DefaultName},
		Cache:     Cache{Backend: backend, Dir: dir},
		Serve: Serve{
			Addr:        ":8080",
			MaxVertices: bterrors.DefaultLimits.MaxVertices,
			MaxEdges:    bterrors.DefaultLimits.MaxEdges,
			MaxEdgeSize: bterrors.DefaultLimits.MaxEdgeSize,
		},
	}
}

// Load reads the configuration at path on top of [Default]. An empty path
// means [DefaultPath], which may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the ordering and cache backend names.
func (c *Config) Validate() error {
	if c.Decompose.Ordering != "" {
		if err := bterrors.ValidateChoice(bterrors.ErrCodeInvalidOrdering, "ordering", c.Decompose.Ordering, ordering.Names()); err != nil {
			return err
		}
	}
	if c.Cache.Backend != "" {
		backends := []string{cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo}
		if err := bterrors.ValidateChoice(bterrors.ErrCodeInvalidInput, "cache backend", c.Cache.Backend, backends); err != nil {
			return err
		}
	}
	return nil
}

// CacheOptions converts the [cache] section for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:    c.Cache.Backend,
		Dir:        c.Cache.Dir,
		Addr:       c.Cache.Addr,
		Password:   c.Cache.Password,
		DB:         c.Cache.DB,
		URI:        c.Cache.URI,
		Database:   c.Cache.Database,
		Collection: c.Cache.Collection,
	}
}

// Limits converts the [serve] limits.
func (c *Config) Limits() bterrors.Limits {
	return bterrors.Limits{
		MaxVertices: c.Serve.MaxVertices,
		MaxEdges:    c.Serve.MaxEdges,
		MaxEdgeSize: c.Serve.MaxEdgeSize,
	}
}

// DefaultPath returns the configuration file path using the XDG standard
// (~/.config/bagtree/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/bagtree/).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
