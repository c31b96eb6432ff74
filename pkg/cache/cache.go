// Package cache stores computed decompositions and rendered artifacts.
//
// # Backends
//
// Every backend implements [Cache]:
//
//   - [NullCache] never stores anything
//   - [FileCache] keeps entries as JSON files under a directory (CLI default)
//   - [RedisCache] uses a Redis server, for the HTTP API
//   - [MongoCache] uses a MongoDB collection with a TTL index
//
// [Open] builds a backend from [Options], which the CLI fills from the
// configuration file.
//
// # Keys
//
// A [Keyer] derives keys from a content hash of the input and the options
// that influence the output. [ScopedKeyer] prefixes every key, which lets
// several tenants share one backend.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default expiry for cached entries.
const (
	TTLDecomposition = 7 * 24 * time.Hour
	TTLArtifact      = 24 * time.Hour
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Dir is the FileCache directory.
	Dir string

	// Addr, Password and DB configure RedisCache.
	Addr     string
	Password string
	DB       int

	// URI, Database and Collection configure MongoCache.
	URI        string
	Database   string
	Collection string
}

// Open connects to the backend named by opts.Backend. An empty backend
// means BackendFile when Dir is set and BackendNone otherwise.
func Open(ctx context.Context, opts Options) (Cache, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendNone
		if opts.Dir != "" {
			backend = BackendFile
		}
	}

	var (
		c   Cache
		err error
	)
	switch backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		c, err = NewFileCache(opts.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, RedisOptions{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
	case BackendMongo:
		c, err = NewMongoCache(ctx, MongoOptions{URI: opts.URI, Database: opts.Database, Collection: opts.Collection})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NullCache is a cache that never stores anything. It is used when caching
// is disabled.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
func (NullCache) Clear(context.Context) error                              { return nil }

var (
	_ Cache   = NullCache{}
	_ Clearer = NullCache{}
)
