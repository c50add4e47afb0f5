// Package cache stores opaque byte blobs under string keys with optional
// expiry. It backs the undo journal and the validation report cache.
//
// Backends:
//   - FileCache: one JSON file per key under a directory (CLI default)
//   - RedisCache: shared storage for editors on several machines
//   - MongoCache: a collection with a TTL index
//   - NullCache: stores nothing
//
// Keys are built by a [Keyer] so that every backend sees the same layout.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a key/value store for serialized data.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// JournalKey is the key of the undo journal for a mesh document.
	JournalKey(docPath string) string

	// ReportKey is the key of a validation report for a document content
	// hash and a validator set. Validator order does not matter.
	ReportKey(contentHash string, validators []string) string
}

// DefaultKeyer produces unscoped keys of the form "kind:hash".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key layout.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) JournalKey(docPath string) string {
	return hashKey("journal", docPath)
}

func (DefaultKeyer) ReportKey(contentHash string, validators []string) string {
	return hashKey("report", contentHash, sortedCopy(validators))
}

// keyType returns the kind segment of a key ("journal", "report") for hook
// reporting. Scope prefixes are ignored.
func keyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend string
	Dir     string // file backend
	Redis   RedisConfig
	Mongo   MongoConfig
}

// Open creates the configured backend. An empty backend name means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: directory is required")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want file, redis, mongo or none)", opts.Backend)
	}
}
