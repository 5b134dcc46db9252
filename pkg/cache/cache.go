// Package cache stores rendered layout artifacts.
//
// Rendering a diagram goes through Graphviz and, for PNG and PDF, an
// external converter, so the pipeline caches artifacts keyed by the
// content hash of the source document and the render options. Three
// backends implement [Cache]:
//
//   - [FileCache]: one entry file per key under a local directory
//   - [RedisCache]: a shared Redis instance, entries expire natively
//   - [NullCache]: never stores anything (used with --no-cache)
//
// Keys come from [ArtifactKey]; use [Hash] for document content hashes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLArtifact is the default lifetime of a rendered artifact.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the backend.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// ArtifactKeyOpts are the render inputs that distinguish artifacts built
// from the same document.
type ArtifactKeyOpts struct {
	Schema   string `json:"schema"`
	Strict   bool   `json:"strict"`
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// keyVersion is bumped whenever rendered output changes shape.
const keyVersion = 1

// ArtifactKey returns the cache key for a rendered artifact:
// "artifact:" followed by a hash of the document hash and opts.
func ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	data, _ := json.Marshal(struct {
		Version int             `json:"v"`
		Doc     string          `json:"doc"`
		Opts    ArtifactKeyOpts `json:"opts"`
	}{keyVersion, docHash, opts})
	return "artifact:" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullCache stores nothing; every Get misses.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
