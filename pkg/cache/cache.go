// Package cache stores raw API response bodies so repeated lookups can skip
// the network.
//
// Caching is opt-in. The default backend is [NullCache], which never stores
// anything, so every client call performs exactly one HTTP round trip unless
// a real backend is configured:
//
//   - [FileCache]: one file per entry under a local directory (CLI use)
//   - [RedisCache]: a shared Redis instance (services running several replicas)
//   - [NullCache]: disabled
//
// Keys are arbitrary strings (the client uses the full request URL); backends
// hash them before touching storage. Use [Scoped] to isolate key spaces.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTL.
//
// Get returns (nil, false, nil) on a miss. Expired entries are reported as
// misses. A TTL of 0 passed to Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}


// Hash returns the hex SHA-256 of data. Backends store entries under the
// hash of the caller's key, so request URLs never reach the filesystem or
// Redis verbatim.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullCache is the disabled backend: every Get misses and writes are dropped.
type NullCache struct{}

// NewNullCache returns the disabled backend.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error { return nil }
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
