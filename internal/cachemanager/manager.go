// Package cachemanager provides the generic TTL caches used by the cached
// entry point provider.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a keyed TTL cache.
type CacheManager[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
