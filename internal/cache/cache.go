// Package cache implements the cache-aside policy used by the movie
// service on top of a TTL key/value store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is a time-boxed key/value store. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Name() string
}

// Cache wraps a Store and collapses concurrent misses for the same key.
type Cache struct {
	store Store
	group singleflight.Group
}

// New creates a Cache over the given store.
func New(store Store) *Cache {
	return &Cache{store: store}
}

// Backend names the underlying store.
func (c *Cache) Backend() string {
	return c.store.Name()
}

// Fetch returns the cached value for key, or runs produce, stores its
// result for ttl and returns it. Producer errors are returned and never
// cached. Store failures are logged and treated as a miss.
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, produce func(context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := lookup[T](ctx, c.store, key); ok {
		slog.Debug("cache hit", "key", key)
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have filled the key while we waited.
		if v, ok := lookup[T](ctx, c.store, key); ok {
			return v, nil
		}

		v, err := produce(ctx)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(v)
		if err != nil {
			slog.Error("failed to encode cache value", "key", key, "error", err)
			return v, nil
		}
		if err := c.store.Set(ctx, key, data, ttl); err != nil {
			slog.Error("failed to set cache", "key", key, "error", err)
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}

	result, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: unexpected value type %T for key %s", v, key)
	}
	return result, nil
}

func lookup[T any](ctx context.Context, s Store, key string) (T, bool) {
	var v T

	data, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return v, false
	}
	return v, true
}
