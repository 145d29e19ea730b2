package port

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not found in the cache.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache stores serialized response payloads under prefixed keys. Backends
// must treat an expired entry exactly like a missing one.
type Cache interface {
	Get(ctx context.Context, prefix, key string) ([]byte, error)
	Set(ctx context.Context, prefix, key string, value []byte, ttl time.Duration) error
}
