package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"tikagate/internal/port"
)

// ResultCache caches rendered response payloads and coalesces concurrent
// identical requests so the engine sees each distinct document once per TTL
// window. Cache failures are soft; the compute function is the source of
// truth.
type ResultCache struct {
	backend port.Cache
	ttl     time.Duration
	group   singleflight.Group
	log     *logrus.Entry
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewResultCache wraps a cache backend with single-flight coalescing.
func NewResultCache(backend port.Cache, ttl time.Duration, log *logrus.Entry) *ResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{backend: backend, ttl: ttl, log: log}
}

// Key derives a cache key from the document bytes and the request parameters
// that shape the response. Documents are keyed by content digest, so renamed
// or re-uploaded copies of the same bytes share an entry.
func Key(payload []byte, params ...string) string {
	h := sha256.New()
	h.Write(payload)
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return fmt.Sprintf("%x", h.Sum(nil)[:16])
}

// GetOrCompute returns the cached payload for key, or runs compute exactly
// once across concurrent callers and caches its result. The second return
// reports whether the value came from cache.
func (c *ResultCache) GetOrCompute(ctx context.Context, prefix, key string, compute func() ([]byte, error)) ([]byte, bool, error) {
	if data, err := c.lookup(ctx, prefix, key); err == nil {
		c.hits.Add(1)
		return data, true, nil
	}
	c.misses.Add(1)

	val, err, _ := c.group.Do(prefix+":"+key, func() (interface{}, error) {
		// A concurrent flight may have populated the entry while this
		// caller waited on the group.
		if data, err := c.lookup(ctx, prefix, key); err == nil {
			return data, nil
		}
		data, err := compute()
		if err != nil {
			return nil, err
		}
		if setErr := c.backend.Set(ctx, prefix, key, data, c.ttl); setErr != nil {
			c.log.WithFields(logrus.Fields{
				"prefix": prefix,
				"error":  setErr.Error(),
			}).Warn("cache: set failed")
		}
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]byte), false, nil
}

// Stats returns the lifetime hit and miss counts.
func (c *ResultCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *ResultCache) lookup(ctx context.Context, prefix, key string) ([]byte, error) {
	data, err := c.backend.Get(ctx, prefix, key)
	if err != nil {
		if !errors.Is(err, port.ErrCacheMiss) {
			c.log.WithFields(logrus.Fields{
				"prefix": prefix,
				"error":  err.Error(),
			}).Warn("cache: get failed")
		}
		return nil, err
	}
	return data, nil
}
