// Package cache provides the gateway's cache backends and the
// request-coalescing result cache built on top of them.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"tikagate/internal/port"
)

// Memory is an in-process cache backed by patrickmn/go-cache. Values are
// stored as raw bytes; expiry is handled by the library's janitor.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates an in-process cache. defaultTTL applies when Set is
// called with a zero TTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Memory{cache: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (c *Memory) Get(_ context.Context, prefix, key string) ([]byte, error) {
	val, found := c.cache.Get(prefix + ":" + key)
	if !found {
		return nil, port.ErrCacheMiss
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, port.ErrCacheMiss
	}
	return data, nil
}

func (c *Memory) Set(_ context.Context, prefix, key string, value []byte, ttl time.Duration) error {
	c.cache.Set(prefix+":"+key, value, ttl)
	return nil
}
