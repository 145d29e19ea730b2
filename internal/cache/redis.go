package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tikagate/internal/port"
)

// Redis is a cache backed by a Redis server, for deployments running more
// than one gateway replica in front of the same engine.
type Redis struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(addr, password string, db int, defaultTTL time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}

	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &Redis{client: client, defaultTTL: defaultTTL}, nil
}

func (c *Redis) Get(ctx context.Context, prefix, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, prefix+":"+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, port.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (c *Redis) Set(ctx context.Context, prefix, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, prefix+":"+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}
