package cache_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tikagate/internal/cache"
	"tikagate/internal/port"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func TestMemoryRoundTrip(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "parse", "abc", []byte("result"), time.Minute))

	data, err := c.Get(ctx, "parse", "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("result"), data)
}

func TestMemoryMiss(t *testing.T) {
	c := cache.NewMemory(time.Minute)

	data, err := c.Get(context.Background(), "parse", "missing")
	assert.Nil(t, data)
	assert.ErrorIs(t, err, port.ErrCacheMiss)
}

func TestMemoryPrefixesAreIsolated(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "parse", "k", []byte("parsed"), time.Minute))
	require.NoError(t, c.Set(ctx, "detect", "k", []byte("detected"), time.Minute))

	parsed, err := c.Get(ctx, "parse", "k")
	require.NoError(t, err)
	detected, err := c.Get(ctx, "detect", "k")
	require.NoError(t, err)

	assert.Equal(t, []byte("parsed"), parsed)
	assert.Equal(t, []byte("detected"), detected)
}

func TestMemoryExpiry(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "parse", "k", []byte("result"), 5*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := c.Get(ctx, "parse", "k")
	assert.ErrorIs(t, err, port.ErrCacheMiss)
}

func TestKeyDependsOnPayloadAndParams(t *testing.T) {
	base := cache.Key([]byte("document"), "text")

	assert.Equal(t, base, cache.Key([]byte("document"), "text"))
	assert.NotEqual(t, base, cache.Key([]byte("document"), "html"))
	assert.NotEqual(t, base, cache.Key([]byte("other document"), "text"))
	assert.Len(t, base, 32)
}

func TestResultCacheComputesOnMissThenHits(t *testing.T) {
	rc := cache.NewResultCache(cache.NewMemory(time.Minute), time.Minute, testLogger())
	ctx := context.Background()

	var calls int
	compute := func() ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}

	data, hit, err := rc.GetOrCompute(ctx, "parse", "k", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []byte("computed"), data)

	data, hit, err = rc.GetOrCompute(ctx, "parse", "k", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("computed"), data)
	assert.Equal(t, 1, calls)

	hits, misses := rc.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestResultCachePropagatesComputeError(t *testing.T) {
	rc := cache.NewResultCache(cache.NewMemory(time.Minute), time.Minute, testLogger())

	wantErr := errors.New("engine exploded")
	data, hit, err := rc.GetOrCompute(context.Background(), "parse", "k", func() ([]byte, error) {
		return nil, wantErr
	})

	assert.Nil(t, data)
	assert.False(t, hit)
	assert.ErrorIs(t, err, wantErr)

	// Errors are not cached; the next call computes again.
	data, _, err = rc.GetOrCompute(context.Background(), "parse", "k", func() ([]byte, error) {
		return []byte("recovered"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), data)
}

func TestResultCacheCoalescesConcurrentCalls(t *testing.T) {
	rc := cache.NewResultCache(cache.NewMemory(time.Minute), time.Minute, testLogger())

	var computes atomic.Int64
	release := make(chan struct{})
	compute := func() ([]byte, error) {
		computes.Add(1)
		<-release
		return []byte("shared"), nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]byte, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, _, err := rc.GetOrCompute(context.Background(), "parse", "k", compute)
			require.NoError(t, err)
			results[i] = data
		}(i)
	}

	// Give every caller time to join the flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), computes.Load())
	for _, data := range results {
		assert.Equal(t, []byte("shared"), data)
	}
}
