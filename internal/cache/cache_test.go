package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("t")

	_, err := c.Get(ctx, "k")
	assert.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.True(t, IsNotFound(err))
}

func TestMemorySetNX(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")

	ok, err := c.SetNX(ctx, "jti", "1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "jti", "2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	v, _ := c.Get(ctx, "jti")
	assert.Equal(t, "1", v)
}

func TestMemorySetNXAfterExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")

	ok, _ := c.SetNX(ctx, "jti", "1", 10*time.Millisecond)
	require.True(t, ok)
	time.Sleep(30 * time.Millisecond)

	ok, err := c.SetNX(ctx, "jti", "2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemorySetNXSingleWinner(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := c.SetNX(ctx, "race", "x", time.Minute); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestNewFallsBackToMemory(t *testing.T) {
	c, err := New(context.Background(), Config{Driver: "unknown"})
	require.NoError(t, err)
	_, ok := c.(*memoryClient)
	assert.True(t, ok)
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}

func TestRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewRedis(ctx, Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestRedisKeysArePrefixed(t *testing.T) {
	c := newRedisFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "gl")
	defer c.Close()
	assert.Equal(t, "gl:recovery:abc", prefixed(c.prefix, "recovery:abc"))
}
