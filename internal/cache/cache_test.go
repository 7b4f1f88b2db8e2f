package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_SetGetExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := New(10 * time.Second)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v")))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), got)

	now = now.Add(11 * time.Second)

	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_SweepDropsUnreadExpiredKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := New(10 * time.Second)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "feed:list:v1:owners=u1@1", []byte("old")))
	_, err := c.Incr(ctx, "feed:ver:u1")
	require.NoError(t, err)

	now = now.Add(11 * time.Second)
	require.NoError(t, c.Set(ctx, "feed:list:v1:owners=u1@2", []byte("new")))

	require.Equal(t, 1, c.sweep())

	c.mu.RLock()
	_, stale := c.m["feed:list:v1:owners=u1@1"]
	_, fresh := c.m["feed:list:v1:owners=u1@2"]
	c.mu.RUnlock()
	require.False(t, stale)
	require.True(t, fresh)

	n, err := c.Counter(ctx, "feed:ver:u1")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestCache_JanitorSweepsUntilStopped(t *testing.T) {
	ctx := context.Background()
	c := New(time.Millisecond)

	require.NoError(t, c.Set(ctx, "k", []byte("v")))

	stop := c.StartJanitor(5 * time.Millisecond)
	defer stop()

	require.Eventually(t, func() bool {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return len(c.m) == 0
	}, time.Second, 5*time.Millisecond)

	stop()
}

func TestCache_Counters(t *testing.T) {
	ctx := context.Background()
	c := New(time.Second)

	n, err := c.Counter(ctx, "feed:ver:u1")
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = c.Incr(ctx, "feed:ver:u1")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = c.Counter(ctx, "feed:ver:u1")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	c.Clear()
	n, _ = c.Counter(ctx, "feed:ver:u1")
	require.Zero(t, n)
}

func TestCache_ImplementsStore(t *testing.T) {
	var _ Store = New(time.Second)
	var _ Store = NewRedis(RedisConfig{Addr: "127.0.0.1:0"})
}
