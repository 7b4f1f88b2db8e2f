package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the byte-oriented cache used by the feed engine. Counters never
// expire; values expire after the store's TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
}

type Cache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	m        map[string]entry
	counters map[string]int64
	now      func() time.Time
}

type entry struct {
	val []byte
	exp time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Cache{
		ttl:      ttl,
		m:        make(map[string]entry),
		counters: make(map[string]int64),
		now:      time.Now,
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	return e.val, true, nil
}

func (c *Cache) Set(_ context.Context, key string, val []byte) error {
	c.mu.Lock()
	c.m[key] = entry{val: val, exp: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Counter(_ context.Context, key string) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[key], nil
}

func (c *Cache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

// StartJanitor sweeps expired values every interval until stop is called.
// Feed keys are versioned, so superseded pages are never read again and only
// the sweep reclaims them.
func (c *Cache) StartJanitor(interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = c.ttl
	}

	done := make(chan struct{})
	var once sync.Once

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				c.sweep()
			case <-done:
				return
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}

// sweep drops expired values and reports how many were removed.
func (c *Cache) sweep() int {
	now := c.now()
	removed := 0

	c.mu.Lock()
	for k, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, k)
			removed++
		}
	}
	c.mu.Unlock()

	return removed
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.m = make(map[string]entry)
	c.counters = make(map[string]int64)
	c.mu.Unlock()
}
