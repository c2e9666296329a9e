// Package service contains the business logic for the placement service.
package service

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/metrics"
	"github.com/guttosm/placement-service/internal/service/cache"
	lru "github.com/zyedidia/generic/cache"
)

const (
	defaultCacheShards = 16
	sweepInterval      = time.Minute
)

// ShardedCache keeps finished layouts in independently locked LRU shards.
// Keys are assigned to shards by FNV-1a hash.
type ShardedCache struct {
	shards []*cacheShard
	mask   uint32
}

// NewShardedCache creates a cache holding roughly capacity layouts for ttl.
// numShards is rounded up to a power of two; zero or less means 16. Every
// shard holds at least one entry.
func NewShardedCache(capacity int, ttl time.Duration, numShards int) *ShardedCache {
	return newShardedCache(capacity, ttl, numShards, time.Now)
}

func newShardedCache(capacity int, ttl time.Duration, numShards int, clock func() time.Time) *ShardedCache {
	if numShards <= 0 {
		numShards = defaultCacheShards
	}
	n := 1
	for n < numShards {
		n <<= 1
	}

	sc := &ShardedCache{shards: make([]*cacheShard, n), mask: uint32(n - 1)}
	for i := range sc.shards {
		sc.shards[i] = newCacheShard(max(capacity/n, 1), ttl, clock)
	}
	return sc
}

func (sc *ShardedCache) shardFor(key string) *cacheShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return sc.shards[h.Sum32()&sc.mask]
}

// Get returns the cached layout for key, if present and fresh.
func (sc *ShardedCache) Get(key string) (model.LayoutResult, bool) {
	return sc.shardFor(key).get(key)
}

// Set stores value under key.
func (sc *ShardedCache) Set(key string, value model.LayoutResult) {
	sc.shardFor(key).set(key, value)
}

// Invalidate drops key.
func (sc *ShardedCache) Invalidate(key string) {
	sc.shardFor(key).invalidate(key)
}

// Clear empties every shard and resets the counters.
func (sc *ShardedCache) Clear() {
	for _, s := range sc.shards {
		s.clear()
	}
	metrics.RecordCacheOperation("clear", "success")
}

// Stop ends the background sweeps. Safe to call more than once.
func (sc *ShardedCache) Stop() {
	for _, s := range sc.shards {
		s.stop()
	}
}

// Metrics sums the counters of all shards.
func (sc *ShardedCache) Metrics() cache.Metrics {
	var total cache.Metrics
	for _, s := range sc.shards {
		m := s.metrics()
		total.Hits += m.Hits
		total.Misses += m.Misses
		total.Evictions += m.Evictions
		total.Size += m.Size
		total.Capacity += m.Capacity
	}
	return total
}

type cachedLayout struct {
	layout  model.LayoutResult
	expires time.Time
}

// cacheShard wraps a generic LRU, which is not goroutine safe, with a mutex
// and per-entry expiry.
type cacheShard struct {
	mu       sync.Mutex
	lru      *lru.Cache[string, cachedLayout]
	capacity int
	ttl      time.Duration
	clock    func() time.Time

	hits, misses, evictions atomic.Int64

	done     chan struct{}
	stopOnce sync.Once
}

func newCacheShard(capacity int, ttl time.Duration, clock func() time.Time) *cacheShard {
	s := &cacheShard{capacity: capacity, ttl: ttl, clock: clock, done: make(chan struct{})}
	s.lru = s.newLRU()
	go s.sweepLoop()
	return s
}

func (s *cacheShard) newLRU() *lru.Cache[string, cachedLayout] {
	c := lru.New[string, cachedLayout](s.capacity)
	c.SetEvictCallback(func(string, cachedLayout) {
		s.evictions.Add(1)
		metrics.RecordCacheOperation("evict", "capacity")
	})
	return c
}

func (s *cacheShard) get(key string) (model.LayoutResult, bool) {
	s.mu.Lock()
	entry, ok := s.lru.Get(key)
	stale := ok && s.clock().After(entry.expires)
	if stale {
		s.lru.Remove(key)
	}
	s.mu.Unlock()

	if !ok || stale {
		s.misses.Add(1)
		result := "miss"
		if stale {
			result = "expired"
		}
		metrics.RecordCacheOperation("get", result)
		return model.LayoutResult{}, false
	}

	s.hits.Add(1)
	metrics.RecordCacheOperation("get", "hit")
	return entry.layout, true
}

func (s *cacheShard) set(key string, layout model.LayoutResult) {
	s.mu.Lock()
	s.lru.Put(key, cachedLayout{layout: layout, expires: s.clock().Add(s.ttl)})
	s.mu.Unlock()
	metrics.RecordCacheOperation("set", "success")
}

func (s *cacheShard) invalidate(key string) {
	s.mu.Lock()
	_, ok := s.lru.Get(key)
	if ok {
		s.lru.Remove(key)
	}
	s.mu.Unlock()

	if ok {
		metrics.RecordCacheOperation("invalidate", "success")
	}
}

func (s *cacheShard) clear() {
	s.mu.Lock()
	s.lru = s.newLRU()
	s.mu.Unlock()
	s.hits.Store(0)
	s.misses.Store(0)
	s.evictions.Store(0)
}

// sweep drops expired entries without touching their recency.
func (s *cacheShard) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	var stale []string
	s.lru.Each(func(key string, entry cachedLayout) {
		if now.After(entry.expires) {
			stale = append(stale, key)
		}
	})
	for _, key := range stale {
		s.lru.Remove(key)
	}
}

func (s *cacheShard) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *cacheShard) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *cacheShard) metrics() cache.Metrics {
	s.mu.Lock()
	size := s.lru.Size()
	s.mu.Unlock()
	return cache.Metrics{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
		Size:      size,
		Capacity:  s.capacity,
	}
}
