package contour

import (
	"container/list"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
)

// Key is an exact cache key: the bit patterns of the axial and radial
// coordinates. Two queries share a key only if they are bit identical.
type Key [2]uint64

// KeyOf returns the cache key of q.
func KeyOf(q r2.Vec) Key {
	return Key{math.Float64bits(q.X), math.Float64bits(q.Y)}
}

// CacheStats reports cache activity since the last Reset.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

// HitRate returns the fraction of lookups that hit.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache memoizes contour distances. Implementations must return exactly
// the value stored for a key.
type Cache interface {
	Get(k Key) (float64, bool)
	Put(k Key, d float64)
	Reset()
	Stats() CacheStats
}

// mapCache grows without bound.
type mapCache struct {
	m            map[Key]float64
	hits, misses uint64
}

// NewCache returns an unbounded cache. It is not safe for concurrent use.
func NewCache() Cache {
	return &mapCache{m: make(map[Key]float64)}
}

func (c *mapCache) Get(k Key) (float64, bool) {
	d, ok := c.m[k]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return d, ok
}

func (c *mapCache) Put(k Key, d float64) { c.m[k] = d }

func (c *mapCache) Reset() {
	c.m = make(map[Key]float64)
	c.hits, c.misses = 0, 0
}

func (c *mapCache) Stats() CacheStats {
	return CacheStats{Hits: c.hits, Misses: c.misses, Size: len(c.m)}
}

type lruEntry struct {
	key Key
	d   float64
}

// lruCache holds at most capacity entries, evicting the least recently
// used one.
type lruCache struct {
	capacity int
	ll       *list.List
	m        map[Key]*list.Element
	stats    CacheStats
}

// NewLRUCache returns a cache bounded to capacity entries. It is not safe
// for concurrent use.
func NewLRUCache(capacity int) Cache {
	if capacity <= 0 {
		panic("lru capacity <= 0")
	}
	return &lruCache{
		capacity: capacity,
		ll:       list.New(),
		m:        make(map[Key]*list.Element, capacity),
	}
}

func (c *lruCache) Get(k Key) (float64, bool) {
	if e, ok := c.m[k]; ok {
		c.ll.MoveToFront(e)
		c.stats.Hits++
		return e.Value.(*lruEntry).d, true
	}
	c.stats.Misses++
	return 0, false
}

func (c *lruCache) Put(k Key, d float64) {
	if e, ok := c.m[k]; ok {
		c.ll.MoveToFront(e)
		e.Value.(*lruEntry).d = d
		return
	}
	c.m[k] = c.ll.PushFront(&lruEntry{key: k, d: d})
	if c.ll.Len() > c.capacity {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.m, last.Value.(*lruEntry).key)
		c.stats.Evictions++
	}
}

func (c *lruCache) Reset() {
	c.ll.Init()
	c.m = make(map[Key]*list.Element, c.capacity)
	c.stats = CacheStats{}
}

func (c *lruCache) Stats() CacheStats {
	s := c.stats
	s.Size = c.ll.Len()
	return s
}

// syncCache serialises access to another cache.
type syncCache struct {
	mu sync.Mutex
	c  Cache
}

// NewSyncCache wraps c so it may be shared between goroutines.
func NewSyncCache(c Cache) Cache {
	return &syncCache{c: c}
}

func (s *syncCache) Get(k Key) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Get(k)
}

func (s *syncCache) Put(k Key, d float64) {
	s.mu.Lock()
	s.c.Put(k, d)
	s.mu.Unlock()
}

func (s *syncCache) Reset() {
	s.mu.Lock()
	s.c.Reset()
	s.mu.Unlock()
}

func (s *syncCache) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Stats()
}
