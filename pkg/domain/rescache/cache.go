package rescache

import (
	"container/list"
	"sync"
	"time"

	"github.com/inferlab/predictd/pkg/domain/model"
)

const (
	DefaultCapacity = 4096
	DefaultTTL      = 30 * time.Second
)

// entry is a single cached prediction.
//
// expiration is UnixNano. 0 means the entry never expires.
type entry struct {
	key        string
	result     model.Result
	expiration int64
}

func (e *entry) expired() bool {
	if e.expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > e.expiration
}

// Cache memoizes prediction results keyed by model and canonical input.
//
// It is a bounded LRU with per-entry TTL. Lookups and stores take a
// single lock for O(1) bookkeeping only, never across inference, so
// requests for unrelated keys do not wait on each other for long.
type Cache struct {
	data     map[string]*list.Element
	lru      *list.List
	mu       sync.RWMutex
	capacity int
	ttl      time.Duration
	interval time.Duration
	stopChan chan struct{}
	stats    Stats
}

type Option func(*Cache)

// WithCapacity bounds the cache to n entries, evicting the least
// recently used one on overflow. n = 0 removes the bound.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		c.capacity = n
	}
}

// WithTTL sets the lifetime of stored entries. d = 0 disables expiry.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		c.ttl = d
	}
}

// WithCleanupInterval lets a background janitor sweep expired entries
// every d. d = 0 leaves expiry to lazy removal on Lookup.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) {
		c.interval = d
	}
}

// New builds a Cache. Unless optioned otherwise, it holds up to
// DefaultCapacity entries for DefaultTTL each.
//
// Stop it when done, or its janitor goroutine leaks.
func New(opts ...Option) *Cache {
	c := &Cache{
		data:     make(map[string]*list.Element),
		lru:      list.New(),
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		stopChan: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.startJanitor()

	return c
}

// Lookup returns the stored result for key.
//
// Expired entries are removed on sight and count as misses.
func (c *Cache) Lookup(key string) (model.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.data[key]
	if !found {
		c.stats.Misses++
		return model.Result{}, false
	}

	e := elem.Value.(*entry)
	if e.expired() {
		c.removeElement(elem)
		c.stats.Misses++
		return model.Result{}, false
	}

	c.lru.MoveToFront(elem)
	c.stats.Hits++
	return e.result, true
}

// Store inserts result under key, unconditionally.
//
// A stored result is never mutated in place: storing over an existing
// key replaces the whole entry (last store wins). When the cache is at
// capacity, the least recently used entry makes room.
func (c *Cache) Store(key string, result model.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp int64
	if c.ttl > 0 {
		exp = time.Now().Add(c.ttl).UnixNano()
	}

	if elem, found := c.data[key]; found {
		elem.Value = &entry{key: key, result: result, expiration: exp}
		c.lru.MoveToFront(elem)
		return
	}

	if c.capacity > 0 && c.lru.Len() >= c.capacity {
		c.evictOldest()
	}

	elem := c.lru.PushFront(&entry{key: key, result: result, expiration: exp})
	c.data[key] = elem
}

func (c *Cache) evictOldest() {
	elem := c.lru.Back()
	if elem != nil {
		c.removeElement(elem)
		c.stats.Evictions++
	}
}

func (c *Cache) removeElement(elem *list.Element) {
	c.lru.Remove(elem)
	delete(c.data, elem.Value.(*entry).key)
}
