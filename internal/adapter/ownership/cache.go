package ownership

import (
	"context"
	"fmt"
	"sync"

	"github.com/firewatch/burn-data-service/internal/domain"
	"github.com/firewatch/burn-data-service/internal/observability"
)

// CachedResolver wraps an OwnershipResolver with an in-memory LRU cache.
// Keys are coordinates rounded to six decimal places, so repeated rows from
// the same burn unit hit the cache instead of the service.
type CachedResolver struct {
	inner   domain.OwnershipResolver
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedResolver creates a cache decorator around a resolver. Metrics may
// be nil.
func NewCachedResolver(inner domain.OwnershipResolver, maxEntries int, metrics *observability.Metrics) *CachedResolver {
	return &CachedResolver{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedResolver) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("%.6f,%.6f", lat, lon)
	if owner, ok := c.cache.get(key); ok {
		c.countLookup("hit")
		return owner, nil
	}
	c.countLookup("miss")

	owner, err := c.inner.Resolve(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	// Only cache non-empty labels so transient empty answers can be retried.
	if owner != "" {
		c.cache.put(key, owner)
	}
	return owner, nil
}

func (c *CachedResolver) countLookup(result string) {
	if c.metrics != nil {
		c.metrics.OwnershipCache.WithLabelValues(result).Inc()
	}
}

// lruCache is a simple thread-safe LRU cache for ownership labels.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value string
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	evicted := c.tail
	c.remove(evicted)
	delete(c.entries, evicted.key)
}
