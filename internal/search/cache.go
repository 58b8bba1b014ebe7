package search

import (
	"container/list"
	"strings"
	"sync"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// DefaultCacheCapacity bounds the result cache when no capacity is configured.
const DefaultCacheCapacity = 50

type cacheEntry struct {
	key     string
	results []domain.SearchResult
}

// ResultCache is a bounded map from query text to results. Once full, the
// oldest inserted entry is evicted first. Reads do not refresh an entry.
type ResultCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

// NewResultCache creates a cache holding at most capacity queries.
func NewResultCache(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ResultCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// CacheKey normalizes a query for cache lookups.
func CacheKey(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Get returns a copy of the cached results for query.
func (c *ResultCache) Get(query string) ([]domain.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[CacheKey(query)]
	if !ok {
		return nil, false
	}
	return cloneResults(el.Value.(*cacheEntry).results), true
}

// Put stores results for query, evicting the oldest entries beyond capacity.
func (c *ResultCache) Put(query string, results []domain.SearchResult) {
	key := CacheKey(query)
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).results = cloneResults(results)
		return
	}
	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, results: cloneResults(results)})
	for c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Len returns the number of cached queries.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear drops every cached query.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

func cloneResults(in []domain.SearchResult) []domain.SearchResult {
	if in == nil {
		return nil
	}
	out := make([]domain.SearchResult, len(in))
	copy(out, in)
	return out
}
