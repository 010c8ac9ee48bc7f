package dashboard

import (
	"container/list"
	"sync"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
)

// rangeKey identifies a clamped selection by its day numbers.
type rangeKey struct {
	start, end int64
}

func keyOf(r forecast.DateRange) rangeKey {
	return rangeKey{start: r.Start.Unix(), end: r.End.Unix()}
}

type cacheEntry struct {
	key   rangeKey
	views Views
}

// viewCache is a thread-safe LRU of derived views per selection. The front of
// order is the most recently used range. Cached views are shared between
// callers and must not be mutated.
type viewCache struct {
	capacity int

	mu    sync.Mutex
	order *list.List
	byKey map[rangeKey]*list.Element
}

func newViewCache(capacity int) *viewCache {
	return &viewCache{
		capacity: capacity,
		order:    list.New(),
		byKey:    make(map[rangeKey]*list.Element, capacity),
	}
}

func (c *viewCache) get(r forecast.DateRange) (Views, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byKey[keyOf(r)]
	if !ok {
		return Views{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).views, true
}

func (c *viewCache) put(r forecast.DateRange, v Views) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := keyOf(r)
	if el, ok := c.byKey[k]; ok {
		el.Value.(*cacheEntry).views = v
		c.order.MoveToFront(el)
		return
	}
	c.byKey[k] = c.order.PushFront(&cacheEntry{key: k, views: v})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byKey, oldest.Value.(*cacheEntry).key)
	}
}

func (c *viewCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
