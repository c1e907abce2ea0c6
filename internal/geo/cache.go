package geo

import (
	"container/list"
	"sync"
)

// CoastlineCache memoizes projected coastlines per projection descriptor
// so repeated builds with the same projection skip re-projection.
type CoastlineCache struct {
	coast *Coastlines
	cache *lruCache
}

// NewCoastlineCache creates a cache over coast holding up to maxEntries
// projections.
func NewCoastlineCache(coast *Coastlines, maxEntries int) *CoastlineCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &CoastlineCache{
		coast: coast,
		cache: newLRUCache(maxEntries),
	}
}

// Project returns the coastlines projected with p.
func (c *CoastlineCache) Project(p *Projection) ([]Path, error) {
	key := p.Descriptor()
	if paths, ok := c.cache.get(key); ok {
		return paths, nil
	}
	paths, err := c.coast.Project(p)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, paths)
	return paths, nil
}

// lruCache is a thread-safe LRU of projected paths keyed by descriptor.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type cached struct {
	key   string
	paths []Path
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) ([]Path, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cached).paths, true
}

func (c *lruCache) put(key string, paths []Path) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cached).paths = paths
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cached{key: key, paths: paths})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cached).key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
