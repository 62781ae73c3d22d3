package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache bounds its size by evicting the least recently used entry and
// expires entries that were not read or written within ttl.
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	onEvict func(key string, data T)
	now     func() time.Time
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

// NewLRUCache creates a new LRU cache with TTL
func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// OnEvict registers fn to run for every entry removed by expiry, capacity
// or Delete. fn runs after the cache lock is released.
func (c *LRUCache[T]) OnEvict(fn func(key string, data T)) *LRUCache[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
	return c
}

// Get retrieves a value from the cache
func (c *LRUCache[T]) Get(key string) (T, bool) {
	var zero T
	var evicted []*cacheItem[T]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	now := c.now()
	if now.After(item.expiresAt) {
		evicted = append(evicted, c.removeElement(elem))
		return zero, false
	}

	item.expiresAt = now.Add(c.ttl)
	c.lru.MoveToFront(elem)
	return item.data, true
}

// Set stores a value in the cache
func (c *LRUCache[T]) Set(key string, data T) {
	var evicted []*cacheItem[T]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{
		key:       key,
		data:      data,
		expiresAt: c.now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	for c.maxSize > 0 && c.lru.Len() > c.maxSize {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		evicted = append(evicted, c.removeElement(oldest))
	}
}

// Delete removes a key from the cache
func (c *LRUCache[T]) Delete(key string) {
	var evicted []*cacheItem[T]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		evicted = append(evicted, c.removeElement(elem))
	}
}

func (c *LRUCache[T]) removeElement(elem *list.Element) *cacheItem[T] {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
	return item
}

func (c *LRUCache[T]) notify(items []*cacheItem[T]) {
	if len(items) == 0 {
		return
	}
	c.mu.Lock()
	fn := c.onEvict
	c.mu.Unlock()
	if fn == nil {
		return
	}
	for _, item := range items {
		fn(item.key, item.data)
	}
}

// CleanExpired removes all expired entries and returns count of removed items
func (c *LRUCache[T]) CleanExpired() int {
	var evicted []*cacheItem[T]
	defer func() { c.notify(evicted) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for elem := c.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*cacheItem[T]).expiresAt) {
			evicted = append(evicted, c.removeElement(elem))
		}
		elem = prev
	}

	return len(evicted)
}

// Size returns the current number of items in the cache
func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

var _ Cache[int] = (*LRUCache[int])(nil)
