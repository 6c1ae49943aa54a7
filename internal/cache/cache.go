// Package cache holds the process wide caches for rendered post contents,
// syntax stylesheets and static asset hashes.
package cache

import (
	"html/template"
	"sync"
)

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// GetOrSet returns the cached value for key, computing and storing it with
// fn on a miss. fn runs under the write lock, so concurrent misses on the
// same cache compute once.
func (c *Cache[K, V]) GetOrSet(key K, fn func() V) V {
	if val, ok := c.Get(key); ok {
		return val
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if val, ok := c.items[key]; ok {
		return val
	}
	val := fn()
	c.items[key] = val
	return val
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

var renderedContents = NewCache[string, template.HTML]()

func renderedKey(contentHash, syntaxTheme string) string {
	return contentHash + ":" + syntaxTheme
}

func GetRenderedContents(contentHash, syntaxTheme string) (template.HTML, bool) {
	return renderedContents.Get(renderedKey(contentHash, syntaxTheme))
}

// RenderedContents returns the cached HTML of a post body, rendering it
// with fn on a miss.
func RenderedContents(contentHash, syntaxTheme string, fn func() template.HTML) template.HTML {
	return renderedContents.GetOrSet(renderedKey(contentHash, syntaxTheme), fn)
}

func ClearRenderedContents() {
	renderedContents.Clear()
}
