package homeassistant

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	stored time.Time
	value  any
}

// Cache is a TTL keyed store for API results. Expired entries are evicted
// lazily on the next read; Invalidate drops entries by key prefix. Error
// results must never be stored here, so a transient backend failure cannot
// poison subsequent calls for a TTL window.
type Cache struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]cacheEntry
}

// NewCache creates a cache whose entries live for ttl after being written.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:  ttl,
		data: make(map[string]cacheEntry),
	}
}

// Get returns the stored value if present and not expired. An expired entry
// is removed before reporting a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.stored) > c.ttl {
		delete(c.data, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key with the current timestamp, overwriting any
// prior entry.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = cacheEntry{stored: time.Now(), value: value}
}

// Invalidate removes every entry whose key starts with prefix. An empty
// prefix clears the whole cache.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prefix == "" {
		c.data = make(map[string]cacheEntry)
		return
	}
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// CacheKey builds a deterministic key from an operation tag and its
// arguments, so identical calls collide and differing calls cannot.
func CacheKey(op string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, op)
	for _, arg := range args {
		parts = append(parts, stableArg(arg))
	}
	return strings.Join(parts, "_")
}

func stableArg(arg any) string {
	switch v := arg.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(v, ",")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, v[k]))
		}
		return strings.Join(pairs, ",")
	default:
		return fmt.Sprint(v)
	}
}
