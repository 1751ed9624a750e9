package translation

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"codeberg.org/snonux/vopet/internal/language"
)

// DefaultCacheCapacity is the number of translations kept by default.
const DefaultCacheCapacity = 100

// Entry is a cached translation with the source language it was
// translated from.
type Entry struct {
	Text   string
	Source language.Language
}

// Cache is a bounded translation cache. When full, the oldest insertion is
// evicted first; reads do not refresh an entry.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]Entry
	order    []string
}

// NewCache creates a cache holding at most capacity entries. A capacity
// below 1 uses DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]Entry, capacity),
		order:    make([]string, 0, capacity),
	}
}

// Add stores a translation. Overwriting a key keeps its original position.
func (c *Cache) Add(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Get retrieves a translation from the cache.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	return entry, ok
}

// Len returns the number of cached translations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GetAll returns a copy of all cached translations.
func (c *Cache) GetAll() map[string]Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		result[k] = v
	}
	return result
}

// CacheKey builds the key for text translated by service into target. The
// text is trimmed and NFC-normalized so composed and decomposed Hangul hit
// the same entry.
func CacheKey(service string, target language.Language, text string) string {
	return service + "|" + target.String() + "|" + norm.NFC.String(strings.TrimSpace(text))
}

// CachedTranslator answers repeated requests from a Cache.
type CachedTranslator struct {
	next  Translator
	cache *Cache
}

// NewCachedTranslator puts cache in front of next.
func NewCachedTranslator(next Translator, cache *Cache) *CachedTranslator {
	return &CachedTranslator{next: next, cache: cache}
}

// Name returns the name of the wrapped translator.
func (c *CachedTranslator) Name() string { return c.next.Name() }

// Translate returns a cached translation or asks the wrapped translator and
// caches its answer with the detected source. Same-language results are not
// cached.
func (c *CachedTranslator) Translate(ctx context.Context, req Request) (Result, error) {
	key := CacheKey(c.next.Name(), req.Target, req.Text)
	if e, ok := c.cache.Get(key); ok {
		return Result{Text: e.Text, Source: e.Source, Service: c.next.Name(), Cached: true}, nil
	}

	res, err := c.next.Translate(ctx, req)
	if err != nil {
		return res, err
	}
	if !res.SameLanguage {
		source := res.Source
		if source == language.Auto {
			source = req.Source
		}
		c.cache.Add(key, Entry{Text: res.Text, Source: source})
	}
	return res, nil
}
