// Package cache keeps lookup results for the lifetime of a session.
package cache

import (
	"strings"
	"sync"

	"github.com/oukeidos/wordlens/internal/language"
	"github.com/oukeidos/wordlens/internal/lookup"
)

// Key normalizes text for lang. English is trimmed and lowercased, Chinese only trimmed.
func Key(text string, lang language.ID) string {
	t := strings.TrimSpace(text)
	if lang == language.English {
		t = strings.ToLower(t)
	}
	return string(lang) + ":" + t
}

// Cache is an unbounded in-memory map from Key to result. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]lookup.Result
	gen     uint64
}

func New() *Cache {
	return &Cache{entries: make(map[string]lookup.Result)}
}

func (c *Cache) Get(key string) (lookup.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, ok
}

func (c *Cache) Put(key string, r lookup.Result) {
	c.mu.Lock()
	c.entries[key] = r
	c.mu.Unlock()
}

// Generation changes on every Clear.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// PutIf stores r only when the cache has not been cleared since gen was read.
func (c *Cache) PutIf(gen uint64, key string, r lookup.Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.entries[key] = r
	return true
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry, e.g. after the provider settings change.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]lookup.Result)
	c.gen++
	c.mu.Unlock()
}
