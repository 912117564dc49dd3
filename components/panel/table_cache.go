package panel

import (
	"sync"
	"time"
)

// DefaultTableTTL is the freshness window for cached tables.
const DefaultTableTTL = 20 * time.Second

// TableCache is an in-memory TTL cache for fetched table rows. The key is the
// table name only; the query is unconditionally "all rows", so there is
// nothing else to parameterize on.
type TableCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedTable
}

type cachedTable struct {
	rows      []map[string]any
	fetchedAt time.Time
}

// NewTableCache builds a cache with the provided freshness window.
func NewTableCache(ttl time.Duration) *TableCache {
	return &TableCache{
		ttl:     ttl,
		entries: make(map[string]cachedTable),
	}
}

// GetOrFetch returns fresh cached rows or fetches/stores a new copy.
func (c *TableCache) GetOrFetch(name string, fetch func() ([]map[string]any, error)) ([]map[string]any, error) {
	if rows, ok := c.get(name); ok {
		return rows, nil
	}
	rows, err := fetch()
	if err != nil {
		return nil, err
	}
	c.set(name, rows)
	return rows, nil
}

// Invalidate drops the cached copy of one table.
func (c *TableCache) Invalidate(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}

// InvalidateAll drops every cached table. Backs the refresh action.
func (c *TableCache) InvalidateAll() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]cachedTable)
	c.mu.Unlock()
}

func (c *TableCache) get(name string) ([]map[string]any, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok || time.Since(entry.fetchedAt) >= c.ttl {
		if ok {
			c.mu.Lock()
			delete(c.entries, name)
			c.mu.Unlock()
		}
		return nil, false
	}
	return entry.rows, true
}

func (c *TableCache) set(name string, rows []map[string]any) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[name] = cachedTable{
		rows:      rows,
		fetchedAt: time.Now(),
	}
	c.mu.Unlock()
}

// RenderCache memoizes rendered chart HTML so repeated renders are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache is an in-memory TTL cache for rendered charts.
type ChartCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedChart
}

type cachedChart struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:     ttl,
		entries: make(map[string]cachedChart),
	}
}

// GetOrRender returns a cached entry or renders/stores a new one.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

// Purge drops every cached chart. Invoked alongside table invalidation so a
// refresh re-renders charts from fresh data.
func (c *ChartCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]cachedChart)
	c.mu.Unlock()
}

func (c *ChartCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return "", false
	}
	return entry.html, true
}

func (c *ChartCache) set(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedChart{
		html:    html,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}
