// Package assets loads water surface meshes from disk and caches them.
package assets

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/tidewater/internal/logger"
	"github.com/Faultbox/tidewater/pkg/math"
)

// Manager loads grid meshes, caching each file's vertices by path.
type Manager struct {
	cache *Cache
	log   *zap.Logger
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
		log:   logger.Named("assets"),
	}
}

// LoadMesh returns the vertices of the mesh at path. Callers must not modify
// the returned slice; it is shared with later calls.
func (m *Manager) LoadMesh(path string) ([]math.Vec3, error) {
	key := filepath.Clean(path)
	if v, ok := m.cache.Get(key); ok {
		return v, nil
	}

	v, err := LoadGridMesh(key)
	if err != nil {
		return nil, fmt.Errorf("loading mesh %s: %w", path, err)
	}

	m.log.Debug("mesh loaded", zap.String("path", key), zap.Int("vertices", len(v)))
	m.cache.Set(key, v)
	return v, nil
}

// Close drops all cached meshes.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded meshes.
type Cache struct {
	data map[string][]math.Vec3
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]math.Vec3),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]math.Vec3, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []math.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]math.Vec3)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
