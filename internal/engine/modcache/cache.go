// Package modcache holds the modules the server has materialized from disk.
package modcache

import (
	"context"
	"slices"
	"sync"

	"go.trai.ch/lucifer/internal/core/domain"
	"go.trai.ch/lucifer/internal/core/ports"
)

// Cache maps absolute paths to their most recently loaded module.
//
// An entry is either absent or the result of the latest successful load.
// Load evicts before it reads, so a failed reload leaves the path absent
// rather than restoring the previous module.
type Cache struct {
	mu      sync.RWMutex
	loader  ports.ModuleLoader
	modules map[string]*domain.Module
}

// New creates an empty Cache backed by loader.
func New(loader ports.ModuleLoader) *Cache {
	return &Cache{
		loader:  loader,
		modules: make(map[string]*domain.Module),
	}
}

// Evict removes the entry for path. It is a no-op if path is not cached.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.modules, path)
}

// Load evicts path and materializes it again from disk.
// A load failure is returned in the result and leaves no entry behind.
func (c *Cache) Load(ctx context.Context, path string) domain.LoadResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load(ctx, path)
}

// Require returns the cached module for path, loading it if absent.
func (c *Cache) Require(ctx context.Context, path string) domain.LoadResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mod, ok := c.modules[path]; ok {
		return domain.LoadResult{Path: path, Module: mod}
	}
	return c.load(ctx, path)
}

func (c *Cache) load(ctx context.Context, path string) domain.LoadResult {
	delete(c.modules, path)

	mod, err := c.loader.Load(ctx, path)
	if err != nil {
		return domain.LoadResult{Path: path, Err: err}
	}
	if mod == nil {
		return domain.LoadResult{Path: path, Err: domain.ErrModuleNotFound}
	}

	c.modules[path] = mod
	return domain.LoadResult{Path: path, Module: mod}
}

// Get returns the cached module for path without touching the disk.
func (c *Cache) Get(path string) (*domain.Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mod, ok := c.modules[path]
	return mod, ok
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.modules)
}

// Paths returns the cached paths in lexical order.
func (c *Cache) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	paths := make([]string, 0, len(c.modules))
	for p := range c.modules {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
