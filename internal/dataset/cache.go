package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type cacheEntry struct {
	size    int64
	modTime time.Time
	ds      *Dataset
}

// Cache memoizes loaded files keyed on their identity (absolute path, size
// and modification time). A changed file is reloaded on the next Load.
// Cache is safe for concurrent use.
type Cache struct {
	opt Options

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache returns an empty cache that loads files with opt.
func NewCache(opt Options) *Cache {
	return &Cache{opt: opt, entries: map[string]cacheEntry{}}
}

// Load returns the dataset for path, reading it only when it is not cached or
// has changed on disk. An empty path yields the bundled sample.
func (c *Cache) Load(path string) (*Dataset, error) {
	if path == "" {
		return Sample()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, readErr(path, fmt.Errorf("resolve path: %w", err))
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, readErr(path, fmt.Errorf("stat: %w", err))
	}
	if info.IsDir() {
		return nil, readErr(path, fmt.Errorf("%s is a directory", path))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[abs]; ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		slog.Debug("dataset cache hit", "path", abs)
		return e.ds, nil
	}
	slog.Debug("dataset cache miss", "path", abs)
	ds, err := LoadFile(abs, c.opt)
	if err != nil {
		delete(c.entries, abs)
		return nil, err
	}
	c.entries[abs] = cacheEntry{size: info.Size(), modTime: info.ModTime(), ds: ds}
	return ds, nil
}

// Invalidate drops the cached entry for path, if any.
func (c *Cache) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, abs)
	c.mu.Unlock()
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
