package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Cache persists domain classifications in a flat JSON file (a single
// string-to-string object). Entries are written only after a successful
// detection and carry across runs; there is no TTL or eviction.
type Cache struct {
	path   string
	logger *zap.Logger

	mu      sync.Mutex
	loaded  bool
	entries map[string]string
}

// NewCache creates a cache backed by the JSON file at path. The file is
// loaded lazily on first access.
func NewCache(path string, logger *zap.Logger) *Cache {
	return &Cache{path: path, logger: logger, entries: map[string]string{}}
}

// Get returns the cached value for a domain.
func (c *Cache) Get(domain string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()
	v, ok := c.entries[domain]
	return v, ok
}

// Put records a value for a domain and rewrites the backing file. The
// file is re-read and merged under the store lock first, so writers
// sharing the file keep each other's entries.
func (c *Cache) Put(domain, value string) error {
	if domain == "" {
		return fmt.Errorf("cache put: empty domain")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()
	c.mergeFromDisk()
	c.entries[domain] = value
	return c.writeFile()
}

// Invalidate removes a domain so the next resolution re-detects it.
func (c *Cache) Invalidate(domain string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()
	c.mergeFromDisk()
	if _, ok := c.entries[domain]; !ok {
		return nil
	}
	delete(c.entries, domain)
	return c.writeFile()
}

// Clear drops every entry and deletes the backing file.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]string{}
	c.loaded = true
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache %s: %w", c.path, err)
	}
	return nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded()
	return len(c.entries)
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

func (c *Cache) ensureLoaded() {
	if c.loaded {
		return
	}
	c.loaded = true
	c.entries = c.readFile()
	if len(c.entries) > 0 {
		c.logger.Info("loaded classification cache",
			zap.String("path", c.path), zap.Int("entries", len(c.entries)))
	}
}

// mergeFromDisk folds disk entries this instance has not seen into the
// in-memory map. In-memory values win on conflict.
func (c *Cache) mergeFromDisk() {
	for k, v := range c.readFile() {
		if _, ok := c.entries[k]; !ok {
			c.entries[k] = v
		}
	}
}

// readFile returns the entries currently on disk. A missing or corrupt
// file is treated as empty.
func (c *Cache) readFile() map[string]string {
	entries := map[string]string{}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("reading classification cache",
				zap.String("path", c.path), zap.Error(err))
		}
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("classification cache is corrupt, starting empty",
			zap.String("path", c.path), zap.Error(err))
		return map[string]string{}
	}
	return entries
}

func (c *Cache) writeFile() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache %s: %w", c.path, err)
	}
	return nil
}
