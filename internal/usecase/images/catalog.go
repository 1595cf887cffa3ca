// Package images resolves a displayable image for every activity, preferring
// remote search and falling back to a local catalog of stock photos.
package images

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// supportedExtensions are the image file types indexed by the catalog.
var supportedExtensions = map[string]struct{}{
	".webp": {},
	".jpg":  {},
	".jpeg": {},
	".avif": {},
	".png":  {},
}

// Catalog is a memoized index of local images grouped by subject prefix.
// A filename like "teide-3.jpg" indexes "teide-3.jpg" under prefix "teide";
// a file without a numeric suffix keeps its whole stem as prefix.
// An empty catalog is a valid terminal state.
type Catalog struct {
	dir    string
	logger *zap.Logger

	mu       sync.RWMutex
	prefixes map[string][]string
	scanned  bool
}

// NewCatalog creates a catalog over the given directory. The directory is
// scanned lazily on first use.
func NewCatalog(dir string, logger *zap.Logger) *Catalog {
	return &Catalog{dir: dir, logger: logger}
}

// Prefixes returns the prefix → filenames index, scanning the directory on
// first call. The returned map must be treated as read-only.
func (c *Catalog) Prefixes() map[string][]string {
	c.mu.RLock()
	if c.scanned {
		defer c.mu.RUnlock()
		return c.prefixes
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.scanned {
		c.prefixes = c.scan()
		c.scanned = true
	}
	return c.prefixes
}

// Invalidate drops the cached index; the next Prefixes call rescans.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefixes = nil
	c.scanned = false
}

func (c *Catalog) scan() map[string][]string {
	prefixes := make(map[string][]string)

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.logger.Warn("image catalog scan failed",
			zap.String("dir", c.dir),
			zap.Error(err),
		)
		return prefixes
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := supportedExtensions[ext]; !ok {
			continue
		}
		prefix := derivePrefix(strings.TrimSuffix(name, filepath.Ext(name)))
		prefixes[prefix] = append(prefixes[prefix], name)
	}

	c.logger.Info("image catalog scanned",
		zap.String("dir", c.dir),
		zap.Int("prefixes", len(prefixes)),
	)
	return prefixes
}

// derivePrefix strips a trailing numeric suffix: "masca-valley-2" → "masca-valley",
// "masca-valley" stays as is.
func derivePrefix(stem string) string {
	idx := strings.LastIndex(stem, "-")
	if idx <= 0 {
		return stem
	}
	if isDigits(stem[idx+1:]) {
		return stem[:idx]
	}
	return stem
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
