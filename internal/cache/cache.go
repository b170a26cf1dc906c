// Package cache provides a disk cache for extracted curve sets, so
// repeated extraction of the same pass skips record decoding entirely.
package cache

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spaolacci/murmur3"

	"github.com/wellcore/wellcore/internal/curves"
	"github.com/wellcore/wellcore/pkg/types"
)

// Metrics holds cache statistics for observability.
type Metrics struct {
	Hits      atomic.Int64
	Misses    atomic.Int64
	Evictions atomic.Int64
	Entries   atomic.Int64
	SizeBytes atomic.Int64
}

// CurveCache stores snappy-compressed curve set images on disk, keyed by
// a fingerprint of the source, pass and extraction options. Eviction is
// LRU once the configured byte budget is exceeded.
type CurveCache struct {
	dir      string
	maxBytes int64
	metrics  Metrics

	mu    sync.Mutex
	index map[string]*entry
}

type entry struct {
	localPath  string
	sizeBytes  int64
	lastAccess int64 // Unix nanos
}

// Key fingerprints one extraction: the source URI, the pass index within
// the file, and the options that shaped the layout. Different options
// yield different layouts, so they must not share an entry.
func Key(source string, pass int, opts curves.Options) string {
	var flags byte
	if opts.Strict {
		flags |= 1
	}
	if opts.SkipFast {
		flags |= 2
	}
	h1, h2 := murmur3.Sum128([]byte(fmt.Sprintf("%s|%d|%d", source, pass, flags)))
	return fmt.Sprintf("%016x%016x", h1, h2)
}

// NewCurveCache creates a cache rooted at dir with the given byte
// budget. Entries already on disk are indexed and count toward it.
func NewCurveCache(dir string, maxBytes int64) (*CurveCache, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("maxBytes must be positive, got %d", maxBytes)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}

	c := &CurveCache{
		dir:      dir,
		maxBytes: maxBytes,
		index:    make(map[string]*entry),
	}
	if err := c.scanExistingEntries(); err != nil {
		return nil, fmt.Errorf("failed to scan cache dir: %w", err)
	}
	return c, nil
}

// scanExistingEntries rebuilds the index from files left by prior runs.
func (c *CurveCache) scanExistingEntries() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}

	for _, de := range entries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".csz" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue // skip inaccessible files
		}

		key := de.Name()[:len(de.Name())-len(".csz")]
		c.index[key] = &entry{
			localPath:  filepath.Join(c.dir, de.Name()),
			sizeBytes:  info.Size(),
			lastAccess: time.Now().UnixNano(),
		}
		c.metrics.SizeBytes.Add(info.Size())
		c.metrics.Entries.Add(1)
	}
	return nil
}

// Get loads a cached curve set. A corrupt entry counts as a miss and is
// dropped.
func (c *CurveCache) Get(key string) (*types.CurveSet, bool) {
	c.mu.Lock()
	e, ok := c.index[key]
	if ok {
		e.lastAccess = time.Now().UnixNano()
	}
	c.mu.Unlock()

	if !ok {
		c.metrics.Misses.Add(1)
		return nil, false
	}

	compressed, err := os.ReadFile(e.localPath)
	if err != nil {
		c.metrics.Misses.Add(1)
		c.Remove(key)
		return nil, false
	}
	cs, err := decodeCurveSet(compressed)
	if err != nil {
		log.Printf("cache: dropping corrupt entry %s: %v", key, err)
		c.metrics.Misses.Add(1)
		c.Remove(key)
		return nil, false
	}

	c.metrics.Hits.Add(1)
	return cs, true
}

// Put stores a curve set under the key, evicting old entries if the
// budget is exceeded.
func (c *CurveCache) Put(key string, cs *types.CurveSet) error {
	compressed, err := encodeCurveSet(cs)
	if err != nil {
		return err
	}

	localPath := filepath.Join(c.dir, key+".csz")
	if err := os.WriteFile(localPath, compressed, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	size := int64(len(compressed))

	c.mu.Lock()
	if old, ok := c.index[key]; ok {
		c.metrics.SizeBytes.Add(-old.sizeBytes)
		c.metrics.Entries.Add(-1)
	}
	c.index[key] = &entry{
		localPath:  localPath,
		sizeBytes:  size,
		lastAccess: time.Now().UnixNano(),
	}
	c.mu.Unlock()
	c.metrics.SizeBytes.Add(size)
	c.metrics.Entries.Add(1)

	if c.metrics.SizeBytes.Load() > c.maxBytes {
		c.evict()
	}
	return nil
}

// evict removes least recently used entries until under 90% of budget.
func (c *CurveCache) evict() {
	targetSize := int64(float64(c.maxBytes) * 0.9)

	c.mu.Lock()
	type candidate struct {
		key        string
		lastAccess int64
	}
	candidates := make([]candidate, 0, len(c.index))
	for key, e := range c.index {
		candidates = append(candidates, candidate{key: key, lastAccess: e.lastAccess})
	}
	c.mu.Unlock()

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lastAccess < candidates[j].lastAccess
	})

	for _, cand := range candidates {
		if c.metrics.SizeBytes.Load() <= targetSize {
			break
		}
		if c.Remove(cand.key) {
			c.metrics.Evictions.Add(1)
			log.Printf("cache: evicted %s", cand.key)
		}
	}
}

// Remove deletes an entry.
func (c *CurveCache) Remove(key string) bool {
	c.mu.Lock()
	e, ok := c.index[key]
	if ok {
		delete(c.index, key)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}
	if err := os.Remove(e.localPath); err != nil && !os.IsNotExist(err) {
		return false
	}
	c.metrics.SizeBytes.Add(-e.sizeBytes)
	c.metrics.Entries.Add(-1)
	return true
}

// Stats returns the current counters.
func (c *CurveCache) Stats() (hits, misses, evictions, entries, size int64) {
	return c.metrics.Hits.Load(), c.metrics.Misses.Load(), c.metrics.Evictions.Load(),
		c.metrics.Entries.Load(), c.metrics.SizeBytes.Load()
}

// HitRate returns the cache hit rate as a percentage.
func (c *CurveCache) HitRate() float64 {
	hits := c.metrics.Hits.Load()
	misses := c.metrics.Misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
