// Package cache stores analysis results keyed by document content, so
// re-running the same file under any name or path costs nothing.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// hashSpan is how much of each end of the file feeds the key. Hashing the
// first and last span is content-sensitive enough to catch edits anywhere
// near the edges while staying O(1) in document size.
const hashSpan = 1 << 20

// DefaultRetention is how long entries stay valid without being re-derived.
const DefaultRetention = 30 * 24 * time.Hour

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// HitRate returns hits over total lookups, or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is a TTL-bounded LRU of analysis results keyed by content hash.
// All methods are safe for concurrent use.
type Cache[V any] struct {
	lru    *expirable.LRU[string, V]
	hits   atomic.Uint64
	misses atomic.Uint64
	logger *slog.Logger
}

// New builds a cache holding up to size entries for the given retention.
// Non-positive size defaults to 128 entries, non-positive retention to
// DefaultRetention.
func New[V any](size int, retention time.Duration, logger *slog.Logger) *Cache[V] {
	if size <= 0 {
		size = 128
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache[V]{
		lru:    expirable.NewLRU[string, V](size, nil, retention),
		logger: logger,
	}
}

// Get returns the cached value for key, counting the lookup.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
		c.logger.Debug("cache hit", "key", key)
	} else {
		c.misses.Add(1)
		c.logger.Debug("cache miss", "key", key)
	}
	return v, ok
}

// Put stores value under key.
func (c *Cache[V]) Put(key string, value V) {
	c.lru.Add(key, value)
}

// Purge drops every entry. Counters survive a purge.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}

// Stats snapshots the counters and current entry count.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.lru.Len(),
	}
}

// KeyForBytes derives the content key for an in-memory document.
func KeyForBytes(data []byte) string {
	h := sha256.New()
	if len(data) <= 2*hashSpan {
		h.Write(data)
	} else {
		h.Write(data[:hashSpan])
		h.Write(data[len(data)-hashSpan:])
	}
	fmt.Fprintf(h, "|%d", len(data))
	return hex.EncodeToString(h.Sum(nil))
}

// KeyFor derives the content key for a file on disk without reading more
// than the two hashed spans.
func KeyFor(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stating %s: %w", path, err)
	}
	size := fi.Size()

	h := sha256.New()
	if size <= 2*hashSpan {
		if _, err := io.Copy(h, f); err != nil {
			return "", fmt.Errorf("hashing %s: %w", path, err)
		}
	} else {
		if _, err := io.CopyN(h, f, hashSpan); err != nil {
			return "", fmt.Errorf("hashing %s: %w", path, err)
		}
		if _, err := f.Seek(-hashSpan, io.SeekEnd); err != nil {
			return "", fmt.Errorf("seeking %s: %w", path, err)
		}
		if _, err := io.Copy(h, f); err != nil {
			return "", fmt.Errorf("hashing %s: %w", path, err)
		}
	}
	fmt.Fprintf(h, "|%d", size)
	return hex.EncodeToString(h.Sum(nil)), nil
}
