// Package pricing - On-disk price cache
package pricing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"cdk-cost/internal/logging"
)

// DefaultCacheTTL bounds how long a cached price is considered fresh.
const DefaultCacheTTL = 24 * time.Hour

const metadataFileName = "metadata.json"

// CachedPriceEntry is one persisted price
type CachedPriceEntry struct {
	// Price is the cached unit price
	Price float64 `json:"price"`

	// Timestamp is the write time in epoch milliseconds
	Timestamp int64 `json:"timestamp"`
}

type cacheMetadata struct {
	Entries map[string]CachedPriceEntry `json:"entries"`
}

// CacheManager persists price entries in a single metadata.json under a
// cache directory. It is safe for one process; concurrent invocations in
// the same directory are not supported.
type CacheManager struct {
	dir string
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]CachedPriceEntry

	// now is swappable for tests
	now func() time.Time
}

// NewCacheManager loads (or initializes) the cache under dir. A corrupt
// metadata file is treated as an empty cache and logged.
func NewCacheManager(dir string, ttl time.Duration) *CacheManager {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	m := &CacheManager{
		dir:     dir,
		ttl:     ttl,
		entries: make(map[string]CachedPriceEntry),
		now:     time.Now,
	}
	m.load()
	return m
}

func (m *CacheManager) metadataPath() string {
	return filepath.Join(m.dir, metadataFileName)
}

func (m *CacheManager) load() {
	data, err := os.ReadFile(m.metadataPath())
	if err != nil {
		// Missing file is a first run, not an error.
		return
	}

	var meta cacheMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		logging.Warn("price cache metadata is corrupt, starting empty",
			zap.String("path", m.metadataPath()), zap.Error(err))
		return
	}
	if meta.Entries != nil {
		m.entries = meta.Entries
	}
}

// flush writes the metadata file. Caller must hold m.mu.
func (m *CacheManager) flush() {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		logging.Warn("cannot create cache directory", zap.String("dir", m.dir), zap.Error(err))
		return
	}

	data, err := json.MarshalIndent(cacheMetadata{Entries: m.entries}, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(m.metadataPath(), data, 0o644); err != nil {
		logging.Warn("cannot write cache metadata", zap.String("path", m.metadataPath()), zap.Error(err))
	}
}

func (m *CacheManager) isFresh(entry CachedPriceEntry) bool {
	age := m.now().Sub(time.UnixMilli(entry.Timestamp))
	return age < m.ttl
}

// SetCachedPrice stores a price and flushes it to disk. Within the
// process the write is immediately visible to readers of the same key.
func (m *CacheManager) SetCachedPrice(params PriceQueryParams, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[params.CacheKey()] = CachedPriceEntry{
		Price:     price,
		Timestamp: m.now().UnixMilli(),
	}
	m.flush()
}

// GetCachedPrice returns the cached price if present and within the TTL.
func (m *CacheManager) GetCachedPrice(params PriceQueryParams) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[params.CacheKey()]
	if !ok || !m.isFresh(entry) {
		return 0, false
	}
	return entry.Price, true
}

// GetStalePrice returns a cached price regardless of TTL. Used as the
// fallback when the catalog is unreachable.
func (m *CacheManager) GetStalePrice(params PriceQueryParams) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[params.CacheKey()]
	if !ok {
		return 0, false
	}
	return entry.Price, true
}

// HasFreshCache reports whether a fresh entry exists for the params.
func (m *CacheManager) HasFreshCache(params PriceQueryParams) bool {
	_, ok := m.GetCachedPrice(params)
	return ok
}

// PruneStaleEntries drops expired entries and reports how many were
// removed.
func (m *CacheManager) PruneStaleEntries() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for key, entry := range m.entries {
		if !m.isFresh(entry) {
			delete(m.entries, key)
			pruned++
		}
	}
	if pruned > 0 {
		m.flush()
	}
	return pruned
}
