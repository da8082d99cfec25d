// Package cache stores verification reports so that re-verifying an
// unchanged draft is free. Keys hash the run id together with the draft
// text: any edit to the draft produces a new key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"claimgate/internal/model"
)

// Cache defines the interface for the raw byte store
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ReportKey generates a cache key for a verification run
func ReportKey(runID, draftText string) string {
	hash := sha256.Sum256([]byte(runID + "\x00" + draftText))
	return "claimgate:v1:" + hex.EncodeToString(hash[:])
}

// ReportCache wraps a byte store with report encoding
type ReportCache struct {
	store Cache
	ttl   time.Duration
}

// NewReportCache builds a report cache from the configuration.
// Returns nil when caching is disabled. An empty Dir falls back to
// ~/.claimgate/cache; without a resolvable home directory the cache
// degrades to memory-only.
func NewReportCache(cfg model.CacheConfig) *ReportCache {
	if !cfg.Enabled {
		return nil
	}

	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return &ReportCache{
				store: NewMemoryCache(cfg.TTL, 10*time.Minute),
				ttl:   cfg.TTL,
			}
		}
		dir = filepath.Join(home, ".claimgate", "cache")
	}

	return &ReportCache{
		store: NewLayeredCache(cfg.TTL, dir, cfg.TTL),
		ttl:   cfg.TTL,
	}
}

// NewReportCacheWithStore wraps an explicit store, mainly for tests
func NewReportCacheWithStore(store Cache, ttl time.Duration) *ReportCache {
	return &ReportCache{store: store, ttl: ttl}
}

// Load returns the cached report for a run, if present and decodable
func (c *ReportCache) Load(runID, draftText string) (*model.VerificationReport, bool) {
	data, found := c.store.Get(ReportKey(runID, draftText))
	if !found {
		return nil, false
	}

	var report model.VerificationReport
	if err := json.Unmarshal(data, &report); err != nil {
		// A corrupt entry is treated as a miss
		_ = c.store.Delete(ReportKey(runID, draftText))
		return nil, false
	}
	return &report, true
}

// Store caches the report for a run
func (c *ReportCache) Store(runID, draftText string, report *model.VerificationReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return c.store.Set(ReportKey(runID, draftText), data, c.ttl)
}

// Clear drops all cached reports
func (c *ReportCache) Clear() error {
	return c.store.Clear()
}
