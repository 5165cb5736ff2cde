package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

const (
	// DefaultFreshness is the window within which a cached record set
	// substitutes for a live fetch.
	DefaultFreshness = 5 * time.Minute

	defaultSweepInterval = 10 * time.Minute
)

// Cache maps a (report id, filter values) fingerprint to the record set
// fetched for it. Entries expire after the freshness window and are swept
// periodically; there is no cross-request consistency requirement beyond
// that.
type Cache struct {
	store *gocache.Cache
}

// NewCache creates a cache with the given freshness window. A zero or
// negative freshness falls back to DefaultFreshness.
func NewCache(freshness time.Duration) *Cache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Cache{store: gocache.New(freshness, defaultSweepInterval)}
}

// Get returns the cached section record sets for the fingerprint.
func (c *Cache) Get(fingerprint string) (map[string][]domain.Record, bool) {
	v, ok := c.store.Get(fingerprint)
	if !ok {
		return nil, false
	}
	sections, ok := v.(map[string][]domain.Record)
	return sections, ok
}

// Put stores the section record sets under the fingerprint with the
// cache's default expiry.
func (c *Cache) Put(fingerprint string, sections map[string][]domain.Record) {
	c.store.SetDefault(fingerprint, sections)
}

// Flush drops every entry. Intended for tests.
func (c *Cache) Flush() {
	c.store.Flush()
}

// Fingerprint derives a stable cache key from a report id and its filter
// values. The filter map is serialized as canonical JSON (Go sorts map keys
// when marshalling), so equal filter sets always produce equal keys.
func Fingerprint(reportID string, filters domain.FilterValues) (string, error) {
	encoded, err := json.Marshal(map[string]any(filters))
	if err != nil {
		return "", fmt.Errorf("failed to serialize filters: %w", err)
	}
	sum := sha256.Sum256(append([]byte(reportID+"\x00"), encoded...))
	return hex.EncodeToString(sum[:]), nil
}
