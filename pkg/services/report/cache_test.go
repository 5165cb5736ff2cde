package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

func TestFingerprint(t *testing.T) {
	filters := domain.FilterValues{"stockTakeDate": "2025-01-15", "productCode": "MEP9090"}

	first, err := Fingerprint("stock-take-report", filters)
	require.NoError(t, err)

	// Same filters in a fresh map produce the same key.
	second, err := Fingerprint("stock-take-report", domain.FilterValues{
		"productCode":   "MEP9090",
		"stockTakeDate": "2025-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	differentFilters, err := Fingerprint("stock-take-report", domain.FilterValues{
		"stockTakeDate": "2025-01-16",
		"productCode":   "MEP9090",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, differentFilters)

	differentReport, err := Fingerprint("grn-report", filters)
	require.NoError(t, err)
	assert.NotEqual(t, first, differentReport)
}

func TestCache_PutGet(t *testing.T) {
	cache := NewCache(time.Minute)
	sections := map[string][]domain.Record{
		"main": {{"product_code": "MEP9090", "quantity": 10.0}},
	}

	_, hit := cache.Get("key")
	assert.False(t, hit)

	cache.Put("key", sections)

	got, hit := cache.Get("key")
	require.True(t, hit)
	assert.Equal(t, sections, got)
}

func TestCache_Expiry(t *testing.T) {
	cache := NewCache(10 * time.Millisecond)
	cache.Put("key", map[string][]domain.Record{"main": nil})

	time.Sleep(30 * time.Millisecond)

	_, hit := cache.Get("key")
	assert.False(t, hit)
}

func TestCache_Flush(t *testing.T) {
	cache := NewCache(time.Minute)
	cache.Put("key", map[string][]domain.Record{"main": nil})

	cache.Flush()

	_, hit := cache.Get("key")
	assert.False(t, hit)
}
