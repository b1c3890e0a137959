package pricing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryFixture() PriceQueryParams {
	return PriceQueryParams{
		ServiceCode: "AmazonEC2",
		Region:      "eu-central-1",
		Filters: []Filter{
			{Field: "instanceType", Value: "t3.micro"},
			{Field: "operatingSystem", Value: "Linux"},
		},
	}
}

func TestCacheKeyFilterOrderIndependence(t *testing.T) {
	a := queryFixture()
	b := queryFixture()
	b.Filters[0], b.Filters[1] = b.Filters[1], b.Filters[0]

	assert.Equal(t, a.CacheKey(), b.CacheKey())
}

func TestCacheKeyDistinguishesRegionAndService(t *testing.T) {
	a := queryFixture()

	b := queryFixture()
	b.Region = "us-east-1"
	assert.NotEqual(t, a.CacheKey(), b.CacheKey())

	c := queryFixture()
	c.ServiceCode = "AmazonRDS"
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
}

func TestCacheRoundTrip(t *testing.T) {
	m := NewCacheManager(t.TempDir(), time.Hour)
	params := queryFixture()

	m.SetCachedPrice(params, 0.0116)

	price, ok := m.GetCachedPrice(params)
	require.True(t, ok)
	assert.Equal(t, 0.0116, price)
	assert.True(t, m.HasFreshCache(params))
}

func TestCachePersistsAcrossManagers(t *testing.T) {
	dir := t.TempDir()
	params := queryFixture()

	NewCacheManager(dir, time.Hour).SetCachedPrice(params, 1.5)

	reopened := NewCacheManager(dir, time.Hour)
	price, ok := reopened.GetCachedPrice(params)
	require.True(t, ok)
	assert.Equal(t, 1.5, price)
}

func TestCacheTTLExpiry(t *testing.T) {
	m := NewCacheManager(t.TempDir(), time.Hour)
	params := queryFixture()
	m.SetCachedPrice(params, 2.0)

	// Jump past the TTL.
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, ok := m.GetCachedPrice(params)
	assert.False(t, ok, "expired entry must not be fresh")

	stale, ok := m.GetStalePrice(params)
	require.True(t, ok, "expired entry must still be readable as stale")
	assert.Equal(t, 2.0, stale)
}

func TestCachePruneStaleEntries(t *testing.T) {
	m := NewCacheManager(t.TempDir(), time.Hour)
	m.SetCachedPrice(queryFixture(), 1.0)

	fresh := queryFixture()
	fresh.Region = "us-east-1"

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	m.SetCachedPrice(fresh, 2.0)

	assert.Equal(t, 1, m.PruneStaleEntries())

	_, ok := m.GetStalePrice(queryFixture())
	assert.False(t, ok)
}

func TestCacheCorruptMetadataStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "metadata.json"), []byte("{not json"), 0o644))

	m := NewCacheManager(dir, time.Hour)
	_, ok := m.GetStalePrice(queryFixture())
	assert.False(t, ok)

	// The cache must still be writable after recovery.
	m.SetCachedPrice(queryFixture(), 3.0)
	price, ok := m.GetCachedPrice(queryFixture())
	require.True(t, ok)
	assert.Equal(t, 3.0, price)
}

func TestCacheMetadataLayout(t *testing.T) {
	dir := t.TempDir()
	m := NewCacheManager(dir, time.Hour)
	m.SetCachedPrice(queryFixture(), 4.2)

	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entries"`)
	assert.Contains(t, string(data), queryFixture().CacheKey())
}
