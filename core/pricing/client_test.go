package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const priceListFixture = `{
	"product": {"sku": "ABC123"},
	"terms": {"OnDemand": {"ABC123.JRTCKXETXF": {
		"priceDimensions": {"ABC123.JRTCKXETXF.6YS6EN2CT7": {
			"unit": "Hrs",
			"pricePerUnit": {"USD": "0.0416000000"}
		}}
	}}}
}`

type fakeCatalog struct {
	calls int
	fn    func(call int) (*awspricing.GetProductsOutput, error)
}

func (f *fakeCatalog) GetProducts(_ context.Context, _ *awspricing.GetProductsInput, _ ...func(*awspricing.Options)) (*awspricing.GetProductsOutput, error) {
	f.calls++
	return f.fn(f.calls)
}

func newTestClient(api CatalogAPI, cacheDir string) (*CatalogClient, *[]time.Duration) {
	client := NewCatalogClientWithAPI(api, ClientConfig{CacheDir: cacheDir})
	var sleeps []time.Duration
	client.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return client, &sleeps
}

func TestGetPriceDecodesFirstOnDemandDimension(t *testing.T) {
	api := &fakeCatalog{fn: func(int) (*awspricing.GetProductsOutput, error) {
		return &awspricing.GetProductsOutput{PriceList: []string{priceListFixture}}, nil
	}}
	client, _ := newTestClient(api, "")

	price, err := client.GetPrice(context.Background(), queryFixture())
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, 0.0416, *price)
}

func TestGetPriceUnsupportedShapesAreNull(t *testing.T) {
	shapes := []string{
		``,                               // empty price list handled below
		`{"terms":{}}`,                   // no OnDemand
		`{"terms":{"OnDemand":{}}}`,      // no terms
		`{"terms":{"OnDemand":{"X":{}}}}`, // no priceDimensions
		`{"terms":{"OnDemand":{"X":{"priceDimensions":{"Y":{"pricePerUnit":{"CNY":"1"}}}}}}}`, // no USD
	}

	for _, shape := range shapes {
		priceList := []string{shape}
		if shape == "" {
			priceList = nil
		}
		api := &fakeCatalog{fn: func(int) (*awspricing.GetProductsOutput, error) {
			return &awspricing.GetProductsOutput{PriceList: priceList}, nil
		}}
		client, _ := newTestClient(api, "")

		price, err := client.GetPrice(context.Background(), queryFixture())
		require.NoError(t, err)
		assert.Nil(t, price)
	}
}

func TestGetPriceRetriesWithExponentialBackoff(t *testing.T) {
	api := &fakeCatalog{fn: func(int) (*awspricing.GetProductsOutput, error) {
		return nil, errors.New("connection reset")
	}}
	client, sleeps := newTestClient(api, "")

	price, err := client.GetPrice(context.Background(), queryFixture())
	require.Error(t, err)
	assert.Nil(t, price)

	// 1 initial call plus 3 retries, doubling from 1s.
	assert.Equal(t, 4, api.calls)
	require.Len(t, *sleeps, 3)
	assert.GreaterOrEqual(t, (*sleeps)[0], time.Second)
	assert.GreaterOrEqual(t, (*sleeps)[1], 2*time.Second)
	assert.GreaterOrEqual(t, (*sleeps)[2], 4*time.Second)
}

func TestGetPriceNonRetryableFailsFast(t *testing.T) {
	api := &fakeCatalog{fn: func(int) (*awspricing.GetProductsOutput, error) {
		return nil, &smithy.GenericAPIError{Code: "ValidationException", Message: "bad filter"}
	}}
	client, sleeps := newTestClient(api, "")

	_, err := client.GetPrice(context.Background(), queryFixture())
	require.Error(t, err)
	assert.Equal(t, 1, api.calls)
	assert.Empty(t, *sleeps)
}

func TestGetPriceThrottlingIsRetryable(t *testing.T) {
	api := &fakeCatalog{fn: func(call int) (*awspricing.GetProductsOutput, error) {
		if call < 3 {
			return nil, &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}
		}
		return &awspricing.GetProductsOutput{PriceList: []string{priceListFixture}}, nil
	}}
	client, _ := newTestClient(api, "")

	price, err := client.GetPrice(context.Background(), queryFixture())
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, 3, api.calls)
}

func TestGetPriceStaleFallbackOnExhaustedRetries(t *testing.T) {
	dir := t.TempDir()

	// Populate the disk tier, then expire it.
	seeded := NewCacheManager(dir, time.Hour)
	seeded.SetCachedPrice(queryFixture(), 0.099)

	api := &fakeCatalog{fn: func(int) (*awspricing.GetProductsOutput, error) {
		return nil, errors.New("unreachable")
	}}
	client, _ := newTestClient(api, dir)
	client.cache.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	price, err := client.GetPrice(context.Background(), queryFixture())
	require.NoError(t, err, "stale fallback must not surface an error")
	require.NotNil(t, price)
	assert.Equal(t, 0.099, *price)
}

func TestGetPriceMemoryTierAvoidsSecondCall(t *testing.T) {
	api := &fakeCatalog{fn: func(int) (*awspricing.GetProductsOutput, error) {
		return &awspricing.GetProductsOutput{PriceList: []string{priceListFixture}}, nil
	}}
	client, _ := newTestClient(api, "")

	_, err := client.GetPrice(context.Background(), queryFixture())
	require.NoError(t, err)
	_, err = client.GetPrice(context.Background(), queryFixture())
	require.NoError(t, err)

	assert.Equal(t, 1, api.calls)
}

func TestGetPriceWritesThroughToDisk(t *testing.T) {
	dir := t.TempDir()

	api := &fakeCatalog{fn: func(int) (*awspricing.GetProductsOutput, error) {
		return &awspricing.GetProductsOutput{PriceList: []string{priceListFixture}}, nil
	}}
	first, _ := newTestClient(api, dir)
	price, err := first.GetPrice(context.Background(), queryFixture())
	require.NoError(t, err)
	require.NotNil(t, price)

	// A second invocation with a dead catalog resolves from disk.
	dead := &fakeCatalog{fn: func(int) (*awspricing.GetProductsOutput, error) {
		return nil, errors.New("catalog down")
	}}
	second, _ := newTestClient(dead, dir)
	cached, err := second.GetPrice(context.Background(), queryFixture())
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, *price, *cached)
	assert.Zero(t, dead.calls, "disk hit must not reach the catalog")
}

func TestRegionToLocation(t *testing.T) {
	assert.Equal(t, "US East (N. Virginia)", RegionToLocation("us-east-1"))
	assert.Equal(t, "EU (Frankfurt)", RegionToLocation("eu-central-1"))
	assert.Equal(t, "xx-fake-9", RegionToLocation("xx-fake-9"))
}

func TestRegionUsagePrefix(t *testing.T) {
	assert.Equal(t, "USE1-", RegionUsagePrefix("us-east-1"))
	assert.Equal(t, "EUC1-", RegionUsagePrefix("eu-central-1"))
	assert.Equal(t, "", RegionUsagePrefix("xx-fake-9"))
}
