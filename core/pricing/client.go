// Package pricing - Catalog client with retries and two-tier caching
package pricing

import (
	"context"
	"net/http"
	"sync"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"go.uber.org/zap"
	"gopkg.in/matryer/try.v1"

	"cdk-cost/internal/logging"
)

const (
	// maxAttempts is 1 initial call plus 3 retries
	maxAttempts = 4

	// backoffBase is the first retry delay; subsequent delays double
	backoffBase = time.Second

	// defaultAttemptTimeout bounds a single catalog call
	defaultAttemptTimeout = 10 * time.Second

	// catalogRegion is where the price list API is hosted
	catalogRegion = "us-east-1"
)

func init() {
	// The retry loop bails out itself at maxAttempts; the package limit
	// only needs to not get in the way.
	try.MaxRetries = maxAttempts
}

// Client resolves unit prices for price queries. A nil result with a nil
// error means the catalog has no usable price for the query.
type Client interface {
	GetPrice(ctx context.Context, params PriceQueryParams) (*float64, error)
	Close()
}

// CatalogAPI is the subset of the AWS pricing SDK the client depends on.
type CatalogAPI interface {
	GetProducts(ctx context.Context, params *awspricing.GetProductsInput, optFns ...func(*awspricing.Options)) (*awspricing.GetProductsOutput, error)
}

// ClientConfig configures the catalog client
type ClientConfig struct {
	// CacheDir is the persistent cache directory; empty disables the
	// disk tier
	CacheDir string

	// CacheTTL bounds cache freshness (default 24h)
	CacheTTL time.Duration

	// AttemptTimeout bounds a single catalog call (default 10s)
	AttemptTimeout time.Duration
}

// CatalogClient implements Client against the AWS price list catalog.
// Lookup order: in-memory map, disk cache, catalog with retries, stale
// disk entry as a last resort.
type CatalogClient struct {
	api            CatalogAPI
	cache          *CacheManager
	attemptTimeout time.Duration

	mu     sync.Mutex
	memory map[string]*float64

	httpClient *http.Client

	// sleep is swappable for tests
	sleep func(time.Duration)
}

// NewCatalogClient builds a client against the real AWS price list API.
func NewCatalogClient(ctx context.Context, cfg ClientConfig) (*CatalogClient, error) {
	httpClient := &http.Client{Timeout: attemptTimeout(cfg)}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(catalogRegion),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, err
	}

	client := NewCatalogClientWithAPI(awspricing.NewFromConfig(awsCfg), cfg)
	client.httpClient = httpClient
	return client, nil
}

// NewCatalogClientWithAPI builds a client over any CatalogAPI. Tests use
// this with a fake catalog.
func NewCatalogClientWithAPI(api CatalogAPI, cfg ClientConfig) *CatalogClient {
	var cache *CacheManager
	if cfg.CacheDir != "" {
		cache = NewCacheManager(cfg.CacheDir, cfg.CacheTTL)
	}
	return &CatalogClient{
		api:            api,
		cache:          cache,
		attemptTimeout: attemptTimeout(cfg),
		memory:         make(map[string]*float64),
		sleep:          time.Sleep,
	}
}

func attemptTimeout(cfg ClientConfig) time.Duration {
	if cfg.AttemptTimeout > 0 {
		return cfg.AttemptTimeout
	}
	return defaultAttemptTimeout
}

// GetPrice resolves the unit price for the query. Safe for concurrent
// use.
func (c *CatalogClient) GetPrice(ctx context.Context, params PriceQueryParams) (*float64, error) {
	key := params.CacheKey()

	c.mu.Lock()
	if price, ok := c.memory[key]; ok {
		c.mu.Unlock()
		return price, nil
	}
	c.mu.Unlock()

	if c.cache != nil {
		if price, ok := c.cache.GetCachedPrice(params); ok {
			c.remember(key, &price)
			return &price, nil
		}
	}

	price, err := c.fetchWithRetry(ctx, params)
	if err != nil {
		// Retries exhausted or the query is malformed. A stale entry
		// beats no answer.
		if c.cache != nil {
			if stale, ok := c.cache.GetStalePrice(params); ok {
				logging.Warn("catalog unavailable, using stale cached price",
					zap.String("service", params.ServiceCode), zap.Error(err))
				c.remember(key, &stale)
				return &stale, nil
			}
		}
		return nil, err
	}

	c.remember(key, price)
	if price != nil && c.cache != nil {
		c.cache.SetCachedPrice(params, *price)
	}
	return price, nil
}

func (c *CatalogClient) remember(key string, price *float64) {
	c.mu.Lock()
	c.memory[key] = price
	c.mu.Unlock()
}

func (c *CatalogClient) fetchWithRetry(ctx context.Context, params PriceQueryParams) (*float64, error) {
	var price *float64

	err := try.Do(func(attempt int) (bool, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()

		out, err := c.api.GetProducts(attemptCtx, buildGetProductsInput(params))
		if err != nil {
			if !isRetryable(err) || attempt >= maxAttempts {
				return false, err
			}
			logging.Debug("catalog call failed, backing off",
				zap.Int("attempt", attempt), zap.Error(err))
			c.sleep(backoffBase << (attempt - 1))
			return true, err
		}

		price = decodeFirstOnDemandPrice(out.PriceList)
		return false, nil
	})

	return price, err
}

// Close releases pooled HTTP connections. Call at end of invocation.
func (c *CatalogClient) Close() {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}
