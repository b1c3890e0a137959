// Package database - ElastiCache cluster calculator
package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cdk-cost/core/cost"
	"cdk-cost/core/pricing"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

// elastiCacheFallbackHourly is used when the catalog misses the node type
const elastiCacheFallbackHourly = 0.03

// ElastiCacheCalculator prices AWS::ElastiCache::CacheCluster resources
type ElastiCacheCalculator struct{}

// NewElastiCacheCalculator creates an ElastiCache calculator
func NewElastiCacheCalculator() *ElastiCacheCalculator {
	return &ElastiCacheCalculator{}
}

// Supports reports whether the type is an ElastiCache cluster
func (c *ElastiCacheCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::ElastiCache::CacheCluster"
}

// CanCalculate requires a concrete cache node type
func (c *ElastiCacheCalculator) CanCalculate(resource template.ResourceWithID) bool {
	return resource.StringProp("CacheNodeType") != ""
}

// CalculateCost prices node hours for the configured node count
func (c *ElastiCacheCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	nodeType := resource.StringProp("CacheNodeType")
	nodes := resource.FloatProp(1, "NumCacheNodes")

	engine := resource.StringProp("Engine")
	if engine == "" {
		engine = "redis"
	}

	rate, err := rctx.Price(ctx, "AmazonElastiCache",
		pricing.Filter{Field: "instanceType", Value: nodeType},
		pricing.Filter{Field: "cacheEngine", Value: engine},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	confidence := types.ConfidenceHigh
	hourly := elastiCacheFallbackHourly
	note := ""
	if rate != nil {
		hourly = *rate
	} else {
		confidence = types.ConfidenceLow
		note = " (fallback price)"
	}

	monthly := cost.Monthly(hourly).Mul(decimal.NewFromFloat(nodes))
	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("ElastiCache: %.0f x %s %s at $%.4f/hour%s", nodes, nodeType, engine, hourly, note)), nil
}
