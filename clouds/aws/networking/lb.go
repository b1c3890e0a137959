// Package networking - Load balancer calculator
package networking

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cdk-cost/core/cost"
	"cdk-cost/core/pricing"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

const (
	// lbDefaultLCUPerHour is the documented default capacity-unit usage
	lbDefaultLCUPerHour = 1

	// Fallback rates when the catalog misses
	albFallbackHourly    = 0.0225
	albFallbackLCUHourly = 0.008
	nlbFallbackLCUHourly = 0.006
)

// LoadBalancerCalculator prices application, network and classic load
// balancers.
type LoadBalancerCalculator struct{}

// NewLoadBalancerCalculator creates a load balancer calculator
func NewLoadBalancerCalculator() *LoadBalancerCalculator {
	return &LoadBalancerCalculator{}
}

// Supports reports whether the type is a load balancer
func (c *LoadBalancerCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::ElasticLoadBalancingV2::LoadBalancer" ||
		resourceType == "AWS::ElasticLoadBalancing::LoadBalancer"
}

// CalculateCost prices balancer hours plus capacity units under the
// documented default LCU usage.
func (c *LoadBalancerCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	lbType := resource.StringProp("Type")
	if lbType == "" || resource.Type == "AWS::ElasticLoadBalancing::LoadBalancer" {
		lbType = "application"
	}

	family := "Load Balancer-Application"
	lcuFallback := albFallbackLCUHourly
	if lbType == "network" {
		family = "Load Balancer-Network"
		lcuFallback = nlbFallbackLCUHourly
	}

	hourlyRate, err := rctx.Price(ctx, "AWSELB",
		pricing.Filter{Field: "productFamily", Value: family},
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType("LoadBalancerUsage")},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	lcuRate, err := rctx.Price(ctx, "AWSELB",
		pricing.Filter{Field: "productFamily", Value: family},
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType("LCUUsage")},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	lcuPerHour := types.OrDefault(rctx.Usage.ELB.LCUPerHour, lbDefaultLCUPerHour)

	confidence := types.ConfidenceMedium
	hourly := albFallbackHourly
	lcuHourly := lcuFallback
	note := ""
	if hourlyRate != nil {
		hourly = *hourlyRate
	}
	if lcuRate != nil {
		lcuHourly = *lcuRate
	}
	if hourlyRate == nil || lcuRate == nil {
		confidence = types.ConfidenceLow
		note = " (fallback price)"
	}

	monthly := cost.Monthly(hourly).
		Add(cost.Monthly(lcuHourly).Mul(decimal.NewFromFloat(lcuPerHour)))

	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("ELB: %s at $%.4f/hour%s", lbType, hourly, note),
		fmt.Sprintf("ELB: %.1f LCU/hour at $%.4f/LCU-hour", lcuPerHour, lcuHourly)), nil
}
