// Package networking - NAT gateway, load balancer and VPC endpoint
// calculators
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
	// natDefaultDataProcessedGB is the documented default
	natDefaultDataProcessedGB = 100

	// Fallback rates when the catalog misses
	natFallbackHourly = 0.045
	natFallbackPerGB  = 0.045
)

// NATGatewayCalculator prices AWS::EC2::NatGateway resources
type NATGatewayCalculator struct{}

// NewNATGatewayCalculator creates a NAT gateway calculator
func NewNATGatewayCalculator() *NATGatewayCalculator {
	return &NATGatewayCalculator{}
}

// Supports reports whether the type is a NAT gateway
func (c *NATGatewayCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::EC2::NatGateway"
}

// CalculateCost prices gateway hours plus processed data under the
// documented default volume.
func (c *NATGatewayCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	dataGB := types.OrDefault(rctx.Usage.NATGateway.DataProcessedGB, natDefaultDataProcessedGB)

	hourlyRate, err := rctx.Price(ctx, "AmazonEC2",
		pricing.Filter{Field: "productFamily", Value: "NAT Gateway"},
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType("NatGateway-Hours")},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	dataRate, err := rctx.Price(ctx, "AmazonEC2",
		pricing.Filter{Field: "productFamily", Value: "NAT Gateway"},
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType("NatGateway-Bytes")},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	confidence := types.ConfidenceMedium
	hourly := natFallbackHourly
	perGB := natFallbackPerGB
	note := ""
	if hourlyRate != nil {
		hourly = *hourlyRate
	}
	if dataRate != nil {
		perGB = *dataRate
	}
	if hourlyRate == nil || dataRate == nil {
		confidence = types.ConfidenceLow
		note = " (fallback price)"
	}

	monthly := cost.Monthly(hourly).
		Add(decimal.NewFromFloat(perGB).Mul(decimal.NewFromFloat(dataGB)))

	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("NAT Gateway: $%.4f/hour, %d hours/month%s", hourly, cost.HoursPerMonth, note),
		fmt.Sprintf("NAT Gateway: %.0f GB processed at $%.4f/GB", dataGB, perGB)), nil
}
