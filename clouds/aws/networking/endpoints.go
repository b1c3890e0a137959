// Package networking - VPC endpoint calculator
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
	// vpceDefaultDataProcessedGB is the documented default
	vpceDefaultDataProcessedGB = 100

	// Fallback rates when the catalog misses
	vpceFallbackHourly = 0.01
	vpceFallbackPerGB  = 0.01
)

// VPCEndpointCalculator prices AWS::EC2::VPCEndpoint resources. Gateway
// endpoints are free; interface endpoints bill hours and data.
type VPCEndpointCalculator struct{}

// NewVPCEndpointCalculator creates a VPC endpoint calculator
func NewVPCEndpointCalculator() *VPCEndpointCalculator {
	return &VPCEndpointCalculator{}
}

// Supports reports whether the type is a VPC endpoint
func (c *VPCEndpointCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::EC2::VPCEndpoint"
}

// CalculateCost prices interface endpoints; gateway endpoints are free
func (c *VPCEndpointCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	endpointType := resource.StringProp("VpcEndpointType")
	if endpointType == "" || endpointType == "Gateway" {
		return types.NewMonthlyCost(decimal.Zero, types.ConfidenceHigh,
			"VPC Endpoint: gateway endpoints are free"), nil
	}

	dataGB := types.OrDefault(rctx.Usage.VPCEndpoint.DataProcessedGB, vpceDefaultDataProcessedGB)

	hourlyRate, err := rctx.Price(ctx, "AmazonVPC",
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType("VpcEndpoint-Hours")},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	confidence := types.ConfidenceMedium
	hourly := vpceFallbackHourly
	note := ""
	if hourlyRate != nil {
		hourly = *hourlyRate
	} else {
		confidence = types.ConfidenceLow
		note = " (fallback price)"
	}

	monthly := cost.Monthly(hourly).
		Add(decimal.NewFromFloat(vpceFallbackPerGB).Mul(decimal.NewFromFloat(dataGB)))

	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("VPC Endpoint: interface at $%.4f/hour%s", hourly, note),
		fmt.Sprintf("VPC Endpoint: %.0f GB processed at $%.4f/GB", dataGB, vpceFallbackPerGB)), nil
}
