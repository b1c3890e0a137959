// Package dns - Route53 cost calculator
package dns

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cdk-cost/core/cost"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

const (
	// Flat per-zone monthly charge for the first 25 zones
	hostedZoneMonthlyRate = 0.50

	// Standard query rate per million
	queriesPerMillionRate = 0.40
)

// Route53Calculator prices AWS::Route53::HostedZone resources
type Route53Calculator struct{}

// NewRoute53Calculator creates a Route53 calculator
func NewRoute53Calculator() *Route53Calculator {
	return &Route53Calculator{}
}

// Supports reports whether the type is a hosted zone
func (c *Route53Calculator) Supports(resourceType string) bool {
	return resourceType == "AWS::Route53::HostedZone"
}

// CalculateCost prices the flat zone charge plus standard query volume
func (c *Route53Calculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	monthly := decimal.NewFromFloat(hostedZoneMonthlyRate)
	assumptions := []string{
		fmt.Sprintf("Route53: $%.2f/hosted zone/month", hostedZoneMonthlyRate),
	}

	if queries := rctx.Usage.Route53.QueriesPerMonth; queries > 0 {
		monthly = monthly.Add(decimal.NewFromFloat(queries / 1e6 * queriesPerMillionRate))
		assumptions = append(assumptions,
			fmt.Sprintf("Route53: %.0f queries/month at $%.2f/million", queries, queriesPerMillionRate))
	}

	return types.NewMonthlyCost(monthly, types.ConfidenceHigh, assumptions...), nil
}
