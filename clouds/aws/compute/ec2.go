// Package compute - EC2 and Auto Scaling cost calculators
package compute

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cdk-cost/core/cost"
	"cdk-cost/core/pricing"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

// ec2FallbackHourly is used when the catalog has no price for the
// instance type.
const ec2FallbackHourly = 0.05

// EC2Calculator prices AWS::EC2::Instance resources
type EC2Calculator struct{}

// NewEC2Calculator creates an EC2 calculator
func NewEC2Calculator() *EC2Calculator {
	return &EC2Calculator{}
}

// Supports reports whether the type is an EC2 instance
func (c *EC2Calculator) Supports(resourceType string) bool {
	return resourceType == "AWS::EC2::Instance"
}

// CanCalculate requires a concrete instance type
func (c *EC2Calculator) CanCalculate(resource template.ResourceWithID) bool {
	return resource.StringProp("InstanceType") != ""
}

// CalculateCost prices the instance at its on-demand Linux rate
func (c *EC2Calculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	instanceType := resource.StringProp("InstanceType")

	hourly, err := instanceHourlyRate(ctx, rctx, instanceType)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	if hourly == nil {
		monthly := cost.Monthly(ec2FallbackHourly)
		return types.NewMonthlyCost(monthly, types.ConfidenceLow,
			fmt.Sprintf("EC2: no catalog price for %s, fallback $%.4f/hour", instanceType, ec2FallbackHourly)), nil
	}

	monthly := cost.Monthly(*hourly)
	return types.NewMonthlyCost(monthly, types.ConfidenceHigh,
		fmt.Sprintf("EC2: %s at $%.4f/hour, %d hours/month", instanceType, *hourly, cost.HoursPerMonth)), nil
}

// instanceHourlyRate resolves the on-demand hourly rate for a Linux
// shared-tenancy instance.
func instanceHourlyRate(ctx context.Context, rctx *cost.Context, instanceType string) (*float64, error) {
	return rctx.Price(ctx, "AmazonEC2",
		pricing.Filter{Field: "instanceType", Value: instanceType},
		pricing.Filter{Field: "location", Value: rctx.Location()},
		pricing.Filter{Field: "operatingSystem", Value: "Linux"},
		pricing.Filter{Field: "tenancy", Value: "Shared"},
		pricing.Filter{Field: "preInstalledSw", Value: "NA"},
		pricing.Filter{Field: "capacitystatus", Value: "Used"},
	)
}

// monthlyInstanceCost is shared with the Auto Scaling calculator.
func monthlyInstanceCost(hourly float64, count float64) decimal.Decimal {
	return cost.Monthly(hourly).Mul(decimal.NewFromFloat(count))
}
