// Package containers - EKS and ECR cost calculators
package containers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cdk-cost/core/cost"
	"cdk-cost/core/pricing"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

// eksFallbackHourly is the published per-cluster control plane rate
const eksFallbackHourly = 0.10

// EKSCalculator prices AWS::EKS::Cluster control planes. Node groups
// are priced through their own Auto Scaling resources.
type EKSCalculator struct{}

// NewEKSCalculator creates an EKS calculator
func NewEKSCalculator() *EKSCalculator {
	return &EKSCalculator{}
}

// Supports reports whether the type is an EKS cluster
func (c *EKSCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::EKS::Cluster"
}

// CalculateCost prices the cluster's flat hourly control plane rate
func (c *EKSCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	rate, err := rctx.Price(ctx, "AmazonEKS",
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType("AmazonEKS-Hours:perCluster")},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	confidence := types.ConfidenceHigh
	hourly := eksFallbackHourly
	note := ""
	if rate != nil {
		hourly = *rate
	} else {
		confidence = types.ConfidenceLow
		note = " (fallback price)"
	}

	monthly := cost.Monthly(hourly)
	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("EKS: control plane at $%.2f/hour, %d hours/month%s", hourly, cost.HoursPerMonth, note)), nil
}

// ecrDefaultStorageGB is the documented default repository size
const ecrDefaultStorageGB = 10

// ecrFallbackGBMonth is used when the catalog misses
const ecrFallbackGBMonth = 0.10

// ECRCalculator prices AWS::ECR::Repository storage
type ECRCalculator struct{}

// NewECRCalculator creates an ECR calculator
func NewECRCalculator() *ECRCalculator {
	return &ECRCalculator{}
}

// Supports reports whether the type is an ECR repository
func (c *ECRCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::ECR::Repository"
}

// CalculateCost prices stored image data under the documented default
func (c *ECRCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	storageGB := types.OrDefault(rctx.Usage.ECR.StorageGB, ecrDefaultStorageGB)

	rate, err := rctx.Price(ctx, "AmazonECR",
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType("TimedStorage-ByteHrs")},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	confidence := types.ConfidenceMedium
	gbMonth := ecrFallbackGBMonth
	note := ""
	if rate != nil {
		gbMonth = *rate
	} else {
		confidence = types.ConfidenceLow
		note = " (fallback price)"
	}

	monthly := decimal.NewFromFloat(gbMonth).Mul(decimal.NewFromFloat(storageGB))
	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("ECR: %.0f GB stored images at $%.2f/GB-month%s", storageGB, gbMonth, note)), nil
}
