// Package cdn - CloudFront cost calculator
package cdn

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cdk-cost/core/cost"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

const (
	// Defaults for a distribution with no usage override
	cfDefaultTransferOutGB = 100
	cfDefaultRequests      = 1_000_000

	// US/EU edge rates; actual rates depend on viewer geography, so
	// CloudFront estimates never rise above low confidence.
	cfTransferOutPerGB = 0.085
	cfRequestsPer10k   = 0.01
)

// CloudFrontCalculator prices AWS::CloudFront::Distribution resources
type CloudFrontCalculator struct{}

// NewCloudFrontCalculator creates a CloudFront calculator
func NewCloudFrontCalculator() *CloudFrontCalculator {
	return &CloudFrontCalculator{}
}

// Supports reports whether the type is a CloudFront distribution
func (c *CloudFrontCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::CloudFront::Distribution"
}

// CalculateCost prices transfer-out and request volume at US/EU edge rates
func (c *CloudFrontCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	transferGB := types.OrDefault(rctx.Usage.CloudFront.TransferOutGBPerMonth, cfDefaultTransferOutGB)
	requests := types.OrDefault(rctx.Usage.CloudFront.RequestsPerMonth, cfDefaultRequests)

	monthly := decimal.NewFromFloat(transferGB * cfTransferOutPerGB).
		Add(decimal.NewFromFloat(requests / 10_000 * cfRequestsPer10k))

	return types.NewMonthlyCost(monthly, types.ConfidenceLow,
		fmt.Sprintf("CloudFront: %.0f GB transfer out at $%.3f/GB (US/EU edge rate)", transferGB, cfTransferOutPerGB),
		fmt.Sprintf("CloudFront: %.0f requests/month at $%.2f/10k", requests, cfRequestsPer10k),
		"CloudFront: rates vary by viewer geography",
	), nil
}
