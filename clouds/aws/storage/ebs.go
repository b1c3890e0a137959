// Package storage - EBS and S3 cost calculators
package storage

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
	// ebsDefaultSizeGB matches the CloudFormation default volume size
	ebsDefaultSizeGB = 8

	// ebsFallbackGBMonth is the gp3 rate used when the catalog misses
	ebsFallbackGBMonth = 0.08
)

// volumeAPINames maps CloudFormation VolumeType values to the catalog's
// volumeApiName attribute.
var volumeAPINames = map[string]string{
	"gp2":      "gp2",
	"gp3":      "gp3",
	"io1":      "io1",
	"io2":      "io2",
	"st1":      "st1",
	"sc1":      "sc1",
	"standard": "standard",
}

// EBSCalculator prices AWS::EC2::Volume resources
type EBSCalculator struct{}

// NewEBSCalculator creates an EBS calculator
func NewEBSCalculator() *EBSCalculator {
	return &EBSCalculator{}
}

// Supports reports whether the type is an EBS volume
func (c *EBSCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::EC2::Volume"
}

// CalculateCost prices the volume at its per-GB-month storage rate
func (c *EBSCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	sizeGB := resource.FloatProp(ebsDefaultSizeGB, "Size")
	volumeType := resource.StringProp("VolumeType")
	if volumeType == "" {
		volumeType = "gp3"
	}

	apiName, known := volumeAPINames[volumeType]
	if !known {
		apiName = "gp3"
	}

	rate, err := rctx.Price(ctx, "AmazonEC2",
		pricing.Filter{Field: "productFamily", Value: "Storage"},
		pricing.Filter{Field: "volumeApiName", Value: apiName},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	confidence := types.ConfidenceHigh
	gbMonth := ebsFallbackGBMonth
	note := ""
	if rate != nil {
		gbMonth = *rate
	} else {
		confidence = types.ConfidenceLow
		note = " (fallback price)"
	}

	monthly := decimal.NewFromFloat(gbMonth).Mul(decimal.NewFromFloat(sizeGB))
	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("EBS: %.0f GB %s at $%.4f/GB-month%s", sizeGB, volumeType, gbMonth, note)), nil
}
