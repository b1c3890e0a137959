// Package storage - S3 bucket calculator
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
	// s3DefaultStorageGB is the documented default storage assumption
	s3DefaultStorageGB = 100

	// s3DefaultRequestsPerMonth is the documented default request volume
	s3DefaultRequestsPerMonth = 100_000

	// s3FallbackGBMonth is the standard-storage rate used when the
	// catalog misses
	s3FallbackGBMonth = 0.023

	// s3FallbackPerRequest approximates tier-1 request pricing
	s3FallbackPerRequest = 0.0000054
)

// S3Calculator prices AWS::S3::Bucket resources
type S3Calculator struct{}

// NewS3Calculator creates an S3 calculator
func NewS3Calculator() *S3Calculator {
	return &S3Calculator{}
}

// Supports reports whether the type is an S3 bucket
func (c *S3Calculator) Supports(resourceType string) bool {
	return resourceType == "AWS::S3::Bucket"
}

// CalculateCost prices standard storage plus request volume under the
// documented defaults, both overridable via usage assumptions.
func (c *S3Calculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	storageGB := types.OrDefault(rctx.Usage.S3.StorageGB, s3DefaultStorageGB)
	requests := types.OrDefault(rctx.Usage.S3.RequestsPerMonth, s3DefaultRequestsPerMonth)

	rate, err := rctx.Price(ctx, "AmazonS3",
		pricing.Filter{Field: "storageClass", Value: "General Purpose"},
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType("TimedStorage-ByteHrs")},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	confidence := types.ConfidenceMedium
	gbMonth := s3FallbackGBMonth
	note := ""
	if rate != nil {
		gbMonth = *rate
	} else {
		confidence = types.ConfidenceLow
		note = " (fallback price)"
	}

	storageCost := decimal.NewFromFloat(gbMonth).Mul(decimal.NewFromFloat(storageGB))
	requestCost := decimal.NewFromFloat(s3FallbackPerRequest).Mul(decimal.NewFromFloat(requests))
	monthly := storageCost.Add(requestCost)

	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("S3: %.0f GB standard storage at $%.4f/GB-month%s", storageGB, gbMonth, note),
		fmt.Sprintf("S3: %.0f requests/month", requests)), nil
}
