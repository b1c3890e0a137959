// Package serverless - Lambda function calculator
package serverless

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
	// Documented defaults, overridable via usage assumptions
	lambdaDefaultInvocations = 1_000_000
	lambdaDefaultDurationMs  = 200

	// Fallback rates when the catalog misses
	lambdaFallbackPerRequest = 0.0000002
	lambdaFallbackGBSecond   = 0.0000166667

	// CloudFormation default memory size
	lambdaDefaultMemoryMB = 128
)

// LambdaCalculator prices AWS::Lambda::Function resources
type LambdaCalculator struct{}

// NewLambdaCalculator creates a Lambda calculator
func NewLambdaCalculator() *LambdaCalculator {
	return &LambdaCalculator{}
}

// Supports reports whether the type is a Lambda function
func (c *LambdaCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::Lambda::Function"
}

// CalculateCost prices request volume plus GB-seconds under the
// documented defaults. ARM functions use the ARM duration rate.
func (c *LambdaCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	memoryMB := resource.FloatProp(lambdaDefaultMemoryMB, "MemorySize")
	invocations := types.OrDefault(rctx.Usage.Lambda.InvocationsPerMonth, lambdaDefaultInvocations)
	durationMs := types.OrDefault(rctx.Usage.Lambda.AvgDurationMs, lambdaDefaultDurationMs)

	durationUsageType := "Lambda-GB-Second"
	for _, arch := range resource.ListProp("Architectures") {
		if arch == "arm64" {
			durationUsageType = "Lambda-GB-Second-ARM"
		}
	}

	requestRate, err := rctx.Price(ctx, "AWSLambda",
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType("Request")},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	durationRate, err := rctx.Price(ctx, "AWSLambda",
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType(durationUsageType)},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	confidence := types.ConfidenceMedium
	perRequest := lambdaFallbackPerRequest
	perGBSecond := lambdaFallbackGBSecond
	note := ""
	if requestRate != nil {
		perRequest = *requestRate
	}
	if durationRate != nil {
		perGBSecond = *durationRate
	}
	if requestRate == nil || durationRate == nil {
		confidence = types.ConfidenceLow
		note = " (fallback price)"
	}

	// GB-seconds = invocations * seconds * memory in GB
	gbSeconds := invocations * (durationMs / 1000) * (memoryMB / 1024)

	requestCost := decimal.NewFromFloat(perRequest).Mul(decimal.NewFromFloat(invocations))
	durationCost := decimal.NewFromFloat(perGBSecond).Mul(decimal.NewFromFloat(gbSeconds))
	monthly := requestCost.Add(durationCost)

	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("Lambda: %.0f invocations/month at %.0f ms, %.0f MB%s", invocations, durationMs, memoryMB, note),
		fmt.Sprintf("Lambda: %.2f GB-seconds at $%.10f/GB-second", gbSeconds, perGBSecond)), nil
}
