// Package security - Secrets Manager and KMS cost calculators
package security

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cdk-cost/core/cost"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

const (
	// Flat per-secret and per-key monthly charges
	secretMonthlyRate = 0.40
	kmsKeyMonthlyRate = 1.00

	// Per-10k API call rates
	secretsPer10kCalls = 0.05
	kmsPer10kRequests  = 0.03
)

// SecretsManagerCalculator prices AWS::SecretsManager::Secret resources
type SecretsManagerCalculator struct{}

// NewSecretsManagerCalculator creates a Secrets Manager calculator
func NewSecretsManagerCalculator() *SecretsManagerCalculator {
	return &SecretsManagerCalculator{}
}

// Supports reports whether the type is a secret
func (c *SecretsManagerCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::SecretsManager::Secret"
}

// CalculateCost prices the flat per-secret charge plus API call volume
func (c *SecretsManagerCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	monthly := decimal.NewFromFloat(secretMonthlyRate)
	assumptions := []string{
		fmt.Sprintf("Secrets Manager: $%.2f/secret/month", secretMonthlyRate),
	}

	if calls := rctx.Usage.SecretsManager.APICallsPerMonth; calls > 0 {
		monthly = monthly.Add(decimal.NewFromFloat(calls / 10_000 * secretsPer10kCalls))
		assumptions = append(assumptions,
			fmt.Sprintf("Secrets Manager: %.0f API calls/month at $%.2f/10k", calls, secretsPer10kCalls))
	}

	return types.NewMonthlyCost(monthly, types.ConfidenceHigh, assumptions...), nil
}

// KMSCalculator prices AWS::KMS::Key resources
type KMSCalculator struct{}

// NewKMSCalculator creates a KMS calculator
func NewKMSCalculator() *KMSCalculator {
	return &KMSCalculator{}
}

// Supports reports whether the type is a customer managed key
func (c *KMSCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::KMS::Key"
}

// CalculateCost prices the flat per-key charge plus request volume
func (c *KMSCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	monthly := decimal.NewFromFloat(kmsKeyMonthlyRate)
	assumptions := []string{
		fmt.Sprintf("KMS: $%.2f/key/month", kmsKeyMonthlyRate),
	}

	if requests := rctx.Usage.KMS.RequestsPerMonth; requests > 0 {
		monthly = monthly.Add(decimal.NewFromFloat(requests / 10_000 * kmsPer10kRequests))
		assumptions = append(assumptions,
			fmt.Sprintf("KMS: %.0f requests/month at $%.2f/10k", requests, kmsPer10kRequests))
	}

	return types.NewMonthlyCost(monthly, types.ConfidenceHigh, assumptions...), nil
}
