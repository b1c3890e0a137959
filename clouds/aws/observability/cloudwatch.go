// Package observability - CloudWatch Logs cost calculator
package observability

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
	// Defaults for a log group with no usage override
	logsDefaultIngestedGB = 5
	logsDefaultStorageGB  = 10

	// Fallback per-GB rates when the catalog cannot answer
	logsFallbackIngestPerGB  = 0.50
	logsFallbackStoragePerGB = 0.03
)

// CloudWatchLogsCalculator prices AWS::Logs::LogGroup resources
type CloudWatchLogsCalculator struct{}

// NewCloudWatchLogsCalculator creates a CloudWatch Logs calculator
func NewCloudWatchLogsCalculator() *CloudWatchLogsCalculator {
	return &CloudWatchLogsCalculator{}
}

// Supports reports whether the type is a CloudWatch log group
func (c *CloudWatchLogsCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::Logs::LogGroup"
}

// CalculateCost prices log ingestion and retained storage
func (c *CloudWatchLogsCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	ingestedGB := types.OrDefault(rctx.Usage.CloudWatch.IngestedGBPerMonth, logsDefaultIngestedGB)
	storageGB := types.OrDefault(rctx.Usage.CloudWatch.StorageGB, logsDefaultStorageGB)

	confidence := types.ConfidenceMedium
	assumptions := []string{
		fmt.Sprintf("CloudWatch Logs: %.0f GB ingested, %.0f GB stored per month", ingestedGB, storageGB),
	}

	ingestPerGB, err := c.perGBRate(ctx, rctx, "DataProcessing-Bytes")
	if err != nil {
		return types.MonthlyCost{}, err
	}
	if ingestPerGB == nil {
		v := logsFallbackIngestPerGB
		ingestPerGB = &v
		confidence = types.ConfidenceLow
		assumptions = append(assumptions, fmt.Sprintf("CloudWatch Logs: $%.2f/GB ingested (fallback price)", v))
	}

	storagePerGB, err := c.perGBRate(ctx, rctx, "TimedStorage-ByteHrs")
	if err != nil {
		return types.MonthlyCost{}, err
	}
	if storagePerGB == nil {
		v := logsFallbackStoragePerGB
		storagePerGB = &v
		confidence = types.ConfidenceLow
		assumptions = append(assumptions, fmt.Sprintf("CloudWatch Logs: $%.2f/GB-month stored (fallback price)", v))
	}

	monthly := decimal.NewFromFloat(ingestedGB * *ingestPerGB).
		Add(decimal.NewFromFloat(storageGB * *storagePerGB))
	return types.NewMonthlyCost(monthly, confidence, assumptions...), nil
}

func (c *CloudWatchLogsCalculator) perGBRate(ctx context.Context, rctx *cost.Context, usageSuffix string) (*float64, error) {
	return rctx.Price(ctx, "AmazonCloudWatch",
		pricing.Filter{Field: "usagetype", Value: rctx.UsageType(usageSuffix)},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
}
