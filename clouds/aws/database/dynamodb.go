// Package database - DynamoDB table calculator
package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cdk-cost/core/cost"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

const (
	// On-demand request rates (per million)
	dynamoOnDemandReadPerM  = 0.25
	dynamoOnDemandWritePerM = 1.25

	// Provisioned capacity hourly rates per unit
	dynamoRCUHourly = 0.00013
	dynamoWCUHourly = 0.00065

	// Storage rate per GB-month
	dynamoStorageGBMonth = 0.25

	// Documented defaults for on-demand tables
	dynamoDefaultReadsPerMonth  = 1_000_000
	dynamoDefaultWritesPerMonth = 500_000
	dynamoDefaultStorageGB      = 10
)

// DynamoDBCalculator prices AWS::DynamoDB::Table resources
type DynamoDBCalculator struct{}

// NewDynamoDBCalculator creates a DynamoDB calculator
func NewDynamoDBCalculator() *DynamoDBCalculator {
	return &DynamoDBCalculator{}
}

// Supports reports whether the type is a DynamoDB table
func (c *DynamoDBCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::DynamoDB::Table"
}

// CalculateCost prices provisioned throughput from table properties, or
// on-demand request volume under documented defaults.
func (c *DynamoDBCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	storageGB := types.OrDefault(rctx.Usage.DynamoDB.StorageGB, dynamoDefaultStorageGB)
	storageCost := decimal.NewFromFloat(dynamoStorageGBMonth).Mul(decimal.NewFromFloat(storageGB))

	if resource.StringProp("BillingMode") == "PAY_PER_REQUEST" {
		reads := types.OrDefault(rctx.Usage.DynamoDB.ReadRequestsPerMonth, dynamoDefaultReadsPerMonth)
		writes := types.OrDefault(rctx.Usage.DynamoDB.WriteRequestsPerMonth, dynamoDefaultWritesPerMonth)

		requestCost := decimal.NewFromFloat(reads / 1e6 * dynamoOnDemandReadPerM).
			Add(decimal.NewFromFloat(writes / 1e6 * dynamoOnDemandWritePerM))
		monthly := requestCost.Add(storageCost)

		return types.NewMonthlyCost(monthly, types.ConfidenceMedium,
			fmt.Sprintf("DynamoDB: on-demand, %.0f reads and %.0f writes/month", reads, writes),
			fmt.Sprintf("DynamoDB: %.0f GB storage at $%.2f/GB-month", storageGB, dynamoStorageGBMonth)), nil
	}

	rcu := resource.FloatProp(5, "ProvisionedThroughput", "ReadCapacityUnits")
	wcu := resource.FloatProp(5, "ProvisionedThroughput", "WriteCapacityUnits")

	capacityCost := cost.Monthly(rcu*dynamoRCUHourly + wcu*dynamoWCUHourly)
	monthly := capacityCost.Add(storageCost)

	return types.NewMonthlyCost(monthly, types.ConfidenceHigh,
		fmt.Sprintf("DynamoDB: provisioned %.0f RCU and %.0f WCU", rcu, wcu),
		fmt.Sprintf("DynamoDB: %.0f GB storage at $%.2f/GB-month", storageGB, dynamoStorageGBMonth)), nil
}
