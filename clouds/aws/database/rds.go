// Package database - RDS, DynamoDB and ElastiCache cost calculators
package database

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
	// rdsFallbackHourly is used when the catalog misses the instance class
	rdsFallbackHourly = 0.05

	// rdsStorageGBMonth approximates gp3 database storage
	rdsStorageGBMonth = 0.115

	// rdsDefaultStorageGB matches the CloudFormation default
	rdsDefaultStorageGB = 20
)

// databaseEngines maps CloudFormation Engine values to the catalog's
// databaseEngine attribute.
var databaseEngines = map[string]string{
	"postgres":      "PostgreSQL",
	"mysql":         "MySQL",
	"mariadb":       "MariaDB",
	"oracle-se2":    "Oracle",
	"sqlserver-ex":  "SQL Server",
	"aurora-mysql":  "Aurora MySQL",
	"aurora-postgresql": "Aurora PostgreSQL",
}

// RDSCalculator prices AWS::RDS::DBInstance resources
type RDSCalculator struct{}

// NewRDSCalculator creates an RDS calculator
func NewRDSCalculator() *RDSCalculator {
	return &RDSCalculator{}
}

// Supports reports whether the type is an RDS instance
func (c *RDSCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::RDS::DBInstance"
}

// CanCalculate requires a concrete instance class
func (c *RDSCalculator) CanCalculate(resource template.ResourceWithID) bool {
	return resource.StringProp("DBInstanceClass") != ""
}

// CalculateCost prices the instance hours plus allocated storage
func (c *RDSCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	instanceClass := resource.StringProp("DBInstanceClass")
	engine := resource.StringProp("Engine")
	storageGB := resource.FloatProp(rdsDefaultStorageGB, "AllocatedStorage")

	deployment := "Single-AZ"
	if resource.BoolProp(false, "MultiAZ") {
		deployment = "Multi-AZ"
	}

	catalogEngine, known := databaseEngines[engine]
	if !known {
		catalogEngine = "PostgreSQL"
	}

	rate, err := rctx.Price(ctx, "AmazonRDS",
		pricing.Filter{Field: "instanceType", Value: instanceClass},
		pricing.Filter{Field: "databaseEngine", Value: catalogEngine},
		pricing.Filter{Field: "deploymentOption", Value: deployment},
		pricing.Filter{Field: "location", Value: rctx.Location()},
	)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	confidence := types.ConfidenceHigh
	hourly := rdsFallbackHourly
	note := ""
	if rate != nil {
		hourly = *rate
	} else {
		confidence = types.ConfidenceLow
		note = " (fallback price)"
	}

	instanceCost := cost.Monthly(hourly)
	storageCost := decimal.NewFromFloat(rdsStorageGBMonth).Mul(decimal.NewFromFloat(storageGB))
	monthly := instanceCost.Add(storageCost)

	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("RDS: %s %s %s at $%.4f/hour%s", instanceClass, catalogEngine, deployment, hourly, note),
		fmt.Sprintf("RDS: %.0f GB storage at $%.3f/GB-month", storageGB, rdsStorageGBMonth)), nil
}
