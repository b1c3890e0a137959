// Package cost dispatches resources to per-type calculators and
// assembles cost deltas.
package cost

import (
	"context"

	"github.com/shopspring/decimal"

	"cdk-cost/core/pricing"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

// HoursPerMonth is the averaged month length used for hourly rates.
const HoursPerMonth = 730

// Calculator translates one resource kind into a monthly cost. Running
// a calculator twice on the same inputs must produce identical outputs.
type Calculator interface {
	// Supports reports whether the calculator handles the resource type
	Supports(resourceType string) bool

	// CalculateCost estimates the monthly cost of a resource
	CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *Context) (types.MonthlyCost, error)
}

// Preconditioner is an optional calculator capability: a property-level
// precondition checked after Supports.
type Preconditioner interface {
	CanCalculate(resource template.ResourceWithID) bool
}

// Context carries everything a calculator may consult besides the
// resource itself.
type Context struct {
	// Region is the AWS region code
	Region string

	// Client resolves catalog prices
	Client pricing.Client

	// Usage carries user overrides for usage assumptions
	Usage types.UsageAssumptions

	// Siblings is the full resource list of the resource's template,
	// for cross-resource references (AutoScalingGroup → LaunchTemplate)
	Siblings []template.ResourceWithID
}

// Location returns the catalog location name for the context region.
func (c *Context) Location() string {
	return pricing.RegionToLocation(c.Region)
}

// UsageType prepends the region usage-type prefix to a suffix, the way
// the catalog encodes usagetype values.
func (c *Context) UsageType(suffix string) string {
	return pricing.RegionUsagePrefix(c.Region) + suffix
}

// Sibling dereferences a logical id against the sibling list.
func (c *Context) Sibling(logicalID string) (template.ResourceWithID, bool) {
	for _, s := range c.Siblings {
		if s.LogicalID == logicalID {
			return s, true
		}
	}
	return template.ResourceWithID{}, false
}

// Price runs one catalog query scoped to the context region.
func (c *Context) Price(ctx context.Context, serviceCode string, filters ...pricing.Filter) (*float64, error) {
	return c.Client.GetPrice(ctx, pricing.PriceQueryParams{
		ServiceCode: serviceCode,
		Region:      c.Region,
		Filters:     filters,
	})
}

// Monthly converts an hourly unit price into a monthly amount.
func Monthly(hourly float64) decimal.Decimal {
	return decimal.NewFromFloat(hourly).Mul(decimal.NewFromInt(HoursPerMonth))
}
