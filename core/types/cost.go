// Package types - Cost model types
package types

import "github.com/shopspring/decimal"

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Confidence qualifies how reliable a cost estimate is
type Confidence string

const (
	// ConfidenceHigh means the cost is deterministic from resource
	// properties alone (instance type, storage size)
	ConfidenceHigh Confidence = "high"

	// ConfidenceMedium means the cost depends on a documented default
	// usage assumption the user can override
	ConfidenceMedium Confidence = "medium"

	// ConfidenceLow means heavy defaults or hard-coded fallback prices
	// were used
	ConfidenceLow Confidence = "low"

	// ConfidenceUnknown means no price could be determined; the amount
	// is zero and the assumptions explain the gap
	ConfidenceUnknown Confidence = "unknown"
)

// rank orders confidence levels from best to worst
var confidenceRank = map[Confidence]int{
	ConfidenceHigh:    3,
	ConfidenceMedium:  2,
	ConfidenceLow:     1,
	ConfidenceUnknown: 0,
}

// Lower returns the weaker of two confidence levels
func (c Confidence) Lower(other Confidence) Confidence {
	if confidenceRank[other] < confidenceRank[c] {
		return other
	}
	return c
}

// MonthlyCost is an estimated monthly cost in USD
type MonthlyCost struct {
	// Amount is the monthly amount; never negative
	Amount decimal.Decimal `json:"amount"`

	// Currency is always USD
	Currency Currency `json:"currency"`

	// Confidence qualifies the estimate
	Confidence Confidence `json:"confidence"`

	// Assumptions cite the numeric inputs the estimate depends on
	Assumptions []string `json:"assumptions"`
}

// NewMonthlyCost creates a monthly cost in USD
func NewMonthlyCost(amount decimal.Decimal, confidence Confidence, assumptions ...string) MonthlyCost {
	return MonthlyCost{
		Amount:      amount,
		Currency:    CurrencyUSD,
		Confidence:  confidence,
		Assumptions: assumptions,
	}
}

// UnknownCost returns a zero cost with unknown confidence and an
// explanation of the gap
func UnknownCost(reason string) MonthlyCost {
	return MonthlyCost{
		Amount:      decimal.Zero,
		Currency:    CurrencyUSD,
		Confidence:  ConfidenceUnknown,
		Assumptions: []string{reason},
	}
}

// ResourceCost pairs a resource identity with its monthly cost
type ResourceCost struct {
	// LogicalID is the template-local resource name
	LogicalID string `json:"logicalId"`

	// Type is the dotted resource kind
	Type string `json:"type"`

	// MonthlyCost is the estimated monthly cost
	MonthlyCost MonthlyCost `json:"monthlyCost"`
}

// ModifiedResourceCost carries both sides of a modified resource
type ModifiedResourceCost struct {
	// LogicalID is the template-local resource name
	LogicalID string `json:"logicalId"`

	// Type is the dotted resource kind
	Type string `json:"type"`

	// OldMonthlyCost is the cost under the base template
	OldMonthlyCost MonthlyCost `json:"oldMonthlyCost"`

	// NewMonthlyCost is the cost under the target template
	NewMonthlyCost MonthlyCost `json:"newMonthlyCost"`

	// CostDelta is new minus old
	CostDelta decimal.Decimal `json:"costDelta"`

	// Confidence is the weaker of the two sides
	Confidence Confidence `json:"confidence"`
}

// CostDelta is the structured cost difference between two templates
type CostDelta struct {
	// TotalDelta is sum(added) - sum(removed) + sum(new-old of modified)
	TotalDelta decimal.Decimal `json:"totalDelta"`

	// Currency is always USD
	Currency Currency `json:"currency"`

	// AddedCosts are costs of resources only in the target
	AddedCosts []ResourceCost `json:"addedCosts"`

	// RemovedCosts are costs of resources only in the base
	RemovedCosts []ResourceCost `json:"removedCosts"`

	// ModifiedCosts are costs of resources present in both with
	// property changes
	ModifiedCosts []ModifiedResourceCost `json:"modifiedCosts"`
}

// IsEmpty reports whether the delta contains no changes at all
func (d *CostDelta) IsEmpty() bool {
	return d.TotalDelta.IsZero() &&
		len(d.AddedCosts) == 0 &&
		len(d.RemovedCosts) == 0 &&
		len(d.ModifiedCosts) == 0
}

// StackDelta is one stack's contribution in multi-stack mode
type StackDelta struct {
	// StackName identifies the stack
	StackName string `json:"stackName"`

	// Delta is the stack's cost delta
	Delta CostDelta `json:"delta"`
}

// AggregateStacks sums per-stack deltas into one combined delta. Logical
// ids are kept as-is; the same id in two stacks names two distinct
// resources.
func AggregateStacks(stacks []StackDelta) CostDelta {
	combined := CostDelta{
		Currency:      CurrencyUSD,
		AddedCosts:    []ResourceCost{},
		RemovedCosts:  []ResourceCost{},
		ModifiedCosts: []ModifiedResourceCost{},
	}
	for _, s := range stacks {
		combined.TotalDelta = combined.TotalDelta.Add(s.Delta.TotalDelta)
		combined.AddedCosts = append(combined.AddedCosts, s.Delta.AddedCosts...)
		combined.RemovedCosts = append(combined.RemovedCosts, s.Delta.RemovedCosts...)
		combined.ModifiedCosts = append(combined.ModifiedCosts, s.Delta.ModifiedCosts...)
	}
	return combined
}
