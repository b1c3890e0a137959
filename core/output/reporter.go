// Package output renders cost deltas as text, JSON, or Markdown.
package output

import (
	"sort"

	"github.com/shopspring/decimal"

	"cdk-cost/core/threshold"
	"cdk-cost/core/types"
	"cdk-cost/internal/errors"
)

// Format selects a report renderer
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ConfigSummary is an optional report decoration describing what the
// analysis ran with.
type ConfigSummary struct {
	// Region is the AWS region code
	Region string `json:"region"`

	// Environment is the threshold scope, when one was given
	Environment string `json:"environment,omitempty"`

	// ExcludedResourceTypes were reported as zero cost
	ExcludedResourceTypes []string `json:"excludedResourceTypes,omitempty"`

	// CacheEnabled reports whether the price cache was active
	CacheEnabled bool `json:"cacheEnabled"`
}

// Options carries the optional report decorations
type Options struct {
	// Config adds a configuration summary section
	Config *ConfigSummary

	// Threshold adds a threshold status section
	Threshold *threshold.Result

	// Stacks adds a per-stack breakdown in multi-stack mode
	Stacks []types.StackDelta
}

// Reporter renders one cost delta in one format
type Reporter interface {
	Render(delta *types.CostDelta, opts Options) (string, error)
}

// NewReporter selects the renderer for a format.
func NewReporter(format Format) (Reporter, error) {
	switch format {
	case FormatText, "":
		return &TextReporter{}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	case FormatMarkdown:
		return &MarkdownReporter{}, nil
	default:
		return nil, errors.Newf(errors.TypeInput, "unknown output format %q", format)
	}
}

// noChangesLine is the whole report when the delta is empty.
const noChangesLine = "No resource changes detected"

// formatAmount renders an unsigned USD amount with two decimals and no
// grouping.
func formatAmount(amount decimal.Decimal) string {
	return "$" + amount.Abs().StringFixed(2)
}

// formatSigned renders a signed USD amount. Exactly zero stays unsigned.
func formatSigned(amount decimal.Decimal) string {
	switch {
	case amount.IsPositive():
		return "+$" + amount.StringFixed(2)
	case amount.IsNegative():
		return "-$" + amount.Abs().StringFixed(2)
	default:
		return "$" + amount.StringFixed(2)
	}
}

// sortedByAmount returns a copy ordered by amount descending, ties by
// logical id ascending.
func sortedByAmount(costs []types.ResourceCost) []types.ResourceCost {
	out := make([]types.ResourceCost, len(costs))
	copy(out, costs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].MonthlyCost.Amount, out[j].MonthlyCost.Amount
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return out[i].LogicalID < out[j].LogicalID
	})
	return out
}

// sortedByDeltaMagnitude returns a copy ordered by |costDelta|
// descending, ties by logical id ascending.
func sortedByDeltaMagnitude(costs []types.ModifiedResourceCost) []types.ModifiedResourceCost {
	out := make([]types.ModifiedResourceCost, len(costs))
	copy(out, costs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CostDelta.Abs(), out[j].CostDelta.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return out[i].LogicalID < out[j].LogicalID
	})
	return out
}

// contributor is one row of the top-contributors table
type contributor struct {
	LogicalID string
	Type      string
	Amount    decimal.Decimal
}

// topContributors ranks cost-increasing entries, largest first, capped
// at limit.
func topContributors(delta *types.CostDelta, limit int) []contributor {
	var all []contributor
	for _, c := range delta.AddedCosts {
		if c.MonthlyCost.Amount.IsPositive() {
			all = append(all, contributor{c.LogicalID, c.Type, c.MonthlyCost.Amount})
		}
	}
	for _, c := range delta.ModifiedCosts {
		if c.CostDelta.IsPositive() {
			all = append(all, contributor{c.LogicalID, c.Type, c.CostDelta})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Amount.Equal(all[j].Amount) {
			return all[i].Amount.GreaterThan(all[j].Amount)
		}
		return all[i].LogicalID < all[j].LogicalID
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}
