// Package cost - Pricing engine
package cost

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cdk-cost/core/diff"
	"cdk-cost/core/pricing"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
	"cdk-cost/internal/logging"
)

// DefaultFanOut bounds concurrent pricing queries so one analysis does
// not exhaust catalog quotas.
const DefaultFanOut = 8

// EngineConfig configures the pricing engine
type EngineConfig struct {
	// Region is the AWS region code
	Region string

	// Usage carries user overrides for usage assumptions
	Usage types.UsageAssumptions

	// ExcludedTypes are reported as zero cost at high confidence
	ExcludedTypes []string

	// FanOut bounds concurrent pricing queries (default 8)
	FanOut int
}

// Engine prices resources and assembles cost deltas
type Engine struct {
	registry *Registry
	client   pricing.Client
	region   string
	usage    types.UsageAssumptions
	excluded map[string]bool
	fanOut   int
}

// NewEngine creates a pricing engine over a calculator registry and a
// catalog client.
func NewEngine(registry *Registry, client pricing.Client, cfg EngineConfig) *Engine {
	excluded := make(map[string]bool, len(cfg.ExcludedTypes))
	for _, t := range cfg.ExcludedTypes {
		excluded[t] = true
	}
	fanOut := cfg.FanOut
	if fanOut <= 0 {
		fanOut = DefaultFanOut
	}
	return &Engine{
		registry: registry,
		client:   client,
		region:   cfg.Region,
		usage:    cfg.Usage,
		excluded: excluded,
		fanOut:   fanOut,
	}
}

// ResourceCost estimates one resource's monthly cost. Resource-level
// problems never fail the invocation; they degrade to unknown
// confidence with an explanatory assumption.
func (e *Engine) ResourceCost(ctx context.Context, resource template.ResourceWithID, siblings []template.ResourceWithID) types.MonthlyCost {
	if e.excluded[resource.Type] {
		return types.NewMonthlyCost(decimal.Zero, types.ConfidenceHigh, "excluded by configuration")
	}

	calc, ok := e.registry.Lookup(resource)
	if !ok {
		return types.UnknownCost(fmt.Sprintf("no calculator for %s", resource.Type))
	}

	rctx := &Context{
		Region:   e.region,
		Client:   e.client,
		Usage:    e.usage,
		Siblings: siblings,
	}

	cost, err := calc.CalculateCost(ctx, resource, rctx)
	if err != nil {
		logging.Warn("calculator failed, reporting unknown cost",
			zap.String("logicalId", resource.LogicalID),
			zap.String("type", resource.Type),
			zap.Error(err))
		return types.UnknownCost(fmt.Sprintf("calculation failed for %s: %v", resource.LogicalID, err))
	}
	return cost
}

// CostDelta prices a resource diff. Base and target provide the sibling
// lists for cross-resource dereferencing; the result is assembled by
// logical id, so worker completion order never changes it.
func (e *Engine) CostDelta(ctx context.Context, d *diff.ResourceDiff, base, target *template.Template) (*types.CostDelta, error) {
	baseSiblings := base.ResourceList()
	targetSiblings := target.ResourceList()

	delta := &types.CostDelta{
		Currency:      types.CurrencyUSD,
		AddedCosts:    make([]types.ResourceCost, len(d.Added)),
		RemovedCosts:  make([]types.ResourceCost, len(d.Removed)),
		ModifiedCosts: make([]types.ModifiedResourceCost, len(d.Modified)),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.fanOut)

	for i, res := range d.Added {
		i, res := i, res
		group.Go(func() error {
			delta.AddedCosts[i] = types.ResourceCost{
				LogicalID:   res.LogicalID,
				Type:        res.Type,
				MonthlyCost: e.ResourceCost(groupCtx, res, targetSiblings),
			}
			return nil
		})
	}

	for i, res := range d.Removed {
		i, res := i, res
		group.Go(func() error {
			delta.RemovedCosts[i] = types.ResourceCost{
				LogicalID:   res.LogicalID,
				Type:        res.Type,
				MonthlyCost: e.ResourceCost(groupCtx, res, baseSiblings),
			}
			return nil
		})
	}

	for i, pair := range d.Modified {
		i, pair := i, pair
		group.Go(func() error {
			oldRes := template.ResourceWithID{LogicalID: pair.LogicalID, Type: pair.Type, Properties: pair.OldProperties}
			newRes := template.ResourceWithID{LogicalID: pair.LogicalID, Type: pair.Type, Properties: pair.NewProperties}

			oldCost := e.ResourceCost(groupCtx, oldRes, baseSiblings)
			newCost := e.ResourceCost(groupCtx, newRes, targetSiblings)

			delta.ModifiedCosts[i] = types.ModifiedResourceCost{
				LogicalID:      pair.LogicalID,
				Type:           pair.Type,
				OldMonthlyCost: oldCost,
				NewMonthlyCost: newCost,
				CostDelta:      newCost.Amount.Sub(oldCost.Amount),
				Confidence:     oldCost.Confidence.Lower(newCost.Confidence),
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, c := range delta.AddedCosts {
		total = total.Add(c.MonthlyCost.Amount)
	}
	for _, c := range delta.RemovedCosts {
		total = total.Sub(c.MonthlyCost.Amount)
	}
	for _, c := range delta.ModifiedCosts {
		total = total.Add(c.CostDelta)
	}
	delta.TotalDelta = total

	return delta, nil
}
