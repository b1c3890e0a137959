package cost

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdk-cost/core/diff"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

// flatRateCalculator prices one resource type at a fixed monthly rate
// scaled by a Count property.
type flatRateCalculator struct {
	resourceType string
	monthlyRate  float64
	confidence   types.Confidence
}

func (c *flatRateCalculator) Supports(resourceType string) bool {
	return resourceType == c.resourceType
}

func (c *flatRateCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *Context) (types.MonthlyCost, error) {
	count := resource.FloatProp(1, "Count")
	amount := decimal.NewFromFloat(c.monthlyRate).Mul(decimal.NewFromFloat(count))
	return types.NewMonthlyCost(amount, c.confidence, "flat rate"), nil
}

func newTestEngine(calcs ...Calculator) *Engine {
	registry := NewRegistry()
	registry.Register(calcs...)
	return NewEngine(registry, nil, EngineConfig{Region: "eu-central-1"})
}

func mustTemplate(t *testing.T, doc string) *template.Template {
	t.Helper()
	parsed, err := template.Parse(doc)
	require.NoError(t, err)
	return parsed
}

func TestCostDeltaAddedRemovedModified(t *testing.T) {
	engine := newTestEngine(&flatRateCalculator{
		resourceType: "AWS::EC2::Instance",
		monthlyRate:  10,
		confidence:   types.ConfidenceHigh,
	})

	base := mustTemplate(t, `{
		"Resources": {
			"Keep": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 1}},
			"Gone": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 2}}
		}
	}`)
	target := mustTemplate(t, `{
		"Resources": {
			"Keep": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 3}},
			"New":  {"Type": "AWS::EC2::Instance", "Properties": {"Count": 5}}
		}
	}`)

	d := diff.NewDiffer().Diff(base, target)
	delta, err := engine.CostDelta(context.Background(), d, base, target)
	require.NoError(t, err)

	require.Len(t, delta.AddedCosts, 1)
	require.Len(t, delta.RemovedCosts, 1)
	require.Len(t, delta.ModifiedCosts, 1)

	assert.Equal(t, "New", delta.AddedCosts[0].LogicalID)
	assert.InDelta(t, 50, delta.AddedCosts[0].MonthlyCost.Amount.InexactFloat64(), 0.001)

	assert.Equal(t, "Gone", delta.RemovedCosts[0].LogicalID)
	assert.InDelta(t, 20, delta.RemovedCosts[0].MonthlyCost.Amount.InexactFloat64(), 0.001)

	mod := delta.ModifiedCosts[0]
	assert.Equal(t, "Keep", mod.LogicalID)
	assert.InDelta(t, 20, mod.CostDelta.InexactFloat64(), 0.001)

	// total = added - removed + modified deltas
	assert.InDelta(t, 50-20+20, delta.TotalDelta.InexactFloat64(), 0.005)
}

func TestCostDeltaTotalConsistency(t *testing.T) {
	engine := newTestEngine(&flatRateCalculator{
		resourceType: "AWS::EC2::Instance",
		monthlyRate:  7.37,
		confidence:   types.ConfidenceHigh,
	})

	base := mustTemplate(t, `{
		"Resources": {
			"A": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 2}},
			"B": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 4}}
		}
	}`)
	target := mustTemplate(t, `{
		"Resources": {
			"A": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 9}},
			"C": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 1}}
		}
	}`)

	d := diff.NewDiffer().Diff(base, target)
	delta, err := engine.CostDelta(context.Background(), d, base, target)
	require.NoError(t, err)

	recomputed := decimal.Zero
	for _, c := range delta.AddedCosts {
		recomputed = recomputed.Add(c.MonthlyCost.Amount)
	}
	for _, c := range delta.RemovedCosts {
		recomputed = recomputed.Sub(c.MonthlyCost.Amount)
	}
	for _, c := range delta.ModifiedCosts {
		recomputed = recomputed.Add(c.CostDelta)
	}
	assert.True(t, delta.TotalDelta.Sub(recomputed).Abs().LessThan(decimal.NewFromFloat(0.005)),
		"total %s drifted from component sum %s", delta.TotalDelta, recomputed)
}

func TestCostDeltaDeterministic(t *testing.T) {
	engine := newTestEngine(&flatRateCalculator{
		resourceType: "AWS::EC2::Instance",
		monthlyRate:  3.14,
		confidence:   types.ConfidenceMedium,
	})

	base := mustTemplate(t, `{
		"Resources": {
			"A": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 1}},
			"B": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 2}},
			"C": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 3}},
			"D": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 4}}
		}
	}`)
	target := mustTemplate(t, `{
		"Resources": {
			"A": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 4}},
			"B": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 3}},
			"E": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 2}},
			"F": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 1}}
		}
	}`)

	d := diff.NewDiffer().Diff(base, target)

	first, err := engine.CostDelta(context.Background(), d, base, target)
	require.NoError(t, err)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := engine.CostDelta(context.Background(), d, base, target)
		require.NoError(t, err)
		againJSON, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(firstJSON), string(againJSON))
	}
}

func TestResourceCostUnknownType(t *testing.T) {
	engine := newTestEngine()

	got := engine.ResourceCost(context.Background(), template.ResourceWithID{
		LogicalID:  "Mystery",
		Type:       "AWS::SageMaker::Endpoint",
		Properties: map[string]interface{}{},
	}, nil)

	assert.True(t, got.Amount.IsZero())
	assert.Equal(t, types.ConfidenceUnknown, got.Confidence)
	require.NotEmpty(t, got.Assumptions)
	assert.Equal(t, "no calculator for AWS::SageMaker::Endpoint", got.Assumptions[0])
}

func TestResourceCostExcludedType(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&flatRateCalculator{
		resourceType: "AWS::EC2::Instance",
		monthlyRate:  100,
		confidence:   types.ConfidenceHigh,
	})
	engine := NewEngine(registry, nil, EngineConfig{
		Region:        "eu-central-1",
		ExcludedTypes: []string{"AWS::EC2::Instance"},
	})

	got := engine.ResourceCost(context.Background(), template.ResourceWithID{
		LogicalID:  "Web",
		Type:       "AWS::EC2::Instance",
		Properties: map[string]interface{}{"Count": 5},
	}, nil)

	// Exclusion wins over the registered calculator
	assert.True(t, got.Amount.IsZero())
	assert.Equal(t, types.ConfidenceHigh, got.Confidence)
	assert.Equal(t, []string{"excluded by configuration"}, got.Assumptions)
}

func TestModifiedConfidenceTakesWeakerSide(t *testing.T) {
	// Odd counts price at low confidence, even at high, so a 1 -> 2
	// modification must report low.
	registry := NewRegistry()
	registry.Register(&parityConfidenceCalculator{})
	engine := NewEngine(registry, nil, EngineConfig{Region: "eu-central-1"})

	base := mustTemplate(t, `{
		"Resources": {"R": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 1}}}
	}`)
	target := mustTemplate(t, `{
		"Resources": {"R": {"Type": "AWS::EC2::Instance", "Properties": {"Count": 2}}}
	}`)

	d := diff.NewDiffer().Diff(base, target)
	delta, err := engine.CostDelta(context.Background(), d, base, target)
	require.NoError(t, err)

	require.Len(t, delta.ModifiedCosts, 1)
	assert.Equal(t, types.ConfidenceLow, delta.ModifiedCosts[0].Confidence)
}

type parityConfidenceCalculator struct{}

func (c *parityConfidenceCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::EC2::Instance"
}

func (c *parityConfidenceCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *Context) (types.MonthlyCost, error) {
	count := int(resource.FloatProp(1, "Count"))
	confidence := types.ConfidenceHigh
	if count%2 == 1 {
		confidence = types.ConfidenceLow
	}
	return types.NewMonthlyCost(decimal.NewFromInt(int64(count)), confidence, "parity"), nil
}

// concurrencyProbe records peak simultaneous CalculateCost calls.
type concurrencyProbe struct {
	mu     sync.Mutex
	active int
	peak   int
}

func (c *concurrencyProbe) Supports(resourceType string) bool { return true }

func (c *concurrencyProbe) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *Context) (types.MonthlyCost, error) {
	c.mu.Lock()
	c.active++
	if c.active > c.peak {
		c.peak = c.active
	}
	c.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	c.mu.Lock()
	c.active--
	c.mu.Unlock()
	return types.NewMonthlyCost(decimal.NewFromInt(1), types.ConfidenceHigh, "probe"), nil
}

func TestCostDeltaFanOutBounded(t *testing.T) {
	probe := &concurrencyProbe{}
	registry := NewRegistry()
	registry.Register(probe)
	engine := NewEngine(registry, nil, EngineConfig{Region: "eu-central-1", FanOut: 3})

	resources := map[string]interface{}{}
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		resources[id] = map[string]interface{}{
			"Type":       "AWS::EC2::Instance",
			"Properties": map[string]interface{}{},
		}
	}
	doc, err := json.Marshal(map[string]interface{}{"Resources": resources})
	require.NoError(t, err)

	base := mustTemplate(t, `{"Resources": {}}`)
	target := mustTemplate(t, string(doc))

	d := diff.NewDiffer().Diff(base, target)
	_, err = engine.CostDelta(context.Background(), d, base, target)
	require.NoError(t, err)

	assert.LessOrEqual(t, probe.peak, 3)
	assert.Greater(t, probe.peak, 0)
}

func TestCostDeltaEmptyDiff(t *testing.T) {
	engine := newTestEngine()

	base := mustTemplate(t, `{"Resources": {"A": {"Type": "AWS::S3::Bucket", "Properties": {}}}}`)

	d := diff.NewDiffer().Diff(base, base)
	delta, err := engine.CostDelta(context.Background(), d, base, base)
	require.NoError(t, err)

	assert.True(t, delta.IsEmpty())
	assert.Equal(t, types.CurrencyUSD, delta.Currency)
}
