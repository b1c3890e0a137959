package serverless

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdk-cost/core/cost"
	"cdk-cost/core/pricing"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

// stubClient answers usagetype-keyed queries from a fixed table.
type stubClient struct {
	prices map[string]float64
	calls  []pricing.PriceQueryParams
}

func (s *stubClient) GetPrice(ctx context.Context, params pricing.PriceQueryParams) (*float64, error) {
	s.calls = append(s.calls, params)
	for _, f := range params.Filters {
		if f.Field != "usagetype" {
			continue
		}
		if v, ok := s.prices[f.Value]; ok {
			return &v, nil
		}
	}
	return nil, nil
}

func (s *stubClient) Close() {}

func lambdaResource(props map[string]interface{}) template.ResourceWithID {
	return template.ResourceWithID{
		LogicalID:  "Fn",
		Type:       "AWS::Lambda::Function",
		Properties: props,
	}
}

func TestLambdaCalculatorCatalogRates(t *testing.T) {
	client := &stubClient{prices: map[string]float64{
		"EUC1-Request":          0.0000002,
		"EUC1-Lambda-GB-Second": 0.0000166667,
	}}
	calc := NewLambdaCalculator()
	rctx := &cost.Context{Region: "eu-central-1", Client: client}

	got, err := calc.CalculateCost(context.Background(),
		lambdaResource(map[string]interface{}{"MemorySize": float64(512)}), rctx)
	require.NoError(t, err)

	// 1M invocations, 200 ms, 512 MB: 100,000 GB-seconds
	wantRequests := 0.0000002 * 1_000_000
	wantDuration := 0.0000166667 * 100_000
	assert.InDelta(t, wantRequests+wantDuration, got.Amount.InexactFloat64(), 0.001)
	assert.Equal(t, types.ConfidenceMedium, got.Confidence)
}

func TestLambdaCalculatorARMUsesARMUsageType(t *testing.T) {
	client := &stubClient{prices: map[string]float64{
		"EUC1-Request":              0.0000002,
		"EUC1-Lambda-GB-Second-ARM": 0.0000133334,
	}}
	calc := NewLambdaCalculator()
	rctx := &cost.Context{Region: "eu-central-1", Client: client}

	got, err := calc.CalculateCost(context.Background(),
		lambdaResource(map[string]interface{}{
			"MemorySize":    float64(1024),
			"Architectures": []interface{}{"arm64"},
		}), rctx)
	require.NoError(t, err)

	var sawARM bool
	for _, call := range client.calls {
		for _, f := range call.Filters {
			if f.Field == "usagetype" && f.Value == "EUC1-Lambda-GB-Second-ARM" {
				sawARM = true
			}
		}
	}
	assert.True(t, sawARM, "expected a query for the ARM duration usagetype")
	assert.Equal(t, types.ConfidenceMedium, got.Confidence)
}

func TestLambdaCalculatorUsageOverrides(t *testing.T) {
	client := &stubClient{prices: map[string]float64{
		"EUC1-Request":          0.0000002,
		"EUC1-Lambda-GB-Second": 0.0000166667,
	}}
	calc := NewLambdaCalculator()
	rctx := &cost.Context{
		Region: "eu-central-1",
		Client: client,
		Usage: types.UsageAssumptions{
			Lambda: types.LambdaUsage{InvocationsPerMonth: 10_000_000, AvgDurationMs: 500},
		},
	}

	got, err := calc.CalculateCost(context.Background(),
		lambdaResource(map[string]interface{}{"MemorySize": float64(256)}), rctx)
	require.NoError(t, err)

	// 10M invocations, 500 ms, 256 MB: 1,250,000 GB-seconds
	wantRequests := 0.0000002 * 10_000_000
	wantDuration := 0.0000166667 * 1_250_000
	assert.InDelta(t, wantRequests+wantDuration, got.Amount.InexactFloat64(), 0.01)
	assert.Contains(t, got.Assumptions[0], "10000000 invocations")
}

func TestLambdaCalculatorFallbackLowersConfidence(t *testing.T) {
	client := &stubClient{prices: map[string]float64{}}
	calc := NewLambdaCalculator()
	rctx := &cost.Context{Region: "eu-central-1", Client: client}

	got, err := calc.CalculateCost(context.Background(),
		lambdaResource(map[string]interface{}{}), rctx)
	require.NoError(t, err)

	assert.Equal(t, types.ConfidenceLow, got.Confidence)
	assert.Contains(t, got.Assumptions[0], "fallback price")
	// Default memory is the CloudFormation default of 128 MB
	assert.Contains(t, got.Assumptions[0], "128 MB")
}
