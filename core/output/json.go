// Package output - JSON renderer
package output

import (
	"bytes"
	"encoding/json"

	"cdk-cost/core/threshold"
	"cdk-cost/core/types"
	"cdk-cost/internal/errors"
)

// JSONReporter serializes the delta plus decorations
type JSONReporter struct{}

// jsonReport fixes the top-level key order: delta fields first, then
// the optional decorations.
type jsonReport struct {
	types.CostDelta
	ConfigSummary   *ConfigSummary     `json:"configSummary,omitempty"`
	ThresholdStatus *threshold.Result  `json:"thresholdStatus,omitempty"`
	Stacks          []types.StackDelta `json:"stacks,omitempty"`
}

// Render produces two-space-indented JSON. Struct tags keep the key
// order stable across runs.
func (r *JSONReporter) Render(delta *types.CostDelta, opts Options) (string, error) {
	report := jsonReport{
		CostDelta:       *delta,
		ConfigSummary:   opts.Config,
		ThresholdStatus: opts.Threshold,
		Stacks:          opts.Stacks,
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", errors.Wrap(errors.TypeInternal, "encoding JSON report", err)
	}
	return buf.String(), nil
}
