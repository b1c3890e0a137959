// Package output - Plain text renderer
package output

import (
	"fmt"
	"strings"

	"cdk-cost/core/threshold"
	"cdk-cost/core/types"
)

// TextReporter renders a sectioned plain-text report
type TextReporter struct{}

// Render produces the text report. Empty sections are omitted; an empty
// delta collapses to a single line.
func (r *TextReporter) Render(delta *types.CostDelta, opts Options) (string, error) {
	if delta.IsEmpty() {
		return noChangesLine + "\n", nil
	}

	var b strings.Builder

	b.WriteString("TOTAL\n")
	fmt.Fprintf(&b, "  Monthly cost delta: %s\n", formatSigned(delta.TotalDelta))

	if opts.Config != nil {
		b.WriteString("\nCONFIGURATION\n")
		fmt.Fprintf(&b, "  Region: %s\n", opts.Config.Region)
		if opts.Config.Environment != "" {
			fmt.Fprintf(&b, "  Environment: %s\n", opts.Config.Environment)
		}
		if len(opts.Config.ExcludedResourceTypes) > 0 {
			fmt.Fprintf(&b, "  Excluded types: %s\n", strings.Join(opts.Config.ExcludedResourceTypes, ", "))
		}
		fmt.Fprintf(&b, "  Cache: %s\n", enabledWord(opts.Config.CacheEnabled))
	}

	if opts.Threshold != nil && opts.Threshold.Level != threshold.LevelNone {
		b.WriteString("\nTHRESHOLD STATUS\n")
		fmt.Fprintf(&b, "  %s\n", opts.Threshold.Message)
		for _, rec := range opts.Threshold.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}

	if len(delta.AddedCosts) > 0 {
		b.WriteString("\nADDED RESOURCES\n")
		for _, c := range sortedByAmount(delta.AddedCosts) {
			fmt.Fprintf(&b, "  + %s (%s) %s [%s]\n",
				c.LogicalID, c.Type, formatAmount(c.MonthlyCost.Amount), c.MonthlyCost.Confidence)
		}
	}

	if len(delta.RemovedCosts) > 0 {
		b.WriteString("\nREMOVED RESOURCES\n")
		for _, c := range sortedByAmount(delta.RemovedCosts) {
			fmt.Fprintf(&b, "  - %s (%s) %s [%s]\n",
				c.LogicalID, c.Type, formatAmount(c.MonthlyCost.Amount), c.MonthlyCost.Confidence)
		}
	}

	if len(delta.ModifiedCosts) > 0 {
		b.WriteString("\nMODIFIED RESOURCES\n")
		for _, c := range sortedByDeltaMagnitude(delta.ModifiedCosts) {
			fmt.Fprintf(&b, "  ~ %s (%s) %s -> %s ( %s ) [%s]\n",
				c.LogicalID, c.Type,
				formatAmount(c.OldMonthlyCost.Amount),
				formatAmount(c.NewMonthlyCost.Amount),
				formatSigned(c.CostDelta),
				c.Confidence)
		}
	}

	return b.String(), nil
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
