// Package output - Markdown renderer for PR comments
package output

import (
	"fmt"
	"strings"

	"cdk-cost/core/threshold"
	"cdk-cost/core/types"
)

// MarkdownReporter renders a pull-request-ready Markdown report
type MarkdownReporter struct{}

// Render produces the Markdown report. Empty sections are omitted; an
// empty delta collapses to the title plus a single line.
func (r *MarkdownReporter) Render(delta *types.CostDelta, opts Options) (string, error) {
	var b strings.Builder

	b.WriteString("# Cost Impact Analysis\n\n")

	if delta.IsEmpty() && len(opts.Stacks) == 0 {
		b.WriteString(noChangesLine + "\n")
		return b.String(), nil
	}

	fmt.Fprintf(&b, "**Monthly cost delta: %s**\n", formatSigned(delta.TotalDelta))

	if opts.Threshold != nil && opts.Threshold.Level != threshold.LevelNone {
		heading := "## :warning: Threshold Warning"
		if opts.Threshold.Level == threshold.LevelError {
			heading = "## :x: Threshold Exceeded"
		}
		fmt.Fprintf(&b, "\n%s\n\n%s\n", heading, opts.Threshold.Message)
		if len(opts.Threshold.Recommendations) > 0 {
			b.WriteString("\n")
			for _, rec := range opts.Threshold.Recommendations {
				fmt.Fprintf(&b, "- %s\n", rec)
			}
		}
	}

	writeResourceTable(&b, "## Added Resources", sortedByAmount(delta.AddedCosts))
	writeResourceTable(&b, "## Removed Resources", sortedByAmount(delta.RemovedCosts))

	if len(delta.ModifiedCosts) > 0 {
		b.WriteString("\n## Modified Resources\n\n")
		b.WriteString("| Logical ID | Type | Old | New | Delta |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, c := range sortedByDeltaMagnitude(delta.ModifiedCosts) {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				c.LogicalID, c.Type,
				formatAmount(c.OldMonthlyCost.Amount),
				formatAmount(c.NewMonthlyCost.Amount),
				formatSigned(c.CostDelta))
		}
	}

	if top := topContributors(delta, 5); len(top) > 0 {
		b.WriteString("\n## Top Cost Contributors\n\n")
		b.WriteString("| Logical ID | Type | Monthly Cost |\n")
		b.WriteString("|---|---|---|\n")
		for _, c := range top {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", c.LogicalID, c.Type, formatAmount(c.Amount))
		}
	}

	if len(opts.Stacks) > 0 {
		writeStackBreakdown(&b, opts.Stacks)
	}

	if opts.Config != nil {
		b.WriteString("\n<details>\n<summary>Configuration</summary>\n\n")
		fmt.Fprintf(&b, "- Region: `%s`\n", opts.Config.Region)
		if opts.Config.Environment != "" {
			fmt.Fprintf(&b, "- Environment: `%s`\n", opts.Config.Environment)
		}
		if len(opts.Config.ExcludedResourceTypes) > 0 {
			fmt.Fprintf(&b, "- Excluded types: `%s`\n", strings.Join(opts.Config.ExcludedResourceTypes, "`, `"))
		}
		fmt.Fprintf(&b, "- Cache: %s\n", enabledWord(opts.Config.CacheEnabled))
		b.WriteString("\n</details>\n")
	}

	return b.String(), nil
}

// writeResourceTable emits one per-section table, skipped when empty.
func writeResourceTable(b *strings.Builder, heading string, costs []types.ResourceCost) {
	if len(costs) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n\n", heading)
	b.WriteString("| Logical ID | Type | Monthly Cost |\n")
	b.WriteString("|---|---|---|\n")
	for _, c := range costs {
		fmt.Fprintf(b, "| %s | %s | %s [%s] |\n",
			c.LogicalID, c.Type, formatAmount(c.MonthlyCost.Amount), c.MonthlyCost.Confidence)
	}
}

// writeStackBreakdown emits the per-stack summary table plus a
// collapsible detail section.
func writeStackBreakdown(b *strings.Builder, stacks []types.StackDelta) {
	b.WriteString("\n## Per-Stack Costs\n\n")
	b.WriteString("| Stack | Monthly Delta |\n")
	b.WriteString("|---|---|\n")
	for _, s := range stacks {
		fmt.Fprintf(b, "| %s | %s |\n", s.StackName, formatSigned(s.Delta.TotalDelta))
	}

	b.WriteString("\n<details>\n<summary>Per-stack detail</summary>\n\n")
	for _, s := range stacks {
		fmt.Fprintf(b, "### %s\n\n", s.StackName)
		changes := len(s.Delta.AddedCosts) + len(s.Delta.RemovedCosts) + len(s.Delta.ModifiedCosts)
		fmt.Fprintf(b, "%d changed resource(s), delta %s\n\n", changes, formatSigned(s.Delta.TotalDelta))
	}
	b.WriteString("</details>\n")
}
