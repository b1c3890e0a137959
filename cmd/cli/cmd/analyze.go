// Package cmd - analyze command
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cdk-cost/clouds/aws"
	"cdk-cost/core/cost"
	"cdk-cost/core/diff"
	"cdk-cost/core/output"
	"cdk-cost/core/pricing"
	"cdk-cost/core/template"
	"cdk-cost/core/threshold"
	"cdk-cost/internal/config"
	"cdk-cost/internal/errors"
	"cdk-cost/internal/logging"
)

var (
	regionFlag      string
	formatFlag      string
	environmentFlag string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <base-template> <target-template>",
	Short: "Estimate the monthly cost delta between two templates",
	Long: `Parse both templates, diff their resources, price the changes
against the AWS pricing catalog, and render the delta.

Exit code 1 signals an input or parse failure, or a breached error
threshold.

Examples:
  cdk-cost analyze base.json target.json
  cdk-cost analyze --format json base.yml target.yml
  cdk-cost analyze --env production base.json target.json`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&regionFlag, "region", "r", "", "AWS region to price in (default from config, else eu-central-1)")
	analyzeCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "output format (text, json, markdown)")
	analyzeCmd.Flags().StringVarP(&environmentFlag, "env", "e", "", "environment name for threshold scoping")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if regionFlag != "" {
		cfg.Region = regionFlag
	}
	if formatFlag != "" {
		cfg.Format = formatFlag
	}

	base, err := readTemplate(args[0])
	if err != nil {
		return err
	}
	target, err := readTemplate(args[1])
	if err != nil {
		return err
	}

	started := time.Now()
	resourceDiff := diff.NewDiffer().Diff(base, target)

	engine, client, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	delta, err := engine.CostDelta(ctx, resourceDiff, base, target)
	if err != nil {
		return err
	}

	result := threshold.NewEvaluator(cfg.Thresholds).Evaluate(delta, environmentFlag)

	logging.Debug("analysis complete",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("added", len(delta.AddedCosts)),
		zap.Int("removed", len(delta.RemovedCosts)),
		zap.Int("modified", len(delta.ModifiedCosts)))

	reporter, err := output.NewReporter(output.Format(cfg.Format))
	if err != nil {
		return err
	}

	report, err := reporter.Render(delta, output.Options{
		Config: &output.ConfigSummary{
			Region:                cfg.Region,
			Environment:           environmentFlag,
			ExcludedResourceTypes: cfg.ExcludedResourceTypes,
			CacheEnabled:          cfg.Cache.Enabled,
		},
		Threshold: &result,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report)

	if !result.Passed {
		return errors.New(errors.TypeThreshold, result.Message)
	}
	return nil
}

// readTemplate loads and parses one template file.
func readTemplate(path string) (*template.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "reading template %s", path)
	}
	parsed, err := template.Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(errors.TypeParse, err, "parsing template %s", path)
	}
	return parsed, nil
}

// buildEngine wires the calculator registry and catalog client from
// the loaded configuration.
func buildEngine(ctx context.Context, cfg *config.Config) (*cost.Engine, pricing.Client, error) {
	registry := cost.NewRegistry()
	registry.Register(aws.Calculators()...)

	cacheDir := ""
	if cfg.Cache.Enabled {
		cacheDir = cfg.Cache.Directory
	}
	client, err := pricing.NewCatalogClient(ctx, pricing.ClientConfig{
		CacheDir: cacheDir,
		CacheTTL: time.Duration(cfg.Cache.TTLHours) * time.Hour,
	})
	if err != nil {
		return nil, nil, err
	}

	engine := cost.NewEngine(registry, client, cost.EngineConfig{
		Region:        cfg.Region,
		Usage:         cfg.UsageAssumptions,
		ExcludedTypes: cfg.ExcludedResourceTypes,
	})
	return engine, client, nil
}
