// Package cmd provides the CLI commands for cdk-cost.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cdk-cost/internal/logging"
)

var cfgFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cdk-cost",
	Short: "Estimate the monthly cost impact of CloudFormation changes",
	Long: `cdk-cost compares two CloudFormation templates and estimates the
monthly cost impact of the change, checking configurable spending
thresholds for CI pipelines.

Examples:
  cdk-cost analyze base.json target.json
  cdk-cost analyze --format markdown --env production base.yml target.yml
  cdk-cost analyze --region us-east-1 base.json target.json`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default discovers .cdk-cost-analyzer.{yml,yaml,json} upward from the working directory)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("cdk-cost version 0.1.0")
	},
}
