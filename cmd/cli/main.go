// Package main is the entry point for the cdk-cost CLI.
package main

import (
	"os"

	"cdk-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
