// Package threshold evaluates a cost delta against configured spending
// limits and derives recommendations from the largest cost drivers.
package threshold

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"cdk-cost/core/types"
)

// Level classifies a threshold outcome
type Level string

const (
	// LevelNone means no threshold was configured
	LevelNone Level = "none"

	// LevelWarning means the warning threshold was met or exceeded
	LevelWarning Level = "warning"

	// LevelError means the error threshold was met or exceeded
	LevelError Level = "error"
)

// Limits holds a warning/error threshold pair in USD per month. A nil
// value means the limit is not configured.
type Limits struct {
	// Warning threshold in USD/month
	Warning *float64 `json:"warning,omitempty" mapstructure:"warning"`

	// Error threshold in USD/month
	Error *float64 `json:"error,omitempty" mapstructure:"error"`
}

// Config holds global limits plus optional per-environment overrides
type Config struct {
	// Warning is the global warning threshold
	Warning *float64 `json:"warning,omitempty" mapstructure:"warning"`

	// Error is the global error threshold
	Error *float64 `json:"error,omitempty" mapstructure:"error"`

	// PerEnvironment maps environment names to scoped limits
	PerEnvironment map[string]Limits `json:"perEnvironment,omitempty" mapstructure:"perEnvironment"`
}

// Result is a threshold evaluation outcome
type Result struct {
	// Passed is false only when the error threshold was breached
	Passed bool `json:"passed"`

	// Level is the severity of the outcome
	Level Level `json:"level"`

	// Threshold is the limit that was compared against, when one applied
	Threshold *float64 `json:"threshold,omitempty"`

	// Delta is the evaluated total monthly delta
	Delta decimal.Decimal `json:"delta"`

	// Message is a one-line human summary
	Message string `json:"message"`

	// Recommendations suggest mitigations for the top cost drivers
	Recommendations []string `json:"recommendations,omitempty"`
}

// Evaluator compares cost deltas to configured limits
type Evaluator struct {
	config Config
}

// NewEvaluator creates an evaluator over a threshold configuration
func NewEvaluator(config Config) *Evaluator {
	return &Evaluator{config: config}
}

// limitsFor selects environment-scoped limits when the environment has
// an entry, otherwise the global limits.
func (e *Evaluator) limitsFor(environment string) Limits {
	if environment != "" {
		if scoped, ok := e.config.PerEnvironment[environment]; ok {
			return scoped
		}
	}
	return Limits{Warning: e.config.Warning, Error: e.config.Error}
}

// Evaluate compares the delta total against the limits selected for the
// environment. Breaching the error limit fails the evaluation; the
// warning limit only flags it.
func (e *Evaluator) Evaluate(delta *types.CostDelta, environment string) Result {
	limits := e.limitsFor(environment)
	total := delta.TotalDelta

	if limits.Error != nil && total.GreaterThanOrEqual(decimal.NewFromFloat(*limits.Error)) {
		return Result{
			Passed:    false,
			Level:     LevelError,
			Threshold: limits.Error,
			Delta:     total,
			Message: fmt.Sprintf("EXCEEDED: monthly cost delta $%s is over the error threshold $%.2f",
				total.StringFixed(2), *limits.Error),
			Recommendations: Recommendations(delta),
		}
	}

	if limits.Warning != nil && total.GreaterThanOrEqual(decimal.NewFromFloat(*limits.Warning)) {
		return Result{
			Passed:    true,
			Level:     LevelWarning,
			Threshold: limits.Warning,
			Delta:     total,
			Message: fmt.Sprintf("monthly cost delta $%s exceeds the warning threshold $%.2f",
				total.StringFixed(2), *limits.Warning),
			Recommendations: Recommendations(delta),
		}
	}

	return Result{
		Passed:  true,
		Level:   LevelNone,
		Delta:   total,
		Message: fmt.Sprintf("monthly cost delta $%s is within configured thresholds", total.StringFixed(2)),
	}
}

// driver is one cost-increasing entry of the delta
type driver struct {
	logicalID string
	resType   string
	amount    decimal.Decimal
}

// Recommendations derives suggestions from the top three cost drivers,
// largest first.
func Recommendations(delta *types.CostDelta) []string {
	var drivers []driver
	for _, c := range delta.AddedCosts {
		if c.MonthlyCost.Amount.IsPositive() {
			drivers = append(drivers, driver{c.LogicalID, c.Type, c.MonthlyCost.Amount})
		}
	}
	for _, c := range delta.ModifiedCosts {
		if c.CostDelta.IsPositive() {
			drivers = append(drivers, driver{c.LogicalID, c.Type, c.CostDelta})
		}
	}

	sort.Slice(drivers, func(i, j int) bool {
		if !drivers[i].amount.Equal(drivers[j].amount) {
			return drivers[i].amount.GreaterThan(drivers[j].amount)
		}
		return drivers[i].logicalID < drivers[j].logicalID
	})
	if len(drivers) > 3 {
		drivers = drivers[:3]
	}

	recommendations := make([]string, 0, len(drivers))
	for _, d := range drivers {
		recommendations = append(recommendations, recommendationFor(d))
	}
	return recommendations
}

// recommendationFor phrases a per-type mitigation for one driver.
func recommendationFor(d driver) string {
	prefix := fmt.Sprintf("%s (%s) adds $%s/month", d.logicalID, d.resType, d.amount.StringFixed(2))
	switch d.resType {
	case "AWS::EC2::Instance", "AWS::AutoScaling::AutoScalingGroup":
		return prefix + "; consider a smaller instance type or fewer instances"
	case "AWS::RDS::DBInstance":
		return prefix + "; consider a smaller instance class or Single-AZ for non-production"
	case "AWS::ElastiCache::CacheCluster":
		return prefix + "; consider a smaller cache node type"
	case "AWS::EC2::NatGateway":
		return prefix + "; consider sharing a NAT gateway across subnets"
	case "AWS::DynamoDB::Table":
		return prefix + "; consider on-demand capacity or lower provisioned throughput"
	case "AWS::EKS::Cluster":
		return prefix + "; consider consolidating workloads onto fewer clusters"
	default:
		return prefix + "; review whether this capacity is required"
	}
}
