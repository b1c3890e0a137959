// Package compute - Auto Scaling group calculator
package compute

import (
	"context"
	"fmt"

	"cdk-cost/core/cost"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

// asgDefaultInstanceType is assumed when the launch template or launch
// configuration cannot be resolved from the sibling list.
const asgDefaultInstanceType = "t3.micro"

// ASGCalculator prices AWS::AutoScaling::AutoScalingGroup resources by
// dereferencing their launch template or launch configuration.
type ASGCalculator struct{}

// NewASGCalculator creates an Auto Scaling group calculator
func NewASGCalculator() *ASGCalculator {
	return &ASGCalculator{}
}

// Supports reports whether the type is an Auto Scaling group
func (c *ASGCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::AutoScaling::AutoScalingGroup"
}

// CalculateCost prices desired-capacity instances of the referenced
// launch template's instance type.
func (c *ASGCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	count := resource.FloatProp(0, "DesiredCapacity")
	if count == 0 {
		count = resource.FloatProp(1, "MinSize")
	}

	instanceType, resolved := c.resolveInstanceType(resource, rctx)

	confidence := types.ConfidenceMedium
	resolution := fmt.Sprintf("instance type %s from launch template", instanceType)
	if !resolved {
		confidence = types.ConfidenceLow
		resolution = fmt.Sprintf("launch template not found, assuming %s", instanceType)
	}

	hourly, err := instanceHourlyRate(ctx, rctx, instanceType)
	if err != nil {
		return types.MonthlyCost{}, err
	}

	rate := ec2FallbackHourly
	if hourly != nil {
		rate = *hourly
	} else {
		confidence = types.ConfidenceLow
		resolution += fmt.Sprintf(", fallback $%.4f/hour", ec2FallbackHourly)
	}

	monthly := monthlyInstanceCost(rate, count)
	return types.NewMonthlyCost(monthly, confidence,
		fmt.Sprintf("AutoScaling: %.0f x %s at $%.4f/hour (%s)", count, instanceType, rate, resolution)), nil
}

// resolveInstanceType walks the group's launch template or launch
// configuration reference through the sibling list.
func (c *ASGCalculator) resolveInstanceType(resource template.ResourceWithID, rctx *cost.Context) (string, bool) {
	refs := []string{
		resource.RefTarget("LaunchTemplate", "LaunchTemplateId"),
		resource.RefTarget("LaunchTemplate", "LaunchTemplateName"),
		resource.RefTarget("LaunchConfigurationName"),
	}

	for _, ref := range refs {
		if ref == "" {
			continue
		}
		sibling, ok := rctx.Sibling(ref)
		if !ok {
			continue
		}
		switch sibling.Type {
		case "AWS::EC2::LaunchTemplate":
			if it := sibling.StringProp("LaunchTemplateData", "InstanceType"); it != "" {
				return it, true
			}
		case "AWS::AutoScaling::LaunchConfiguration":
			if it := sibling.StringProp("InstanceType"); it != "" {
				return it, true
			}
		}
	}

	return asgDefaultInstanceType, false
}
