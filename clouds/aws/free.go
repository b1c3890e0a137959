// Package aws - Calculator registry and zero-cost resource handling
package aws

import (
	"context"

	"github.com/shopspring/decimal"

	"cdk-cost/core/cost"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

// freeResourceTypes lists CloudFormation types that carry no direct
// monthly charge. They are priced at $0 with high confidence so they
// never surface as unknowns in a report.
var freeResourceTypes = map[string]bool{
	"AWS::IAM::Role":                          true,
	"AWS::IAM::Policy":                        true,
	"AWS::IAM::ManagedPolicy":                 true,
	"AWS::IAM::InstanceProfile":               true,
	"AWS::IAM::User":                          true,
	"AWS::IAM::Group":                         true,
	"AWS::EC2::SecurityGroup":                 true,
	"AWS::EC2::SecurityGroupIngress":          true,
	"AWS::EC2::SecurityGroupEgress":           true,
	"AWS::EC2::VPC":                           true,
	"AWS::EC2::Subnet":                        true,
	"AWS::EC2::RouteTable":                    true,
	"AWS::EC2::Route":                         true,
	"AWS::EC2::SubnetRouteTableAssociation":   true,
	"AWS::EC2::InternetGateway":               true,
	"AWS::EC2::VPCGatewayAttachment":          true,
	"AWS::EC2::EIP":                           true,
	"AWS::EC2::LaunchTemplate":                true,
	"AWS::AutoScaling::LaunchConfiguration":   true,
	"AWS::S3::BucketPolicy":                   true,
	"AWS::SQS::QueuePolicy":                   true,
	"AWS::SNS::TopicPolicy":                   true,
	"AWS::SNS::Subscription":                  true,
	"AWS::Lambda::Permission":                 true,
	"AWS::Lambda::EventSourceMapping":         true,
	"AWS::CloudFormation::Stack":              true,
	"AWS::CloudFormation::WaitConditionHandle": true,
	"AWS::CDK::Metadata":                      true,
	"AWS::ElasticLoadBalancingV2::TargetGroup": true,
	"AWS::ElasticLoadBalancingV2::Listener":    true,
	"AWS::ElasticLoadBalancingV2::ListenerRule": true,
	"AWS::RDS::DBSubnetGroup":                 true,
	"AWS::RDS::DBParameterGroup":              true,
	"AWS::ElastiCache::SubnetGroup":           true,
	"AWS::ElastiCache::ParameterGroup":        true,
	"AWS::Route53::RecordSet":                 true,
	"AWS::KMS::Alias":                         true,
	"AWS::SecretsManager::SecretTargetAttachment": true,
	"AWS::SSM::Parameter":                     true,
	"AWS::Events::Rule":                       true,
	"AWS::ApplicationAutoScaling::ScalableTarget": true,
	"AWS::ApplicationAutoScaling::ScalingPolicy":  true,
	"AWS::AutoScaling::ScalingPolicy":         true,
	"AWS::Logs::LogStream":                    true,
	"AWS::Logs::MetricFilter":                 true,
}

// FreeResourceCalculator short-circuits known no-charge types to $0
type FreeResourceCalculator struct{}

// NewFreeResourceCalculator creates a free-resource calculator
func NewFreeResourceCalculator() *FreeResourceCalculator {
	return &FreeResourceCalculator{}
}

// Supports reports whether the type carries no direct charge
func (c *FreeResourceCalculator) Supports(resourceType string) bool {
	return freeResourceTypes[resourceType]
}

// CalculateCost returns $0 at high confidence
func (c *FreeResourceCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	return types.NewMonthlyCost(decimal.Zero, types.ConfidenceHigh,
		"no direct charge for "+resource.Type), nil
}
