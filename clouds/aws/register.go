package aws

import (
	"cdk-cost/clouds/aws/cdn"
	"cdk-cost/clouds/aws/compute"
	"cdk-cost/clouds/aws/containers"
	"cdk-cost/clouds/aws/database"
	"cdk-cost/clouds/aws/dns"
	"cdk-cost/clouds/aws/messaging"
	"cdk-cost/clouds/aws/networking"
	"cdk-cost/clouds/aws/observability"
	"cdk-cost/clouds/aws/security"
	"cdk-cost/clouds/aws/serverless"
	"cdk-cost/clouds/aws/storage"
	"cdk-cost/core/cost"
)

// Calculators returns every AWS calculator in registration order. The
// free-resource calculator runs last so a billable type with its own
// calculator always wins.
func Calculators() []cost.Calculator {
	return []cost.Calculator{
		compute.NewEC2Calculator(),
		compute.NewASGCalculator(),
		storage.NewEBSCalculator(),
		storage.NewS3Calculator(),
		database.NewRDSCalculator(),
		database.NewDynamoDBCalculator(),
		database.NewElastiCacheCalculator(),
		serverless.NewLambdaCalculator(),
		networking.NewNATGatewayCalculator(),
		networking.NewLoadBalancerCalculator(),
		networking.NewVPCEndpointCalculator(),
		containers.NewEKSCalculator(),
		containers.NewECRCalculator(),
		messaging.NewSQSCalculator(),
		messaging.NewSNSCalculator(),
		observability.NewCloudWatchLogsCalculator(),
		security.NewSecretsManagerCalculator(),
		security.NewKMSCalculator(),
		cdn.NewCloudFrontCalculator(),
		dns.NewRoute53Calculator(),
		NewFreeResourceCalculator(),
	}
}
