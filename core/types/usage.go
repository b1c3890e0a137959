// Package types - Usage assumption overrides
package types

// UsageAssumptions carries per-service numeric overrides for the usage
// a cost estimate depends on. A zero value means "use the calculator's
// documented default"; defaults live inside each calculator.
type UsageAssumptions struct {
	// Lambda usage overrides
	Lambda LambdaUsage `json:"lambda,omitempty" mapstructure:"lambda"`

	// S3 usage overrides
	S3 S3Usage `json:"s3,omitempty" mapstructure:"s3"`

	// NATGateway usage overrides
	NATGateway NATGatewayUsage `json:"natGateway,omitempty" mapstructure:"natGateway"`

	// DynamoDB usage overrides
	DynamoDB DynamoDBUsage `json:"dynamodb,omitempty" mapstructure:"dynamodb"`

	// SQS usage overrides
	SQS SQSUsage `json:"sqs,omitempty" mapstructure:"sqs"`

	// SNS usage overrides
	SNS SNSUsage `json:"sns,omitempty" mapstructure:"sns"`

	// CloudWatch usage overrides
	CloudWatch CloudWatchUsage `json:"cloudwatch,omitempty" mapstructure:"cloudwatch"`

	// CloudFront usage overrides
	CloudFront CloudFrontUsage `json:"cloudfront,omitempty" mapstructure:"cloudfront"`

	// ECR usage overrides
	ECR ECRUsage `json:"ecr,omitempty" mapstructure:"ecr"`

	// ELB usage overrides
	ELB ELBUsage `json:"elb,omitempty" mapstructure:"elb"`

	// Route53 usage overrides
	Route53 Route53Usage `json:"route53,omitempty" mapstructure:"route53"`

	// KMS usage overrides
	KMS KMSUsage `json:"kms,omitempty" mapstructure:"kms"`

	// Secrets Manager usage overrides
	SecretsManager SecretsManagerUsage `json:"secretsManager,omitempty" mapstructure:"secretsManager"`

	// VPCEndpoint usage overrides
	VPCEndpoint VPCEndpointUsage `json:"vpcEndpoint,omitempty" mapstructure:"vpcEndpoint"`
}

// LambdaUsage overrides Lambda usage defaults
type LambdaUsage struct {
	InvocationsPerMonth float64 `json:"invocationsPerMonth,omitempty" mapstructure:"invocationsPerMonth"`
	AvgDurationMs       float64 `json:"avgDurationMs,omitempty" mapstructure:"avgDurationMs"`
}

// S3Usage overrides S3 usage defaults
type S3Usage struct {
	StorageGB        float64 `json:"storageGB,omitempty" mapstructure:"storageGB"`
	RequestsPerMonth float64 `json:"requestsPerMonth,omitempty" mapstructure:"requestsPerMonth"`
}

// NATGatewayUsage overrides NAT gateway usage defaults
type NATGatewayUsage struct {
	DataProcessedGB float64 `json:"dataProcessedGB,omitempty" mapstructure:"dataProcessedGB"`
}

// DynamoDBUsage overrides DynamoDB usage defaults
type DynamoDBUsage struct {
	StorageGB            float64 `json:"storageGB,omitempty" mapstructure:"storageGB"`
	ReadRequestsPerMonth float64 `json:"readRequestsPerMonth,omitempty" mapstructure:"readRequestsPerMonth"`
	WriteRequestsPerMonth float64 `json:"writeRequestsPerMonth,omitempty" mapstructure:"writeRequestsPerMonth"`
}

// SQSUsage overrides SQS usage defaults
type SQSUsage struct {
	RequestsPerMonth float64 `json:"requestsPerMonth,omitempty" mapstructure:"requestsPerMonth"`
}

// SNSUsage overrides SNS usage defaults
type SNSUsage struct {
	RequestsPerMonth    float64 `json:"requestsPerMonth,omitempty" mapstructure:"requestsPerMonth"`
	SMSMessagesPerMonth float64 `json:"smsMessagesPerMonth,omitempty" mapstructure:"smsMessagesPerMonth"`
}

// CloudWatchUsage overrides CloudWatch usage defaults
type CloudWatchUsage struct {
	IngestedGBPerMonth float64 `json:"ingestedGBPerMonth,omitempty" mapstructure:"ingestedGBPerMonth"`
	StorageGB          float64 `json:"storageGB,omitempty" mapstructure:"storageGB"`
}

// CloudFrontUsage overrides CloudFront usage defaults
type CloudFrontUsage struct {
	TransferOutGBPerMonth float64 `json:"transferOutGBPerMonth,omitempty" mapstructure:"transferOutGBPerMonth"`
	RequestsPerMonth      float64 `json:"requestsPerMonth,omitempty" mapstructure:"requestsPerMonth"`
}

// ECRUsage overrides ECR usage defaults
type ECRUsage struct {
	StorageGB float64 `json:"storageGB,omitempty" mapstructure:"storageGB"`
}

// ELBUsage overrides load balancer usage defaults
type ELBUsage struct {
	LCUPerHour float64 `json:"lcuPerHour,omitempty" mapstructure:"lcuPerHour"`
}

// Route53Usage overrides Route53 usage defaults
type Route53Usage struct {
	QueriesPerMonth float64 `json:"queriesPerMonth,omitempty" mapstructure:"queriesPerMonth"`
}

// KMSUsage overrides KMS usage defaults
type KMSUsage struct {
	RequestsPerMonth float64 `json:"requestsPerMonth,omitempty" mapstructure:"requestsPerMonth"`
}

// SecretsManagerUsage overrides Secrets Manager usage defaults
type SecretsManagerUsage struct {
	APICallsPerMonth float64 `json:"apiCallsPerMonth,omitempty" mapstructure:"apiCallsPerMonth"`
}

// VPCEndpointUsage overrides VPC endpoint usage defaults
type VPCEndpointUsage struct {
	DataProcessedGB float64 `json:"dataProcessedGB,omitempty" mapstructure:"dataProcessedGB"`
}

// OrDefault returns override when it is set (non-zero), else def.
func OrDefault(override, def float64) float64 {
	if override > 0 {
		return override
	}
	return def
}
