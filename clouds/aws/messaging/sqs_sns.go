// Package messaging - SQS and SNS cost calculators
package messaging

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cdk-cost/core/cost"
	"cdk-cost/core/template"
	"cdk-cost/core/types"
)

const (
	// Documented request defaults, overridable via usage assumptions
	sqsDefaultRequestsPerMonth = 1_000_000
	snsDefaultRequestsPerMonth = 1_000_000

	// Published per-million request rates
	sqsStandardPerM = 0.40
	sqsFIFOPerM     = 0.50
	snsPublishPerM  = 0.50

	// SMS delivery is priced per message and varies wildly by country;
	// the US rate is used as a heavy default.
	snsSMSPerMessage = 0.00645
)

// SQSCalculator prices AWS::SQS::Queue resources
type SQSCalculator struct{}

// NewSQSCalculator creates an SQS calculator
func NewSQSCalculator() *SQSCalculator {
	return &SQSCalculator{}
}

// Supports reports whether the type is an SQS queue
func (c *SQSCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::SQS::Queue"
}

// CalculateCost prices request volume under the documented default
func (c *SQSCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	requests := types.OrDefault(rctx.Usage.SQS.RequestsPerMonth, sqsDefaultRequestsPerMonth)

	perMillion := sqsStandardPerM
	kind := "standard"
	if resource.BoolProp(false, "FifoQueue") {
		perMillion = sqsFIFOPerM
		kind = "FIFO"
	}

	monthly := decimal.NewFromFloat(requests / 1e6 * perMillion)
	return types.NewMonthlyCost(monthly, types.ConfidenceMedium,
		fmt.Sprintf("SQS: %s queue, %.0f requests/month at $%.2f/million", kind, requests, perMillion)), nil
}

// SNSCalculator prices AWS::SNS::Topic resources
type SNSCalculator struct{}

// NewSNSCalculator creates an SNS calculator
func NewSNSCalculator() *SNSCalculator {
	return &SNSCalculator{}
}

// Supports reports whether the type is an SNS topic
func (c *SNSCalculator) Supports(resourceType string) bool {
	return resourceType == "AWS::SNS::Topic"
}

// CalculateCost prices publish volume, plus SMS deliveries when the
// user supplies a volume. SMS pricing is a heavy default, so any SMS
// component lowers confidence.
func (c *SNSCalculator) CalculateCost(ctx context.Context, resource template.ResourceWithID, rctx *cost.Context) (types.MonthlyCost, error) {
	requests := types.OrDefault(rctx.Usage.SNS.RequestsPerMonth, snsDefaultRequestsPerMonth)
	smsMessages := rctx.Usage.SNS.SMSMessagesPerMonth

	monthly := decimal.NewFromFloat(requests / 1e6 * snsPublishPerM)
	confidence := types.ConfidenceMedium
	assumptions := []string{
		fmt.Sprintf("SNS: %.0f publishes/month at $%.2f/million", requests, snsPublishPerM),
	}

	if smsMessages > 0 {
		smsCost := decimal.NewFromFloat(smsMessages * snsSMSPerMessage)
		monthly = monthly.Add(smsCost)
		confidence = types.ConfidenceLow
		assumptions = append(assumptions,
			fmt.Sprintf("SNS: %.0f SMS/month at $%.5f each (US rate, varies by country)", smsMessages, snsSMSPerMessage))
	}

	return types.NewMonthlyCost(monthly, confidence, assumptions...), nil
}
