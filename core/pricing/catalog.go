// Package pricing - Catalog wire format
package pricing

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/aws/smithy-go"
)

// buildGetProductsInput translates query params into the GetProducts
// request shape: TERM_MATCH filters and a single result.
func buildGetProductsInput(params PriceQueryParams) *awspricing.GetProductsInput {
	filters := make([]pricingtypes.Filter, 0, len(params.Filters))
	for _, f := range params.Filters {
		filters = append(filters, pricingtypes.Filter{
			Type:  pricingtypes.FilterTypeTermMatch,
			Field: aws.String(f.Field),
			Value: aws.String(f.Value),
		})
	}
	return &awspricing.GetProductsInput{
		ServiceCode: aws.String(params.ServiceCode),
		Filters:     filters,
		MaxResults:  aws.Int32(1),
	}
}

// product mirrors the slice of the price list document the client reads:
// terms.OnDemand[*].priceDimensions[*].pricePerUnit.USD.
type product struct {
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

// decodeFirstOnDemandPrice extracts the first on-demand price dimension's
// USD rate from a PriceList. Unsupported product shapes (no OnDemand
// terms, no dimensions, no USD unit) yield nil, not an error.
func decodeFirstOnDemandPrice(priceList []string) *float64 {
	if len(priceList) == 0 {
		return nil
	}

	var p product
	if err := json.Unmarshal([]byte(priceList[0]), &p); err != nil {
		return nil
	}

	for _, term := range p.Terms.OnDemand {
		for _, dimension := range term.PriceDimensions {
			usd, ok := dimension.PricePerUnit["USD"]
			if !ok {
				continue
			}
			price, err := strconv.ParseFloat(usd, 64)
			if err != nil {
				continue
			}
			return &price
		}
	}
	return nil
}

// retryableCodes are API error codes worth retrying: throttling and
// transient server-side failures.
var retryableCodes = map[string]bool{
	"ThrottlingException":      true,
	"TooManyRequestsException": true,
	"RequestLimitExceeded":     true,
	"InternalFailure":          true,
	"InternalServerError":      true,
	"ServiceUnavailable":       true,
	"RequestTimeout":           true,
}

// isRetryable classifies an error as transient (network, 5xx, 429,
// throttling) or not (malformed filter, other 4xx).
func isRetryable(err error) bool {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		status := respErr.HTTPStatusCode()
		return status == 429 || status >= 500
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return retryableCodes[apiErr.ErrorCode()]
	}

	// Anything else is a transport-level failure.
	return true
}
