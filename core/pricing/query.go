// Package pricing resolves monthly rates from the AWS price list catalog
// with retries and a two-tier cache.
package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// Filter is a single TERM_MATCH attribute filter
type Filter struct {
	// Field is the product attribute name (e.g. "instanceType")
	Field string `json:"field"`

	// Value is the exact value to match
	Value string `json:"value"`
}

// PriceQueryParams identifies one catalog lookup. The query is pure
// data; no client state influences its cache key.
type PriceQueryParams struct {
	// ServiceCode is the catalog service (e.g. "AmazonEC2")
	ServiceCode string `json:"serviceCode"`

	// Region is the AWS region code
	Region string `json:"region"`

	// Filters narrow the product selection
	Filters []Filter `json:"filters"`
}

// CacheKey returns the SHA-256 of the canonical JSON encoding of the
// params. Filters are sorted by field then value, so callers never need
// to sort before querying.
func (p PriceQueryParams) CacheKey() string {
	canonical := PriceQueryParams{
		ServiceCode: p.ServiceCode,
		Region:      p.Region,
		Filters:     append([]Filter(nil), p.Filters...),
	}
	sort.Slice(canonical.Filters, func(i, j int) bool {
		if canonical.Filters[i].Field != canonical.Filters[j].Field {
			return canonical.Filters[i].Field < canonical.Filters[j].Field
		}
		return canonical.Filters[i].Value < canonical.Filters[j].Value
	})

	// Struct field order is fixed, so this encoding is canonical.
	encoded, _ := json.Marshal(canonical)
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
