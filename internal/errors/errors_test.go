package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(TypePricingUnavailable, "fetching price", cause)

	assert.True(t, IsType(err, TypePricingUnavailable))
	assert.False(t, IsType(err, TypeParse))
	assert.Contains(t, err.Error(), "fetching price")
	assert.Contains(t, err.Error(), "connection refused")
	require.ErrorIs(t, err, cause)
}

func TestNewfFormats(t *testing.T) {
	err := Newf(TypeParse, "template %s is not valid JSON", "base.json")

	assert.True(t, IsType(err, TypeParse))
	assert.Contains(t, err.Error(), "base.json")
}

func TestIsTypeRejectsForeignErrors(t *testing.T) {
	assert.False(t, IsType(fmt.Errorf("plain"), TypeParse))
	assert.False(t, IsType(nil, TypeParse))
}

func TestIsTypeSeesThroughWrapping(t *testing.T) {
	inner := New(TypeThreshold, "error threshold breached")
	outer := fmt.Errorf("analysis failed: %w", inner)

	assert.True(t, IsType(outer, TypeThreshold))
}
