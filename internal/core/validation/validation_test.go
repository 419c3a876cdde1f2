package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestResult_Collects verifies that a result is invalid once any error is added.
func TestResult_Collects(t *testing.T) {
	var r Result
	assert.True(t, r.IsValid())

	r.Add(CodePaymentInvalid, "bad card")
	r.AddWithDetails(CodePaymentExpired, "expired", map[string]string{"expiry_date": "2025-12-31"})

	assert.False(t, r.IsValid())
	assert.Len(t, r.Errors, 2)
	assert.True(t, r.HasCode(CodePaymentExpired))
	assert.False(t, r.HasCode(CodeUnsupportedCard))
	assert.Equal(t, "payment_invalid: bad card; payment_expired: expired", r.String())
}

// TestResult_Merge verifies that merging keeps every failure in order.
func TestResult_Merge(t *testing.T) {
	r := Fail(CodeInvalidRequest, "empty cart")
	r.Merge(Fail(CodeShippingUnavailable, "no route"))

	assert.Equal(t, CodeInvalidRequest, r.Errors[0].Code)
	assert.Equal(t, CodeShippingUnavailable, r.Errors[1].Code)
}
