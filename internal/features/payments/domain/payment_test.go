package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDetectBrand verifies brand detection by prefix and length.
func TestDetectBrand(t *testing.T) {
	tests := []struct {
		card     string
		expected CardBrand
	}{
		{"4111111111111111", CardBrandVisa},
		{"5555555555554444", CardBrandMastercard},
		{"378282246310005", CardBrandAmericanExpress},
		{"371449635398431", CardBrandAmericanExpress},
		{"3782822463100050", CardBrandUnknown},
		{"6011111111111117", CardBrandDiscover},
		{"3530111333300000", CardBrandUnknown},
		{"", CardBrandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectBrand(tt.card))
		})
	}
}

// TestMaskCardNumber verifies only the last four digits survive.
func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "************1111", MaskCardNumber("4111111111111111"))
	assert.Equal(t, "***********0005", MaskCardNumber("378282246310005"))
	assert.Equal(t, "123", MaskCardNumber("123"))
}

// TestPaymentInfo_NormalizedCardNumber verifies separators are stripped.
func TestPaymentInfo_NormalizedCardNumber(t *testing.T) {
	p := PaymentInfo{CardNumber: "4111 1111-1111 1111"}
	assert.Equal(t, "4111111111111111", p.NormalizedCardNumber())
}

// TestParseBrand verifies configuration spellings are accepted.
func TestParseBrand(t *testing.T) {
	assert.Equal(t, CardBrandAmericanExpress, ParseBrand("American Express"))
	assert.Equal(t, CardBrandAmericanExpress, ParseBrand("amex"))
	assert.Equal(t, CardBrandMastercard, ParseBrand("MasterCard"))
	assert.Equal(t, CardBrandUnknown, ParseBrand("jcb"))
}
