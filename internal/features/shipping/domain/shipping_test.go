package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseMethod verifies the accepted spellings of each tier.
func TestParseMethod(t *testing.T) {
	tests := []struct {
		input    string
		expected Method
		ok       bool
	}{
		{"Standard", MethodStandard, true},
		{"express", MethodExpress, true},
		{"same_day", MethodSameDay, true},
		{"Same Day", MethodSameDay, true},
		{"INTERNATIONAL", MethodInternational, true},
		{"drone", Method("drone"), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, ok := ParseMethod(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, m)
		})
	}
}

// TestAddress verifies validity rules and query formatting.
func TestAddress(t *testing.T) {
	a := Address{Street: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "USA"}
	assert.True(t, a.IsValid())
	assert.Equal(t, "1 Main St, Springfield, 12345, USA", a.String())

	assert.False(t, Address{Street: "1 Main St"}.IsValid())
	assert.False(t, Address{PostalCode: "12345"}.IsValid())
	assert.Equal(t, "1 Main St, 12345", Address{Street: "1 Main St", PostalCode: "12345"}.String())
}

// TestFallback verifies the documented flat rates.
func TestFallback(t *testing.T) {
	tests := map[Method]string{
		MethodStandard:      "8.99",
		MethodExpress:       "14.99",
		MethodSameDay:       "24.99",
		MethodInternational: "39.99",
	}

	for method, cost := range tests {
		opt := Fallback(method)
		assert.True(t, opt.Available)
		assert.True(t, opt.IsEstimate)
		assert.True(t, decimal.RequireFromString(cost).Equal(opt.Cost), method)
		assert.NotEmpty(t, opt.Estimate)
	}
}

// TestOption_MarshalJSON verifies the wire keys of a shipping option.
func TestOption_MarshalJSON(t *testing.T) {
	opt := Option{Method: MethodExpress, Available: true, Cost: decimal.RequireFromString("12.49"), Estimate: "1-2 business days"}

	data, err := json.Marshal(opt)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "Express", m["method"])
	assert.Equal(t, "12.49", m["cost"])
	assert.Equal(t, "1-2 business days", m["delivery_estimate"])
	assert.NotContains(t, m, "reason")
}
