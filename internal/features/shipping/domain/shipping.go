package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Method is a shipping service tier.
type Method string

const (
	MethodStandard      Method = "Standard"
	MethodExpress       Method = "Express"
	MethodSameDay       Method = "SameDay"
	MethodInternational Method = "International"
)

// Methods lists every known tier.
var Methods = []Method{MethodStandard, MethodExpress, MethodSameDay, MethodInternational}

// ParseMethod maps user input such as "same_day" or "express" to a Method.
func ParseMethod(s string) (Method, bool) {
	normalized := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
	for _, m := range Methods {
		if strings.ToLower(string(m)) == normalized {
			return m, true
		}
	}
	return Method(s), false
}

// Address is a destination or origin postal address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// IsValid reports whether the address carries the fields needed for geocoding.
func (a Address) IsValid() bool {
	return strings.TrimSpace(a.Street) != "" && strings.TrimSpace(a.PostalCode) != ""
}

// String formats the address as a single geocoder query line.
func (a Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.PostalCode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Option is the result of a shipping calculation.
type Option struct {
	Method    Method          `json:"method"`
	Available bool            `json:"available"`
	Cost      decimal.Decimal `json:"cost"`
	Estimate  string          `json:"delivery_estimate"`
	// IsEstimate is true when the cost is a flat fallback rather than distance based.
	IsEstimate    bool    `json:"is_estimate"`
	DistanceMiles float64 `json:"distance_miles,omitempty"`
	// Reason explains why the option is unavailable.
	Reason string `json:"reason,omitempty"`
}

// Unavailable builds an option that cannot be offered.
func Unavailable(method Method, reason string) Option {
	return Option{Method: method, Available: false, Reason: reason}
}

var fallbacks = map[Method]struct {
	cost     decimal.Decimal
	estimate string
}{
	MethodStandard:      {decimal.RequireFromString("8.99"), "5-7 business days"},
	MethodExpress:       {decimal.RequireFromString("14.99"), "2-3 business days"},
	MethodSameDay:       {decimal.RequireFromString("24.99"), "Next business day"},
	MethodInternational: {decimal.RequireFromString("39.99"), "10-15 business days"},
}

// Fallback returns the flat-rate option used when distance lookups fail.
func Fallback(method Method) Option {
	f, ok := fallbacks[method]
	if !ok {
		f = fallbacks[MethodStandard]
	}
	return Option{
		Method:     method,
		Available:  true,
		Cost:       f.cost,
		Estimate:   f.estimate,
		IsEstimate: true,
	}
}

// Shipping is the persisted shipment record of an order.
type Shipping struct {
	ID               int64           `json:"shipping_id"`
	OrderID          int64           `json:"order_id"`
	Address          Address         `json:"address"`
	Method           Method          `json:"method"`
	Cost             decimal.Decimal `json:"cost"`
	DeliveryEstimate string          `json:"delivery_estimate"`
	TrackingNumber   string          `json:"tracking_number"`
	DistanceMiles    float64         `json:"distance_miles"`
	IsEstimate       bool            `json:"is_estimate"`
	ShippedAt        *time.Time      `json:"shipped_at,omitempty"`
}
