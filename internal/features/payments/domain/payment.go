package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CardBrand is the card network derived from the card number prefix.
type CardBrand string

const (
	CardBrandVisa            CardBrand = "Visa"
	CardBrandMastercard      CardBrand = "Mastercard"
	CardBrandAmericanExpress CardBrand = "AmericanExpress"
	CardBrandDiscover        CardBrand = "Discover"
	CardBrandUnknown         CardBrand = "Unknown"
)

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// PaymentInfo is the card instrument submitted with a checkout.
// It is never persisted as-is.
type PaymentInfo struct {
	CardNumber     string `json:"card_number"`
	CardholderName string `json:"cardholder_name"`
	// Expiry is "MM/YY" or "MM/YYYY".
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
	BillingCountry string `json:"billing_country,omitempty"`
}

// NormalizedCardNumber returns the card number without spaces or dashes.
func (p PaymentInfo) NormalizedCardNumber() string {
	return strings.NewReplacer(" ", "", "-", "").Replace(p.CardNumber)
}

// Payment is the persisted record of a checkout payment.
type Payment struct {
	ID               int64           `json:"payment_id"`
	OrderID          int64           `json:"order_id"`
	MaskedCardNumber string          `json:"masked_card_number"`
	CardBrand        CardBrand       `json:"card_brand"`
	Expiry           string          `json:"expiry"`
	Amount           decimal.Decimal `json:"amount"`
	Status           PaymentStatus   `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// DetectBrand derives the brand from the card number prefix.
// Amex requires the 34/37 prefix and exactly 15 digits.
func DetectBrand(cardNumber string) CardBrand {
	switch {
	case len(cardNumber) == 15 && (strings.HasPrefix(cardNumber, "34") || strings.HasPrefix(cardNumber, "37")):
		return CardBrandAmericanExpress
	case strings.HasPrefix(cardNumber, "4"):
		return CardBrandVisa
	case strings.HasPrefix(cardNumber, "5"):
		return CardBrandMastercard
	case strings.HasPrefix(cardNumber, "6"):
		return CardBrandDiscover
	default:
		return CardBrandUnknown
	}
}

// MaskCardNumber replaces every character except the last four with '*'.
func MaskCardNumber(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return strings.Repeat("*", len(cardNumber)-4) + cardNumber[len(cardNumber)-4:]
}

// ParseBrand maps configuration strings such as "visa" or "American Express" to a brand.
func ParseBrand(s string) CardBrand {
	switch strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)) {
	case "visa":
		return CardBrandVisa
	case "mastercard":
		return CardBrandMastercard
	case "americanexpress", "amex":
		return CardBrandAmericanExpress
	case "discover":
		return CardBrandDiscover
	default:
		return CardBrandUnknown
	}
}
