package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"bookstore-checkout/internal/core/config"
	"bookstore-checkout/internal/core/validation"
	"bookstore-checkout/internal/features/payments/domain"
)

const (
	minNameLength = 2
	maxNameLength = 100

	// DefaultExpiryGrace is how long after its last valid day a card is still accepted.
	DefaultExpiryGrace = 5 * 24 * time.Hour
)

var (
	cardNumberPattern = regexp.MustCompile(`^\d{13,19}$`)
	expiryPattern     = regexp.MustCompile(`^(0?[1-9]|1[0-2])/(\d{2}|\d{4})$`)
	digitsPattern     = regexp.MustCompile(`^\d+$`)
)

// ValidatorConfig holds the card acceptance rules.
type ValidatorConfig struct {
	// AcceptedBrands lists the brands the store takes.
	AcceptedBrands []domain.CardBrand
	// BlockedCountries lists refused billing countries, compared case-insensitively.
	BlockedCountries []string
	// ExpiryGrace extends acceptance past the card's last valid day.
	ExpiryGrace time.Duration
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultValidatorConfig accepts the four major brands with the standard grace window.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		AcceptedBrands: []domain.CardBrand{
			domain.CardBrandVisa,
			domain.CardBrandMastercard,
			domain.CardBrandAmericanExpress,
			domain.CardBrandDiscover,
		},
		ExpiryGrace: DefaultExpiryGrace,
		Now:         time.Now,
	}
}

// ConfigFrom maps the payment section of the application config.
func ConfigFrom(cfg config.PaymentConfig) ValidatorConfig {
	vc := DefaultValidatorConfig()
	if len(cfg.AcceptedBrands) > 0 {
		vc.AcceptedBrands = vc.AcceptedBrands[:0]
		for _, b := range cfg.AcceptedBrands {
			if brand := domain.ParseBrand(b); brand != domain.CardBrandUnknown {
				vc.AcceptedBrands = append(vc.AcceptedBrands, brand)
			}
		}
	}
	vc.BlockedCountries = cfg.BlockedCountries
	if cfg.ExpiryGrace > 0 {
		vc.ExpiryGrace = cfg.ExpiryGrace
	}
	return vc
}

// Validator checks a card instrument without any I/O.
type Validator struct {
	cfg ValidatorConfig
}

// NewValidator creates a Validator. A nil clock falls back to time.Now.
func NewValidator(cfg ValidatorConfig) *Validator {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Validator{cfg: cfg}
}

// Validate runs every applicable check and collects all failures.
func (v *Validator) Validate(info domain.PaymentInfo) validation.Result {
	var result validation.Result

	cardNumber := info.NormalizedCardNumber()
	brand := domain.DetectBrand(cardNumber)

	v.validateCardNumber(cardNumber, &result)
	v.validateCardholderName(info.CardholderName, &result)
	v.validateExpiry(info.Expiry, &result)
	v.validateCVV(info.CVV, brand, &result)
	v.validateBillingCountry(info.BillingCountry, &result)

	if cardNumber != "" && !v.accepts(brand) {
		result.AddWithDetails(validation.CodeUnsupportedCard,
			fmt.Sprintf("Card type %s is not accepted", brand),
			map[string]string{"card_brand": string(brand)})
	}

	return result
}

func (v *Validator) validateCardNumber(cardNumber string, result *validation.Result) {
	switch {
	case cardNumber == "":
		result.Add(validation.CodePaymentInvalid, "Card number is required")
	case !cardNumberPattern.MatchString(cardNumber):
		result.Add(validation.CodePaymentInvalid, "Card number must be 13-19 digits")
	case !LuhnValid(cardNumber):
		result.Add(validation.CodePaymentInvalid, "Card number is invalid")
	}
}

func (v *Validator) validateCardholderName(name string, result *validation.Result) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		result.Add(validation.CodePaymentInvalid, "Cardholder name is required")
	case len([]rune(name)) < minNameLength || len([]rune(name)) > maxNameLength:
		result.Add(validation.CodePaymentInvalid,
			fmt.Sprintf("Cardholder name must be between %d and %d characters", minNameLength, maxNameLength))
	case strings.IndexFunc(name, unicode.IsDigit) >= 0:
		result.Add(validation.CodePaymentInvalid, "Cardholder name must not contain digits")
	}
}

func (v *Validator) validateExpiry(expiry string, result *validation.Result) {
	expiresOn, err := ParseExpiry(expiry)
	if err != nil {
		result.Add(validation.CodePaymentInvalid, "Expiry date must be in MM/YY or MM/YYYY format")
		return
	}

	if expiresOn.Before(v.cfg.Now().Add(-v.cfg.ExpiryGrace)) {
		result.AddWithDetails(validation.CodePaymentExpired, "Card has expired",
			map[string]string{"expiry_date": expiresOn.Format(time.DateOnly)})
	}
}

func (v *Validator) validateCVV(cvv string, brand domain.CardBrand, result *validation.Result) {
	cvv = strings.TrimSpace(cvv)
	expected := 3
	if brand == domain.CardBrandAmericanExpress {
		expected = 4
	}

	switch {
	case cvv == "":
		result.Add(validation.CodePaymentInvalid, "CVV is required")
	case !digitsPattern.MatchString(cvv) || len(cvv) != expected:
		result.Add(validation.CodePaymentInvalid, fmt.Sprintf("CVV must be %d digits", expected))
	}
}

func (v *Validator) validateBillingCountry(country string, result *validation.Result) {
	country = strings.TrimSpace(country)
	if country == "" {
		return
	}
	for _, blocked := range v.cfg.BlockedCountries {
		if strings.EqualFold(strings.TrimSpace(blocked), country) {
			result.AddWithDetails(validation.CodePaymentInvalid, "Payments from this country are not accepted",
				map[string]string{"country": country})
			return
		}
	}
}

func (v *Validator) accepts(brand domain.CardBrand) bool {
	for _, b := range v.cfg.AcceptedBrands {
		if b == brand {
			return true
		}
	}
	return false
}

// ParseExpiry parses "MM/YY" or "MM/YYYY" (single-digit months allowed) and
// returns the last calendar day of that month in UTC.
func ParseExpiry(expiry string) (time.Time, error) {
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid expiry %q", expiry)
	}

	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if len(m[2]) == 2 {
		year += 2000
	}

	firstOfNext := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1), nil
}

// LuhnValid runs the mod-10 checksum over a digit string. Empty input is invalid.
func LuhnValid(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
