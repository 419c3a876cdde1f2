package validation

import "strings"

// Code is the machine-readable identifier attached to every checkout failure.
type Code string

const (
	// CodePaymentInvalid covers malformed card data and blocked billing countries.
	CodePaymentInvalid Code = "payment_invalid"
	// CodePaymentExpired is returned when the card is past its expiry grace window.
	CodePaymentExpired Code = "payment_expired"
	// CodeUnsupportedCard is returned when the card brand is not accepted.
	CodeUnsupportedCard Code = "unsupported_card"
	// CodeShippingUnavailable is returned when no shipping option can be offered.
	CodeShippingUnavailable Code = "shipping_unavailable"
	// CodeShippingCalculationError marks a distance lookup failure that fell back to a flat rate.
	CodeShippingCalculationError Code = "shipping_calculation_error"
	// CodeOrderNotFound is returned when an order lookup misses.
	CodeOrderNotFound Code = "order_not_found"
	// CodeProcessingFailed is the only code surfaced for persistence failures.
	CodeProcessingFailed Code = "checkout_processing_failed"
	// CodeInvalidRequest is returned for malformed request bodies and empty carts.
	CodeInvalidRequest Code = "invalid_request"
)

// Error is a single user-facing validation or processing failure.
type Error struct {
	// Code identifies the failure category.
	Code Code `json:"code"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// Details carries optional structured context (e.g. expiry_date, country).
	Details map[string]string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Result collects every failure found while validating one input.
// A Result is valid only when it holds no errors.
type Result struct {
	Errors []Error `json:"errors"`
}

// IsValid reports whether no failures were collected.
func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Add appends a failure.
func (r *Result) Add(code Code, message string) {
	r.Errors = append(r.Errors, Error{Code: code, Message: message})
}

// AddWithDetails appends a failure carrying structured details.
func (r *Result) AddWithDetails(code Code, message string, details map[string]string) {
	r.Errors = append(r.Errors, Error{Code: code, Message: message, Details: details})
}

// Merge appends all failures from other.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
}

// HasCode reports whether any collected failure carries code.
func (r Result) HasCode(code Code) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Fail builds a Result with a single failure.
func Fail(code Code, message string) Result {
	return Result{Errors: []Error{{Code: code, Message: message}}}
}

// String joins all messages, mostly for logs.
func (r Result) String() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}
