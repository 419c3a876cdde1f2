package domain

import (
	"time"

	"bookstore-checkout/internal/core/validation"
	paymentdomain "bookstore-checkout/internal/features/payments/domain"
	shippingdomain "bookstore-checkout/internal/features/shipping/domain"

	"github.com/shopspring/decimal"
)

// State is a step of the checkout state machine.
type State string

const (
	StateReceived           State = "Received"
	StateValidating         State = "Validating"
	StateShippingCalculated State = "ShippingCalculated"
	StatePersisting         State = "Persisting"
	StateCommitted          State = "Committed"
	StateRejected           State = "Rejected"
	StateFailed             State = "Failed"
)

// IsTerminal reports whether no further transition follows s.
func (s State) IsTerminal() bool {
	return s == StateCommitted || s == StateRejected || s == StateFailed
}

// CartItem is one cart line with the price the shopper saw.
type CartItem struct {
	BookID    string          `json:"book_id" validate:"required"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
}

// CheckoutRequest is the input of one checkout attempt.
type CheckoutRequest struct {
	UserID          string                    `json:"user_id" validate:"required"`
	CartID          string                    `json:"cart_id"`
	Items           []CartItem                `json:"items" validate:"required,min=1,dive"`
	ShippingAddress shippingdomain.Address    `json:"shipping_address"`
	ShippingMethod  shippingdomain.Method     `json:"shipping_method"`
	Payment         paymentdomain.PaymentInfo `json:"payment"`
	PromoCode       string                    `json:"promo_code,omitempty"`
}

// CheckoutResponse is returned to the shopper once the order is committed.
type CheckoutResponse struct {
	OrderID             int64           `json:"order_id"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	ShippingCost        decimal.Decimal `json:"shipping_cost"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	DeliveryEstimate    string          `json:"delivery_estimate"`
	TrackingNumber      string          `json:"tracking_number"`
	PaymentConfirmation string          `json:"payment_confirmation"`
	// ShippingIsEstimate is true when a flat fallback rate was charged.
	ShippingIsEstimate bool  `json:"shipping_is_estimate"`
	State              State `json:"state"`
}

// CheckoutResult is the outcome of ProcessCheckout. Response is set only
// when State is Committed; Errors only when it is Rejected or Failed.
type CheckoutResult struct {
	State    State              `json:"state"`
	Response *CheckoutResponse  `json:"response,omitempty"`
	Errors   []validation.Error `json:"errors,omitempty"`
}

// Succeeded reports whether the checkout committed.
func (r CheckoutResult) Succeeded() bool {
	return r.State == StateCommitted
}

// OrderPlaced is published after a checkout commits.
type OrderPlaced struct {
	EventID        string                `json:"event_id"`
	OrderID        int64                 `json:"order_id"`
	UserID         string                `json:"user_id"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	ShippingMethod shippingdomain.Method `json:"shipping_method"`
	TrackingNumber string                `json:"tracking_number"`
	OccurredAt     time.Time             `json:"occurred_at"`
}
