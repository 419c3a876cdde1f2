package domain

import (
	"strings"
	"time"

	paymentdomain "bookstore-checkout/internal/features/payments/domain"
	shippingdomain "bookstore-checkout/internal/features/shipping/domain"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the current state of an order.
type OrderStatus string

const (
	// OrderStatusPending is the state of an order being written by checkout.
	OrderStatusPending OrderStatus = "Pending"
	// OrderStatusProcessing indicates the order is paid and awaiting fulfilment.
	OrderStatusProcessing OrderStatus = "Processing"
	// OrderStatusShipped indicates the order has been handed to the carrier.
	OrderStatusShipped OrderStatus = "Shipped"
	// OrderStatusCompleted indicates the order has been delivered.
	OrderStatusCompleted OrderStatus = "Completed"
	// OrderStatusCancelled indicates the order will not be fulfilled.
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusCompleted},
}

// ParseStatus maps a case-insensitive name to an OrderStatus.
func ParseStatus(s string) (OrderStatus, bool) {
	for _, st := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return OrderStatus(s), false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is one cart line with the unit price captured at checkout.
type OrderItem struct {
	// BookID identifies the catalog item.
	BookID string `json:"book_id"`
	// Title is the book title at the time of purchase.
	Title string `json:"title"`
	// Quantity is the number of copies purchased.
	Quantity int `json:"quantity"`
	// UnitPrice is the price snapshot taken at checkout.
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal is UnitPrice × Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a customer order in the system.
type Order struct {
	// ID is assigned by the store on creation.
	ID int64 `json:"order_id"`
	// UserID identifies the customer.
	UserID string `json:"user_id"`
	// CartID identifies the cart the order was placed from.
	CartID string `json:"cart_id"`
	// PromoCode is recorded for reporting. No discount is applied.
	PromoCode string `json:"promo_code,omitempty"`
	// Status represents the current lifecycle state.
	Status OrderStatus `json:"status"`
	// Items contains the purchased lines.
	Items []OrderItem `json:"items"`
	// Subtotal is the sum of the line totals.
	Subtotal decimal.Decimal `json:"subtotal"`
	// ShippingCost is the quoted shipping cost.
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	// TotalAmount is Subtotal + ShippingCost.
	TotalAmount decimal.Decimal `json:"total_amount"`
	// CreatedAt is the timestamp when the order was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewOrder builds a Pending order and computes its totals.
func NewOrder(userID, cartID, promoCode string, items []OrderItem, shippingCost decimal.Decimal, now time.Time) *Order {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	subtotal = subtotal.Round(2)
	shippingCost = shippingCost.Round(2)

	return &Order{
		UserID:       userID,
		CartID:       cartID,
		PromoCode:    promoCode,
		Status:       OrderStatusPending,
		Items:        items,
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		TotalAmount:  subtotal.Add(shippingCost),
		CreatedAt:    now,
	}
}

// OrderDetails is an order together with its payment and shipment.
type OrderDetails struct {
	*Order
	Payment  *paymentdomain.Payment   `json:"payment,omitempty"`
	Shipping *shippingdomain.Shipping `json:"shipping,omitempty"`
}
