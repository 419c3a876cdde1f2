package ports

import (
	"context"

	"bookstore-checkout/internal/core/validation"
	"bookstore-checkout/internal/features/checkout/domain"
	orderports "bookstore-checkout/internal/features/orders/ports"
	paymentdomain "bookstore-checkout/internal/features/payments/domain"
	paymentports "bookstore-checkout/internal/features/payments/ports"
	shippingdomain "bookstore-checkout/internal/features/shipping/domain"
	shippingports "bookstore-checkout/internal/features/shipping/ports"
)

// PaymentValidator checks a card instrument. Implemented by payments/service.Validator.
type PaymentValidator interface {
	Validate(info paymentdomain.PaymentInfo) validation.Result
}

// ShippingQuoter prices a shipment. Implemented by shipping/service.Calculator.
type ShippingQuoter interface {
	Calculate(ctx context.Context, address shippingdomain.Address, method shippingdomain.Method) shippingdomain.Option
}

// Stores groups the three stores bound to one unit of work.
type Stores struct {
	Orders   orderports.OrderStore
	Payments paymentports.PaymentStore
	Shipping shippingports.ShippingStore
}

// UnitOfWork runs fn against stores that share a single transaction.
// Writes made through the stores become visible only when fn returns nil
// and ctx is still live at commit. Any other exit discards them.
// This is a Secondary Port (Driven Port).
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// EventPublisher announces committed checkouts.
// This is a Secondary Port (Driven Port).
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error
	Close() error
}
