package ports

import (
	"context"

	"bookstore-checkout/internal/features/orders/domain"
)

// OrderStore persists orders and their items.
// This is a Secondary Port (Driven Port). Failures are *database.Error values.
type OrderStore interface {
	// Create inserts the order with its items and returns the assigned identifier.
	Create(ctx context.Context, order *domain.Order) (int64, error)
	// UpdateStatus sets the order status. Unknown ids fail with KindNotFound.
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
	// Get loads the order with its items.
	Get(ctx context.Context, orderID int64) (*domain.Order, error)
}
