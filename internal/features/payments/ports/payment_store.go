package ports

import (
	"context"

	"bookstore-checkout/internal/features/payments/domain"
)

// PaymentStore persists payment records.
// This is a Secondary Port (Driven Port). Failures are *database.Error values.
type PaymentStore interface {
	// Create inserts the payment and returns its identifier.
	Create(ctx context.Context, payment *domain.Payment) (int64, error)
	// UpdateStatus sets the status of the payment attached to orderID.
	UpdateStatus(ctx context.Context, orderID int64, status domain.PaymentStatus) error
	// GetByOrderID loads the payment attached to orderID.
	GetByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error)
}
