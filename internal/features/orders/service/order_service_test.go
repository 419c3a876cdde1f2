package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstore-checkout/internal/features/checkout/adapters"
	checkoutports "bookstore-checkout/internal/features/checkout/ports"
	"bookstore-checkout/internal/features/orders/domain"
	paymentdomain "bookstore-checkout/internal/features/payments/domain"
	shippingdomain "bookstore-checkout/internal/features/shipping/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seed writes one Processing order with its payment and shipment.
func seed(t *testing.T, uow checkoutports.UnitOfWork) int64 {
	t.Helper()
	var id int64
	err := uow.Do(context.Background(), func(ctx context.Context, stores checkoutports.Stores) error {
		order := domain.NewOrder("u1", "c1", "", []domain.OrderItem{
			{BookID: "b1", Title: "Dune", Quantity: 1, UnitPrice: decimal.RequireFromString("10.99")},
		}, decimal.RequireFromString("8.99"), time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
		order.Status = domain.OrderStatusProcessing

		var err error
		if id, err = stores.Orders.Create(ctx, order); err != nil {
			return err
		}
		if _, err = stores.Payments.Create(ctx, &paymentdomain.Payment{OrderID: id, Status: paymentdomain.PaymentStatusCompleted}); err != nil {
			return err
		}
		_, err = stores.Shipping.Create(ctx, &shippingdomain.Shipping{OrderID: id, Method: shippingdomain.MethodStandard, TrackingNumber: "TRK-1"})
		return err
	})
	require.NoError(t, err)
	return id
}

// TestOrderService_GetOrder verifies the order is returned with its payment and shipment.
func TestOrderService_GetOrder(t *testing.T) {
	uow := adapters.NewMemoryUnitOfWork()
	id := seed(t, uow)

	details, err := NewOrderService(uow).GetOrder(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, details.ID)
	require.NotNil(t, details.Payment)
	assert.Equal(t, paymentdomain.PaymentStatusCompleted, details.Payment.Status)
	require.NotNil(t, details.Shipping)
	assert.Equal(t, "TRK-1", details.Shipping.TrackingNumber)
}

// TestOrderService_GetOrder_NotFound verifies unknown ids map to ErrOrderNotFound.
func TestOrderService_GetOrder_NotFound(t *testing.T) {
	_, err := NewOrderService(adapters.NewMemoryUnitOfWork()).GetOrder(context.Background(), 404)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// TestOrderService_UpdateStatus_Shipped verifies shipping an order stamps the shipment.
func TestOrderService_UpdateStatus_Shipped(t *testing.T) {
	uow := adapters.NewMemoryUnitOfWork()
	id := seed(t, uow)

	svc := NewOrderService(uow)
	shippedAt := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return shippedAt }

	order, err := svc.UpdateStatus(context.Background(), id, domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)

	details, err := svc.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, details.Status)
	require.NotNil(t, details.Shipping.ShippedAt)
	assert.Equal(t, shippedAt, *details.Shipping.ShippedAt)
}

// TestOrderService_UpdateStatus_InvalidTransition verifies the lifecycle is enforced and nothing changes.
func TestOrderService_UpdateStatus_InvalidTransition(t *testing.T) {
	uow := adapters.NewMemoryUnitOfWork()
	id := seed(t, uow)
	svc := NewOrderService(uow)

	_, err := svc.UpdateStatus(context.Background(), id, domain.OrderStatusCompleted)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	details, err := svc.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, details.Status)
}

// TestOrderService_UpdateStatus_NotFound verifies unknown ids map to ErrOrderNotFound.
func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	_, err := NewOrderService(adapters.NewMemoryUnitOfWork()).UpdateStatus(context.Background(), 9, domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
