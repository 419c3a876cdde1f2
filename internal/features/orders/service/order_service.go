package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/core/logger"
	checkoutports "bookstore-checkout/internal/features/checkout/ports"
	"bookstore-checkout/internal/features/orders/domain"

	"go.uber.org/zap"
)

// ErrOrderNotFound is returned when the order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrInvalidTransition is returned when the order lifecycle forbids the requested status.
var ErrInvalidTransition = errors.New("invalid order status transition")

// OrderService reads placed orders and moves them through fulfilment.
type OrderService struct {
	uow checkoutports.UnitOfWork
	now func() time.Time
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(uow checkoutports.UnitOfWork) *OrderService {
	return &OrderService{
		uow: uow,
		now: time.Now,
	}
}

// GetOrder loads the order together with its payment and shipment.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.OrderDetails, error) {
	var details *domain.OrderDetails

	err := s.uow.Do(ctx, func(ctx context.Context, stores checkoutports.Stores) error {
		order, err := stores.Orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		details = &domain.OrderDetails{Order: order}

		if details.Payment, err = stores.Payments.GetByOrderID(ctx, orderID); err != nil && !database.IsNotFound(err) {
			return err
		}
		if details.Shipping, err = stores.Shipping.GetByOrderID(ctx, orderID); err != nil && !database.IsNotFound(err) {
			return err
		}
		return nil
	})
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}

	return details, nil
}

// UpdateStatus moves the order to status when the lifecycle allows it.
// Moving to Shipped stamps the shipment's ShippedAt in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	var updated *domain.Order

	err := s.uow.Do(ctx, func(ctx context.Context, stores checkoutports.Stores) error {
		order, err := stores.Orders.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
		}

		if err := stores.Orders.UpdateStatus(ctx, orderID, status); err != nil {
			return err
		}

		if status == domain.OrderStatusShipped {
			shipping, err := stores.Shipping.GetByOrderID(ctx, orderID)
			if err != nil {
				return err
			}
			shippedAt := s.now().UTC()
			shipping.ShippedAt = &shippedAt
			if err := stores.Shipping.Update(ctx, shipping); err != nil {
				return err
			}
		}

		order.Status = status
		updated = order
		return nil
	})
	if err != nil {
		switch {
		case database.IsNotFound(err):
			return nil, ErrOrderNotFound
		case errors.Is(err, ErrInvalidTransition):
			return nil, err
		}
		logger.FromContext(ctx).Error("Order status update failed",
			zap.Int64("order_id", orderID),
			zap.String("status", string(status)),
			zap.String("kind", string(database.KindOf(err))),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to update order %d: %w", orderID, err)
	}

	logger.FromContext(ctx).Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", string(status)),
	)
	return updated, nil
}
