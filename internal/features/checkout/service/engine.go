package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/core/logger"
	"bookstore-checkout/internal/core/metrics"
	"bookstore-checkout/internal/core/validation"
	"bookstore-checkout/internal/features/checkout/domain"
	"bookstore-checkout/internal/features/checkout/ports"
	orderdomain "bookstore-checkout/internal/features/orders/domain"
	paymentdomain "bookstore-checkout/internal/features/payments/domain"
	shippingdomain "bookstore-checkout/internal/features/shipping/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("bookstore-checkout/checkout")

// Engine orchestrates one checkout: validate, price shipping, then persist
// the order, payment and shipment as a single unit.
type Engine struct {
	payments  ports.PaymentValidator
	shipping  ports.ShippingQuoter
	uow       ports.UnitOfWork
	publisher ports.EventPublisher
	validate  *validator.Validate
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for timestamps and tracking numbers.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPublisher sets the publisher notified after each commit.
func WithPublisher(p ports.EventPublisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// NewEngine creates an Engine. Without WithPublisher committed orders are not announced.
func NewEngine(payments ports.PaymentValidator, shipping ports.ShippingQuoter, uow ports.UnitOfWork, opts ...Option) *Engine {
	e := &Engine{
		payments: payments,
		shipping: shipping,
		uow:      uow,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// checkout carries the per-request state between steps.
type checkout struct {
	req    domain.CheckoutRequest
	state  domain.State
	start  time.Time
	span   trace.Span
	log    *zap.Logger
	option shippingdomain.Option
}

func (c *checkout) transition(next domain.State) {
	c.log.Debug("Checkout state transition",
		zap.String("from", string(c.state)),
		zap.String("to", string(next)),
	)
	c.span.AddEvent("checkout.state", trace.WithAttributes(
		attribute.String("from", string(c.state)),
		attribute.String("to", string(next)),
	))
	c.state = next
}

// ProcessCheckout runs the checkout state machine. It never panics on bad
// input and never returns a Go error: the outcome is carried by the result
// state, with user-facing errors for Rejected and Failed.
func (e *Engine) ProcessCheckout(ctx context.Context, req domain.CheckoutRequest) domain.CheckoutResult {
	ctx, span := tracer.Start(ctx, "checkout.process")
	defer span.End()
	span.SetAttributes(
		attribute.String("checkout.user_id", req.UserID),
		attribute.Int("checkout.items", len(req.Items)),
	)

	c := &checkout{
		req:   req,
		state: domain.StateReceived,
		start: time.Now(),
		span:  span,
		log: logger.FromContext(ctx).With(
			zap.String("user_id", req.UserID),
			zap.String("cart_id", req.CartID),
		),
	}

	result := e.run(ctx, c)

	span.SetAttributes(attribute.String("checkout.state", string(result.State)))
	if result.State == domain.StateFailed {
		span.SetStatus(codes.Error, "checkout failed")
	}
	metrics.ObserveCheckout(string(result.State), time.Since(c.start))
	return result
}

func (e *Engine) run(ctx context.Context, c *checkout) domain.CheckoutResult {
	c.transition(domain.StateValidating)
	if errs := e.validateRequest(ctx, c); len(errs) > 0 {
		c.transition(domain.StateRejected)
		c.log.Info("Checkout rejected", zap.Int("errors", len(errs)), zap.String("reason", joinCodes(errs)))
		return domain.CheckoutResult{State: c.state, Errors: errs}
	}
	c.transition(domain.StateShippingCalculated)

	order := orderdomain.NewOrder(c.req.UserID, c.req.CartID, c.req.PromoCode, orderItems(c.req.Items), c.option.Cost, e.now().UTC())
	payment, shipping := e.buildRecords(c, order)

	c.transition(domain.StatePersisting)
	err := e.uow.Do(ctx, func(ctx context.Context, stores ports.Stores) error {
		orderID, err := stores.Orders.Create(ctx, order)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		payment.OrderID = orderID
		shipping.OrderID = orderID

		if _, err := stores.Payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		if _, err := stores.Shipping.Create(ctx, shipping); err != nil {
			return fmt.Errorf("create shipping: %w", err)
		}
		if err := stores.Payments.UpdateStatus(ctx, orderID, paymentdomain.PaymentStatusCompleted); err != nil {
			return fmt.Errorf("complete payment: %w", err)
		}
		if err := stores.Orders.UpdateStatus(ctx, orderID, orderdomain.OrderStatusProcessing); err != nil {
			return fmt.Errorf("advance order: %w", err)
		}
		return nil
	})
	if err != nil {
		c.transition(domain.StateFailed)
		c.span.RecordError(err)
		c.log.Error("Checkout persistence failed",
			zap.String("code", string(validation.CodeProcessingFailed)),
			zap.String("kind", string(database.KindOf(err))),
			zap.Error(err),
		)
		return domain.CheckoutResult{
			State: c.state,
			Errors: []validation.Error{{
				Code:    validation.CodeProcessingFailed,
				Message: "We could not complete your order. No payment was taken, please try again.",
			}},
		}
	}

	payment.Status = paymentdomain.PaymentStatusCompleted
	order.Status = orderdomain.OrderStatusProcessing
	c.transition(domain.StateCommitted)
	c.log.Info("Checkout committed",
		zap.Int64("order_id", order.ID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
		zap.String("tracking_number", shipping.TrackingNumber),
	)

	e.publish(ctx, c, order, shipping)

	return domain.CheckoutResult{
		State: c.state,
		Response: &domain.CheckoutResponse{
			OrderID:             order.ID,
			Subtotal:            order.Subtotal,
			ShippingCost:        order.ShippingCost,
			TotalAmount:         order.TotalAmount,
			DeliveryEstimate:    shipping.DeliveryEstimate,
			TrackingNumber:      shipping.TrackingNumber,
			PaymentConfirmation: fmt.Sprintf("Payment authorized: %s %s", payment.CardBrand, payment.MaskedCardNumber),
			ShippingIsEstimate:  shipping.IsEstimate,
			State:               c.state,
		},
	}
}

// validateRequest collects cart, payment and shipping failures. All three
// run even when an earlier one fails. The shipping option is kept on c.
func (e *Engine) validateRequest(ctx context.Context, c *checkout) []validation.Error {
	var result validation.Result

	result.Merge(e.validateCart(c.req))
	result.Merge(e.payments.Validate(c.req.Payment))

	method := c.req.ShippingMethod
	if method == "" {
		method = shippingdomain.MethodStandard
	}
	c.option = e.shipping.Calculate(ctx, c.req.ShippingAddress, method)
	if !c.option.Available {
		result.Add(validation.CodeShippingUnavailable, c.option.Reason)
	}

	return result.Errors
}

func (e *Engine) validateCart(req domain.CheckoutRequest) validation.Result {
	var result validation.Result

	if err := e.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			result.Add(validation.CodeInvalidRequest, err.Error())
			return result
		}
		for _, fe := range verrs {
			result.AddWithDetails(validation.CodeInvalidRequest,
				fmt.Sprintf("%s failed the %q check", fe.Namespace(), fe.Tag()),
				map[string]string{"field": fe.Namespace()})
		}
	}

	for i, item := range req.Items {
		if item.UnitPrice.IsNegative() {
			result.AddWithDetails(validation.CodeInvalidRequest,
				fmt.Sprintf("item %d has a negative price", i),
				map[string]string{"book_id": item.BookID})
		}
	}

	return result
}

func (e *Engine) buildRecords(c *checkout, order *orderdomain.Order) (*paymentdomain.Payment, *shippingdomain.Shipping) {
	cardNumber := c.req.Payment.NormalizedCardNumber()
	now := order.CreatedAt

	payment := &paymentdomain.Payment{
		MaskedCardNumber: paymentdomain.MaskCardNumber(cardNumber),
		CardBrand:        paymentdomain.DetectBrand(cardNumber),
		Expiry:           c.req.Payment.Expiry,
		Amount:           order.TotalAmount,
		Status:           paymentdomain.PaymentStatusPending,
		CreatedAt:        now,
	}

	shipping := &shippingdomain.Shipping{
		Address:          c.req.ShippingAddress,
		Method:           c.option.Method,
		Cost:             order.ShippingCost,
		DeliveryEstimate: c.option.Estimate,
		TrackingNumber:   NewTrackingNumber(now),
		DistanceMiles:    c.option.DistanceMiles,
		IsEstimate:       c.option.IsEstimate,
	}

	return payment, shipping
}

// publish announces the committed order. Failures are logged only: the
// order is already durable.
func (e *Engine) publish(ctx context.Context, c *checkout, order *orderdomain.Order, shipping *shippingdomain.Shipping) {
	if e.publisher == nil {
		return
	}

	event := domain.OrderPlaced{
		EventID:        uuid.NewString(),
		OrderID:        order.ID,
		UserID:         order.UserID,
		TotalAmount:    order.TotalAmount,
		ShippingMethod: shipping.Method,
		TrackingNumber: shipping.TrackingNumber,
		OccurredAt:     e.now().UTC(),
	}
	if err := e.publisher.PublishOrderPlaced(context.WithoutCancel(ctx), event); err != nil {
		c.span.RecordError(err)
		c.log.Warn("Failed to publish order placed event",
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)
	}
}

// NewTrackingNumber returns "TRK-YYYYMMDD-XXXXXXXX".
func NewTrackingNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("TRK-%s-%s", now.UTC().Format("20060102"), id[:8])
}

func orderItems(items []domain.CartItem) []orderdomain.OrderItem {
	out := make([]orderdomain.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, orderdomain.OrderItem{
			BookID:    item.BookID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Round(2),
		})
	}
	return out
}

func joinCodes(errs []validation.Error) string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, string(e.Code))
	}
	return strings.Join(names, ",")
}
