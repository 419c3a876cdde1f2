package adapters

import (
	"context"
	"fmt"

	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/core/metrics"
	"bookstore-checkout/internal/features/orders/domain"

	"github.com/shopspring/decimal"
)

// PostgresStore implements ports.OrderStore on PostgreSQL.
type PostgresStore struct {
	db database.DBTX
}

// NewPostgresStore binds the store to a pool or an open transaction.
func NewPostgresStore(db database.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the order row followed by one row per item.
func (s *PostgresStore) Create(ctx context.Context, o *domain.Order) (id int64, err error) {
	defer func() { metrics.ObserveDB("orders.create", err) }()

	err = s.db.QueryRow(ctx,
		`INSERT INTO orders (user_id, cart_id, promo_code, status, subtotal, shipping_cost, total_amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING order_id`,
		o.UserID, o.CartID, o.PromoCode, string(o.Status), o.Subtotal, o.ShippingCost, o.TotalAmount, o.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, database.Wrap("orders.create", err)
	}

	for i, item := range o.Items {
		_, err = s.db.Exec(ctx,
			`INSERT INTO order_items (order_id, line_no, book_id, title, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, i+1, item.BookID, item.Title, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return 0, database.Wrap("orders.create_item", err)
		}
	}

	o.ID = id
	return id, nil
}

// UpdateStatus sets the order status and bumps updated_at.
func (s *PostgresStore) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (err error) {
	defer func() { metrics.ObserveDB("orders.update_status", err) }()

	tag, err := s.db.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = now() WHERE order_id = $2`,
		string(status), orderID,
	)
	if err != nil {
		return database.Wrap("orders.update_status", err)
	}
	if tag.RowsAffected() == 0 {
		return database.NotFound("orders.update_status")
	}
	return nil
}

// Get loads the order and its items.
func (s *PostgresStore) Get(ctx context.Context, orderID int64) (o *domain.Order, err error) {
	defer func() { metrics.ObserveDB("orders.get", err) }()

	var (
		order                           domain.Order
		status                          string
		subtotal, shipping, totalAmount string
	)
	err = s.db.QueryRow(ctx,
		`SELECT order_id, user_id, cart_id, promo_code, status, subtotal::text, shipping_cost::text, total_amount::text, created_at
		 FROM orders WHERE order_id = $1`,
		orderID,
	).Scan(&order.ID, &order.UserID, &order.CartID, &order.PromoCode, &status, &subtotal, &shipping, &totalAmount, &order.CreatedAt)
	if err != nil {
		return nil, database.Wrap("orders.get", err)
	}
	order.Status = domain.OrderStatus(status)

	if order.Subtotal, err = parseMoney(subtotal); err != nil {
		return nil, database.Wrap("orders.get", err)
	}
	if order.ShippingCost, err = parseMoney(shipping); err != nil {
		return nil, database.Wrap("orders.get", err)
	}
	if order.TotalAmount, err = parseMoney(totalAmount); err != nil {
		return nil, database.Wrap("orders.get", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT book_id, title, quantity, unit_price::text FROM order_items WHERE order_id = $1 ORDER BY line_no`,
		orderID,
	)
	if err != nil {
		return nil, database.Wrap("orders.get_items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item  domain.OrderItem
			price string
		)
		if err := rows.Scan(&item.BookID, &item.Title, &item.Quantity, &price); err != nil {
			return nil, database.Wrap("orders.get_items", err)
		}
		if item.UnitPrice, err = parseMoney(price); err != nil {
			return nil, database.Wrap("orders.get_items", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("orders.get_items", err)
	}

	return &order, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
