package adapters

import (
	"context"
	"fmt"

	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/core/metrics"
	"bookstore-checkout/internal/features/shipping/domain"

	"github.com/shopspring/decimal"
)

// PostgresStore implements ports.ShippingStore on PostgreSQL.
type PostgresStore struct {
	db database.DBTX
}

// NewPostgresStore binds the store to a pool or an open transaction.
func NewPostgresStore(db database.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the shipment and returns its ship_id.
func (s *PostgresStore) Create(ctx context.Context, sh *domain.Shipping) (id int64, err error) {
	defer func() { metrics.ObserveDB("shipping.create", err) }()

	err = s.db.QueryRow(ctx,
		`INSERT INTO shipping_details (order_id, street, city, zip, country, method, cost, delivery_estimate, tracking_number, distance_miles, is_estimate, shipped_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING ship_id`,
		sh.OrderID, sh.Address.Street, sh.Address.City, sh.Address.PostalCode, sh.Address.Country,
		string(sh.Method), sh.Cost, sh.DeliveryEstimate, sh.TrackingNumber, sh.DistanceMiles, sh.IsEstimate, sh.ShippedAt,
	).Scan(&id)
	if err != nil {
		return 0, database.Wrap("shipping.create", err)
	}
	sh.ID = id
	return id, nil
}

// Update rewrites the estimate, tracking number and shipped timestamp.
func (s *PostgresStore) Update(ctx context.Context, sh *domain.Shipping) (err error) {
	defer func() { metrics.ObserveDB("shipping.update", err) }()

	tag, err := s.db.Exec(ctx,
		`UPDATE shipping_details SET delivery_estimate = $1, tracking_number = $2, shipped_at = $3 WHERE order_id = $4`,
		sh.DeliveryEstimate, sh.TrackingNumber, sh.ShippedAt, sh.OrderID,
	)
	if err != nil {
		return database.Wrap("shipping.update", err)
	}
	if tag.RowsAffected() == 0 {
		return database.NotFound("shipping.update")
	}
	return nil
}

// GetByOrderID loads the shipment attached to orderID.
func (s *PostgresStore) GetByOrderID(ctx context.Context, orderID int64) (*domain.Shipping, error) {
	var (
		sh     domain.Shipping
		method string
		cost   string
	)
	err := s.db.QueryRow(ctx,
		`SELECT ship_id, order_id, street, city, zip, country, method, cost::text, delivery_estimate, tracking_number, distance_miles, is_estimate, shipped_at
		 FROM shipping_details WHERE order_id = $1`,
		orderID,
	).Scan(&sh.ID, &sh.OrderID, &sh.Address.Street, &sh.Address.City, &sh.Address.PostalCode, &sh.Address.Country,
		&method, &cost, &sh.DeliveryEstimate, &sh.TrackingNumber, &sh.DistanceMiles, &sh.IsEstimate, &sh.ShippedAt)
	metrics.ObserveDB("shipping.get", err)
	if err != nil {
		return nil, database.Wrap("shipping.get", err)
	}

	sh.Cost, err = decimal.NewFromString(cost)
	if err != nil {
		return nil, database.Wrap("shipping.get", fmt.Errorf("invalid cost %q: %w", cost, err))
	}
	sh.Method = domain.Method(method)
	return &sh, nil
}
