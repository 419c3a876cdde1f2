package adapters

import (
	"context"
	"fmt"

	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/core/metrics"
	"bookstore-checkout/internal/features/payments/domain"

	"github.com/shopspring/decimal"
)

// PostgresStore implements ports.PaymentStore on PostgreSQL.
type PostgresStore struct {
	db database.DBTX
}

// NewPostgresStore binds the store to a pool or an open transaction.
func NewPostgresStore(db database.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the payment and returns its checkout_id.
func (s *PostgresStore) Create(ctx context.Context, p *domain.Payment) (id int64, err error) {
	defer func() { metrics.ObserveDB("payments.create", err) }()

	err = s.db.QueryRow(ctx,
		`INSERT INTO payments (order_id, masked_card_number, card_brand, expiry_date, amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING checkout_id`,
		p.OrderID, p.MaskedCardNumber, string(p.CardBrand), p.Expiry, p.Amount, string(p.Status), p.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, database.Wrap("payments.create", err)
	}
	p.ID = id
	return id, nil
}

// UpdateStatus sets the status of the payment attached to orderID.
func (s *PostgresStore) UpdateStatus(ctx context.Context, orderID int64, status domain.PaymentStatus) (err error) {
	defer func() { metrics.ObserveDB("payments.update_status", err) }()

	tag, err := s.db.Exec(ctx, `UPDATE payments SET status = $1 WHERE order_id = $2`, string(status), orderID)
	if err != nil {
		return database.Wrap("payments.update_status", err)
	}
	if tag.RowsAffected() == 0 {
		return database.NotFound("payments.update_status")
	}
	return nil
}

// GetByOrderID loads the payment attached to orderID.
func (s *PostgresStore) GetByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error) {
	var (
		p      domain.Payment
		brand  string
		status string
		amount string
	)
	err := s.db.QueryRow(ctx,
		`SELECT checkout_id, order_id, masked_card_number, card_brand, expiry_date, amount::text, status, created_at
		 FROM payments WHERE order_id = $1`,
		orderID,
	).Scan(&p.ID, &p.OrderID, &p.MaskedCardNumber, &brand, &p.Expiry, &amount, &status, &p.CreatedAt)
	metrics.ObserveDB("payments.get", err)
	if err != nil {
		return nil, database.Wrap("payments.get", err)
	}

	p.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, database.Wrap("payments.get", fmt.Errorf("invalid amount %q: %w", amount, err))
	}
	p.CardBrand = domain.CardBrand(brand)
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}
