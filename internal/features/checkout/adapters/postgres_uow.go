package adapters

import (
	"context"

	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/features/checkout/ports"
	orderadapters "bookstore-checkout/internal/features/orders/adapters"
	paymentadapters "bookstore-checkout/internal/features/payments/adapters"
	shippingadapters "bookstore-checkout/internal/features/shipping/adapters"

	"github.com/jackc/pgx/v5"
)

// PostgresUnitOfWork binds the three Postgres stores to one read-committed
// transaction per Do.
type PostgresUnitOfWork struct {
	tx *database.Transactor
}

// NewPostgresUnitOfWork creates a unit of work over db, normally a *pgxpool.Pool.
func NewPostgresUnitOfWork(db database.Beginner) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{tx: database.NewTransactor(db)}
}

// Do implements ports.UnitOfWork.
func (u *PostgresUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores ports.Stores) error) error {
	return u.tx.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, ports.Stores{
			Orders:   orderadapters.NewPostgresStore(tx),
			Payments: paymentadapters.NewPostgresStore(tx),
			Shipping: shippingadapters.NewPostgresStore(tx),
		})
	})
}
