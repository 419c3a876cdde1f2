package database

import (
	"context"

	"bookstore-checkout/internal/core/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so stores work inside and
// outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner opens transactions.
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Transactor runs functions inside a read-committed transaction.
type Transactor struct {
	db   Beginner
	opts pgx.TxOptions
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db Beginner) *Transactor {
	return &Transactor{
		db:   db,
		opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// InTx begins a transaction, runs fn and commits when fn succeeds. The
// transaction is rolled back on every other exit path, including context
// cancellation observed before commit.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := t.db.BeginTx(ctx, t.opts)
	if err != nil {
		return Wrap("tx.begin", err)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			logger.FromContext(ctx).Warn("Transaction rollback failed", zap.Error(rbErr))
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return Wrap("tx.commit", err)
	}

	finished = true
	if err := tx.Commit(ctx); err != nil {
		return Wrap("tx.commit", err)
	}
	return nil
}
