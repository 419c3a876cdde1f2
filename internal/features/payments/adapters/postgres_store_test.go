package adapters

import (
	"context"
	"testing"
	"time"

	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/features/payments/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostgresStore_Create verifies the insert returns the generated id.
func TestPostgresStore_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(int64(7), "************1111", "Visa", "12/30", pgxmock.AnyArg(), "Pending", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"checkout_id"}).AddRow(int64(3)))

	p := &domain.Payment{
		OrderID:          7,
		MaskedCardNumber: "************1111",
		CardBrand:        domain.CardBrandVisa,
		Expiry:           "12/30",
		Amount:           decimal.RequireFromString("35.97"),
		Status:           domain.PaymentStatusPending,
		CreatedAt:        time.Now(),
	}

	id, err := NewPostgresStore(mock).Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, int64(3), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresStore_UpdateStatus_NotFound verifies zero affected rows is reported as not found.
func TestPostgresStore_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("Completed", int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = NewPostgresStore(mock).UpdateStatus(context.Background(), 99, domain.PaymentStatusCompleted)
	assert.True(t, database.IsNotFound(err))
}

// TestPostgresStore_UpdateStatus verifies a matched update succeeds.
func TestPostgresStore_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("Completed", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, NewPostgresStore(mock).UpdateStatus(context.Background(), 7, domain.PaymentStatusCompleted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresStore_GetByOrderID verifies row mapping including the decimal amount.
func TestPostgresStore_GetByOrderID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{
			"checkout_id", "order_id", "masked_card_number", "card_brand", "expiry_date", "amount", "status", "created_at",
		}).AddRow(int64(3), int64(7), "************1111", "Visa", "12/30", "35.97", "Completed", created))

	p, err := NewPostgresStore(mock).GetByOrderID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.CardBrandVisa, p.CardBrand)
	assert.Equal(t, domain.PaymentStatusCompleted, p.Status)
	assert.True(t, decimal.RequireFromString("35.97").Equal(p.Amount))
	assert.Equal(t, created, p.CreatedAt)
}

// TestPostgresStore_GetByOrderID_NotFound verifies missing rows map to KindNotFound.
func TestPostgresStore_GetByOrderID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(int64(8)).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPostgresStore(mock).GetByOrderID(context.Background(), 8)
	assert.True(t, database.IsNotFound(err))
}
