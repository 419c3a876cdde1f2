package adapters

import (
	"context"
	"testing"
	"time"

	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/features/orders/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *domain.Order {
	return domain.NewOrder("u1", "c1", "", []domain.OrderItem{
		{BookID: "b1", Title: "Dune", Quantity: 2, UnitPrice: decimal.RequireFromString("10.99")},
		{BookID: "b2", Title: "Emma", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	}, decimal.RequireFromString("8.99"), time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
}

// TestPostgresStore_Create verifies the order and item inserts run in order.
func TestPostgresStore_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("u1", "c1", "", "Pending", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"order_id"}).AddRow(int64(42)))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(int64(42), 1, "b1", "Dune", 2, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(int64(42), 2, "b2", "Emma", 1, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	o := testOrder()
	id, err := NewPostgresStore(mock).Create(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, int64(42), o.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresStore_Create_ItemConstraint verifies item failures are classified.
func TestPostgresStore_Create_ItemConstraint(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(pgxmock.NewRows([]string{"order_id"}).AddRow(int64(42)))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnError(&pgconn.PgError{Code: "23514"})

	_, err = NewPostgresStore(mock).Create(context.Background(), testOrder())
	assert.Equal(t, database.KindConstraint, database.KindOf(err))
}

// TestPostgresStore_UpdateStatus_NotFound verifies zero affected rows is reported as not found.
func TestPostgresStore_UpdateStatus_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("Processing", int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = NewPostgresStore(mock).UpdateStatus(context.Background(), 5, domain.OrderStatusProcessing)
	assert.True(t, database.IsNotFound(err))
}

// TestPostgresStore_Get verifies the order and its items are mapped.
func TestPostgresStore_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{
			"order_id", "user_id", "cart_id", "promo_code", "status", "subtotal", "shipping_cost", "total_amount", "created_at",
		}).AddRow(int64(42), "u1", "c1", "", "Processing", "26.98", "8.99", "35.97", created))
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"book_id", "title", "quantity", "unit_price"}).
			AddRow("b1", "Dune", 2, "10.99").
			AddRow("b2", "Emma", 1, "5.00"))

	o, err := NewPostgresStore(mock).Get(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusProcessing, o.Status)
	assert.True(t, decimal.RequireFromString("35.97").Equal(o.TotalAmount))
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Dune", o.Items[0].Title)
	assert.True(t, decimal.RequireFromString("10.99").Equal(o.Items[0].UnitPrice))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresStore_Get_NotFound verifies missing orders map to KindNotFound.
func TestPostgresStore_Get_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM orders").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPostgresStore(mock).Get(context.Background(), 404)
	assert.True(t, database.IsNotFound(err))
}
