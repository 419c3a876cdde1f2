package adapters

import (
	"context"
	"testing"
	"time"

	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/features/shipping/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShipping() *domain.Shipping {
	return &domain.Shipping{
		OrderID:          7,
		Address:          domain.Address{Street: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "USA"},
		Method:           domain.MethodStandard,
		Cost:             decimal.RequireFromString("9.00"),
		DeliveryEstimate: "3-5 business days",
		TrackingNumber:   "TRK-20260301-ABCDEF12",
		DistanceMiles:    40.1,
	}
}

// TestPostgresStore_Create verifies the insert returns the generated id.
func TestPostgresStore_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	sh := testShipping()
	mock.ExpectQuery("INSERT INTO shipping_details").
		WithArgs(int64(7), "1 Main St", "Springfield", "12345", "USA", "Standard", pgxmock.AnyArg(),
			"3-5 business days", "TRK-20260301-ABCDEF12", 40.1, false, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"ship_id"}).AddRow(int64(11)))

	id, err := NewPostgresStore(mock).Create(context.Background(), sh)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.Equal(t, int64(11), sh.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresStore_Update verifies the shipped timestamp is written and misses are reported.
func TestPostgresStore_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	shippedAt := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	sh := testShipping()
	sh.ShippedAt = &shippedAt

	mock.ExpectExec("UPDATE shipping_details").
		WithArgs("3-5 business days", "TRK-20260301-ABCDEF12", &shippedAt, int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE shipping_details").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	store := NewPostgresStore(mock)
	require.NoError(t, store.Update(context.Background(), sh))
	assert.True(t, database.IsNotFound(store.Update(context.Background(), sh)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgresStore_GetByOrderID verifies row mapping.
func TestPostgresStore_GetByOrderID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	var shippedAt *time.Time
	mock.ExpectQuery("SELECT (.+) FROM shipping_details").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{
			"ship_id", "order_id", "street", "city", "zip", "country", "method", "cost",
			"delivery_estimate", "tracking_number", "distance_miles", "is_estimate", "shipped_at",
		}).AddRow(int64(11), int64(7), "1 Main St", "Springfield", "12345", "USA", "Express", "14.99",
			"2-3 business days", "TRK-1", 0.0, true, shippedAt))

	sh, err := NewPostgresStore(mock).GetByOrderID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.MethodExpress, sh.Method)
	assert.True(t, decimal.RequireFromString("14.99").Equal(sh.Cost))
	assert.True(t, sh.IsEstimate)
	assert.Nil(t, sh.ShippedAt)
	assert.Equal(t, "12345", sh.Address.PostalCode)
}
