package ports

import (
	"context"
	"errors"

	"bookstore-checkout/internal/features/shipping/domain"
)

// ErrNoResults is returned by a Geocoder when the query matched nothing.
var ErrNoResults = errors.New("geocoder returned no results")

// Geocoder resolves a free-form address into coordinates.
// This is a Secondary Port (Driven Port).
type Geocoder interface {
	Geocode(ctx context.Context, query string) (domain.Coordinates, error)
}

// Router computes the driving distance in meters between two points.
// This is a Secondary Port (Driven Port).
type Router interface {
	Distance(ctx context.Context, from, to domain.Coordinates) (float64, error)
}

// ShippingStore persists shipment records.
// This is a Secondary Port (Driven Port). Failures are *database.Error values.
type ShippingStore interface {
	// Create inserts the record and returns its identifier.
	Create(ctx context.Context, shipping *domain.Shipping) (int64, error)
	// Update rewrites the mutable fields of the record attached to shipping.OrderID.
	Update(ctx context.Context, shipping *domain.Shipping) error
	// GetByOrderID loads the record attached to orderID.
	GetByOrderID(ctx context.Context, orderID int64) (*domain.Shipping, error)
}
