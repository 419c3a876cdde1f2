package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"bookstore-checkout/internal/core/cache"
	"bookstore-checkout/internal/core/logger"
	"bookstore-checkout/internal/core/metrics"
	"bookstore-checkout/internal/features/shipping/domain"
	"bookstore-checkout/internal/features/shipping/ports"

	"go.uber.org/zap"
)

// CachedGeocoder memoizes another Geocoder in a Cache.
// Cache failures never fail a lookup; they fall through to the wrapped geocoder.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedGeocoder wraps next with cache.
func NewCachedGeocoder(next ports.Geocoder, c cache.Cache, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: c, ttl: ttl}
}

// Geocode returns the cached coordinates for query, resolving and storing them on a miss.
func (g *CachedGeocoder) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	key := cacheKey(query)
	log := logger.FromContext(ctx)

	raw, err := g.cache.Get(ctx, key)
	switch {
	case err == nil:
		var coords domain.Coordinates
		if jsonErr := json.Unmarshal(raw, &coords); jsonErr == nil {
			metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
			return coords, nil
		}
		metrics.GeocodeCacheTotal.WithLabelValues("error").Inc()
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.GeocodeCacheTotal.WithLabelValues("error").Inc()
		log.Warn("Geocode cache read failed", zap.String("key", key), zap.Error(err))
	}

	coords, err := g.next.Geocode(ctx, query)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if data, err := json.Marshal(coords); err == nil {
		if err := g.cache.Set(ctx, key, data, g.ttl); err != nil {
			log.Warn("Geocode cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return coords, nil
}

func cacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
