package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookstore-checkout/internal/core/config"
	"bookstore-checkout/internal/core/logger"
	"bookstore-checkout/internal/core/metrics"
	"bookstore-checkout/internal/core/validation"
	"bookstore-checkout/internal/features/shipping/domain"
	"bookstore-checkout/internal/features/shipping/ports"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const metersPerMile = 1609.34

var tracer = otel.Tracer("bookstore-checkout/shipping")

// Rate is the pricing of one shipping tier.
type Rate struct {
	Base    decimal.Decimal
	PerMile decimal.Decimal
}

// CalculatorConfig holds the rate table and lookup settings.
type CalculatorConfig struct {
	// Origin is the warehouse address every shipment leaves from.
	Origin string
	// Rates maps each tier to its pricing.
	Rates map[domain.Method]Rate
	// SupportedCountries lists accepted destination countries, compared case-insensitively.
	SupportedCountries []string
	// SameDayRadiusMiles is the distance within which same-day delivery is promised.
	SameDayRadiusMiles float64
	// LookupTimeout bounds the geocode and route calls.
	LookupTimeout time.Duration
}

// DefaultCalculatorConfig returns the standard rate table.
func DefaultCalculatorConfig() CalculatorConfig {
	return ConfigFrom(config.ShippingConfig{
		WarehouseAddress:     "350 5th Ave, New York, 10118, USA",
		LookupTimeout:        30 * time.Second,
		SameDayRadiusMiles:   50,
		SupportedCountries:   []string{"USA", "US", "United States", "Canada", "CA", "UK", "GB", "United Kingdom"},
		StandardBase:         4.99,
		StandardPerMile:      0.10,
		ExpressBase:          9.99,
		ExpressPerMile:       0.25,
		SameDayBase:          19.99,
		SameDayPerMile:       0.75,
		InternationalBase:    24.99,
		InternationalPerMile: 0.15,
	})
}

// ConfigFrom maps the shipping section of the application config.
func ConfigFrom(cfg config.ShippingConfig) CalculatorConfig {
	return CalculatorConfig{
		Origin: cfg.WarehouseAddress,
		Rates: map[domain.Method]Rate{
			domain.MethodStandard:      {decimal.NewFromFloat(cfg.StandardBase), decimal.NewFromFloat(cfg.StandardPerMile)},
			domain.MethodExpress:       {decimal.NewFromFloat(cfg.ExpressBase), decimal.NewFromFloat(cfg.ExpressPerMile)},
			domain.MethodSameDay:       {decimal.NewFromFloat(cfg.SameDayBase), decimal.NewFromFloat(cfg.SameDayPerMile)},
			domain.MethodInternational: {decimal.NewFromFloat(cfg.InternationalBase), decimal.NewFromFloat(cfg.InternationalPerMile)},
		},
		SupportedCountries: cfg.SupportedCountries,
		SameDayRadiusMiles: cfg.SameDayRadiusMiles,
		LookupTimeout:      cfg.LookupTimeout,
	}
}

// Calculator prices a shipment from the driving distance between the
// warehouse and the destination.
type Calculator struct {
	geocoder ports.Geocoder
	router   ports.Router
	cfg      CalculatorConfig
}

// NewCalculator creates a Calculator.
func NewCalculator(geocoder ports.Geocoder, router ports.Router, cfg CalculatorConfig) *Calculator {
	return &Calculator{
		geocoder: geocoder,
		router:   router,
		cfg:      cfg,
	}
}

// Calculate returns the shipping option for address and method. It never
// fails: lookup errors yield the flat-rate fallback, and addresses or methods
// that cannot be served yield an unavailable option.
func (c *Calculator) Calculate(ctx context.Context, address domain.Address, method domain.Method) domain.Option {
	ctx, span := tracer.Start(ctx, "shipping.calculate")
	defer span.End()
	span.SetAttributes(
		attribute.String("shipping.method", string(method)),
		attribute.String("shipping.country", address.Country),
	)

	method, ok := domain.ParseMethod(string(method))
	if !ok {
		return domain.Unavailable(method, fmt.Sprintf("unknown shipping method %q", method))
	}
	if !address.IsValid() {
		return domain.Unavailable(method, "street and postal code are required")
	}
	if !c.supports(address.Country) {
		return domain.Unavailable(method, fmt.Sprintf("shipping to %q is not supported", address.Country))
	}
	rate, ok := c.cfg.Rates[method]
	if !ok {
		return domain.Unavailable(method, fmt.Sprintf("no rate configured for %s", method))
	}

	if c.cfg.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.LookupTimeout)
		defer cancel()
	}

	miles, err := c.distanceMiles(ctx, address)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "distance lookup failed")
		return c.fallback(ctx, method, address, err)
	}

	cost := rate.Base.Add(rate.PerMile.Mul(decimal.NewFromFloat(miles))).Round(2)
	span.SetAttributes(attribute.Float64("shipping.distance_miles", miles))

	return domain.Option{
		Method:        method,
		Available:     true,
		Cost:          cost,
		Estimate:      c.estimate(method, miles),
		DistanceMiles: miles,
	}
}

// distanceMiles geocodes both ends concurrently, then asks the router for the distance.
func (c *Calculator) distanceMiles(ctx context.Context, address domain.Address) (float64, error) {
	var from, to domain.Coordinates

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		from, err = c.geocoder.Geocode(gctx, c.cfg.Origin)
		if err != nil {
			return fmt.Errorf("geocode origin: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		to, err = c.geocoder.Geocode(gctx, address.String())
		if err != nil {
			return fmt.Errorf("geocode destination: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	meters, err := c.router.Distance(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("route: %w", err)
	}
	return meters / metersPerMile, nil
}

func (c *Calculator) fallback(ctx context.Context, method domain.Method, address domain.Address, cause error) domain.Option {
	reason := "lookup_failed"
	if ctx.Err() != nil {
		reason = "timeout"
	}
	metrics.ShippingFallbacksTotal.WithLabelValues(string(method), reason).Inc()

	logger.FromContext(ctx).Warn("Shipping calculation fell back to flat rate",
		zap.String("code", string(validation.CodeShippingCalculationError)),
		zap.String("method", string(method)),
		zap.String("destination", address.String()),
		zap.String("reason", reason),
		zap.Error(cause),
	)
	return domain.Fallback(method)
}

func (c *Calculator) supports(country string) bool {
	country = strings.TrimSpace(country)
	if len(c.cfg.SupportedCountries) == 0 {
		return country != ""
	}
	for _, s := range c.cfg.SupportedCountries {
		if strings.EqualFold(strings.TrimSpace(s), country) {
			return true
		}
	}
	return false
}

func (c *Calculator) estimate(method domain.Method, miles float64) string {
	switch method {
	case domain.MethodExpress:
		if miles <= 500 {
			return "1-2 business days"
		}
		return "2-3 business days"
	case domain.MethodSameDay:
		if miles <= c.cfg.SameDayRadiusMiles {
			return "Same day"
		}
		return "Next business day"
	case domain.MethodInternational:
		return "7-14 business days"
	default:
		switch {
		case miles <= 100:
			return "2-3 business days"
		case miles <= 500:
			return "3-5 business days"
		default:
			return "5-7 business days"
		}
	}
}
