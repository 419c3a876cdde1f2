package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookstore"

var (
	// CheckoutsTotal counts finished checkouts by terminal state.
	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "total",
		Help:      "Finished checkouts by terminal state.",
	}, []string{"state"})

	// CheckoutDuration observes end-to-end checkout latency.
	CheckoutDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "duration_seconds",
		Help:      "Checkout processing time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"state"})

	// ShippingFallbacksTotal counts calculations that returned the flat-rate fallback.
	ShippingFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shipping",
		Name:      "fallbacks_total",
		Help:      "Shipping calculations that used the fallback rate.",
	}, []string{"method", "reason"})

	// GeocodeCacheTotal counts geocode cache lookups by result (hit, miss, error).
	GeocodeCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "geocode_cache",
		Name:      "lookups_total",
		Help:      "Geocode cache lookups by result.",
	}, []string{"result"})

	// DBOperationsTotal counts store operations by operation and outcome.
	DBOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "operations_total",
		Help:      "Store operations by outcome.",
	}, []string{"operation", "status"})

	// HTTPRequests observes handled requests by route and status.
	HTTPRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// ObserveCheckout records a finished checkout.
func ObserveCheckout(state string, d time.Duration) {
	CheckoutsTotal.WithLabelValues(state).Inc()
	CheckoutDuration.WithLabelValues(state).Observe(d.Seconds())
}

// ObserveDB records the outcome of a store operation.
func ObserveDB(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DBOperationsTotal.WithLabelValues(operation, status).Inc()
}

// Middleware records request latency for every route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Label values outlive the request; fiber's strings alias its reused buffers.
		method := utils.CopyString(c.Method())
		route := utils.CopyString(c.Route().Path)
		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
