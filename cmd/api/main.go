package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore-checkout/internal/core/cache"
	"bookstore-checkout/internal/core/config"
	"bookstore-checkout/internal/core/database"
	"bookstore-checkout/internal/core/httpclient"
	"bookstore-checkout/internal/core/logger"
	"bookstore-checkout/internal/core/messaging"
	"bookstore-checkout/internal/core/proxy"
	"bookstore-checkout/internal/core/server"
	"bookstore-checkout/internal/core/telemetry"
	checkoutadapters "bookstore-checkout/internal/features/checkout/adapters"
	checkouthandler "bookstore-checkout/internal/features/checkout/handler"
	checkoutports "bookstore-checkout/internal/features/checkout/ports"
	checkoutservice "bookstore-checkout/internal/features/checkout/service"
	orderhandler "bookstore-checkout/internal/features/orders/handler"
	orderservice "bookstore-checkout/internal/features/orders/service"
	paymentservice "bookstore-checkout/internal/features/payments/service"
	shippingadapters "bookstore-checkout/internal/features/shipping/adapters"
	shippinghandler "bookstore-checkout/internal/features/shipping/handler"
	shippingports "bookstore-checkout/internal/features/shipping/ports"
	shippingservice "bookstore-checkout/internal/features/shipping/service"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// @title Bookstore Checkout API
// @version 1.0
// @description Checkout orchestration for the bookstore: payment validation, shipping quotes and atomic order placement.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel, cfg.ServiceName); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("storage_driver", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		l.Fatal("Failed to init tracer", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			l.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	srv := server.New(cfg)

	// Storage
	var uow checkoutports.UnitOfWork
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			l.Fatal("Database connection failed", zap.Error(err))
		}
		defer pool.Close()

		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, pool); err != nil {
				l.Fatal("Database migration failed", zap.Error(err))
			}
			l.Info("Database schema applied")
		}

		uow = checkoutadapters.NewPostgresUnitOfWork(pool)
		srv.AddHealthCheck("database", pool.Ping)
	default:
		l.Warn("Using in-memory storage, orders are lost on restart")
		uow = checkoutadapters.NewMemoryUnitOfWork()
	}

	// Shipping lookups
	client := httpclient.NewClient(cfg.Shipping.LookupTimeout,
		httpclient.WithUserAgent(shippingadapters.UserAgent),
		httpclient.WithProxy(proxy.FromConfig(cfg.Proxy)),
	)

	var geocoder shippingports.Geocoder = shippingadapters.NewNominatimGeocoder(client, cfg.Shipping.GeocoderURL)
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL, "geocode")
		if err != nil {
			l.Fatal("Invalid Redis configuration", zap.Error(err))
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			l.Warn("Redis unreachable, geocoding will bypass the cache until it recovers", zap.Error(err))
		}
		geocoder = shippingadapters.NewCachedGeocoder(geocoder, redisCache, cfg.Redis.GeocodeTTL)
		srv.AddHealthCheck("cache", redisCache.Ping)
	}
	router := shippingadapters.NewOSRMRouter(client, cfg.Shipping.RouterURL)
	calculator := shippingservice.NewCalculator(geocoder, router, shippingservice.ConfigFrom(cfg.Shipping))

	// Events
	var publisher checkoutports.EventPublisher = checkoutadapters.NoopPublisher{}
	if kafkaClient := messaging.NewClient(cfg.Kafka.Brokers); kafkaClient.Enabled() {
		publisher = checkoutadapters.NewKafkaPublisher(kafkaClient.NewWriter(cfg.Kafka.Topic))
		l.Info("Publishing order events", zap.Strings("brokers", kafkaClient.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			l.Warn("Event publisher close failed", zap.Error(err))
		}
	}()

	// Services & Handlers
	validator := paymentservice.NewValidator(paymentservice.ConfigFrom(cfg.Payment))
	engine := checkoutservice.NewEngine(validator, calculator, uow, checkoutservice.WithPublisher(publisher))

	checkoutHdl := checkouthandler.NewCheckoutHandler(engine)
	orderHdl := orderhandler.NewOrderHandler(orderservice.NewOrderService(uow))
	estimateHdl := shippinghandler.NewEstimateHandler(calculator)

	// Register Routes
	srv.App.Post("/checkout", checkoutHdl.Checkout)
	srv.App.Get("/shipping/estimate", estimateHdl.GetEstimate)
	srv.App.Get("/orders/:id", orderHdl.GetOrder)
	srv.App.Put("/orders/:id/status", orderHdl.UpdateStatus)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			l.Error("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		l.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}
