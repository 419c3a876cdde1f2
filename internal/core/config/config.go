package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StorageDriver values accepted by STORAGE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// ServiceName identifies this process in logs, traces and metrics.
	ServiceName string `mapstructure:"SERVICE_NAME" default:"bookstore-checkout"`

	// Database holds the persistence configuration.
	Database DatabaseConfig `mapstructure:",squash"`
	// Redis holds the cache configuration.
	Redis RedisConfig `mapstructure:",squash"`
	// Kafka holds the event publishing configuration.
	Kafka KafkaConfig `mapstructure:",squash"`
	// Telemetry holds the tracing configuration.
	Telemetry TelemetryConfig `mapstructure:",squash"`
	// Payment holds the card acceptance rules.
	Payment PaymentConfig `mapstructure:",squash"`
	// Shipping holds the rate table and lookup endpoints.
	Shipping ShippingConfig `mapstructure:",squash"`
	// Proxy holds the optional outbound proxy used for geocoding and routing calls.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// Driver selects the storage backend: "postgres" or "memory".
	Driver string `mapstructure:"STORAGE_DRIVER" default:"postgres"`
	// URL is the PostgreSQL connection string. Required for the postgres driver.
	URL string `mapstructure:"DATABASE_URL"`
	// MaxConns caps the connection pool size.
	MaxConns int `mapstructure:"DB_MAX_CONNS" default:"10"`
	// AutoMigrate applies the embedded schema on startup.
	AutoMigrate bool `mapstructure:"DB_AUTO_MIGRATE" default:"true"`
}

// RedisConfig holds the geocode cache settings.
type RedisConfig struct {
	// URL is the Redis connection string. Caching is disabled when empty.
	URL string `mapstructure:"REDIS_URL"`
	// GeocodeTTL is how long resolved coordinates stay cached.
	GeocodeTTL time.Duration `mapstructure:"GEOCODE_CACHE_TTL" default:"24h"`
}

// KafkaConfig holds the order event publisher settings.
type KafkaConfig struct {
	// Brokers is a comma separated broker list. Publishing is disabled when empty.
	Brokers string `mapstructure:"KAFKA_BROKERS"`
	// Topic receives order.placed events.
	Topic string `mapstructure:"KAFKA_TOPIC" default:"checkout.orders"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	// Enabled turns on the OTLP HTTP trace exporter.
	Enabled bool `mapstructure:"OTEL_ENABLED" default:"false"`
}

// PaymentConfig holds the payment validation rules.
type PaymentConfig struct {
	// AcceptedBrands lists the card brands the store takes.
	AcceptedBrands []string `mapstructure:"PAYMENT_ACCEPTED_BRANDS" default:"Visa,Mastercard,AmericanExpress,Discover"`
	// BlockedCountries lists billing countries that are refused.
	BlockedCountries []string `mapstructure:"PAYMENT_BLOCKED_COUNTRIES"`
	// ExpiryGrace is how long past its expiry date a card is still accepted.
	ExpiryGrace time.Duration `mapstructure:"PAYMENT_EXPIRY_GRACE" default:"120h"`
}

// ShippingConfig holds the shipping rate table and lookup endpoints.
type ShippingConfig struct {
	// WarehouseAddress is the origin of every shipment.
	WarehouseAddress string `mapstructure:"SHIPPING_WAREHOUSE_ADDRESS" required:"true" default:"350 5th Ave, New York, 10118, USA"`
	// GeocoderURL is the Nominatim base URL.
	GeocoderURL string `mapstructure:"SHIPPING_GEOCODER_URL" required:"true" default:"https://nominatim.openstreetmap.org"`
	// RouterURL is the OSRM base URL.
	RouterURL string `mapstructure:"SHIPPING_ROUTER_URL" required:"true" default:"https://router.project-osrm.org"`
	// LookupTimeout bounds the geocode and route calls of one calculation.
	LookupTimeout time.Duration `mapstructure:"SHIPPING_LOOKUP_TIMEOUT" default:"30s"`
	// SameDayRadiusMiles is the distance under which same-day delivery is promised.
	SameDayRadiusMiles float64 `mapstructure:"SHIPPING_SAME_DAY_RADIUS_MILES" default:"50"`
	// SupportedCountries lists destination countries we ship to.
	SupportedCountries []string `mapstructure:"SHIPPING_SUPPORTED_COUNTRIES" default:"USA,US,United States,Canada,CA,UK,GB,United Kingdom"`

	StandardBase         float64 `mapstructure:"SHIPPING_STANDARD_BASE" default:"4.99"`
	StandardPerMile      float64 `mapstructure:"SHIPPING_STANDARD_PER_MILE" default:"0.10"`
	ExpressBase          float64 `mapstructure:"SHIPPING_EXPRESS_BASE" default:"9.99"`
	ExpressPerMile       float64 `mapstructure:"SHIPPING_EXPRESS_PER_MILE" default:"0.25"`
	SameDayBase          float64 `mapstructure:"SHIPPING_SAME_DAY_BASE" default:"19.99"`
	SameDayPerMile       float64 `mapstructure:"SHIPPING_SAME_DAY_PER_MILE" default:"0.75"`
	InternationalBase    float64 `mapstructure:"SHIPPING_INTERNATIONAL_BASE" default:"24.99"`
	InternationalPerMile float64 `mapstructure:"SHIPPING_INTERNATIONAL_PER_MILE" default:"0.15"`
}

// ProxyConfig holds the outbound proxy credentials.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"OUTBOUND_PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"OUTBOUND_PROXY_HOST"`
	Port     int    `mapstructure:"OUTBOUND_PROXY_PORT"`
	Username string `mapstructure:"OUTBOUND_PROXY_USER"`
	Password string `mapstructure:"OUTBOUND_PROXY_PASSWORD"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := validateStorage(&config.Database); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key == "" {
			continue
		}

		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}

		if defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// validateStorage enforces the driver specific requirements.
func validateStorage(db *DatabaseConfig) error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))

	switch db.Driver {
	case DriverPostgres:
		if db.URL == "" {
			return fmt.Errorf("missing required configuration: DATABASE_URL")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER: %q", db.Driver)
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
