package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"parkade/pkg/client"
	"parkade/pkg/logger"
)

type Config struct {
	PostgresDSN         string
	PostgresConnTimeout time.Duration

	Port string

	UsersURL    string
	ParkingURL  string
	BookingsURL string
	PaymentsURL string

	GeocoderURL     string
	GeocoderAPIKey  string
	GeocodeCacheTTL time.Duration

	HTTPClientTimeout time.Duration

	BookingTopic string

	BreakerFailureThreshold float64
	BreakerMinRequests      int
	BookingBreakerCooldown  time.Duration
	PaymentBreakerCooldown  time.Duration

	SearchRadiusKm float64

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		PostgresDSN:         getEnvStr(EnvPostgresDSN, DefaultPostgresDSN),
		PostgresConnTimeout: getEnvDuration(EnvPostgresConnTimeout, DefaultPostgresConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		UsersURL:    getEnvStr(EnvUsersURL, DefaultUsersURL),
		ParkingURL:  getEnvStr(EnvParkingURL, DefaultParkingURL),
		BookingsURL: getEnvStr(EnvBookingsURL, DefaultBookingsURL),
		PaymentsURL: getEnvStr(EnvPaymentsURL, DefaultPaymentsURL),

		GeocoderURL:     getEnvStr(EnvGeocoderURL, DefaultGeocoderURL),
		GeocoderAPIKey:  getEnvStr(EnvGeocoderAPIKey, ""),
		GeocodeCacheTTL: getEnvDuration(EnvGeocodeCacheTTL, DefaultGeocodeCacheTTL),

		HTTPClientTimeout: getEnvDuration(EnvHTTPClientTimeout, DefaultHTTPClientTimeout),

		BookingTopic: getEnvStr(EnvBookingTopic, DefaultBookingTopic),

		BreakerFailureThreshold: getEnvFloat(EnvBreakerFailureThreshold, DefaultBreakerFailureThreshold),
		BreakerMinRequests:      getEnvNum(EnvBreakerMinRequests, DefaultBreakerMinRequests),
		BookingBreakerCooldown:  getEnvDuration(EnvBookingBreakerCooldown, DefaultBookingBreakerCooldown),
		PaymentBreakerCooldown:  getEnvDuration(EnvPaymentBreakerCooldown, DefaultPaymentBreakerCooldown),

		SearchRadiusKm: getEnvFloat(EnvSearchRadiusKm, DefaultSearchRadiusKm),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetPostgres() {
	cfg.Client.SetPostgres(cfg.Log, cfg.PostgresDSN, cfg.PostgresConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.PostgresDSN == "" {
		errs = append(errs, "PostgresDSN cannot be empty")
	}

	urlRegex := regexp.MustCompile(`^https?://`)
	for name, u := range map[string]string{
		"UsersURL":    cfg.UsersURL,
		"ParkingURL":  cfg.ParkingURL,
		"BookingsURL": cfg.BookingsURL,
		"PaymentsURL": cfg.PaymentsURL,
		"GeocoderURL": cfg.GeocoderURL,
	} {
		if !urlRegex.MatchString(u) {
			errs = append(errs, fmt.Sprintf("%s must start with http:// or https://, got: %s", name, u))
		}
	}

	if cfg.BookingTopic == "" {
		errs = append(errs, "BookingTopic cannot be empty")
	}

	if cfg.BreakerFailureThreshold <= 0 || cfg.BreakerFailureThreshold > 1 {
		errs = append(errs, fmt.Sprintf("BreakerFailureThreshold must be in (0, 1], got: %g", cfg.BreakerFailureThreshold))
	}
	if cfg.BreakerMinRequests <= 0 {
		errs = append(errs, fmt.Sprintf("BreakerMinRequests must be positive, got: %d", cfg.BreakerMinRequests))
	}
	if cfg.SearchRadiusKm <= 0 {
		errs = append(errs, fmt.Sprintf("SearchRadiusKm must be positive, got: %g", cfg.SearchRadiusKm))
	}

	for name, d := range map[string]time.Duration{
		"PostgresConnTimeout":    cfg.PostgresConnTimeout,
		"GeocodeCacheTTL":        cfg.GeocodeCacheTTL,
		"HTTPClientTimeout":      cfg.HTTPClientTimeout,
		"BookingBreakerCooldown": cfg.BookingBreakerCooldown,
		"PaymentBreakerCooldown": cfg.PaymentBreakerCooldown,
		"RateLimitWindow":        cfg.RateLimitWindow,
		"RequestTimeout":         cfg.RequestTimeout,
		"IdempotencyTTL":         cfg.IdempotencyTTL,
		"ReadTimeout":            cfg.ReadTimeout,
		"WriteTimeout":           cfg.WriteTimeout,
		"IdleTimeout":            cfg.IdleTimeout,
		"ShutdownTimeout":        cfg.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"postgres_dsn", redactDSN(cfg.PostgresDSN),
		"postgres_conn_timeout", cfg.PostgresConnTimeout,
		"port", cfg.Port,
		"users_url", cfg.UsersURL,
		"parking_url", cfg.ParkingURL,
		"bookings_url", cfg.BookingsURL,
		"payments_url", cfg.PaymentsURL,
		"geocoder_url", cfg.GeocoderURL,
		"geocoder_key_set", cfg.GeocoderAPIKey != "",
		"http_client_timeout", cfg.HTTPClientTimeout,
		"booking_topic", cfg.BookingTopic,
		"breaker_failure_threshold", cfg.BreakerFailureThreshold,
		"breaker_min_requests", cfg.BreakerMinRequests,
		"booking_breaker_cooldown", cfg.BookingBreakerCooldown,
		"payment_breaker_cooldown", cfg.PaymentBreakerCooldown,
		"search_radius_km", cfg.SearchRadiusKm,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactDSN(dsn string) string {
	credentialRegex := regexp.MustCompile(`password=\S+`)
	return credentialRegex.ReplaceAllString(dsn, "password=***")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
