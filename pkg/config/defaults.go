package config

import "time"

const (
	DefaultPostgresDSN         = "host=localhost user=parkade password=parkade dbname=parkade port=5432 sslmode=disable"
	DefaultPostgresConnTimeout = 10 * time.Second

	DefaultPort = "8080"

	// Default ports per service, used for local development base URLs.
	DefaultUsersURL    = "http://localhost:8083"
	DefaultParkingURL  = "http://localhost:8084"
	DefaultBookingsURL = "http://localhost:8086"
	DefaultPaymentsURL = "http://localhost:8087"

	DefaultGeocoderURL     = "http://localhost:8090"
	DefaultGeocodeCacheTTL = 15 * time.Minute

	DefaultHTTPClientTimeout = 10 * time.Second

	DefaultBookingTopic = "booking-completed"

	DefaultBreakerFailureThreshold = 0.5
	DefaultBreakerMinRequests      = 4
	DefaultBookingBreakerCooldown  = 10 * time.Second
	DefaultPaymentBreakerCooldown  = 30 * time.Second

	DefaultSearchRadiusKm = 5.0

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLogLevel = "info"

	DefaultPaginationLimit = 100
)
