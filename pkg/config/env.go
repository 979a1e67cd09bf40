package config

const (
	EnvPostgresDSN         = "POSTGRES_DSN"
	EnvPostgresConnTimeout = "POSTGRES_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvUsersURL    = "USERS_SERVICE_URL"
	EnvParkingURL  = "PARKING_SERVICE_URL"
	EnvBookingsURL = "BOOKINGS_SERVICE_URL"
	EnvPaymentsURL = "PAYMENTS_SERVICE_URL"

	EnvGeocoderURL    = "GEOCODER_URL"
	EnvGeocoderAPIKey = "GEOCODER_API_KEY"
	EnvGeocodeCacheTTL = "GEOCODE_CACHE_TTL"

	EnvHTTPClientTimeout = "HTTP_CLIENT_TIMEOUT"

	EnvBookingTopic = "BOOKING_COMPLETED_TOPIC"

	EnvBreakerFailureThreshold = "BREAKER_FAILURE_THRESHOLD"
	EnvBreakerMinRequests      = "BREAKER_MIN_REQUESTS"
	EnvBookingBreakerCooldown  = "BOOKING_BREAKER_COOLDOWN"
	EnvPaymentBreakerCooldown  = "PAYMENT_BREAKER_COOLDOWN"

	EnvSearchRadiusKm = "SEARCH_RADIUS_KM"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
