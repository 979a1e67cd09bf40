package main

import (
	"parkade/internal/bookings/handler"
	"parkade/internal/bookings/repository"
	"parkade/internal/bookings/service"
	"parkade/internal/bookings/validator"
	"parkade/pkg/app"
	"parkade/pkg/breaker"
	"parkade/pkg/config"
	"parkade/pkg/db/postgres"
	"parkade/pkg/events"
	"parkade/pkg/kafka"
	kafka_config "parkade/pkg/kafka/config"
	kafka_middleware "parkade/pkg/kafka/middleware"
	"parkade/pkg/model"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Bookings service")

	cfg.SetPostgres()
	if err := postgres.Migrate(cfg.Client.DB, &model.Booking{}); err != nil {
		cfg.Log.Fatal("Database migration failed", "error", err)
	}

	cfg.Client.SetParkingClient(cfg.ParkingURL, cfg.HTTPClientTimeout)
	cfg.Client.SetPaymentClient(cfg.PaymentsURL, cfg.HTTPClientTimeout)
	cfg.Client.SetUserClient(cfg.UsersURL, cfg.HTTPClientTimeout)

	producer := initProducer(cfg)
	if producer != nil {
		defer producer.Close()
	}

	bookingService := initServices(cfg, producer)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()

	cfg.GracefulShutdown()
}

// initProducer builds the Kafka producer for booking events. Bookings keep
// working when Kafka is down, so a producer failure degrades to no events
// instead of aborting startup.
func initProducer(cfg *config.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(kafka_config.Load(), cfg.BookingTopic, cfg.BookingTopic+".dlq")
	if err != nil {
		cfg.Log.Error("Kafka producer unavailable, booking events disabled", "error", err)
		return nil
	}

	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingTopic)
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.BookingService {
	var publisher events.Publisher
	if producer != nil {
		publisher = events.NewKafkaPublisher(producer, ServiceName)
	}

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewGormBookingRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		bookingValidator,
		cfg.Client.Parking,
		cfg.Client.Payments,
		cfg.Client.Users,
		publisher,
		breaker.NewRegistry(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Booking service initialized",
		"parking_url", cfg.ParkingURL,
		"payments_url", cfg.PaymentsURL,
		"users_url", cfg.UsersURL,
	)
	return bookingService
}
