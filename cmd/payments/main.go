package main

import (
	"parkade/internal/payments/handler"
	"parkade/internal/payments/repository"
	"parkade/internal/payments/service"
	"parkade/pkg/app"
	"parkade/pkg/config"
	"parkade/pkg/db/postgres"
	"parkade/pkg/model"
)

const ServiceName = "payments"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Payments service")

	cfg.SetPostgres()
	if err := postgres.Migrate(cfg.Client.DB, &model.Payment{}); err != nil {
		cfg.Log.Fatal("Database migration failed", "error", err)
	}

	cfg.Client.SetBookingClient(cfg.BookingsURL, cfg.HTTPClientTimeout)
	cfg.Client.SetUserClient(cfg.UsersURL, cfg.HTTPClientTimeout)

	paymentService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewPaymentHandler(paymentService, cfg.Log))
	serverApp.Run()

	cfg.GracefulShutdown()
}

func initServices(cfg *config.Config) service.PaymentService {
	paymentRepo := repository.NewGormPaymentRepository(cfg)
	paymentService := service.NewPaymentService(
		paymentRepo,
		cfg.Client.Bookings,
		cfg.Client.Users,
		cfg,
	)

	cfg.Log.Info("Payment service initialized",
		"bookings_url", cfg.BookingsURL,
		"users_url", cfg.UsersURL,
	)
	return paymentService
}
