package main

import (
	"parkade/internal/availability/handler"
	"parkade/internal/availability/service"
	"parkade/pkg/app"
	"parkade/pkg/config"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Availability service")

	cfg.Client.SetParkingClient(cfg.ParkingURL, cfg.HTTPClientTimeout)

	availabilityService := service.NewAvailabilityService(cfg.Client.Parking, cfg)
	cfg.Log.Info("Availability service initialized",
		"parking_url", cfg.ParkingURL,
		"default_radius_km", cfg.SearchRadiusKm,
	)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()

	cfg.GracefulShutdown()
}
