package main

import (
	"parkade/internal/locations/handler"
	"parkade/internal/locations/service"
	"parkade/pkg/app"
	"parkade/pkg/config"
)

const ServiceName = "locations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Locations service")

	cfg.Client.SetGeocoderClient(cfg.GeocoderURL, cfg.GeocoderAPIKey, cfg.HTTPClientTimeout)

	locationService := service.NewLocationService(cfg.Client.Geocoder, cfg)
	cfg.Log.Info("Location service initialized",
		"geocoder_url", cfg.GeocoderURL,
		"cache_ttl", cfg.GeocodeCacheTTL,
	)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewLocationHandler(locationService, cfg.Log))
	serverApp.Run()

	cfg.GracefulShutdown()
}
