package main

import (
	"parkade/internal/parking/handler"
	"parkade/internal/parking/repository"
	"parkade/internal/parking/service"
	"parkade/internal/parking/validator"
	"parkade/pkg/app"
	"parkade/pkg/config"
	"parkade/pkg/db/postgres"
	"parkade/pkg/model"
)

const ServiceName = "parking"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Parking service")

	cfg.SetPostgres()
	if err := postgres.Migrate(cfg.Client.DB, &model.ParkingSlot{}, &model.ParkingRestriction{}); err != nil {
		cfg.Log.Fatal("Database migration failed", "error", err)
	}

	slotService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewParkingSlotHandler(slotService, cfg.Log))
	serverApp.Run()

	cfg.GracefulShutdown()
}

func initServices(cfg *config.Config) service.ParkingSlotService {
	slotValidator := validator.NewParkingSlotValidator(cfg.Log)
	slotRepo := repository.NewGormParkingSlotRepository(cfg)
	slotService := service.NewParkingSlotService(
		slotRepo,
		slotValidator,
		cfg,
	)

	cfg.Log.Info("Parking slot service initialized")
	return slotService
}
