package main

import (
	"parkade/internal/users/handler"
	"parkade/internal/users/repository"
	"parkade/internal/users/service"
	"parkade/internal/users/validator"
	"parkade/pkg/app"
	"parkade/pkg/config"
	"parkade/pkg/db/postgres"
	"parkade/pkg/model"
)

const ServiceName = "users"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Users service")

	cfg.SetPostgres()
	if err := postgres.Migrate(cfg.Client.DB, &model.User{}); err != nil {
		cfg.Log.Fatal("Database migration failed", "error", err)
	}

	userService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewUserHandler(userService, cfg.Log))
	serverApp.Run()

	cfg.GracefulShutdown()
}

func initServices(cfg *config.Config) service.UserService {
	userValidator := validator.NewUserValidator(cfg.Log)
	userRepo := repository.NewGormUserRepository(cfg)
	userService := service.NewUserService(
		userRepo,
		userValidator,
		cfg,
	)

	cfg.Log.Info("User service initialized")
	return userService
}
