package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drivelog/drivelog-be/internal/api"
	"github.com/drivelog/drivelog-be/internal/config"
	"github.com/drivelog/drivelog-be/internal/database"
	"github.com/drivelog/drivelog-be/internal/logger"
	"github.com/drivelog/drivelog-be/internal/services"
	"github.com/drivelog/drivelog-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	apiKeyService := services.NewAPIKeyService(db)
	if cfg.SeedAPIKey != "" {
		if err := apiKeyService.EnsureSeedKey(cfg.SeedAPIKey); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed API key")
		}
	}

	svc := api.Services{
		Users:        services.NewUserService(db),
		Vehicles:     services.NewVehicleService(db),
		Fuels:        services.NewFuelService(db),
		Records:      services.NewServiceRecordService(db),
		Reminders:    services.NewReminderService(db),
		ServiceTypes: services.NewServiceTypeService(db),
		Posts:        services.NewPostService(db, hub),
		Comments:     services.NewCommentService(db),
		Events:       services.NewEventService(db, hub),
		APIKeys:      apiKeyService,
	}

	// Set up router
	router := api.NewRouter(cfg, hub, svc)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
