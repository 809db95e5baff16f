package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gestor-labs/be-case-tracking/internal/client"
	"github.com/gestor-labs/be-case-tracking/internal/config"
	"github.com/gestor-labs/be-case-tracking/internal/database"
	"github.com/gestor-labs/be-case-tracking/internal/handler"
	"github.com/gestor-labs/be-case-tracking/internal/logger"
	"github.com/gestor-labs/be-case-tracking/internal/repository"
	"github.com/gestor-labs/be-case-tracking/internal/server"
	"github.com/gestor-labs/be-case-tracking/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:       cfg.Service.LogLevel,
		Environment: cfg.Service.Environment,
		ServiceName: cfg.Service.Name,
		Version:     cfg.Service.Version,
	})

	log.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("environment", cfg.Service.Environment).
		Msg("Starting case-tracking service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(ctx, database.Config{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)
	caseRepo := repository.NewCaseRepository(db, eventRepo)
	catalogRepo := repository.NewCatalogRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize notification publisher (disabled when NATS_URL is empty)
	notifier, err := client.NewTransitionPublisher(cfg.NATS.URL, cfg.Service.Name, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to NATS")
	}
	defer notifier.Close()
	if cfg.NATS.URL != "" {
		log.Info().Str("url", cfg.NATS.URL).Msg("Notification publisher initialized")
	}

	// Initialize services
	transitionService := service.NewTransitionService(db, caseRepo, eventRepo, catalogRepo, notifier, log)
	caseService := service.NewCaseService(caseRepo, catalogRepo, log)
	catalogService := service.NewCatalogService(catalogRepo, log)
	userService := service.NewUserService(userRepo, log)

	// Setup HTTP routes
	router := server.NewRouter(server.RouterConfig{
		Cases:          handler.NewCaseHandler(caseService, transitionService, log),
		Catalogs:       handler.NewCatalogHandler(catalogService, log),
		Users:          handler.NewUserHandler(userService, log),
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Service.Environment,
		Log:            log,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
