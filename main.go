package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vilebranco/catalogo-be/internal/api"
	"github.com/vilebranco/catalogo-be/internal/config"
	"github.com/vilebranco/catalogo-be/internal/database"
	"github.com/vilebranco/catalogo-be/internal/logger"
	"github.com/vilebranco/catalogo-be/internal/monitoring"
	"github.com/vilebranco/catalogo-be/internal/services"
)

func main() {
	seed := flag.Bool("seed", false, "recreate the schema and load the demo data, then continue serving")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if *seed {
		if err := database.Seed(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed database")
		}
		log.Info().Msg("Database seeded with demo users and products")
	} else if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)

	// Set up and run the background stats reporter
	statsReporter := monitoring.NewStatsReporter(db, cfg.DatabasePath)
	if err := statsReporter.Start(cfg.StatsSchedule); err != nil {
		log.Fatal().Err(err).Msg("Failed to start stats reporter")
	}

	// Set up router
	router := api.NewRouter(userService, productService, cfg.WebRoot, cfg.AllowedOrigins)

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

	statsReporter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
