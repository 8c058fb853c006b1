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

	"github.com/avelis/estate-be/internal/api"
	"github.com/avelis/estate-be/internal/auth"
	"github.com/avelis/estate-be/internal/cache"
	"github.com/avelis/estate-be/internal/config"
	"github.com/avelis/estate-be/internal/database"
	"github.com/avelis/estate-be/internal/logger"
	"github.com/avelis/estate-be/internal/monitoring"
	"github.com/avelis/estate-be/internal/services"
	"github.com/avelis/estate-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up the document store connector. In eager mode a failed connect
	// is logged and the process keeps serving: requests answer 503 until
	// the lazy-connect middleware or the health checker re-establishes it.
	db := database.New(cfg.MongoURI, cfg.MongoDB)
	if cfg.Startup == config.StartupEager {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := db.Connect(ctx); err != nil {
			log.Error().Err(err).Msg("Initial store connection failed, serving degraded")
		}
		cancel()
	}
	defer db.Close(context.Background())

	// Optional listing cache
	var listingCache *cache.Cache
	if cfg.RedisAddr != "" {
		listingCache = cache.New(cfg.RedisAddr, cfg.RedisPassword)
		defer listingCache.Close()
	}

	// Set up WebSocket Hub for the activity feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db, eventService)
	listingService := services.NewListingService(db, eventService, listingCache, cfg.CacheTTL)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	// Set up and run the background health checker
	healthChecker, err := monitoring.NewHealthChecker(db, cfg.HealthCheckSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid health check schedule")
	}
	go healthChecker.Run()

	// Set up router
	router := api.NewRouter(cfg, db, tokens, hub, userService, listingService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("startup", string(cfg.Startup)).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	healthChecker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
