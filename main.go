package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/astreus-ai/astreus-admin-be/internal/api"
	"github.com/astreus-ai/astreus-admin-be/internal/auth"
	"github.com/astreus-ai/astreus-admin-be/internal/config"
	"github.com/astreus-ai/astreus-admin-be/internal/database"
	"github.com/astreus-ai/astreus-admin-be/internal/logger"
	"github.com/astreus-ai/astreus-admin-be/internal/services"
	"github.com/rs/zerolog/log"
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
	if err := database.SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed administrator account")
	}

	// Set up services
	pluginService := services.NewPluginService(db)
	userService := services.NewUserService(db)

	// Set up auth
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	verifier := auth.NewVerifier(tokens, cfg.SessionSecret, userService)

	// Set up router
	router := api.NewRouter(api.RouterDeps{
		DB:            db,
		Verifier:      verifier,
		Tokens:        tokens,
		PluginService: pluginService,
		UserService:   userService,
		CORSOrigin:    cfg.CORSOrigin,
		IsProd:        cfg.IsProd,
	})

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
