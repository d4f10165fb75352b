// Package main is the entry point for the piedpiper API server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bidon15/piedpiper/internal/auth"
	"github.com/Bidon15/piedpiper/internal/config"
	"github.com/Bidon15/piedpiper/internal/database"
	"github.com/Bidon15/piedpiper/internal/handler"
	"github.com/Bidon15/piedpiper/internal/repository"
	"github.com/Bidon15/piedpiper/internal/service"
	"github.com/Bidon15/piedpiper/internal/storage"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger.Info("Starting piedpiper API",
		slog.String("environment", cfg.Server.Environment),
		slog.Int("port", cfg.Server.Port),
		slog.String("storage", cfg.Storage.Driver),
	)

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	version, err := db.RunMigrations(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations completed", slog.Uint64("schema_version", uint64(version)))

	users := repository.NewUserRepository(db.Pool())
	sessions := repository.NewSessionRepository(db.Pool())
	clients := repository.NewClientRepository(db.Pool())

	health := handler.NewHealthHandler(db, nil)
	if cfg.Redis.SessionCacheTTL > 0 {
		redis, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()
		logger.Info("Connected to Redis", slog.Duration("session_cache_ttl", cfg.Redis.SessionCacheTTL))

		sessions = repository.NewCachedSessionRepository(sessions, redis, cfg.Redis.SessionCacheTTL)
		health = handler.NewHealthHandler(db, redis)
	}

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to set up image storage: %v", err)
	}

	signer := auth.NewJWTSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	authService := service.NewAuthService(users, sessions, hasher, signer)
	profileService := service.NewProfileService(db, users, sessions, images)
	statsService := service.NewStatsService(users, sessions)
	clientService := service.NewClientService(clients)
	ticketService := service.NewTicketService(cfg.Tickets.FromAddress)

	r := handler.NewRouter(handler.RouterConfig{
		Logger:         logger,
		TrustProxy:     cfg.Server.TrustProxy,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Gate:           service.NewGate(signer, sessions),
		Auth:           handler.NewAuthHandler(authService, logger),
		Restricted: handler.NewRestrictedHandler(
			profileService,
			statsService,
			clientService,
			ticketService,
			cfg.Storage.MaxUploadBytes,
			logger,
		),
		Health: health,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  time.Minute,
	}

	go func() {
		logger.Info("Server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down server", slog.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	logger.Info("Server stopped gracefully")
}
