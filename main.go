package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/quizquest/quiz-service/internal/auth"
	"github.com/quizquest/quiz-service/internal/cache"
	"github.com/quizquest/quiz-service/internal/config"
	"github.com/quizquest/quiz-service/internal/events"
	"github.com/quizquest/quiz-service/internal/handlers"
	"github.com/quizquest/quiz-service/internal/repositories/postgres"
	"github.com/quizquest/quiz-service/internal/services"
	"github.com/quizquest/quiz-service/internal/utils"
	"github.com/quizquest/quiz-service/internal/validator"
	"github.com/quizquest/quiz-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured). Without it sessions degrade to
	// stateless tokens: still signed and expiring, but not revocable.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
			redisClient = nil
		}
	}

	// Initialize the audit event bus
	bus, err := events.NewBus(cfg, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize event bus: %v", err)
	}

	// Initialize repositories and shared components
	repo := postgres.NewRepository(db)
	v := validator.New()
	sessions := cache.NewSessionStore(redisClient, cfg.SessionTTL)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)

	// Initialize services
	serviceManager := services.NewServiceManager(repo, sessions, tokens, bus, slogLogger, v)

	// The audit subscriber drains the bus into the audit_logs table.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := bus.SubscribeAudit(ctx, serviceManager.Audit().Persist); err != nil {
		log.Fatalf("Failed to subscribe audit consumer: %v", err)
	}

	// Initialize HTTP layer
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.SetupMiddleware(router, logger)

	handlerManager := handlers.NewHandlerManager(
		serviceManager,
		tokens,
		sessions,
		repo.User(),
		int(cfg.SessionTTL.Seconds()),
		logger,
	)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slogLogger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slogLogger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slogLogger.Error("forced shutdown", "error", err)
	}

	cancel()
	if err := bus.Close(); err != nil {
		slogLogger.Error("failed to close event bus", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slogLogger.Error("failed to close redis", "error", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slogLogger.Error("failed to close database", "error", err)
		}
	}

	slogLogger.Info("server stopped")
}
