package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/meeyqueue/case-backend/internal/attachments"
	"github.com/meeyqueue/case-backend/internal/config"
	"github.com/meeyqueue/case-backend/internal/database"
	"github.com/meeyqueue/case-backend/internal/dto"
	"github.com/meeyqueue/case-backend/internal/handlers"
	"github.com/meeyqueue/case-backend/internal/logging"
	"github.com/meeyqueue/case-backend/internal/metrics"
	"github.com/meeyqueue/case-backend/internal/middleware"
	"github.com/meeyqueue/case-backend/internal/queue"
	"github.com/meeyqueue/case-backend/internal/repository"
	"github.com/meeyqueue/case-backend/internal/routes"
	"github.com/meeyqueue/case-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(logging.NewStdoutHandler(), pgLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Repositories
	caseRepo := repository.NewCaseRepository(database.DB)
	eventRepo := repository.NewCaseEventRepository(database.DB)
	userRepo := repository.NewUserRepository(database.DB)
	managerRepo := repository.NewKioskManagerRepository(database.DB)

	// Queue numbers
	loc := cfg.Location()
	repoCounter := queue.NewRepositoryCounter(caseRepo, loc)
	var counter queue.Counter = repoCounter
	var rdb *redis.Client
	if cfg.QueueCounter == config.QueueCounterRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		counter = queue.NewRedisCounter(rdb, repoCounter, loc)
		slog.Info("queue numbers served by redis", "addr", cfg.RedisAddr)
	}

	// Attachments
	store, err := attachments.New(context.Background(), attachments.Options{
		Region:   cfg.AWSRegion,
		Endpoint: cfg.AWSEndpointURL,
		Bucket:   cfg.AttachmentsBucket,
		TTL:      cfg.PresignTTL,
	})
	if err != nil {
		slog.Error("attachment store init failed", "error", err)
		os.Exit(1)
	}

	// Services
	identityService := services.NewIdentityService(userRepo, managerRepo)
	caseService := services.NewCaseService(caseRepo, eventRepo, identityService, counter,
		services.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
		services.WithAttachments(store),
	)

	// Handlers
	var redisHealth redis.Cmdable
	if rdb != nil {
		redisHealth = rdb
	}
	h := routes.Handlers{
		Health: handlers.NewHealthHandler(database.Ping, redisHealth),
		Case:   handlers.NewCaseHandler(caseService),
		User:   handlers.NewUserHandler(identityService),
		Kiosk:  handlers.NewKioskManagerHandler(identityService),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, h, prometheus.DefaultGatherer)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "timezone", loc.String(), "queue_counter", cfg.QueueCounter)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Warn("redis close error", "error", err)
		}
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Warn("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.ErrorContext(c.UserContext(), "unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.APIResponse{Status: code, Message: message})
}
