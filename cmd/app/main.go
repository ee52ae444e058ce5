package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"interpreting/cmd"
	inhttp "interpreting/internal/adapters/in/http"
	"interpreting/internal/adapters/out/postgres/grouprepo"
	"interpreting/internal/adapters/out/postgres/orderrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	config := loadConfig()

	gormDB, err := gorm.Open(gormpostgres.Open(config.PostgresDSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	if err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}, &grouprepo.GroupDTO{}); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})
	defer redisClient.Close()

	root, err := cmd.NewCompositionRoot(config, gormDB, redisClient, logger)
	if err != nil {
		return fmt.Errorf("assemble service: %w", err)
	}

	if err = root.QueueManager().Start(); err != nil {
		return fmt.Errorf("start queue: %w", err)
	}

	jobManager := root.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("start scheduled jobs: %w", err)
	}

	server, err := inhttp.NewServer(
		root.CreateCreateOrderCommandHandler(),
		root.CreateAcceptOrderCommandHandler(),
		root.CreateRejectOrderCommandHandler(),
		root.CreateRefuseOrderCommandHandler(),
		root.CreateAddInterpreterToOrderCommandHandler(),
		root.CreateSendRepeatNotificationCommandHandler(),
		root.CreateAcceptOrderGroupCommandHandler(),
		root.CreateRejectOrderGroupCommandHandler(),
		root.CreateRefuseOrderGroupCommandHandler(),
		root.CreateGetOrderQueryHandler(),
		root.CreateGetOrdersAwaitingSearchQueryHandler(),
		root.Hub(),
		root.InboundRouter(),
	)
	if err != nil {
		return fmt.Errorf("build http server: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.GET("/health", func(c echo.Context) error {
		return c.String(nethttp.StatusOK, "Healthy")
	})
	server.RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start("0.0.0.0:" + config.HTTPPort)
	}()
	logger.Info("service started", "port", config.HTTPPort)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err = <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	jobManager.StopAll()
	if err = root.QueueManager().Shutdown(shutdownCtx); err != nil {
		logger.Error("queue shutdown failed", "error", err)
	}
	root.Hub().Close()

	return nil
}

func loadConfig() cmd.Config {
	// Missing .env is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort: envOr("HTTP_PORT", "8080"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "interpreting"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		PresenceTTL:   envDuration("PRESENCE_TTL", 90*time.Second),

		PlatformBaseURL: envOr("PLATFORM_BASE_URL", "http://localhost:8081"),
		PlatformToken:   envOr("PLATFORM_TOKEN", "dev-token"),
		AdminActorID:    envOr("ADMIN_ACTOR_ID", "00000000-0000-0000-0000-000000000001"),

		Tier1Duration:    envDuration("TIER1_DURATION", 0),
		Tier2Duration:    envDuration("TIER2_DURATION", 0),
		AdminNotifyDelay: envDuration("ADMIN_NOTIFY_DELAY", 0),
		RestartDelay:     envDuration("RESTART_DELAY", 0),

		NotificationConcurrency: envInt("NOTIFICATION_CONCURRENCY", 4),
		WebhookConcurrency:      envInt("WEBHOOK_CONCURRENCY", 4),
		PaymentConcurrency:      envInt("PAYMENT_CONCURRENCY", 2),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration in environment, using fallback", "key", key, "value", value)
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment, using fallback", "key", key, "value", value)
		return fallback
	}
	return parsed
}
