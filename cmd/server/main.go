package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/api"
	"github.com/Harshitk-cp/sitefleet/internal/buildconfig"
	"github.com/Harshitk-cp/sitefleet/internal/config"
	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/llm"
	"github.com/Harshitk-cp/sitefleet/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if level, err := zapcore.ParseLevel(config.LogLevel()); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	logger, err := cfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	dbURL := config.DatabaseURL()
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	if config.SessionJWTSecret() == "" {
		logger.Fatal("SESSION_JWT_SECRET is required")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	if config.MigrateOnStart() {
		applied, err := store.ApplyMigrations(ctx, pool, config.MigrationsPath())
		if err != nil {
			logger.Fatal("failed to apply migrations", zap.Error(err))
		}
		logger.Info("migrations applied", zap.Strings("files", applied))
	}

	redisOpts, err := redis.ParseURL(config.RedisURL())
	if err != nil {
		logger.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to ping redis", zap.Error(err))
	}
	logger.Info("connected to redis")

	var logos domain.LogoStore
	if bucket := config.S3Bucket(); bucket != "" {
		ls, err := store.NewLogoStore(ctx, store.S3Config{
			Bucket:        bucket,
			Region:        config.S3Region(),
			Endpoint:      config.S3Endpoint(),
			AccessKey:     config.S3AccessKey(),
			SecretKey:     config.S3SecretKey(),
			PublicBaseURL: config.S3PublicBaseURL(),
		})
		if err != nil {
			logger.Fatal("failed to configure logo storage", zap.Error(err))
		}
		logos = ls
		logger.Info("logo storage enabled", zap.String("bucket", bucket))
	} else {
		logger.Warn("S3_BUCKET not set, logo uploads disabled")
	}

	provider := config.LLMProvider()
	advisor, err := llm.NewClient(provider, config.LLMAPIKey())
	if err != nil {
		logger.Warn("template advisor initialization failed, using mock", zap.String("provider", provider), zap.Error(err))
		advisor = llm.NewMockClient()
	} else {
		logger.Info("template advisor initialized", zap.String("provider", provider))
	}

	app := api.NewApp(api.Deps{
		DB:      pool,
		Redis:   rdb,
		Logos:   logos,
		Advisor: advisor,
		Logger:  logger,
	})

	app.Sweeper.Start()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Bulk provisioning can run for a while.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", addr),
			zap.String("version", buildconfig.Version()),
			zap.String("commit", buildconfig.Commit()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	app.Sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
