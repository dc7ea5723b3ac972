package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sentinel-iam/sentinel/internal/app"
	"github.com/sentinel-iam/sentinel/internal/auth"
	"github.com/sentinel-iam/sentinel/internal/bootstrap"
	"github.com/sentinel-iam/sentinel/internal/observability"
	"github.com/sentinel-iam/sentinel/internal/platform/cache"
	"github.com/sentinel-iam/sentinel/internal/platform/db"
	"github.com/sentinel-iam/sentinel/internal/products"
	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/users"
	"github.com/sentinel-iam/sentinel/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, db.Config{DSN: cfg.PGDSN, MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Key:      []byte(cfg.JWTKey),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Duration: cfg.TokenDuration(),
	})
	if err != nil {
		logger.Error("init token service", slog.Any("error", err))
		os.Exit(1)
	}

	rbacStore := rbac.NewStore(dbpool)
	claimCache := rbac.NewClaimCache(redisClient, cfg.ClaimCacheTTL)
	rbacService := rbac.NewService(rbacStore, claimCache)

	authRepo := auth.NewRepository(dbpool)
	eventRecorder := jobs.NewRecorder(asynqClient, logger)
	authService := auth.NewService(logger, authRepo, rbacService, tokens, eventRecorder)
	authHandler := auth.NewHandler(logger, authService)
	guard := auth.Middleware{Tokens: tokens, Logger: logger}

	rbacHandler := rbac.NewHandler(logger, rbacService, guard)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, authRepo)
	usersHandler := users.NewHandler(logger, usersService, guard)

	productsRepo := products.NewRepository(dbpool)
	productsService := products.NewService(productsRepo)
	productsHandler := products.NewHandler(logger, productsService, guard)

	seeder := bootstrap.New(logger, rbacService, authRepo, cfg.SeedUserPassword)
	if err := seeder.Run(ctx); err != nil {
		logger.Error("bootstrap seeding", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     authHandler,
		RBACHandler:     rbacHandler,
		UsersHandler:    usersHandler,
		ProductsHandler: productsHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
