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

	"github.com/trigardening/trigardening/internal/addresses"
	"github.com/trigardening/trigardening/internal/app"
	"github.com/trigardening/trigardening/internal/auth"
	"github.com/trigardening/trigardening/internal/blogs"
	"github.com/trigardening/trigardening/internal/catalog/categories"
	"github.com/trigardening/trigardening/internal/catalog/products"
	"github.com/trigardening/trigardening/internal/catalog/tags"
	"github.com/trigardening/trigardening/internal/observability"
	"github.com/trigardening/trigardening/internal/orders"
	"github.com/trigardening/trigardening/internal/platform/cache"
	"github.com/trigardening/trigardening/internal/platform/db"
	"github.com/trigardening/trigardening/internal/reviews"
	"github.com/trigardening/trigardening/internal/settings"
	"github.com/trigardening/trigardening/internal/shared"
	"github.com/trigardening/trigardening/internal/users"
	"github.com/trigardening/trigardening/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	guard := auth.Middleware{Tokens: tokens, Logger: logger}

	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	authService := auth.NewService(auth.NewRepository(pool), tokens)
	authHandler := auth.NewHandler(logger, authService)

	categoryHandler := categories.NewHandler(logger, categories.NewService(categories.NewRepository(pool)), guard)
	tagHandler := tags.NewHandler(logger, tags.NewRepository(pool), guard)
	productService := products.NewService(products.NewRepository(pool))
	productHandler := products.NewHandler(logger, productService, guard)
	blogHandler := blogs.NewHandler(logger, blogs.NewRepository(pool))
	reviewHandler := reviews.NewHandler(logger, reviews.NewRepository(pool))

	orderService := orders.NewService(orders.NewRepository(pool), &jobs.OrderNotifier{Client: jobClient}, metrics, logger)
	orderHandler := orders.NewHandler(logger, orderService, auditLogger)

	addressHandler := addresses.NewHandler(logger, addresses.NewRepository(pool))
	settingsService := settings.NewService(logger, settings.NewRepository(pool), redisClient, cfg.SettingsCacheTTL)
	settingsHandler := settings.NewHandler(logger, settingsService)
	userHandler := users.NewHandler(logger, users.NewRepository(pool), auditLogger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterConfig{
		Logger:     logger,
		Config:     cfg,
		Metrics:    metrics,
		Guard:      guard,
		Auth:       authHandler,
		Categories: categoryHandler,
		Tags:       tagHandler,
		Products:   productHandler,
		Blogs:      blogHandler,
		Reviews:    reviewHandler,
		Orders:     orderHandler,
		Addresses:  addressHandler,
		Settings:   settingsHandler,
		Users:      userHandler,
		Jobs:       jobHandler,
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
