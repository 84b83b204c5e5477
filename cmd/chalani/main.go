package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chalani/chalani/internal/app"
	"github.com/chalani/chalani/internal/audit"
	"github.com/chalani/chalani/internal/observability"
	"github.com/chalani/chalani/internal/platform/cache"
	"github.com/chalani/chalani/internal/platform/db"
	"github.com/chalani/chalani/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
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
	slog.SetDefault(logger)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	var pool *pgxpool.Pool
	if cfg.AuditEnabled() {
		pool, err = db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if err != nil {
			logger.Error("connect database", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		if cfg.DBAutoMigrate {
			if err := audit.Migrate(ctx, pool, logger); err != nil {
				logger.Error("migrate audit schema", slog.Any("error", err))
				os.Exit(1)
			}
		}
	} else {
		logger.Info("PG_DSN unset, audit trail disabled")
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	handler, err := app.NewHandler(cfg, logger, app.Infrastructure{
		Redis:     redisClient,
		Pool:      pool,
		Inspector: inspector,
		Metrics:   observability.NewMetrics(),
	})
	if err != nil {
		logger.Error("init handler", slog.Any("error", err))
		os.Exit(1)
	}

	warmLookups(ctx, redisOpts, logger)

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           handler,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("backend", cfg.BackendURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// warmLookups asks the worker to fill the lookup cache so the first form
// page after a deploy does not pay for it.
func warmLookups(ctx context.Context, opts asynq.RedisClientOpt, logger *slog.Logger) {
	client, err := jobs.NewClient(opts)
	if err != nil {
		logger.Warn("jobs client", slog.Any("error", err))
		return
	}
	defer func() { _ = client.Close() }()
	if _, err := client.EnqueueLookupsRefresh(ctx); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Warn("enqueue lookup refresh", slog.Any("error", err))
	}
}
