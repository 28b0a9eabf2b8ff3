// Command burnserver runs the burn data HTTP service: CSV ingestion with
// ownership enrichment, filtered queries, and aggregate statistics.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/firewatch/burn-data-service/internal/adapter/http"
	"github.com/firewatch/burn-data-service/internal/adapter/ownership"
	"github.com/firewatch/burn-data-service/internal/config"
	"github.com/firewatch/burn-data-service/internal/domain"
	"github.com/firewatch/burn-data-service/internal/observability"
	"github.com/firewatch/burn-data-service/internal/pipeline"
	"github.com/firewatch/burn-data-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, ready, cleanup, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	resolver := newResolver(cfg, logger, metrics)
	ingestor := pipeline.NewIngestor(st, resolver, logger, metrics, cfg.IngestWorkers)
	runner := pipeline.NewRunner(logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, st, ingestor, runner, ready, logger)

	if err := srv.Run(ctx, cfg.ShutdownTimeout); err != nil {
		logger.Error("http server error", "error", err)
	}

	logger.Info("waiting for in-flight ingestion jobs")
	runner.Wait()
	logger.Info("shutdown complete")
}

func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, httpadapter.ReadinessChecker, func(), error) {
	if cfg.StoreDriver == config.DriverPostgres {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using postgres store")
		return pg, pg, pg.Close, nil
	}

	logger.Info("using in-memory store")
	mem := store.NewMemory()
	return mem, mem, func() {}, nil
}

func newResolver(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) domain.OwnershipResolver {
	if !cfg.OwnershipEnabled() {
		logger.Info("ownership resolver disabled", "default_owner", cfg.DefaultOwner)
		return domain.FixedResolver(cfg.DefaultOwner)
	}

	client := ownership.NewClient(cfg.OwnershipBaseURL, cfg.OwnershipTimeout, logger, metrics)
	logger.Info("ownership resolver enabled",
		"base_url", cfg.OwnershipBaseURL,
		"cache_size", cfg.OwnershipCacheSize,
		"timeout", cfg.OwnershipTimeout,
	)
	return ownership.NewCachedResolver(client, cfg.OwnershipCacheSize, metrics)
}
