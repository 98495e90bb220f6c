package app

import (
	"context"
	"log/slog"

	"github.com/ivy-monitoring/supplier-api/internal/platform/db"
	"github.com/ivy-monitoring/supplier-api/internal/store"
	"github.com/ivy-monitoring/supplier-api/internal/store/pgstore"
	"github.com/ivy-monitoring/supplier-api/internal/store/postgrest"
)

// OpenStore builds the store client for the configured driver. Missing
// credentials yield the unconfigured client rather than an error, so the API
// still starts and answers every store-backed route with a configuration error.
// The returned func releases driver resources.
func OpenStore(ctx context.Context, cfg *Config, logger *slog.Logger) (store.Client, func(), error) {
	noop := func() {}
	if !cfg.StoreConfigured() {
		logger.Warn("store credentials missing, supplier routes will fail",
			slog.String("driver", cfg.StoreDriver))
		return store.Unconfigured(), noop, nil
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		pool, err := db.New(ctx, cfg.SupabaseDBDSN, db.PoolOptions{
			MaxConns:    cfg.StoreMaxConns,
			PingTimeout: cfg.StoreTimeout,
		})
		if err != nil {
			return nil, noop, err
		}
		logger.Info("store ready", slog.String("driver", cfg.StoreDriver))
		return pgstore.New(pool), pool.Close, nil
	default:
		logger.Info("store ready", slog.String("driver", cfg.StoreDriver), slog.String("url", cfg.SupabaseURL))
		return postgrest.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StoreTimeout), noop, nil
	}
}
