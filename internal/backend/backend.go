// Package backend assembles the repository.Store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"fin-ledger/internal/repository"
	"fin-ledger/internal/repository/memory"
	"fin-ledger/internal/repository/sqlite"
	"fin-ledger/pkg/config"
	"fin-ledger/pkg/postgres"

	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Result is an opened store plus the function that releases it.
type Result struct {
	Store   *repository.Store
	Cleanup func()
}

// Open connects the configured driver, migrates when asked and wraps categories in the cache.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Result, error) {
	var (
		store   *repository.Store
		cleanup = func() {}
	)

	switch cfg.Store.Driver {
	case DriverPostgres:
		if cfg.Store.MigrateOnBoot {
			if err := postgres.Migrate(&cfg.Database, logger); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		store = &repository.Store{
			Users:        repository.NewUserRepository(pool, logger),
			Categories:   repository.NewCategoryRepository(pool, logger),
			Transactions: repository.NewTransactionRepository(pool, logger),
			Suggestions:  repository.NewSuggestionRepository(pool, logger),
		}
		cleanup = pool.Close

	case DriverSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath, cfg.Store.MigrateOnBoot, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		store = db.Store()
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close sqlite store", zap.Error(err))
			}
		}

	case DriverMemory:
		logger.Warn("Using in-memory store: data is lost on restart")
		store = memory.New()

	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}

	if cfg.Cache.Enabled {
		cached, err := repository.NewCachedCategoryStore(store.Categories, cfg.Cache.NumCounters, cfg.Cache.MaxCost, cfg.Cache.TTL, logger.Named("category_cache"))
		if err != nil {
			cleanup()
			return nil, err
		}
		store.Categories = cached
		inner := cleanup
		cleanup = func() {
			cached.Close()
			inner()
		}
	}

	logger.Info("Store ready", zap.String("driver", cfg.Store.Driver), zap.Bool("category_cache", cfg.Cache.Enabled))
	return &Result{Store: store, Cleanup: cleanup}, nil
}
