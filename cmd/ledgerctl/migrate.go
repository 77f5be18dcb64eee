package main

import (
	"fmt"
	"os"
	"path/filepath"

	"fin-ledger/internal/backend"
	"fin-ledger/internal/repository/sqlite"
	"fin-ledger/pkg/logger"
	"fin-ledger/pkg/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Long:  `Apply all pending migrations for the configured store driver. Already applied migrations are skipped.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			log := logger.Component("migrate")

			switch cfg.Store.Driver {
			case backend.DriverPostgres:
				if err := postgres.Migrate(&cfg.Database, log); err != nil {
					return fmt.Errorf("postgres migration failed: %w", err)
				}
			case backend.DriverSQLite:
				if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
					return fmt.Errorf("create sqlite directory: %w", err)
				}
				if err := sqlite.Migrate(cfg.Store.SQLitePath); err != nil {
					return fmt.Errorf("sqlite migration failed: %w", err)
				}
			default:
				return fmt.Errorf("driver %q has no schema to migrate", cfg.Store.Driver)
			}

			log.Info("Migrations applied", zap.String("driver", cfg.Store.Driver))
			return nil
		},
	}
}
