package repository_test

import (
	"context"
	"os"
	"testing"

	"fin-ledger/internal/repository"
	"fin-ledger/internal/repository/storetest"
	"fin-ledger/pkg/config"
	"fin-ledger/pkg/postgres"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// TestPostgresStore runs against the database named by the DB_* settings when
// LEDGER_TEST_POSTGRES=true. Every table is truncated before each test.
func TestPostgresStore(t *testing.T) {
	if os.Getenv("LEDGER_TEST_POSTGRES") != "true" {
		t.Skip("set LEDGER_TEST_POSTGRES=true to run against postgres")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	logger := zap.NewNop()
	require.NoError(t, postgres.Migrate(&cfg.Database, logger))

	suite.Run(t, &storetest.Suite{
		Open: func() (*repository.Store, func()) {
			ctx := context.Background()
			pool, err := postgres.NewPool(ctx, &cfg.Database, logger)
			require.NoError(t, err)
			_, err = pool.Exec(ctx, "TRUNCATE users, categories, transactions, suggestions")
			require.NoError(t, err)
			return &repository.Store{
				Users:        repository.NewUserRepository(pool, logger),
				Categories:   repository.NewCategoryRepository(pool, logger),
				Transactions: repository.NewTransactionRepository(pool, logger),
				Suggestions:  repository.NewSuggestionRepository(pool, logger),
			}, pool.Close
		},
	})
}
