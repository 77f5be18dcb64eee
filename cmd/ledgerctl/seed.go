package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fin-ledger/internal/backend"
	"fin-ledger/internal/models"
	"fin-ledger/internal/repository"
	"fin-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var defaultCategories = []string{
	"Food", "Transport", "Housing", "Utilities", "Health",
	"Entertainment", "Shopping", "Education", "Salary", "Other",
}

func seedCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-categories [names...]",
		Short: "Create global categories",
		Long: `Create global categories visible to every user. Without arguments a default
list is used. Names that already exist as global categories are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = defaultCategories
			}

			opened, err := backend.Open(cmd.Context(), cfg, logger.Component("store"))
			if err != nil {
				return err
			}
			defer opened.Cleanup()

			created, err := seedGlobalCategories(cmd.Context(), opened.Store.Categories, names, time.Now().UTC())
			if err != nil {
				return err
			}

			logger.Get().Info("Global categories seeded",
				zap.Strings("created", created),
				zap.Int("skipped", len(names)-len(created)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "created %d of %d categories\n", len(created), len(names))
			return nil
		},
	}
}

// seedGlobalCategories creates the names missing from the global list. Matching
// ignores case and surrounding space; blank names and repeats are dropped.
func seedGlobalCategories(ctx context.Context, categories repository.CategoryStore, names []string, now time.Time) ([]string, error) {
	existing, err := categories.ListGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("list global categories: %w", err)
	}
	seen := make(map[string]bool, len(existing)+len(names))
	for _, c := range existing {
		seen[strings.ToLower(c.Name)] = true
	}

	var created []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		if err := categories.Create(ctx, &models.Category{ID: uuid.New(), Name: name, CreatedAt: now}); err != nil {
			return created, fmt.Errorf("create category %q: %w", name, err)
		}
		created = append(created, name)
	}
	return created, nil
}
