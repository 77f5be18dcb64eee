package repository

import (
	"context"

	"fin-ledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var categoryColumns = []string{"id", "name", "owner_id", "created_at"}

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	query := squirrel.Insert("categories").
		Columns(categoryColumns...).
		Values(c.ID, c.Name, c.OwnerID, c.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From("categories").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var c models.Category
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListVisible runs the two-tier visibility query: owner_id IS NULL OR owner_id = :owner.
// Global rows sort first so the result is the concatenation of the two disjoint sets.
func (r *CategoryRepository) ListVisible(ctx context.Context, ownerID uuid.UUID) ([]*models.Category, error) {
	return r.list(ctx, squirrel.Or{
		squirrel.Eq{"owner_id": nil},
		squirrel.Eq{"owner_id": ownerID},
	})
}

func (r *CategoryRepository) ListGlobal(ctx context.Context) ([]*models.Category, error) {
	return r.list(ctx, squirrel.Eq{"owner_id": nil})
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("categories").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Category, error) {
	query := squirrel.Select(categoryColumns...).
		From("categories").
		Where(where).
		OrderBy("owner_id NULLS FIRST", "name").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}
