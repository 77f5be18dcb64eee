package repository

import (
	"context"

	"fin-ledger/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SuggestionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSuggestionRepository(db *pgxpool.Pool, logger *zap.Logger) *SuggestionRepository {
	return &SuggestionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SuggestionRepository) Create(ctx context.Context, s *models.Suggestion) error {
	query := squirrel.Insert("suggestions").
		Columns("id", "owner_id", "prompt", "response", "created_at").
		Values(s.ID, s.OwnerID, s.Prompt, s.Response, s.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SuggestionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Suggestion, error) {
	query := squirrel.Select("id", "owner_id", "prompt", "response", "created_at").
		From("suggestions").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC", "id DESC").
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

	var suggestions []*models.Suggestion
	for rows.Next() {
		var s models.Suggestion
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Prompt, &s.Response, &s.CreatedAt); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, &s)
	}

	return suggestions, rows.Err()
}
