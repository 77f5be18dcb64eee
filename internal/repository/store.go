package repository

import (
	"context"
	"errors"

	"fin-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by every backend when a keyed record does not exist.
var ErrNotFound = errors.New("record not found")

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateAverageIncome(ctx context.Context, id uuid.UUID, income *decimal.Decimal) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// ListVisible returns global categories followed by the ones owned by ownerID.
	ListVisible(ctx context.Context, ownerID uuid.UUID) ([]*models.Category, error)
	ListGlobal(ctx context.Context) ([]*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SuggestionStore interface {
	Create(ctx context.Context, s *models.Suggestion) error
	// ListByOwner returns suggestions newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Suggestion, error)
}

// Store bundles the four keyed collections of the ledger.
type Store struct {
	Users        UserStore
	Categories   CategoryStore
	Transactions TransactionStore
	Suggestions  SuggestionStore
}
