package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fin-ledger/internal/events"
	"fin-ledger/internal/models"
	"fin-ledger/internal/repository"
	"fin-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionInput is the full field set for create and update. Update replaces every field.
type TransactionInput struct {
	Amount      *decimal.Decimal
	Kind        models.TransactionKind
	Date        time.Time
	Description string
	CategoryID  uuid.UUID
}

// LedgerService is the only path to transaction and category records and enforces ownership on each of them.
type LedgerService struct {
	transactions repository.TransactionStore
	categories   repository.CategoryStore
	publisher    events.Publisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewLedgerService(store *repository.Store, publisher events.Publisher, logger *zap.Logger) *LedgerService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &LedgerService{
		transactions: store.Transactions,
		categories:   store.Categories,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *LedgerService) CreateTransaction(ctx context.Context, ownerID uuid.UUID, in TransactionInput) (*models.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, ownerID, in, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tx := &models.Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Amount:      *in.Amount,
		Kind:        in.Kind,
		Date:        in.Date,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction created", logger.Owner(ownerID), zap.String("transaction_id", tx.ID.String()))
	s.publish(ctx, events.TransactionCreated, ownerID, tx.ID)
	return tx, nil
}

// ListTransactions returns every transaction of the owner, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]*models.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.transactions.ListByOwner(ctx, ownerID)
}

func (s *LedgerService) GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*models.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.owned(ctx, ownerID, id)
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, ownerID, id uuid.UUID, in TransactionInput) (*models.Transaction, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	existing, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, ownerID, in, existing.CategoryID); err != nil {
		return nil, err
	}

	updated := *existing
	updated.Amount = *in.Amount
	updated.Kind = in.Kind
	updated.Date = in.Date
	updated.Description = strings.TrimSpace(in.Description)
	updated.CategoryID = in.CategoryID
	updated.UpdatedAt = s.now().UTC()

	if err := s.transactions.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, err
	}

	s.publish(ctx, events.TransactionUpdated, ownerID, id)
	return &updated, nil
}

// DeleteTransaction removes the record. Deleting twice reports ErrNotFoundOrForbidden the second time.
func (s *LedgerService) DeleteTransaction(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.transactions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFoundOrForbidden
		}
		return err
	}

	s.logger.Info("Transaction deleted", logger.Owner(ownerID), zap.String("transaction_id", id.String()))
	s.publish(ctx, events.TransactionDeleted, ownerID, id)
	return nil
}

// ListCategories returns global categories followed by the owner's own.
func (s *LedgerService) ListCategories(ctx context.Context, ownerID uuid.UUID) ([]*models.Category, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.categories.ListVisible(ctx, ownerID)
}

func (s *LedgerService) CreateCategory(ctx context.Context, ownerID uuid.UUID, name string) (*models.Category, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("category name is required")
	}

	owner := ownerID
	category := &models.Category{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   &owner,
		CreatedAt: s.now().UTC(),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory distinguishes ErrNotFound from ErrForbidden: category existence is not sensitive.
// Transactions referencing the category are left untouched.
func (s *LedgerService) DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !category.OwnedBy(ownerID) {
		return ErrForbidden
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *LedgerService) owned(ctx context.Context, ownerID, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, err
	}
	if tx.OwnerID != ownerID {
		s.logger.Warn("Transaction access denied", logger.Owner(ownerID), zap.String("transaction_id", id.String()))
		return nil, ErrNotFoundOrForbidden
	}
	return tx, nil
}

// validate checks the field set. keepCategory is the category already on the record:
// it stays acceptable even if it was deleted since.
func (s *LedgerService) validate(ctx context.Context, ownerID uuid.UUID, in TransactionInput, keepCategory uuid.UUID) error {
	if in.Amount == nil {
		return validationError("amount is required")
	}
	if in.Amount.IsNegative() {
		return validationError("amount must not be negative")
	}
	if !in.Kind.Valid() {
		return validationError("kind must be income or expense")
	}
	if in.Date.IsZero() {
		return validationError("date is required")
	}
	if in.CategoryID == uuid.Nil {
		return validationError("categoryId is required")
	}
	if keepCategory != uuid.Nil && in.CategoryID == keepCategory {
		return nil
	}

	category, err := s.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return validationError("unknown category")
		}
		return err
	}
	if !category.VisibleTo(ownerID) {
		return validationError("unknown category")
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, eventType string, ownerID, resourceID uuid.UUID) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), events.New(eventType, ownerID, resourceID)); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}

func requireOwner(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return validationError("ownerId is required")
	}
	return nil
}
