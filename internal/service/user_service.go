package service

import (
	"context"
	"errors"

	"fin-ledger/internal/models"
	"fin-ledger/internal/repository"
	"fin-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type UserService struct {
	users  repository.UserStore
	logger *zap.Logger
}

func NewUserService(users repository.UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

func (s *UserService) GetProfile(ctx context.Context, ownerID uuid.UUID) (*models.User, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateAverageIncome sets or, with nil, clears the declared income.
func (s *UserService) UpdateAverageIncome(ctx context.Context, ownerID uuid.UUID, income *decimal.Decimal) (*models.User, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if income != nil && income.IsNegative() {
		return nil, validationError("average income must not be negative")
	}

	if err := s.users.UpdateAverageIncome(ctx, ownerID, income); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Info("Average income updated", logger.Owner(ownerID), zap.Bool("cleared", income == nil))
	return s.GetProfile(ctx, ownerID)
}
