package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fin-ledger/internal/dto"
	"fin-ledger/internal/models"
	"fin-ledger/internal/repository"
	"fin-ledger/pkg/auth"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AuthService struct {
	users      repository.UserStore
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(users repository.UserStore, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || strings.TrimSpace(req.Username) == "" {
		return nil, validationError("username, email and password are required")
	}
	income, err := incomeFromRequest(req.AverageIncome)
	if err != nil {
		return nil, err
	}

	// Check if user exists
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:            uuid.New(),
		Username:      strings.TrimSpace(req.Username),
		Email:         email,
		Password:      hashedPassword,
		Name:          strings.TrimSpace(req.Name),
		AverageIncome: income,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID.String(), user.Username, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.GetTokenDuration().Seconds()),
		User:         ToUserResponse(user),
	}, nil
}

// ToUserResponse converts a user to its public shape. The password hash never leaves the service.
func ToUserResponse(user *models.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
	}
	if user.AverageIncome != nil {
		v := user.AverageIncome.InexactFloat64()
		resp.AverageIncome = &v
	}
	return resp
}

func incomeFromRequest(v *float64) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d := decimal.NewFromFloat(*v)
	if d.IsNegative() {
		return nil, validationError("average income must not be negative")
	}
	return &d, nil
}
