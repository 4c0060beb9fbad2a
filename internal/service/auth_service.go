package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-scheduler/internal/auth"
	"github.com/spec-kit/ticket-scheduler/internal/config"
	"github.com/spec-kit/ticket-scheduler/internal/domain"
	"github.com/spec-kit/ticket-scheduler/internal/repository"
	apperrors "github.com/spec-kit/ticket-scheduler/pkg/util"
)

// AuthService handles registration, login and logout.
type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	denylist *auth.Denylist
	cfg      config.AuthConfig
	logger   *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, denylist *auth.Denylist, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, denylist: denylist, cfg: cfg, logger: logger}
}

// RegisterInput describes a registration payload.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        *domain.RoleType
	SpecialtyID *string
}

// AuthResult bundles the issued token with its user.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a user account and issues a token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hashed, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashed,
		Role:         input.Role,
		SpecialtyID:  input.SpecialtyID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issueToken(user)
}

// Logout revokes the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
