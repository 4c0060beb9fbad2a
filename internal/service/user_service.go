package service

import (
	"context"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
	"github.com/spec-kit/ticket-scheduler/internal/repository"
	apperrors "github.com/spec-kit/ticket-scheduler/pkg/util"
)

// UserService exposes user and specialty lookups for assignment pickers.
type UserService struct {
	users       repository.UserRepository
	specialties repository.SpecialtyRepository
	settings    repository.SettingRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, specialties repository.SpecialtyRepository, settings repository.SettingRepository) *UserService {
	return &UserService{users: users, specialties: specialties, settings: settings}
}

// GetUser returns one user.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns all users, optionally filtered by role.
func (s *UserService) ListUsers(ctx context.Context, role *domain.RoleType) ([]domain.User, error) {
	if role != nil {
		switch *role {
		case domain.RoleTechnical, domain.RoleFunctional, domain.RoleServiceManager:
		default:
			return nil, apperrors.NewValidationError("unknown role type", map[string]any{"role": *role})
		}
		return s.users.ListByRole(ctx, *role)
	}
	return s.users.List(ctx)
}

// ListSpecialties returns all specialties.
func (s *UserService) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	return s.specialties.List(ctx)
}

// ListSettings returns all settings rows.
func (s *UserService) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	return s.settings.List(ctx)
}

// UpdateSetting writes one settings row.
func (s *UserService) UpdateSetting(ctx context.Context, setting *domain.Setting) error {
	if setting.Key == "" {
		return apperrors.NewValidationError("key is required", nil)
	}
	return s.settings.Set(ctx, setting)
}
