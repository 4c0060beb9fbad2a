package dto

import (
	"time"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Password    string           `json:"password"`
	Role        *domain.RoleType `json:"role_type"`
	SpecialtyID *string          `json:"specialty_id"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse represents a user.
type UserResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Role        *domain.RoleType `json:"role_type"`
	SpecialtyID *string          `json:"specialty_id"`
	CreatedAt   time.Time        `json:"created_at"`
}

// SpecialtyResponse represents a specialty.
type SpecialtyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// SettingResponse represents one settings row.
type SettingResponse struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// UpdateSettingRequest payload.
type UpdateSettingRequest struct {
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description"`
}
