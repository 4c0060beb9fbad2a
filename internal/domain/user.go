package domain

import "time"

// RoleType classifies what kind of work a user takes on.
type RoleType string

const (
	RoleTechnical      RoleType = "technical"
	RoleFunctional     RoleType = "functional"
	RoleServiceManager RoleType = "service_manager"
)

// User is the calendar owner that tickets are scheduled against.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         *RoleType
	SpecialtyID  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Specialty is an optional classification attached to users.
type Specialty struct {
	ID        string
	Name      string
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
