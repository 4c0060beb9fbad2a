package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-scheduler/internal/api/dto"
	"github.com/spec-kit/ticket-scheduler/internal/domain"
	"github.com/spec-kit/ticket-scheduler/internal/service"
	apperrors "github.com/spec-kit/ticket-scheduler/pkg/util"
)

// UsersHandler exposes user, specialty and settings lookups.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	var role *domain.RoleType
	if roleStr := c.Query("role"); roleStr != "" {
		r := domain.RoleType(roleStr)
		role = &r
	}
	users, err := h.service.ListUsers(c.UserContext(), role)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetUser GET /users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// ListSpecialties GET /specialties.
func (h *UsersHandler) ListSpecialties(c *fiber.Ctx) error {
	specialties, err := h.service.ListSpecialties(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SpecialtyResponse, 0, len(specialties))
	for _, s := range specialties {
		items = append(items, dto.SpecialtyResponse{ID: s.ID, Name: s.Name, Type: s.Type})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListSettings GET /settings.
func (h *UsersHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.service.ListSettings(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SettingResponse, 0, len(settings))
	for _, s := range settings {
		items = append(items, dto.SettingResponse{
			Key:         s.Key,
			Value:       s.Value,
			Type:        s.Type,
			Description: s.Description,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateSetting PUT /settings/:key.
func (h *UsersHandler) UpdateSetting(c *fiber.Ctx) error {
	var req dto.UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	setting := &domain.Setting{
		Key:         c.Params("key"),
		Value:       req.Value,
		Type:        req.Type,
		Description: req.Description,
	}
	if err := h.service.UpdateSetting(c.UserContext(), setting); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SettingResponse{
		Key:         setting.Key,
		Value:       setting.Value,
		Type:        setting.Type,
		Description: setting.Description,
	}})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		SpecialtyID: user.SpecialtyID,
		CreatedAt:   user.CreatedAt,
	}
}
