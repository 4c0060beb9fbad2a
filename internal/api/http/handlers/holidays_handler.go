package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-scheduler/internal/api/dto"
	"github.com/spec-kit/ticket-scheduler/internal/domain"
	"github.com/spec-kit/ticket-scheduler/internal/service"
	apperrors "github.com/spec-kit/ticket-scheduler/pkg/util"
)

// HolidaysHandler manages the holiday table.
type HolidaysHandler struct {
	service *service.HolidayService
}

// NewHolidaysHandler constructs handler.
func NewHolidaysHandler(holidayService *service.HolidayService) *HolidaysHandler {
	return &HolidaysHandler{service: holidayService}
}

// ListHolidays GET /holidays.
func (h *HolidaysHandler) ListHolidays(c *fiber.Ctx) error {
	holidays, err := h.service.ListHolidays(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.HolidayResponse, 0, len(holidays))
	for i := range holidays {
		items = append(items, holidayResponse(&holidays[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateHoliday POST /holidays.
func (h *HolidaysHandler) CreateHoliday(c *fiber.Ctx) error {
	input, err := parseHolidayRequest(c)
	if err != nil {
		return err
	}
	holiday, err := h.service.CreateHoliday(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": holidayResponse(holiday)})
}

// UpdateHoliday PUT /holidays/:id.
func (h *HolidaysHandler) UpdateHoliday(c *fiber.Ctx) error {
	input, err := parseHolidayRequest(c)
	if err != nil {
		return err
	}
	holiday, err := h.service.UpdateHoliday(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": holidayResponse(holiday)})
}

// DeleteHoliday DELETE /holidays/:id.
func (h *HolidaysHandler) DeleteHoliday(c *fiber.Ctx) error {
	if err := h.service.DeleteHoliday(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SyncHolidays POST /holidays/sync.
func (h *HolidaysHandler) SyncHolidays(c *fiber.Ctx) error {
	imported, err := h.service.SyncPublicHolidays(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SyncHolidaysResponse{Imported: imported}})
}

func parseHolidayRequest(c *fiber.Ctx) (service.HolidayInput, error) {
	var req dto.HolidayRequest
	if err := c.BodyParser(&req); err != nil {
		return service.HolidayInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return service.HolidayInput{}, apperrors.NewValidationError("invalid date", map[string]any{"layout": dateLayout})
	}
	return service.HolidayInput{
		Date:        date,
		Name:        req.Name,
		Description: req.Description,
		Recurring:   req.Recurring,
	}, nil
}

func holidayResponse(h *domain.Holiday) dto.HolidayResponse {
	return dto.HolidayResponse{
		ID:          h.ID,
		Date:        h.Date.Format(dateLayout),
		Name:        h.Name,
		Description: h.Description,
		Recurring:   h.Recurring,
	}
}
