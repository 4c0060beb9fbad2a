package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-scheduler/internal/api/dto"
	"github.com/spec-kit/ticket-scheduler/internal/auth"
	"github.com/spec-kit/ticket-scheduler/internal/scheduling"
	"github.com/spec-kit/ticket-scheduler/internal/service"
	apperrors "github.com/spec-kit/ticket-scheduler/pkg/util"
)

// CalendarHandler exposes per-user calendar views, the availability probe and
// calendar reorganization.
type CalendarHandler struct {
	service *service.TicketService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(ticketService *service.TicketService) *CalendarHandler {
	return &CalendarHandler{service: ticketService}
}

// ListAssignments GET /users/:id/assignments.
func (h *CalendarHandler) ListAssignments(c *fiber.Ctx) error {
	from, err := parseDateQuery(c.Query("from"), time.Now())
	if err != nil {
		return apperrors.NewValidationError("invalid from date", map[string]any{"layout": dateLayout})
	}
	to, err := parseDateQuery(c.Query("to"), from.AddDate(0, 1, 0))
	if err != nil {
		return apperrors.NewValidationError("invalid to date", map[string]any{"layout": dateLayout})
	}

	blocks, err := h.service.ListUserAssignments(c.UserContext(), c.Params("id"), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignmentResponses(blocks)})
}

// CheckAvailability POST /tickets/check-availability.
func (h *CalendarHandler) CheckAvailability(c *fiber.Ctx) error {
	var req dto.CheckAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("user_id required", nil)
	}
	start, err := parseDateQuery(req.StartDate, time.Now())
	if err != nil {
		return apperrors.NewValidationError("invalid start_date", map[string]any{"layout": dateLayout})
	}

	report, err := h.service.CheckAvailability(c.UserContext(), req.UserID, start, req.TotalHours)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": availabilityResponse(report)})
}

// ReorganizeCalendar POST /users/:id/reorganize.
func (h *CalendarHandler) ReorganizeCalendar(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.ReorganizeCalendar(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reorganized": true}})
}

func parseDateQuery(val string, fallback time.Time) (time.Time, error) {
	if val == "" {
		return fallback, nil
	}
	return time.Parse(dateLayout, val)
}

func availabilityResponse(report *scheduling.AvailabilityReport) dto.AvailabilityResponse {
	return dto.AvailabilityResponse{
		Severity: string(report.Severity),
		Message:  report.Message,
		FullDays: probeDayResponses(report.FullDays),
		Warnings: probeDayResponses(report.Warnings),
	}
}

func probeDayResponses(days []scheduling.ProbeDay) []dto.ProbeDayResponse {
	items := make([]dto.ProbeDayResponse, 0, len(days))
	for _, day := range days {
		items = append(items, dto.ProbeDayResponse{
			Date:           day.Date.Format(dateLayout),
			AssignedHours:  day.AssignedHours,
			AvailableHours: day.AvailableHours,
		})
	}
	return items
}
