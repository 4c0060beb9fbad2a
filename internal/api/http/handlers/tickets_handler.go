package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-scheduler/internal/api/dto"
	"github.com/spec-kit/ticket-scheduler/internal/auth"
	"github.com/spec-kit/ticket-scheduler/internal/domain"
	"github.com/spec-kit/ticket-scheduler/internal/repository"
	"github.com/spec-kit/ticket-scheduler/internal/service"
	apperrors "github.com/spec-kit/ticket-scheduler/pkg/util"
)

const dateLayout = "2006-01-02"

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	startDate, err := parseDatePtr(req.StartDate)
	if err != nil {
		return apperrors.NewValidationError("invalid start_date", map[string]any{"layout": dateLayout})
	}

	input := service.TicketCreateInput{
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		TotalHours:       req.TotalHours,
		HoursPerDay:      req.HoursPerDay,
		UserID:           req.UserID,
		TechnicalUserID:  req.TechnicalUserID,
		FunctionalUserID: req.FunctionalUserID,
		StartDate:        startDate,
		BufferDays:       req.BufferDays,
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, blocks, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, blocks)})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	startDate, err := parseDatePtr(req.StartDate)
	if err != nil {
		return apperrors.NewValidationError("invalid start_date", map[string]any{"layout": dateLayout})
	}

	input := service.TicketUpdateInput{
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		TotalHours:       req.TotalHours,
		HoursPerDay:      req.HoursPerDay,
		NewUserID:        req.NewUserID,
		TechnicalUserID:  req.TechnicalUserID,
		FunctionalUserID: req.FunctionalUserID,
		StartDate:        startDate,
		BufferDays:       req.BufferDays,
		ClearTechnical:   req.ClearTechnical,
		ClearFunctional:  req.ClearFunctional,
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// UpdateStatus POST /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	switch req.Status {
	case domain.TicketStatusPending, domain.TicketStatusInProgress, domain.TicketStatusCompleted,
		domain.TicketStatusCancelled, domain.TicketStatusStopped:
	default:
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), principal.User.ID, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			if p, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				filter.Priorities = append(filter.Priorities, p)
			}
		}
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	if creator := c.Query("created_by"); creator != "" {
		filter.CreatedBy = &creator
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseDatePtr(val *string) (*time.Time, error) {
	if val == nil || *val == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:               ticket.ID,
		Title:            ticket.Title,
		Status:           ticket.Status,
		Priority:         ticket.Priority,
		TotalHours:       ticket.TotalHours,
		HoursPerDay:      ticket.HoursPerDay,
		UserID:           ticket.UserID,
		TechnicalUserID:  ticket.TechnicalUserID,
		FunctionalUserID: ticket.FunctionalUserID,
		StartDate:        formatDatePtr(ticket.StartDate),
		CalculatedEnd:    formatDatePtr(ticket.CalculatedEnd),
		BufferDays:       ticket.BufferDays,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, blocks []domain.Assignment) dto.TicketDetailResponse {
	return dto.TicketDetailResponse{
		TicketSummary: ticketSummary(ticket),
		Description:   ticket.Description,
		Assignments:   assignmentResponses(blocks),
	}
}

func assignmentResponses(blocks []domain.Assignment) []dto.AssignmentResponse {
	items := make([]dto.AssignmentResponse, 0, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		items = append(items, dto.AssignmentResponse{
			ID:        b.ID,
			TicketID:  b.TicketID,
			UserID:    b.UserID,
			Date:      b.Date.Format(dateLayout),
			StartTime: b.StartClock(),
			EndTime:   b.EndClock(),
			Hours:     b.Hours,
			Priority:  b.TicketPriority,
		})
	}
	return items
}
