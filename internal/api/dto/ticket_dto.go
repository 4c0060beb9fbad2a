package dto

import (
	"time"

	"github.com/spec-kit/ticket-scheduler/internal/domain"
)

// CreateTicketRequest payload. UserID is the assignee; dates use the
// 2006-01-02 layout.
type CreateTicketRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Priority         int     `json:"priority"`
	TotalHours       float64 `json:"total_hours"`
	HoursPerDay      float64 `json:"hours_per_day"`
	UserID           string  `json:"user_id"`
	TechnicalUserID  *string `json:"technical_user_id"`
	FunctionalUserID *string `json:"functional_user_id"`
	StartDate        *string `json:"start_date"`
	BufferDays       int     `json:"buffer_days"`
}

// UpdateTicketRequest payload; omitted fields stay unchanged. NewUserID
// reassigns the ticket to another user's calendar.
type UpdateTicketRequest struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	Priority         *int     `json:"priority"`
	TotalHours       *float64 `json:"total_hours"`
	HoursPerDay      *float64 `json:"hours_per_day"`
	NewUserID        *string  `json:"new_user_id"`
	TechnicalUserID  *string  `json:"technical_user_id"`
	FunctionalUserID *string  `json:"functional_user_id"`
	StartDate        *string  `json:"start_date"`
	BufferDays       *int     `json:"buffer_days"`
	ClearTechnical   bool     `json:"clear_technical"`
	ClearFunctional  bool     `json:"clear_functional"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketSummary response.
type TicketSummary struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Status           domain.TicketStatus `json:"status"`
	Priority         int                 `json:"priority"`
	TotalHours       float64             `json:"total_hours"`
	HoursPerDay      float64             `json:"hours_per_day"`
	UserID           string              `json:"user_id"`
	TechnicalUserID  *string             `json:"technical_user_id"`
	FunctionalUserID *string             `json:"functional_user_id"`
	StartDate        *string             `json:"start_date"`
	CalculatedEnd    *string             `json:"calculated_end_date"`
	BufferDays       int                 `json:"buffer_days"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info with its calendar blocks.
type TicketDetailResponse struct {
	TicketSummary
	Description string               `json:"description"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// AssignmentResponse is one calendar block.
type AssignmentResponse struct {
	ID        string  `json:"id"`
	TicketID  string  `json:"ticket_id"`
	UserID    string  `json:"user_id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Hours     float64 `json:"hours"`
	Priority  int     `json:"priority"`
}

// CheckAvailabilityRequest payload.
type CheckAvailabilityRequest struct {
	UserID     string  `json:"user_id"`
	StartDate  string  `json:"start_date"`
	TotalHours float64 `json:"total_hours"`
}

// ProbeDayResponse is one flagged day in an availability report.
type ProbeDayResponse struct {
	Date           string  `json:"date"`
	AssignedHours  float64 `json:"assigned_hours"`
	AvailableHours float64 `json:"available_hours"`
}

// AvailabilityResponse is the availability report body.
type AvailabilityResponse struct {
	Severity string             `json:"severity"`
	Message  string             `json:"message"`
	FullDays []ProbeDayResponse `json:"full_days"`
	Warnings []ProbeDayResponse `json:"warnings"`
}
